// Copyright 2025 Pancake Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	"errors"
	"time"

	"github.com/go-pancake/pancake/internal/engine/consts"
	"github.com/go-pancake/pancake/internal/engine/repo"
	"github.com/go-pancake/pancake/internal/engine/service"
	"github.com/go-pancake/pancake/pkg/cache"
	"github.com/go-pancake/pancake/pkg/ctx"
	"github.com/go-pancake/pancake/pkg/database"
	httpx "github.com/go-pancake/pancake/pkg/http"
	"github.com/go-pancake/pancake/pkg/http/middleware"
	"github.com/go-pancake/pancake/pkg/id"
	"github.com/go-pancake/pancake/pkg/log"
	"github.com/go-pancake/pancake/pkg/version"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

/**
 * @file: router.go
 * @description: setup router
 *  		     internal api router, use by web
 */

type Router struct {
	Http *httpx.Http
	Ctx  *ctx.Context

	authService *service.AuthService
	permService *service.PermissionService
	userService *service.UserService
	roleService *service.RoleService
	menuService *service.MenuService
}

func NewRouter(httpConf *httpx.Http, appCtx *ctx.Context, snowflake *id.Snowflake) *Router {
	db := database.NewGormDB(appCtx.DB)
	redisCache := cache.NewRedisCache(appCtx.Redis)

	userRepo := repo.NewUserRepo(db, redisCache)
	roleRepo := repo.NewRoleRepo(db)
	menuRepo := repo.NewMenuRepo(db)

	permService := service.NewPermissionService()

	return &Router{
		Http:        httpConf,
		Ctx:         appCtx,
		authService: service.NewAuthService(userRepo, permService, &httpConf.Auth, snowflake),
		permService: permService,
		userService: service.NewUserService(userRepo, roleRepo, snowflake),
		roleService: service.NewRoleService(roleRepo, menuRepo, snowflake),
		menuService: service.NewMenuService(menuRepo, snowflake),
	}
}

func (rt *Router) Router() *fiber.App {

	app := fiber.New(fiber.Config{
		AppName:      "pancake",
		BodyLimit:    rt.Http.BodyLimit * 1024 * 1024,
		ReadTimeout:  time.Duration(rt.Http.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(rt.Http.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(rt.Http.IdleTimeout) * time.Second,
	})

	// panic recover
	app.Use(middleware.ExceptionMiddleware)

	// cors middleware
	app.Use(middleware.CorsMiddleware())

	// request id
	app.Use(middleware.RequestMiddleware())
	app.Use(middleware.RealIPMiddleware())

	// unified response middleware
	app.Use(middleware.UnifiedResponseMiddleware())

	if rt.Http.AccessLog {
		app.Use(httpx.AccessLogFormat(log.GetLogger().Desugar()))
	}

	if rt.Http.PProf {
		app.Use(pprof.New(pprof.Config{Prefix: "/debug"}))
	}

	if rt.Http.ExposeMetrics {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	auth := middleware.AuthorizationMiddleware(rt.authService, rt.Ctx.Redis, consts.UserTokenKey)

	api := app.Group(rt.Http.ContextPath)
	{
		rt.authRouter(api, auth)
		rt.userRouter(api, auth)
		rt.roleRouter(api, auth)
		rt.menuRouter(api, auth)
	}

	return app
}

// replyServiceError 服务层错误到统一响应码的映射
// 未列出的错误按内部错误处理，不外泄细节
func replyServiceError(c *fiber.Ctx, err error) error {
	var missing *service.MissingPermissionError

	switch {
	case errors.Is(err, service.ErrInvalidCredential):
		return httpx.WithRepErrMsg(c, httpx.InvalidToken.Code, httpx.InvalidToken.Msg, c.Path())
	case errors.Is(err, service.ErrAccountDisabled):
		return httpx.WithRepErrMsg(c, httpx.AccountDisabled.Code, httpx.AccountDisabled.Msg, c.Path())
	case errors.Is(err, service.ErrInsufficientPrivilege):
		return httpx.WithRepErrMsg(c, httpx.PermissionDenied.Code, httpx.PermissionDenied.Msg, c.Path())
	case errors.As(err, &missing):
		return httpx.WithRepErrMsg(c, httpx.PermissionDenied.Code, "Permission denied: "+missing.Code, c.Path())
	case errors.Is(err, service.ErrUserNotFound):
		return httpx.WithRepErrMsg(c, httpx.UserNotExist.Code, httpx.UserNotExist.Msg, c.Path())
	case errors.Is(err, service.ErrUserAlreadyExist):
		return httpx.WithRepErrMsg(c, httpx.UserAlreadyExist.Code, httpx.UserAlreadyExist.Msg, c.Path())
	case errors.Is(err, service.ErrIncorrectPassword):
		return httpx.WithRepErrMsg(c, httpx.UserIncorrectPassword.Code, httpx.UserIncorrectPassword.Msg, c.Path())
	case errors.Is(err, service.ErrRoleNotFound):
		return httpx.WithRepErrMsg(c, httpx.RoleNotExist.Code, httpx.RoleNotExist.Msg, c.Path())
	case errors.Is(err, service.ErrRoleAlreadyExist):
		return httpx.WithRepErrMsg(c, httpx.RoleAlreadyExist.Code, httpx.RoleAlreadyExist.Msg, c.Path())
	case errors.Is(err, service.ErrMenuNotFound):
		return httpx.WithRepErrMsg(c, httpx.MenuNotExist.Code, httpx.MenuNotExist.Msg, c.Path())
	case errors.Is(err, service.ErrMenuHasChildren):
		return httpx.WithRepErrMsg(c, httpx.MenuHasChildren.Code, httpx.MenuHasChildren.Msg, c.Path())
	case errors.Is(err, service.ErrUnsupportedLoginKind):
		return httpx.WithRepErrMsg(c, httpx.UnsupportedLogin.Code, httpx.UnsupportedLogin.Msg, c.Path())
	case errors.Is(err, service.ErrInvalidRefreshToken):
		return httpx.WithRepErrMsg(c, httpx.InValidRefreshToken.Code, httpx.InValidRefreshToken.Msg, c.Path())
	case errors.Is(err, service.ErrBuiltinAdminProtected):
		return httpx.WithRepErrMsg(c, httpx.BuiltinAdminFixed.Code, httpx.BuiltinAdminFixed.Msg, c.Path())
	case errors.Is(err, service.ErrDeleteCurrentUser):
		return httpx.WithRepErrMsg(c, httpx.Forbidden.Code, err.Error(), c.Path())
	default:
		log.Errorf("unexpected service error: %v", err)
		return httpx.WithRepErrMsg(c, httpx.InternalError.Code, httpx.InternalError.Msg, c.Path())
	}
}
