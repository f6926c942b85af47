package router

import (
	"github.com/go-pancake/pancake/internal/engine/consts"
	"github.com/go-pancake/pancake/internal/engine/model"
	"github.com/go-pancake/pancake/pkg/http"
	"github.com/go-pancake/pancake/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

/**
 * @file: router_auth.go
 * @description: auth router
 */

func (rt *Router) authRouter(r fiber.Router, auth fiber.Handler) {
	authGroup := r.Group("/auth")
	{
		authGroup.Post("/login", rt.login)
		authGroup.Post("/register", rt.register)
		authGroup.Get("/refresh", rt.refresh)

		authGroup.Post("/logout", auth, rt.logout)
		authGroup.Get("/getUserInfo", auth, rt.getUserInfo)
		authGroup.Get("/getUserRoutes", auth, rt.getUserRoutes)
	}
}

func (rt *Router) login(c *fiber.Ctx) error {
	var req model.LoginReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, err.Error(), c.Path())
	}

	resp, err := rt.authService.Login(c.Context(), &req)
	if err != nil {
		return replyServiceError(c, err)
	}

	c.Locals(consts.DETAIL, resp)
	return nil
}

func (rt *Router) register(c *fiber.Ctx) error {
	var req model.RegisterReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, err.Error(), c.Path())
	}
	if req.Username == "" || req.Password == "" {
		return http.WithRepErrMsg(c, http.UsernameArePasswordIsRequired.Code, http.UsernameArePasswordIsRequired.Msg, c.Path())
	}

	if err := rt.authService.Register(c.Context(), &req); err != nil {
		return replyServiceError(c, err)
	}

	c.Locals(consts.OPERATION, "")
	return nil
}

func (rt *Router) refresh(c *fiber.Ctx) error {
	refreshToken := c.Query("refreshToken")
	if refreshToken == "" {
		return http.WithRepErrMsg(c, http.InValidRefreshToken.Code, http.InValidRefreshToken.Msg, c.Path())
	}

	resp, err := rt.authService.Refresh(c.Context(), refreshToken)
	if err != nil {
		return replyServiceError(c, err)
	}

	c.Locals(consts.DETAIL, resp)
	return nil
}

func (rt *Router) logout(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
	}

	if err := rt.authService.Logout(c.Context(), user.IdString()); err != nil {
		return replyServiceError(c, err)
	}

	c.Locals(consts.OPERATION, "")
	return nil
}

func (rt *Router) getUserInfo(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
	}

	c.Locals(consts.DETAIL, rt.authService.GetUserInfo(user))
	return nil
}

func (rt *Router) getUserRoutes(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
	}

	c.Locals(consts.DETAIL, rt.menuService.BuildUserRoutes(user))
	return nil
}
