package middleware

import (
	"errors"

	"github.com/go-pancake/pancake/internal/engine/service"
	"github.com/go-pancake/pancake/pkg/http"
	"github.com/gofiber/fiber/v2"
)

// RequirePermission 权限校验中间件
// 要求当前身份聚合后持有指定按钮权限码，超级管理员直接放行
func RequirePermission(permSvc *service.PermissionService, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
		}
		if err := permSvc.Authorize(user, permission, false); err != nil {
			var missing *service.MissingPermissionError
			if errors.As(err, &missing) {
				return http.WithRepErrMsg(c, http.PermissionDenied.Code,
					"Permission denied: "+missing.Code, c.Path())
			}
			if errors.Is(err, service.ErrAccountDisabled) {
				return http.WithRepErrMsg(c, http.AccountDisabled.Code, http.AccountDisabled.Msg, c.Path())
			}
			return http.WithRepErrMsg(c, http.PermissionDenied.Code, http.PermissionDenied.Msg, c.Path())
		}
		return c.Next()
	}
}

// RequireSuperAdmin 仅超级管理员可访问
func RequireSuperAdmin(permSvc *service.PermissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
		}
		if err := permSvc.Authorize(user, "", true); err != nil {
			return http.WithRepErrMsg(c, http.PermissionDenied.Code, http.PermissionDenied.Msg, c.Path())
		}
		return c.Next()
	}
}
