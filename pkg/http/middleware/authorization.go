package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/go-pancake/pancake/internal/engine/model"
	"github.com/go-pancake/pancake/internal/engine/service"
	"github.com/go-pancake/pancake/pkg/http"
	"github.com/go-pancake/pancake/pkg/log"
	"github.com/gofiber/fiber/v2"
	goJwt "github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// IdentityKey fiber locals key holding the resolved *model.User
const IdentityKey = "identity"

// IdentityResolver resolves a bearer token into a loaded identity.
// The identity carries its roles and each role's menus.
type IdentityResolver interface {
	ResolveToken(ctx context.Context, token string) (*model.User, error)
}

// AuthorizationMiddleware 认证中间件
// 校验 Bearer Token，检查 Redis 中的会话，解析完整身份（用户+角色+菜单）
// This function is used as the middleware of fiber.
func AuthorizationMiddleware(resolver IdentityResolver, client *redis.Client, keyPrefix string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		aToken := c.Get("Authorization")
		if aToken == "" {
			return http.WithRepErrMsg(c, http.TokenBeEmpty.Code, http.TokenBeEmpty.Msg, c.Path())
		}

		// 按空格分割
		parts := strings.SplitN(aToken, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return http.WithRepErrMsg(c, http.TokenFormatIncorrect.Code, http.TokenFormatIncorrect.Msg, c.Path())
		}

		user, err := resolver.ResolveToken(c.Context(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, goJwt.ErrTokenExpired):
				return http.WithRepErrMsg(c, http.TokenExpired.Code, http.TokenExpired.Msg, c.Path())
			case errors.Is(err, service.ErrAccountDisabled):
				return http.WithRepErrMsg(c, http.AccountDisabled.Code, http.AccountDisabled.Msg, c.Path())
			case errors.Is(err, service.ErrInvalidCredential):
				return http.WithRepErrMsg(c, http.InvalidToken.Code, http.InvalidToken.Msg, c.Path())
			}
			// 数据库等上游错误，不归入认证失败
			log.Errorf("resolve identity failed: %v", err)
			return http.WithRepErrMsg(c, http.InternalError.Code, http.InternalError.Msg, c.Path())
		}

		// 检查 Redis 中是否存在 Token（登出后立即失效）
		if client != nil {
			tokenKey := keyPrefix + user.IdString()
			exists, err := client.Exists(c.Context(), tokenKey).Result()
			if err != nil {
				log.Errorf("redis check token exists failed: %v", err)
				return http.WithRepErrMsg(c, http.InternalError.Code, http.InternalError.Msg, c.Path())
			}
			if exists == 0 {
				return http.WithRepErrMsg(c, http.TokenExpired.Code, http.TokenExpired.Msg, c.Path())
			}
		}

		c.Locals(IdentityKey, user)
		return c.Next()
	}
}

// CurrentUser 从请求上下文取出已解析的身份
func CurrentUser(c *fiber.Ctx) (*model.User, bool) {
	user, ok := c.Locals(IdentityKey).(*model.User)
	return user, ok && user != nil
}
