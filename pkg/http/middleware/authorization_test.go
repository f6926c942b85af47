package middleware_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/bytedance/sonic"
	"github.com/go-pancake/pancake/internal/engine/model"
	"github.com/go-pancake/pancake/internal/engine/service"
	httpx "github.com/go-pancake/pancake/pkg/http"
	"github.com/go-pancake/pancake/pkg/http/middleware"
	"github.com/go-pancake/pancake/pkg/log"
	"github.com/gofiber/fiber/v2"
	goJwt "github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

func TestMain(m *testing.M) {
	log.MustInit(log.SetDefaults())
	os.Exit(m.Run())
}

// stubResolver 按固定 token 返回固定身份
type stubResolver struct {
	user *model.User
	err  error
}

func (s *stubResolver) ResolveToken(ctx context.Context, token string) (*model.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func enabledUser(id int64) *model.User {
	user := &model.User{
		Username:  "tester",
		IsEnabled: model.UserEnabled,
	}
	user.ID = id
	return user
}

func newAuthApp(t *testing.T, resolver middleware.IdentityResolver, client *redis.Client) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Get("/whoami", middleware.AuthorizationMiddleware(resolver, client, "pancake:token:"), func(c *fiber.Ctx) error {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(user.Username)
	})
	return app
}

func decodeErr(t *testing.T, body io.Reader) httpx.ResponseErr {
	t.Helper()
	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var rep httpx.ResponseErr
	if err := sonic.Unmarshal(raw, &rep); err != nil {
		t.Fatalf("unmarshal %q: %v", raw, err)
	}
	return rep
}

func TestAuthorizationPassThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	if err := mr.Set("pancake:token:42", "{}"); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	app := newAuthApp(t, &stubResolver{user: enabledUser(42)}, client)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "tester" {
		t.Fatalf("expected resolved identity, got %q", body)
	}
}

func TestAuthorizationMissingHeader(t *testing.T) {
	app := newAuthApp(t, &stubResolver{user: enabledUser(42)}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	rep := decodeErr(t, resp.Body)
	if rep.ErrCode != httpx.TokenBeEmpty.Code {
		t.Fatalf("expected code %d, got %d", httpx.TokenBeEmpty.Code, rep.ErrCode)
	}
}

func TestAuthorizationBadScheme(t *testing.T) {
	app := newAuthApp(t, &stubResolver{user: enabledUser(42)}, nil)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	rep := decodeErr(t, resp.Body)
	if rep.ErrCode != httpx.TokenFormatIncorrect.Code {
		t.Fatalf("expected code %d, got %d", httpx.TokenFormatIncorrect.Code, rep.ErrCode)
	}
}

func TestAuthorizationExpiredToken(t *testing.T) {
	resolver := &stubResolver{err: errors.Join(service.ErrInvalidCredential, goJwt.ErrTokenExpired)}
	app := newAuthApp(t, resolver, nil)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer stale")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	rep := decodeErr(t, resp.Body)
	if rep.ErrCode != httpx.TokenExpired.Code {
		t.Fatalf("expected code %d, got %d", httpx.TokenExpired.Code, rep.ErrCode)
	}
}

func TestAuthorizationDisabledAccount(t *testing.T) {
	app := newAuthApp(t, &stubResolver{err: service.ErrAccountDisabled}, nil)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	rep := decodeErr(t, resp.Body)
	if rep.ErrCode != httpx.AccountDisabled.Code {
		t.Fatalf("expected code %d, got %d", httpx.AccountDisabled.Code, rep.ErrCode)
	}
}

func TestAuthorizationInvalidToken(t *testing.T) {
	resolver := &stubResolver{err: errors.Join(service.ErrInvalidCredential, goJwt.ErrTokenMalformed)}
	app := newAuthApp(t, resolver, nil)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	rep := decodeErr(t, resp.Body)
	if rep.ErrCode != httpx.InvalidToken.Code {
		t.Fatalf("expected code %d, got %d", httpx.InvalidToken.Code, rep.ErrCode)
	}
}

func TestAuthorizationUpstreamFailure(t *testing.T) {
	app := newAuthApp(t, &stubResolver{err: fmt.Errorf("dial tcp: connection refused")}, nil)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	rep := decodeErr(t, resp.Body)
	if rep.ErrCode != httpx.InternalError.Code {
		t.Fatalf("expected code %d, got %d", httpx.InternalError.Code, rep.ErrCode)
	}
}

func TestAuthorizationRevokedSession(t *testing.T) {
	// Redis 中没有会话, 即视为已登出
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	app := newAuthApp(t, &stubResolver{user: enabledUser(42)}, client)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	rep := decodeErr(t, resp.Body)
	if rep.ErrCode != httpx.TokenExpired.Code {
		t.Fatalf("expected code %d, got %d", httpx.TokenExpired.Code, rep.ErrCode)
	}
}
