package middleware_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-pancake/pancake/internal/engine/model"
	"github.com/go-pancake/pancake/internal/engine/service"
	httpx "github.com/go-pancake/pancake/pkg/http"
	"github.com/go-pancake/pancake/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

func newPermApp(t *testing.T, user *model.User, guard fiber.Handler) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Get("/guarded",
		func(c *fiber.Ctx) error {
			if user != nil {
				c.Locals(middleware.IdentityKey, user)
			}
			return c.Next()
		},
		guard,
		func(c *fiber.Ctx) error {
			return c.SendString("ok")
		})
	return app
}

func grantedUser(id int64, permissions ...string) *model.User {
	menus := make([]*model.Menu, 0, len(permissions))
	for i, perm := range permissions {
		menu := &model.Menu{
			MenuType:   model.MenuTypeButton,
			Permission: perm,
			IsEnabled:  model.MenuEnabled,
		}
		menu.ID = int64(1000 + i)
		menus = append(menus, menu)
	}
	role := &model.Role{
		Code:      "R_OPS",
		IsEnabled: model.RoleEnabled,
		Menus:     menus,
	}
	role.ID = 500
	user := &model.User{
		Username:  "ops",
		IsEnabled: model.UserEnabled,
		Roles:     []*model.Role{role},
	}
	user.ID = id
	return user
}

func TestRequirePermissionGranted(t *testing.T) {
	permSvc := service.NewPermissionService()
	app := newPermApp(t, grantedUser(7, "sys:user:list"), middleware.RequirePermission(permSvc, "sys:user:list"))

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok" {
		t.Fatalf("expected pass-through, got %q", body)
	}
}

func TestRequirePermissionDenied(t *testing.T) {
	permSvc := service.NewPermissionService()
	app := newPermApp(t, grantedUser(7, "sys:user:list"), middleware.RequirePermission(permSvc, "sys:user:delete"))

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	rep := decodeErr(t, resp.Body)
	if rep.ErrCode != httpx.PermissionDenied.Code {
		t.Fatalf("expected code %d, got %d", httpx.PermissionDenied.Code, rep.ErrCode)
	}
	msg, _ := rep.ErrMsg.(string)
	if !strings.Contains(msg, "sys:user:delete") {
		t.Fatalf("expected missing code in message, got %q", msg)
	}
}

func TestRequirePermissionNoIdentity(t *testing.T) {
	permSvc := service.NewPermissionService()
	app := newPermApp(t, nil, middleware.RequirePermission(permSvc, "sys:user:list"))

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	rep := decodeErr(t, resp.Body)
	if rep.ErrCode != httpx.Unauthorized.Code {
		t.Fatalf("expected code %d, got %d", httpx.Unauthorized.Code, rep.ErrCode)
	}
}

func TestRequireSuperAdmin(t *testing.T) {
	permSvc := service.NewPermissionService()

	admin := grantedUser(1)
	admin.IsSuperAdmin = 1
	app := newPermApp(t, admin, middleware.RequireSuperAdmin(permSvc))
	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok" {
		t.Fatalf("expected super admin pass-through, got %q", body)
	}

	app = newPermApp(t, grantedUser(7, "sys:user:list"), middleware.RequireSuperAdmin(permSvc))
	resp, err = app.Test(httptest.NewRequest("GET", "/guarded", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	rep := decodeErr(t, resp.Body)
	if rep.ErrCode != httpx.PermissionDenied.Code {
		t.Fatalf("expected code %d, got %d", httpx.PermissionDenied.Code, rep.ErrCode)
	}
}
