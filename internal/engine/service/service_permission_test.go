package service

import (
	"errors"
	"testing"

	"github.com/go-pancake/pancake/internal/engine/model"
)

func makeMenu(id int64, menuType int, permission string) *model.Menu {
	m := &model.Menu{
		MenuType:   menuType,
		Permission: permission,
		IsVisible:  model.MenuVisible,
		IsEnabled:  model.MenuEnabled,
	}
	m.ID = id
	return m
}

func makeRole(id int64, code string, enabled int, menus ...*model.Menu) *model.Role {
	r := &model.Role{
		Name:      code,
		Code:      code,
		IsEnabled: enabled,
		Menus:     menus,
	}
	r.ID = id
	return r
}

func makeUser(id int64, roles ...*model.Role) *model.User {
	u := &model.User{
		Username:  "tester",
		IsEnabled: model.UserEnabled,
		Roles:     roles,
	}
	u.ID = id
	return u
}

func TestAggregateZeroRoles(t *testing.T) {
	ps := NewPermissionService()
	agg := ps.Aggregate(makeUser(1))

	if len(agg.PermissionCodes) != 0 {
		t.Errorf("expected empty permission codes, got %v", agg.PermissionList())
	}
	if len(agg.RoleCodes) != 1 {
		t.Errorf("expected only the injected marker, got %v", agg.RoleList())
	}
	if _, ok := agg.RoleCodes[model.SuperAdminRoleCode]; !ok {
		t.Error("marker role code not injected")
	}
}

func TestAggregateSkipsDisabledRoles(t *testing.T) {
	ps := NewPermissionService()
	user := makeUser(1,
		makeRole(10, "EDITOR", model.RoleEnabled, makeMenu(100, model.MenuTypeButton, "doc:edit")),
		makeRole(11, "AUDITOR", model.RoleDisabled, makeMenu(101, model.MenuTypeButton, "doc:audit")),
	)

	agg := ps.Aggregate(user)
	if _, ok := agg.PermissionCodes["doc:edit"]; !ok {
		t.Error("enabled role permission missing")
	}
	if _, ok := agg.PermissionCodes["doc:audit"]; ok {
		t.Error("disabled role must not contribute permissions")
	}
	if _, ok := agg.RoleCodes["AUDITOR"]; ok {
		t.Error("disabled role must not contribute its code")
	}
}

func TestAggregateDeduplicates(t *testing.T) {
	ps := NewPermissionService()
	shared := makeMenu(100, model.MenuTypeButton, "doc:edit")
	user := makeUser(1,
		makeRole(10, "EDITOR", model.RoleEnabled, shared),
		makeRole(11, "WRITER", model.RoleEnabled, shared, makeMenu(101, model.MenuTypeButton, "doc:edit")),
	)

	agg := ps.Aggregate(user)
	if len(agg.PermissionCodes) != 1 {
		t.Errorf("expected one deduplicated code, got %v", agg.PermissionList())
	}
}

func TestAggregateIdempotent(t *testing.T) {
	ps := NewPermissionService()
	user := makeUser(1, makeRole(10, "EDITOR", model.RoleEnabled, makeMenu(100, model.MenuTypeButton, "doc:edit")))

	first := ps.Aggregate(user)
	second := ps.Aggregate(user)
	if len(first.RoleCodes) != len(second.RoleCodes) || len(first.PermissionCodes) != len(second.PermissionCodes) {
		t.Error("aggregate must be idempotent on the same loaded identity")
	}
	for code := range first.PermissionCodes {
		if _, ok := second.PermissionCodes[code]; !ok {
			t.Errorf("second aggregation missing %q", code)
		}
	}
}

func TestAuthorizeSuperAdminAttribute(t *testing.T) {
	ps := NewPermissionService()
	user := makeUser(1)
	user.IsSuperAdmin = 1

	if err := ps.Authorize(user, "anything:at:all", false); err != nil {
		t.Errorf("super admin attribute must short-circuit: %v", err)
	}
	if err := ps.Authorize(user, "", true); err != nil {
		t.Errorf("super admin attribute must satisfy the super-admin-only tier: %v", err)
	}
}

func TestAuthorizeSuperAdminOnlyTier(t *testing.T) {
	ps := NewPermissionService()
	// 即使实际持有 R_SUPER 角色，superAdminOnly 也只认用户标记
	user := makeUser(1, makeRole(10, model.SuperAdminRoleCode, model.RoleEnabled))

	err := ps.Authorize(user, "", true)
	if !errors.Is(err, ErrInsufficientPrivilege) {
		t.Errorf("expected ErrInsufficientPrivilege, got %v", err)
	}
}

func TestAuthorizeUnsetPermission(t *testing.T) {
	ps := NewPermissionService()
	if err := ps.Authorize(makeUser(1), "", false); err != nil {
		t.Errorf("authenticated-only endpoint must allow: %v", err)
	}
}

func TestAuthorizeMarkerRoleBypass(t *testing.T) {
	ps := NewPermissionService()
	user := makeUser(1, makeRole(10, model.SuperAdminRoleCode, model.RoleEnabled))

	if err := ps.Authorize(user, "doc:delete", false); err != nil {
		t.Errorf("marker role must bypass granular checks: %v", err)
	}
}

func TestAuthorizeDisabledMarkerRoleNoBypass(t *testing.T) {
	ps := NewPermissionService()
	user := makeUser(1, makeRole(10, model.SuperAdminRoleCode, model.RoleDisabled))

	err := ps.Authorize(user, "doc:delete", false)
	var missing *MissingPermissionError
	if !errors.As(err, &missing) {
		t.Fatalf("disabled marker role must not bypass, got %v", err)
	}
}

func TestAuthorizeMissingPermission(t *testing.T) {
	ps := NewPermissionService()
	user := makeUser(1, makeRole(10, "EDITOR", model.RoleEnabled, makeMenu(100, model.MenuTypeButton, "doc:edit")))

	err := ps.Authorize(user, "doc:delete", false)
	var missing *MissingPermissionError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingPermissionError, got %v", err)
	}
	if missing.Code != "doc:delete" {
		t.Errorf("denial must carry the offending code, got %q", missing.Code)
	}
}

// 端到端场景：EDITOR 角色，页面 M1 + 按钮 M2(doc:edit)
func TestPermissionEndToEnd(t *testing.T) {
	ps := NewPermissionService()
	ms := NewMenuService(nil, nil)

	m1 := makeMenu(1, model.MenuTypePage, "")
	m1.RouteName = "docs"
	m1.RoutePath = "/docs"
	m1.Order = 1
	m2 := makeMenu(2, model.MenuTypeButton, "doc:edit")
	m2.ParentId = 1

	user := makeUser(7, makeRole(10, "EDITOR", model.RoleEnabled, m1, m2))

	agg := ps.Aggregate(user)
	if _, ok := agg.RoleCodes["EDITOR"]; !ok {
		t.Error("role code EDITOR missing")
	}
	if _, ok := agg.RoleCodes[model.SuperAdminRoleCode]; !ok {
		t.Error("injected marker missing")
	}
	if len(agg.PermissionCodes) != 1 {
		t.Errorf("expected exactly doc:edit, got %v", agg.PermissionList())
	}

	navigable := ms.CollectNavigableMenus(user)
	if len(navigable) != 1 || navigable[0].ID != 1 {
		t.Fatalf("button must be excluded from navigation, got %d menus", len(navigable))
	}

	routes := ms.BuildRouteTree(navigable, model.RootMenuParentId)
	if len(routes) != 1 {
		t.Fatalf("expected one route, got %d", len(routes))
	}
	if routes[0].Children != nil {
		t.Error("leaf route must omit children entirely")
	}

	if err := ps.Authorize(user, "doc:edit", false); err != nil {
		t.Errorf("doc:edit must be allowed: %v", err)
	}
	err := ps.Authorize(user, "doc:delete", false)
	var missing *MissingPermissionError
	if !errors.As(err, &missing) || missing.Code != "doc:delete" {
		t.Errorf("doc:delete must be denied with the code, got %v", err)
	}
}
