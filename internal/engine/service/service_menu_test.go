package service

import (
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/go-pancake/pancake/internal/engine/model"
)

func navMenu(id, parentId int64, order int) *model.Menu {
	m := &model.Menu{
		ParentId:  parentId,
		MenuType:  model.MenuTypePage,
		MenuName:  "menu",
		RouteName: "route",
		RoutePath: "/route",
		Order:     order,
		IsVisible: model.MenuVisible,
		IsEnabled: model.MenuEnabled,
	}
	m.ID = id
	return m
}

func TestBuildRouteTreeOrdering(t *testing.T) {
	ms := NewMenuService(nil, nil)
	menus := []*model.Menu{
		navMenu(1, model.RootMenuParentId, 2),
		navMenu(2, model.RootMenuParentId, 1),
	}

	routes := ms.BuildRouteTree(menus, model.RootMenuParentId)
	if len(routes) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(routes))
	}
	if routes[0].Meta.Order != 1 || routes[1].Meta.Order != 2 {
		t.Errorf("ascending order violated: %d, %d", routes[0].Meta.Order, routes[1].Meta.Order)
	}
}

func TestBuildRouteTreeStableTies(t *testing.T) {
	ms := NewMenuService(nil, nil)
	a := navMenu(1, model.RootMenuParentId, 0)
	a.RouteName = "first"
	b := navMenu(2, model.RootMenuParentId, 0)
	b.RouteName = "second"

	routes := ms.BuildRouteTree([]*model.Menu{a, b}, model.RootMenuParentId)
	if routes[0].Name != "first" || routes[1].Name != "second" {
		t.Errorf("ties must preserve input order, got %s, %s", routes[0].Name, routes[1].Name)
	}
}

// 展平路由树应还原所有可达节点的父子边，孤儿不出现
func TestBuildRouteTreeRoundTrip(t *testing.T) {
	ms := NewMenuService(nil, nil)
	menus := []*model.Menu{
		navMenu(1, model.RootMenuParentId, 1),
		navMenu(2, 1, 1),
		navMenu(3, 1, 2),
		navMenu(4, 2, 1),
		navMenu(5, 99, 1), // 孤儿：父节点不在集合中
	}
	for _, m := range menus {
		m.RouteName = "r"
	}

	routes := ms.BuildRouteTree(menus, model.RootMenuParentId)

	var count func(nodes []*model.RouteNode) int
	count = func(nodes []*model.RouteNode) int {
		n := len(nodes)
		for _, node := range nodes {
			n += count(node.Children)
		}
		return n
	}
	if got := count(routes); got != 4 {
		t.Errorf("expected 4 reachable nodes, orphan dropped, got %d", got)
	}
}

func TestBuildRouteTreeCycleTerminates(t *testing.T) {
	ms := NewMenuService(nil, nil)
	// 1 → 2 → 1 成环
	menus := []*model.Menu{
		navMenu(1, 2, 1),
		navMenu(2, 1, 1),
		navMenu(3, model.RootMenuParentId, 1),
	}

	routes := ms.BuildRouteTree(menus, model.RootMenuParentId)
	if len(routes) != 1 || routes[0] == nil {
		t.Fatalf("cycle must not reach the root level, got %d roots", len(routes))
	}
}

func TestBuildRouteTreeComponentFallback(t *testing.T) {
	ms := NewMenuService(nil, nil)
	m := navMenu(1, model.RootMenuParentId, 1)
	m.Component = ""

	routes := ms.BuildRouteTree([]*model.Menu{m}, model.RootMenuParentId)
	if routes[0].Component != fallbackComponent {
		t.Errorf("expected fallback component %q, got %q", fallbackComponent, routes[0].Component)
	}
}

func TestBuildRouteTreeLeafOmitsChildren(t *testing.T) {
	ms := NewMenuService(nil, nil)
	routes := ms.BuildRouteTree([]*model.Menu{navMenu(1, model.RootMenuParentId, 1)}, model.RootMenuParentId)

	out, err := sonic.MarshalString(routes[0])
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "\"children\"") {
		t.Errorf("serialized leaf must have no children key: %s", out)
	}
}

func TestBuildRouteTreeMetaFields(t *testing.T) {
	ms := NewMenuService(nil, nil)
	m := navMenu(1, model.RootMenuParentId, 3)
	m.MenuName = "Dashboard"
	m.Icon = "mdi:monitor"
	m.IsVisible = model.MenuInvisible
	m.IsKeepAlive = 1

	meta := ms.BuildRouteTree([]*model.Menu{m}, model.RootMenuParentId)[0].Meta
	if !meta.RequiresAuth {
		t.Error("requiresAuth must always be true")
	}
	if !meta.HideInMenu {
		t.Error("hideInMenu must be the negation of visibility")
	}
	if !meta.KeepAlive {
		t.Error("keepAlive flag lost")
	}
	if meta.Title != "Dashboard" || meta.Icon != "mdi:monitor" || meta.Order != 3 {
		t.Errorf("meta fields mismatched: %+v", meta)
	}
}

func TestBuildRouteTreeLocalIcon(t *testing.T) {
	ms := NewMenuService(nil, nil)
	m := navMenu(1, model.RootMenuParentId, 1)
	m.Icon = "logo"
	m.IconType = "2"

	meta := ms.BuildRouteTree([]*model.Menu{m}, model.RootMenuParentId)[0].Meta
	if meta.LocalIcon != "logo" || meta.Icon != "" {
		t.Errorf("icon type 2 must map to localIcon, got %+v", meta)
	}
}

func TestCollectNavigableMenusDedup(t *testing.T) {
	ms := NewMenuService(nil, nil)
	shared := navMenu(1, model.RootMenuParentId, 1)
	disabled := navMenu(2, model.RootMenuParentId, 2)
	disabled.IsEnabled = model.MenuDisabled

	user := makeUser(1,
		makeRole(10, "A", model.RoleEnabled, shared, disabled),
		makeRole(11, "B", model.RoleEnabled, shared),
	)

	menus := ms.CollectNavigableMenus(user)
	if len(menus) != 1 {
		t.Errorf("expected shared menu once and disabled menu excluded, got %d", len(menus))
	}
}

func TestBuildUserRoutesHome(t *testing.T) {
	ms := NewMenuService(nil, nil)
	resp := ms.BuildUserRoutes(makeUser(1))
	if resp.Home == "" {
		t.Error("home route must be set")
	}
	if resp.Routes == nil {
		t.Error("routes must serialize as an empty list, not null")
	}
}
