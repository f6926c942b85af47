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

package service

import (
	"context"
	"sort"

	"github.com/go-pancake/pancake/internal/engine/consts"
	"github.com/go-pancake/pancake/internal/engine/model"
	"github.com/go-pancake/pancake/internal/engine/repo"
	"github.com/go-pancake/pancake/pkg/id"
)

// fallbackComponent 菜单未配置组件引用时的兜底值
const fallbackComponent = "basic"

// MenuService 菜单管理与路由树构建
type MenuService struct {
	menuRepo  repo.IMenuRepository
	snowflake *id.Snowflake
}

func NewMenuService(menuRepo repo.IMenuRepository, snowflake *id.Snowflake) *MenuService {
	return &MenuService{
		menuRepo:  menuRepo,
		snowflake: snowflake,
	}
}

// CollectNavigableMenus 汇总身份可见的导航菜单
// 与聚合器同样的严格策略：禁用角色被跳过。按菜单 ID 去重（同一菜单
// 经多个角色可达只计一次），仅保留启用的目录与页面，按钮不入树
func (ms *MenuService) CollectNavigableMenus(user *model.User) []*model.Menu {
	if user == nil {
		return nil
	}

	seen := make(map[int64]struct{})
	var menus []*model.Menu
	for _, role := range user.Roles {
		if role == nil || role.IsEnabled != model.RoleEnabled {
			continue
		}
		for _, menu := range role.Menus {
			if menu == nil {
				continue
			}
			if _, dup := seen[menu.ID]; dup {
				continue
			}
			seen[menu.ID] = struct{}{}
			if menu.IsEnabled != model.MenuEnabled {
				continue
			}
			if menu.MenuType != model.MenuTypeDirectory && menu.MenuType != model.MenuTypePage {
				continue
			}
			menus = append(menus, menu)
		}
	}
	return menus
}

// BuildRouteTree 将扁平菜单集合重建为前端路由树
// 子表索引只建一次；每层按 sort_order 稳定升序；访问集保证成环输入
// 也能终止；父节点不在集合中的孤儿被静默丢弃
func (ms *MenuService) BuildRouteTree(menus []*model.Menu, parentId int64) []*model.RouteNode {
	children := make(map[int64][]*model.Menu, len(menus))
	for _, menu := range menus {
		children[menu.ParentId] = append(children[menu.ParentId], menu)
	}
	visited := make(map[int64]struct{}, len(menus))
	return buildRouteSubtree(children, visited, parentId)
}

func buildRouteSubtree(children map[int64][]*model.Menu, visited map[int64]struct{}, parentId int64) []*model.RouteNode {
	bucket := children[parentId]
	if len(bucket) == 0 {
		return nil
	}

	sorted := make([]*model.Menu, len(bucket))
	copy(sorted, bucket)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	var nodes []*model.RouteNode
	for _, menu := range sorted {
		if _, dup := visited[menu.ID]; dup {
			continue
		}
		visited[menu.ID] = struct{}{}

		node := &model.RouteNode{
			Name:      menu.RouteName,
			Path:      menu.RoutePath,
			Component: menu.Component,
			Meta:      buildRouteMeta(menu),
		}
		if node.Component == "" {
			node.Component = fallbackComponent
		}
		// 为空时整体省略 children，前端据字段存在性区分叶子
		if sub := buildRouteSubtree(children, visited, menu.ID); len(sub) > 0 {
			node.Children = sub
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func buildRouteMeta(menu *model.Menu) model.RouteMeta {
	meta := model.RouteMeta{
		Title:        menu.MenuName,
		I18nKey:      menu.I18nKey,
		Order:        menu.Order,
		RequiresAuth: true,
		HideInMenu:   menu.IsVisible != model.MenuVisible,
		KeepAlive:    menu.IsKeepAlive == 1,
		ActiveMenu:   menu.ActiveMenu,
		MultiTab:     menu.MultiTab == 1,
	}
	// iconType 2 表示本地图标
	if menu.IconType == "2" {
		meta.LocalIcon = menu.Icon
	} else {
		meta.Icon = menu.Icon
	}
	return meta
}

// BuildUserRoutes 构建身份的路由响应
func (ms *MenuService) BuildUserRoutes(user *model.User) *model.UserRoutesResp {
	routes := ms.BuildRouteTree(ms.CollectNavigableMenus(user), model.RootMenuParentId)
	if routes == nil {
		routes = []*model.RouteNode{}
	}
	return &model.UserRoutesResp{
		Home:   consts.HomeRoute,
		Routes: routes,
	}
}

// MenuTreeNode 管理端菜单树节点，包含按钮与禁用节点
type MenuTreeNode struct {
	*model.Menu
	Children []*MenuTreeNode `json:"children,omitempty"`
}

// GetMenuTree 管理端完整菜单树
func (ms *MenuService) GetMenuTree(ctx context.Context) ([]*MenuTreeNode, error) {
	menus, err := ms.menuRepo.GetAllMenus(ctx)
	if err != nil {
		return nil, err
	}

	children := make(map[int64][]*model.Menu, len(menus))
	for _, menu := range menus {
		children[menu.ParentId] = append(children[menu.ParentId], menu)
	}
	visited := make(map[int64]struct{}, len(menus))
	tree := buildManageSubtree(children, visited, model.RootMenuParentId)
	if tree == nil {
		tree = []*MenuTreeNode{}
	}
	return tree, nil
}

func buildManageSubtree(children map[int64][]*model.Menu, visited map[int64]struct{}, parentId int64) []*MenuTreeNode {
	bucket := children[parentId]
	if len(bucket) == 0 {
		return nil
	}

	sorted := make([]*model.Menu, len(bucket))
	copy(sorted, bucket)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	var nodes []*MenuTreeNode
	for _, menu := range sorted {
		if _, dup := visited[menu.ID]; dup {
			continue
		}
		visited[menu.ID] = struct{}{}

		node := &MenuTreeNode{Menu: menu}
		node.Children = buildManageSubtree(children, visited, menu.ID)
		nodes = append(nodes, node)
	}
	return nodes
}

// AddMenu 新增菜单
func (ms *MenuService) AddMenu(ctx context.Context, req *model.AddMenuReq) error {
	menu := &model.Menu{
		ParentId:   req.ParentId,
		MenuType:   req.MenuType,
		MenuName:   req.MenuName,
		RouteName:  req.RouteName,
		RoutePath:  req.RoutePath,
		Component:  req.Component,
		Icon:       req.Icon,
		IconType:   req.IconType,
		I18nKey:    req.I18nKey,
		Permission: req.Permission,
		Order:      req.Order,
		IsVisible:  model.MenuVisible,
		IsEnabled:  model.MenuEnabled,
		ActiveMenu: req.ActiveMenu,
	}
	menu.ID = ms.snowflake.NextId()
	if req.IsVisible != nil {
		menu.IsVisible = *req.IsVisible
	}
	if req.IsKeepAlive != nil {
		menu.IsKeepAlive = *req.IsKeepAlive
	}
	if req.IsEnabled != nil {
		menu.IsEnabled = *req.IsEnabled
	}
	if req.MultiTab != nil {
		menu.MultiTab = *req.MultiTab
	}
	return ms.menuRepo.CreateMenu(ctx, menu)
}

// UpdateMenu 更新菜单，空指针字段不更新
func (ms *MenuService) UpdateMenu(ctx context.Context, menuId int64, req *model.UpdateMenuReq) error {
	menu, err := ms.menuRepo.GetMenuById(ctx, menuId)
	if err != nil {
		return err
	}
	if menu == nil {
		return ErrMenuNotFound
	}

	updates := make(map[string]any)
	if req.ParentId != nil {
		updates["parent_id"] = *req.ParentId
	}
	if req.MenuName != nil {
		updates["menu_name"] = *req.MenuName
	}
	if req.RouteName != nil {
		updates["route_name"] = *req.RouteName
	}
	if req.RoutePath != nil {
		updates["route_path"] = *req.RoutePath
	}
	if req.Component != nil {
		updates["component"] = *req.Component
	}
	if req.Icon != nil {
		updates["icon"] = *req.Icon
	}
	if req.IconType != nil {
		updates["icon_type"] = *req.IconType
	}
	if req.I18nKey != nil {
		updates["i18n_key"] = *req.I18nKey
	}
	if req.Permission != nil {
		updates["permission"] = *req.Permission
	}
	if req.Order != nil {
		updates["sort_order"] = *req.Order
	}
	if req.IsVisible != nil {
		updates["is_visible"] = *req.IsVisible
	}
	if req.IsKeepAlive != nil {
		updates["is_keep_alive"] = *req.IsKeepAlive
	}
	if req.IsEnabled != nil {
		updates["is_enabled"] = *req.IsEnabled
	}
	if req.ActiveMenu != nil {
		updates["active_menu"] = *req.ActiveMenu
	}
	if req.MultiTab != nil {
		updates["multi_tab"] = *req.MultiTab
	}
	if len(updates) == 0 {
		return nil
	}
	return ms.menuRepo.UpdateMenu(ctx, menuId, updates)
}

// DeleteMenu 删除菜单，仍有子菜单时拒绝
func (ms *MenuService) DeleteMenu(ctx context.Context, menuId int64) error {
	menu, err := ms.menuRepo.GetMenuById(ctx, menuId)
	if err != nil {
		return err
	}
	if menu == nil {
		return ErrMenuNotFound
	}

	count, err := ms.menuRepo.CountChildren(ctx, menuId)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrMenuHasChildren
	}
	return ms.menuRepo.DeleteMenu(ctx, menuId)
}
