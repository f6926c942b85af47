package model

/**
 * @file: model_route.go
 * @description: 前端路由树结构
 */

// RouteMeta 路由元信息
type RouteMeta struct {
	Title        string `json:"title"`
	I18nKey      string `json:"i18nKey,omitempty"`
	Icon         string `json:"icon,omitempty"`
	LocalIcon    string `json:"localIcon,omitempty"`
	Order        int    `json:"order"`
	RequiresAuth bool   `json:"requiresAuth"`
	HideInMenu   bool   `json:"hideInMenu"`
	KeepAlive    bool   `json:"keepAlive"`
	ActiveMenu   string `json:"activeMenu,omitempty"`
	MultiTab     bool   `json:"multiTab,omitempty"`
}

// RouteNode 路由树节点
// children 为空时必须整体省略，前端据字段存在性区分叶子
type RouteNode struct {
	Name      string       `json:"name"`
	Path      string       `json:"path"`
	Component string       `json:"component"`
	Meta      RouteMeta    `json:"meta"`
	Children  []*RouteNode `json:"children,omitempty"`
}

// UserRoutesResp 用户路由响应
type UserRoutesResp struct {
	Home   string       `json:"home"`
	Routes []*RouteNode `json:"routes"`
}
