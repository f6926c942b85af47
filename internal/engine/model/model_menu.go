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

package model

// Menu 菜单表，目录/页面构成导航树，按钮只携带权限编码
type Menu struct {
	BaseModel
	ParentId    int64  `gorm:"column:parent_id;index;default:0" json:"parentId,string"` // 父菜单ID，0 表示顶级
	MenuType    int    `gorm:"column:menu_type;not null" json:"menuType"`               // 1: 目录, 2: 页面, 3: 按钮
	MenuName    string `gorm:"column:menu_name;not null" json:"menuName"`               // 菜单名称（标题）
	RouteName   string `gorm:"column:route_name" json:"routeName"`                      // 前端路由名
	RoutePath   string `gorm:"column:route_path" json:"routePath"`                      // 前端路由路径
	Component   string `gorm:"column:component" json:"component"`                       // 组件引用，为空时回退 basic
	Icon        string `gorm:"column:icon" json:"icon"`                                 // 图标
	IconType    string `gorm:"column:icon_type" json:"iconType"`                        // 1: iconify, 2: local
	I18nKey     string `gorm:"column:i18n_key" json:"i18nKey"`                          // 国际化 key
	Permission  string `gorm:"column:permission;index" json:"permission"`               // 权限编码，通常仅按钮携带
	Order       int    `gorm:"column:sort_order;default:0" json:"order"`                // 排序，越小越靠前
	IsVisible   int    `gorm:"column:is_visible;default:1" json:"isVisible"`            // 0: 隐藏, 1: 显示
	IsKeepAlive int    `gorm:"column:is_keep_alive;default:0" json:"keepAlive"`         // 0: 否, 1: 是
	IsEnabled   int    `gorm:"column:is_enabled;default:1" json:"status"`               // 0: 禁用, 1: 启用
	ActiveMenu  string `gorm:"column:active_menu" json:"activeMenu"`                    // 高亮菜单路由名
	MultiTab    int    `gorm:"column:multi_tab;default:0" json:"multiTab"`              // 0: 否, 1: 是
}

func (Menu) TableName() string {
	return "t_menu"
}

// 菜单类型常量
const (
	MenuTypeDirectory = 1 // 目录
	MenuTypePage      = 2 // 页面
	MenuTypeButton    = 3 // 按钮
)

// RootMenuParentId 顶级菜单的 parent_id
const RootMenuParentId int64 = 0

// 菜单可见性常量
const (
	MenuVisible   = 1
	MenuInvisible = 0
)

// 菜单启用状态常量
const (
	MenuEnabled  = 1
	MenuDisabled = 0
)

// AddMenuReq 新增菜单请求
type AddMenuReq struct {
	ParentId    int64  `json:"parentId,string"`
	MenuType    int    `json:"menuType"`
	MenuName    string `json:"menuName"`
	RouteName   string `json:"routeName"`
	RoutePath   string `json:"routePath"`
	Component   string `json:"component"`
	Icon        string `json:"icon"`
	IconType    string `json:"iconType"`
	I18nKey     string `json:"i18nKey"`
	Permission  string `json:"permission"`
	Order       int    `json:"order"`
	IsVisible   *int   `json:"isVisible"`
	IsKeepAlive *int   `json:"keepAlive"`
	IsEnabled   *int   `json:"status"`
	ActiveMenu  string `json:"activeMenu"`
	MultiTab    *int   `json:"multiTab"`
}

// UpdateMenuReq 更新菜单请求，空指针字段不更新
type UpdateMenuReq struct {
	ParentId    *int64  `json:"parentId,omitempty,string"`
	MenuName    *string `json:"menuName,omitempty"`
	RouteName   *string `json:"routeName,omitempty"`
	RoutePath   *string `json:"routePath,omitempty"`
	Component   *string `json:"component,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	IconType    *string `json:"iconType,omitempty"`
	I18nKey     *string `json:"i18nKey,omitempty"`
	Permission  *string `json:"permission,omitempty"`
	Order       *int    `json:"order,omitempty"`
	IsVisible   *int    `json:"isVisible,omitempty"`
	IsKeepAlive *int    `json:"keepAlive,omitempty"`
	IsEnabled   *int    `json:"status,omitempty"`
	ActiveMenu  *string `json:"activeMenu,omitempty"`
	MultiTab    *int    `json:"multiTab,omitempty"`
}
