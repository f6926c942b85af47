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

// Role 角色表
type Role struct {
	BaseModel
	Name        string  `gorm:"column:name;not null;uniqueIndex" json:"roleName"`      // 角色名称
	Code        string  `gorm:"column:code;not null;uniqueIndex" json:"roleCode"`      // 角色编码，大小写敏感
	Description string  `gorm:"column:description" json:"roleDesc"`                    // 角色描述
	IsEnabled   int     `gorm:"column:is_enabled;not null;default:1" json:"status"`    // 0: disabled, 1: enabled
	Menus       []*Menu `gorm:"many2many:t_role_menu_binding;joinForeignKey:RoleId;joinReferences:MenuId" json:"menus,omitempty"`
}

func (Role) TableName() string {
	return "t_role"
}

// SuperAdminRoleCode 超级管理员角色编码
// 聚合时无条件注入（前端固定依赖该编码），授权时命中即直通
const SuperAdminRoleCode = "R_SUPER"

// 角色启用状态常量
const (
	RoleEnabled  = 1
	RoleDisabled = 0
)

// AddRoleReq 新增角色请求
type AddRoleReq struct {
	Name        string  `json:"roleName"`
	Code        string  `json:"roleCode"`
	Description string  `json:"roleDesc"`
	IsEnabled   *int    `json:"status"`
	MenuIds     []int64 `json:"menuIds"` // 授权菜单，含按钮
}

// UpdateRoleReq 更新角色请求，空指针字段不更新
type UpdateRoleReq struct {
	Name        *string `json:"roleName,omitempty"`
	Description *string `json:"roleDesc,omitempty"`
	IsEnabled   *int    `json:"status,omitempty"`
	MenuIds     []int64 `json:"menuIds,omitempty"` // 非 nil 时整体替换
}

// RoleListReq 角色分页查询请求
type RoleListReq struct {
	PageReq
	Name   string `query:"roleName"`
	Code   string `query:"roleCode"`
	Status *int   `query:"status"`
}

// RoleRecord 角色列表行
type RoleRecord struct {
	Id          string `json:"id"`
	Name        string `json:"roleName"`
	Code        string `json:"roleCode"`
	Description string `json:"roleDesc"`
	Status      int    `json:"status"`
	CreatedAt   string `json:"createTime"`
}
