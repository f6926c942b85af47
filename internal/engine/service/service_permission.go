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
	"github.com/go-pancake/pancake/internal/engine/model"
)

// PermissionService 权限聚合与访问决策
// 无状态，所有方法均为纯函数，输入为已加载的用户图（用户→角色→菜单）
type PermissionService struct{}

func NewPermissionService() *PermissionService {
	return &PermissionService{}
}

// Aggregate 聚合有效身份
// 策略：禁用角色不贡献任何编码。R_SUPER 无条件注入角色编码集合，
// 前端固定依赖该编码渲染顶级角色
func (ps *PermissionService) Aggregate(user *model.User) model.Aggregated {
	agg := model.Aggregated{
		RoleCodes:       make(map[string]struct{}),
		PermissionCodes: make(map[string]struct{}),
	}

	agg.RoleCodes[model.SuperAdminRoleCode] = struct{}{}

	if user == nil {
		return agg
	}

	for _, role := range user.Roles {
		if role == nil || role.IsEnabled != model.RoleEnabled {
			continue
		}
		agg.RoleCodes[role.Code] = struct{}{}
		for _, menu := range role.Menus {
			if menu == nil || menu.Permission == "" {
				continue
			}
			agg.PermissionCodes[menu.Permission] = struct{}{}
		}
	}

	return agg
}

// Authorize 访问决策，返回 nil 表示放行
//
// 决策顺序：
//  1. 用户自身的超级管理员标记 → 放行，短路
//  2. superAdminOnly → 拒绝（仅标记可满足该层级）
//  3. 未要求权限编码 → 放行（仅需认证）
//  4. 实际持有编码为 R_SUPER 的启用角色 → 放行
//  5. 要求的编码在聚合权限集合中 → 放行
//  6. 拒绝，携带缺失的编码
//
// 第 4 步检查的是真实角色绑定，而不是 Aggregate 注入后的集合，
// 否则注入的 R_SUPER 会让所有检查恒通过
func (ps *PermissionService) Authorize(user *model.User, requiredPermission string, superAdminOnly bool) error {
	if user != nil && user.IsSuperAdmin == 1 {
		return nil
	}

	if superAdminOnly {
		return ErrInsufficientPrivilege
	}

	if requiredPermission == "" {
		return nil
	}

	if user != nil {
		for _, role := range user.Roles {
			if role != nil && role.IsEnabled == model.RoleEnabled && role.Code == model.SuperAdminRoleCode {
				return nil
			}
		}
	}

	agg := ps.Aggregate(user)
	if _, ok := agg.PermissionCodes[requiredPermission]; ok {
		return nil
	}

	return &MissingPermissionError{Code: requiredPermission}
}
