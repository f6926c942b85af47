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

	"github.com/go-pancake/pancake/internal/engine/model"
	"github.com/go-pancake/pancake/internal/engine/repo"
	"github.com/go-pancake/pancake/pkg/id"
)

// RoleService 角色管理
type RoleService struct {
	roleRepo  repo.IRoleRepository
	menuRepo  repo.IMenuRepository
	snowflake *id.Snowflake
}

func NewRoleService(roleRepo repo.IRoleRepository, menuRepo repo.IMenuRepository, snowflake *id.Snowflake) *RoleService {
	return &RoleService{
		roleRepo:  roleRepo,
		menuRepo:  menuRepo,
		snowflake: snowflake,
	}
}

// GetRoleList 分页查询
func (rs *RoleService) GetRoleList(ctx context.Context, req *model.RoleListReq) (*model.PageResult, error) {
	req.Normalize()

	roles, total, err := rs.roleRepo.GetRoleList(ctx, req)
	if err != nil {
		return nil, err
	}

	records := make([]*model.RoleRecord, 0, len(roles))
	for _, role := range roles {
		records = append(records, &model.RoleRecord{
			Id:          role.IdString(),
			Name:        role.Name,
			Code:        role.Code,
			Description: role.Description,
			Status:      role.IsEnabled,
			CreatedAt:   role.CreatedAt.Format(timeLayout),
		})
	}

	return &model.PageResult{
		Records: records,
		Total:   total,
		Current: req.Current,
		Size:    req.Size,
	}, nil
}

// GetAllEnabledRoles 下拉框用的启用角色全量列表
func (rs *RoleService) GetAllEnabledRoles(ctx context.Context) ([]*model.Role, error) {
	return rs.roleRepo.GetAllEnabledRoles(ctx)
}

// GetRoleDetail 角色详情，含授权菜单
func (rs *RoleService) GetRoleDetail(ctx context.Context, roleId int64) (*model.Role, error) {
	role, err := rs.roleRepo.GetRoleById(ctx, roleId)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}
	return role, nil
}

// AddRole 新增角色，编码唯一，可同时授权菜单
func (rs *RoleService) AddRole(ctx context.Context, req *model.AddRoleReq) error {
	existing, err := rs.roleRepo.GetRoleByCode(ctx, req.Code)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrRoleAlreadyExist
	}

	menus, err := rs.resolveMenus(ctx, req.MenuIds)
	if err != nil {
		return err
	}

	role := &model.Role{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		IsEnabled:   model.RoleEnabled,
		Menus:       menus,
	}
	role.ID = rs.snowflake.NextId()
	if req.IsEnabled != nil {
		role.IsEnabled = *req.IsEnabled
	}
	return rs.roleRepo.CreateRole(ctx, role)
}

// UpdateRole 更新角色，MenuIds 非 nil 时整体替换菜单授权
func (rs *RoleService) UpdateRole(ctx context.Context, roleId int64, req *model.UpdateRoleReq) error {
	role, err := rs.roleRepo.GetRoleById(ctx, roleId)
	if err != nil {
		return err
	}
	if role == nil {
		return ErrRoleNotFound
	}

	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsEnabled != nil {
		updates["is_enabled"] = *req.IsEnabled
	}
	if len(updates) > 0 {
		if err := rs.roleRepo.UpdateRole(ctx, roleId, updates); err != nil {
			return err
		}
	}

	if req.MenuIds != nil {
		menus, err := rs.resolveMenus(ctx, req.MenuIds)
		if err != nil {
			return err
		}
		return rs.roleRepo.ReplaceRoleMenus(ctx, role, menus)
	}
	return nil
}

// DeleteRole 删除单个角色
func (rs *RoleService) DeleteRole(ctx context.Context, roleId int64) error {
	return rs.BatchDeleteRoles(ctx, []int64{roleId})
}

// BatchDeleteRoles 批量删除，超级管理员角色受保护
func (rs *RoleService) BatchDeleteRoles(ctx context.Context, roleIds []int64) error {
	roles, err := rs.roleRepo.GetRolesByIds(ctx, roleIds)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		return ErrRoleNotFound
	}
	for _, role := range roles {
		if role.Code == model.SuperAdminRoleCode {
			return ErrBuiltinAdminProtected
		}
	}
	return rs.roleRepo.DeleteRoles(ctx, roleIds)
}

func (rs *RoleService) resolveMenus(ctx context.Context, menuIds []int64) ([]*model.Menu, error) {
	if len(menuIds) == 0 {
		return []*model.Menu{}, nil
	}
	menus, err := rs.menuRepo.GetMenusByIds(ctx, menuIds)
	if err != nil {
		return nil, err
	}
	if len(menus) != len(menuIds) {
		return nil, ErrMenuNotFound
	}
	return menus, nil
}
