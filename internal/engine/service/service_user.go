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
	"fmt"

	"github.com/go-pancake/pancake/internal/engine/model"
	"github.com/go-pancake/pancake/internal/engine/repo"
	"github.com/go-pancake/pancake/internal/engine/tool"
	"github.com/go-pancake/pancake/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

const timeLayout = "2006-01-02 15:04:05"

// UserService 用户管理
type UserService struct {
	userRepo  repo.IUserRepository
	roleRepo  repo.IRoleRepository
	snowflake *id.Snowflake
}

func NewUserService(userRepo repo.IUserRepository, roleRepo repo.IRoleRepository, snowflake *id.Snowflake) *UserService {
	return &UserService{
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		snowflake: snowflake,
	}
}

// GetUserList 分页查询，手机号与邮箱脱敏后返回
func (us *UserService) GetUserList(ctx context.Context, req *model.UserListReq) (*model.PageResult, error) {
	req.Normalize()

	users, total, err := us.userRepo.GetUserList(ctx, req)
	if err != nil {
		return nil, err
	}

	records := make([]*model.UserRecord, 0, len(users))
	for _, u := range users {
		roleCodes := make([]string, 0, len(u.Roles))
		for _, role := range u.Roles {
			roleCodes = append(roleCodes, role.Code)
		}
		records = append(records, &model.UserRecord{
			Id:        u.IdString(),
			Username:  u.Username,
			Nickname:  u.Nickname,
			Avatar:    u.Avatar,
			Email:     tool.MaskEmail(u.Email),
			Phone:     tool.MaskPhone(u.Phone),
			Gender:    u.Gender,
			Status:    u.IsEnabled,
			RoleCodes: roleCodes,
			CreatedAt: u.CreatedAt.Format(timeLayout),
		})
	}

	return &model.PageResult{
		Records: records,
		Total:   total,
		Current: req.Current,
		Size:    req.Size,
	}, nil
}

// AddUser 新增用户并绑定角色
func (us *UserService) AddUser(ctx context.Context, req *model.AddUserReq) error {
	existing, err := us.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUserAlreadyExist
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	roles, err := us.resolveRoles(ctx, req.RoleCodes)
	if err != nil {
		return err
	}

	user := &model.User{
		Username:  req.Username,
		Password:  string(hash),
		Nickname:  req.Nickname,
		Avatar:    req.Avatar,
		Email:     req.Email,
		Phone:     req.Phone,
		Gender:    req.Gender,
		IsEnabled: model.UserEnabled,
		Roles:     roles,
	}
	user.ID = us.snowflake.NextId()
	if req.IsEnabled != nil {
		user.IsEnabled = *req.IsEnabled
	}
	return us.userRepo.CreateUser(ctx, user)
}

// UpdateUser 更新用户资料，RoleCodes 非 nil 时整体替换角色绑定
func (us *UserService) UpdateUser(ctx context.Context, userId int64, req *model.UpdateUserReq) error {
	user, err := us.userRepo.GetUserById(ctx, userId)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	updates := make(map[string]any)
	if req.Nickname != nil {
		updates["nickname"] = *req.Nickname
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.IsEnabled != nil {
		updates["is_enabled"] = *req.IsEnabled
	}
	if len(updates) > 0 {
		if err := us.userRepo.UpdateUser(ctx, userId, updates); err != nil {
			return err
		}
	}

	if req.RoleCodes != nil {
		roles, err := us.resolveRoles(ctx, req.RoleCodes)
		if err != nil {
			return err
		}
		return us.userRepo.ReplaceUserRoles(ctx, user, roles)
	}
	return nil
}

// DeleteUser 删除单个用户，内置管理员受保护
func (us *UserService) DeleteUser(ctx context.Context, userId int64) error {
	user, err := us.userRepo.GetUserById(ctx, userId)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.Username == model.BuiltinAdminUsername {
		return ErrBuiltinAdminProtected
	}
	return us.userRepo.DeleteUsers(ctx, []int64{userId})
}

// BatchDeleteUsers 批量删除，内置管理员与当前登录账号受保护
func (us *UserService) BatchDeleteUsers(ctx context.Context, userIds []int64, currentUserId int64) error {
	for _, userId := range userIds {
		if userId == currentUserId {
			return ErrDeleteCurrentUser
		}
		user, err := us.userRepo.GetUserById(ctx, userId)
		if err != nil {
			return err
		}
		if user != nil && user.Username == model.BuiltinAdminUsername {
			return ErrBuiltinAdminProtected
		}
	}
	return us.userRepo.DeleteUsers(ctx, userIds)
}

func (us *UserService) resolveRoles(ctx context.Context, codes []string) ([]*model.Role, error) {
	if len(codes) == 0 {
		return []*model.Role{}, nil
	}
	roles, err := us.roleRepo.GetRolesByCodes(ctx, codes)
	if err != nil {
		return nil, err
	}
	if len(roles) != len(codes) {
		return nil, ErrRoleNotFound
	}
	return roles, nil
}
