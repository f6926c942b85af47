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
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pancake/pancake/internal/engine/model"
	"github.com/go-pancake/pancake/internal/engine/repo"
	"github.com/go-pancake/pancake/pkg/http"
	"github.com/go-pancake/pancake/pkg/http/auth/jwt"
	"github.com/go-pancake/pancake/pkg/id"
	"github.com/go-pancake/pancake/pkg/log"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 登录、注销、令牌签发与身份解析
type AuthService struct {
	userRepo  repo.IUserRepository
	perm      *PermissionService
	auth      *http.Auth
	snowflake *id.Snowflake
}

func NewAuthService(userRepo repo.IUserRepository, perm *PermissionService, auth *http.Auth, snowflake *id.Snowflake) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		perm:      perm,
		auth:      auth,
		snowflake: snowflake,
	}
}

// Login 登录入口，按登录方式分发
// 闭合枚举分发：新增登录方式需要在此补 case，而不是开放式字符串分支
func (as *AuthService) Login(ctx context.Context, req *model.LoginReq) (*model.LoginResp, error) {
	switch req.Kind {
	case "", model.LoginKindPassword:
		return as.loginWithPassword(ctx, req)
	case model.LoginKindSms, model.LoginKindOAuth:
		return nil, ErrUnsupportedLoginKind
	default:
		return nil, ErrUnsupportedLoginKind
	}
}

func (as *AuthService) loginWithPassword(ctx context.Context, req *model.LoginReq) (*model.LoginResp, error) {
	user, err := as.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	if user.IsEnabled != model.UserEnabled {
		return nil, ErrAccountDisabled
	}

	return as.issueTokens(ctx, user.IdString())
}

func (as *AuthService) issueTokens(ctx context.Context, userId string) (*model.LoginResp, error) {
	aToken, rToken, err := jwt.GenToken(userId, []byte(as.auth.SecretKey), as.auth.AccessExpire, as.auth.RefreshExpire)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now()
	info := &model.TokenInfo{
		AccessToken:  aToken,
		RefreshToken: rToken,
		ExpireAt:     now.Add(as.auth.AccessExpire * time.Minute).Unix(),
		CreateAt:     now.Unix(),
	}
	if err := as.userRepo.SetToken(ctx, userId, info, as.auth); err != nil {
		return nil, err
	}

	return &model.LoginResp{
		Token:        aToken,
		RefreshToken: rToken,
	}, nil
}

// Register 注册用户，默认启用、无角色
func (as *AuthService) Register(ctx context.Context, req *model.RegisterReq) error {
	existing, err := as.userRepo.GetUserByUsername(ctx, req.Username)
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

	user := &model.User{
		Username:  req.Username,
		Password:  string(hash),
		Nickname:  req.Nickname,
		Email:     req.Email,
		Phone:     req.Phone,
		IsEnabled: model.UserEnabled,
	}
	user.ID = as.snowflake.NextId()
	return as.userRepo.CreateUser(ctx, user)
}

// Refresh 用 refresh token 换发新令牌对，Redis 会话同步更新
func (as *AuthService) Refresh(ctx context.Context, rToken string) (*model.LoginResp, error) {
	claims, err := jwt.ParseToken(rToken, as.auth.SecretKey)
	if err != nil {
		return nil, errors.Join(ErrInvalidRefreshToken, err)
	}
	if claims.Subject == "" {
		return nil, ErrInvalidRefreshToken
	}

	newTokens, err := jwt.RefreshToken(as.auth, claims.Subject, rToken)
	if err != nil {
		return nil, errors.Join(ErrInvalidRefreshToken, err)
	}

	now := time.Now()
	info := &model.TokenInfo{
		AccessToken:  newTokens["accessToken"],
		RefreshToken: newTokens["refreshToken"],
		ExpireAt:     now.Add(as.auth.AccessExpire * time.Minute).Unix(),
		CreateAt:     now.Unix(),
	}
	if err := as.userRepo.SetToken(ctx, claims.Subject, info, as.auth); err != nil {
		return nil, err
	}

	return &model.LoginResp{
		Token:        newTokens["accessToken"],
		RefreshToken: newTokens["refreshToken"],
	}, nil
}

// Logout 删除 Redis 会话，令牌立即失效
func (as *AuthService) Logout(ctx context.Context, userId string) error {
	if err := as.userRepo.DelToken(ctx, userId); err != nil {
		log.Errorw("failed to delete token", "userId", userId, "error", err)
		return err
	}
	return nil
}

// ResolveToken 将 bearer 凭证解析为完整身份
// 凭证有效性只在这里裁决：签名/格式/过期/subject 非法或用户不存在
// 均归为 ErrInvalidCredential，账号禁用归为 ErrAccountDisabled，
// 持久层失败原样透传
func (as *AuthService) ResolveToken(ctx context.Context, token string) (*model.User, error) {
	claims, err := jwt.ParseToken(token, as.auth.SecretKey)
	if err != nil {
		return nil, errors.Join(ErrInvalidCredential, err)
	}

	userId, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, errors.Join(ErrInvalidCredential, err)
	}

	user, err := as.userRepo.LoadUserWithRolesAndMenus(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d not found: %w", userId, ErrInvalidCredential)
	}
	if user.IsEnabled != model.UserEnabled {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

// GetUserInfo 身份摘要：聚合后的角色编码与权限编码
func (as *AuthService) GetUserInfo(user *model.User) *model.UserInfo {
	agg := as.perm.Aggregate(user)
	return &model.UserInfo{
		UserId:   user.IdString(),
		UserName: user.Username,
		Roles:    agg.RoleList(),
		Buttons:  agg.PermissionList(),
	}
}
