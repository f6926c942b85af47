package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-pancake/pancake/internal/engine/consts"
	"github.com/go-pancake/pancake/internal/engine/model"
	"github.com/go-pancake/pancake/pkg/cache"
	"github.com/go-pancake/pancake/pkg/database"
	"github.com/go-pancake/pancake/pkg/http"
	"github.com/go-pancake/pancake/pkg/log"
	"gorm.io/gorm"
)

type IUserRepository interface {
	// LoadUserWithRolesAndMenus 两级预加载（用户→角色→菜单），用户不存在返回 (nil, nil)
	LoadUserWithRolesAndMenus(ctx context.Context, userId int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserById(ctx context.Context, userId int64) (*model.User, error)
	GetUserList(ctx context.Context, req *model.UserListReq) ([]*model.User, int64, error)
	CreateUser(ctx context.Context, user *model.User) error
	UpdateUser(ctx context.Context, userId int64, updates map[string]any) error
	ReplaceUserRoles(ctx context.Context, user *model.User, roles []*model.Role) error
	DeleteUsers(ctx context.Context, userIds []int64) error

	SetToken(ctx context.Context, userId string, info *model.TokenInfo, auth *http.Auth) error
	GetToken(ctx context.Context, userId string) (*model.TokenInfo, error)
	DelToken(ctx context.Context, userId string) error
}

type UserRepo struct {
	db        database.IDatabase
	cache     cache.ICache
	userModel *model.User
}

func NewUserRepo(db database.IDatabase, cache cache.ICache) IUserRepository {
	return &UserRepo{
		db:        db,
		cache:     cache,
		userModel: &model.User{},
	}
}

func (ur *UserRepo) LoadUserWithRolesAndMenus(ctx context.Context, userId int64) (*model.User, error) {
	var u model.User
	err := ur.db.Database().WithContext(ctx).
		Preload("Roles.Menus").
		Where("id = ?", userId).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d with roles and menus: %w", userId, err)
	}
	return &u, nil
}

func (ur *UserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := ur.db.Database().WithContext(ctx).
		Preload("Roles").
		Where("username = ?", username).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &u, nil
}

func (ur *UserRepo) GetUserById(ctx context.Context, userId int64) (*model.User, error) {
	var u model.User
	err := ur.db.Database().WithContext(ctx).
		Preload("Roles").
		Where("id = ?", userId).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &u, nil
}

// GetUserList 分页模糊查询，带角色预加载
func (ur *UserRepo) GetUserList(ctx context.Context, req *model.UserListReq) ([]*model.User, int64, error) {
	var (
		users []*model.User
		total int64
	)

	query := ur.db.Database().WithContext(ctx).Model(ur.userModel)
	if req.Username != "" {
		query = query.Where("username LIKE ?", "%"+req.Username+"%")
	}
	if req.Nickname != "" {
		query = query.Where("nickname LIKE ?", "%"+req.Nickname+"%")
	}
	if req.Phone != "" {
		query = query.Where("phone LIKE ?", "%"+req.Phone+"%")
	}
	if req.Email != "" {
		query = query.Where("email LIKE ?", "%"+req.Email+"%")
	}
	if req.Status != nil {
		query = query.Where("is_enabled = ?", *req.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	err := query.Preload("Roles").
		Order("id").
		Offset(req.Offset()).
		Limit(req.Size).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (ur *UserRepo) CreateUser(ctx context.Context, user *model.User) error {
	return ur.db.Database().WithContext(ctx).Create(user).Error
}

// UpdateUser 更新用户信息（id、username、password 不可更新）
func (ur *UserRepo) UpdateUser(ctx context.Context, userId int64, updates map[string]any) error {
	return ur.db.Database().WithContext(ctx).
		Model(ur.userModel).
		Where("id = ?", userId).
		Omit("id", "username", "password", "created_at").
		Updates(updates).Error
}

// ReplaceUserRoles 整体替换用户的角色绑定
func (ur *UserRepo) ReplaceUserRoles(ctx context.Context, user *model.User, roles []*model.Role) error {
	return ur.db.Database().WithContext(ctx).
		Model(user).
		Association("Roles").
		Replace(roles)
}

// DeleteUsers 删除用户及其角色绑定
func (ur *UserRepo) DeleteUsers(ctx context.Context, userIds []int64) error {
	if len(userIds) == 0 {
		return nil
	}
	return ur.db.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id IN ?", userIds).Delete(&model.UserRoleBinding{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", userIds).Delete(ur.userModel).Error
	})
}

// SetToken 会话写入 Redis，key = pancake:token:<userId>，过期与 access token 对齐
func (ur *UserRepo) SetToken(ctx context.Context, userId string, info *model.TokenInfo, auth *http.Auth) error {
	value, err := sonic.MarshalString(info)
	if err != nil {
		return fmt.Errorf("failed to marshal token info: %w", err)
	}
	key := consts.UserTokenKey + userId
	expire := time.Duration(auth.AccessExpire) * time.Minute
	if err := ur.cache.Set(ctx, key, value, expire).Err(); err != nil {
		return fmt.Errorf("failed to set token to redis: %w", err)
	}
	return nil
}

func (ur *UserRepo) GetToken(ctx context.Context, userId string) (*model.TokenInfo, error) {
	key := consts.UserTokenKey + userId
	value, err := ur.cache.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	var info model.TokenInfo
	if err := sonic.UnmarshalString(value, &info); err != nil {
		log.Errorw("failed to unmarshal token info from redis", "userId", userId, "error", err)
		return nil, err
	}
	return &info, nil
}

func (ur *UserRepo) DelToken(ctx context.Context, userId string) error {
	key := consts.UserTokenKey + userId
	return ur.cache.Del(ctx, key).Err()
}
