package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-pancake/pancake/internal/engine/model"
	"github.com/go-pancake/pancake/pkg/database"
	"gorm.io/gorm"
)

type IRoleRepository interface {
	GetRoleList(ctx context.Context, req *model.RoleListReq) ([]*model.Role, int64, error)
	GetAllEnabledRoles(ctx context.Context) ([]*model.Role, error)
	// GetRoleById 角色不存在返回 (nil, nil)
	GetRoleById(ctx context.Context, roleId int64) (*model.Role, error)
	GetRoleByCode(ctx context.Context, code string) (*model.Role, error)
	GetRolesByCodes(ctx context.Context, codes []string) ([]*model.Role, error)
	GetRolesByIds(ctx context.Context, roleIds []int64) ([]*model.Role, error)
	CreateRole(ctx context.Context, role *model.Role) error
	UpdateRole(ctx context.Context, roleId int64, updates map[string]any) error
	ReplaceRoleMenus(ctx context.Context, role *model.Role, menus []*model.Menu) error
	DeleteRoles(ctx context.Context, roleIds []int64) error
}

type RoleRepo struct {
	db        database.IDatabase
	roleModel *model.Role
}

func NewRoleRepo(db database.IDatabase) IRoleRepository {
	return &RoleRepo{
		db:        db,
		roleModel: &model.Role{},
	}
}

func (rr *RoleRepo) GetRoleList(ctx context.Context, req *model.RoleListReq) ([]*model.Role, int64, error) {
	var (
		roles []*model.Role
		total int64
	)

	query := rr.db.Database().WithContext(ctx).Model(rr.roleModel)
	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}
	if req.Code != "" {
		query = query.Where("code LIKE ?", "%"+req.Code+"%")
	}
	if req.Status != nil {
		query = query.Where("is_enabled = ?", *req.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count roles: %w", err)
	}

	err := query.Order("id").
		Offset(req.Offset()).
		Limit(req.Size).
		Find(&roles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, total, nil
}

func (rr *RoleRepo) GetAllEnabledRoles(ctx context.Context) ([]*model.Role, error) {
	var roles []*model.Role
	err := rr.db.Database().WithContext(ctx).
		Where("is_enabled = ?", model.RoleEnabled).
		Order("id").
		Find(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled roles: %w", err)
	}
	return roles, nil
}

func (rr *RoleRepo) GetRoleById(ctx context.Context, roleId int64) (*model.Role, error) {
	var role model.Role
	err := rr.db.Database().WithContext(ctx).
		Preload("Menus").
		Where("id = ?", roleId).
		First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get role by id: %w", err)
	}
	return &role, nil
}

func (rr *RoleRepo) GetRoleByCode(ctx context.Context, code string) (*model.Role, error) {
	var role model.Role
	err := rr.db.Database().WithContext(ctx).
		Where("code = ?", code).
		First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get role by code: %w", err)
	}
	return &role, nil
}

func (rr *RoleRepo) GetRolesByCodes(ctx context.Context, codes []string) ([]*model.Role, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var roles []*model.Role
	err := rr.db.Database().WithContext(ctx).
		Where("code IN ?", codes).
		Find(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get roles by codes: %w", err)
	}
	return roles, nil
}

func (rr *RoleRepo) GetRolesByIds(ctx context.Context, roleIds []int64) ([]*model.Role, error) {
	if len(roleIds) == 0 {
		return nil, nil
	}
	var roles []*model.Role
	err := rr.db.Database().WithContext(ctx).
		Where("id IN ?", roleIds).
		Find(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get roles by ids: %w", err)
	}
	return roles, nil
}

func (rr *RoleRepo) CreateRole(ctx context.Context, role *model.Role) error {
	return rr.db.Database().WithContext(ctx).Create(role).Error
}

// UpdateRole 更新角色信息（id、code 不可更新）
func (rr *RoleRepo) UpdateRole(ctx context.Context, roleId int64, updates map[string]any) error {
	return rr.db.Database().WithContext(ctx).
		Model(rr.roleModel).
		Where("id = ?", roleId).
		Omit("id", "code", "created_at").
		Updates(updates).Error
}

// ReplaceRoleMenus 整体替换角色的菜单绑定
func (rr *RoleRepo) ReplaceRoleMenus(ctx context.Context, role *model.Role, menus []*model.Menu) error {
	return rr.db.Database().WithContext(ctx).
		Model(role).
		Association("Menus").
		Replace(menus)
}

// DeleteRoles 删除角色及其用户/菜单绑定
func (rr *RoleRepo) DeleteRoles(ctx context.Context, roleIds []int64) error {
	if len(roleIds) == 0 {
		return nil
	}
	return rr.db.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id IN ?", roleIds).Delete(&model.UserRoleBinding{}).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id IN ?", roleIds).Delete(&model.RoleMenuBinding{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", roleIds).Delete(rr.roleModel).Error
	})
}
