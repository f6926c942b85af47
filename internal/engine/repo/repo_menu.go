package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-pancake/pancake/internal/engine/model"
	"github.com/go-pancake/pancake/pkg/database"
	"gorm.io/gorm"
)

type IMenuRepository interface {
	GetAllMenus(ctx context.Context) ([]*model.Menu, error)
	// GetMenuById 菜单不存在返回 (nil, nil)
	GetMenuById(ctx context.Context, menuId int64) (*model.Menu, error)
	GetMenusByIds(ctx context.Context, menuIds []int64) ([]*model.Menu, error)
	CountChildren(ctx context.Context, parentId int64) (int64, error)
	CreateMenu(ctx context.Context, menu *model.Menu) error
	UpdateMenu(ctx context.Context, menuId int64, updates map[string]any) error
	DeleteMenu(ctx context.Context, menuId int64) error
}

type MenuRepo struct {
	db        database.IDatabase
	menuModel *model.Menu
}

func NewMenuRepo(db database.IDatabase) IMenuRepository {
	return &MenuRepo{
		db:        db,
		menuModel: &model.Menu{},
	}
}

func (mr *MenuRepo) GetAllMenus(ctx context.Context) ([]*model.Menu, error) {
	var menus []*model.Menu
	err := mr.db.Database().WithContext(ctx).
		Order("sort_order, id").
		Find(&menus).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}
	return menus, nil
}

func (mr *MenuRepo) GetMenuById(ctx context.Context, menuId int64) (*model.Menu, error) {
	var menu model.Menu
	err := mr.db.Database().WithContext(ctx).
		Where("id = ?", menuId).
		First(&menu).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get menu by id: %w", err)
	}
	return &menu, nil
}

func (mr *MenuRepo) GetMenusByIds(ctx context.Context, menuIds []int64) ([]*model.Menu, error) {
	if len(menuIds) == 0 {
		return nil, nil
	}
	var menus []*model.Menu
	err := mr.db.Database().WithContext(ctx).
		Where("id IN ?", menuIds).
		Find(&menus).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get menus by ids: %w", err)
	}
	return menus, nil
}

func (mr *MenuRepo) CountChildren(ctx context.Context, parentId int64) (int64, error) {
	var count int64
	err := mr.db.Database().WithContext(ctx).
		Model(mr.menuModel).
		Where("parent_id = ?", parentId).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count menu children: %w", err)
	}
	return count, nil
}

func (mr *MenuRepo) CreateMenu(ctx context.Context, menu *model.Menu) error {
	return mr.db.Database().WithContext(ctx).Create(menu).Error
}

func (mr *MenuRepo) UpdateMenu(ctx context.Context, menuId int64, updates map[string]any) error {
	return mr.db.Database().WithContext(ctx).
		Model(mr.menuModel).
		Where("id = ?", menuId).
		Omit("id", "created_at").
		Updates(updates).Error
}

// DeleteMenu 删除菜单及其角色绑定，子菜单检查由服务层负责
func (mr *MenuRepo) DeleteMenu(ctx context.Context, menuId int64) error {
	return mr.db.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_id = ?", menuId).Delete(&model.RoleMenuBinding{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", menuId).Delete(mr.menuModel).Error
	})
}
