package model

import "time"

// RoleMenuBinding 角色菜单绑定表，gorm many2many 连接模型
// 同一角色对同一菜单只能有一条记录
type RoleMenuBinding struct {
	RoleId    int64     `gorm:"column:role_id;primaryKey" json:"roleId,string"`
	MenuId    int64     `gorm:"column:menu_id;primaryKey" json:"menuId,string"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (RoleMenuBinding) TableName() string {
	return "t_role_menu_binding"
}
