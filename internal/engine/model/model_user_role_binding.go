package model

import "time"

// UserRoleBinding 用户角色绑定表，gorm many2many 连接模型
type UserRoleBinding struct {
	UserId    int64     `gorm:"column:user_id;primaryKey" json:"userId,string"`
	RoleId    int64     `gorm:"column:role_id;primaryKey" json:"roleId,string"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (UserRoleBinding) TableName() string {
	return "t_user_role_binding"
}
