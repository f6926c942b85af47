package model

import (
	"strconv"
	"time"
)

/**
 * @file: model.go
 * @description: base model
 */

// BaseModel 公共字段。主键由雪花生成器分配，不使用数据库自增
type BaseModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement:false" json:"id,string"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// IdString 主键的十进制字符串形式，JWT subject 与前端响应均使用
// 字符串传输避免 js 数值精度丢失
func (b *BaseModel) IdString() string {
	return strconv.FormatInt(b.ID, 10)
}
