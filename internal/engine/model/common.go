package model

import "sort"

// PageReq 分页查询公共参数
type PageReq struct {
	Current int `query:"current"` // 页码，从 1 开始
	Size    int `query:"size"`    // 每页条数
}

// Normalize 修正非法分页参数
func (p *PageReq) Normalize() {
	if p.Current <= 0 {
		p.Current = 1
	}
	if p.Size <= 0 || p.Size > 200 {
		p.Size = 10
	}
}

// Offset 计算数据库偏移量
func (p *PageReq) Offset() int {
	return (p.Current - 1) * p.Size
}

// PageResult 分页响应
type PageResult struct {
	Records any   `json:"records"`
	Total   int64 `json:"total"`
	Current int   `json:"current"`
	Size    int   `json:"size"`
}

// BatchDeleteReq 批量删除请求，ID 以字符串传输
type BatchDeleteReq struct {
	Ids []string `json:"ids"`
}

// Aggregated 聚合后的有效身份：角色编码集合与权限编码集合
// 集合无序，按字符串相等去重
type Aggregated struct {
	RoleCodes       map[string]struct{}
	PermissionCodes map[string]struct{}
}

// RoleList 角色编码列表（有序副本，供序列化）
func (a Aggregated) RoleList() []string {
	return setToSortedList(a.RoleCodes)
}

// PermissionList 权限编码列表（有序副本，供序列化）
func (a Aggregated) PermissionList() []string {
	return setToSortedList(a.PermissionCodes)
}

func setToSortedList(set map[string]struct{}) []string {
	list := make([]string, 0, len(set))
	for code := range set {
		list = append(list, code)
	}
	sort.Strings(list)
	return list
}
