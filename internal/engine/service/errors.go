package service

import (
	"errors"
	"fmt"
)

/**
 * @file: errors.go
 * @description: 服务层错误，HTTP 层据此映射统一响应码
 */

// 认证与授权错误。持久层的意外失败不属于这套错误，原样向上传递
var (
	// ErrInvalidCredential 凭证无效：签名错误、格式错误、已过期、subject 不存在
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrAccountDisabled 凭证有效但账号被禁用
	ErrAccountDisabled = errors.New("account is disabled")

	// ErrInsufficientPrivilege 仅超级管理员可访问
	ErrInsufficientPrivilege = errors.New("insufficient privilege")
)

// MissingPermissionError 缺少指定权限编码，编码随错误返回便于定位
type MissingPermissionError struct {
	Code string
}

func (e *MissingPermissionError) Error() string {
	return fmt.Sprintf("missing permission: %s", e.Code)
}

// 领域错误
var (
	ErrUserNotFound          = errors.New("user does not exist")
	ErrUserAlreadyExist      = errors.New("user already exists")
	ErrIncorrectPassword     = errors.New("incorrect username or password")
	ErrRoleNotFound          = errors.New("role does not exist")
	ErrRoleAlreadyExist      = errors.New("role code already exists")
	ErrMenuNotFound          = errors.New("menu does not exist")
	ErrMenuHasChildren       = errors.New("menu still has children")
	ErrUnsupportedLoginKind  = errors.New("unsupported login kind")
	ErrInvalidRefreshToken   = errors.New("invalid refresh token")
	ErrBuiltinAdminProtected = errors.New("builtin administrator cannot be deleted")
	ErrDeleteCurrentUser     = errors.New("cannot delete the current account")
)
