package consts

/**
 * @file: const_auth.go
 * @description: 认证与会话相关常量
 */

const (
	// UserTokenKey Redis 会话前缀, key = UserTokenKey + userId
	UserTokenKey = "pancake:token:"

	// UserInfoKey Redis 用户信息缓存前缀
	UserInfoKey = "pancake:userinfo:"
)

const (
	// HomeRoute 登录后默认首页路由名
	HomeRoute = "dashboard_analysis"
)
