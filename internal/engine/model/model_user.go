package model

/**
 * @file: model_user.go
 * @description: user model
 */

type User struct {
	BaseModel
	Username     string  `gorm:"column:username;not null;uniqueIndex" json:"userName"`
	Password     string  `gorm:"column:password;not null" json:"-"`
	Nickname     string  `gorm:"column:nickname" json:"nickName"`
	Avatar       string  `gorm:"column:avatar" json:"avatar"`
	Email        string  `gorm:"column:email" json:"userEmail"`
	Phone        string  `gorm:"column:phone" json:"userPhone"`
	Gender       string  `gorm:"column:gender" json:"userGender"`
	IsEnabled    int     `gorm:"column:is_enabled;not null;default:1" json:"status"`     // 0: disabled, 1: enabled
	IsSuperAdmin int     `gorm:"column:is_superadmin;default:0" json:"isSuperAdmin"`     // 0: normal user, 1: super admin
	Roles        []*Role `gorm:"many2many:t_user_role_binding;joinForeignKey:UserId;joinReferences:RoleId" json:"roles,omitempty"`
}

func (User) TableName() string {
	return "t_user"
}

// 内置管理员账号，禁止删除
const BuiltinAdminUsername = "admin"

// 用户启用状态常量
const (
	UserEnabled  = 1
	UserDisabled = 0
)

// LoginKind 登录方式，闭合枚举，新增方式需显式扩展
type LoginKind string

const (
	LoginKindPassword LoginKind = "pwd"
	LoginKindSms      LoginKind = "sms"
	LoginKindOAuth    LoginKind = "oauth"
)

// LoginReq 登录请求
type LoginReq struct {
	Kind     LoginKind `json:"kind"` // 为空时默认密码登录
	Username string    `json:"userName"`
	Password string    `json:"password"`
	Phone    string    `json:"phone"`
	Code     string    `json:"code"`
}

// RegisterReq 注册请求
type RegisterReq struct {
	Username string `json:"userName"`
	Password string `json:"password"`
	Nickname string `json:"nickName"`
	Email    string `json:"userEmail"`
	Phone    string `json:"userPhone"`
}

// LoginResp 登录响应
type LoginResp struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// TokenInfo token information stored in Redis
type TokenInfo struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpireAt     int64  `json:"expireAt"`
	CreateAt     int64  `json:"createAt"`
}

// UserInfo 身份摘要，roles 为聚合后的角色编码，buttons 为权限编码
type UserInfo struct {
	UserId   string   `json:"userId"`
	UserName string   `json:"userName"`
	Roles    []string `json:"roles"`
	Buttons  []string `json:"buttons"`
}

// AddUserReq 新增用户请求
type AddUserReq struct {
	Username  string   `json:"userName"`
	Password  string   `json:"password"`
	Nickname  string   `json:"nickName"`
	Avatar    string   `json:"avatar"`
	Email     string   `json:"userEmail"`
	Phone     string   `json:"userPhone"`
	Gender    string   `json:"userGender"`
	IsEnabled *int     `json:"status"`
	RoleCodes []string `json:"userRoles"` // 角色编码列表
}

// UpdateUserReq 更新用户请求，空指针字段不更新
type UpdateUserReq struct {
	Nickname  *string  `json:"nickName,omitempty"`
	Avatar    *string  `json:"avatar,omitempty"`
	Email     *string  `json:"userEmail,omitempty"`
	Phone     *string  `json:"userPhone,omitempty"`
	Gender    *string  `json:"userGender,omitempty"`
	IsEnabled *int     `json:"status,omitempty"`
	RoleCodes []string `json:"userRoles,omitempty"` // 非 nil 时整体替换
}

// UserListReq 用户分页查询请求
type UserListReq struct {
	PageReq
	Username string `query:"userName"`
	Nickname string `query:"nickName"`
	Phone    string `query:"userPhone"`
	Email    string `query:"userEmail"`
	Status   *int   `query:"status"`
}

// UserRecord 用户列表行，手机号与邮箱脱敏后返回
type UserRecord struct {
	Id        string   `json:"id"`
	Username  string   `json:"userName"`
	Nickname  string   `json:"nickName"`
	Avatar    string   `json:"avatar"`
	Email     string   `json:"userEmail"`
	Phone     string   `json:"userPhone"`
	Gender    string   `json:"userGender"`
	Status    int      `json:"status"`
	RoleCodes []string `json:"userRoles"`
	CreatedAt string   `json:"createTime"`
}
