package model

// User 系统账号表 — 对应 users
// 与 Staff 区分：User 是登录系统的账号，Staff 是被排班的员工
type User struct {
	UserID             string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name               string `gorm:"type:varchar(100);not null"                     json:"name"`
	Username           string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"username"`
	PasswordHash       string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role               string `gorm:"type:varchar(20);not null;default:'viewer'"     json:"role"` // admin | scheduler | viewer
	MustChangePassword bool   `gorm:"not null;default:false"                         json:"must_change_password"`
	VersionedModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
