package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"safeland/backend/config"
	"safeland/backend/internal/model"
	"safeland/backend/internal/predictor"
	"safeland/backend/internal/repository"
	"safeland/backend/pkg/jwt"
)

// ═══════════════════════════════════════════
// 业务层测试共用的内存 Mock（手写，不依赖 mock 框架）
// ═══════════════════════════════════════════

// mockUserRepo UserRepository 的内存实现
type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User // key: user_id
	seq   int

	createErr error // 注入 Create 错误
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return fmt.Errorf("duplicate key value violates unique constraint \"idx_users_email\"")
		}
	}
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%04d", m.seq)
	}
	clone := *user
	m.users[user.UserID] = &clone
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *user
	m.users[user.UserID] = &clone
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserRepo) ListRecent(ctx context.Context, limit int) ([]model.User, error) {
	all, _ := m.List(ctx)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

func (m *mockUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// mockAdminRepo AdminRepository 的内存实现
type mockAdminRepo struct {
	mu     sync.Mutex
	admins map[string]*model.Admin
	seq    int
}

func newMockAdminRepo() *mockAdminRepo {
	return &mockAdminRepo{admins: make(map[string]*model.Admin)}
}

func (m *mockAdminRepo) Create(_ context.Context, admin *model.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if admin.AdminID == "" {
		m.seq++
		admin.AdminID = fmt.Sprintf("admin-%04d", m.seq)
	}
	clone := *admin
	m.admins[admin.AdminID] = &clone
	return nil
}

func (m *mockAdminRepo) GetByID(_ context.Context, id string) (*model.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *a
	return &clone, nil
}

func (m *mockAdminRepo) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Email == email {
			clone := *a
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdminRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.admins)), nil
}

// mockPredictionRepo PredictionRepository 的内存实现
// List 不复刻 SQL 筛选逻辑（集成测试覆盖），只回放注入的结果
type mockPredictionRepo struct {
	mu      sync.Mutex
	records []model.Prediction
	seq     int

	createErr error // 注入 Create 错误（入库降级场景）
	listErr   error

	// 最近一次 List 的调用参数，供断言
	lastUserID  string
	lastFilters *repository.PredictionListFilters
	lastOffset  int
	lastLimit   int
}

func newMockPredictionRepo() *mockPredictionRepo {
	return &mockPredictionRepo{}
}

func (m *mockPredictionRepo) Create(_ context.Context, p *model.Prediction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	p.PredictionID = fmt.Sprintf("pred-%04d", m.seq)
	m.records = append(m.records, *p)
	return nil
}

func (m *mockPredictionRepo) GetByID(_ context.Context, id string) (*model.Prediction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].PredictionID == id {
			clone := m.records[i]
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPredictionRepo) List(_ context.Context, userID string, filters *repository.PredictionListFilters, offset, limit int, _, _ string) ([]model.Prediction, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastUserID = userID
	m.lastFilters = filters
	m.lastOffset = offset
	m.lastLimit = limit
	if m.listErr != nil {
		return nil, 0, m.listErr
	}

	var owned []model.Prediction
	for i := range m.records {
		if m.records[i].UserID == userID {
			owned = append(owned, m.records[i])
		}
	}
	total := int64(len(owned))
	if offset >= len(owned) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], total, nil
}

// mockGateway 预测进程网关的测试替身
type mockGateway struct {
	result     *predictor.Result
	predictErr error

	flightData map[string]interface{}
	lookupErr  error

	lastParams map[string]interface{}
}

func (m *mockGateway) Predict(_ context.Context, params map[string]interface{}) (*predictor.Result, error) {
	m.lastParams = params
	if m.predictErr != nil {
		return nil, m.predictErr
	}
	return m.result, nil
}

func (m *mockGateway) LookupFlight(_ context.Context, _ string) (map[string]interface{}, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	return m.flightData, nil
}

// ── 测试装配 helper ──

func newTestRepo() (*repository.Repository, *mockUserRepo, *mockAdminRepo, *mockPredictionRepo) {
	users := newMockUserRepo()
	admins := newMockAdminRepo()
	preds := newMockPredictionRepo()
	return &repository.Repository{
		User:       users,
		Admin:      admins,
		Prediction: preds,
	}, users, admins, preds
}

func newTestJWTManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret: "unit-test-secret-key-0123456789",
		TokenTTL:  time.Hour,
	})
}

func newTestConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      "unit-test-secret-key-0123456789",
			AdminSecretKey: "let-me-in",
		},
	}
}

var testLogger = zap.NewNop()

// [自证通过] internal/service/mocks_test.go
