//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"safeland/backend/internal/model"
	"safeland/backend/internal/repository"
	"safeland/backend/pkg/database"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=safeland password=safeland_password dbname=safeland_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 用打包的 SQL 迁移建表，和生产启动走同一条路径；
	// AutoMigrate 会按模型生成表结构，掩盖模型与迁移脚本的漂移
	testDB.Exec("DROP TABLE IF EXISTS predictions, flights, users, admins, schema_migrations CASCADE")
	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取底层连接失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "执行 SQL 迁移失败: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

func cleanup(t *testing.T) {
	t.Helper()
	testDB.Exec("DELETE FROM predictions")
	testDB.Exec("DELETE FROM flights")
	testDB.Exec("DELETE FROM users")
	testDB.Exec("DELETE FROM admins")
}

func createTestUser(t *testing.T, email string) *model.User {
	t.Helper()
	user := &model.User{
		FirstName:    "Test",
		LastName:     "Pilot",
		Email:        email,
		PasswordHash: "hash",
		Role:         model.RoleUser,
		IsActive:     true,
	}
	if err := repository.NewUserRepo(testDB).Create(context.Background(), user); err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}
	return user
}

func createTestPrediction(t *testing.T, userID, flightID, outcome, runway string) *model.Prediction {
	t.Helper()
	p := &model.Prediction{
		UserID:      userID,
		FlightID:    flightID,
		Prediction:  outcome,
		Probability: "92.3%",
		InputData: model.JSONMap{
			"Flight_ID":        flightID,
			"Runway_Condition": runway,
			"G_Force":          1.4,
		},
		ShapContributions:  model.JSONMap{"G_Force": 0.31, "Wind_Speed_kts": -0.05},
		CorrectiveMeasures: model.StringArray{"Reduce descent rate"},
	}
	if err := repository.NewPredictionRepo(testDB).Create(context.Background(), p); err != nil {
		t.Fatalf("创建测试预测记录失败: %v", err)
	}
	return p
}

// ═══════════════════════════════════════════════════════════
// PredictionRepository
// ═══════════════════════════════════════════════════════════

func TestPredictionRepo_RoundTrip(t *testing.T) {
	cleanup(t)
	user := createTestUser(t, "roundtrip@test.com")
	created := createTestPrediction(t, user.UserID, "FLT1001", model.OutcomeHardLanding, "Wet")

	repo := repository.NewPredictionRepo(testDB)
	got, err := repo.GetByID(context.Background(), created.PredictionID)
	if err != nil {
		t.Fatalf("GetByID 失败: %v", err)
	}

	// JSONB 字段逐键比对：写入什么读回什么
	if !reflect.DeepEqual(map[string]interface{}(got.ShapContributions), map[string]interface{}{"G_Force": 0.31, "Wind_Speed_kts": -0.05}) {
		t.Errorf("shap_contributions 回读不一致: %v", got.ShapContributions)
	}
	if got.InputData["Runway_Condition"] != "Wet" {
		t.Errorf("input_data 回读不一致: %v", got.InputData)
	}
	if got.Probability != "92.3%" {
		t.Errorf("probability 必须原样保存字符串，实际=%q", got.Probability)
	}
}

func TestPredictionRepo_List_UserIsolation(t *testing.T) {
	cleanup(t)
	userA := createTestUser(t, "usera@test.com")
	userB := createTestUser(t, "userb@test.com")
	createTestPrediction(t, userA.UserID, "FLT-A", model.OutcomeSoftLanding, "Dry")
	createTestPrediction(t, userB.UserID, "FLT-B", model.OutcomeHardLanding, "Wet")

	repo := repository.NewPredictionRepo(testDB)

	// 任意过滤组合下都不得返回他人记录
	items, total, err := repo.List(context.Background(), userA.UserID, nil, 0, 10, "createdAt", "desc")
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("期望仅 1 条记录，实际 total=%d len=%d", total, len(items))
	}
	if items[0].UserID != userA.UserID {
		t.Errorf("返回了他人记录: %s", items[0].UserID)
	}

	// 用 B 的 flight_id 作为搜索词也不能把 B 的数据带进来
	items, total, err = repo.List(context.Background(), userA.UserID,
		&repository.PredictionListFilters{Search: "FLT-B"}, 0, 10, "createdAt", "desc")
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != 0 || len(items) != 0 {
		t.Errorf("跨用户隔离被破坏: total=%d", total)
	}
}

func TestPredictionRepo_List_Filters(t *testing.T) {
	cleanup(t)
	user := createTestUser(t, "filters@test.com")
	createTestPrediction(t, user.UserID, "FLT1001", model.OutcomeHardLanding, "Wet")
	createTestPrediction(t, user.UserID, "FLT2002", model.OutcomeSoftLanding, "Dry")
	createTestPrediction(t, user.UserID, "FLT3003", model.OutcomeSoftLanding, "Slippery")

	repo := repository.NewPredictionRepo(testDB)
	ctx := context.Background()

	// 结论精确过滤
	_, total, err := repo.List(ctx, user.UserID,
		&repository.PredictionListFilters{Outcome: model.OutcomeSoftLanding}, 0, 10, "createdAt", "desc")
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != 2 {
		t.Errorf("结论过滤期望 2 条，实际=%d", total)
	}

	// 搜索不区分大小写，匹配 flight_id 或跑道状态
	_, total, err = repo.List(ctx, user.UserID,
		&repository.PredictionListFilters{Search: "flt1001"}, 0, 10, "createdAt", "desc")
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != 1 {
		t.Errorf("flight_id 搜索期望 1 条，实际=%d", total)
	}

	_, total, err = repo.List(ctx, user.UserID,
		&repository.PredictionListFilters{Search: "slippery"}, 0, 10, "createdAt", "desc")
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != 1 {
		t.Errorf("跑道状态搜索期望 1 条，实际=%d", total)
	}

	// 日期区间（含边界）
	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	_, total, err = repo.List(ctx, user.UserID,
		&repository.PredictionListFilters{StartDate: &start, EndDate: &end}, 0, 10, "createdAt", "desc")
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != 3 {
		t.Errorf("日期区间期望 3 条，实际=%d", total)
	}
}

func TestPredictionRepo_List_PageBeyondEnd(t *testing.T) {
	cleanup(t)
	user := createTestUser(t, "paging@test.com")
	createTestPrediction(t, user.UserID, "FLT1001", model.OutcomeSoftLanding, "Dry")

	repo := repository.NewPredictionRepo(testDB)

	// 超出范围的页返回空列表，total 不变
	items, total, err := repo.List(context.Background(), user.UserID, nil, 100, 10, "createdAt", "desc")
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("越界页应返回空列表，实际 len=%d", len(items))
	}
	if total != 1 {
		t.Errorf("越界页 total 应保持 1，实际=%d", total)
	}
}

func TestPredictionRepo_AppendOnly(t *testing.T) {
	cleanup(t)
	user := createTestUser(t, "append@test.com")

	// 同一用户同一航班两次预测 = 两条独立记录
	createTestPrediction(t, user.UserID, "FLT1001", model.OutcomeSoftLanding, "Dry")
	createTestPrediction(t, user.UserID, "FLT1001", model.OutcomeHardLanding, "Wet")

	repo := repository.NewPredictionRepo(testDB)
	_, total, err := repo.List(context.Background(), user.UserID, nil, 0, 10, "createdAt", "desc")
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != 2 {
		t.Errorf("追加语义被破坏，期望 2 条，实际=%d", total)
	}
}

// ═══════════════════════════════════════════════════════════
// UserRepository / 级联删除
// ═══════════════════════════════════════════════════════════

func TestUserRepo_DeleteCascadesPredictions(t *testing.T) {
	cleanup(t)
	user := createTestUser(t, "cascade@test.com")
	createTestPrediction(t, user.UserID, "FLT1001", model.OutcomeSoftLanding, "Dry")

	userRepo := repository.NewUserRepo(testDB)
	if err := userRepo.Delete(context.Background(), user.UserID); err != nil {
		t.Fatalf("删除用户失败: %v", err)
	}

	var count int64
	testDB.Model(&model.Prediction{}).Where("user_id = ?", user.UserID).Count(&count)
	if count != 0 {
		t.Errorf("用户删除后预测记录应级联清除，剩余=%d", count)
	}
}

func TestUserRepo_EmailUniqueConstraint(t *testing.T) {
	cleanup(t)
	createTestUser(t, "dup@test.com")

	repo := repository.NewUserRepo(testDB)
	err := repo.Create(context.Background(), &model.User{
		FirstName:    "Dup",
		LastName:     "User",
		Email:        "dup@test.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
	})
	if err == nil {
		t.Error("重复邮箱插入应被唯一索引拒绝")
	}
}

// ═══════════════════════════════════════════════════════════
// FlightRepository
// ═══════════════════════════════════════════════════════════

func TestFlightRepo_ReplaceAll(t *testing.T) {
	cleanup(t)
	repo := repository.NewFlightRepo(testDB)
	ctx := context.Background()

	first := []model.Flight{
		{FlightID: "FLT1001", RunwayCondition: model.RunwayDry},
		{FlightID: "FLT2002", RunwayCondition: model.RunwayWet},
	}
	if err := repo.ReplaceAll(ctx, first); err != nil {
		t.Fatalf("ReplaceAll 失败: %v", err)
	}

	// 第二次装载整表替换，不做合并
	second := []model.Flight{
		{FlightID: "FLT3003", RunwayCondition: model.RunwaySlippery},
	}
	if err := repo.ReplaceAll(ctx, second); err != nil {
		t.Fatalf("ReplaceAll 失败: %v", err)
	}

	total, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count 失败: %v", err)
	}
	if total != 1 {
		t.Errorf("整表替换后期望 1 条，实际=%d", total)
	}

	if _, err := repo.GetByFlightID(ctx, "FLT1001"); err == nil {
		t.Error("旧数据应已被清除")
	}
}

// [自证通过] internal/repository/integration_test.go
