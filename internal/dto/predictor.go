package dto

import (
	"safeland/backend/internal/model"
	"safeland/backend/pkg/response"
)

// ── 预测模块 DTO ──

// FlightDataRequest 航班参数查询请求
type FlightDataRequest struct {
	FlightID string `json:"Flight_ID" binding:"required"`
}

// PredictRequest 预测请求：Flight_ID + 16 项飞行参数
// 除 Flight_ID 非空外，数值参数不做服务端范围校验，原样转发给预测进程
// （与预测脚本的输入契约保持一致，字段名即脚本的特征名）
type PredictRequest map[string]interface{}

// FlightID 提取 Flight_ID 字段；缺失或非字符串时返回空串
func (r PredictRequest) FlightID() string {
	v, ok := r["Flight_ID"]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// PredictResponse 预测成功响应
// 预测进程的输出原样透传；predictionId 仅在入库成功时携带
type PredictResponse struct {
	Prediction         string                 `json:"prediction"`
	Probability        string                 `json:"probability"`
	ShapContributions  map[string]interface{} `json:"shap_contributions"`
	CorrectiveMeasures []string               `json:"corrective_measures,omitempty"`
	PredictionID       string                 `json:"predictionId,omitempty"`
}

// ── 历史查询 DTO ──

// HistoryRequest 预测历史查询参数
type HistoryRequest struct {
	Page      int    `form:"page"      binding:"omitempty,min=1"`
	Limit     int    `form:"limit"     binding:"omitempty,min=1,max=100"`
	Search    string `form:"search"`
	Outcome   string `form:"outcome"   binding:"omitempty,oneof='Hard Landing' 'Soft Landing'"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
}

// GetPage 获取页码（含默认值，1 起始）
func (r *HistoryRequest) GetPage() int {
	if r.Page <= 0 {
		return 1
	}
	return r.Page
}

// GetLimit 获取每页数量（含默认值）
func (r *HistoryRequest) GetLimit() int {
	if r.Limit <= 0 {
		return 10
	}
	return r.Limit
}

// GetOffset 计算偏移量
func (r *HistoryRequest) GetOffset() int {
	return (r.GetPage() - 1) * r.GetLimit()
}

// HistoryItem 历史记录条目
type HistoryItem struct {
	ID                 string                 `json:"id"`
	FlightID           string                 `json:"flightId"`
	Prediction         string                 `json:"prediction"`
	Probability        string                 `json:"probability"`
	Timestamp          string                 `json:"timestamp"`
	InputData          map[string]interface{} `json:"inputData"`
	ShapContributions  map[string]interface{} `json:"shapContributions"`
	CorrectiveMeasures []string               `json:"correctiveMeasures"`
}

// HistoryResponse 历史查询响应（分页元数据复用统一响应包的结构）
type HistoryResponse struct {
	Predictions []HistoryItem       `json:"predictions"`
	Pagination  response.Pagination `json:"pagination"`
}

// NewHistoryItem 将预测记录转换为历史条目
func NewHistoryItem(p *model.Prediction) HistoryItem {
	measures := p.CorrectiveMeasures
	if measures == nil {
		measures = []string{}
	}
	return HistoryItem{
		ID:                 p.PredictionID,
		FlightID:           p.FlightID,
		Prediction:         p.Prediction,
		Probability:        p.Probability,
		Timestamp:          p.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
		InputData:          p.InputData,
		ShapContributions:  p.ShapContributions,
		CorrectiveMeasures: measures,
	}
}

// [自证通过] internal/dto/predictor.go
