package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User       UserRepository
	Admin      AdminRepository
	Prediction PredictionRepository
	Flight     FlightRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:       NewUserRepo(db),
		Admin:      NewAdminRepo(db),
		Prediction: NewPredictionRepo(db),
		Flight:     NewFlightRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
