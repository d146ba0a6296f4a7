package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"

	"safeland/backend/config"
	"safeland/backend/internal/model"
	"safeland/backend/internal/repository"
	"safeland/backend/pkg/database"
	applogger "safeland/backend/pkg/logger"
)

// flightloader 从 CSV 数据集批量装载航班参考数据
// 装载语义为整表替换：清空 flights 后重新插入（与预测脚本使用同一份数据集）
//
// 用法:
//
//	flightloader -csv flight_data.csv [-config config.yaml]
func main() {
	csvPath := flag.String("csv", "", "航班数据集 CSV 路径")
	configPath := flag.String("config", "", "配置文件路径（留空时按默认搜索路径）")
	flag.Parse()

	if *csvPath == "" {
		fmt.Fprintln(os.Stderr, "用法: flightloader -csv <flight_data.csv>")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	flights, err := loadCSV(*csvPath)
	if err != nil {
		logger.Fatal("解析 CSV 失败", zap.String("path", *csvPath), zap.Error(err))
	}

	repo := repository.NewFlightRepo(db)
	if err := repo.ReplaceAll(context.Background(), flights); err != nil {
		logger.Fatal("装载航班数据失败", zap.Error(err))
	}

	logger.Info("航班数据装载完成",
		zap.String("path", *csvPath),
		zap.Int("count", len(flights)),
	)
}

// loadCSV 解析数据集 CSV；列顺序由表头决定，缺列直接报错
func loadCSV(path string) ([]model.Flight, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	required := []string{
		"Flight_ID", "Altitude_AGL_ft", "Vertical_Speed_fpm", "Touchdown_Velocity_fps",
		"G_Force", "Wind_Speed_kts", "Crosswind_Component_kts", "Visibility_miles",
		"Runway_Condition", "Throttle_Input", "Brake_Force_pct", "Flaps_Position_deg",
		"Rudder_Deflection_deg", "Aileron_Deflection_deg", "Landing_Gear_Force_N",
		"Spoiler_Deployment_pct", "Reverse_Thrust_pct",
	}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("CSV 缺少列: %s", name)
		}
	}

	var flights []model.Flight
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("第 %d 行读取失败: %w", line, err)
		}

		num := func(name string) (float64, error) {
			return strconv.ParseFloat(record[col[name]], 64)
		}

		flight := model.Flight{
			FlightID:        record[col["Flight_ID"]],
			RunwayCondition: record[col["Runway_Condition"]],
		}
		if flight.FlightID == "" {
			return nil, fmt.Errorf("第 %d 行 Flight_ID 为空", line)
		}

		fields := []struct {
			name string
			dst  *float64
		}{
			{"Altitude_AGL_ft", &flight.AltitudeAGLFt},
			{"Vertical_Speed_fpm", &flight.VerticalSpeedFpm},
			{"Touchdown_Velocity_fps", &flight.TouchdownVelocityFps},
			{"G_Force", &flight.GForce},
			{"Wind_Speed_kts", &flight.WindSpeedKts},
			{"Crosswind_Component_kts", &flight.CrosswindComponentKts},
			{"Visibility_miles", &flight.VisibilityMiles},
			{"Throttle_Input", &flight.ThrottleInput},
			{"Brake_Force_pct", &flight.BrakeForcePct},
			{"Flaps_Position_deg", &flight.FlapsPositionDeg},
			{"Rudder_Deflection_deg", &flight.RudderDeflectionDeg},
			{"Aileron_Deflection_deg", &flight.AileronDeflectionDeg},
			{"Landing_Gear_Force_N", &flight.LandingGearForceN},
			{"Spoiler_Deployment_pct", &flight.SpoilerDeploymentPct},
			{"Reverse_Thrust_pct", &flight.ReverseThrustPct},
		}
		for _, fld := range fields {
			v, err := num(fld.name)
			if err != nil {
				return nil, fmt.Errorf("第 %d 行 %s 不是数值: %w", line, fld.name, err)
			}
			*fld.dst = v
		}

		flights = append(flights, flight)
	}

	return flights, nil
}

// [自证通过] cmd/flightloader/main.go
