package predictor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"safeland/backend/config"
)

func newTestGateway(t *testing.T, timeout time.Duration) Gateway {
	t.Helper()
	return NewGateway(&config.PredictorConfig{
		Python:  "sh",
		Script:  "testdata/fake_predictor.sh",
		Timeout: timeout,
	}, zap.NewNop())
}

func TestPredict_Success(t *testing.T) {
	g := newTestGateway(t, 10*time.Second)

	result, err := g.Predict(context.Background(), map[string]interface{}{
		"Flight_ID": "FLT1001",
		"G_Force":   1.2,
	})
	if err != nil {
		t.Fatalf("Predict 失败: %v", err)
	}

	if result.Prediction != "Soft Landing" {
		t.Errorf("期望 prediction=Soft Landing，实际=%s", result.Prediction)
	}
	if result.Probability != "12%" {
		t.Errorf("期望 probability=12%%，实际=%s", result.Probability)
	}
	if v, ok := result.ShapContributions["G_Force"]; !ok || v.(float64) != -0.12 {
		t.Errorf("SHAP 贡献未透传: %v", result.ShapContributions)
	}
	if len(result.CorrectiveMeasures) != 1 || result.CorrectiveMeasures[0] != "Reduce descent rate" {
		t.Errorf("改进措施未透传: %v", result.CorrectiveMeasures)
	}
}

func TestPredict_NonZeroExit(t *testing.T) {
	g := newTestGateway(t, 10*time.Second)

	_, err := g.Predict(context.Background(), map[string]interface{}{"Flight_ID": "FAIL"})

	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("期望 ExecutionError，实际=%v", err)
	}
	if execErr.ExitCode != 1 {
		t.Errorf("期望退出码 1，实际=%d", execErr.ExitCode)
	}
	if !strings.Contains(execErr.Stderr, "model blew up") {
		t.Errorf("stderr 应包含诊断信息，实际=%q", execErr.Stderr)
	}
}

func TestPredict_GarbageOutput(t *testing.T) {
	g := newTestGateway(t, 10*time.Second)

	_, err := g.Predict(context.Background(), map[string]interface{}{"Flight_ID": "GARBAGE"})
	if !errors.Is(err, ErrParse) {
		t.Errorf("期望 ErrParse，实际=%v", err)
	}
}

func TestPredict_EmptyOutput(t *testing.T) {
	g := newTestGateway(t, 10*time.Second)

	_, err := g.Predict(context.Background(), map[string]interface{}{"Flight_ID": "EMPTY"})
	if !errors.Is(err, ErrParse) {
		t.Errorf("期望 ErrParse，实际=%v", err)
	}
}

func TestPredict_SpawnFailure(t *testing.T) {
	g := NewGateway(&config.PredictorConfig{
		Python:  "no-such-interpreter-xyz",
		Script:  "testdata/fake_predictor.sh",
		Timeout: 10 * time.Second,
	}, zap.NewNop())

	_, err := g.Predict(context.Background(), map[string]interface{}{"Flight_ID": "FLT1001"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("期望 ErrUnavailable，实际=%v", err)
	}
}

func TestPredict_Timeout(t *testing.T) {
	g := newTestGateway(t, 500*time.Millisecond)

	start := time.Now()
	_, err := g.Predict(context.Background(), map[string]interface{}{"Flight_ID": "SLEEP"})
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("超时调用应返回错误")
	}
	if elapsed > 10*time.Second {
		t.Errorf("超时未生效，耗时=%v", elapsed)
	}
}

func TestLookupFlight_Success(t *testing.T) {
	g := newTestGateway(t, 10*time.Second)

	data, err := g.LookupFlight(context.Background(), "FLT1001")
	if err != nil {
		t.Fatalf("LookupFlight 失败: %v", err)
	}

	if data["Flight_ID"] != "FLT1001" {
		t.Errorf("期望 Flight_ID=FLT1001，实际=%v", data["Flight_ID"])
	}
	if data["Runway_Condition"] != "Dry" {
		t.Errorf("期望 Runway_Condition=Dry，实际=%v", data["Runway_Condition"])
	}
}

func TestLookupFlight_NotFound(t *testing.T) {
	g := newTestGateway(t, 10*time.Second)

	_, err := g.LookupFlight(context.Background(), "FLT404")

	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("期望 ExecutionError，实际=%v", err)
	}
}

// [自证通过] internal/predictor/gateway_test.go
