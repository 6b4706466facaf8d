package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/napolitain/lastwar-buildtime/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load failed: %v", err)
	}
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Calculator.Timezone = "UTC"
	return cfg
}

func TestNewServerServesCalculation(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }
	srv, err := newServer(testConfig(t), zap.NewNop(), now)
	if err != nil {
		t.Fatalf("newServer failed: %v", err)
	}

	body := strings.NewReader(`{"building":"본부","transition":"25 → 26","self_speed_percent":82.5,"bonus_speed_percent":50}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/calculate", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"completion_display":"2026-03-16 06:24:11"`) {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestNewServerRejectsBadCatalog(t *testing.T) {
	cfg := testConfig(t)
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "missing.json")

	if _, err := newServer(cfg, zap.NewNop(), time.Now); err == nil {
		t.Error("expected an error for a missing catalog")
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	srv, err := newServer(testConfig(t), zap.NewNop(), time.Now)
	if err != nil {
		t.Fatalf("newServer failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, time.Second, zap.NewNop()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lwcalc.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := run(context.Background(), path); err == nil {
		t.Error("expected an error for an invalid log level")
	}
}
