package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/napolitain/lastwar-buildtime/internal/config"
	"github.com/napolitain/lastwar-buildtime/internal/converter"
	"github.com/napolitain/lastwar-buildtime/internal/loader"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestEngine(t *testing.T, log *zap.Logger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat, err := loader.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	h := NewHandler(cat, Options{
		Location: time.FixedZone("KST", 9*3600),
		Now:      func() time.Time { return fixedNow },
	})
	return NewEngine(h, log)
}

func do(t *testing.T, engine http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func transitionsPath(id string) string {
	return "/v1/buildings/" + url.PathEscape(id) + "/transitions"
}

func TestHealthz(t *testing.T) {
	engine := newTestEngine(t, nil)

	w := do(t, engine, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status code: got=%d want=%d", w.Code, http.StatusOK)
	}
}

func TestListBuildings(t *testing.T) {
	engine := newTestEngine(t, nil)

	w := do(t, engine, http.MethodGet, "/v1/buildings", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	resp := decode[struct {
		Buildings []converter.BuildingDTO `json:"buildings"`
	}](t, w)

	if len(resp.Buildings) != 5 {
		t.Fatalf("got %d buildings, want 5", len(resp.Buildings))
	}
	hq := resp.Buildings[0]
	if hq.ID != "본부" || hq.Transitions != 11 || hq.Highest != "30 → 31" {
		t.Errorf("first building = %+v", hq)
	}
}

func TestListTransitionsDescending(t *testing.T) {
	engine := newTestEngine(t, nil)

	w := do(t, engine, http.MethodGet, transitionsPath("벽"), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	resp := decode[struct {
		Building    string               `json:"building"`
		Transitions []converter.EntryDTO `json:"transitions"`
	}](t, w)

	if resp.Building != "벽" || len(resp.Transitions) != 7 {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Transitions[0].Transition != "29 → 30" {
		t.Errorf("first = %q, want 29 → 30", resp.Transitions[0].Transition)
	}
	for i := 1; i < len(resp.Transitions); i++ {
		if resp.Transitions[i-1].From <= resp.Transitions[i].From {
			t.Errorf("not descending at %d: %q then %q", i, resp.Transitions[i-1].Transition, resp.Transitions[i].Transition)
		}
	}
}

func TestListTransitionsUnknownBuilding(t *testing.T) {
	engine := newTestEngine(t, nil)

	w := do(t, engine, http.MethodGet, transitionsPath("병원"), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	body := decode[converter.ErrorResponse](t, w)
	if body.Error.Kind != converter.KindNotFound {
		t.Errorf("kind = %q", body.Error.Kind)
	}
}

func TestLookupTransition(t *testing.T) {
	engine := newTestEngine(t, nil)

	tests := []struct {
		name     string
		building string
		key      string
		status   int
		base     int64
	}{
		{"Canonical", "본부", "25 → 26", http.StatusOK, 375840},
		{"Compact", "본부", "25→26", http.StatusOK, 375840},
		{"Placeholder", "본부", "30 → 31", http.StatusOK, 0},
		{"MissingKey", "본부", "", http.StatusBadRequest, 0},
		{"UnknownTransition", "본부", "5 → 6", http.StatusNotFound, 0},
		{"UnknownBuilding", "병원", "25 → 26", http.StatusNotFound, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := transitionsPath(tt.building) + "/lookup"
			if tt.key != "" {
				target += "?key=" + url.QueryEscape(tt.key)
			}
			w := do(t, engine, http.MethodGet, target, nil)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}
			entry := decode[converter.EntryDTO](t, w)
			if entry.BaseSeconds != tt.base {
				t.Errorf("base = %d, want %d", entry.BaseSeconds, tt.base)
			}
		})
	}
}

func TestCalculateFromCatalog(t *testing.T) {
	engine := newTestEngine(t, nil)

	w := do(t, engine, http.MethodPost, "/v1/calculate", map[string]any{
		"building":            "본부",
		"transition":          "25 → 26",
		"self_speed_percent":  82.5,
		"bonus_speed_percent": 50,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	resp := decode[converter.CalculateResponse](t, w)

	if resp.ReducedSeconds != 161651 {
		t.Errorf("reduced = %d, want 161651", resp.ReducedSeconds)
	}
	if resp.Duration != "1D 20:54:11" {
		t.Errorf("duration = %q", resp.Duration)
	}
	if resp.TotalSpeedPercent != 132.5 {
		t.Errorf("total speed = %v", resp.TotalSpeedPercent)
	}
	if !resp.Reference.Equal(fixedNow) {
		t.Errorf("reference = %v, want injected clock", resp.Reference)
	}
	// 09:30 UTC is 18:30 KST; plus 1D 20:54:11
	if resp.CompletionDisplay != "2026-03-16 15:24:11" {
		t.Errorf("completion display = %q", resp.CompletionDisplay)
	}
	if resp.Entry == nil || resp.Entry.Transition != "25 → 26" {
		t.Errorf("entry = %+v", resp.Entry)
	}
}

func TestCalculateFromBaseSources(t *testing.T) {
	engine := newTestEngine(t, nil)
	ref := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		body map[string]any
		want int64
	}{
		{"Seconds", map[string]any{"base_seconds": 8778600, "self_speed_percent": 82.5, "bonus_speed_percent": 50}, 3775741},
		{"Text", map[string]any{"base": "4d 08:24:00", "self_speed_percent": 82.5, "bonus_speed_percent": 50}, 161651},
		{"NoBonus", map[string]any{"base_seconds": 3600}, 3600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.body["reference"] = ref.Format(time.RFC3339)
			w := do(t, engine, http.MethodPost, "/v1/calculate", tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
			}
			resp := decode[converter.CalculateResponse](t, w)
			if resp.ReducedSeconds != tt.want {
				t.Errorf("reduced = %d, want %d", resp.ReducedSeconds, tt.want)
			}
			if got := resp.Completion.Sub(ref); got != time.Duration(tt.want)*time.Second {
				t.Errorf("completion offset = %v", got)
			}
			if resp.Entry != nil {
				t.Error("entry should be omitted without a catalog lookup")
			}
		})
	}
}

func TestCalculateErrors(t *testing.T) {
	engine := newTestEngine(t, nil)

	tests := []struct {
		name   string
		body   any
		status int
		kind   string
	}{
		{"NoSource", map[string]any{"self_speed_percent": 10}, http.StatusBadRequest, converter.KindInvalidInput},
		{"TwoSources", map[string]any{"base_seconds": 60, "base": "1d"}, http.StatusBadRequest, converter.KindInvalidInput},
		{"BuildingWithoutTransition", map[string]any{"building": "본부"}, http.StatusBadRequest, converter.KindInvalidInput},
		{"ZeroBase", map[string]any{"base_seconds": 0}, http.StatusBadRequest, converter.KindInvalidInput},
		{"NegativeBase", map[string]any{"base_seconds": -5}, http.StatusBadRequest, converter.KindInvalidInput},
		{"PlaceholderRow", map[string]any{"building": "본부", "transition": "30 → 31"}, http.StatusBadRequest, converter.KindInvalidInput},
		{"BadText", map[string]any{"base": "soon"}, http.StatusBadRequest, converter.KindInvalidInput},
		{"SelfSpeedTooHigh", map[string]any{"base_seconds": 60, "self_speed_percent": 501}, http.StatusBadRequest, converter.KindInvalidInput},
		{"BonusNotAllowed", map[string]any{"base_seconds": 60, "bonus_speed_percent": 30}, http.StatusBadRequest, converter.KindInvalidInput},
		{"UnknownTransition", map[string]any{"building": "본부", "transition": "1 → 2"}, http.StatusNotFound, converter.KindNotFound},
		{"UnknownBuilding", map[string]any{"building": "병원", "transition": "1 → 2"}, http.StatusNotFound, converter.KindNotFound},
		{"BadReference", map[string]any{"base_seconds": 60, "reference": "tomorrow"}, http.StatusBadRequest, converter.KindInvalidInput},
		{"NotAnObject", []int{1, 2}, http.StatusBadRequest, converter.KindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, engine, http.MethodPost, "/v1/calculate", tt.body)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body.String())
			}
			body := decode[converter.ErrorResponse](t, w)
			if body.Error.Kind != tt.kind {
				t.Errorf("kind = %q, want %q", body.Error.Kind, tt.kind)
			}
			if body.Error.Message == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	engine := newTestEngine(t, zap.New(core))

	do(t, engine, http.MethodGet, "/healthz", nil)
	do(t, engine, http.MethodGet, transitionsPath("병원"), nil)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}

	ok := entries[0]
	if ok.Level != zapcore.InfoLevel || ok.ContextMap()["route"] != "/healthz" {
		t.Errorf("healthz entry = %+v", ok.ContextMap())
	}

	miss := entries[1]
	if miss.Level != zapcore.WarnLevel {
		t.Errorf("404 logged at %v, want warn", miss.Level)
	}
	fields := miss.ContextMap()
	if fields["route"] != "/v1/buildings/:id/transitions" {
		t.Errorf("route = %v", fields["route"])
	}
	if fields["status"] != int64(http.StatusNotFound) {
		t.Errorf("status = %v (%T)", fields["status"], fields["status"])
	}
	if fields["error_kind"] != converter.KindNotFound {
		t.Errorf("error_kind = %v", fields["error_kind"])
	}
}

func TestNewServer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	s := NewServer(config.ServerConfig{Addr: ":0", ReadTimeout: time.Second}, engine)
	if s.Addr() != ":0" {
		t.Errorf("Addr = %q", s.Addr())
	}
	if s.Handler() != http.Handler(engine) {
		t.Error("Handler should be the engine passed in")
	}
}

func TestPlan(t *testing.T) {
	engine := newTestEngine(t, nil)

	w := do(t, engine, http.MethodPost, "/v1/plan", map[string]any{
		"building":            "본부",
		"from":                25,
		"to":                  28,
		"self_speed_percent":  82.5,
		"bonus_speed_percent": 50,
		"reference":           "2026-03-14T09:30:00Z",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	resp := decode[converter.PlanResponse](t, w)

	if len(resp.Steps) != 3 {
		t.Fatalf("got %d steps, want 3", len(resp.Steps))
	}
	if resp.ReducedSeconds != 675715 || resp.Duration != "7D 19:41:55" {
		t.Errorf("total = %d (%s)", resp.ReducedSeconds, resp.Duration)
	}
	// 2026-03-22 05:11:55 UTC in KST
	if resp.EndDisplay != "2026-03-22 14:11:55" {
		t.Errorf("EndDisplay = %q", resp.EndDisplay)
	}
	if resp.Costs.Display != "철 64.2M · 식량 64.2M · 골드 23.7M" {
		t.Errorf("Costs.Display = %q", resp.Costs.Display)
	}
}

func TestPlanErrors(t *testing.T) {
	engine := newTestEngine(t, nil)

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"MissingBuilding", map[string]any{"from": 25, "to": 26}, http.StatusBadRequest},
		{"Backwards", map[string]any{"building": "본부", "from": 26, "to": 25}, http.StatusBadRequest},
		{"Gap", map[string]any{"building": "본부", "from": 10, "to": 22}, http.StatusNotFound},
		{"Placeholder", map[string]any{"building": "본부", "from": 29, "to": 31}, http.StatusBadRequest},
		{"UnknownBuilding", map[string]any{"building": "병원", "from": 1, "to": 2}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, engine, http.MethodPost, "/v1/plan", tt.body)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body.String())
			}
		})
	}
}
