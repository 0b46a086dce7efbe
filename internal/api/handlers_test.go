package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/zapponejosh/bazi-api/internal/bazi"
	"github.com/zapponejosh/bazi-api/internal/calendar"
	"github.com/zapponejosh/bazi-api/internal/config"
	"github.com/zapponejosh/bazi-api/internal/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// =============================================================================
// TEST SETUP HELPERS
// =============================================================================

type testEnv struct {
	cfg     *config.Config
	handler http.Handler
	logs    *bytes.Buffer
}

// failingMethod always errors, forcing the arithmetic fallback.
type failingMethod struct{}

func (failingMethod) Name() calendar.Source { return calendar.SourcePrecise }

func (failingMethod) Pillars(context.Context, time.Time) (calendar.Pillars, error) {
	return calendar.Pillars{}, fmt.Errorf("backend offline")
}

// setupTest builds the full router over an arithmetic-only engine so the
// expected pillars are fixed.
func setupTest(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Port:            8080,
		Env:             config.EnvDevelopment,
		CalendarBackend: config.BackendArithmetic,
		CalendarMinYear: 1900,
		CalendarMaxYear: 2100,
		RateLimitRPS:    0,
		BatchLimit:      5,
		LogLevel:        "error",
		LogFormat:       "text",
	}
	for _, m := range mutate {
		m(cfg)
	}
	require.NoError(t, cfg.Validate())

	var logs bytes.Buffer
	log := logger.New(&logs, "info", "json")

	engine := bazi.NewEngine(calendar.NewResolver(nil), bazi.WithConcurrency(2))
	return &testEnv{
		cfg:     cfg,
		handler: SetupRoutes(NewHandlers(engine, cfg, log), cfg, log),
		logs:    &logs,
	}
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)
	return rr
}

// envelope mirrors Response with a raw payload for typed decoding.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorInfo      `json:"error"`
}

func parseResponse(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env
}

// pillarNames pulls the four pillar names out of a serialized reading.
func pillarNames(t *testing.T, raw json.RawMessage) []string {
	t.Helper()
	var reading struct {
		Chart struct {
			Pillars []struct {
				Name string `json:"name"`
			} `json:"pillars"`
		} `json:"chart"`
	}
	require.NoError(t, json.Unmarshal(raw, &reading))

	names := make([]string, len(reading.Chart.Pillars))
	for i, p := range reading.Chart.Pillars {
		names[i] = p.Name
	}
	return names
}

// =============================================================================
// HEALTH
// =============================================================================

func TestHealthCheck(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := parseResponse(t, rr)
	assert.True(t, resp.Success)
	assert.JSONEq(t, `{"status":"healthy","calendar":"arithmetic"}`, string(resp.Data))
}

// =============================================================================
// SINGLE CHART
// =============================================================================

func TestGetChart_Success(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, http.MethodGet, "/api/v1/charts?date=2024-02-10&time=12:00&gender=female", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := parseResponse(t, rr)
	require.True(t, resp.Success)
	assert.Equal(t, []string{"甲辰", "丙寅", "甲辰", "庚午"}, pillarNames(t, resp.Data))

	var reading map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(resp.Data, &reading))
	for _, key := range []string{"chart", "ten_gods", "nayin", "relationships", "elements", "void"} {
		assert.Contains(t, reading, key)
	}
	assert.NotContains(t, string(resp.Data), "arithmetic", "calendar source must not leak")
	assert.Contains(t, string(resp.Data), `"gender":"female"`)
}

func TestGetChart_DateOnlyUsesNoon(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, http.MethodGet, "/api/v1/charts?date=2000-01-01", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := parseResponse(t, rr)
	assert.Equal(t, []string{"己卯", "丙子", "戊午", "戊午"}, pillarNames(t, resp.Data))
	assert.Contains(t, string(resp.Data), `"has_time":false`)
}

func TestGetChart_FallbackIsInvisible(t *testing.T) {
	cfg := &config.Config{BatchLimit: 1, CalendarBackend: config.BackendLunar}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	precise := bazi.NewEngine(calendar.NewResolver(failingMethod{}))
	arith := bazi.NewEngine(calendar.NewResolver(nil))

	get := func(engine *bazi.Engine) []byte {
		h := SetupRoutes(NewHandlers(engine, cfg, log), cfg, log)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/charts?date=1990-06-15&time=08:30", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		return rr.Body.Bytes()
	}

	assert.Equal(t, string(get(arith)), string(get(precise)))
}

func TestGetChart_InvalidInput(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name  string
		query string
	}{
		{"missing date", ""},
		{"bad date", "date=2024-13-40"},
		{"bad time", "date=2024-02-10&time=25:99"},
		{"time given twice", "date=2024-02-10T08:00&time=09:00"},
		{"unknown gender", "date=2024-02-10&gender=robot"},
		{"year out of range", "date=0000-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodGet, "/api/v1/charts?"+tt.query, nil)
			require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())

			resp := parseResponse(t, rr)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
			assert.Contains(t, resp.Error.Message, "invalid input")
		})
	}
}

// =============================================================================
// BATCH
// =============================================================================

func TestBatchCharts_PreservesOrder(t *testing.T) {
	env := setupTest(t)

	req := BatchRequest{Births: []BirthRequest{
		{Date: "2024-02-10", Time: "12:00"},
		{Date: "2000-01-01"},
		{Date: "2024-02-10", Time: "12:00", Gender: "male"},
	}}
	rr := env.do(t, http.MethodPost, "/api/v1/charts/batch", req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := parseResponse(t, rr)
	var readings []json.RawMessage
	require.NoError(t, json.Unmarshal(resp.Data, &readings))
	require.Len(t, readings, 3)

	assert.Equal(t, []string{"甲辰", "丙寅", "甲辰", "庚午"}, pillarNames(t, readings[0]))
	assert.Equal(t, []string{"己卯", "丙子", "戊午", "戊午"}, pillarNames(t, readings[1]))
	assert.Equal(t, pillarNames(t, readings[0]), pillarNames(t, readings[2]))
}

func TestBatchCharts_Rejections(t *testing.T) {
	env := setupTest(t)

	tooMany := BatchRequest{}
	for i := 0; i <= env.cfg.BatchLimit; i++ {
		tooMany.Births = append(tooMany.Births, BirthRequest{Date: "2001-01-01"})
	}

	tests := []struct {
		name    string
		body    interface{}
		message string
	}{
		{"malformed json", `{"births":`, "Invalid request body"},
		{"unknown field", `{"people":[]}`, "Invalid request body"},
		{"empty", BatchRequest{}, "At least one birth"},
		{"over limit", tooMany, "Too many births"},
		{"bad entry", BatchRequest{Births: []BirthRequest{{Date: "2001-01-01"}, {Date: "yesterday"}}}, "births[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/api/v1/charts/batch", tt.body)
			require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())

			resp := parseResponse(t, rr)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
			assert.Contains(t, resp.Error.Message, tt.message)
		})
	}
}

func TestBatchCharts_ExpiredContext(t *testing.T) {
	env := setupTest(t)

	body, err := json.Marshal(BatchRequest{Births: []BirthRequest{{Date: "2001-01-01"}}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/charts/batch", bytes.NewReader(body)).WithContext(ctx)
	rr := httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "UNAVAILABLE", parseResponse(t, rr).Error.Code)
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, http.MethodGet, "/health", nil)
	generated := rr.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "client-123")
	rr = httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)
	assert.Equal(t, "client-123", rr.Header().Get(RequestIDHeader))
	assert.Contains(t, env.logs.String(), `"request_id":"client-123"`)
}

func TestRateLimit(t *testing.T) {
	env := setupTest(t, func(c *config.Config) {
		c.RateLimitRPS = 0.001
		c.RateLimitBurst = 2
	})

	for i := 0; i < 2; i++ {
		rr := env.do(t, http.MethodGet, "/api/v1/charts?date=2001-01-01", nil)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := env.do(t, http.MethodGet, "/api/v1/charts?date=2001-01-01", nil)
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "RATE_LIMITED", parseResponse(t, rr).Error.Code)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))

	// Health stays outside the limiter.
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health", nil).Code)
}

func TestCORSPreflight(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, http.MethodOptions, "/api/v1/charts", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestChainMiddleware_Order(t *testing.T) {
	var calls []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls = append(calls, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := ChainMiddleware(tag("outer"), tag("middle"), tag("inner"))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		calls = append(calls, "handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "middle", "inner", "handler"}, calls)
}

func TestBaseMiddlewareWrapsEveryRoute(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(RequestIDHeader))
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	var logs bytes.Buffer
	log := logger.New(&logs, "error", "json")

	h := RecoveryMiddleware(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "INTERNAL_ERROR", parseResponse(t, rr).Error.Code)
	assert.Contains(t, logs.String(), "panic recovered")
}

func TestTimeoutMiddleware(t *testing.T) {
	var deadline time.Time
	var ok bool
	h := TimeoutMiddleware(time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, ok = r.Context().Deadline()
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

func TestUnknownRoutes(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, http.MethodGet, "/api/v1/readings/today", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "NOT_FOUND", parseResponse(t, rr).Error.Code)

	rr = env.do(t, http.MethodDelete, "/api/v1/charts/batch", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "METHOD_NOT_ALLOWED", parseResponse(t, rr).Error.Code)
}
