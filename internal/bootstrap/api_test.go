package bootstrap

import (
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"skincheck_server/adapter/out/catalog"
	"skincheck_server/config"
	"skincheck_server/core/domain"
	"skincheck_server/core/service/analysis"
	"skincheck_server/core/service/ingredient"
	"skincheck_server/infra/middleware"
	"skincheck_server/pkg/metrics"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeps() *Dependencies {
	store := catalog.New([]*domain.Ingredient{
		{ID: 1, Name: "Water", SkinTypes: []string{"all"}, Verdict: "Good"},
		{ID: 2, Name: "Fragrance", SkinTypes: []string{"general"}, Verdict: "Bad"},
	})
	resolver := ingredient.NewResolver(store, nil)
	m := metrics.New()
	return &Dependencies{
		Metrics:         m,
		Resolver:        resolver,
		AnalysisService: analysis.NewService(analysis.Deps{Resolver: resolver, Metrics: m}, nil),
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:     "test",
		RateLimitPerMin: 2,
		ExplainTimeout:  time.Second,
	}
}

func request(t *testing.T, app *fiber.App, method, path, body, token string) *nethttp.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestNewApp_PublicRoutes(t *testing.T) {
	app := newApp(testConfig(), testDeps())

	for _, path := range []string{"/health", "/ready", "/metrics"} {
		resp := request(t, app, fiber.MethodGet, path, "", "")
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
	}

	resp := request(t, app, fiber.MethodGet, "/health", "", "")
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestNewApp_CheckProduct(t *testing.T) {
	app := newApp(testConfig(), testDeps())

	resp := request(t, app, fiber.MethodPost, "/api/v1/check-product",
		`{"ingredients": "Water, Fragrance", "skin_type": "oily"}`, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-store", resp.Header.Get(fiber.HeaderCacheControl))

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			OverallVerdict string `json:"overall_verdict"`
		} `json:"data"`
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	assert.True(t, body.Success)
	assert.NotEmpty(t, body.Data.OverallVerdict)
}

func TestNewApp_RateLimited(t *testing.T) {
	app := newApp(testConfig(), testDeps())

	for i := 0; i < 2; i++ {
		resp := request(t, app, fiber.MethodGet, "/api/v1/ingredients/resolve?name=water&skin_type=oily", "", "")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	resp := request(t, app, fiber.MethodGet, "/api/v1/ingredients/resolve?name=water&skin_type=oily", "", "")
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
}

func TestNewApp_RequiresTokenWhenSecretSet(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = "s3cret"
	app := newApp(cfg, testDeps())

	resp := request(t, app, fiber.MethodGet, "/api/v1/ingredients/resolve?name=water&skin_type=oily", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token, err := middleware.SignToken(cfg.JWTSecret, "tester", jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	resp = request(t, app, fiber.MethodGet, "/api/v1/ingredients/resolve?name=water&skin_type=oily", "", token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// health stays public
	resp = request(t, app, fiber.MethodGet, "/health", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
