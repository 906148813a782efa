package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OwaisIslam/living-real/internal/data/repos"
	"github.com/OwaisIslam/living-real/internal/data/repos/testutil"
	httpH "github.com/OwaisIslam/living-real/internal/http/handlers"
	httpMW "github.com/OwaisIslam/living-real/internal/http/middleware"
	"github.com/OwaisIslam/living-real/internal/observability"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
	"github.com/OwaisIslam/living-real/internal/services"
)

type stubProcessor struct{ amount int64 }

func (p *stubProcessor) CreateProduct(ctx context.Context, name string) (string, error) {
	return "prod_1", nil
}

func (p *stubProcessor) CreatePrice(ctx context.Context, productID string, unitAmount int64, currency string) (string, error) {
	p.amount = unitAmount
	return "price_1", nil
}

func (p *stubProcessor) CreateCheckoutSession(ctx context.Context, priceID, successURL, cancelURL string) (string, error) {
	return "cs_http_1", nil
}

type testAPI struct {
	t         *testing.T
	engine    *gin.Engine
	processor *stubProcessor
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.SQLite(t)
	log := logger.NewNop()
	metrics := observability.NewMetrics(false)

	userRepo := repos.NewUserRepo(db, log)
	propertyRepo := repos.NewPropertyRepo(db, log)
	gate := services.NewAuthorizationGate(log, metrics)
	authService := services.NewAuthService(log, userRepo, gate, "router-test-secret", time.Hour)
	userService := services.NewUserService(log, userRepo, gate, true)
	propertyService := services.NewPropertyService(log, propertyRepo, gate)
	processor := &stubProcessor{}
	checkoutService := services.NewCheckoutService(log, propertyRepo, processor, gate, metrics, "usd", "")
	occupancyService := services.NewOccupancyService(log, userRepo, propertyRepo, gate, nil, metrics)
	consistencyService := services.NewConsistencyService(log, userRepo, propertyRepo, gate, metrics)

	engine := NewRouter(RouterConfig{
		Log:              log,
		Metrics:          metrics,
		AuthHandler:      httpH.NewAuthHandler(log, authService, userService),
		AuthMiddleware:   httpMW.NewAuthMiddleware(log, authService),
		UserHandler:      httpH.NewUserHandler(log, userService),
		PropertyHandler:  httpH.NewPropertyHandler(log, propertyService, checkoutService),
		OccupancyHandler: httpH.NewOccupancyHandler(log, occupancyService, consistencyService),
		HealthHandler:    httpH.NewHealthHandler(nil),
	})
	return &testAPI{t: t, engine: engine, processor: processor}
}

func (a *testAPI) do(method, path, token string, body any, headers ...string) (*httptest.ResponseRecorder, map[string]any) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(a.t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	out := map[string]any{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func (a *testAPI) registerAndLogin(email, role string) (token, id string) {
	a.t.Helper()
	rec, _ := a.do(http.MethodPost, "/api/register", "", map[string]any{
		"email": email, "password": "password123", "first_name": "F", "last_name": "L", "role": role,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	rec, out := a.do(http.MethodPost, "/api/login", "", map[string]any{"email": email, "password": "password123"})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	user := out["user"].(map[string]any)
	_, hasPassword := user["password"]
	require.False(a.t, hasPassword)
	return out["token"].(string), user["id"].(string)
}

func errCode(out map[string]any) string {
	e, _ := out["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)
	rec, _ := api.do(http.MethodGet, "/healthcheck", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec, _ = api.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "living_real_api_requests_total")
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	api := newTestAPI(t)
	for _, path := range []string{"/api/users", "/api/properties", "/api/me", "/api/occupancy/consistency"} {
		rec, out := api.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Equal(t, "authentication_error", errCode(out), path)
	}
}

func TestLoginFailure(t *testing.T) {
	api := newTestAPI(t)
	api.registerAndLogin("someone@example.com", "tenant")

	rec, out := api.do(http.MethodPost, "/api/login", "", map[string]any{"email": "someone@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "incorrect credentials", out["error"].(map[string]any)["message"])
}

func TestEndToEndTenancy(t *testing.T) {
	api := newTestAPI(t)
	ownerToken, _ := api.registerAndLogin("owner@example.com", "owner")
	tenantToken, tenantID := api.registerAndLogin("tenant@example.com", "tenant")

	// tenants cannot create properties
	rec, out := api.do(http.MethodPost, "/api/properties", tenantToken, map[string]any{
		"name": "Elm", "street_address": "1 Elm St", "rent": "1000",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "not authorized", out["error"].(map[string]any)["message"])

	rec, out = api.do(http.MethodPost, "/api/properties", ownerToken, map[string]any{
		"name": "Elm", "street_address": "1 Elm St", "rent": "1000.40", "amenities": []string{"yard"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	propertyID := out["property"].(map[string]any)["id"].(string)

	rec, out = api.do(http.MethodPost, "/api/properties", ownerToken, map[string]any{
		"name": "Bad", "street_address": "x", "rent": "abc",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", errCode(out))

	rec, _ = api.do(http.MethodPost, "/api/occupancy/move-in", tenantToken, map[string]any{"user_id": tenantID, "property_id": propertyID})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, out = api.do(http.MethodPost, "/api/occupancy/move-in", ownerToken, map[string]any{"user_id": tenantID, "property_id": propertyID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, propertyID, out["user"].(map[string]any)["property_id"])

	rec, out = api.do(http.MethodGet, "/api/properties/"+propertyID, tenantToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	occupants := out["property"].(map[string]any)["occupants"].([]any)
	require.Len(t, occupants, 1)
	assert.Equal(t, tenantID, occupants[0].(map[string]any)["id"])

	rec, out = api.do(http.MethodPost, "/api/properties/"+propertyID+"/checkout", tenantToken, nil, "Referer", "https://living.example/properties/"+propertyID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "cs_http_1", out["session"])
	assert.Equal(t, int64(100000), api.processor.amount)

	rec, out = api.do(http.MethodGet, "/api/occupancy/consistency", ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["consistent"])

	rec, out = api.do(http.MethodPost, "/api/occupancy/move-out", ownerToken, map[string]any{"user_id": tenantID, "property_id": propertyID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, out["user"].(map[string]any)["property_id"])

	rec, out = api.do(http.MethodDelete, "/api/properties/"+propertyID, ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, propertyID, out["property"].(map[string]any)["id"])

	rec, out = api.do(http.MethodGet, "/api/properties/"+propertyID, tenantToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, out["property"])
}

func TestUpdateMeIsStrict(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.registerAndLogin("me@example.com", "tenant")

	rec, out := api.do(http.MethodPatch, "/api/me", token, `{"role":"owner"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", errCode(out))

	rec, _ = api.do(http.MethodPatch, "/api/me", token, `{"property_id":"00000000-0000-0000-0000-000000000001"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, out = api.do(http.MethodPatch, "/api/me", token, `{"phone":"555-0101"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	me := out["me"].(map[string]any)
	assert.Equal(t, "555-0101", me["phone"])
	assert.Equal(t, "tenant", me["role"])
}

func TestInvalidPathIDs(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.registerAndLogin("ids@example.com", "owner")

	rec, out := api.do(http.MethodGet, "/api/users/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_id", errCode(out))

	rec, out = api.do(http.MethodGet, "/api/users/00000000-0000-0000-0000-000000000009", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, out["user"])
}

func TestOwnersAndTenantsRoutes(t *testing.T) {
	api := newTestAPI(t)
	ownerToken, ownerID := api.registerAndLogin("o@example.com", "owner")
	api.registerAndLogin("t@example.com", "tenant")

	rec, out := api.do(http.MethodGet, "/api/users/owners", ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	owners := out["users"].([]any)
	require.Len(t, owners, 1)
	assert.Equal(t, ownerID, owners[0].(map[string]any)["id"])

	rec, out = api.do(http.MethodGet, "/api/users/tenants", ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, out["users"].([]any), 1)
}
