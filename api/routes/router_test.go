package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/fueltrips-backend/internal/auth"
	"github.com/angelmondragon/fueltrips-backend/internal/trips"
	"github.com/angelmondragon/fueltrips-backend/internal/users"
	"github.com/angelmondragon/fueltrips-backend/pkg/config"
	"github.com/angelmondragon/fueltrips-backend/pkg/db/dbtest"
	"github.com/angelmondragon/fueltrips-backend/pkg/enums"
	"github.com/angelmondragon/fueltrips-backend/pkg/logger"
	"github.com/angelmondragon/fueltrips-backend/pkg/metrics"
	"github.com/angelmondragon/fueltrips-backend/pkg/security"
)

type apiHarness struct {
	t      *testing.T
	server *httptest.Server
	users  *users.Repository
	hasher *security.Hasher
}

func newHarness(t *testing.T) *apiHarness {
	t.Helper()

	cfg := &config.Config{
		App:  config.AppConfig{Env: "test"},
		JWT:  config.JWTConfig{Secret: "router-secret", Issuer: "fueltrips", ExpirationMinutes: 60},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	}
	hasher := security.NewHasher(config.PasswordConfig{ArgonMemoryKB: 1024, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32})

	client := dbtest.OpenClient(t)
	userRepo := users.NewRepository(client.DB())

	authService, err := auth.NewService(auth.ServiceParams{UserRepo: userRepo, Hasher: hasher, JWTConfig: cfg.JWT})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	tripService, err := trips.NewService(trips.ServiceParams{DB: client, Metrics: metrics.NewTripMetrics(reg)})
	require.NoError(t, err)

	handler := NewRouter(cfg, logger.Nop(), reg, metrics.NewHTTPMetrics(reg), client, nil, userRepo, authService, tripService)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &apiHarness{t: t, server: server, users: userRepo, hasher: hasher}
}

func (h *apiHarness) do(method, path, token, body string) (int, map[string]any) {
	h.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, h.server.URL+path, reader)
	require.NoError(h.t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.server.Client().Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	var payload map[string]any
	require.NoError(h.t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp.StatusCode, payload
}

func (h *apiHarness) seedAdmin(email, password string) {
	h.t.Helper()
	hash, err := h.hasher.Hash(password)
	require.NoError(h.t, err)
	_, err = h.users.Create(context.Background(), users.CreateUserDTO{
		Email:        email,
		PasswordHash: hash,
		Name:         "Admin",
		Role:         enums.UserRoleAdmin,
	})
	require.NoError(h.t, err)
}

func data(t *testing.T, payload map[string]any) map[string]any {
	t.Helper()
	out, ok := payload["data"].(map[string]any)
	require.True(t, ok, "missing data envelope: %v", payload)
	return out
}

func errorCode(payload map[string]any) string {
	errBody, _ := payload["error"].(map[string]any)
	code, _ := errBody["code"].(string)
	return code
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)

	status, payload := h.do(http.MethodGet, "/health/live", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "live", data(t, payload)["status"])

	status, payload = h.do(http.MethodGet, "/health/ready", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", data(t, payload)["status"])

	resp, err := h.server.Client().Get(h.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `http_requests_total{method="GET",route="/health/live",status="200"} 1`)
}

func TestTripsRequireToken(t *testing.T) {
	h := newHarness(t)

	status, payload := h.do(http.MethodGet, "/api/v1/trips", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(payload))

	status, payload = h.do(http.MethodGet, "/api/v1/trips", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", errorCode(payload))
}

func TestTripLifecycleOverHTTP(t *testing.T) {
	h := newHarness(t)

	status, payload := h.do(http.MethodPost, "/api/v1/auth/register", "", `{"email":"Ana@Example.com","password":"secret1","nombre":"Ana"}`)
	require.Equal(t, http.StatusCreated, status, payload)
	registered := data(t, payload)
	token := registered["token"].(string)
	assert.Equal(t, "ana@example.com", registered["user"].(map[string]any)["email"])
	assert.Equal(t, "operator", registered["user"].(map[string]any)["rol"])

	status, payload = h.do(http.MethodPost, "/api/v1/auth/register", "", `{"email":"ana@example.com","password":"secret1","nombre":"Ana"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errorCode(payload))

	departure := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	status, payload = h.do(http.MethodPost, "/api/v1/trips", token,
		`{"camion":"abc1234","conductor":"Luis Perez","origen":"Rosario","destino":"Cordoba","combustible":"Diésel","cantidad_litros":12000,"fecha_salida":"`+departure+`"}`)
	require.Equal(t, http.StatusCreated, status, payload)
	trip := data(t, payload)["trip"].(map[string]any)
	tripID := trip["id"].(string)
	assert.Equal(t, "ABC1234", trip["camion"])
	assert.Equal(t, "Scheduled", trip["estado"])

	status, payload = h.do(http.MethodGet, "/api/v1/trips/"+tripID, token, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ana", data(t, payload)["trip"].(map[string]any)["creado_por"].(map[string]any)["nombre"])

	status, payload = h.do(http.MethodPut, "/api/v1/trips/"+tripID, token, `{"estado":"Delivered"}`)
	require.Equal(t, http.StatusUnprocessableEntity, status, payload)
	assert.Equal(t, "STATE_CONFLICT", errorCode(payload))

	status, payload = h.do(http.MethodPut, "/api/v1/trips/"+tripID, token, `{"estado":"InTransit"}`)
	require.Equal(t, http.StatusOK, status, payload)

	status, payload = h.do(http.MethodPut, "/api/v1/trips/"+tripID, token, `{"estado":"Delivered"}`)
	require.Equal(t, http.StatusOK, status, payload)
	assert.NotEmpty(t, data(t, payload)["trip"].(map[string]any)["fecha_entrega"])

	status, payload = h.do(http.MethodGet, "/api/v1/trips?estado=Delivered&conductor=luis", token, "")
	require.Equal(t, http.StatusOK, status)
	page := data(t, payload)
	assert.Len(t, page["items"], 1)

	status, payload = h.do(http.MethodGet, "/api/v1/trips/stats/dashboard", token, "")
	require.Equal(t, http.StatusOK, status)
	stats := data(t, payload)
	assert.EqualValues(t, 1, stats["delivered"])
	assert.EqualValues(t, 12000, stats["totalVolume"])

	status, payload = h.do(http.MethodDelete, "/api/v1/trips/"+tripID, token, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Cancelled", data(t, payload)["trip"].(map[string]any)["estado"])

	status, payload = h.do(http.MethodGet, "/api/v1/trips/not-a-uuid", token, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(payload))
}

func TestAdminDeactivationRevokesAccess(t *testing.T) {
	h := newHarness(t)
	h.seedAdmin("admin@example.com", "admin123")

	status, payload := h.do(http.MethodPost, "/api/v1/auth/register", "", `{"email":"op@example.com","password":"secret1","nombre":"Operator"}`)
	require.Equal(t, http.StatusCreated, status, payload)
	operator := data(t, payload)
	operatorToken := operator["token"].(string)
	operatorID := operator["user"].(map[string]any)["id"].(string)

	status, payload = h.do(http.MethodPost, "/api/v1/admin/users/"+operatorID+"/deactivate", operatorToken, "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(payload))

	status, payload = h.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"admin@example.com","password":"admin123"}`)
	require.Equal(t, http.StatusOK, status, payload)
	adminToken := data(t, payload)["token"].(string)

	status, payload = h.do(http.MethodPost, "/api/v1/admin/users/"+operatorID+"/deactivate", adminToken, "")
	require.Equal(t, http.StatusOK, status, payload)
	assert.Equal(t, false, data(t, payload)["user"].(map[string]any)["activo"])

	status, payload = h.do(http.MethodGet, "/api/v1/auth/me", operatorToken, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", errorCode(payload))

	status, payload = h.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"op@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(payload))
}
