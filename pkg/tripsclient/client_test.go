package tripsclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, map[string]any{"error": map[string]any{"code": code, "message": message, "details": details}})
}

func newTestServer(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return New(server.URL + "/")
}

func TestLoginOpensSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Empty(t, r.Header.Get("Authorization"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "admin123" {
			writeAPIError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials", nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"token": "tok-1",
			"user":  map[string]any{"id": "u-1", "email": body["email"], "rol": "admin", "activo": true},
		}})
	})
	client := newTestServer(t, mux)

	session, err := client.Login(context.Background(), "admin@fleetlogix.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", session.Token())
	assert.Equal(t, "admin", session.User().Role)

	_, err = client.Login(context.Background(), "admin@fleetlogix.com", "wrong")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrSessionExpired), "unauthenticated calls never report an expired session")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)
}

func TestSessionSendsBearerAndQuery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/trips", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-2", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "InTransit", q.Get("estado"))
		assert.Equal(t, "Cancelled", q.Get("excludeStatus"))
		assert.False(t, q.Has("limit"))
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"items":      []map[string]any{{"id": "t-1", "camion": "ABC123", "estado": "InTransit"}},
			"pagination": map[string]any{"current_page": 2, "total_pages": 2, "total_items": 11, "items_per_page": 10},
		}})
	})
	session := newTestServer(t, mux).SessionFromToken("tok-2")

	page, err := session.ListTrips(context.Background(), ListOptions{Page: 2, Status: "InTransit", ExcludeStatus: "Cancelled"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "ABC123", page.Items[0].Truck)
	assert.Equal(t, int64(11), page.Pagination.TotalItems)
}

func TestSessionExpiredOnUnauthorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/trips/stats/dashboard", func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusUnauthorized, "INVALID_TOKEN", "account unavailable", nil)
	})
	session := newTestServer(t, mux).SessionFromToken("stale")

	_, err := session.DashboardStats(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestUpdateTripSurfacesStateConflict(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/trips/t-9", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"estado": "Scheduled"}, body)
		writeAPIError(w, http.StatusUnprocessableEntity, "STATE_CONFLICT", "transition not allowed",
			map[string]any{"from": "Delivered", "to": "Scheduled", "allowed": []string{"Cancelled"}})
	})
	session := newTestServer(t, mux).SessionFromToken("tok")

	status := "Scheduled"
	_, err := session.UpdateTrip(context.Background(), "t-9", UpdateTripRequest{Status: &status})
	require.Error(t, err)
	assert.True(t, IsCode(err, "STATE_CONFLICT"))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "Delivered", apiErr.Details.(map[string]any)["from"])
}

func TestCreateAndCancelTrip(t *testing.T) {
	departure := time.Date(2030, 1, 2, 8, 0, 0, 0, time.UTC)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/trips", func(w http.ResponseWriter, r *http.Request) {
		var body CreateTripRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, departure.Equal(body.DepartureAt))
		writeJSON(w, http.StatusCreated, map[string]any{"data": map[string]any{
			"trip": map[string]any{"id": "t-1", "camion": body.Truck, "estado": "Scheduled", "fecha_salida": body.DepartureAt},
		}})
	})
	mux.HandleFunc("/api/v1/trips/t-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"trip": map[string]any{"id": "t-1", "estado": "Cancelled"}}})
	})
	session := newTestServer(t, mux).SessionFromToken("tok")

	trip, err := session.CreateTrip(context.Background(), CreateTripRequest{
		Truck: "ABC123", Driver: "Ana", Origin: "Rosario", Destination: "Cordoba",
		FuelType: "GNC", VolumeLiters: 500, DepartureAt: departure,
	})
	require.NoError(t, err)
	assert.Equal(t, "Scheduled", trip.Status)

	trip, err = session.CancelTrip(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", trip.Status)
}

func TestNonEnvelopeErrorBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	})

	_, err := newTestServer(t, mux).Register(context.Background(), RegisterRequest{Email: "a@b.co", Password: "secret1", Name: "Ana"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream unavailable", apiErr.Message)
}
