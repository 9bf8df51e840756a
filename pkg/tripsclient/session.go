package tripsclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Session is an authenticated handle. The token is only ever sent from here;
// nothing is stored globally.
type Session struct {
	client *Client
	token  string
	user   User
}

func newSession(c *Client, resp authResponse) *Session {
	return &Session{client: c, token: resp.Token, user: resp.User}
}

// Token returns the bearer token so callers can persist it.
func (s *Session) Token() string {
	return s.token
}

// User returns the user the session was opened for. It is empty for sessions
// resumed with SessionFromToken until Me is called.
func (s *Session) User() User {
	return s.user
}

// Me re-reads the authenticated user.
func (s *Session) Me(ctx context.Context) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := s.client.do(ctx, http.MethodGet, "/api/v1/auth/me", s.token, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	s.user = resp.User
	return &resp.User, nil
}

// Logout tells the API the session is over. The token is dropped locally
// whether or not the call succeeds.
func (s *Session) Logout(ctx context.Context) error {
	err := s.client.do(ctx, http.MethodPost, "/api/v1/auth/logout", s.token, nil, nil, http.StatusOK)
	s.token = ""
	return err
}

func (s *Session) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"current_password": current, "new_password": next}
	return s.client.do(ctx, http.MethodPut, "/api/v1/auth/password", s.token, body, nil, http.StatusOK)
}

func (s *Session) ListTrips(ctx context.Context, opts ListOptions) (*TripPage, error) {
	var page TripPage
	path := "/api/v1/trips"
	if query := opts.encode(); query != "" {
		path += "?" + query
	}
	if err := s.client.do(ctx, http.MethodGet, path, s.token, nil, &page, http.StatusOK); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *Session) GetTrip(ctx context.Context, id string) (*Trip, error) {
	return s.tripCall(ctx, http.MethodGet, id, nil, http.StatusOK)
}

func (s *Session) CreateTrip(ctx context.Context, req CreateTripRequest) (*Trip, error) {
	var resp tripEnvelope
	if err := s.client.do(ctx, http.MethodPost, "/api/v1/trips", s.token, req, &resp, http.StatusCreated); err != nil {
		return nil, err
	}
	return &resp.Trip, nil
}

func (s *Session) UpdateTrip(ctx context.Context, id string, req UpdateTripRequest) (*Trip, error) {
	return s.tripCall(ctx, http.MethodPut, id, req, http.StatusOK)
}

// CancelTrip moves the trip to Cancelled; cancelling twice is not an error.
func (s *Session) CancelTrip(ctx context.Context, id string) (*Trip, error) {
	return s.tripCall(ctx, http.MethodDelete, id, nil, http.StatusOK)
}

func (s *Session) DashboardStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := s.client.do(ctx, http.MethodGet, "/api/v1/trips/stats/dashboard", s.token, nil, &stats, http.StatusOK); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SetUserActive is admin only.
func (s *Session) SetUserActive(ctx context.Context, userID string, active bool) (*User, error) {
	action := "deactivate"
	if active {
		action = "activate"
	}
	var resp struct {
		User User `json:"user"`
	}
	path := "/api/v1/admin/users/" + url.PathEscape(userID) + "/" + action
	if err := s.client.do(ctx, http.MethodPost, path, s.token, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

type tripEnvelope struct {
	Trip Trip `json:"trip"`
}

func (s *Session) tripCall(ctx context.Context, method, id string, body any, want int) (*Trip, error) {
	var resp tripEnvelope
	if err := s.client.do(ctx, method, "/api/v1/trips/"+url.PathEscape(id), s.token, body, &resp, want); err != nil {
		return nil, err
	}
	return &resp.Trip, nil
}

func (o ListOptions) encode() string {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	for key, value := range map[string]string{
		"estado":        o.Status,
		"combustible":   o.FuelType,
		"conductor":     o.Driver,
		"excludeStatus": o.ExcludeStatus,
		"sortBy":        o.SortBy,
		"sortOrder":     o.SortOrder,
	} {
		if value != "" {
			q.Set(key, value)
		}
	}
	return q.Encode()
}
