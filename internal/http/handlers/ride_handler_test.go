// README: Handler tests for the ride lifecycle endpoints.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"javai/internal/config"
	"javai/internal/http/handlers"
	"javai/internal/maps"
	"javai/internal/modules/pricing"
	"javai/internal/session"
	"javai/internal/types"
)

type stubProvider struct{}

func (stubProvider) Directions(ctx context.Context, from, to types.Point) (maps.Route, error) {
	mid := types.Point{Lat: (from.Lat + to.Lat) / 2, Lng: (from.Lng + to.Lng) / 2}
	return maps.Route{
		Points:      []types.Point{from, mid, to},
		DistanceKm:  5.0,
		DurationMin: 12,
	}, nil
}

func testConfig() config.Config {
	var cfg config.Config
	// Long delays so timers never fire mid-test.
	cfg.Ride.AutoStart = time.Hour
	cfg.Ride.AutoReset = time.Hour
	cfg.Sim.FrameInterval = time.Hour
	cfg.Sim.StepPerFrame = 2
	cfg.FallbackCenter = types.Location{Point: types.Point{Lat: -18.5789, Lng: -46.5181}}
	return cfg
}

func buildTestRouter(t *testing.T) (*gin.Engine, *session.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager := session.NewManager(testConfig(), pricing.NewService(), stubProvider{}, nil, nil, nil)
	t.Cleanup(manager.CloseAll)

	r := gin.New()
	sessionHandler := handlers.NewSessionHandler(manager)
	r.POST("/api/sessions", sessionHandler.Open)
	r.GET("/api/sessions/:id/frame", sessionHandler.Frame)

	rideHandler := handlers.NewRideHandler(manager, stubProvider{})
	r.POST("/api/sessions/:id/ride/request", rideHandler.Request)
	r.POST("/api/sessions/:id/ride/accept", rideHandler.Accept)
	r.POST("/api/sessions/:id/ride/start", rideHandler.Start)
	r.POST("/api/sessions/:id/ride/complete", rideHandler.Complete)
	r.POST("/api/sessions/:id/ride/cancel", rideHandler.Cancel)
	r.GET("/api/sessions/:id/ride", rideHandler.Current)
	return r, manager
}

func doRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func openSession(t *testing.T, r *gin.Engine, role string) string {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/sessions", map[string]any{"role": role})
	if w.Code != http.StatusCreated {
		t.Fatalf("open session: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode session response: %v", err)
	}
	return resp.SessionID
}

func requestRideBody() map[string]any {
	return map[string]any{
		"passenger_id":   "abc123",
		"pickup":         map[string]any{"lat": -18.5789, "lng": -46.5181, "address": "Centro"},
		"dropoff":        map[string]any{"lat": -18.5601, "lng": -46.5102, "address": "UNIPAM"},
		"vehicle_type":   "standard",
		"payment_method": "pix",
	}
}

func TestRequestRide(t *testing.T) {
	r, _ := buildTestRouter(t)
	id := openSession(t, r, "passenger")

	w := doRequest(r, http.MethodPost, "/api/sessions/"+id+"/ride/request", requestRideBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var ride struct {
		Status string `json:"status"`
		Price  struct {
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
		} `json:"price"`
		DistanceKm float64 `json:"distanceKm"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &ride); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ride.Status != "searching" {
		t.Errorf("status = %q, want searching", ride.Status)
	}
	if ride.Price.Amount != 1550 || ride.Price.Currency != "BRL" {
		t.Errorf("price = %d %s, want 1550 BRL", ride.Price.Amount, ride.Price.Currency)
	}
	if ride.DistanceKm != 5.0 {
		t.Errorf("distance = %f, want 5.0", ride.DistanceKm)
	}
}

func TestRequestRide_MissingFields(t *testing.T) {
	r, _ := buildTestRouter(t)
	id := openSession(t, r, "passenger")

	w := doRequest(r, http.MethodPost, "/api/sessions/"+id+"/ride/request", map[string]any{
		"passenger_id": "abc123",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAcceptRide(t *testing.T) {
	r, _ := buildTestRouter(t)
	id := openSession(t, r, "passenger")
	doRequest(r, http.MethodPost, "/api/sessions/"+id+"/ride/request", requestRideBody())

	w := doRequest(r, http.MethodPost, "/api/sessions/"+id+"/ride/accept", map[string]any{
		"driver_id": "driver1",
		"vehicle":   "Honda Civic",
		"plate":     "JAV-2024",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var ride struct {
		Status        string `json:"status"`
		DriverVehicle string `json:"driverVehicle"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &ride); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ride.Status != "accepted" || ride.DriverVehicle != "Honda Civic" {
		t.Errorf("unexpected ride: %+v", ride)
	}

	// A second accept is an invalid transition.
	w = doRequest(r, http.MethodPost, "/api/sessions/"+id+"/ride/accept", map[string]any{
		"driver_id": "driver2",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("double accept: expected 409, got %d", w.Code)
	}
}

func TestAcceptWithoutRequest(t *testing.T) {
	r, _ := buildTestRouter(t)
	id := openSession(t, r, "passenger")

	w := doRequest(r, http.MethodPost, "/api/sessions/"+id+"/ride/accept", map[string]any{
		"driver_id": "driver1",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCompleteRequiresTripInProgress(t *testing.T) {
	r, _ := buildTestRouter(t)
	id := openSession(t, r, "passenger")
	doRequest(r, http.MethodPost, "/api/sessions/"+id+"/ride/request", requestRideBody())

	w := doRequest(r, http.MethodPost, "/api/sessions/"+id+"/ride/complete", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestFullTripOverHTTP(t *testing.T) {
	r, _ := buildTestRouter(t)
	id := openSession(t, r, "passenger")

	steps := []struct {
		path       string
		body       map[string]any
		wantStatus string
	}{
		{"/ride/request", requestRideBody(), "searching"},
		{"/ride/accept", map[string]any{"driver_id": "driver1"}, "accepted"},
		{"/ride/start", nil, "in_progress"},
		{"/ride/complete", nil, "completed"},
	}
	for _, step := range steps {
		w := doRequest(r, http.MethodPost, "/api/sessions/"+id+step.path, step.body)
		if w.Code >= 300 {
			t.Fatalf("%s: status %d: %s", step.path, w.Code, w.Body.String())
		}
		var ride struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &ride); err != nil {
			t.Fatalf("%s decode: %v", step.path, err)
		}
		if ride.Status != step.wantStatus {
			t.Fatalf("%s: status %q, want %q", step.path, ride.Status, step.wantStatus)
		}
	}
}

func TestCancelRide(t *testing.T) {
	r, _ := buildTestRouter(t)
	id := openSession(t, r, "passenger")
	doRequest(r, http.MethodPost, "/api/sessions/"+id+"/ride/request", requestRideBody())

	w := doRequest(r, http.MethodPost, "/api/sessions/"+id+"/ride/cancel", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var ride struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &ride); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ride.Status != "cancelled" {
		t.Errorf("status = %q, want cancelled", ride.Status)
	}
}

func TestSessionNotFound(t *testing.T) {
	r, _ := buildTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/sessions/deadbeefdeadbeefdeadbeefdeadbeef/ride", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown session: expected 404, got %d", w.Code)
	}

	w = doRequest(r, http.MethodGet, "/api/sessions/not$valid/ride", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed id: expected 400, got %d", w.Code)
	}
}

func TestCurrentRideWhenIdle(t *testing.T) {
	r, _ := buildTestRouter(t)
	id := openSession(t, r, "passenger")

	w := doRequest(r, http.MethodGet, "/api/sessions/"+id+"/ride", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "idle" {
		t.Errorf("status = %q, want idle", resp.Status)
	}
}
