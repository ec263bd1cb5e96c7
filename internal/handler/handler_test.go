package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/mqasim30/Committrr-Firebase-Dashboard/internal/model"
)

type stubService struct {
	recentPayments    []model.Payment
	validPayments     []model.Payment
	userPayments      []model.Payment
	completedPayments []model.Payment
	latestUsers       []model.UserProfile
	challengers       []model.Challenger
	profile           *model.UserProfile

	userPaymentsLimit int
	userPaymentsID    string
}

func (s *stubService) RecentPayments(ctx context.Context, limit int) []model.Payment {
	return s.recentPayments
}

func (s *stubService) ValidPayments24h(ctx context.Context) []model.Payment {
	return s.validPayments
}

func (s *stubService) UserPayments(ctx context.Context, userID string, limit int) []model.Payment {
	s.userPaymentsID = userID
	s.userPaymentsLimit = limit
	return s.userPayments
}

func (s *stubService) RecentCompletedPayments(ctx context.Context, limit int) []model.Payment {
	return s.completedPayments
}

func (s *stubService) LatestUsers(ctx context.Context, limit int) []model.UserProfile {
	return s.latestUsers
}

func (s *stubService) RecentChallengers(ctx context.Context, limit int) []model.Challenger {
	return s.challengers
}

func (s *stubService) UserProfile(ctx context.Context, userID string) *model.UserProfile {
	return s.profile
}

func newTestHandler(t *testing.T, svc Service) *Handler {
	t.Helper()

	logger, err := zap.NewDevelopment()
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	return NewHandler(svc, logger)
}

func doRequest(t *testing.T, h *Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	h.SetupRouter().ServeHTTP(w, req)
	return w
}

func amount(v int64) *int64 { return &v }

func TestPing(t *testing.T) {
	h := newTestHandler(t, &stubService{})

	w := doRequest(t, h, http.MethodGet, "/ping")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d want %d", w.Code, http.StatusOK)
	}
}

func TestRecentPayments_JSONWithStats(t *testing.T) {
	svc := &stubService{
		recentPayments: []model.Payment{
			{
				PaymentID: "pay-1",
				UserID:    "u1",
				Amount:    amount(250),
				Currency:  "usd",
				Status:    "completed",
				CreatedAt: 1700000000000,
			},
			{
				PaymentID: "pay-2",
				UserID:    "u2",
				Status:    "pending",
				CreatedAt: 1699999999000,
			},
		},
	}
	h := newTestHandler(t, svc)

	w := doRequest(t, h, http.MethodGet, "/api/payments/recent?limit=10")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type: got %q", ct)
	}

	var resp paymentListResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(resp.Payments) != 2 {
		t.Fatalf("payments: got %d want 2", len(resp.Payments))
	}
	if resp.Payments[0].AmountUSD != "$2.50" {
		t.Fatalf("amount_usd: got %q", resp.Payments[0].AmountUSD)
	}
	if resp.Payments[1].AmountUSD != "$0.00" {
		t.Fatalf("absent amount: got %q", resp.Payments[1].AmountUSD)
	}
	if resp.Payments[0].CreatedAtText != "03:13:20 2023-11-15" {
		t.Fatalf("created_at_text: got %q", resp.Payments[0].CreatedAtText)
	}
	if resp.Stats.Count != 2 || resp.Stats.TotalAmount != 250 {
		t.Fatalf("stats: got %+v", resp.Stats)
	}
}

func TestRecentPayments_BadLimit(t *testing.T) {
	h := newTestHandler(t, &stubService{})

	for _, target := range []string{
		"/api/payments/recent?limit=abc",
		"/api/payments/recent?limit=0",
		"/api/payments/recent?limit=-5",
	} {
		w := doRequest(t, h, http.MethodGet, target)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: got %d want %d", target, w.Code, http.StatusBadRequest)
		}
	}
}

func TestUserDetail_NotFound(t *testing.T) {
	h := newTestHandler(t, &stubService{profile: nil})

	w := doRequest(t, h, http.MethodGet, "/api/users/ghost")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: got %d want %d", w.Code, http.StatusNotFound)
	}
}

func TestUserDetail_WithHistory(t *testing.T) {
	svc := &stubService{
		profile: &model.UserProfile{
			UserID:       "u1",
			UserName:     "alice",
			UserJoinDate: 1700000000000,
		},
		userPayments: []model.Payment{
			{PaymentID: "pay-1", UserID: "u1", Amount: amount(100), Status: "completed"},
			{PaymentID: "pay-2", UserID: "u1", Amount: amount(300), Status: "completed"},
		},
	}
	h := newTestHandler(t, svc)

	w := doRequest(t, h, http.MethodGet, "/api/users/u1")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d want %d", w.Code, http.StatusOK)
	}

	var resp userDetailResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Profile.UserName != "alice" {
		t.Fatalf("profile: got %+v", resp.Profile)
	}
	if resp.Profile.UserJoinDateText != "03:13:20 2023-11-15" {
		t.Fatalf("join date text: got %q", resp.Profile.UserJoinDateText)
	}
	if len(resp.Payments) != 2 || resp.Stats.TotalAmount != 400 {
		t.Fatalf("history: %d payments, stats %+v", len(resp.Payments), resp.Stats)
	}
	if svc.userPaymentsID != "u1" || svc.userPaymentsLimit != defaultUserHistoryLimit {
		t.Fatalf("service called with %q/%d", svc.userPaymentsID, svc.userPaymentsLimit)
	}
}

func TestUserPayments_LimitPassedThrough(t *testing.T) {
	svc := &stubService{}
	h := newTestHandler(t, svc)

	w := doRequest(t, h, http.MethodGet, "/api/users/u1/payments?limit=5")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d want %d", w.Code, http.StatusOK)
	}
	if svc.userPaymentsID != "u1" || svc.userPaymentsLimit != 5 {
		t.Fatalf("service called with %q/%d", svc.userPaymentsID, svc.userPaymentsLimit)
	}
}

func TestDashboard_EmptySectionsRenderEmpty(t *testing.T) {
	svc := &stubService{
		recentPayments: []model.Payment{
			{PaymentID: "pay-1", Amount: amount(100), Status: "completed", CreatedAt: 1700000000000},
		},
		// Остальные секции пустые: дашборд всё равно должен отрисоваться.
	}
	h := newTestHandler(t, svc)

	w := doRequest(t, h, http.MethodGet, "/api/dashboard")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d want %d", w.Code, http.StatusOK)
	}

	var resp dashboardResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(resp.RecentPayments.Payments) != 1 {
		t.Fatalf("recent payments: got %d want 1", len(resp.RecentPayments.Payments))
	}
	if resp.ValidPayments24h.Payments == nil || len(resp.ValidPayments24h.Payments) != 0 {
		t.Fatalf("valid payments section must be empty, got %+v", resp.ValidPayments24h)
	}
	if len(resp.RecentChallengers) != 0 || len(resp.LatestUsers) != 0 {
		t.Fatalf("expected empty challenger/user sections")
	}
}

func TestUnknownRouteAndMethod(t *testing.T) {
	h := newTestHandler(t, &stubService{})

	w := doRequest(t, h, http.MethodGet, "/api/unknown")
	if w.Code != http.StatusNotFound {
		t.Fatalf("not found: got %d", w.Code)
	}

	w = doRequest(t, h, http.MethodPost, "/api/payments/recent")
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("method not allowed: got %d", w.Code)
	}
}
