// Package handler содержит HTTP-обработчики API дашборда платежей.
//
// Обработчики отдают данные секций дашборда в JSON; табличное и
// графическое представление остаётся за внешним клиентом. «Обновление»
// дашборда — это повторный запрос: серверного кэша между проходами нет.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mqasim30/Committrr-Firebase-Dashboard/internal/format"
	"github.com/mqasim30/Committrr-Firebase-Dashboard/internal/model"
	"github.com/mqasim30/Committrr-Firebase-Dashboard/internal/stats"
)

const (
	defaultSectionLimit     = 50
	defaultUserHistoryLimit = 20
)

// Service определяет контракт слоя агрегации, используемый HTTP-обработчиками.
// Операции не возвращают ошибок: недоступная секция приходит пустой.
type Service interface {
	RecentPayments(ctx context.Context, limit int) []model.Payment
	ValidPayments24h(ctx context.Context) []model.Payment
	UserPayments(ctx context.Context, userID string, limit int) []model.Payment
	RecentCompletedPayments(ctx context.Context, limit int) []model.Payment
	LatestUsers(ctx context.Context, limit int) []model.UserProfile
	RecentChallengers(ctx context.Context, limit int) []model.Challenger
	UserProfile(ctx context.Context, userID string) *model.UserProfile
}

// Handler реализует HTTP-обработчики API дашборда платежей.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: s,
		logger:  logger,
	}
}

type paymentView struct {
	PaymentID       string `json:"payment_id"`
	UserID          string `json:"user_id,omitempty"`
	Amount          *int64 `json:"amount,omitempty"`
	AmountUSD       string `json:"amount_usd"`
	Currency        string `json:"currency,omitempty"`
	Status          string `json:"status,omitempty"`
	ChallengeID     string `json:"challenge_id,omitempty"`
	CreatedAt       int64  `json:"created_at"`
	CreatedAtText   string `json:"created_at_text"`
	ProcessedAt     int64  `json:"processed_at,omitempty"`
	ProcessedAtText string `json:"processed_at_text"`
}

type profileView struct {
	UserID             string  `json:"user_id"`
	UserName           string  `json:"user_name,omitempty"`
	UserEmail          string  `json:"user_email,omitempty"`
	UserCountry        string  `json:"user_country,omitempty"`
	Platform           string  `json:"platform,omitempty"`
	UserStatus         string  `json:"user_status,omitempty"`
	UserSource         string  `json:"user_source,omitempty"`
	UserIP             string  `json:"user_ip,omitempty"`
	ClickID            string  `json:"click_id,omitempty"`
	AmountWon          float64 `json:"amount_won"`
	UserJoinDate       int64   `json:"user_join_date,omitempty"`
	UserJoinDateText   string  `json:"user_join_date_text"`
	UserActiveDate     int64   `json:"user_active_date,omitempty"`
	UserActiveDateText string  `json:"user_active_date_text"`
}

type challengerView struct {
	UserID      string      `json:"user_id"`
	LastPayment paymentView `json:"last_payment"`
	Profile     profileView `json:"profile"`
}

type paymentListResponse struct {
	Payments []paymentView      `json:"payments"`
	Stats    stats.PaymentStats `json:"stats"`
}

type userDetailResponse struct {
	Profile  profileView        `json:"profile"`
	Payments []paymentView      `json:"payments"`
	Stats    stats.PaymentStats `json:"stats"`
}

type dashboardResponse struct {
	RecentPayments    paymentListResponse `json:"recent_payments"`
	ValidPayments24h  paymentListResponse `json:"valid_payments_24h"`
	RecentChallengers []challengerView    `json:"recent_challengers"`
	LatestUsers       []profileView       `json:"latest_users"`
}

// Ping отвечает на проверку готовности сервиса.
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Dashboard возвращает все секции дашборда за один проход.
// Независимые чтения выполняются параллельно; пустая или недоступная
// секция не мешает отрисовке остальных.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.limitParam(w, r, defaultSectionLimit)
	if !ok {
		return
	}

	var (
		recent      []model.Payment
		valid24h    []model.Payment
		challengers []model.Challenger
		latestUsers []model.UserProfile
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		recent = h.service.RecentPayments(ctx, limit)
		return nil
	})
	g.Go(func() error {
		valid24h = h.service.ValidPayments24h(ctx)
		return nil
	})
	g.Go(func() error {
		challengers = h.service.RecentChallengers(ctx, limit)
		return nil
	})
	g.Go(func() error {
		latestUsers = h.service.LatestUsers(ctx, limit)
		return nil
	})
	_ = g.Wait()

	resp := dashboardResponse{
		RecentPayments:    paymentList(recent),
		ValidPayments24h:  paymentList(valid24h),
		RecentChallengers: challengerViews(challengers),
		LatestUsers:       profileViews(latestUsers),
	}

	h.writeJSON(w, resp)
}

// RecentPayments возвращает последние платежи со сводной статистикой.
func (h *Handler) RecentPayments(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.limitParam(w, r, defaultSectionLimit)
	if !ok {
		return
	}

	payments := h.service.RecentPayments(r.Context(), limit)
	h.writeJSON(w, paymentList(payments))
}

// ValidPayments24h возвращает завершённые платежи за последние сутки.
func (h *Handler) ValidPayments24h(w http.ResponseWriter, r *http.Request) {
	payments := h.service.ValidPayments24h(r.Context())
	h.writeJSON(w, paymentList(payments))
}

// CompletedPayments возвращает последние завершённые платежи.
func (h *Handler) CompletedPayments(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.limitParam(w, r, defaultSectionLimit)
	if !ok {
		return
	}

	payments := h.service.RecentCompletedPayments(r.Context(), limit)
	h.writeJSON(w, paymentList(payments))
}

// Challengers возвращает недавно плативших пользователей с профилями.
func (h *Handler) Challengers(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.limitParam(w, r, defaultSectionLimit)
	if !ok {
		return
	}

	challengers := h.service.RecentChallengers(r.Context(), limit)
	h.writeJSON(w, challengerViews(challengers))
}

// LatestUsers возвращает последних зарегистрированных пользователей.
func (h *Handler) LatestUsers(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.limitParam(w, r, defaultSectionLimit)
	if !ok {
		return
	}

	users := h.service.LatestUsers(r.Context(), limit)
	h.writeJSON(w, profileViews(users))
}

// UserDetail возвращает профиль пользователя с историей платежей
// и её сводной статистикой.
func (h *Handler) UserDetail(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	profile := h.service.UserProfile(r.Context(), userID)
	if profile == nil {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	payments := h.service.UserPayments(r.Context(), userID, defaultUserHistoryLimit)

	resp := userDetailResponse{
		Profile:  toProfileView(*profile),
		Payments: paymentViews(payments),
		Stats:    stats.Calculate(payments),
	}
	h.writeJSON(w, resp)
}

// UserPayments возвращает историю платежей пользователя.
func (h *Handler) UserPayments(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.limitParam(w, r, defaultUserHistoryLimit)
	if !ok {
		return
	}

	userID := chi.URLParam(r, "userID")
	payments := h.service.UserPayments(r.Context(), userID, limit)
	h.writeJSON(w, paymentList(payments))
}

// limitParam разбирает query-параметр limit; некорректное значение — 400.
func (h *Handler) limitParam(w http.ResponseWriter, r *http.Request, def int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return 0, false
	}
	return limit, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func paymentList(payments []model.Payment) paymentListResponse {
	return paymentListResponse{
		Payments: paymentViews(payments),
		Stats:    stats.Calculate(payments),
	}
}

func paymentViews(payments []model.Payment) []paymentView {
	views := make([]paymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, toPaymentView(p))
	}
	return views
}

func toPaymentView(p model.Payment) paymentView {
	return paymentView{
		PaymentID:       p.PaymentID,
		UserID:          p.UserID,
		Amount:          p.Amount,
		AmountUSD:       dollars(p.Amount),
		Currency:        p.Currency,
		Status:          p.Status,
		ChallengeID:     p.ChallengeID,
		CreatedAt:       p.CreatedAt,
		CreatedAtText:   format.TimestampMillis(p.CreatedAt),
		ProcessedAt:     p.ProcessedAt,
		ProcessedAtText: format.TimestampMillis(p.ProcessedAt),
	}
}

func profileViews(profiles []model.UserProfile) []profileView {
	views := make([]profileView, 0, len(profiles))
	for _, p := range profiles {
		views = append(views, toProfileView(p))
	}
	return views
}

func toProfileView(p model.UserProfile) profileView {
	return profileView{
		UserID:             p.UserID,
		UserName:           p.UserName,
		UserEmail:          p.UserEmail,
		UserCountry:        p.UserCountry,
		Platform:           p.Platform,
		UserStatus:         p.UserStatus,
		UserSource:         p.UserSource,
		UserIP:             p.UserIP,
		ClickID:            p.ClickID,
		AmountWon:          p.AmountWon,
		UserJoinDate:       p.UserJoinDate,
		UserJoinDateText:   format.TimestampMillis(p.UserJoinDate),
		UserActiveDate:     p.UserActiveDate,
		UserActiveDateText: format.TimestampMillis(p.UserActiveDate),
	}
}

func challengerViews(challengers []model.Challenger) []challengerView {
	views := make([]challengerView, 0, len(challengers))
	for _, c := range challengers {
		views = append(views, challengerView{
			UserID:      c.UserID,
			LastPayment: toPaymentView(c.LastPayment),
			Profile:     toProfileView(c.Profile),
		})
	}
	return views
}

// dollars переводит сумму в минорных единицах в строку долларов;
// отсутствующая сумма отображается как "$0.00", как в историческом дашборде.
func dollars(amount *int64) string {
	if amount == nil {
		return "$0.00"
	}
	return fmt.Sprintf("$%.2f", float64(*amount)/100)
}
