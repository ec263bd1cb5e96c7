// Package service реализует слой агрегации дашборда платежей.
//
// Каждая операция чтения выполняет индексированный запрос к хранилищу и,
// где это предусмотрено, при сбое прозрачно переходит на полное
// сканирование поддерева. Ошибки запросов не покидают границу операции:
// они логируются, а вызывающий всегда получает пригодный (возможно пустой)
// результат, чтобы отказ одной секции дашборда не ломал остальные.
package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mqasim30/Committrr-Firebase-Dashboard/internal/model"
	"github.com/mqasim30/Committrr-Firebase-Dashboard/internal/repository"
)

const (
	paymentsPath = "payments"
	profilesPath = "USER_PROFILES"
)

// Repository описывает контракт доступа к дереву документов, используемый сервисом.
type Repository interface {
	Close() error
	GetSubtree(ctx context.Context, path string) (map[string]any, error)
	GetChild(ctx context.Context, path, key string) (map[string]any, error)
	QueryOrdered(ctx context.Context, path string, q repository.Query) ([]repository.Snapshot, error)
}

// Service содержит операции чтения дашборда платежей.
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService создаёт новый сервис с указанным репозиторием и логгером.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// RecentPayments возвращает не более limit последних платежей,
// отсортированных по createdAt по убыванию.
func (s *Service) RecentPayments(ctx context.Context, limit int) []model.Payment {
	if limit <= 0 {
		return []model.Payment{}
	}

	payments := s.paymentsWithFallback(ctx, "recent payments",
		repository.Query{OrderBy: "createdAt", LimitToLast: limit}, nil)

	sortByCreatedAtDesc(payments)
	return truncatePayments(payments, limit)
}

// ValidPayments24h возвращает завершённые платежи за последние 24 часа,
// отсортированные по createdAt по убыванию.
func (s *Service) ValidPayments24h(ctx context.Context) []model.Payment {
	cutoff := s.now().Add(-24 * time.Hour).UnixMilli()

	payments := s.paymentsWithFallback(ctx, "valid payments 24h",
		repository.Query{OrderBy: "createdAt", StartAt: cutoff},
		func(p model.Payment) bool { return p.CreatedAt >= cutoff })

	// Индексированный запрос отбирает только по времени,
	// статус фильтруется в памяти в обоих путях.
	completed := filterPayments(payments, func(p model.Payment) bool {
		return p.Status == model.PaymentStatusCompleted
	})

	sortByCreatedAtDesc(completed)
	return completed
}

// UserPayments возвращает не более limit платежей пользователя userID,
// отсортированных по createdAt по убыванию.
func (s *Service) UserPayments(ctx context.Context, userID string, limit int) []model.Payment {
	if userID == "" || limit <= 0 {
		return []model.Payment{}
	}

	snapshots, err := s.repo.QueryOrdered(ctx, paymentsPath,
		repository.Query{OrderBy: "userId", EqualTo: userID, LimitToLast: limit})
	if err != nil {
		s.logger.Error("user payments query failed",
			zap.String("userID", userID), zap.Error(err))
		return []model.Payment{}
	}

	payments := paymentsFromSnapshots(snapshots)
	sortByCreatedAtDesc(payments)
	return payments
}

// RecentCompletedPayments возвращает не более limit завершённых платежей,
// отсортированных по processedAt по убыванию.
func (s *Service) RecentCompletedPayments(ctx context.Context, limit int) []model.Payment {
	if limit <= 0 {
		return []model.Payment{}
	}

	snapshots, err := s.repo.QueryOrdered(ctx, paymentsPath,
		repository.Query{OrderBy: "status", EqualTo: model.PaymentStatusCompleted})
	if err != nil {
		s.logger.Error("completed payments query failed", zap.Error(err))
		return []model.Payment{}
	}

	payments := paymentsFromSnapshots(snapshots)
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].ProcessedAt > payments[j].ProcessedAt
	})
	return truncatePayments(payments, limit)
}

// LatestUsers возвращает не более limit последних зарегистрированных
// профилей, отсортированных по UserJoinDate по убыванию.
func (s *Service) LatestUsers(ctx context.Context, limit int) []model.UserProfile {
	if limit <= 0 {
		return []model.UserProfile{}
	}

	var profiles []model.UserProfile

	snapshots, err := s.repo.QueryOrdered(ctx, profilesPath,
		repository.Query{OrderBy: "UserJoinDate", LimitToLast: limit})
	if err == nil {
		profiles = profilesFromSnapshots(snapshots)
	} else {
		s.logger.Warn("latest users indexed query failed, falling back to full scan",
			zap.Error(err))

		subtree, scanErr := s.repo.GetSubtree(ctx, profilesPath)
		if scanErr != nil {
			s.logger.Error("latest users fallback scan failed", zap.Error(scanErr))
			return []model.UserProfile{}
		}
		profiles = profilesFromSubtree(subtree)
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].UserJoinDate > profiles[j].UserJoinDate
	})
	if len(profiles) > limit {
		profiles = profiles[:limit]
	}
	return profiles
}

// RecentChallengers возвращает не более limit недавно плативших
// пользователей: по одному последнему завершённому платежу на userId,
// отсортированных по createdAt по убыванию и соединённых с профилем.
// Платёж без профиля в выдачу не попадает.
func (s *Service) RecentChallengers(ctx context.Context, limit int) []model.Challenger {
	if limit <= 0 {
		return []model.Challenger{}
	}

	snapshots, err := s.repo.QueryOrdered(ctx, paymentsPath,
		repository.Query{OrderBy: "status", EqualTo: model.PaymentStatusCompleted})
	if err != nil {
		s.logger.Error("challengers query failed", zap.Error(err))
		return []model.Challenger{}
	}

	// Один платёж на пользователя: побеждает максимальный createdAt,
	// при равенстве — последний встреченный при итерации.
	latest := make(map[string]model.Payment)
	for _, p := range paymentsFromSnapshots(snapshots) {
		if p.UserID == "" {
			continue
		}
		if prev, ok := latest[p.UserID]; !ok || p.CreatedAt >= prev.CreatedAt {
			latest[p.UserID] = p
		}
	}

	deduped := make([]model.Payment, 0, len(latest))
	for _, p := range latest {
		deduped = append(deduped, p)
	}
	sortByCreatedAtDesc(deduped)
	deduped = truncatePayments(deduped, limit)

	challengers := make([]model.Challenger, 0, len(deduped))
	for _, p := range deduped {
		profile := s.UserProfile(ctx, p.UserID)
		if profile == nil {
			continue
		}
		challengers = append(challengers, model.Challenger{
			UserID:      p.UserID,
			LastPayment: p,
			Profile:     *profile,
		})
	}
	return challengers
}

// UserProfile возвращает профиль пользователя по идентификатору
// или nil, если профиль отсутствует либо недоступен.
func (s *Service) UserProfile(ctx context.Context, userID string) *model.UserProfile {
	if userID == "" {
		return nil
	}

	data, err := s.repo.GetChild(ctx, profilesPath, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("user profile not found", zap.String("userID", userID))
		} else {
			s.logger.Error("user profile lookup failed",
				zap.String("userID", userID), zap.Error(err))
		}
		return nil
	}

	profile := model.UserProfileFromSnapshot(userID, data)
	return &profile
}

// paymentsWithFallback — общая стратегия чтения платежей: индексированный
// запрос q, при его сбое — полное сканирование поддерева payments.
// fallbackKeep сужает результат сканирования до множества, которое покрыл
// бы индексированный запрос; nil означает «берём всё». Результат сбоя
// резервного пути — пустой срез, ошибка наружу не передаётся.
func (s *Service) paymentsWithFallback(ctx context.Context, op string, q repository.Query, fallbackKeep func(model.Payment) bool) []model.Payment {
	snapshots, err := s.repo.QueryOrdered(ctx, paymentsPath, q)
	if err == nil {
		return paymentsFromSnapshots(snapshots)
	}

	s.logger.Warn("indexed query failed, falling back to full scan",
		zap.String("op", op), zap.Error(err))

	subtree, scanErr := s.repo.GetSubtree(ctx, paymentsPath)
	if scanErr != nil {
		s.logger.Error("fallback scan failed",
			zap.String("op", op), zap.Error(scanErr))
		return []model.Payment{}
	}

	payments := paymentsFromSubtree(subtree)
	return filterPayments(payments, fallbackKeep)
}

// paymentsFromSnapshots декодирует результат индексированного запроса.
// Документ, не являющийся объектом, пропускается.
func paymentsFromSnapshots(snapshots []repository.Snapshot) []model.Payment {
	payments := make([]model.Payment, 0, len(snapshots))
	for _, snap := range snapshots {
		record, ok := snap.Data.(map[string]any)
		if !ok {
			continue
		}
		payments = append(payments, model.PaymentFromSnapshot(snap.Key, record))
	}
	return payments
}

// paymentsFromSubtree декодирует результат полного сканирования.
func paymentsFromSubtree(subtree map[string]any) []model.Payment {
	payments := make([]model.Payment, 0, len(subtree))
	for key, value := range subtree {
		record, ok := value.(map[string]any)
		if !ok {
			continue
		}
		payments = append(payments, model.PaymentFromSnapshot(key, record))
	}
	return payments
}

func profilesFromSnapshots(snapshots []repository.Snapshot) []model.UserProfile {
	profiles := make([]model.UserProfile, 0, len(snapshots))
	for _, snap := range snapshots {
		record, ok := snap.Data.(map[string]any)
		if !ok {
			continue
		}
		profiles = append(profiles, model.UserProfileFromSnapshot(snap.Key, record))
	}
	return profiles
}

func profilesFromSubtree(subtree map[string]any) []model.UserProfile {
	profiles := make([]model.UserProfile, 0, len(subtree))
	for key, value := range subtree {
		record, ok := value.(map[string]any)
		if !ok {
			continue
		}
		profiles = append(profiles, model.UserProfileFromSnapshot(key, record))
	}
	return profiles
}

func filterPayments(payments []model.Payment, keep func(model.Payment) bool) []model.Payment {
	if keep == nil {
		return payments
	}
	filtered := make([]model.Payment, 0, len(payments))
	for _, p := range payments {
		if keep(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func sortByCreatedAtDesc(payments []model.Payment) {
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].CreatedAt > payments[j].CreatedAt
	})
}

func truncatePayments(payments []model.Payment, limit int) []model.Payment {
	if len(payments) > limit {
		return payments[:limit]
	}
	return payments
}
