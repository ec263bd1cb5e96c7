// Package model содержит доменные сущности дашборда платежей.
package model

import "encoding/json"

const (
	// PaymentStatusCompleted — терминальный статус успешно завершённого платежа.
	PaymentStatusCompleted = "completed"
	// PaymentStatusPending — платёж ещё обрабатывается.
	PaymentStatusPending = "pending"
	// PaymentStatusCanceled — терминальный статус отменённого платежа.
	PaymentStatusCanceled = "canceled"
)

// Payment описывает запись о платеже из поддерева payments.
// Ключ документа хранится в PaymentID. Отсутствующие в хранилище поля
// получают значения по умолчанию: строки — "", метки времени — 0,
// сумма — nil (отсутствие суммы отличается от нулевой суммы).
type Payment struct {
	PaymentID   string `json:"payment_id"`
	UserID      string `json:"userId"`
	Amount      *int64 `json:"amount"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
	CreatedAt   int64  `json:"createdAt"`
	ProcessedAt int64  `json:"processedAt"`
	ChallengeID string `json:"challengeId,omitempty"`
}

// UserProfile описывает профиль пользователя из поддерева USER_PROFILES.
// Ключ документа хранится в UserID.
type UserProfile struct {
	UserID         string  `json:"user_id"`
	UserName       string  `json:"UserName"`
	UserEmail      string  `json:"UserEmail"`
	UserCountry    string  `json:"UserCountry"`
	Platform       string  `json:"Platform"`
	UserStatus     string  `json:"UserStatus"`
	UserSource     string  `json:"UserSource"`
	UserIP         string  `json:"UserIP"`
	ClickID        string  `json:"ClickId"`
	AmountWon      float64 `json:"AmountWon"`
	UserJoinDate   int64   `json:"UserJoinDate"`
	UserActiveDate int64   `json:"UserActiveDate"`
}

// Challenger — пользователь с хотя бы одним завершённым платежом.
// LastPayment — его последний учтённый платёж, Profile — профиль,
// по которому выполнено соединение.
type Challenger struct {
	UserID      string      `json:"user_id"`
	LastPayment Payment     `json:"last_payment"`
	Profile     UserProfile `json:"profile"`
}

// PaymentFromSnapshot собирает Payment из неструктурированного снимка
// документа и его ключа в хранилище.
func PaymentFromSnapshot(key string, data map[string]any) Payment {
	return Payment{
		PaymentID:   key,
		UserID:      asString(data["userId"]),
		Amount:      asOptionalInt64(data["amount"]),
		Currency:    asString(data["currency"]),
		Status:      asString(data["status"]),
		CreatedAt:   asInt64(data["createdAt"]),
		ProcessedAt: asInt64(data["processedAt"]),
		ChallengeID: asString(data["challengeId"]),
	}
}

// UserProfileFromSnapshot собирает UserProfile из неструктурированного
// снимка документа и его ключа в хранилище.
func UserProfileFromSnapshot(key string, data map[string]any) UserProfile {
	return UserProfile{
		UserID:         key,
		UserName:       asString(data["UserName"]),
		UserEmail:      asString(data["UserEmail"]),
		UserCountry:    asString(data["UserCountry"]),
		Platform:       asString(data["Platform"]),
		UserStatus:     asString(data["UserStatus"]),
		UserSource:     asString(data["UserSource"]),
		UserIP:         asString(data["UserIP"]),
		ClickID:        asString(data["ClickId"]),
		AmountWon:      asFloat64(data["AmountWon"]),
		UserJoinDate:   asInt64(data["UserJoinDate"]),
		UserActiveDate: asInt64(data["UserActiveDate"]),
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asFloat64 приводит числовое значение снимка к float64.
// JSON-декодер может вернуть число как float64, int64 или json.Number.
func asFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case float32:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil {
				return 0
			}
			return int64(f)
		}
		return i
	default:
		return 0
	}
}

func asOptionalInt64(v any) *int64 {
	if v == nil {
		return nil
	}
	switch v.(type) {
	case float64, float32, int64, int, json.Number:
		n := asInt64(v)
		return &n
	default:
		return nil
	}
}
