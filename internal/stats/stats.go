// Package stats вычисляет сводную статистику по спискам платежей.
package stats

import "github.com/mqasim30/Committrr-Firebase-Dashboard/internal/model"

// PaymentStats — сводка по списку платежей.
// Сумма и среднее считаются только по записям с известной суммой.
type PaymentStats struct {
	Count             int            `json:"count"`
	TotalAmount       int64          `json:"total_amount"`
	AverageAmount     float64        `json:"average_amount"`
	StatusBreakdown   map[string]int `json:"status_breakdown,omitempty"`
	CurrencyBreakdown map[string]int `json:"currency_breakdown,omitempty"`
}

// Calculate возвращает сводку по payments. Для пустого входа возвращается
// нулевая структура. Функция не обращается к хранилищу.
func Calculate(payments []model.Payment) PaymentStats {
	if len(payments) == 0 {
		return PaymentStats{}
	}

	s := PaymentStats{
		Count:             len(payments),
		StatusBreakdown:   make(map[string]int),
		CurrencyBreakdown: make(map[string]int),
	}

	priced := 0
	for _, p := range payments {
		if p.Amount != nil {
			s.TotalAmount += *p.Amount
			priced++
		}
		if p.Status != "" {
			s.StatusBreakdown[p.Status]++
		}
		if p.Currency != "" {
			s.CurrencyBreakdown[p.Currency]++
		}
	}

	if priced > 0 {
		s.AverageAmount = float64(s.TotalAmount) / float64(priced)
	}

	return s
}
