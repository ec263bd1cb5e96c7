package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mqasim30/Committrr-Firebase-Dashboard/internal/model"
)

func amount(v int64) *int64 { return &v }

func TestCalculate_Empty(t *testing.T) {
	got := Calculate(nil)
	assert.Equal(t, PaymentStats{}, got)

	got = Calculate([]model.Payment{})
	assert.Equal(t, PaymentStats{}, got)
}

func TestCalculate_Basic(t *testing.T) {
	payments := []model.Payment{
		{PaymentID: "p1", Amount: amount(100), Status: "completed", Currency: "usd"},
		{PaymentID: "p2", Amount: amount(200), Status: "completed", Currency: "usd"},
		{PaymentID: "p3", Amount: amount(300), Status: "pending", Currency: "eur"},
	}

	got := Calculate(payments)

	assert.Equal(t, 3, got.Count)
	assert.Equal(t, int64(600), got.TotalAmount)
	assert.Equal(t, float64(200), got.AverageAmount)
	assert.Equal(t, map[string]int{"completed": 2, "pending": 1}, got.StatusBreakdown)
	assert.Equal(t, map[string]int{"usd": 2, "eur": 1}, got.CurrencyBreakdown)
}

func TestCalculate_IgnoresAbsentAmounts(t *testing.T) {
	payments := []model.Payment{
		{PaymentID: "p1", Amount: amount(100), Status: "completed"},
		{PaymentID: "p2", Status: "completed"},
		{PaymentID: "p3", Amount: amount(300), Status: "completed"},
	}

	got := Calculate(payments)

	assert.Equal(t, 3, got.Count)
	assert.Equal(t, int64(400), got.TotalAmount)
	assert.Equal(t, float64(200), got.AverageAmount)
}

func TestCalculate_NoAmountsAtAll(t *testing.T) {
	payments := []model.Payment{
		{PaymentID: "p1", Status: "pending"},
	}

	got := Calculate(payments)

	assert.Equal(t, 1, got.Count)
	assert.Equal(t, int64(0), got.TotalAmount)
	assert.Equal(t, float64(0), got.AverageAmount)
}
