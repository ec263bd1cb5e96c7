// Package format содержит форматирование значений для отображения на дашборде.
package format

import (
	"encoding/json"
	"time"
)

// NotAvailable возвращается для нулевых, отсутствующих и нечисловых меток времени.
const NotAvailable = "Not available"

// InvalidDate возвращается для меток времени, не представимых как дата.
const InvalidDate = "Invalid date"

// displayOffset — фиксированный сдвиг отображаемого времени.
// Это статическая поправка исторического дашборда, а не работа
// с часовыми поясами; не заменять на обращение к базе зон.
const displayOffset = 5 * time.Hour

// Timestamp переводит метку времени в миллисекундах эпохи в строку
// вида "HH:MM:SS YYYY-MM-DD" со сдвигом +5 часов от UTC.
// Нулевое, отсутствующее или нечисловое значение даёт NotAvailable,
// непредставимое как дата — InvalidDate.
func Timestamp(v any) string {
	ms, ok := toMillis(v)
	if !ok || ms == 0 {
		return NotAvailable
	}
	return TimestampMillis(ms)
}

// TimestampMillis — типизированный вариант Timestamp для int64.
func TimestampMillis(ms int64) string {
	if ms == 0 {
		return NotAvailable
	}

	t := time.UnixMilli(ms).UTC().Add(displayOffset)
	if t.Year() < 1 || t.Year() > 9999 {
		return InvalidDate
	}

	return t.Format("15:04:05 2006-01-02")
}

func toMillis(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case float32:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil {
				return 0, false
			}
			return int64(f), true
		}
		return i, true
	default:
		return 0, false
	}
}
