package sheetimport

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// serialEpoch es el día 0 de los seriales de planilla.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

const (
	msPerDay        = 24 * 60 * 60 * 1000
	maxSerialMillis = 8.64e15
)

// ParseFlexibleDate acepta "DD/MM/YYYY" (medianoche UTC, fecha de calendario válida)
// o un serial de planilla (número, o string numérico sin "/").
// Cualquier otra cosa devuelve ok=false.
func ParseFlexibleDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, false
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		if strings.Contains(s, "/") {
			return parseDayMonthYear(s)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, false
		}
		return fromSerial(f)
	case float64:
		return fromSerial(x)
	case float32:
		return fromSerial(float64(x))
	case int:
		return fromSerial(float64(x))
	case int64:
		return fromSerial(float64(x))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return fromSerial(f)
	}
	return time.Time{}, false
}

func parseDayMonthYear(s string) (time.Time, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || strings.TrimLeft(p, "0123456789") != "" {
			return time.Time{}, false
		}
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return time.Time{}, false
		}
		nums[i] = n
	}

	d, m, y := nums[0], nums[1], nums[2]
	if m > 12 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normaliza (31/02 -> 02/03); si cambió, la fecha no existe.
	if t.Day() != d || int(t.Month()) != m || t.Year() != y {
		return time.Time{}, false
	}
	return t, true
}

func fromSerial(days float64) (time.Time, bool) {
	if math.IsNaN(days) || math.IsInf(days, 0) {
		return time.Time{}, false
	}
	ms := math.Round(days * msPerDay)
	if math.Abs(ms) > maxSerialMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(serialEpoch.UnixMilli() + int64(ms)).UTC(), true
}
