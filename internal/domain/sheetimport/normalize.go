package sheetimport

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CellString pasa cualquier valor de celda a texto.
// Floats enteros se renderizan sin decimales ("12", no "12.0").
func CellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// NormalizeIdentifier: trim + upper. Conserva puntuación; se usa para codes.
func NormalizeIdentifier(raw any) string {
	return strings.ToUpper(strings.TrimSpace(CellString(raw)))
}

// NormalizeForMatch prepara nombres de archivo para comparar:
// NFC, sin caracteres invisibles, trim, upper y solo [A-Z0-9._].
func NormalizeForMatch(raw string) string {
	s := norm.NFC.String(raw)
	s = strings.Map(func(r rune) rune {
		if isInvisible(r) {
			return -1
		}
		return r
	}, s)
	s = strings.ToUpper(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isInvisible(r rune) bool {
	switch r {
	case '\u200B', '\u200C', '\u200D', '\uFEFF':
		return true
	}
	return false
}

// StripExtension quita el último ".ext" salvo que el punto esté en la posición 0
// (".jpg" queda igual).
func StripExtension(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}

// SquashNonAlphanumeric deja solo letras y dígitos ASCII.
func SquashNonAlphanumeric(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
