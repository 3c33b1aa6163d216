package sheetimport

import (
	"strings"
	"unicode/utf8"

	"pet-registry/internal/ports/filestore"
)

type Tier string

const (
	TierExact    Tier = "EXACT"
	TierContains Tier = "CONTAINS"
	TierSquashed Tier = "SQUASHED"
)

type Match struct {
	File filestore.File
	Tier Tier
}

// tierFunc es pura y total: mismo input, mismo resultado, sin I/O.
// code llega ya normalizado con NormalizeForMatch.
type tierFunc func(code string, files []filestore.File) (filestore.File, bool)

// Orden estricto: un tier de menor confianza nunca le gana a uno anterior,
// aunque su nombre sea más corto.
var matchTiers = []struct {
	tier Tier
	fn   tierFunc
}{
	{TierExact, matchExact},
	{TierContains, matchContains},
	{TierSquashed, matchSquashed},
}

// FindBestMatch aplica los tiers en orden; gana el primero con resultado.
func FindBestMatch(code string, files []filestore.File) (Match, bool) {
	nc := NormalizeForMatch(code)
	if nc == "" {
		return Match{}, false
	}
	for _, t := range matchTiers {
		if f, ok := t.fn(nc, files); ok {
			return Match{File: f, Tier: t.tier}, true
		}
	}
	return Match{}, false
}

func matchExact(code string, files []filestore.File) (filestore.File, bool) {
	for _, f := range files {
		if StripExtension(NormalizeForMatch(f.Name)) == code {
			return f, true
		}
	}
	return filestore.File{}, false
}

func matchContains(code string, files []filestore.File) (filestore.File, bool) {
	return shortestWhere(files, func(f filestore.File) bool {
		return strings.Contains(NormalizeForMatch(f.Name), code)
	})
}

func matchSquashed(code string, files []filestore.File) (filestore.File, bool) {
	sq := SquashNonAlphanumeric(code)
	if sq == "" {
		return filestore.File{}, false
	}
	return shortestWhere(files, func(f filestore.File) bool {
		return strings.Contains(SquashNonAlphanumeric(StripExtension(NormalizeForMatch(f.Name))), sq)
	})
}

// shortestWhere: nombre más corto entre los que cumplen; empate => primero visto.
func shortestWhere(files []filestore.File, keep func(filestore.File) bool) (filestore.File, bool) {
	var (
		best    filestore.File
		bestLen = -1
	)
	for _, f := range files {
		if !keep(f) {
			continue
		}
		if n := utf8.RuneCountInString(f.Name); bestLen < 0 || n < bestLen {
			best, bestLen = f, n
		}
	}
	return best, bestLen >= 0
}
