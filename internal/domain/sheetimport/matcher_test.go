package sheetimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-registry/internal/ports/filestore"
)

func files(names ...string) []filestore.File {
	out := make([]filestore.File, len(names))
	for i, n := range names {
		out[i] = filestore.File{ID: "id-" + n, Name: n, MimeType: "image/jpeg"}
	}
	return out
}

func TestFindBestMatch_ExactWins(t *testing.T) {
	// "A-01.JPG" normaliza a "A01.JPG": basename exacto.
	m, ok := FindBestMatch("A01", files("a01_final.png", "zzzA01zzz.heic", "A-01.JPG"))
	require.True(t, ok)
	assert.Equal(t, TierExact, m.Tier)
	assert.Equal(t, "A-01.JPG", m.File.Name)
}

func TestFindBestMatch_ContainsShortest(t *testing.T) {
	m, ok := FindBestMatch("a01", files("zzzA01zzz.heic", "a01_final.png", "A01_final_v2.png"))
	require.True(t, ok)
	assert.Equal(t, TierContains, m.Tier)
	assert.Equal(t, "a01_final.png", m.File.Name)
}

func TestFindBestMatch_ContainsTieKeepsFirstSeen(t *testing.T) {
	m, ok := FindBestMatch("B2", files("xB2.jpg", "B2y.jpg"))
	require.True(t, ok)
	assert.Equal(t, TierContains, m.Tier)
	assert.Equal(t, "xB2.jpg", m.File.Name)
}

func TestFindBestMatch_SquashedOnlyWhenHigherTiersMiss(t *testing.T) {
	// "A.01" no aparece tal cual en ningún nombre; squashed "A01" sí.
	m, ok := FindBestMatch("A.01", files("A01 big photo.jpg", "A01x.jpg", "other.png"))
	require.True(t, ok)
	assert.Equal(t, TierSquashed, m.Tier)
	assert.Equal(t, "A01x.jpg", m.File.Name)

	// contains gana aunque exista un squashed más corto.
	m, ok = FindBestMatch("A.01", files("A01.jpg", "photo_A.01_long_name.jpg"))
	require.True(t, ok)
	assert.Equal(t, TierContains, m.Tier)
	assert.Equal(t, "photo_A.01_long_name.jpg", m.File.Name)
}

func TestFindBestMatch_NoMatch(t *testing.T) {
	_, ok := FindBestMatch("Z99", files("A01.jpg", "B02.png"))
	assert.False(t, ok)

	_, ok = FindBestMatch("  ", files("A01.jpg"))
	assert.False(t, ok)

	_, ok = FindBestMatch("A01", nil)
	assert.False(t, ok)
}
