package sheetimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-registry/internal/domain/pets"
)

func TestRowsFromGrid(t *testing.T) {
	rows, err := RowsFromGrid([][]any{
		{"Code", " Name ", "", "Weight"},
		{"A1", "Rex", "ignored", 12.5},
		{"B2"},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, SourceRow{"Code": "A1", "Name": "Rex", "Weight": 12.5}, rows[0])
	assert.Equal(t, SourceRow{"Code": "B2", "Name": nil, "Weight": nil}, rows[1])

	_, err = RowsFromGrid(nil)
	assert.ErrorIs(t, err, ErrNoHeader)
	_, err = RowsFromGrid([][]any{{"", nil}})
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestNormalizeGender(t *testing.T) {
	assert.Equal(t, pets.GenderMale, NormalizeGender(" Đực "))
	assert.Equal(t, pets.GenderMale, NormalizeGender("MALE"))
	// forma descompuesta (NFD) de "cái"
	assert.Equal(t, pets.GenderFemale, NormalizeGender("ca\u0301i"))
	assert.Equal(t, pets.GenderFemale, NormalizeGender("female"))
	assert.Equal(t, pets.Gender("unknown"), NormalizeGender("unknown"))
	assert.Equal(t, pets.Gender(""), NormalizeGender(nil))
}

func TestGenderIndex(t *testing.T) {
	idx := genderIndex([]SourceRow{
		{ColCode: "a1", ColGender: "đực"},
		{ColCode: "", ColGender: "cái"},
		{ColCode: "B2", ColGender: ""},
		{ColCode: "C3", ColGender: "other"},
	})
	assert.Equal(t, map[string]pets.Gender{"A1": pets.GenderMale, "C3": "other"}, idx)
}

func TestParseWeight(t *testing.T) {
	w, present := parseWeight(12.5)
	require.NotNil(t, w)
	assert.True(t, present)
	assert.Equal(t, 12.5, *w)

	w, _ = parseWeight(" 3 ")
	require.NotNil(t, w)
	assert.Equal(t, 3.0, *w)

	w, present = parseWeight("")
	assert.Nil(t, w)
	assert.False(t, present)

	for _, bad := range []any{"abc", -1.0, "-2"} {
		w, present = parseWeight(bad)
		assert.Nil(t, w, "%v", bad)
		assert.True(t, present, "%v", bad)
	}
}
