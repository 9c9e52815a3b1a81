package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCents(t *testing.T) {
	tests := map[string]Cents{
		"":            0,
		"150":         15000,
		"150,5":       15050,
		"150,50":      15050,
		"1.234,56":    123456,
		"R$ 1.234,56": 123456,
		"1234.56":     123456,
		"1.234":       123400,
		"-20,00":      -2000,
		"0,99":        99,
	}
	for in, want := range tests {
		got, err := ParseCents(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{
		"abc",
		"--5",
		"1.-5",
		"+5",
		"5-",
		"1,2x",
		"184467440737095517",
		"92233720368547758,07",
		"R$ -",
	} {
		_, err := ParseCents(in)
		require.Error(t, err, in)
	}
}

func TestParseCents_LargestAccepted(t *testing.T) {
	got, err := ParseCents("92233720368547757,99")
	require.NoError(t, err)
	assert.Equal(t, Cents(9223372036854775799), got)
}

func TestCentsString(t *testing.T) {
	assert.Equal(t, "R$ 0,00", Cents(0).String())
	assert.Equal(t, "R$ 1.234,56", Cents(123456).String())
	assert.Equal(t, "R$ 1.000.000,00", Cents(100000000).String())
	assert.Equal(t, "-R$ 5,05", Cents(-505).String())
	assert.Equal(t, "12,30", Cents(1230).Input())
	assert.Equal(t, "", Cents(0).Input())
	assert.Equal(t, Cents(0), Cents(-10).NonNegative())
}
