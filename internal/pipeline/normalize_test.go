package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "beyonce", NormalizeName("  Beyoncé "))
	require.Equal(t, "sigur ros", NormalizeName("Sigur Rós"))
	require.Equal(t, "motorhead", NormalizeName("Motörhead"))
}

func TestNamesMatch(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"Beyoncé", "beyonce", true},
		{"The National", "National", true}, // substring either direction
		{"Aurora", "AURORA (NO)", true},
		{"Oasis", "Blur", false},
		{"", "Blur", false},
		{"Blur", "", false},
	}
	for _, c := range cases {
		require.Equal(t, c.want, NamesMatch(c.a, c.b), "%q vs %q", c.a, c.b)
	}
}
