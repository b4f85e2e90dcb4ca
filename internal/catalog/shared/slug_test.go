package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Fresh Milk 1L":        "fresh-milk-1l",
		"  Déjà Vu Café  ":     "deja-vu-cafe",
		"Chips & Dips!!":       "chips-dips",
		"UPPER_case--mixed":    "upper-case-mixed",
		"100% Orange Juice":    "100-orange-juice",
		"Żubrówka":             "zubrowka",
		"":                     "",
		"---":                  "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}
