package slug_test

import (
	"testing"

	"github.com/dmarquez/inkwell-be/internal/slug"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "simple title", title: "Hello, World!", want: "hello-world"},
		{name: "already slug shaped", title: "already-slugged", want: "already-slugged"},
		{name: "mixed punctuation runs collapse", title: "Go -- 1.24 :: release!!", want: "go-1-24-release"},
		{name: "leading and trailing separators trimmed", title: "  ...Hello...  ", want: "hello"},
		{name: "digits kept", title: "Top 10 Posts of 2026", want: "top-10-posts-of-2026"},
		{name: "uppercase lowered", title: "SHOUTING TITLE", want: "shouting-title"},
		{name: "non-ascii treated as separators", title: "Café con Leche", want: "caf-con-leche"},
		{name: "only punctuation falls back", title: "!!! ???", want: "post"},
		{name: "empty title falls back", title: "", want: "post"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.Make(tt.title))
		})
	}
}

func TestUnique(t *testing.T) {
	t.Run("free base is used as-is", func(t *testing.T) {
		got, err := slug.Unique("hello-world", func(string) (bool, error) { return false, nil })
		require.NoError(t, err)
		assert.Equal(t, "hello-world", got)
	})

	t.Run("suffixes probe in increasing order", func(t *testing.T) {
		taken := map[string]bool{
			"hello-world":   true,
			"hello-world-1": true,
			"hello-world-2": true,
		}
		var probed []string
		got, err := slug.Unique("hello-world", func(candidate string) (bool, error) {
			probed = append(probed, candidate)
			return taken[candidate], nil
		})
		require.NoError(t, err)
		assert.Equal(t, "hello-world-3", got)
		assert.Equal(t, []string{"hello-world", "hello-world-1", "hello-world-2", "hello-world-3"}, probed)
	})

	t.Run("probe errors propagate", func(t *testing.T) {
		_, err := slug.Unique("x", func(string) (bool, error) { return false, assert.AnError })
		assert.ErrorIs(t, err, assert.AnError)
	})
}
