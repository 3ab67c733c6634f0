// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package titlekey_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/librarium/pkg/titlekey"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"lowercases", "The Pragmatic Programmer", "the pragmatic programmer"},
		{"strips_accents", "Les Misérables", "les miserables"},
		{"collapses_spaces", "  War   and  Peace ", "war and peace"},
		{"plain_ascii_untouched", "dune", "dune"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titlekey.From(tt.title))
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, titlekey.Equal("Les Misérables", "les miserables"))
	assert.True(t, titlekey.Equal("DUNE", "Dune"))
	assert.False(t, titlekey.Equal("Dune", "Dune Messiah"))
}
