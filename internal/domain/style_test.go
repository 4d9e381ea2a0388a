package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectStyle(t *testing.T) {
	tests := []struct {
		desc string
		info SpeciesInfo
		want TranslationStyle
	}{
		{"legendary outside cave", SpeciesInfo{IsLegendary: true, Habitat: "rare"}, StyleYoda},
		{"cave dweller", SpeciesInfo{Habitat: "cave"}, StyleYoda},
		{"legendary cave dweller", SpeciesInfo{IsLegendary: true, Habitat: "cave"}, StyleYoda},
		{"ordinary", SpeciesInfo{Habitat: "mountain"}, StyleShakespeare},
		{"no habitat", SpeciesInfo{}, StyleShakespeare},
		{"habitat match is exact", SpeciesInfo{Habitat: "Cave"}, StyleShakespeare},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			info := tt.info
			assert.Equal(t, tt.want, SelectStyle(&info))
		})
	}
}

func TestTranslationStyleIsValid(t *testing.T) {
	assert.True(t, StyleYoda.IsValid())
	assert.True(t, StyleShakespeare.IsValid())
	assert.False(t, TranslationStyle("pirate").IsValid())
}
