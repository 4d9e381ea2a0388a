package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "charizard", NormalizeName("  Charizard\n"))
	assert.Equal(t, "mr-mime", NormalizeName("MR-MIME"))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestIsValidName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"charizard", true},
		{"mr-mime", true},
		{"farfetch'd", true},
		{"mime-jr.", true},
		{"porygon2", true},
		{"", false},
		{"-pikachu", false},
		{"pika chu", false},
		{"../etc/passwd", false},
		{"pikachu?x=1", false},
		{"Pikachu", false},
		{strings.Repeat("a", MaxNameLength), true},
		{strings.Repeat("a", MaxNameLength+1), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, IsValidName(tt.name), "name %q", tt.name)
	}
}

func TestCleanFlavorText(t *testing.T) {
	raw := "Spits fire that\nis hot enough to\fmelt boulders.  "
	assert.Equal(t, "Spits fire that is hot enough to melt boulders.", CleanFlavorText(raw))
	assert.Equal(t, "", CleanFlavorText("\n\f "))
}

func TestNewPokemonResult(t *testing.T) {
	info := &SpeciesInfo{
		Name:        "mewtwo",
		Description: "It was created by a scientist.",
		Habitat:     "rare",
		IsLegendary: true,
	}

	got := NewPokemonResult(info, "Created by a scientist, it was.", StyleYoda, true)
	assert.Equal(t, "mewtwo", got.Name)
	assert.Equal(t, "Created by a scientist, it was.", got.Description)
	assert.Equal(t, "rare", got.Habitat)
	assert.True(t, got.IsLegendary)
	assert.True(t, got.Translated)
	assert.Equal(t, StyleYoda, got.Style)

	// 빈 번역은 원문으로 대체
	fallback := NewPokemonResult(info, "  ", StyleYoda, true)
	assert.Equal(t, info.Description, fallback.Description)
	assert.False(t, fallback.Translated)
}
