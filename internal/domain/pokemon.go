package domain

import (
	"regexp"
	"strings"
)

// MaxNameLength bounds a normalized Pokémon name.
const MaxNameLength = 64

// NoDescription is served when the species data carries no flavor text at all.
const NoDescription = "No description available."

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.'-]*$`)

// SpeciesInfo is the subset of species data the service works with.
type SpeciesInfo struct {
	Name        string
	Description string
	Habitat     string
	IsLegendary bool
}

// PokemonResult is the payload served for GET /pokemon/{name}.
type PokemonResult struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsLegendary bool   `json:"isLegendary"`
	Habitat     string `json:"habitat"`

	// Translated is false when the description is the untranslated fallback.
	Translated bool             `json:"-"`
	Style      TranslationStyle `json:"-"`
}

// NewPokemonResult builds a result whose attributes always mirror info.
func NewPokemonResult(info *SpeciesInfo, description string, style TranslationStyle, translated bool) PokemonResult {
	if strings.TrimSpace(description) == "" {
		description = info.Description
		translated = false
	}
	return PokemonResult{
		Name:        info.Name,
		Description: description,
		IsLegendary: info.IsLegendary,
		Habitat:     info.Habitat,
		Translated:  translated,
		Style:       style,
	}
}

// NormalizeName trims and lower-cases a raw Pokémon name.
func NormalizeName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// IsValidName reports whether a normalized name is safe to use as a lookup key and
// upstream path segment.
func IsValidName(name string) bool {
	return len(name) <= MaxNameLength && namePattern.MatchString(name)
}

// CleanFlavorText collapses the form feeds, newlines and repeated spaces found in
// upstream flavor text into single spaces.
func CleanFlavorText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
