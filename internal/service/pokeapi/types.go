package pokeapi

import "github.com/kapu/pokedex-translator-go/internal/domain"

// DescriptionLanguage is the flavor-text language preferred for descriptions.
const DescriptionLanguage = "en"

// NamedResource is PokeAPI's {name, url} reference object.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type FlavorTextEntry struct {
	FlavorText string         `json:"flavor_text"`
	Language   NamedResource  `json:"language"`
	Version    *NamedResource `json:"version,omitempty"`
}

// SpeciesRaw is the part of /api/v2/pokemon-species/{name} this service reads.
type SpeciesRaw struct {
	ID                int               `json:"id"`
	Name              string            `json:"name"`
	IsLegendary       bool              `json:"is_legendary"`
	IsMythical        bool              `json:"is_mythical"`
	Habitat           *NamedResource    `json:"habitat"`
	FlavorTextEntries []FlavorTextEntry `json:"flavor_text_entries"`
}

// Description picks the first English flavor text, else the first entry in any
// language, else domain.NoDescription. The text is whitespace-normalized.
func (s *SpeciesRaw) Description() string {
	for _, entry := range s.FlavorTextEntries {
		if entry.Language.Name == DescriptionLanguage {
			if text := domain.CleanFlavorText(entry.FlavorText); text != "" {
				return text
			}
		}
	}
	for _, entry := range s.FlavorTextEntries {
		if text := domain.CleanFlavorText(entry.FlavorText); text != "" {
			return text
		}
	}
	return domain.NoDescription
}

// HabitatName is empty for species PokeAPI has no habitat for.
func (s *SpeciesRaw) HabitatName() string {
	if s.Habitat == nil {
		return ""
	}
	return s.Habitat.Name
}

// ToSpeciesInfo converts the raw payload. requested is used when the payload has no name.
func (s *SpeciesRaw) ToSpeciesInfo(requested string) *domain.SpeciesInfo {
	name := domain.NormalizeName(s.Name)
	if name == "" {
		name = requested
	}
	return &domain.SpeciesInfo{
		Name:        name,
		Description: s.Description(),
		Habitat:     s.HabitatName(),
		IsLegendary: s.IsLegendary,
	}
}
