package domain

// TranslationStyle selects the persona the description is rewritten in.
type TranslationStyle string

const (
	StyleShakespeare TranslationStyle = "shakespeare"
	StyleYoda        TranslationStyle = "yoda"
)

func (s TranslationStyle) String() string {
	return string(s)
}

func (s TranslationStyle) IsValid() bool {
	switch s {
	case StyleShakespeare, StyleYoda:
		return true
	default:
		return false
	}
}

// CaveHabitat is the habitat name that routes a species to the Yoda style.
const CaveHabitat = "cave"

// SelectStyle picks Yoda for legendary or cave-dwelling species and Shakespeare for
// everything else.
func SelectStyle(info *SpeciesInfo) TranslationStyle {
	if info.IsLegendary || info.Habitat == CaveHabitat {
		return StyleYoda
	}
	return StyleShakespeare
}
