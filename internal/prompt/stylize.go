package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/kapu/pokedex-translator-go/internal/domain"
)

var stylizeTemplate = template.Must(template.New("stylize").Parse(`You rewrite Pokédex entries in the voice of {{.Persona}}.

**Rules:**
- Keep the meaning of the original text; do not add or remove facts.
- {{.Guidance}}
- Reply with the rewritten text only: no quotes, no preface, no explanation.
- Keep it to a similar length as the original.

**Original text:**
{{.Text}}`))

type personaSpec struct {
	Persona  string
	Guidance string
}

var personas = map[domain.TranslationStyle]personaSpec{
	domain.StyleShakespeare: {
		Persona:  "William Shakespeare",
		Guidance: "Use Early Modern English (thee, thou, hath, doth, yond, enow) as in his plays.",
	},
	domain.StyleYoda: {
		Persona:  "Yoda from Star Wars",
		Guidance: "Invert sentence order the way Yoda speaks (object-subject-verb), ending lines with the verb where natural.",
	},
}

// StylizeVars holds variables for the stylize prompt template
type StylizeVars struct {
	Persona  string
	Guidance string
	Text     string
}

// BuildStylize renders the rewrite prompt for text in the given style.
func BuildStylize(style domain.TranslationStyle, text string) (string, error) {
	spec, ok := personas[style]
	if !ok {
		return "", fmt.Errorf("no persona for style %q", style)
	}

	var buf bytes.Buffer
	if err := stylizeTemplate.Execute(&buf, StylizeVars{
		Persona:  spec.Persona,
		Guidance: spec.Guidance,
		Text:     strings.TrimSpace(text),
	}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// CleanCompletion strips wrapping quotes and whitespace models tend to add.
func CleanCompletion(text string) string {
	text = strings.TrimSpace(text)
	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			text = strings.TrimSpace(text[1 : len(text)-1])
		}
	}
	return text
}
