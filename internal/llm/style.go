package llm

import "strings"

// Style is one of the fixed photography presets.
type Style string

const (
	StyleRusticDark   Style = "rustic-dark"
	StyleBrightModern Style = "bright-modern"
	StyleSocialMedia  Style = "social-media-topdown"
)

const DefaultStyle = StyleBrightModern

const defaultStylePrompt = "Professional food photography, high resolution, delicious presentation."

var styleLabels = map[Style]string{
	StyleRusticDark:   "Rustic/Dark",
	StyleBrightModern: "Bright/Modern",
	StyleSocialMedia:  "Social Media (Top-down)",
}

var stylePrompts = map[Style]string{
	StyleRusticDark:   "Chiaroscuro lighting, dark moody atmosphere, dark wood background, professional fine-dining plating, gourmet food photography, high contrast, warm steam rising, rustic kitchen setting.",
	StyleBrightModern: "Bright airy lighting, minimalist white marble background, high-key photography, clean and crisp aesthetic, vibrant natural colors, professional studio food photography, contemporary plating.",
	StyleSocialMedia:  "Flat lay, top-down perspective, overhead shot, Instagram aesthetic, colorful garnishes around the plate, trendy cafe vibe, high resolution, sharp focus on the food details, bright daylight.",
}

// Styles returns the presets in display order.
func Styles() []Style {
	return []Style{StyleRusticDark, StyleBrightModern, StyleSocialMedia}
}

func (s Style) IsValid() bool {
	_, ok := stylePrompts[s]
	return ok
}

// Label is the human-readable name shown in the style picker.
func (s Style) Label() string {
	if l, ok := styleLabels[s]; ok {
		return l
	}
	return string(s)
}

// Prompt returns the lighting/composition fragment for s, or a generic
// food-photography phrase for unknown styles.
func (s Style) Prompt() string {
	if p, ok := stylePrompts[s]; ok {
		return p
	}
	return defaultStylePrompt
}

// ParseStyle accepts a style id or its label, case-insensitively. An empty
// value yields DefaultStyle. Unknown values are returned as-is with ok=false.
func ParseStyle(v string) (Style, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return DefaultStyle, true
	}

	for _, s := range Styles() {
		if strings.EqualFold(v, string(s)) || strings.EqualFold(v, s.Label()) {
			return s, true
		}
	}
	return Style(v), false
}
