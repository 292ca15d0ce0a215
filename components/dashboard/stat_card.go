package dashboard

import "github.com/ettle/strcase"

// Accent is the cosmetic color category of a stat card.
type Accent string

const (
	AccentBlue   Accent = "blue"
	AccentGreen  Accent = "green"
	AccentPurple Accent = "purple"
	AccentOrange Accent = "orange"
)

var accentGradients = map[Accent]string{
	AccentBlue:   "from-blue-500 to-indigo-500",
	AccentGreen:  "from-emerald-500 to-green-600",
	AccentPurple: "from-purple-500 to-fuchsia-500",
	AccentOrange: "from-orange-500 to-amber-500",
}

// NormalizeAccent maps unknown accents to blue. Matching is exact.
func NormalizeAccent(value string) Accent {
	accent := Accent(value)
	if _, ok := accentGradients[accent]; ok {
		return accent
	}
	return AccentBlue
}

// Gradient returns the gradient classes for the accent.
func (a Accent) Gradient() string {
	return accentGradients[NormalizeAccent(string(a))]
}

// StatCard is a single labeled metric. Value and Sub arrive pre-formatted.
type StatCard struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Value    string `json:"value"`
	Sub      string `json:"sub,omitempty"`
	Accent   Accent `json:"accent"`
	Gradient string `json:"gradient"`
}

// NewStatCard normalizes the accent and derives the DOM id from the title.
func NewStatCard(title, value, sub string, accent Accent) StatCard {
	normalized := NormalizeAccent(string(accent))
	return StatCard{
		ID:       "stat-" + strcase.ToKebab(title),
		Title:    title,
		Value:    value,
		Sub:      sub,
		Accent:   normalized,
		Gradient: normalized.Gradient(),
	}
}

// HasSub reports whether the card shows a secondary line.
func (c StatCard) HasSub() bool {
	return c.Sub != ""
}
