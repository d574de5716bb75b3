package usecase

import (
	"CaseLawSearch/internal/acts"
	"CaseLawSearch/internal/domain"
)

// Filters lists the choices a client offers next to the keyword box.
type Filters struct {
	Courts           []string `json:"courts"`
	Districts        []string `json:"districts"`
	MinYear          int      `json:"minYear"`
	MaxYear          int      `json:"maxYear"`
	DetectedDistrict string   `json:"detectedDistrict,omitempty"`
	ActSuggestions   []string `json:"actSuggestions"`
}

// FilterOptions returns the catalogs plus keyword-derived suggestions.
func FilterOptions(reg *acts.Registry, keyword string) Filters {
	f := Filters{
		Courts:           append([]string(nil), domain.Courts...),
		Districts:        append([]string(nil), domain.Districts...),
		MinYear:          domain.MinYear,
		MaxYear:          domain.MaxYear,
		DetectedDistrict: domain.DetectDistrict(keyword),
		ActSuggestions:   SuggestActs(reg, keyword),
	}
	return f
}

// SuggestActs returns registry act names containing keyword, in registry order.
func SuggestActs(reg *acts.Registry, keyword string) []string {
	if reg == nil {
		return []string{}
	}
	names := []string{}
	for _, act := range reg.Suggest(keyword) {
		names = append(names, act.Name)
	}
	return names
}
