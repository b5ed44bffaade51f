package lookup

import (
	"context"
	"sort"
	"strings"

	"github.com/totalrecall/catalog-backend/internal/model"
)

// StaticProvider returns deterministic canned suggestions. It is the
// default: the original app shipped with its search mocked, and this keeps
// that behavior when no Gemini key is configured.
type StaticProvider struct{}

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

var foodCategories = map[string]string{
	"ramen":   "Japanese",
	"sushi":   "Japanese",
	"taco":    "Mexican",
	"burrito": "Mexican",
	"pizza":   "Italian",
	"pasta":   "Italian",
	"burger":  "American",
	"curry":   "Indian",
	"pho":     "Vietnamese",
}

var entertainmentCategories = map[string]string{
	"star":   "Sci-Fi",
	"space":  "Sci-Fi",
	"dune":   "Sci-Fi",
	"ring":   "Fantasy",
	"dragon": "Fantasy",
	"love":   "Romance",
	"dead":   "Horror",
	"game":   "Drama",
}

func (p *StaticProvider) Suggest(_ context.Context, kind, title string) (*Suggestion, error) {
	low := strings.ToLower(title)
	category := "General"
	table := entertainmentCategories
	if kind == model.CardKindFood {
		table = foodCategories
	}
	// Sorted so a title matching two needles always resolves the same way.
	needles := make([]string, 0, len(table))
	for needle := range table {
		needles = append(needles, needle)
	}
	sort.Strings(needles)
	for _, needle := range needles {
		if strings.Contains(low, needle) {
			category = table[needle]
			break
		}
	}
	return &Suggestion{
		Title:       strings.TrimSpace(title),
		Category:    category,
		Description: "No details found; add your own notes.",
	}, nil
}
