package lookup

import "context"

// Suggestion is the metadata a lookup proposes for a card the user is
// filling in.
type Suggestion struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Rating      int    `json:"rating"` // 1-5 hint, 0 when unknown
}

// Provider suggests card metadata for a title. The catalog treats lookup as
// advisory: a provider error just means the user fills the form by hand.
type Provider interface {
	Suggest(ctx context.Context, kind, title string) (*Suggestion, error)
}
