package lookup

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/totalrecall/catalog-backend/internal/model"
	"google.golang.org/genai"
)

// GeminiProvider asks Gemini for card metadata. A fallback provider (the
// static one) handles every failure path, so callers never see an empty
// result just because the model misbehaved.
type GeminiProvider struct {
	model    string
	fallback Provider
}

func NewGeminiProvider(fallback Provider) *GeminiProvider {
	m := os.Getenv("GEMINI_MODEL")
	if m == "" {
		m = "gemini-2.5-flash"
	}
	if fallback == nil {
		fallback = NewStaticProvider()
	}
	return &GeminiProvider{model: m, fallback: fallback}
}

const suggestPrompt = `You suggest catalog metadata for a personal experience tracker.
Given a %s experience titled %q, reply with ONLY a JSON object, no code fences, no prose:
{"title": "<cleaned up title>", "category": "<one or two word category>", "description": "<one sentence>", "rating": <typical rating 1-5 as integer, 0 if unknown>}`

func (p *GeminiProvider) Suggest(ctx context.Context, kind, title string) (*Suggestion, error) {
	start := time.Now()
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		log.Printf("[lookup] stage=client_init err=%v", err)
		return p.fallback.Suggest(ctx, kind, title)
	}

	kindWord := "entertainment"
	if kind == model.CardKindFood {
		kindWord = "food"
	}
	parts := []*genai.Part{
		genai.NewPartFromText(fmt.Sprintf(suggestPrompt, kindWord, title)),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	temp := float32(0)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	res, err := client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		log.Printf("[lookup] stage=gemini_fail model=%s err=%v", p.model, err)
		return p.fallback.Suggest(ctx, kind, title)
	}
	raw := res.Text()
	suggestion, err := ParseSuggestion(raw)
	if err != nil {
		text := raw
		if len(text) > 80 {
			text = text[:80]
		}
		log.Printf("[lookup] stage=parse_fail text=%q err=%v", text, err)
		return p.fallback.Suggest(ctx, kind, title)
	}
	log.Printf("[lookup] stage=ok model=%s totalMs=%d", p.model, time.Since(start).Milliseconds())
	return suggestion, nil
}
