package lookup

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrParseFailed = errors.New("parse_failed")

// ParseSuggestion extracts the first JSON object from model output. The
// prompt asks for bare JSON, but models occasionally wrap it in code fences
// or prose, so this scans for the outermost braces and tries that slice.
func ParseSuggestion(text string) (*Suggestion, error) {
	text = strings.TrimSpace(text)
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object found", ErrParseFailed)
	}
	var s Suggestion
	if err := json.Unmarshal([]byte(text[start:end+1]), &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	if s.Rating < 0 || s.Rating > 5 {
		s.Rating = 0
	}
	return &s, nil
}
