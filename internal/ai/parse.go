package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Listing is the structured output of the vision describer. Every field is
// always populated; defaults fill whatever could not be recovered from the
// model response.
type Listing struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	EstimatedPrice string `json:"estimatedPrice"`
}

// Default placeholder values returned when the model response is unusable.
const (
	DefaultTitle       = "Generated Title"
	DefaultDescription = "Generated description"
	DefaultPrice       = "0"
)

// DefaultListing returns the placeholder listing.
func DefaultListing() Listing {
	return Listing{
		Title:          DefaultTitle,
		Description:    DefaultDescription,
		EstimatedPrice: DefaultPrice,
	}
}

var (
	titleRegex = regexp.MustCompile(`"title"\s*:\s*"([^"]+)"`)
	descRegex  = regexp.MustCompile(`"description"\s*:\s*"([^"]+)"`)
	priceRegex = regexp.MustCompile(`"(?:estimatedPrice|price)"\s*:\s*"?(\d+(?:\.\d+)?)"?`)
	numRegex   = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// parseListing recovers a listing from the raw model response. Attempts are
// ordered: strip any markdown fence and parse strict JSON, then fall back to
// per-key regex extraction; keys that cannot be recovered keep their defaults.
func parseListing(text string) Listing {
	listing := DefaultListing()
	content := stripCodeFence(text)
	if content == "" {
		return listing
	}

	var parsed struct {
		Title          string          `json:"title"`
		Description    string          `json:"description"`
		EstimatedPrice json.RawMessage `json:"estimatedPrice"`
		Price          json.RawMessage `json:"price"` // legacy key
	}
	if err := json.Unmarshal([]byte(content), &parsed); err == nil {
		if t := strings.TrimSpace(parsed.Title); t != "" {
			listing.Title = t
		}
		if d := strings.TrimSpace(parsed.Description); d != "" {
			listing.Description = d
		}
		raw := parsed.EstimatedPrice
		if raw == nil {
			raw = parsed.Price
		}
		if price := normalizePrice(string(raw)); price != "" {
			listing.EstimatedPrice = price
		}
		return listing
	}

	if m := titleRegex.FindStringSubmatch(content); m != nil {
		listing.Title = m[1]
	}
	if m := descRegex.FindStringSubmatch(content); m != nil {
		listing.Description = m[1]
	}
	if m := priceRegex.FindStringSubmatch(content); m != nil {
		listing.EstimatedPrice = m[1]
	}
	return listing
}

// stripCodeFence removes a ```json or ``` wrapper around the response body.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// normalizePrice reduces a price value (number, quoted string, currency text)
// to its bare numeric form. Returns "" when no number is present.
func normalizePrice(raw string) string {
	cleaned := strings.ReplaceAll(raw, ",", "")
	return numRegex.FindString(cleaned)
}
