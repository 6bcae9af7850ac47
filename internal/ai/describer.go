// Package ai generates listing copy (title, description, price estimate) from
// an enhanced product photo using a multimodal chat completion provider.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"artisania/internal/imagedata"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

// ErrNotConfigured is returned when no generation provider credentials are
// present. This is an operator error and must surface to the caller, unlike
// transient provider failures which degrade to the placeholder listing.
var ErrNotConfigured = errors.New("generation provider not configured")

// Describer produces a structured listing from a product image.
type Describer struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	log     zerolog.Logger
}

// NewDescriber creates a new describer. Returns nil when no API key is set so
// callers can treat generation as an absent capability.
func NewDescriber(apiKey string) *Describer {
	if apiKey == "" {
		return nil
	}
	model := os.Getenv("OPENAI_VISION_MODEL")
	if model == "" {
		model = openai.GPT4o
	}

	timeout := visionTimeout()
	cfg := openai.DefaultConfig(apiKey)
	if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
		cfg.BaseURL = base
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &Describer{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
		log:     log.With().Str("component", "describer").Logger(),
	}
}

// visionTimeout bounds the provider call so a hung upstream degrades to the
// placeholder listing instead of stalling the request.
func visionTimeout() time.Duration {
	d, err := time.ParseDuration(os.Getenv("OPENAI_TIMEOUT"))
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// Describe sends the image with the listing instruction to the provider and
// parses the response. Provider call failures and garbled responses degrade
// to the placeholder listing; only a missing provider is a hard error.
func (d *Describer) Describe(ctx context.Context, img imagedata.Payload, locale string) (Listing, error) {
	if d == nil || d.client == nil {
		return DefaultListing(), ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	resp, err := d.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: d.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleUser,
					MultiContent: []openai.ChatMessagePart{
						{
							Type: openai.ChatMessagePartTypeText,
							Text: buildListingPrompt(locale),
						},
						{
							Type: openai.ChatMessagePartTypeImageURL,
							ImageURL: &openai.ChatMessageImageURL{
								URL: img.DataURI(),
							},
						},
					},
				},
			},
			MaxTokens:   1000,
			Temperature: 0.3,
		},
	)
	if err != nil {
		d.log.Warn().Err(err).Msg("Vision API call failed, returning placeholder listing")
		return DefaultListing(), nil
	}
	if len(resp.Choices) == 0 {
		d.log.Warn().Msg("Vision API returned no choices, returning placeholder listing")
		return DefaultListing(), nil
	}

	return parseListing(resp.Choices[0].Message.Content), nil
}

func buildListingPrompt(locale string) string {
	prompt := `Analyze this photo of a handmade artisan product and provide:
1. A concise, SEO-friendly product title (max 60 characters)
2. A detailed product description (80-120 words) highlighting its features, craftsmanship, materials, and cultural heritage
3. An estimated market price in Indian Rupees based on comparable handmade artisan products sold online

Consider the type of product (pottery, textile, woodwork, metalwork, jewelry, etc.), the visible quality of the craftsmanship, and the materials used.

Respond with raw JSON only, no markdown and no code fences, with exactly these keys:
{"title": "Product title here", "description": "Detailed description here", "estimatedPrice": "499"}`

	if locale != "" {
		prompt += fmt.Sprintf("\n\nWrite the title and description in %s.", locale)
	}
	return prompt
}
