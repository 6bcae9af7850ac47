package services

import (
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// PublishService records marketplace publish submissions.
type PublishService struct{}

// NewPublishService creates a new publish service
func NewPublishService() *PublishService {
	return &PublishService{}
}

// Submit accepts a publish request for the given product title and the
// channels the seller toggled on. Returns the enabled channel names in
// stable alphabetical order.
func (s *PublishService) Submit(title string, channels map[string]bool) []string {
	enabled := make([]string, 0, len(channels))
	for name, on := range channels {
		if on {
			enabled = append(enabled, name)
		}
	}
	sort.Strings(enabled)

	log.Info().
		Str("title", title).
		Str("channels", strings.Join(enabled, ",")).
		Msg("Publish submission received")

	return enabled
}
