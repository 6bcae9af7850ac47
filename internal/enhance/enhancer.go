// Package enhance turns a raw product photo into the canonical marketplace
// image: background cutout via an external provider, then resize, pad and
// sharpen onto a square white canvas. The whole operation is fail-soft and
// always returns a usable image.
package enhance

import (
	"context"

	"artisania/internal/imagedata"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Result is the outcome of an enhancement run. UsedFallback reports that the
// cutout step could not run and the original image was carried forward; it is
// never an error by itself.
type Result struct {
	Image        imagedata.Payload
	UsedFallback bool
}

// Enhancer orchestrates background removal and normalization.
type Enhancer struct {
	remover BackgroundRemover
	log     zerolog.Logger
}

// NewEnhancer creates a new enhancer. A nil remover disables the cutout step;
// every image then takes the fallback path.
func NewEnhancer(remover BackgroundRemover) *Enhancer {
	return &Enhancer{
		remover: remover,
		log:     log.With().Str("component", "enhancer").Logger(),
	}
}

// Enhance runs the two-step pipeline on a raw image. Provider errors and
// undecodable inputs degrade to the best image available instead of failing.
func (e *Enhancer) Enhance(ctx context.Context, src imagedata.Payload) Result {
	working := src
	usedFallback := false

	if e.remover == nil {
		usedFallback = true
	} else if cut, err := e.remover.RemoveBackground(ctx, src); err != nil {
		e.log.Warn().Err(err).Msg("Background removal failed, continuing with original image")
		usedFallback = true
	} else {
		working = cut
	}

	normalized, err := Normalize(working.Data)
	if err != nil {
		e.log.Warn().Err(err).Msg("Image normalization failed, returning unnormalized image")
		return Result{
			Image:        imagedata.Payload{Data: working.Data, MIME: imagedata.SniffMIME(working.Data)},
			UsedFallback: usedFallback,
		}
	}

	return Result{
		Image:        imagedata.Payload{Data: normalized, MIME: imagedata.MIMEPNG},
		UsedFallback: usedFallback,
	}
}
