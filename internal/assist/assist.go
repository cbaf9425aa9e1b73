// Package assist produces pitch copy suggestions for buyers drafting a
// bid.  Generation is currently a canned template behind a simulated
// latency; the Service boundary keeps handlers unchanged when a real
// model backend replaces it.
package assist

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultDelay approximates the latency of a hosted generation call so
// client loading states behave realistically.
const DefaultDelay = 1200 * time.Millisecond

// Service generates pitch suggestions.
type Service struct {
	Delay time.Duration
}

// New returns a Service with the default latency.
func New() *Service { return &Service{Delay: DefaultDelay} }

// Request carries what the buyer has filled in so far.
type Request struct {
	ProductName string
	SlotScene   string
	Objective   string
	Tone        string
}

// GeneratePitch returns suggested pitch copy for the request.  The
// context governs the simulated latency, so a cancelled request
// returns immediately.
func (s *Service) GeneratePitch(ctx context.Context, req Request) (string, error) {
	select {
	case <-time.After(s.Delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	product := strings.TrimSpace(req.ProductName)
	if product == "" {
		product = "your product"
	}
	scene := strings.TrimSpace(req.SlotScene)
	if scene == "" {
		scene = "the scene"
	}
	tone := strings.ToLower(strings.TrimSpace(req.Tone))
	if tone == "" {
		tone = "natural"
	}

	var angle string
	if req.Objective == "Conversions" {
		angle = fmt.Sprintf("Close with a clear call to action so viewers can find %s right after the scene airs.", product)
	} else {
		angle = fmt.Sprintf("Keep %s visible but unforced so the placement reads as part of the story.", product)
	}

	return fmt.Sprintf(
		"Weave %s into %s with a %s touch: let a character reach for it at a moment that already fits the action, "+
			"keep the brand visible for a beat without breaking pace. %s",
		product, scene, tone, angle), nil
}
