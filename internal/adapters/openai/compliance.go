package openai

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"review_removal/internal/adapters/observability"
)

// ComplianceService asks the model for a one-word guideline verdict on a
// review body. Anything the model says that isn't exactly yes/no counts as
// compliant ("yes"), logged but not an error.
type ComplianceService struct {
	c *Client
}

func NewComplianceService(c *Client) *ComplianceService {
	return &ComplianceService{c: c}
}

func (s *ComplianceService) ClassifyCompliance(ctx context.Context, body string) (string, error) {
	raw, err := s.c.complete(ctx, compliancePrompt, body, 0, 10)
	if err != nil {
		return "", err
	}

	verdict := strings.ToLower(strings.TrimSpace(raw))
	switch verdict {
	case "yes", "no":
		observability.ObserveVerdict(verdict)
		return verdict, nil
	}

	log.Warn().Str("response", raw).Msg("unexpected compliance verdict, defaulting to yes")
	observability.ObserveVerdict("ambiguous")
	return "yes", nil
}
