package openai

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"review_removal/internal/domain"
)

const defaultSubject = "Request for Removal of Non-Compliant Customer Reviews"

// EmailService drafts removal-request emails for non-compliant reviews.
type EmailService struct {
	c *Client
}

func NewEmailService(c *Client) *EmailService {
	return &EmailService{c: c}
}

func (s *EmailService) ComposeRemediation(ctx context.Context, body, reviewURL, variation, brandName string) (domain.EmailContent, error) {
	user := fmt.Sprintf(
		"Review Body: %s\nReview URL: %s\nASIN: %s\nBrand Name: %s",
		body, reviewURL, variation, brandName,
	)
	raw, err := s.c.complete(ctx, emailPrompt, user, 0.7, 1000)
	if err != nil {
		return domain.EmailContent{}, err
	}
	return parseEmailContent(raw), nil
}

// The model wraps its subject line in a handful of formats; try them from
// most to least specific.
var (
	subjectBacktickRe = regexp.MustCompile("\\*\\*Subject:\\*\\*\\s*\\n?\\s*`([^`]+)`")
	subjectBoldRe     = regexp.MustCompile(`\*\*Subject:\*\*\s*\n\s*([^\n]+)`)
	subjectPlainRe    = regexp.MustCompile(`Subject:\s*\n?\s*([^\n]+)`)

	subjectLineRe = regexp.MustCompile(`(?m)^(\*\*Subject:\*\*|Subject:)[^\n]*\n?`)
	edgeTicksRe   = regexp.MustCompile("^`+|`+$")
)

// parseEmailContent splits a raw completion into subject and HTML body.
func parseEmailContent(raw string) domain.EmailContent {
	// Some completions escape their newlines.
	text := strings.ReplaceAll(raw, `\n`, "\n")

	subject := defaultSubject
	bodyStart := 0
	for _, re := range []*regexp.Regexp{subjectBacktickRe, subjectBoldRe, subjectPlainRe} {
		if loc := re.FindStringSubmatchIndex(text); loc != nil {
			subject = strings.TrimSpace(text[loc[2]:loc[3]])
			bodyStart = loc[1]
			break
		}
	}

	body := strings.TrimSpace(text[bodyStart:])
	body = subjectLineRe.ReplaceAllString(body, "")
	body = edgeTicksRe.ReplaceAllString(body, "")
	body = strings.TrimLeft(body, "\n")
	body = strings.TrimSpace(body)
	if strings.HasPrefix(body, subject) {
		body = strings.TrimSpace(body[len(subject):])
	}

	return domain.EmailContent{
		Subject: subject,
		Body:    strings.ReplaceAll(body, "\n", "<br>"),
	}
}
