package google

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"review_removal/internal/adapters/observability"
)

const defaultGmailBase = "https://gmail.googleapis.com/gmail/v1"

// Gmail implements domain.MailDrafter via the drafts API.
type Gmail struct {
	base      string
	userEmail string // From address; drafts land in this mailbox
	c         *restClient
}

func NewGmail(ts *TokenSource, userEmail string, rps int) *Gmail {
	return &Gmail{base: defaultGmailBase, userEmail: userEmail, c: newRESTClient("gmail", ts, rps)}
}

// WithBaseURL overrides the API base (tests).
func (g *Gmail) WithBaseURL(base string) *Gmail {
	g.base = base
	return g
}

// CreateDraft files an HTML draft with a brand-styled display name on the
// From header and returns the draft id.
func (g *Gmail) CreateDraft(ctx context.Context, subject, htmlBody, displayName string) (string, error) {
	lines := []string{
		"Content-Type: text/html; charset=utf-8",
		"MIME-Version: 1.0",
	}
	if g.userEmail != "" {
		from := g.userEmail
		if displayName != "" {
			from = fmt.Sprintf("%q <%s>", displayName, g.userEmail)
		}
		lines = append(lines, "From: "+from)
	}
	lines = append(lines, "Subject: "+subject, "", htmlBody)
	raw := base64.RawURLEncoding.EncodeToString([]byte(strings.Join(lines, "\r\n")))

	body := map[string]any{"message": map[string]any{"raw": raw}}
	var out struct {
		ID string `json:"id"`
	}
	if err := g.c.do(ctx, http.MethodPost, g.base+"/users/me/drafts", "drafts.create", body, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("gmail: draft create returned no id")
	}
	observability.ObserveDraft()
	return out.ID, nil
}
