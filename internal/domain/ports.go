package domain

import "context"

// SheetStore is the spreadsheet backend. Rows travel as header-keyed maps so
// the store can round-trip columns this service does not know about.
type SheetStore interface {
	ReadAllRows(ctx context.Context, sheetID, sheetName string) ([]map[string]string, error)
	AppendRows(ctx context.Context, sheetID string, rows []map[string]string, sheetName string) error
	// UpdateRowByColumnMatch overwrites only the columns present in partial
	// on the first row whose matchColumn equals matchValue. A missing row is
	// reported via ErrRowNotFound so callers can decide to skip.
	UpdateRowByColumnMatch(ctx context.Context, sheetID, matchColumn, matchValue string, partial map[string]string, sheetName string) error
	CreateSpreadsheet(ctx context.Context, title string, headers []string) (string, error)
}

// DriveStore copies files (used to clone the template sheet per upload).
type DriveStore interface {
	CopyFile(ctx context.Context, fileID, newName string) (string, error)
}

// Classifier returns the compliance verdict for a review body:
// "yes" (compliant) or "no". Ambiguous model output resolves to "yes".
type Classifier interface {
	ClassifyCompliance(ctx context.Context, body string) (string, error)
}

// EmailComposer drafts removal-request email content for a non-compliant
// review. variation arrives already defaulted ("N/A" when empty).
type EmailComposer interface {
	ComposeRemediation(ctx context.Context, body, reviewURL, variation, brandName string) (EmailContent, error)
}

// MailDrafter files a draft in the operator's mailbox.
type MailDrafter interface {
	CreateDraft(ctx context.Context, subject, htmlBody, displayName string) (string, error)
}

// Cache stores small string values (compliance verdicts) with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Pacer spaces out per-record work. Production wiring is a rate.Limiter;
// tests substitute a no-op.
type Pacer interface {
	Wait(ctx context.Context) error
}

// RunRepository persists completed-run summaries.
type RunRepository interface {
	SaveRun(ctx context.Context, r RunRecord) error
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)
}
