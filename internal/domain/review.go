package domain

import "time"

// ReviewRecord is one customer review as it lives in the working sheet.
// All fields are strings on the wire; Rating is coerced only when filtering.
type ReviewRecord struct {
	Date      string
	Author    string
	Verified  string
	Helpful   string
	Title     string
	Body      string
	Rating    string
	Images    string
	Videos    string
	URL       string // natural key for dedup; may be empty
	Variation string
	Style     string

	// Result fields written back by the pipeline.
	Compliance string // "" | "yes" | "no"
	Email      string // "" | composed removal-request text
}

// Column names of any sheet this service writes into. The two trailing
// spaces are exact keys in the upstream template; do not trim them.
const (
	ColDate       = "Date"
	ColAuthor     = "Author"
	ColVerified   = "Verified"
	ColHelpful    = "Helpful"
	ColTitle      = "Title"
	ColBody       = "Body"
	ColRating     = "Rating"
	ColImages     = "Images"
	ColVideos     = "Videos"
	ColURL        = "URL"
	ColVariation  = "Variation"
	ColStyle      = "Style"
	ColCompliance = "Comment is correct or not "
	ColEmail      = "email "
)

// TemplateHeaders is the fixed column layout of the template sheet.
func TemplateHeaders() []string {
	return []string{
		ColDate, ColAuthor, ColVerified, ColHelpful, ColTitle, ColBody,
		ColRating, ColImages, ColVideos, ColURL, ColVariation, ColStyle,
		ColCompliance, ColEmail,
	}
}

// SourceKind selects the intake path of a processing request.
type SourceKind string

const (
	SourceLink SourceKind = "link"
	SourceFile SourceKind = "file"
)

// ProcessRequest is the single inbound contract of the pipeline.
type ProcessRequest struct {
	Kind      SourceKind
	URL       string // link flow
	FileName  string // file flow
	FileBytes []byte // file flow
	BrandName string
	RunID     string // assigned by the caller if it pre-subscribed to events
}

// RecordResult is the per-record outcome accumulated during the loop.
type RecordResult struct {
	Title   string
	Verdict string // "yes" | "no" when Err is nil
	Err     error
}

// Summary is the immutable end-of-run report.
type Summary struct {
	TotalReviews    int
	UniqueReviews   int
	LowRatedReviews int
	Processed       int
	NonCompliant    int
	Failed          int
	SheetID         string
	SheetURL        string
}

// EmailContent is a composed removal-request email.
type EmailContent struct {
	Subject string
	Body    string // HTML, <br> line breaks
}

// Company is one row of the company directory sheet.
type Company struct {
	Name    string
	Website string
}

// RunRecord is the persisted trace of one completed run.
type RunRecord struct {
	ID              string
	Brand           string
	SourceKind      string
	SheetID         string
	SheetURL        string
	TotalReviews    int
	UniqueReviews   int
	LowRatedReviews int
	Processed       int
	NonCompliant    int
	Failed          int
	StartedAt       time.Time
	FinishedAt      time.Time
}
