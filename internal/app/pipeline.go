package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"review_removal/internal/domain"
	"review_removal/internal/progress"
)

// ProgressPublisher is the outbound progress contract; *progress.Registry
// satisfies it in production.
type ProgressPublisher interface {
	Publish(runID string, ev progress.Event)
}

// UploadParser decodes an uploaded spreadsheet into records.
type UploadParser interface {
	Parse(data []byte, fileName string) ([]domain.ReviewRecord, error)
}

// PipelineConfig carries the fixed collaborator knobs of a deployment.
type PipelineConfig struct {
	TemplateSheetID string
	TemplateTitle   string
	SheetName       string // tab name, "Sheet1" upstream
	ContactEmail    string // share-with address surfaced on permission errors
}

// Pipeline drives one processing run end to end: resolve source, dedupe,
// filter, classify each low-rated review, draft removal emails for
// violations, and write results back into the sheet.
type Pipeline struct {
	store      domain.SheetStore
	drive      domain.DriveStore
	parser     UploadParser
	classifier domain.Classifier
	composer   domain.EmailComposer
	drafter    domain.MailDrafter
	runs       domain.RunRepository // optional
	events     ProgressPublisher
	pacer      domain.Pacer
	cfg        PipelineConfig
}

func NewPipeline(
	store domain.SheetStore,
	drive domain.DriveStore,
	parser UploadParser,
	classifier domain.Classifier,
	composer domain.EmailComposer,
	drafter domain.MailDrafter,
	runs domain.RunRepository,
	events ProgressPublisher,
	pacer domain.Pacer,
	cfg PipelineConfig,
) *Pipeline {
	if cfg.SheetName == "" {
		cfg.SheetName = "Sheet1"
	}
	return &Pipeline{
		store: store, drive: drive, parser: parser,
		classifier: classifier, composer: composer, drafter: drafter,
		runs: runs, events: events, pacer: pacer, cfg: cfg,
	}
}

var uploadExtRe = regexp.MustCompile(`(?i)\.(xlsx|xls|csv)$`)

// Run executes one request. Failures before the per-record loop are fatal
// for the request; failures inside it are recovered per record. A summary
// is returned only for runs that reached the end of the loop.
func (p *Pipeline) Run(ctx context.Context, req domain.ProcessRequest) (domain.Summary, error) {
	started := time.Now().UTC()

	if req.BrandName == "" {
		return domain.Summary{}, fmt.Errorf("%w: brand name is required", domain.ErrInvalidInput)
	}

	var (
		sheetID string
		records []domain.ReviewRecord
		err     error
	)
	switch req.Kind {
	case domain.SourceLink:
		sheetID, records, err = p.resolveLink(ctx, req)
	case domain.SourceFile:
		sheetID, records, err = p.resolveFile(ctx, req)
	default:
		err = fmt.Errorf("%w: must provide either a sheet link or a file", domain.ErrInvalidInput)
	}
	if err != nil {
		return domain.Summary{}, err
	}

	unique := DedupeByURL(records)
	lowRated := FilterLowRated(unique, LowRatingThreshold)
	p.emit(req.RunID, fmt.Sprintf("Found %d low-rated reviews (<=3 stars) to process", len(lowRated)), progress.SeverityInfo)

	sum := domain.Summary{
		TotalReviews:    len(records),
		UniqueReviews:   len(unique),
		LowRatedReviews: len(lowRated),
		SheetID:         sheetID,
		SheetURL:        sheetURL(sheetID),
	}

	for i, rec := range lowRated {
		sum.Processed++
		p.emit(req.RunID,
			fmt.Sprintf("Processing review %d/%d: %q", i+1, len(lowRated), truncate(rec.Title, 30)),
			progress.SeverityInfo)

		verdict, perr := p.processRecord(ctx, req, sheetID, rec)
		if perr != nil {
			sum.Failed++
			log.Error().Err(perr).Str("run", req.RunID).Str("title", rec.Title).Msg("record processing failed")
			p.emit(req.RunID, "Error processing review: "+perr.Error(), progress.SeverityError)
		} else if verdict == "no" {
			sum.NonCompliant++
		}

		// Pace before the next record to stay under the classifier's limits.
		if err := p.pacer.Wait(ctx); err != nil {
			return domain.Summary{}, err
		}
	}

	p.emit(req.RunID, fmt.Sprintf("Processing complete! %d reviews analyzed.", sum.Processed), progress.SeveritySuccess)
	p.emit(req.RunID, "Final Sheet: "+sum.SheetURL, progress.SeveritySuccess)

	p.saveRun(ctx, req, sum, started)
	return sum, nil
}

func (p *Pipeline) resolveLink(ctx context.Context, req domain.ProcessRequest) (string, []domain.ReviewRecord, error) {
	if req.URL == "" {
		return "", nil, fmt.Errorf("%w: missing sheet url", domain.ErrInvalidInput)
	}
	p.emit(req.RunID, "Processing sheet URL...", progress.SeverityInfo)
	sheetID := ExtractSheetID(req.URL)
	if sheetID == "" {
		return "", nil, fmt.Errorf("%w: could not extract a sheet id from %q", domain.ErrInvalidInput, req.URL)
	}
	p.emit(req.RunID, "Reading data from sheet...", progress.SeverityInfo)
	rows, err := p.store.ReadAllRows(ctx, sheetID, p.cfg.SheetName)
	if err != nil {
		if IsPermissionDenied(err) {
			return "", nil, &domain.PermissionRequiredError{ContactEmail: p.cfg.ContactEmail, Err: err}
		}
		return "", nil, fmt.Errorf("read sheet %s: %w", sheetID, err)
	}
	return sheetID, RecordsFromRows(rows), nil
}

func (p *Pipeline) resolveFile(ctx context.Context, req domain.ProcessRequest) (string, []domain.ReviewRecord, error) {
	if len(req.FileBytes) == 0 {
		return "", nil, fmt.Errorf("%w: missing uploaded file", domain.ErrInvalidInput)
	}
	p.emit(req.RunID, "Processing uploaded file: "+req.FileName, progress.SeverityInfo)
	records, err := p.parser.Parse(req.FileBytes, req.FileName)
	if err != nil {
		return "", nil, err
	}
	p.emit(req.RunID, fmt.Sprintf("Parsed %d rows from file", len(records)), progress.SeveritySuccess)

	p.emit(req.RunID, "Creating new sheet from template...", progress.SeverityInfo)
	name := uploadExtRe.ReplaceAllString(req.FileName, "")
	sheetID, err := p.copyTemplate(ctx, req.RunID, name)
	if err != nil {
		return "", nil, err
	}
	p.emit(req.RunID, "Created new sheet: "+sheetID, progress.SeveritySuccess)

	p.emit(req.RunID, "Uploading data to sheet...", progress.SeverityInfo)
	if err := p.store.AppendRows(ctx, sheetID, RowsFromRecords(records), p.cfg.SheetName); err != nil {
		return "", nil, fmt.Errorf("append rows to %s: %w", sheetID, err)
	}
	return sheetID, records, nil
}

// copyTemplate clones the template sheet. A missing template is self-healed:
// build a fresh one with the canonical headers and copy that instead.
func (p *Pipeline) copyTemplate(ctx context.Context, runID, name string) (string, error) {
	sheetID, err := p.drive.CopyFile(ctx, p.cfg.TemplateSheetID, name)
	if err == nil {
		return sheetID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("copy template %s: %w", p.cfg.TemplateSheetID, err)
	}

	log.Warn().Str("template", p.cfg.TemplateSheetID).Msg("template sheet missing, creating a fresh one")
	p.emit(runID, "Template sheet missing, creating a fresh one...", progress.SeverityInfo)
	freshID, cerr := p.store.CreateSpreadsheet(ctx, p.cfg.TemplateTitle, domain.TemplateHeaders())
	if cerr != nil {
		return "", fmt.Errorf("create replacement template: %w", cerr)
	}
	log.Info().Str("template", freshID).Msg("replacement template created; update GOOGLE_TEMPLATE_SHEET_ID")

	sheetID, err = p.drive.CopyFile(ctx, freshID, name)
	if err != nil {
		return "", fmt.Errorf("copy replacement template %s: %w", freshID, err)
	}
	return sheetID, nil
}

// processRecord runs classify → write verdict → (maybe) draft + write email
// for a single review. Its error is recoverable at the run level.
func (p *Pipeline) processRecord(ctx context.Context, req domain.ProcessRequest, sheetID string, rec domain.ReviewRecord) (string, error) {
	verdict, err := p.classifier.ClassifyCompliance(ctx, rec.Body)
	if err != nil {
		return "", fmt.Errorf("classify: %w", err)
	}

	if err := p.updateByTitle(ctx, sheetID, rec.Title, map[string]string{domain.ColCompliance: verdict}); err != nil {
		return verdict, fmt.Errorf("write verdict: %w", err)
	}

	if verdict != "no" {
		return verdict, nil
	}

	p.emit(req.RunID, "Non-compliant review found. Generating removal request email...", progress.SeverityInfo)
	variation := rec.Variation
	if variation == "" {
		variation = "N/A"
	}
	email, err := p.composer.ComposeRemediation(ctx, rec.Body, rec.URL, variation, req.BrandName)
	if err != nil {
		return verdict, fmt.Errorf("compose email: %w", err)
	}

	p.emit(req.RunID, "Creating mail draft for: "+req.BrandName+"...", progress.SeverityInfo)
	if _, err := p.drafter.CreateDraft(ctx, email.Subject, email.Body, req.BrandName); err != nil {
		return verdict, fmt.Errorf("create draft: %w", err)
	}
	p.emit(req.RunID, "Mail draft created successfully", progress.SeveritySuccess)

	emailText := "Subject: " + email.Subject + "\n\n" + strings.ReplaceAll(email.Body, "<br>", "\n")
	if err := p.updateByTitle(ctx, sheetID, rec.Title, map[string]string{domain.ColEmail: emailText}); err != nil {
		return verdict, fmt.Errorf("write email: %w", err)
	}
	return verdict, nil
}

// updateByTitle writes partial into the first row matching title. Empty
// titles are unmatchable (a blind write would clobber some other row) and a
// missing row is a skip; both just log. Real store failures propagate and
// count against the record.
func (p *Pipeline) updateByTitle(ctx context.Context, sheetID, title string, partial map[string]string) error {
	if title == "" {
		log.Warn().Str("sheet", sheetID).Msg("record has no title, skipping write-back")
		return nil
	}
	err := p.store.UpdateRowByColumnMatch(ctx, sheetID, domain.ColTitle, title, partial, p.cfg.SheetName)
	if errors.Is(err, domain.ErrRowNotFound) {
		log.Warn().Str("sheet", sheetID).Str("title", title).Msg("no row matched title, skipping write-back")
		return nil
	}
	return err
}

func (p *Pipeline) saveRun(ctx context.Context, req domain.ProcessRequest, sum domain.Summary, started time.Time) {
	if p.runs == nil {
		return
	}
	rec := domain.RunRecord{
		ID:              req.RunID,
		Brand:           req.BrandName,
		SourceKind:      string(req.Kind),
		SheetID:         sum.SheetID,
		SheetURL:        sum.SheetURL,
		TotalReviews:    sum.TotalReviews,
		UniqueReviews:   sum.UniqueReviews,
		LowRatedReviews: sum.LowRatedReviews,
		Processed:       sum.Processed,
		NonCompliant:    sum.NonCompliant,
		Failed:          sum.Failed,
		StartedAt:       started,
		FinishedAt:      time.Now().UTC(),
	}
	if err := p.runs.SaveRun(ctx, rec); err != nil {
		log.Error().Err(err).Str("run", req.RunID).Msg("save run history failed")
	}
}

func (p *Pipeline) emit(runID, message string, sev progress.Severity) {
	p.events.Publish(runID, progress.Event{Message: message, Type: sev})
}

func sheetURL(id string) string {
	return "https://docs.google.com/spreadsheets/d/" + id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
