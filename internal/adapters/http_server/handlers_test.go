package httpserver_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	httpserver "review_removal/internal/adapters/http_server"
	"review_removal/internal/app"
	"review_removal/internal/domain"
	"review_removal/internal/progress"
)

// ---- fakes ----

type fakeStore struct {
	mu       sync.Mutex
	rows     map[string][]map[string]string
	readErr  error
	appended map[string][]map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rows:     map[string][]map[string]string{},
		appended: map[string][]map[string]string{},
	}
}

func (f *fakeStore) ReadAllRows(ctx context.Context, sheetID, sheetName string) ([]map[string]string, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[sheetID], nil
}

func (f *fakeStore) AppendRows(ctx context.Context, sheetID string, rows []map[string]string, sheetName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended[sheetID] = append(f.appended[sheetID], rows...)
	return nil
}

func (f *fakeStore) UpdateRowByColumnMatch(ctx context.Context, sheetID, matchColumn, matchValue string, partial map[string]string, sheetName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows[sheetID] {
		if row[matchColumn] == matchValue {
			for k, v := range partial {
				row[k] = v
			}
			return nil
		}
	}
	return fmt.Errorf("%s=%q: %w", matchColumn, matchValue, domain.ErrRowNotFound)
}

func (f *fakeStore) CreateSpreadsheet(ctx context.Context, title string, headers []string) (string, error) {
	return "created", nil
}

type fakeDrive struct{}

func (fakeDrive) CopyFile(ctx context.Context, fileID, newName string) (string, error) {
	return "copy-of-" + fileID, nil
}

type fakeClassifier struct{}

func (fakeClassifier) ClassifyCompliance(ctx context.Context, body string) (string, error) {
	return "yes", nil
}

type fakeComposer struct{}

func (fakeComposer) ComposeRemediation(ctx context.Context, body, reviewURL, variation, brandName string) (domain.EmailContent, error) {
	return domain.EmailContent{Subject: "s", Body: "b"}, nil
}

type fakeDrafter struct{}

func (fakeDrafter) CreateDraft(ctx context.Context, subject, htmlBody, displayName string) (string, error) {
	return "d1", nil
}

type fakeParser struct{}

func (fakeParser) Parse(data []byte, fileName string) ([]domain.ReviewRecord, error) {
	return nil, nil
}

type nopPacer struct{}

func (nopPacer) Wait(ctx context.Context) error { return nil }

type fakeRunRepo struct{ runs []domain.RunRecord }

func (f *fakeRunRepo) SaveRun(ctx context.Context, r domain.RunRecord) error {
	f.runs = append(f.runs, r)
	return nil
}

func (f *fakeRunRepo) ListRuns(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	return f.runs, nil
}

// ---- wiring ----

type env struct {
	store *fakeStore
	reg   *progress.Registry
	srv   *httptest.Server
}

func newEnv(t *testing.T, runs domain.RunRepository) *env {
	t.Helper()
	store := newFakeStore()
	reg := progress.NewRegistry()

	pipe := app.NewPipeline(store, fakeDrive{}, fakeParser{}, fakeClassifier{},
		fakeComposer{}, fakeDrafter{}, runs, reg, nopPacer{}, app.PipelineConfig{
			TemplateSheetID: "template-1",
			TemplateTitle:   "Template",
			ContactEmail:    "cases@example.com",
		})
	companies := app.NewCompanyService(store, "companies-sheet", "")

	server := httpserver.New()
	server.MountHandlers(httpserver.NewHandlers(pipe, companies, runs, reg, 0, 0))

	srv := httptest.NewServer(server.Mux())
	t.Cleanup(srv.Close)
	return &env{store: store, reg: reg, srv: srv}
}

func postWebhook(t *testing.T, e *env, fields map[string]string) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Post(e.srv.URL+"/api/webhook", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, body
}

// ---- tests ----

func TestHealth(t *testing.T) {
	e := newEnv(t, nil)
	resp, err := http.Get(e.srv.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body["status"] != "ok" || body["version"] == "" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestWebhook_LinkSuccess(t *testing.T) {
	e := newEnv(t, nil)
	e.store.rows["sheet-1"] = []map[string]string{
		{domain.ColTitle: "t1", domain.ColBody: "b1", domain.ColRating: "1", domain.ColURL: "u1"},
		{domain.ColTitle: "t2", domain.ColBody: "b2", domain.ColRating: "5", domain.ColURL: "u2"},
	}

	resp, body := postWebhook(t, e, map[string]string{
		"type":      "link",
		"url":       "https://docs.google.com/spreadsheets/d/sheet-1/edit",
		"brandName": "Acme",
		"run":       "run-77",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %v", resp.StatusCode, body)
	}
	if body["runId"] != "run-77" {
		t.Fatalf("runId = %v", body["runId"])
	}
	reset, _ := body["resetUrl"].(string)
	if !strings.Contains(reset, "https://docs.google.com/spreadsheets/d/sheet-1") {
		t.Fatalf("resetUrl = %q", reset)
	}
	stats, _ := body["stats"].(map[string]any)
	if stats["totalReviews"] != float64(2) || stats["lowRatedReviews"] != float64(1) {
		t.Fatalf("stats = %v", stats)
	}
}

func TestWebhook_AssignsRunID(t *testing.T) {
	e := newEnv(t, nil)
	resp, body := postWebhook(t, e, map[string]string{
		"type":      "link",
		"url":       "https://docs.google.com/spreadsheets/d/sheet-1/edit",
		"brandName": "Acme",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %v", resp.StatusCode, body)
	}
	if id, _ := body["runId"].(string); id == "" {
		t.Fatal("server must assign a run id")
	}
}

func TestWebhook_MissingBrand(t *testing.T) {
	e := newEnv(t, nil)
	resp, body := postWebhook(t, e, map[string]string{
		"type": "link",
		"url":  "https://docs.google.com/spreadsheets/d/sheet-1/edit",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d: %v", resp.StatusCode, body)
	}
	if body["error"] == "" {
		t.Fatalf("expected an error message: %v", body)
	}
}

func TestWebhook_PermissionDenied(t *testing.T) {
	e := newEnv(t, nil)
	e.store.readErr = fmt.Errorf("sheets values.get: %w", domain.ErrForbidden)

	resp, body := postWebhook(t, e, map[string]string{
		"type":      "link",
		"url":       "https://docs.google.com/spreadsheets/d/sheet-1/edit",
		"brandName": "Acme",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status %d: %v", resp.StatusCode, body)
	}
	if body["requiresShare"] != true {
		t.Fatalf("requiresShare missing: %v", body)
	}
	if body["shareEmail"] != "cases@example.com" {
		t.Fatalf("shareEmail = %v", body["shareEmail"])
	}
}

func TestCompanies_ListAndAdd(t *testing.T) {
	e := newEnv(t, nil)
	e.store.rows["companies-sheet"] = []map[string]string{
		{"Company Name": "Acme", "Website": "acme.test"},
		{"Company Name": ""}, // filtered out
	}

	resp, err := http.Get(e.srv.URL + "/api/companies")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var listBody struct {
		Success   bool `json:"success"`
		Companies []struct {
			Name    string `json:"name"`
			Website string `json:"website"`
		} `json:"companies"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&listBody)
	if !listBody.Success || len(listBody.Companies) != 1 || listBody.Companies[0].Name != "Acme" {
		t.Fatalf("unexpected list: %+v", listBody)
	}

	addResp, err := http.Post(e.srv.URL+"/api/companies", "application/json",
		strings.NewReader(`{"companyName":"Beta","website":"beta.test"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer addResp.Body.Close()
	if addResp.StatusCode != http.StatusOK {
		t.Fatalf("add status %d", addResp.StatusCode)
	}
	if got := len(e.store.appended["companies-sheet"]); got != 1 {
		t.Fatalf("expected 1 appended row, got %d", got)
	}
}

func TestCompanies_AddRequiresName(t *testing.T) {
	e := newEnv(t, nil)
	resp, err := http.Post(e.srv.URL+"/api/companies", "application/json",
		strings.NewReader(`{"website":"x.test"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestRuns_NotConfigured(t *testing.T) {
	e := newEnv(t, nil)
	resp, err := http.Get(e.srv.URL + "/api/runs")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestRuns_List(t *testing.T) {
	repo := &fakeRunRepo{runs: []domain.RunRecord{{ID: "r1", Brand: "Acme"}}}
	e := newEnv(t, repo)

	resp, err := http.Get(e.srv.URL + "/api/runs")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body struct {
		Runs []struct {
			ID    string `json:"id"`
			Brand string `json:"brand"`
		} `json:"runs"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if len(body.Runs) != 1 || body.Runs[0].ID != "r1" {
		t.Fatalf("unexpected runs: %+v", body)
	}
}

func TestEvents_StreamsAndClosesOnRelease(t *testing.T) {
	e := newEnv(t, nil)
	e.reg.Open("run-sse")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, e.srv.URL+"/api/events?run=run-sse", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type %q", ct)
	}

	// Publish until the subscriber is attached and has read one frame.
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				e.reg.Publish("run-sse", progress.Event{Message: "working", Type: progress.SeverityInfo})
			}
		}
	}()

	scanner := bufio.NewScanner(resp.Body)
	var frame string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			frame = strings.TrimPrefix(line, "data: ")
			break
		}
	}
	close(done)
	if frame == "" {
		t.Fatalf("no data frame received: %v", scanner.Err())
	}
	var ev progress.Event
	if err := json.Unmarshal([]byte(frame), &ev); err != nil {
		t.Fatalf("frame is not an event: %v", err)
	}
	if ev.Message != "working" || ev.Type != progress.SeverityInfo {
		t.Fatalf("unexpected event: %+v", ev)
	}

	// Releasing the run closes the subscriber channel and ends the stream.
	e.reg.Release("run-sse")
	for scanner.Scan() {
	}
	if err := scanner.Err(); err != nil && ctx.Err() != nil {
		t.Fatalf("stream did not end cleanly: %v", err)
	}
}
