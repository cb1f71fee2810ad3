package google

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"review_removal/internal/domain"
)

const defaultSheetsBase = "https://sheets.googleapis.com/v4"

// Sheets implements domain.SheetStore against the Google Sheets values API.
type Sheets struct {
	base string
	c    *restClient
}

func NewSheets(ts *TokenSource, rps int) *Sheets {
	return &Sheets{base: defaultSheetsBase, c: newRESTClient("sheets", ts, rps)}
}

// WithBaseURL overrides the API base (tests).
func (s *Sheets) WithBaseURL(base string) *Sheets {
	s.base = base
	return s
}

type valueRange struct {
	Values [][]string `json:"values"`
}

func (s *Sheets) valuesURL(sheetID, rng string) string {
	return fmt.Sprintf("%s/spreadsheets/%s/values/%s", s.base, url.PathEscape(sheetID), url.PathEscape(rng))
}

func (s *Sheets) getValues(ctx context.Context, sheetID, rng, endpoint string) ([][]string, error) {
	var out valueRange
	if err := s.c.do(ctx, http.MethodGet, s.valuesURL(sheetID, rng), endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out.Values, nil
}

func (s *Sheets) headers(ctx context.Context, sheetID, sheetName string) ([]string, error) {
	vals, err := s.getValues(ctx, sheetID, sheetName+"!1:1", "values.get")
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, nil
	}
	return vals[0], nil
}

// ReadAllRows returns every data row keyed by the header row. Short rows
// pad missing cells with "".
func (s *Sheets) ReadAllRows(ctx context.Context, sheetID, sheetName string) ([]map[string]string, error) {
	headers, err := s.headers(ctx, sheetID, sheetName)
	if err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		return nil, nil
	}

	rows, err := s.getValues(ctx, sheetID, sheetName+"!2:10000", "values.get")
	if err != nil {
		return nil, err
	}

	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		m := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				m[h] = row[i]
			} else {
				m[h] = ""
			}
		}
		out = append(out, m)
	}
	return out, nil
}

// AppendRows appends header-keyed rows in header order.
func (s *Sheets) AppendRows(ctx context.Context, sheetID string, rows []map[string]string, sheetName string) error {
	if len(rows) == 0 {
		return nil
	}
	headers, err := s.headers(ctx, sheetID, sheetName)
	if err != nil {
		return err
	}
	if len(headers) == 0 {
		return fmt.Errorf("sheets: %s has no header row", sheetID)
	}

	values := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := make([]string, len(headers))
		for i, h := range headers {
			line[i] = row[h]
		}
		values = append(values, line)
	}

	u := s.valuesURL(sheetID, sheetName+"!A:Z") + ":append?valueInputOption=USER_ENTERED"
	return s.c.do(ctx, http.MethodPost, u, "values.append", valueRange{Values: values}, nil)
}

// UpdateRowByColumnMatch overwrites only the columns present in partial on
// the first row whose matchColumn equals matchValue.
func (s *Sheets) UpdateRowByColumnMatch(ctx context.Context, sheetID, matchColumn, matchValue string, partial map[string]string, sheetName string) error {
	headers, err := s.headers(ctx, sheetID, sheetName)
	if err != nil {
		return err
	}
	matchIdx := -1
	for i, h := range headers {
		if h == matchColumn {
			matchIdx = i
			break
		}
	}
	if matchIdx == -1 {
		return fmt.Errorf("sheets: column %q not found in %s", matchColumn, sheetID)
	}

	all, err := s.getValues(ctx, sheetID, sheetName+"!A:Z", "values.get")
	if err != nil {
		return err
	}

	rowIdx := -1
	for i := 1; i < len(all); i++ {
		if matchIdx < len(all[i]) && all[i][matchIdx] == matchValue {
			rowIdx = i
			break
		}
	}
	if rowIdx == -1 {
		return fmt.Errorf("sheets: %s=%q in %s: %w", matchColumn, matchValue, sheetID, domain.ErrRowNotFound)
	}

	current := all[rowIdx]
	updated := make([]string, len(headers))
	for i, h := range headers {
		if v, ok := partial[h]; ok {
			updated[i] = v
		} else if i < len(current) {
			updated[i] = current[i]
		}
	}

	rng := fmt.Sprintf("%s!A%d:%c%d", sheetName, rowIdx+1, rune('A'+len(headers)-1), rowIdx+1)
	u := s.valuesURL(sheetID, rng) + "?valueInputOption=USER_ENTERED"
	return s.c.do(ctx, http.MethodPut, u, "values.update", valueRange{Values: [][]string{updated}}, nil)
}

// CreateSpreadsheet creates an empty spreadsheet and writes the header row.
func (s *Sheets) CreateSpreadsheet(ctx context.Context, title string, headers []string) (string, error) {
	body := map[string]any{"properties": map[string]any{"title": title}}
	var created struct {
		SpreadsheetID string `json:"spreadsheetId"`
	}
	if err := s.c.do(ctx, http.MethodPost, s.base+"/spreadsheets", "spreadsheets.create", body, &created); err != nil {
		return "", err
	}
	if created.SpreadsheetID == "" {
		return "", fmt.Errorf("sheets: create returned no spreadsheet id")
	}

	u := s.valuesURL(created.SpreadsheetID, "Sheet1!A1") + "?valueInputOption=RAW"
	if err := s.c.do(ctx, http.MethodPut, u, "values.update", valueRange{Values: [][]string{headers}}, nil); err != nil {
		return "", err
	}
	return created.SpreadsheetID, nil
}
