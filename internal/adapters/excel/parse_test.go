package excel

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"review_removal/internal/domain"
)

func buildWorkbook(t *testing.T, rows [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestParse_Workbook(t *testing.T) {
	data := buildWorkbook(t, [][]string{
		{domain.ColTitle, domain.ColBody, domain.ColRating, domain.ColURL, "Extra"},
		{"t1", "b1", "2", "u1", "ignored"},
		{"t2", "b2", "5", "u2", "ignored"},
	})

	got, err := New().Parse(data, "reviews.xlsx")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Title != "t1" || got[0].Rating != "2" || got[0].URL != "u1" {
		t.Fatalf("row 1 mismatch: %+v", got[0])
	}
	// Columns absent from the upload default to empty.
	if got[0].Author != "" || got[0].Variation != "" {
		t.Fatalf("missing columns must default empty: %+v", got[0])
	}
}

func TestParse_ShortRowsPadded(t *testing.T) {
	data := buildWorkbook(t, [][]string{
		{domain.ColTitle, domain.ColBody, domain.ColRating},
		{"only title"},
	})

	got, err := New().Parse(data, "r.xlsx")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0].Title != "only title" || got[0].Rating != "" {
		t.Fatalf("short row not padded: %+v", got)
	}
}

func TestParse_CSV(t *testing.T) {
	csvData := []byte("Title,Body,Rating,URL\n" +
		"t1,\"body, with comma\",1,u1\n")

	got, err := New().Parse(csvData, "Reviews.CSV")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0].Body != "body, with comma" {
		t.Fatalf("csv decode mismatch: %+v", got)
	}
}

func TestParse_Garbage(t *testing.T) {
	_, err := New().Parse([]byte("this is not a workbook"), "junk.xlsx")
	var pe *domain.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.FileName != "junk.xlsx" {
		t.Fatalf("parse error must carry the file name: %+v", pe)
	}
}

func TestParse_EmptyWorkbook(t *testing.T) {
	data := buildWorkbook(t, nil)
	got, err := New().Parse(data, "empty.xlsx")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no records, got %+v", got)
	}
}
