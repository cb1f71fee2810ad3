// Package excel decodes uploaded spreadsheets into review records.
package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"review_removal/internal/domain"
)

// Parser reads the first sheet of an uploaded workbook, mapping rows into
// records by header name. Missing columns default to empty string and extra
// columns are ignored; only undecodable content is an error. CSV uploads are
// decoded as UTF-8 text.
type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Parse(data []byte, fileName string) ([]domain.ReviewRecord, error) {
	var rows [][]string
	if strings.HasSuffix(strings.ToLower(fileName), ".csv") {
		rr := csv.NewReader(bytes.NewReader(data))
		rr.FieldsPerRecord = -1
		var err error
		rows, err = rr.ReadAll()
		if err != nil {
			return nil, &domain.ParseError{FileName: fileName, Err: err}
		}
	} else {
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, &domain.ParseError{FileName: fileName, Err: err}
		}
		defer f.Close()

		sheetName := f.GetSheetName(0)
		if sheetName == "" {
			return nil, &domain.ParseError{FileName: fileName, Err: fmt.Errorf("workbook has no sheets")}
		}
		rows, err = f.GetRows(sheetName)
		if err != nil {
			return nil, &domain.ParseError{FileName: fileName, Err: err}
		}
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := rows[0]
	colIdx := make(map[string]int, len(headers))
	for i, h := range headers {
		colIdx[h] = i
	}
	cell := func(row []string, col string) string {
		i, ok := colIdx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	records := make([]domain.ReviewRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, domain.ReviewRecord{
			Date:      cell(row, domain.ColDate),
			Author:    cell(row, domain.ColAuthor),
			Verified:  cell(row, domain.ColVerified),
			Helpful:   cell(row, domain.ColHelpful),
			Title:     cell(row, domain.ColTitle),
			Body:      cell(row, domain.ColBody),
			Rating:    cell(row, domain.ColRating),
			Images:    cell(row, domain.ColImages),
			Videos:    cell(row, domain.ColVideos),
			URL:       cell(row, domain.ColURL),
			Variation: cell(row, domain.ColVariation),
			Style:     cell(row, domain.ColStyle),
		})
	}
	return records, nil
}
