package app

import (
	"review_removal/internal/domain"
)

// RecordFromRow maps one header-keyed sheet row into the fixed record shape.
// Missing columns default to empty string; unknown columns are ignored.
func RecordFromRow(row map[string]string) domain.ReviewRecord {
	return domain.ReviewRecord{
		Date:       row[domain.ColDate],
		Author:     row[domain.ColAuthor],
		Verified:   row[domain.ColVerified],
		Helpful:    row[domain.ColHelpful],
		Title:      row[domain.ColTitle],
		Body:       row[domain.ColBody],
		Rating:     row[domain.ColRating],
		Images:     row[domain.ColImages],
		Videos:     row[domain.ColVideos],
		URL:        row[domain.ColURL],
		Variation:  row[domain.ColVariation],
		Style:      row[domain.ColStyle],
		Compliance: row[domain.ColCompliance],
		Email:      row[domain.ColEmail],
	}
}

// RowFromRecord is the inverse mapping, used when appending parsed uploads
// into a fresh sheet. Result columns are left out; the pipeline writes them
// per row later.
func RowFromRecord(r domain.ReviewRecord) map[string]string {
	return map[string]string{
		domain.ColDate:      r.Date,
		domain.ColAuthor:    r.Author,
		domain.ColVerified:  r.Verified,
		domain.ColHelpful:   r.Helpful,
		domain.ColTitle:     r.Title,
		domain.ColBody:      r.Body,
		domain.ColRating:    r.Rating,
		domain.ColImages:    r.Images,
		domain.ColVideos:    r.Videos,
		domain.ColURL:       r.URL,
		domain.ColVariation: r.Variation,
		domain.ColStyle:     r.Style,
	}
}

// RecordsFromRows maps a full read of the source sheet.
func RecordsFromRows(rows []map[string]string) []domain.ReviewRecord {
	out := make([]domain.ReviewRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, RecordFromRow(row))
	}
	return out
}

// RowsFromRecords maps a parsed upload for appending.
func RowsFromRecords(records []domain.ReviewRecord) []map[string]string {
	out := make([]map[string]string, 0, len(records))
	for _, r := range records {
		out = append(out, RowFromRecord(r))
	}
	return out
}
