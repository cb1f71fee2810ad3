package app

import (
	"context"
	"fmt"

	"review_removal/internal/domain"
)

// CompanyService reads and extends the company directory sheet that feeds
// the brand picker in the UI.
type CompanyService struct {
	store     domain.SheetStore
	sheetID   string
	sheetName string
}

func NewCompanyService(store domain.SheetStore, sheetID, sheetName string) *CompanyService {
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	return &CompanyService{store: store, sheetID: sheetID, sheetName: sheetName}
}

// List returns all companies with a non-empty name. The directory sheet has
// seen a few header spellings over time, so try each.
func (s *CompanyService) List(ctx context.Context) ([]domain.Company, error) {
	rows, err := s.store.ReadAllRows(ctx, s.sheetID, s.sheetName)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Company, 0, len(rows))
	for _, row := range rows {
		name := firstNonEmpty(row["Company Name"], row["Company name"], row["Brand Name"])
		if name == "" {
			continue
		}
		out = append(out, domain.Company{
			Name:    name,
			Website: firstNonEmpty(row["Website"], row["website"]),
		})
	}
	return out, nil
}

func (s *CompanyService) Add(ctx context.Context, name, website string) error {
	if name == "" {
		return fmt.Errorf("%w: company name is required", domain.ErrInvalidInput)
	}
	row := map[string]string{
		"Company Name": name,
		"Website":      website,
	}
	return s.store.AppendRows(ctx, s.sheetID, []map[string]string{row}, s.sheetName)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
