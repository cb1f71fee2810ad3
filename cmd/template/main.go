// Command template creates the review-removal template spreadsheet with the
// canonical 14-column header and prints its id. Run it once per deployment
// and store the id in GOOGLE_TEMPLATE_SHEET_ID.
package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"review_removal/internal/adapters/google"
	"review_removal/internal/adapters/observability"
	"review_removal/internal/domain"
	"review_removal/internal/shared"
)

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ts, err := google.NewTokenSource(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRefreshToken)
	if err != nil {
		log.Fatal().Err(err).Msg("google credentials missing")
	}
	sheets := google.NewSheets(ts, cfg.OutboundRPS)

	id, err := sheets.CreateSpreadsheet(context.Background(), cfg.TemplateTitle, domain.TemplateHeaders())
	if err != nil {
		log.Fatal().Err(err).Msg("create template sheet failed")
	}
	log.Info().
		Str("id", id).
		Str("url", "https://docs.google.com/spreadsheets/d/"+id).
		Msg("template sheet created; set GOOGLE_TEMPLATE_SHEET_ID")
}
