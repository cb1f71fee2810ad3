package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"review_removal/internal/adapters/excel"
	"review_removal/internal/adapters/google"
	server "review_removal/internal/adapters/http_server"
	"review_removal/internal/adapters/observability"
	"review_removal/internal/adapters/openai"
	redisad "review_removal/internal/adapters/redis"
	"review_removal/internal/app"
	"review_removal/internal/domain"
	"review_removal/internal/progress"
	"review_removal/internal/shared"
	mysqlrepo "review_removal/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	ts, err := google.NewTokenSource(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRefreshToken)
	if err != nil {
		log.Fatal().Err(err).Msg("google credentials missing")
	}
	sheets := google.NewSheets(ts, cfg.OutboundRPS)
	drive := google.NewDrive(ts, cfg.DriveFolderID, cfg.OutboundRPS)
	gmail := google.NewGmail(ts, cfg.GmailUserEmail, cfg.OutboundRPS)

	ai := openai.NewClient(cfg.OpenAIKey, openai.WithModel(cfg.OpenAIModel))
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	classifier := app.NewCachedClassifier(openai.NewComplianceService(ai), cache, cfg.VerdictTTL)
	composer := openai.NewEmailService(ai)

	// run history is optional; without a DSN the /api/runs endpoint reports
	// itself unconfigured
	var runs domain.RunRepository
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		runs = mysqlrepo.New(db)
	} else {
		log.Warn().Msg("MYSQL_DSN empty, run history disabled")
	}

	reg := progress.NewRegistry()
	pacer := rate.NewLimiter(rate.Every(cfg.RecordInterval), 1)
	pipe := app.NewPipeline(sheets, drive, excel.New(), classifier, composer, gmail, runs, reg, pacer, app.PipelineConfig{
		TemplateSheetID: cfg.TemplateSheetID,
		TemplateTitle:   cfg.TemplateTitle,
		SheetName:       "Sheet1",
		ContactEmail:    cfg.GmailUserEmail,
	})
	companies := app.NewCompanyService(sheets, cfg.CompanySheetID, "Sheet1")

	srv := server.New()
	promReg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(promReg))
	srv.MountHandlers(server.NewHandlers(pipe, companies, runs, reg, cfg.MaxUploadBytes, cfg.MaxConcurrent))

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
