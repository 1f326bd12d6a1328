package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"trade-gate/internal/bot"
	"trade-gate/internal/checklist"
	"trade-gate/internal/config"
	"trade-gate/internal/engine"
	"trade-gate/internal/handler"
	"trade-gate/internal/ledger"
	"trade-gate/internal/logger"
	"trade-gate/internal/middleware"
	"trade-gate/internal/quota"
	"trade-gate/internal/reminder"
	"trade-gate/internal/service"
	"trade-gate/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)
	loc := cfg.Location()

	def, err := checklist.FromConfig(cfg.Checklist)
	if err != nil {
		slog.Error("bad checklist config", "err", err)
		os.Exit(1)
	}
	mistakes := checklist.NewMistakeSet(cfg.Checklist.MistakeCodes)

	led, err := openLedger(cfg)
	if err != nil {
		slog.Error("ledger init failed", "err", err)
		os.Exit(1)
	}
	defer led.Close()

	journal := service.NewJournal(led, def.Len())
	sessions := session.NewStore()
	sessions.StartSweeper(cfg.Session.TTL())
	tracker := quota.NewTracker(cfg.Quota.MaxPerDay, loc)
	eng := engine.New(def, mistakes, sessions, tracker, journal, loc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telegram.Token == "" {
		slog.Warn("telegram token not set, poller disabled")
	} else {
		tg := bot.NewClient(cfg.Telegram.Token, cfg.Telegram.PollTimeout)
		go tg.Poll(ctx, eng)
		slog.Info("telegram poller started")

		if cfg.Reminder.Enabled {
			sched, err := reminder.New(cfg.Reminder.Spec, cfg.Reminder.Text, loc, tg, eng)
			if err != nil {
				slog.Error("bad reminder spec", "spec", cfg.Reminder.Spec, "err", err)
				os.Exit(1)
			}
			sched.Start()
			defer sched.Stop()
			slog.Info("reminder scheduled", "spec", cfg.Reminder.Spec)
		}
	}

	adminH := handler.NewAdminHandler(cfg.Admin, led, eng, tracker)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/health", adminH.Health)
	r.POST("/api/login", adminH.Login)
	api := r.Group("/api", middleware.JWTAuth([]byte(cfg.Admin.JWTSecret)))
	api.GET("/stats/mistakes", adminH.MistakeStats)
	api.GET("/sessions/active", adminH.ActiveSessions)
	api.GET("/quota/:user", adminH.Quota)

	slog.Info("server starting", "addr", cfg.Addr(), "questions", def.Len(),
		"threshold", def.PassThreshold(), "ledger", cfg.Ledger.Backend)
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}

func openLedger(cfg *config.Config) (ledger.Ledger, error) {
	switch cfg.Ledger.Backend {
	case "mysql":
		db, err := cfg.OpenGormDB()
		if err != nil {
			return nil, err
		}
		return ledger.OpenMySQL(db)
	default:
		return ledger.OpenExcel(cfg.Ledger.ExcelPath)
	}
}
