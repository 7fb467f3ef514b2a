package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"expense-bot/internal/bot"
	"expense-bot/internal/config"
	"expense-bot/internal/health"
	"expense-bot/internal/service"
	"expense-bot/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	st, err := store.Open(cfg.DataFile)
	if err != nil {
		log.Fatalf("store: %v", err)
	}

	expenseSvc := service.NewExpenseService(st)
	reportSvc := service.NewReportService(st)

	telegramBot, err := bot.New(cfg.TelegramToken, st, expenseSvc, reportSvc)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	scheduler := service.NewSchedulerService(time.Local)
	if cfg.ReportInterval > 0 {
		if _, err := scheduler.ScheduleInterval(cfg.ReportInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := telegramBot.SendReports(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("reports: %v", err)
			}
		}); err != nil {
			log.Fatalf("schedule reports: %v", err)
		}
	}
	if cfg.BackupInterval > 0 {
		if _, err := scheduler.ScheduleInterval(cfg.BackupInterval, func() {
			path, err := st.Snapshot(cfg.BackupDir)
			if err != nil {
				log.Printf("snapshot: %v", err)
				return
			}
			log.Printf("[info] document snapshot written to %s", path)
		}); err != nil {
			log.Fatalf("schedule snapshots: %v", err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return telegramBot.Start(gctx)
	})
	g.Go(func() error {
		return health.NewServer(cfg.Port).Run(gctx)
	})

	log.Println("Expense tracker bot started.")
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
