package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"attendance-bot/internal/bot"
	"attendance-bot/internal/database"
	"attendance-bot/internal/handlers"
	"attendance-bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const restartDelay = 10 * time.Second

func main() {
	_ = godotenv.Load()

	// Logger config from env (LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT)
	loggerConfig := &logger.Config{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", "json"),
		Output: getEnv("LOG_OUTPUT", "stdout"),
	}
	zapLogger, err := logger.New(loggerConfig, logger.DefaultServiceName)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to init logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = zapLogger.Sync() }()
	zap.ReplaceGlobals(zapLogger)

	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" {
		zap.L().Fatal("BOT_TOKEN is required")
	}

	superAdmins, err := bot.ParseIDList(os.Getenv("SUPER_ADMIN_IDS"))
	if err != nil {
		zap.L().Fatal("Invalid SUPER_ADMIN_IDS", zap.Error(err))
	}
	if len(superAdmins) == 0 {
		zap.L().Fatal("SUPER_ADMIN_IDS is required")
	}

	allowedUsers, err := bot.ParseIDList(os.Getenv("ALLOWED_USER_IDS"))
	if err != nil {
		zap.L().Fatal("Invalid ALLOWED_USER_IDS", zap.Error(err))
	}

	access := bot.AccessConfig{
		SuperAdminIDs:  superAdmins,
		AllowedUserIDs: allowedUsers,
	}

	dbConfig := database.Config{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}

	db, err := database.New(dbConfig)
	if err != nil {
		zap.L().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		zap.L().Fatal("Failed to run migrations", zap.Error(err))
	}

	reportTime := getEnv("REPORT_TIME", "09:00")

	// Coarse-grained supervisor: any failure of the dispatch loop restarts
	// it whole after a fixed delay. Nothing in-flight is resumed.
	ctx := context.Background()
	err = retry.Do(ctx, retry.NewConstant(restartDelay), func(ctx context.Context) error {
		if err := run(ctx, botToken, db, access, reportTime); err != nil {
			zap.L().Error("Bot stopped, restarting", zap.Error(err))
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		zap.L().Fatal("Bot terminated", zap.Error(err))
	}
}

func run(ctx context.Context, token string, db *database.DB, access bot.AccessConfig, reportTime string) error {
	b, err := bot.New(token, db, access)
	if err != nil {
		return err
	}

	zap.L().Info("Bot started")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return dispatchUpdates(ctx, b) })
	g.Go(func() error { return runDailyReports(ctx, b, reportTime) })

	return g.Wait()
}

func dispatchUpdates(ctx context.Context, b *bot.Bot) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dispatch loop panic: %v", r)
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.API.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return fmt.Errorf("update channel closed")
			}
			dispatch(b, update)
		}
	}
}

func dispatch(b *bot.Bot, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		msg := update.Message
		switch {
		case len(msg.NewChatMembers) > 0:
			handlers.HandleNewChatMembers(b, msg)
		case msg.IsCommand():
			handlers.HandleCommand(b, msg)
		case msg.Chat.IsPrivate():
			handlers.HandlePrivateMessage(b, msg)
		default:
			handlers.HandleGroupMessage(b, msg)
		}
	case update.CallbackQuery != nil:
		handlers.HandleCallbackQuery(b, update.CallbackQuery)
	}
}

// runDailyReports fires once a day at the configured wall-clock time and
// pushes each group admin the report for their groups.
func runDailyReports(ctx context.Context, b *bot.Bot, at string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("report scheduler panic: %v", r)
		}
	}()

	target, err := time.Parse("15:04", at)
	if err != nil {
		return fmt.Errorf("invalid REPORT_TIME %q: %w", at, err)
	}

	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(),
			target.Hour(), target.Minute(), 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			zap.L().Info("Sending daily reports")
			handlers.SendDailyReports(b)
		}
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
