// Package main - точка входа Telegram-бота Challenge Hub.
//
// Бот ведёт сообщество ежедневных челленджей: публикует задание дня,
// начисляет XP и серии за выполнения и принимает предложения участников.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries)
// - Infrastructure: репозитории, внешние API, планировщик
// - Interface: Telegram Bot handlers, HTTP endpoints
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/challenge-hub/challenge-hub-bot/config"

	// Application layer
	"github.com/challenge-hub/challenge-hub-bot/internal/application/command"
	"github.com/challenge-hub/challenge-hub-bot/internal/application/eventhandler"
	"github.com/challenge-hub/challenge-hub-bot/internal/application/query"

	// Domain layer
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/progress"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"

	// Infrastructure layer
	"github.com/challenge-hub/challenge-hub-bot/internal/infrastructure/external/genai"
	"github.com/challenge-hub/challenge-hub-bot/internal/infrastructure/external/telegram"
	"github.com/challenge-hub/challenge-hub-bot/internal/infrastructure/messaging"
	"github.com/challenge-hub/challenge-hub-bot/internal/infrastructure/persistence/postgres"
	"github.com/challenge-hub/challenge-hub-bot/internal/infrastructure/persistence/redis"
	"github.com/challenge-hub/challenge-hub-bot/internal/infrastructure/scheduler"
	"github.com/challenge-hub/challenge-hub-bot/internal/infrastructure/scheduler/jobs"

	// Interface layer
	httpserver "github.com/challenge-hub/challenge-hub-bot/internal/interface/http"
	tgbot "github.com/challenge-hub/challenge-hub-bot/internal/interface/telegram"
	"github.com/challenge-hub/challenge-hub-bot/internal/interface/telegram/middleware"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	// .env удобен в разработке, в production переменные приходят из окружения
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx, cancel); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cancel context.CancelFunc) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting Challenge Hub Bot",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"timezone", cfg.App.Timezone,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnection(ctx, cfg.Database.URL, postgres.Config{
		MaxConns:          int32(cfg.Database.MaxConns),
		MinConns:          int32(cfg.Database.MinConns),
		MaxConnLifetime:   cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime:   cfg.Database.ConnMaxIdleTime,
		HealthCheckPeriod: cfg.Database.HealthCheckPeriod,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ЗАПУСК МИГРАЦИЙ
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Database.Migrate {
		log.Info("running database migrations...")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("migrations completed", "total", len(postgres.GetMigrations()))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache
	var leaderboardCache progress.LeaderboardCache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCache, err = redis.NewCache(redis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			// Лидерборд тогда читается напрямую из PostgreSQL
			log.Warn("failed to connect to Redis, leaderboard caching disabled", "error", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
			leaderboardCache = redis.NewLeaderboardCache(redisCache)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	progressRepo := postgres.NewProgressRepository(dbConn)
	suggestionRepo := postgres.NewSuggestionRepository(dbConn)
	routingRepo := postgres.NewConfigRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ИНИЦИАЛИЗАЦИЯ EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	eventBusConfig := messaging.DefaultInMemoryEventBusConfig()
	eventBusConfig.Logger = log
	eventBus := messaging.NewInMemoryEventBus(eventBusConfig)
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 8. ИНИЦИАЛИЗАЦИЯ ВНЕШНИХ КЛИЕНТОВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing external clients...")

	// Telegram Bot API
	tgConfig := telegram.DefaultClientConfig(cfg.Telegram.Token)
	tgConfig.Logger = log
	tgConfig.Debug = cfg.Telegram.Debug
	tgClient := telegram.NewClient(tgConfig)
	sender := &htmlSender{client: tgClient}

	// Генерация челленджей (fallback, когда нет одобренных предложений)
	genaiConfig := genai.DefaultClientConfig(cfg.GenAI.BaseURL, cfg.GenAI.APIKey)
	genaiConfig.Model = cfg.GenAI.Model
	genaiConfig.Timeout = cfg.GenAI.RequestTimeout
	genaiConfig.RateLimiterConfig.RequestsPerSecond = cfg.GenAI.RateLimit
	genaiConfig.RateLimiterConfig.BurstSize = cfg.GenAI.RateLimitBurst
	genaiConfig.CircuitBreakerConfig.FailureThreshold = cfg.GenAI.CircuitBreakerThreshold
	genaiConfig.CircuitBreakerConfig.Timeout = cfg.GenAI.CircuitBreakerTimeout
	genaiConfig.Logger = log
	genaiClient := genai.NewClient(genaiConfig)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. ИНИЦИАЛИЗАЦИЯ APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	recordCompletionCmd := command.NewRecordCompletionHandler(progressRepo, eventBus,
		command.RecordCompletionHandlerConfig{Location: cfg.App.Location})
	recordXPCmd := command.NewRecordXPHandler(progressRepo, eventBus)
	submitSuggestionCmd := command.NewSubmitSuggestionHandler(suggestionRepo, routingRepo, eventBus)
	approveSuggestionCmd := command.NewApproveSuggestionHandler(suggestionRepo, eventBus)
	setupChannelsCmd := command.NewSetupChannelsHandler(routingRepo, eventBus)

	profileQuery := query.NewGetProfileHandler(progressRepo,
		query.GetProfileHandlerConfig{Location: cfg.App.Location})
	leaderboardQuery := query.NewGetLeaderboardHandler(progressRepo, leaderboardCache, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 10. РЕГИСТРАЦИЯ EVENT HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("registering event handlers...")

	suggestionAnnouncer := eventhandler.NewOnSuggestionSubmittedHandler(routingRepo, sender, log)
	if err := eventBus.Subscribe(shared.EventSuggestionSubmitted, suggestionAnnouncer.Handle); err != nil {
		return fmt.Errorf("failed to subscribe suggestion handler: %w", err)
	}

	if leaderboardCache != nil {
		invalidator := eventhandler.NewOnCompletionRecordedHandler(leaderboardCache, log)
		for _, eventType := range []shared.EventType{shared.EventCompletionRecorded, shared.EventXPGained} {
			if err := eventBus.Subscribe(eventType, invalidator.Handle); err != nil {
				return fmt.Errorf("failed to subscribe cache invalidator: %w", err)
			}
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 11. СОЗДАНИЕ TELEGRAM BOT
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing Telegram bot...")

	registry := prometheus.NewRegistry()

	botConfig := tgbot.DefaultBotConfig()
	botConfig.AdminIDs = cfg.Telegram.AdminIDs
	botConfig.HandlerTimeout = cfg.Telegram.HandlerTimeout
	botConfig.RateLimit.RequestsPerMinute = cfg.Telegram.UserRateLimit
	botConfig.RateLimit.BurstSize = cfg.Telegram.UserRateLimitBurst
	botConfig.Debug = cfg.App.Debug
	botConfig.Logger = log

	bot, err := tgbot.NewBot(botConfig, tgClient, tgbot.BotDependencies{
		RecordCompletionCmd:  recordCompletionCmd,
		SubmitSuggestionCmd:  submitSuggestionCmd,
		ApproveSuggestionCmd: approveSuggestionCmd,
		SetupChannelsCmd:     setupChannelsCmd,
		ProfileQuery:         profileQuery,
		LeaderboardQuery:     leaderboardQuery,
		SuggestionRepo:       suggestionRepo,
		Generator:            genaiClient,
		Metrics:              middleware.NewMetrics(registry),
	})
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 12. СОЗДАНИЕ ПЛАНИРОВЩИКА (задание дня)
	// ─────────────────────────────────────────────────────────────────────────
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		log.Info("initializing scheduler...",
			"daily_post_hour", cfg.Scheduler.DailyPostHour,
			"daily_post_minute", cfg.Scheduler.DailyPostMinute,
		)

		sched = scheduler.NewScheduler(scheduler.SchedulerConfig{
			Logger:   log,
			Timezone: cfg.App.Location,
		})

		dailyJob := jobs.NewPostDailyChallengeJob(
			suggestionRepo,
			genaiClient,
			routingRepo,
			sender,
			eventBus,
			log,
			jobs.PostDailyChallengeConfig{Timeout: cfg.Scheduler.JobTimeout},
		)

		var dailySchedule scheduler.Schedule
		if cfg.Scheduler.DailyPostCron != "" {
			dailySchedule, err = scheduler.ParseCron(cfg.Scheduler.DailyPostCron, cfg.App.Location)
			if err != nil {
				return fmt.Errorf("invalid DAILY_POST_CRON: %w", err)
			}
		} else {
			dailySchedule = scheduler.NewDailySchedule(
				cfg.Scheduler.DailyPostHour,
				cfg.Scheduler.DailyPostMinute,
				cfg.App.Location,
			)
		}

		if err := sched.Register(dailyJob, dailySchedule); err != nil {
			return fmt.Errorf("failed to register daily job: %w", err)
		}
	} else {
		log.Warn("scheduler disabled, daily challenges will not be posted")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 13. СОЗДАНИЕ HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.AdminTokenHash = cfg.HTTP.AdminTokenHash
	httpConfig.EnableMetrics = cfg.HTTP.MetricsEnabled

	readinessChecks := []httpserver.ReadinessCheck{
		{Name: "postgres", Pinger: dbConn},
	}
	if redisCache != nil {
		readinessChecks = append(readinessChecks, httpserver.ReadinessCheck{Name: "redis", Pinger: redisCache})
	}

	httpServer := httpserver.NewServer(httpConfig, httpserver.Dependencies{
		LeaderboardQuery:     leaderboardQuery,
		ApproveSuggestionCmd: approveSuggestionCmd,
		RecordXPCmd:          recordXPCmd,
		SuggestionRepo:       suggestionRepo,
		ReadinessChecks:      readinessChecks,
		Logger:               log,
		Registry:             registry,
	})

	// ─────────────────────────────────────────────────────────────────────────
	// 14. ЗАПУСК СЕРВИСОВ
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 2)

	go func() {
		if err := httpServer.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	go func() {
		if err := bot.Start(ctx); err != nil && ctx.Err() == nil {
			errCh <- fmt.Errorf("telegram bot error: %w", err)
		}
	}()

	if sched != nil {
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	}

	log.Info("Challenge Hub Bot is running", "http_address", httpConfig.Address())

	// ─────────────────────────────────────────────────────────────────────────
	// 15. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		log.Error("service error", "error", err)
		cancel()
		return err
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	// Останавливаем polling и планировщик
	cancel()

	if sched != nil {
		if err := sched.Stop(); err != nil {
			log.Warn("failed to stop scheduler gracefully", "error", err)
		}
	}

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("failed to stop HTTP server gracefully", "error", err)
	}

	// Event bus и соединения закрываются через defer

	log.Info("shutdown completed")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger настраивает структурированное логирование.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Observability.LogLevel),
	}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Observability.LogFormat, "text") {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ADAPTERS
// ══════════════════════════════════════════════════════════════════════════════

// htmlSender адаптирует telegram.Client к интерфейсам отправки сообщений
// application-слоя и планировщика.
type htmlSender struct {
	client *telegram.Client
}

func (s *htmlSender) SendHTML(ctx context.Context, chatID int64, html string) error {
	_, err := s.client.SendHTML(ctx, chatID, html)
	return err
}
