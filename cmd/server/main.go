// cmd/server/main.go
package main

import (
    "context"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/joho/godotenv"
    "github.com/rs/zerolog"

    "github.com/postpilot/postpilot-backend/internal/config"
    "github.com/postpilot/postpilot-backend/internal/controller"
    "github.com/postpilot/postpilot-backend/internal/db"
    "github.com/postpilot/postpilot-backend/internal/handler"
    "github.com/postpilot/postpilot-backend/internal/platform"
    "github.com/postpilot/postpilot-backend/internal/queue"
    "github.com/postpilot/postpilot-backend/internal/repository"
    "github.com/postpilot/postpilot-backend/internal/service"
)

func main() {
    _ = godotenv.Load()

    log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
        With().Timestamp().Logger()

    cfg := config.Load()
    if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
        log = log.Level(lvl)
    }
    if err := cfg.Validate(); err != nil {
        log.Fatal().Err(err).Msg("invalid configuration")
    }

    if err := db.Init(cfg.DatabaseURL()); err != nil {
        log.Fatal().Err(err).Msg("failed to connect to database")
    }
    if err := db.Migrate(); err != nil {
        log.Fatal().Err(err).Msg("failed to run migrations")
    }

    campaignRepo := &repository.CampaignRepository{DB: db.DB}
    postRepo := &repository.PostRepository{DB: db.DB}
    accountRepo := &repository.SocialAccountRepository{DB: db.DB}

    publishers := platform.NewRegistry(
        platform.NewTwitterPublisher(cfg.SimulatePublish),
        platform.NewLinkedInPublisher(cfg.SimulatePublish),
        platform.NewFacebookPublisher(cfg.SimulatePublish),
        platform.NewSlackPublisher(cfg.SlackChannel, cfg.SimulatePublish),
        platform.NewTelegramPublisher(cfg.TelegramChatID, cfg.SimulatePublish),
    )

    var generator service.Generator
    if cfg.AnthropicKey != "" {
        generator = service.NewAnthropicGenerator(cfg.AnthropicKey)
    } else {
        log.Warn().Msg("ANTHROPIC_API_KEY not set, using template generator")
        generator = &service.TemplateGenerator{}
    }

    pipeline := service.NewPublishPipeline(postRepo, campaignRepo, accountRepo, publishers, log)
    scheduler := service.NewPostScheduler(postRepo, pipeline, service.SchedulerConfig{
        RecoveryInterval: cfg.RecoveryInterval,
        RetryDelay:       cfg.RetryDelay,
        RetryMax:         cfg.RetryMax,
        PublishTimeout:   cfg.PublishTimeout,
    }, log)
    fanout := service.NewFanoutService(postRepo, generator, scheduler, log)

    var q queue.Queue
    if cfg.AMQPURL != "" {
        amqpQueue, err := queue.DialAMQP(cfg.AMQPURL, log)
        if err != nil {
            log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
        }
        defer amqpQueue.Close()
        q = amqpQueue
        log.Info().Msg("fan-out jobs routed through RabbitMQ")
    } else {
        memQueue := queue.NewInMemoryQueue(log)
        queue.StartFanoutSubscriber(memQueue, campaignRepo, fanout, log)
        q = memQueue
        log.Info().Msg("fan-out jobs handled in-process")
    }

    if err := scheduler.Start(); err != nil {
        log.Fatal().Err(err).Msg("failed to start post scheduler")
    }
    defer scheduler.Stop()

    campaignController := &controller.CampaignController{
        CampaignRepo: campaignRepo,
        PostRepo:     postRepo,
        Queue:        q,
        Log:          log,
    }
    postController := &controller.PostController{
        PostRepo:  postRepo,
        Scheduler: scheduler,
        Log:       log,
    }
    campaignHandler := &handler.CampaignHandler{
        CampaignRepo: campaignRepo,
        PostRepo:     postRepo,
    }

    r := chi.NewRouter()
    r.Use(middleware.RequestID)
    r.Use(middleware.Recoverer)

    r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
        w.Write([]byte("OK"))
    })

    r.Route("/campaigns", func(r chi.Router) {
        r.Post("/", campaignController.CreateCampaign)
        r.Get("/", campaignController.ListCampaigns)
        r.Get("/{id}", campaignHandler.GetCampaignWithStats)
        r.Get("/{id}/posts", campaignController.ListCampaignPosts)
        r.Post("/{id}/pause", campaignController.PauseCampaign)
        r.Post("/{id}/resume", campaignController.ResumeCampaign)
    })

    r.Route("/posts", func(r chi.Router) {
        r.Get("/{id}", postController.GetPost)
        r.Post("/{id}/approve", postController.ApprovePost)
        r.Post("/{id}/cancel", postController.CancelPost)
    })

    srv := &http.Server{
        Addr:    ":" + cfg.Port,
        Handler: r,
    }

    go func() {
        log.Info().Str("port", cfg.Port).Msg("server starting")
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatal().Err(err).Msg("server error")
        }
    }()

    stop := make(chan os.Signal, 1)
    signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
    <-stop

    log.Info().Msg("shutting down")
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    if err := srv.Shutdown(ctx); err != nil {
        log.Error().Err(err).Msg("forced shutdown")
    }
}
