// cmd/worker/main.go
package main

import (
    "context"
    "encoding/json"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/rs/zerolog"
    "github.com/streadway/amqp"

    "github.com/postpilot/postpilot-backend/internal/config"
    "github.com/postpilot/postpilot-backend/internal/db"
    "github.com/postpilot/postpilot-backend/internal/queue"
    "github.com/postpilot/postpilot-backend/internal/repository"
    "github.com/postpilot/postpilot-backend/internal/service"
)

// The worker drains the fan-out queue: each message names a campaign whose
// posts still need generating. Timers for the generated posts are installed
// by the server process, which sweeps pending posts on boot and hourly.
func main() {
    _ = godotenv.Load()

    log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
        With().Timestamp().Str("component", "worker").Logger()

    cfg := config.Load()
    if err := cfg.Validate(); err != nil {
        log.Fatal().Err(err).Msg("invalid configuration")
    }
    if cfg.AMQPURL == "" {
        log.Fatal().Msg("AMQP_URL is required for the worker")
    }

    if err := db.Init(cfg.DatabaseURL()); err != nil {
        log.Fatal().Err(err).Msg("failed to connect to database")
    }

    campaignRepo := &repository.CampaignRepository{DB: db.DB}
    postRepo := &repository.PostRepository{DB: db.DB}

    var generator service.Generator
    if cfg.AnthropicKey != "" {
        generator = service.NewAnthropicGenerator(cfg.AnthropicKey)
    } else {
        generator = &service.TemplateGenerator{}
    }
    fanout := service.NewFanoutService(postRepo, generator, nil, log)

    conn, err := amqp.Dial(cfg.AMQPURL)
    if err != nil {
        log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
    }
    defer conn.Close()

    ch, err := conn.Channel()
    if err != nil {
        log.Fatal().Err(err).Msg("failed to open a channel")
    }
    defer ch.Close()

    if _, err := ch.QueueDeclare(queue.FanoutTopic, true, false, false, false, nil); err != nil {
        log.Fatal().Err(err).Msg("failed to declare queue")
    }
    if err := ch.Qos(1, 0, false); err != nil {
        log.Fatal().Err(err).Msg("failed to set QoS")
    }

    msgs, err := ch.Consume(queue.FanoutTopic, "", false, false, false, false, nil)
    if err != nil {
        log.Fatal().Err(err).Msg("failed to register consumer")
    }

    log.Info().Str("queue", queue.FanoutTopic).Msg("worker waiting for fan-out jobs")

    stop := make(chan os.Signal, 1)
    signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

    for {
        select {
        case <-stop:
            log.Info().Msg("worker shutting down")
            return
        case msg, ok := <-msgs:
            if !ok {
                log.Error().Msg("consume channel closed")
                return
            }
            handleJob(msg, campaignRepo, fanout, log)
        }
    }
}

func handleJob(msg amqp.Delivery, campaignRepo repository.CampaignRepositoryInterface, fanout *service.FanoutService, log zerolog.Logger) {
    var job queue.FanoutJob
    if err := json.Unmarshal(msg.Body, &job); err != nil {
        log.Warn().Err(err).Msg("invalid fan-out message, dropping")
        msg.Nack(false, false)
        return
    }

    campaign, err := campaignRepo.GetByID(job.CampaignID)
    if err != nil {
        log.Warn().Err(err).Int("campaign_id", job.CampaignID).Msg("failed to fetch campaign, dropping")
        msg.Nack(false, false)
        return
    }

    if err := fanout.GenerateCampaignPosts(context.Background(), campaign); err != nil {
        log.Error().Err(err).Int("campaign_id", campaign.ID).Msg("fan-out failed, requeueing")
        msg.Nack(false, true)
        return
    }

    log.Info().Int("campaign_id", campaign.ID).Msg("fan-out complete")
    msg.Ack(false)
}
