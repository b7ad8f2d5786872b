// internal/queue/queue.go
package queue

import (
    "context"
    "fmt"
    "sync"
    "time"

    "github.com/rs/zerolog"

    "github.com/postpilot/postpilot-backend/internal/repository"
    "github.com/postpilot/postpilot-backend/internal/service"
)

// FanoutTopic carries campaign ids whose posts still need generating.
const FanoutTopic = "campaign_fanout"

// Queue interface
type Queue interface {
    Publish(topic string, payload any) error
    Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue dispatches to subscribers on their own goroutines with a
// bounded retry. Default transport when no AMQP broker is configured; also
// what the tests run against.
type InMemoryQueue struct {
    mu       sync.Mutex
    handlers map[string][]func(payload any) error
    log      zerolog.Logger
}

func NewInMemoryQueue(log zerolog.Logger) *InMemoryQueue {
    return &InMemoryQueue{
        handlers: make(map[string][]func(payload any) error),
        log:      log.With().Str("component", "queue").Logger(),
    }
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
    Payload    any
    RetryCount int
    MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
    q.mu.Lock()
    handlers := q.handlers[topic]
    q.mu.Unlock()

    if len(handlers) == 0 {
        return fmt.Errorf("no subscribers for topic %s", topic)
    }

    job := JobPayload{
        Payload:    payload,
        RetryCount: 0,
        MaxRetries: 3,
    }

    for _, handler := range handlers {
        go q.processJob(topic, handler, job)
    }

    return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(topic string, handler func(payload any) error, job JobPayload) {
    for job.RetryCount <= job.MaxRetries {
        err := handler(job.Payload)
        if err == nil {
            return // ACK
        }

        job.RetryCount++
        q.log.Warn().Err(err).Str("topic", topic).Int("attempt", job.RetryCount).Int("max", job.MaxRetries).Msg("job failed")

        if job.RetryCount > job.MaxRetries {
            q.log.Error().Str("topic", topic).Interface("payload", job.Payload).Msg("job permanently failed")
            return // No requeue
        }

        // Backoff before retry
        time.Sleep(time.Duration(job.RetryCount*500) * time.Millisecond)
    }
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
    q.mu.Lock()
    defer q.mu.Unlock()

    q.handlers[topic] = append(q.handlers[topic], handler)
    return nil
}

// StartFanoutSubscriber wires the fan-out service to the fan-out topic:
// payloads are campaign ids, each triggering one generation pass.
func StartFanoutSubscriber(q Queue, campaignRepo repository.CampaignRepositoryInterface, fanout *service.FanoutService, log zerolog.Logger) {
    err := q.Subscribe(FanoutTopic, func(payload any) error {
        campaignID, ok := payload.(int)
        if !ok {
            log.Warn().Interface("payload", payload).Msg("invalid fan-out payload, expected campaign id")
            return nil // no retry
        }

        campaign, err := campaignRepo.GetByID(campaignID)
        if err != nil {
            log.Warn().Err(err).Int("campaign_id", campaignID).Msg("failed to fetch campaign for fan-out")
            return err
        }

        return fanout.GenerateCampaignPosts(context.Background(), campaign)
    })
    if err != nil {
        log.Error().Err(err).Msg("failed to start fan-out subscriber")
    }
}
