// internal/queue/amqp.go
package queue

import (
    "encoding/json"
    "fmt"

    "github.com/rs/zerolog"
    "github.com/streadway/amqp"
)

// FanoutJob is the wire shape of one fan-out request on the broker.
type FanoutJob struct {
    CampaignID int `json:"campaign_id"`
}

// AMQPQueue publishes fan-out jobs to RabbitMQ for cmd/worker to consume.
// It is publish-only; consumption lives in the worker binary.
type AMQPQueue struct {
    conn *amqp.Connection
    ch   *amqp.Channel
    log  zerolog.Logger
}

func DialAMQP(url string, log zerolog.Logger) (*AMQPQueue, error) {
    conn, err := amqp.Dial(url)
    if err != nil {
        return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
    }

    ch, err := conn.Channel()
    if err != nil {
        conn.Close()
        return nil, fmt.Errorf("failed to open a channel: %w", err)
    }

    _, err = ch.QueueDeclare(
        FanoutTopic, // name
        true,        // durable
        false,       // delete when unused
        false,       // exclusive
        false,       // no-wait
        nil,         // arguments
    )
    if err != nil {
        ch.Close()
        conn.Close()
        return nil, fmt.Errorf("failed to declare queue: %w", err)
    }

    return &AMQPQueue{conn: conn, ch: ch, log: log.With().Str("component", "amqp").Logger()}, nil
}

func (q *AMQPQueue) Publish(topic string, payload any) error {
    var body []byte
    var err error
    switch v := payload.(type) {
    case int:
        body, err = json.Marshal(FanoutJob{CampaignID: v})
    default:
        body, err = json.Marshal(payload)
    }
    if err != nil {
        return fmt.Errorf("failed to marshal payload: %w", err)
    }

    return q.ch.Publish(
        "",    // exchange
        topic, // routing key
        false, // mandatory
        false, // immediate
        amqp.Publishing{
            ContentType: "application/json",
            Body:        body,
        },
    )
}

func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
    return fmt.Errorf("amqp queue is publish-only here; run cmd/worker to consume %s", topic)
}

func (q *AMQPQueue) Close() {
    if q.ch != nil {
        q.ch.Close()
    }
    if q.conn != nil {
        q.conn.Close()
    }
}

var _ Queue = (*AMQPQueue)(nil)
