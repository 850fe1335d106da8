package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"interview-prep/config"
	"interview-prep/domain"
)

type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
}

// NewRabbitMQ connects to the broker, or returns nil when no URL is
// configured so event publishing is simply skipped.
func NewRabbitMQ(cfg *config.Config) *RabbitMQ {
	if cfg.RabbitMQURL == "" {
		log.Println("RABBITMQ_URL not set, evaluation events disabled")
		return nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("failed to open channel: %v", err)
	}

	q, err := ch.QueueDeclare(
		"answer_evaluated", // queue name
		true,               // durable
		false,              // delete when unused
		false,              // exclusive
		false,              // no-wait
		nil,                // args
	)
	if err != nil {
		log.Fatalf("failed to declare queue: %v", err)
	}

	fmt.Println("✅ Connected to RabbitMQ and declared queue")

	return &RabbitMQ{conn: conn, channel: ch, queue: q}
}

// PublishAnswerEvaluated is best-effort: a nil receiver or a publish error
// only produces a log line, never a pipeline failure.
func (r *RabbitMQ) PublishAnswerEvaluated(event domain.AnswerEvaluatedEvent) {
	if r == nil {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal evaluation event: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = r.channel.PublishWithContext(
		ctx,
		"",           // exchange
		r.queue.Name, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		log.Printf("failed to publish evaluation event for answer %d: %v", event.AnswerID, err)
	}
}

func (r *RabbitMQ) Close() {
	if r == nil {
		return
	}
	r.channel.Close()
	r.conn.Close()
}
