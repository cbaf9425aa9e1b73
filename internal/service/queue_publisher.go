// Package service provides functions to publish domain events to
// RabbitMQ.  Errors are logged and returned so callers can ignore
// failures without interrupting the main request flow.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/avelora/integration-marketplace/internal/queue"
)

// DealPublisher publishes DealCommittedEvent messages to the
// deal.committed queue.  A fresh connection per publish keeps the
// publisher robust against broker restarts at the cost of throughput,
// which is acceptable at deal-commit frequency.
type DealPublisher struct{}

// NewDealPublisher constructs a DealPublisher.
func NewDealPublisher() *DealPublisher { return &DealPublisher{} }

// PublishDealCommitted publishes the event to the deal.committed queue.
// The function never panics; any error is logged and returned so the
// caller can choose to ignore it.  Messages are marked persistent.
func (p *DealPublisher) PublishDealCommitted(event q.DealCommittedEvent) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent).  Durable so messages
	// survive broker restarts.
	if _, err := ch.QueueDeclare(
		q.DealQueueName, // name
		true,            // durable
		false,           // autoDelete
		false,           // exclusive
		false,           // noWait
		nil,             // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ch.PublishWithContext(ctx,
		"",              // default exchange
		q.DealQueueName, // routing key = queue name
		false,           // mandatory
		false,           // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}
