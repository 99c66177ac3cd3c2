package mq

import (
	"encoding/json"
	"log"

	"github.com/streadway/amqp"

	"pay-gateway-api/internal/dal"
)

const exchange = "transaction_events"

// Publisher pushes transaction events onto the topic exchange. It
// satisfies event.Publisher.
type Publisher struct{}

func NewPublisher() *Publisher { return &Publisher{} }

func (p *Publisher) Publish(topic string, msg interface{}) error {
	if dal.RabbitCh == nil {
		return nil
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	err = dal.RabbitCh.Publish(
		exchange,
		topic,
		false, false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         b,
		},
	)
	if err != nil {
		log.Printf("[MQ] publish %s failed: %v", topic, err)
	}
	return err
}
