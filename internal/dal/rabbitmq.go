package dal

import (
	"log"

	"github.com/streadway/amqp"

	"pay-gateway-api/internal/config"
)

var RabbitConn *amqp.Connection
var RabbitCh *amqp.Channel

func InitRabbitMQ() {
	url := config.C.RabbitMQ.URL
	conn, err := amqp.Dial(url)
	if err != nil {
		log.Fatalf("rabbitmq dial failed: %v", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("rabbitmq channel failed: %v", err)
	}

	// exchange & queues
	if err := ch.ExchangeDeclare("transaction_events", "topic", true, false, false, false, nil); err != nil {
		log.Fatalf("exchange declare failed: %v", err)
	}
	if _, err := ch.QueueDeclare("transaction_created", true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare transaction_created failed: %v", err)
	}
	if _, err := ch.QueueDeclare("merchant_notify", true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare merchant_notify failed: %v", err)
	}
	if err := ch.QueueBind("transaction_created", "transaction.created", "transaction_events", false, nil); err != nil {
		log.Fatalf("queue bind transaction_created failed: %v", err)
	}
	if err := ch.QueueBind("merchant_notify", "transaction.verified", "transaction_events", false, nil); err != nil {
		log.Fatalf("queue bind merchant_notify failed: %v", err)
	}

	RabbitConn = conn
	RabbitCh = ch
}
