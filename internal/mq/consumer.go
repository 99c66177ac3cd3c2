package mq

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/streadway/amqp"

	"pay-gateway-api/internal/config"
	"pay-gateway-api/internal/dal"
	"pay-gateway-api/internal/dto"
	"pay-gateway-api/internal/logger"
	"pay-gateway-api/internal/utils"
)

const maxNotifyRetry = 3

var notifyLog = logger.NewLogger("notify")

// StartConsumers drains the merchant_notify queue: every verified
// transaction with a notify URL gets a signed webhook. Retries are
// bounded republishes, not provider calls.
func StartConsumers() {
	if dal.RabbitCh == nil {
		log.Println("RabbitMQ channel not initialized")
		return
	}
	msgs, err := dal.RabbitCh.Consume("merchant_notify", "", false, false, false, false, nil)
	if err != nil {
		log.Printf("[MQ] consume merchant_notify failed: %v", err)
		return
	}
	for d := range msgs {
		go handleNotify(d)
	}
}

func handleNotify(d amqp.Delivery) {
	var evt dto.TransactionEvent
	if err := json.Unmarshal(d.Body, &evt); err != nil {
		notifyLog.Warnf("notify unmarshal err: %v", err)
		d.Nack(false, false)
		return
	}
	if evt.NotifyURL == "" {
		d.Ack(false)
		return
	}

	if err := notifyMerchant(evt); err != nil {
		notifyLog.Warnf("notify merchant failed ref=%s: %v", evt.Reference, err)

		if evt.RetryCount < maxNotifyRetry {
			evt.RetryCount++
			retryBody, _ := json.Marshal(evt)
			_ = dal.RabbitCh.Publish(
				"", "merchant_notify", false, false,
				amqp.Publishing{
					ContentType: "application/json",
					Body:        retryBody,
				},
			)
			notifyLog.Infof("retrying notify ref=%s (attempt %d)", evt.Reference, evt.RetryCount)
		} else {
			notifyLog.Errorf("max notify retry reached ref=%s", evt.Reference)
		}

		d.Nack(false, false)
		return
	}

	d.Ack(false)
}

func notifyMerchant(evt dto.TransactionEvent) error {
	params := map[string]string{
		"reference": evt.Reference,
		"status":    evt.Status,
		"amount":    evt.Amount,
		"currency":  evt.Currency,
		"ownerId":   strconv.FormatUint(evt.OwnerID, 10),
		"ts":        strconv.FormatInt(evt.Ts, 10),
	}
	params["sign"] = utils.GenerateSign(params, config.C.Security.NotifySecret)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := utils.HttpPostJsonWithContext(ctx, evt.NotifyURL, params)
	return err
}
