package notify

import (
	"warung/pkg/rabbitmq"
)

// AMQPChannel bridges the dispatcher to RabbitMQ: events published here are
// consumed by the merchant admin gateway and pushed to its websocket clients.
type AMQPChannel struct {
	client *rabbitmq.Client
}

// NewAMQPChannel creates a channel backed by the given RabbitMQ client.
func NewAMQPChannel(client *rabbitmq.Client) *AMQPChannel {
	return &AMQPChannel{client: client}
}

// Send publishes the event to the merchant notification queue.
func (c *AMQPChannel) Send(event Event) error {
	return c.client.PublishJSON(rabbitmq.MerchantNotificationQueue, event)
}
