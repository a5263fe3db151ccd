package services

import (
	"fmt"
	"time"

	"warung/internal/models"
	"warung/pkg/rabbitmq"
)

// AMQPRefundPublisher queues refund obligations on RabbitMQ, where a worker
// owning the payment provider's refund API picks them up. The queue is
// durable, so an obligation survives until the refund actually goes through.
type AMQPRefundPublisher struct {
	client *rabbitmq.Client
}

// NewAMQPRefundPublisher creates a new AMQPRefundPublisher.
func NewAMQPRefundPublisher(client *rabbitmq.Client) *AMQPRefundPublisher {
	return &AMQPRefundPublisher{client: client}
}

// refundObligation is the message a refund worker consumes.
type refundObligation struct {
	OrderNumber string `json:"order_number"`
	Amount      string `json:"amount"`
	RequestedAt string `json:"requested_at"`
}

// PublishRefund enqueues the obligation to refund the order's full amount.
func (p *AMQPRefundPublisher) PublishRefund(order models.Order) error {
	err := p.client.PublishJSON(rabbitmq.RefundObligationQueue, refundObligation{
		OrderNumber: order.Number,
		Amount:      order.Amount.StringFixed(2),
		RequestedAt: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("%w: refund obligation for order %s: %v", models.ErrExternalService, order.Number, err)
	}
	return nil
}
