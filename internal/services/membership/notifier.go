package membership

import (
	"github.com/streadway/amqp"

	publisher "github.com/radiocomunidad/radio-community/internal/lib/rabbitmq"
	"github.com/radiocomunidad/radio-community/internal/models"
	"github.com/radiocomunidad/radio-community/internal/rabbitmq"
)

// WelcomePublisher публикует приветственные события в очередь уведомлений.
type WelcomePublisher struct {
	ch *amqp.Channel
}

// NewWelcomePublisher создает новый WelcomePublisher поверх открытого канала.
func NewWelcomePublisher(ch *amqp.Channel) *WelcomePublisher {
	return &WelcomePublisher{ch: ch}
}

// PublishWelcome отправляет событие с временными учётными данными участника.
func (p *WelcomePublisher) PublishWelcome(msg models.WelcomeMessage) error {
	return publisher.PublishMessage(p.ch, rabbitmq.NotificationsExchange, rabbitmq.WelcomeRoutingKey, msg)
}
