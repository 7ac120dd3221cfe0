package rabbitmq

// NotificationsExchange имя exchange для всех уведомлений сообщества.
const NotificationsExchange = "notifications"

// Имена очередей и ключи маршрутизации уведомлений.
const (
	WelcomeQueue      = "notifications.welcome"
	WelcomeRoutingKey = "welcome"
)

// QueueConfig связка очереди и ключа маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди, объявляемые при старте.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: WelcomeQueue, RoutingKey: WelcomeRoutingKey},
	}
}
