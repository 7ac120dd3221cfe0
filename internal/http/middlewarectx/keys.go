// Package middlewarectx содержит HTTP middleware приложения: сессионную
// cookie, охрану маршрутов и ограничение частоты запросов.
package middlewarectx

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserID — ключ для идентификатора участника в контексте
	UserID Key = "user_id"
	// UserEmail — ключ для email участника в контексте
	UserEmail Key = "user_email"
	// Role — ключ для роли участника в контексте
	Role Key = "role"
)
