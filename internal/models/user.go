// Package models содержит доменные структуры сообщества Radio Community,
// а также вспомогательные типы для приёма данных из HTTP-запросов.
package models

import "time"

// Статусы членства пользователя.
const (
	MembershipPending = "pending"
	MembershipActive  = "active"
	MembershipExpired = "expired"
)

// Уровни участника по накопленным баллам.
const (
	LevelBronze   = "bronze"
	LevelSilver   = "silver"
	LevelGold     = "gold"
	LevelPlatinum = "platinum"
	LevelDiamond  = "diamond"
)

// Баллы, начисляемые за активность в сообществе.
const (
	PointsVote           = 5
	PointsContribute     = 15
	PointsComment        = 3
	PointsCreateProposal = 25
)

// User представляет зарегистрированного участника сообщества.
// Записи не удаляются физически: удаление помечается полем DeletedAt,
// поэтому все агрегатные выборки обязаны фильтровать по нему.
type User struct {
	ID               int64      // Уникальный идентификатор
	Name             string     // Отображаемое имя (имя + фамилия)
	Email            string     // Электронная почта (уникальная)
	PasswordHash     string     // Хэш пароля
	Role             string     // Роль: member или admin
	MembershipStatus string     // Статус членства: pending, active, expired
	MembershipPaidAt *time.Time // Дата оплаты членского взноса
	PaymentMethod    string     // Способ оплаты взноса
	VotingRights     bool       // Право голоса в сообществе
	Score            int        // Накопленные баллы активности
	Level            string     // Уровень участника
	Phone            string     // Телефон с кодом страны
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time // Отметка мягкого удаления
}

// LevelForScore возвращает уровень участника для накопленного количества баллов.
func LevelForScore(score int) string {
	switch {
	case score >= 1500:
		return LevelDiamond
	case score >= 700:
		return LevelPlatinum
	case score >= 300:
		return LevelGold
	case score >= 100:
		return LevelSilver
	default:
		return LevelBronze
	}
}
