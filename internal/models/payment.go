package models

import "time"

// Статусы платежей и взносов.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Способы оплаты, принимаемые симулированным провайдером.
const (
	MethodMercadoPago = "mercadopago"
	MethodPayPal      = "paypal"
)

// MembershipPayment представляет запись о членском взносе.
// Сумма хранится в центах; в признанные фонды попадают только
// записи со статусом completed.
type MembershipPayment struct {
	ID            int64
	UserID        int64  // Владелец платежа
	AmountCents   int64  // Сумма взноса в центах
	PaymentMethod string // mercadopago или paypal
	PaymentID     string // Идентификатор платежа у провайдера
	Status        string // pending, completed, failed
	CreatedAt     time.Time
}

// WelcomeMessage событие для очереди уведомлений: отправляется после
// успешной регистрации и содержит временные учетные данные участника.
type WelcomeMessage struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	TempPassword string `json:"temp_password"`
}
