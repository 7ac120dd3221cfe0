package membership

import "errors"

// Ошибки потока участия. Обработчик формы переводит их в коды причин
// редиректа на страницу ошибки.
var (
	// ErrEmailTaken email уже зарегистрирован (reason=email-existente).
	ErrEmailTaken = errors.New("email already registered")
	// ErrPaymentRejected провайдер отклонил списание (reason=pago-rechazado).
	ErrPaymentRejected = errors.New("payment rejected by provider")
	// ErrDuplicateData нарушение иного уникального ограничения (reason=datos-duplicados).
	ErrDuplicateData = errors.New("duplicate data")
	// ErrDatabase ошибка базы данных при создании участника (reason=error-base-datos).
	ErrDatabase = errors.New("database error")
	// ErrCreation участник не был создан (reason=error-creacion).
	ErrCreation = errors.New("user creation failed")
)
