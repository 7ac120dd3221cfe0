package models

// JoinRequest данные формы участия: регистрация с оплатой членского взноса.
// Поля приходят из HTML-формы и валидируются до обращения к провайдеру.
type JoinRequest struct {
	Nombre     string `json:"nombre" validate:"required,min=2,max=50"`
	Apellido   string `json:"apellido" validate:"required,min=2,max=50"`
	Email      string `json:"email" validate:"required,email"`
	Telefono   string `json:"telefono" validate:"required,min=5,max=20"`
	CodigoPais string `json:"codigoPais" validate:"required"`
	MetodoPago string `json:"metodoPago" validate:"required,oneof=mercadopago paypal"`
}

// LoginRequest данные запроса на вход.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// DummyProposal используется для приёма данных нового предложения из JSON-запроса.
type DummyProposal struct {
	Title             string `json:"title" validate:"required,min=5,max=200"`
	Description       string `json:"description" validate:"required"`
	Category          string `json:"category" validate:"required"`
	TargetAmountCents *int64 `json:"target_amount_cents" validate:"omitempty,gt=0"`
}

// DummyVote используется для приёма голоса из JSON-запроса.
type DummyVote struct {
	VoteType string `json:"vote_type" validate:"required,oneof=for against"`
}

// DummyContribution используется для приёма дополнительного взноса из JSON-запроса.
type DummyContribution struct {
	AmountCents   int64  `json:"amount_cents" validate:"required,gt=0"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=mercadopago paypal"`
}

// DummyComment используется для приёма комментария из JSON-запроса.
type DummyComment struct {
	Comment string `json:"comment" validate:"required,min=1,max=2000"`
}
