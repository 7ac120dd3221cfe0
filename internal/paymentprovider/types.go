package paymentprovider

// ChargeRequest параметры списания членского взноса.
type ChargeRequest struct {
	AmountCents int64  // Сумма в центах
	Method      string // mercadopago или paypal
	Email       string // Плательщик
	Description string
}

// ChargeResult результат списания у провайдера.
type ChargeResult struct {
	PaymentID string // Идентификатор платежа у провайдера
	Status    string // completed или failed
}
