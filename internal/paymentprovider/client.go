// Package paymentprovider реализует симулированного платёжного провайдера.
//
// Реальной интеграции нет: списание членского взноса эмулируется локально
// с той же формой запроса/ответа, что у внешнего API, чтобы поток оплаты
// можно было заменить настоящим клиентом без изменения вызывающего кода.
package paymentprovider

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/radiocomunidad/radio-community/internal/models"
)

// Client симулированный клиент платёжного провайдера.
type Client struct {
	processingDelay time.Duration
	// reject позволяет тестам форсировать отказ провайдера.
	reject func(req ChargeRequest) bool
}

// NewClient создаёт симулированного провайдера. Задержка эмулирует
// сетевой вызов к реальному API.
func NewClient(processingDelay time.Duration) *Client {
	return &Client{processingDelay: processingDelay}
}

// NewRejectingClient создаёт провайдера с управляемым отказом (для тестов).
func NewRejectingClient(reject func(req ChargeRequest) bool) *Client {
	return &Client{reject: reject}
}

// Charge эмулирует списание членского взноса. Неизвестный способ оплаты
// отклоняется, остальные запросы завершаются успешно.
func (c *Client) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	const op = "paymentprovider.Charge"

	if c.processingDelay > 0 {
		select {
		case <-time.After(c.processingDelay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		}
	}

	if req.Method != models.MethodMercadoPago && req.Method != models.MethodPayPal {
		return &ChargeResult{Status: models.PaymentFailed}, nil
	}
	if c.reject != nil && c.reject(req) {
		return &ChargeResult{Status: models.PaymentFailed}, nil
	}

	return &ChargeResult{
		PaymentID: "sim_" + uuid.NewString(),
		Status:    models.PaymentCompleted,
	}, nil
}
