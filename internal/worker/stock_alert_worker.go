package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ElenaG-E/temucosoft/internal/infra"

	"github.com/rs/zerolog/log"
)

// LowStockAlertPayload is the job envelope sent to QueueStockAlert when a
// document leaves a product at or below its reorder point.
type LowStockAlertPayload struct {
	CompanyEmail string `json:"company_email"`
	CompanyName  string `json:"company_name"`
	ProductName  string `json:"product_name"`
	SKU          string `json:"sku"`
	BranchID     string `json:"branch_id"`
	Stock        int    `json:"stock"`
	ReorderPoint int    `json:"reorder_point"`
}

// StockAlertWorker emails reorder-point alerts to the company's contact
// address.
type StockAlertWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
}

func NewStockAlertWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker) *StockAlertWorker {
	return &StockAlertWorker{mailer: mailer, cb: cb}
}

func (w *StockAlertWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload LowStockAlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("stock_alert_worker: invalid payload")
		return nil
	}
	if payload.CompanyEmail == "" {
		log.Warn().Str("sku", payload.SKU).Msg("stock_alert_worker: company has no email — skipping")
		return nil
	}

	subject := fmt.Sprintf("Alerta de stock bajo: %s", payload.ProductName)
	body := fmt.Sprintf(
		"Hola %s,\n\nEl producto %s (SKU %s) quedó con %d unidades en la sucursal %s, "+
			"en o por debajo de su punto de reposición (%d).\n\nConsidere generar una compra de reposición.",
		payload.CompanyName, payload.ProductName, payload.SKU,
		payload.Stock, payload.BranchID, payload.ReorderPoint,
	)

	err := w.cb.Execute(func() error {
		return w.mailer.Send(payload.CompanyEmail, subject, body, "")
	})
	if err != nil {
		log.Error().Err(err).Str("sku", payload.SKU).Msg("stock_alert_worker: alert send failed")
		return err
	}
	log.Info().Str("sku", payload.SKU).Int("stock", payload.Stock).Msg("stock_alert_worker: alert sent")
	return nil
}
