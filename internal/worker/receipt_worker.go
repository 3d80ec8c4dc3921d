package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ElenaG-E/temucosoft/internal/infra"
	"github.com/ElenaG-E/temucosoft/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	ReceiptKindSale  = "sale"
	ReceiptKindOrder = "order"
)

// ReceiptPayload is the job envelope sent to QueueReceipt after a sale or an
// online order commits.
type ReceiptPayload struct {
	Kind       string `json:"kind"`
	DocumentID string `json:"document_id"`
	CompanyID  string `json:"company_id"`
}

// ReceiptWorker renders receipt PDFs. Sale receipts are archived under the
// storage path; order confirmations are additionally handed to the email
// queue with the PDF attached.
type ReceiptWorker struct {
	orderRepo      repository.OrderRepository
	saleRepo       repository.SaleRepository
	companyRepo    repository.CompanyRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewReceiptWorker(
	orderRepo repository.OrderRepository,
	saleRepo repository.SaleRepository,
	companyRepo repository.CompanyRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
) *ReceiptWorker {
	return &ReceiptWorker{
		orderRepo:      orderRepo,
		saleRepo:       saleRepo,
		companyRepo:    companyRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process fetches the document with its items, writes the receipt PDF, and
// for orders enqueues an email job carrying the attachment. Malformed
// payloads are dropped; transient fetch or render failures are retried by
// the pool.
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReceiptPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return nil
	}
	docID, err := uuid.Parse(payload.DocumentID)
	if err != nil {
		log.Error().Str("document_id", payload.DocumentID).Msg("receipt_worker: invalid document_id")
		return nil
	}
	companyID, err := uuid.Parse(payload.CompanyID)
	if err != nil {
		log.Error().Str("company_id", payload.CompanyID).Msg("receipt_worker: invalid company_id")
		return nil
	}

	company, err := w.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		log.Error().Err(err).Str("company_id", payload.CompanyID).Msg("receipt_worker: company not found")
		return err
	}

	switch payload.Kind {
	case ReceiptKindSale:
		return w.processSale(ctx, companyID, docID, company.Name)
	case ReceiptKindOrder:
		return w.processOrder(ctx, companyID, docID, company.Name)
	default:
		log.Error().Str("kind", payload.Kind).Msg("receipt_worker: unknown receipt kind")
		return nil
	}
}

func (w *ReceiptWorker) processSale(ctx context.Context, companyID, saleID uuid.UUID, companyName string) error {
	sale, err := w.saleRepo.FindByID(ctx, companyID, saleID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", saleID.String()).Msg("receipt_worker: sale not found")
		return err
	}
	pdfPath, err := infra.GenerateSaleReceiptPDF(sale, companyName, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("sale_id", saleID.String()).Msg("receipt_worker: PDF generation failed")
		return err
	}
	// Counter sales carry no customer email; the PDF stays archived for
	// reprints.
	log.Info().Str("pdf", pdfPath).Str("sale_id", saleID.String()).Msg("receipt_worker: sale receipt generated")
	return nil
}

func (w *ReceiptWorker) processOrder(ctx context.Context, companyID, orderID uuid.UUID, companyName string) error {
	order, err := w.orderRepo.FindByID(ctx, companyID, orderID)
	if err != nil {
		log.Error().Err(err).Str("order_id", orderID.String()).Msg("receipt_worker: order not found")
		return err
	}
	pdfPath, err := infra.GenerateOrderReceiptPDF(order, companyName, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("order_id", orderID.String()).Msg("receipt_worker: PDF generation failed")
		return err
	}
	log.Info().Str("pdf", pdfPath).Str("order_id", orderID.String()).Msg("receipt_worker: order receipt generated")

	if order.ClientEmail == "" {
		return nil
	}
	emailJob := EmailJobPayload{
		ToEmail: order.ClientEmail,
		Subject: fmt.Sprintf("%s — confirmación de pedido", companyName),
		Body:    fmt.Sprintf("Hola %s,\n\nAdjuntamos la confirmación de tu pedido.\nTotal: $%s", order.ClientName, order.Total.StringFixed(2)),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", order.ClientEmail).Msg("receipt_worker: failed to enqueue email")
		return err
	}
	return nil
}
