package service

import (
	"errors"
	"fmt"
	"time"

	"go-ledger-api/internal/model"
	"go-ledger-api/internal/repository"
	"go-ledger-api/internal/ws"
	"go-ledger-api/pkg/logger"
	"go-ledger-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceLineInput is one requested line; the subtotal and the frozen
// acquisition cost are computed server-side.
type InvoiceLineInput struct {
	ProductID uuid.UUID       `json:"product_id" validate:"uuid_required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"decimal_gte0"`
}

type InvoiceInput struct {
	CounterpartyID uuid.UUID           `json:"counterparty_id" validate:"uuid_required"`
	IssueDate      time.Time           `json:"issue_date" validate:"required"`
	DueDate        *time.Time          `json:"due_date"`
	PaymentMethod  model.PaymentMethod `json:"payment_method" validate:"required,oneof=cash transfer credit"`
	Discount       decimal.Decimal     `json:"discount" validate:"decimal_gte0"`
	LineItems      []InvoiceLineInput  `json:"line_items" validate:"required,min=1,dive"`
}

// InvoiceConfig captures behavior the original system left implicit.
type InvoiceConfig struct {
	// ReverseStockOnDelete re-applies inverse stock deltas when an
	// invoice is deleted. Off by default: deletion then leaves stock
	// movements in place, matching the historical behavior.
	ReverseStockOnDelete bool
}

// InvoiceService drives both invoice directions through one state machine:
// pending until fully paid, paid terminal, deletion the only withdrawal.
type InvoiceService interface {
	Create(kind model.InvoiceKind, input *InvoiceInput, actor string) (*model.Invoice, error)
	Update(id uuid.UUID, input *InvoiceInput, actor string) (*model.Invoice, error)
	Delete(id uuid.UUID, actor string) error
	ApplyDiscount(id uuid.UUID, delta decimal.Decimal, actor string) (*model.Invoice, error)
	Get(id uuid.UUID) (*model.Invoice, error)
	List(kind model.InvoiceKind) ([]model.Invoice, error)
}

type invoiceService struct {
	invoiceRepo      repository.InvoiceRepository
	paymentRepo      repository.PaymentRepository
	counterpartyRepo repository.CounterpartyRepository
	productRepo      repository.ProductRepository
	sequences        SequenceService
	stock            StockService
	cash             CashService
	txr              repository.TxRunner
	hub              *ws.Hub
	cfg              InvoiceConfig
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	counterpartyRepo repository.CounterpartyRepository,
	productRepo repository.ProductRepository,
	sequences SequenceService,
	stock StockService,
	cash CashService,
	txr repository.TxRunner,
	hub *ws.Hub,
	cfg InvoiceConfig,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:      invoiceRepo,
		paymentRepo:      paymentRepo,
		counterpartyRepo: counterpartyRepo,
		productRepo:      productRepo,
		sequences:        sequences,
		stock:            stock,
		cash:             cash,
		txr:              txr,
		hub:              hub,
		cfg:              cfg,
	}
}

// computeLines prices the requested lines and returns them with the total
// after discount. Fails before any write when the total would go negative.
func computeLines(input *InvoiceInput) ([]model.LineItem, decimal.Decimal, error) {
	items := make([]model.LineItem, 0, len(input.LineItems))
	subtotal := decimal.Zero
	for _, line := range input.LineItems {
		lineSubtotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, model.LineItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  lineSubtotal,
		})
		subtotal = subtotal.Add(lineSubtotal)
	}

	total := subtotal.Sub(input.Discount)
	if total.IsNegative() {
		return nil, decimal.Zero, validationErr("Invoice.TotalAmount", "decimal_gte0")
	}
	return items, total, nil
}

func (s *invoiceService) Create(kind model.InvoiceKind, input *InvoiceInput, actor string) (*model.Invoice, error) {
	if !kind.Valid() {
		return nil, validationErr("Invoice.Kind", "oneof")
	}
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}

	items, total, err := computeLines(input)
	if err != nil {
		return nil, err
	}

	cp, err := s.counterpartyRepo.FindByID(input.CounterpartyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("counterparty " + input.CounterpartyID.String())
		}
		return nil, err
	}
	if cp.Kind != kind.CounterpartyKind() {
		return nil, validationErr("Invoice.CounterpartyID", "counterparty_kind")
	}

	var invoice *model.Invoice
	err = s.txr.Transaction(func(tx *gorm.DB) error {
		number, err := s.sequences.NextNumber(tx, kind.Series())
		if err != nil {
			return err
		}

		invoice = &model.Invoice{
			Kind:           kind,
			SeriesNumber:   number,
			CounterpartyID: input.CounterpartyID,
			IssueDate:      input.IssueDate,
			DueDate:        input.DueDate,
			PaymentMethod:  input.PaymentMethod,
			Discount:       input.Discount,
			TotalAmount:    total,
			PaidAmount:     decimal.Zero,
			Status:         model.InvoicePending,
		}
		invoice.CreatedBy = actor
		invoice.UpdatedBy = actor

		// Cash-method invoices settle in the same logical operation.
		if input.PaymentMethod == model.PaymentCash {
			invoice.Status = model.InvoicePaid
			invoice.PaidAmount = total
		}

		if err := s.invoiceRepo.Create(tx, invoice); err != nil {
			return err
		}

		for i := range items {
			product, err := s.productRepo.FindForUpdate(tx, items[i].ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return notFound("product " + items[i].ProductID.String())
				}
				return err
			}

			// Freeze the acquisition cost: sales keep the product's cost
			// at sale time, purchases acquire at the line price.
			if kind == model.InvoiceSale {
				items[i].UnitCost = product.DefaultCost
			} else {
				items[i].UnitCost = items[i].UnitPrice
			}
			items[i].InvoiceID = invoice.ID
			items[i].CreatedBy = actor
			items[i].UpdatedBy = actor

			delta := kind.StockSign() * items[i].Quantity
			if _, err := s.stock.ApplyDelta(tx, items[i].ProductID, delta, "Invoice "+number, actor); err != nil {
				return err
			}
		}

		if err := s.invoiceRepo.CreateLineItems(tx, items); err != nil {
			return err
		}
		invoice.LineItems = items

		if input.PaymentMethod == model.PaymentCash && total.IsPositive() {
			payment := &model.Payment{
				InvoiceID:   invoice.ID,
				Amount:      total,
				Date:        input.IssueDate,
				Description: "Cash settlement of " + number,
			}
			payment.CreatedBy = actor
			payment.UpdatedBy = actor
			if err := s.paymentRepo.Create(tx, payment); err != nil {
				return err
			}

			refTable := kind.ReferenceTable()
			_, err := s.cash.Append(tx, kind.CashCreationType(),
				"Invoice "+number+" ("+cp.Name+")", total, &invoice.ID, &refTable, actor)
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithModule("invoice").WithField("kind", kind).
		WithField("number", invoice.SeriesNumber).
		WithField("total", total.String()).Info("invoice created")
	s.hub.Publish("invoice_created", invoice)

	return invoice, nil
}

// Update replaces the line items wholesale and recomputes the total. The
// paid amount is preserved; a total below it is rejected, and the status is
// re-derived from paid versus the new total so a raised total reopens a
// settled invoice. Stock is not re-adjusted on edit.
func (s *invoiceService) Update(id uuid.UUID, input *InvoiceInput, actor string) (*model.Invoice, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}

	items, total, err := computeLines(input)
	if err != nil {
		return nil, err
	}

	var updated *model.Invoice
	err = s.txr.Transaction(func(tx *gorm.DB) error {
		invoice, err := s.invoiceRepo.FindForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("invoice " + id.String())
			}
			return err
		}

		if total.LessThan(invoice.PaidAmount) {
			return fmt.Errorf("invoice %s: new total %s below paid amount %s: %w",
				invoice.SeriesNumber, total, invoice.PaidAmount, ErrOverpayment)
		}

		if invoice.CounterpartyID != input.CounterpartyID {
			cp, err := s.counterpartyRepo.FindByID(input.CounterpartyID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return notFound("counterparty " + input.CounterpartyID.String())
				}
				return err
			}
			if cp.Kind != invoice.Kind.CounterpartyKind() {
				return validationErr("Invoice.CounterpartyID", "counterparty_kind")
			}
		}

		if err := s.invoiceRepo.DeleteLineItems(tx, invoice.ID); err != nil {
			return err
		}

		for i := range items {
			product, err := s.productRepo.FindByID(items[i].ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return notFound("product " + items[i].ProductID.String())
				}
				return err
			}
			if invoice.Kind == model.InvoiceSale {
				items[i].UnitCost = product.DefaultCost
			} else {
				items[i].UnitCost = items[i].UnitPrice
			}
			items[i].InvoiceID = invoice.ID
			items[i].CreatedBy = actor
			items[i].UpdatedBy = actor
		}
		if err := s.invoiceRepo.CreateLineItems(tx, items); err != nil {
			return err
		}

		invoice.CounterpartyID = input.CounterpartyID
		invoice.IssueDate = input.IssueDate
		invoice.DueDate = input.DueDate
		invoice.PaymentMethod = input.PaymentMethod
		invoice.Discount = input.Discount
		invoice.TotalAmount = total
		invoice.UpdatedBy = actor
		if err := s.invoiceRepo.UpdateHeader(tx, invoice); err != nil {
			return err
		}

		status := model.InvoicePending
		if invoice.PaidAmount.GreaterThanOrEqual(total) {
			status = model.InvoicePaid
		}
		if status != invoice.Status {
			invoice.Status = status
			if err := s.invoiceRepo.UpdatePayment(tx, invoice.ID, invoice.PaidAmount, status, actor); err != nil {
				return err
			}
		}

		invoice.LineItems = items
		updated = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish("invoice_updated", updated)
	return updated, nil
}

// Delete cascades over the invoice's exclusively owned children: payments,
// mirrored cash transactions, line items, then the header, all in one
// transaction.
func (s *invoiceService) Delete(id uuid.UUID, actor string) error {
	var number string
	err := s.txr.Transaction(func(tx *gorm.DB) error {
		invoice, err := s.invoiceRepo.FindForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("invoice " + id.String())
			}
			return err
		}
		number = invoice.SeriesNumber

		if err := s.paymentRepo.DeleteByInvoice(tx, invoice.ID); err != nil {
			return err
		}
		if err := s.cash.RemoveByReference(tx, invoice.Kind.ReferenceTable(), invoice.ID); err != nil {
			return err
		}

		if s.cfg.ReverseStockOnDelete {
			items, err := s.invoiceRepo.LineItemsByInvoice(tx, invoice.ID)
			if err != nil {
				return err
			}
			for _, item := range items {
				delta := -invoice.Kind.StockSign() * item.Quantity
				if _, err := s.stock.ApplyDelta(tx, item.ProductID, delta, "Reversal of "+number, actor); err != nil {
					return err
				}
			}
		}

		if err := s.invoiceRepo.DeleteLineItems(tx, invoice.ID); err != nil {
			return err
		}
		return s.invoiceRepo.Delete(tx, invoice.ID)
	})
	if err != nil {
		return err
	}

	logger.WithModule("invoice").WithField("number", number).Info("invoice deleted")
	s.hub.Publish("invoice_deleted", map[string]interface{}{"id": id, "series_number": number})
	return nil
}

// ApplyDiscount grows the discount and shrinks the total by the same delta.
// Only pending invoices qualify, and the delta may consume neither more
// than the undiscounted remainder nor the unpaid balance.
func (s *invoiceService) ApplyDiscount(id uuid.UUID, delta decimal.Decimal, actor string) (*model.Invoice, error) {
	if !delta.IsPositive() {
		return nil, validationErr("Invoice.Discount", "decimal_gt0")
	}

	var updated *model.Invoice
	err := s.txr.Transaction(func(tx *gorm.DB) error {
		invoice, err := s.invoiceRepo.FindForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("invoice " + id.String())
			}
			return err
		}

		if invoice.Status != model.InvoicePending {
			return ErrInvoiceNotPending
		}
		if delta.GreaterThan(invoice.TotalAmount.Sub(invoice.Discount)) {
			return fmt.Errorf("invoice %s: %w", invoice.SeriesNumber, ErrOverDiscount)
		}
		if delta.GreaterThan(invoice.TotalAmount.Sub(invoice.PaidAmount)) {
			return fmt.Errorf("invoice %s: discount below paid amount: %w", invoice.SeriesNumber, ErrOverDiscount)
		}

		invoice.Discount = invoice.Discount.Add(delta)
		invoice.TotalAmount = invoice.TotalAmount.Sub(delta)
		invoice.UpdatedBy = actor
		if err := s.invoiceRepo.UpdateDiscount(tx, invoice.ID, invoice.Discount, invoice.TotalAmount, actor); err != nil {
			return err
		}

		// Fully discounting the unpaid remainder settles the invoice.
		if invoice.PaidAmount.GreaterThanOrEqual(invoice.TotalAmount) {
			invoice.Status = model.InvoicePaid
			if err := s.invoiceRepo.UpdatePayment(tx, invoice.ID, invoice.PaidAmount, invoice.Status, actor); err != nil {
				return err
			}
		}

		refTable := invoice.Kind.ReferenceTable()
		_, err = s.cash.Append(tx, invoice.Kind.DiscountCashType(),
			"Discount on "+invoice.SeriesNumber, delta, &invoice.ID, &refTable, actor)
		if err != nil {
			return err
		}

		updated = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish("invoice_discounted", updated)
	return updated, nil
}

func (s *invoiceService) Get(id uuid.UUID) (*model.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("invoice " + id.String())
		}
		return nil, err
	}
	return invoice, nil
}

func (s *invoiceService) List(kind model.InvoiceKind) ([]model.Invoice, error) {
	if !kind.Valid() {
		return nil, validationErr("Invoice.Kind", "oneof")
	}
	return s.invoiceRepo.FindAll(kind)
}
