package service

import (
	"errors"
	"fmt"
	"time"

	"go-ledger-api/internal/model"
	"go-ledger-api/internal/repository"
	"go-ledger-api/internal/ws"
	"go-ledger-api/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AllocationSlice is one invoice's share of an allocated payment.
type AllocationSlice struct {
	InvoiceID    uuid.UUID           `json:"invoice_id"`
	SeriesNumber string              `json:"series_number"`
	Amount       decimal.Decimal     `json:"amount"`
	NewStatus    model.InvoiceStatus `json:"new_status"`
}

// AllocationResult reports how a payment was distributed. Whatever could
// not be applied is returned, never silently absorbed.
type AllocationResult struct {
	Allocations          []AllocationSlice `json:"allocations"`
	UnallocatedRemainder decimal.Decimal   `json:"unallocated_remainder"`
}

// PaymentService advances invoices through their payment lifecycle. It is
// the only writer of paid_amount and status after creation.
type PaymentService interface {
	RegisterPayment(invoiceID uuid.UUID, amount decimal.Decimal, date time.Time, description, actor string) (*model.Payment, error)
	AllocateAcrossInvoices(counterpartyID uuid.UUID, total decimal.Decimal, candidateIDs []uuid.UUID, date time.Time, description, actor string) (*AllocationResult, error)
}

type paymentService struct {
	invoiceRepo      repository.InvoiceRepository
	paymentRepo      repository.PaymentRepository
	counterpartyRepo repository.CounterpartyRepository
	cash             CashService
	txr              repository.TxRunner
	hub              *ws.Hub
}

func NewPaymentService(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	counterpartyRepo repository.CounterpartyRepository,
	cash CashService,
	txr repository.TxRunner,
	hub *ws.Hub,
) PaymentService {
	return &paymentService{
		invoiceRepo:      invoiceRepo,
		paymentRepo:      paymentRepo,
		counterpartyRepo: counterpartyRepo,
		cash:             cash,
		txr:              txr,
		hub:              hub,
	}
}

// registerOn applies one payment slice to an already locked invoice inside
// the caller's transaction.
func (s *paymentService) registerOn(tx *gorm.DB, invoice *model.Invoice, amount decimal.Decimal, date time.Time, description, actor string) (*model.Payment, error) {
	if !amount.IsPositive() {
		return nil, validationErr("Payment.Amount", "decimal_gt0")
	}
	if date.IsZero() {
		return nil, validationErr("Payment.Date", "required")
	}

	newPaid := invoice.PaidAmount.Add(amount)
	if newPaid.GreaterThan(invoice.TotalAmount) {
		return nil, fmt.Errorf("invoice %s: paid %s + payment %s exceeds total %s: %w",
			invoice.SeriesNumber, invoice.PaidAmount, amount, invoice.TotalAmount, ErrOverpayment)
	}

	if description == "" {
		description = "Payment on " + invoice.SeriesNumber
	}
	payment := &model.Payment{
		InvoiceID:   invoice.ID,
		Amount:      amount,
		Date:        date,
		Description: description,
	}
	payment.CreatedBy = actor
	payment.UpdatedBy = actor
	if err := s.paymentRepo.Create(tx, payment); err != nil {
		return nil, err
	}

	invoice.PaidAmount = newPaid
	if newPaid.GreaterThanOrEqual(invoice.TotalAmount) {
		invoice.Status = model.InvoicePaid
	}
	if err := s.invoiceRepo.UpdatePayment(tx, invoice.ID, invoice.PaidAmount, invoice.Status, actor); err != nil {
		return nil, err
	}

	refTable := invoice.Kind.ReferenceTable()
	_, err := s.cash.Append(tx, invoice.Kind.PaymentCashType(), description, amount, &invoice.ID, &refTable, actor)
	if err != nil {
		return nil, err
	}

	return payment, nil
}

func (s *paymentService) RegisterPayment(invoiceID uuid.UUID, amount decimal.Decimal, date time.Time, description, actor string) (*model.Payment, error) {
	var payment *model.Payment
	err := s.txr.Transaction(func(tx *gorm.DB) error {
		invoice, err := s.invoiceRepo.FindForUpdate(tx, invoiceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("invoice " + invoiceID.String())
			}
			return err
		}
		payment, err = s.registerOn(tx, invoice, amount, date, description, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.WithModule("payment").WithField("invoice_id", invoiceID).
		WithField("amount", amount.String()).Info("payment registered")
	s.hub.Publish("payment_registered", payment)

	return payment, nil
}

// AllocateAcrossInvoices distributes one payment over a counterparty's
// outstanding invoices, oldest debt first, all inside one transaction: a
// failing slice rolls every earlier slice back.
func (s *paymentService) AllocateAcrossInvoices(counterpartyID uuid.UUID, total decimal.Decimal, candidateIDs []uuid.UUID, date time.Time, description, actor string) (*AllocationResult, error) {
	if !total.IsPositive() {
		return nil, validationErr("Allocation.Amount", "decimal_gt0")
	}
	if len(candidateIDs) == 0 {
		return nil, validationErr("Allocation.CandidateInvoiceIDs", "min")
	}
	if date.IsZero() {
		return nil, validationErr("Allocation.Date", "required")
	}

	cp, err := s.counterpartyRepo.FindByID(counterpartyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("counterparty " + counterpartyID.String())
		}
		return nil, err
	}
	kind := model.InvoiceSale
	if cp.Kind == model.CounterpartySupplier {
		kind = model.InvoicePurchase
	}

	result := &AllocationResult{Allocations: []AllocationSlice{}}
	err = s.txr.Transaction(func(tx *gorm.DB) error {
		invoices, err := s.invoiceRepo.FindPendingForUpdate(tx, kind, counterpartyID, candidateIDs)
		if err != nil {
			return err
		}

		remaining := total
		for i := range invoices {
			if !remaining.IsPositive() {
				break
			}
			pending := invoices[i].PendingBalance()
			if !pending.IsPositive() {
				continue
			}

			slice := decimal.Min(remaining, pending)
			if _, err := s.registerOn(tx, &invoices[i], slice, date, description, actor); err != nil {
				return err
			}

			result.Allocations = append(result.Allocations, AllocationSlice{
				InvoiceID:    invoices[i].ID,
				SeriesNumber: invoices[i].SeriesNumber,
				Amount:       slice,
				NewStatus:    invoices[i].Status,
			})
			remaining = remaining.Sub(slice)
		}

		result.UnallocatedRemainder = remaining
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithModule("payment").WithField("counterparty_id", counterpartyID).
		WithField("allocated", total.Sub(result.UnallocatedRemainder).String()).
		WithField("remainder", result.UnallocatedRemainder.String()).
		Info("payment allocated across invoices")
	s.hub.Publish("payment_allocated", result)

	return result, nil
}
