package service

import (
	"testing"
	"time"

	"go-ledger-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) creditSale(t *testing.T, customerID, productID uuid.UUID, issueDate time.Time, unitPrice string, qty int) *model.Invoice {
	t.Helper()
	input := &InvoiceInput{
		CounterpartyID: customerID,
		IssueDate:      issueDate,
		PaymentMethod:  model.PaymentCredit,
		Discount:       decimal.Zero,
		LineItems: []InvoiceLineInput{
			{ProductID: productID, Quantity: qty, UnitPrice: d(unitPrice)},
		},
	}
	invoice, err := e.invoices.Create(model.InvoiceSale, input, "tester")
	require.NoError(t, err)
	return invoice
}

func TestRegisterPaymentAdvancesInvoice(t *testing.T) {
	env := newTestEnv()
	customerID := env.seedCounterparty(model.CounterpartyCustomer, "Budi")
	productID := env.seedProduct("SKU-1", 100, "20.00", "35.00")
	invoice := env.creditSale(t, customerID, productID, day(1), "50.00", 2)

	payment, err := env.payments.RegisterPayment(invoice.ID, d("40.00"), day(2), "First installment", "tester")
	require.NoError(t, err)
	assert.True(t, payment.Amount.Equal(d("40.00")))

	stored := env.store.invoices[invoice.ID]
	assert.True(t, stored.PaidAmount.Equal(d("40.00")))
	assert.Equal(t, model.InvoicePending, stored.Status)

	// Collection mirrors into the cash ledger.
	require.Len(t, env.store.cashEntries, 1)
	assert.Equal(t, model.CashInflowCollection, env.store.cashEntries[0].Type)
	assert.True(t, env.store.cashEntries[0].ResultingBalance.Equal(d("40.00")))
}

func TestRegisterPaymentSettlesExactly(t *testing.T) {
	env := newTestEnv()
	customerID := env.seedCounterparty(model.CounterpartyCustomer, "Budi")
	productID := env.seedProduct("SKU-1", 100, "20.00", "35.00")
	invoice := env.creditSale(t, customerID, productID, day(1), "100.00", 1)

	_, err := env.payments.RegisterPayment(invoice.ID, d("100.00"), day(2), "", "tester")
	require.NoError(t, err)

	stored := env.store.invoices[invoice.ID]
	assert.Equal(t, model.InvoicePaid, stored.Status)
	assert.True(t, stored.PendingBalance().IsZero())
}

func TestRegisterPaymentRejectsOverpayment(t *testing.T) {
	env := newTestEnv()
	customerID := env.seedCounterparty(model.CounterpartyCustomer, "Budi")
	productID := env.seedProduct("SKU-1", 100, "20.00", "35.00")
	invoice := env.creditSale(t, customerID, productID, day(1), "100.00", 1)

	_, err := env.payments.RegisterPayment(invoice.ID, d("60.00"), day(2), "", "tester")
	require.NoError(t, err)

	_, err = env.payments.RegisterPayment(invoice.ID, d("41.00"), day(3), "", "tester")
	assert.ErrorIs(t, err, ErrOverpayment)
}

func TestRegisterPaymentValidation(t *testing.T) {
	env := newTestEnv()
	customerID := env.seedCounterparty(model.CounterpartyCustomer, "Budi")
	productID := env.seedProduct("SKU-1", 100, "20.00", "35.00")
	invoice := env.creditSale(t, customerID, productID, day(1), "100.00", 1)

	var verr *ValidationError

	_, err := env.payments.RegisterPayment(invoice.ID, decimal.Zero, day(2), "", "tester")
	assert.ErrorAs(t, err, &verr)

	_, err = env.payments.RegisterPayment(invoice.ID, d("10.00"), time.Time{}, "", "tester")
	assert.ErrorAs(t, err, &verr)

	_, err = env.payments.RegisterPayment(uuid.New(), d("10.00"), day(2), "", "tester")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAllocatePaysOldestDebtFirst(t *testing.T) {
	env := newTestEnv()
	customerID := env.seedCounterparty(model.CounterpartyCustomer, "Budi")
	productID := env.seedProduct("SKU-1", 100, "20.00", "35.00")
	older := env.creditSale(t, customerID, productID, day(1), "100.00", 1)
	newer := env.creditSale(t, customerID, productID, day(5), "60.00", 1)

	result, err := env.payments.AllocateAcrossInvoices(customerID, d("130.00"),
		[]uuid.UUID{newer.ID, older.ID}, day(10), "Monthly settlement", "tester")
	require.NoError(t, err)

	require.Len(t, result.Allocations, 2)
	assert.Equal(t, older.ID, result.Allocations[0].InvoiceID)
	assert.True(t, result.Allocations[0].Amount.Equal(d("100.00")))
	assert.Equal(t, model.InvoicePaid, result.Allocations[0].NewStatus)
	assert.Equal(t, newer.ID, result.Allocations[1].InvoiceID)
	assert.True(t, result.Allocations[1].Amount.Equal(d("30.00")))
	assert.Equal(t, model.InvoicePending, result.Allocations[1].NewStatus)
	assert.True(t, result.UnallocatedRemainder.IsZero())

	assert.Equal(t, model.InvoicePaid, env.store.invoices[older.ID].Status)
	assert.True(t, env.store.invoices[newer.ID].PaidAmount.Equal(d("30.00")))

	// One cash entry per slice, folding to the allocated total.
	require.Len(t, env.store.cashEntries, 2)
	assert.True(t, env.store.cashEntries[1].ResultingBalance.Equal(d("130.00")))
}

func TestAllocateReturnsRemainder(t *testing.T) {
	env := newTestEnv()
	customerID := env.seedCounterparty(model.CounterpartyCustomer, "Budi")
	productID := env.seedProduct("SKU-1", 100, "20.00", "35.00")
	a := env.creditSale(t, customerID, productID, day(1), "100.00", 1)
	b := env.creditSale(t, customerID, productID, day(2), "60.00", 1)

	result, err := env.payments.AllocateAcrossInvoices(customerID, d("200.00"),
		[]uuid.UUID{a.ID, b.ID}, day(10), "", "tester")
	require.NoError(t, err)

	assert.True(t, result.UnallocatedRemainder.Equal(d("40.00")))
	assert.Equal(t, model.InvoicePaid, env.store.invoices[a.ID].Status)
	assert.Equal(t, model.InvoicePaid, env.store.invoices[b.ID].Status)
}

func TestAllocateSkipsSettledInvoices(t *testing.T) {
	env := newTestEnv()
	customerID := env.seedCounterparty(model.CounterpartyCustomer, "Budi")
	productID := env.seedProduct("SKU-1", 100, "20.00", "35.00")
	settled := env.creditSale(t, customerID, productID, day(1), "50.00", 1)
	open := env.creditSale(t, customerID, productID, day(2), "60.00", 1)

	_, err := env.payments.RegisterPayment(settled.ID, d("50.00"), day(3), "", "tester")
	require.NoError(t, err)

	result, err := env.payments.AllocateAcrossInvoices(customerID, d("60.00"),
		[]uuid.UUID{settled.ID, open.ID}, day(10), "", "tester")
	require.NoError(t, err)

	require.Len(t, result.Allocations, 1)
	assert.Equal(t, open.ID, result.Allocations[0].InvoiceID)
	assert.True(t, result.UnallocatedRemainder.IsZero())
}

func TestAllocateValidation(t *testing.T) {
	env := newTestEnv()
	customerID := env.seedCounterparty(model.CounterpartyCustomer, "Budi")

	var verr *ValidationError

	_, err := env.payments.AllocateAcrossInvoices(customerID, decimal.Zero, []uuid.UUID{uuid.New()}, day(1), "", "tester")
	assert.ErrorAs(t, err, &verr)

	_, err = env.payments.AllocateAcrossInvoices(customerID, d("10.00"), nil, day(1), "", "tester")
	assert.ErrorAs(t, err, &verr)

	_, err = env.payments.AllocateAcrossInvoices(uuid.New(), d("10.00"), []uuid.UUID{uuid.New()}, day(1), "", "tester")
	assert.ErrorIs(t, err, ErrNotFound)
}
