package service

import (
	"sort"
	"time"

	"go-ledger-api/internal/model"
	"go-ledger-api/internal/repository"
	"go-ledger-api/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// fakeStore is the in-memory backing for all fake repositories so a test can
// wire every service against one consistent state.
type fakeStore struct {
	products       map[uuid.UUID]model.Product
	movements      []model.StockMovement
	counterparties map[uuid.UUID]model.Counterparty
	invoices       map[uuid.UUID]model.Invoice
	lineItems      []model.LineItem
	payments       []model.Payment
	cashEntries    []model.CashTransaction
	nextSeq        int64
	head           model.CashLedgerHead
	expenses       map[uuid.UUID]model.Expense
	contributions  map[uuid.UUID]model.Contribution
	sequences      map[string]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:       make(map[uuid.UUID]model.Product),
		counterparties: make(map[uuid.UUID]model.Counterparty),
		invoices:       make(map[uuid.UUID]model.Invoice),
		expenses:       make(map[uuid.UUID]model.Expense),
		contributions:  make(map[uuid.UUID]model.Contribution),
		sequences:      make(map[string]int64),
		head:           model.CashLedgerHead{ID: 1, Balance: decimal.Zero},
	}
}

// fakeTxRunner executes the callback directly; the fakes have no rollback, so
// tests assert on returned errors rather than on state after a failed call.
type fakeTxRunner struct{}

func (fakeTxRunner) Transaction(fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeProductRepo struct{ store *fakeStore }

func (r *fakeProductRepo) Create(product *model.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.store.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) FindAll() ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.store.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *fakeProductRepo) FindBySKU(sku string) (*model.Product, error) {
	for _, p := range r.store.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) Update(product *model.Product) error {
	r.store.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(id)
}

func (r *fakeProductRepo) UpdateOnHand(tx *gorm.DB, id uuid.UUID, newOnHand int, updatedBy string) error {
	p, ok := r.store.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.OnHand = newOnHand
	p.UpdatedBy = updatedBy
	r.store.products[id] = p
	return nil
}

type fakeStockMovementRepo struct{ store *fakeStore }

func (r *fakeStockMovementRepo) Create(tx *gorm.DB, movement *model.StockMovement) error {
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	r.store.movements = append(r.store.movements, *movement)
	return nil
}

func (r *fakeStockMovementRepo) FindAll(limit int) ([]model.StockMovement, error) {
	out := append([]model.StockMovement(nil), r.store.movements...)
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *fakeStockMovementRepo) GetDailyFlow(startDate, endDate time.Time) ([]repository.StockFlowData, error) {
	return nil, nil
}

type fakeCounterpartyRepo struct{ store *fakeStore }

func (r *fakeCounterpartyRepo) Create(cp *model.Counterparty) error {
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	r.store.counterparties[cp.ID] = *cp
	return nil
}

func (r *fakeCounterpartyRepo) FindAll(kind model.CounterpartyKind) ([]model.Counterparty, error) {
	var out []model.Counterparty
	for _, cp := range r.store.counterparties {
		if kind == "" || cp.Kind == kind {
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *fakeCounterpartyRepo) FindByID(id uuid.UUID) (*model.Counterparty, error) {
	cp, ok := r.store.counterparties[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &cp, nil
}

type fakeInvoiceRepo struct{ store *fakeStore }

func (r *fakeInvoiceRepo) Create(tx *gorm.DB, invoice *model.Invoice) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	stored := *invoice
	stored.LineItems = nil
	stored.Payments = nil
	stored.Counterparty = nil
	r.store.invoices[invoice.ID] = stored
	return nil
}

func (r *fakeInvoiceRepo) CreateLineItems(tx *gorm.DB, items []model.LineItem) error {
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		r.store.lineItems = append(r.store.lineItems, items[i])
	}
	return nil
}

func (r *fakeInvoiceRepo) DeleteLineItems(tx *gorm.DB, invoiceID uuid.UUID) error {
	kept := r.store.lineItems[:0]
	for _, item := range r.store.lineItems {
		if item.InvoiceID != invoiceID {
			kept = append(kept, item)
		}
	}
	r.store.lineItems = kept
	return nil
}

func (r *fakeInvoiceRepo) LineItemsByInvoice(tx *gorm.DB, invoiceID uuid.UUID) ([]model.LineItem, error) {
	var out []model.LineItem
	for _, item := range r.store.lineItems {
		if item.InvoiceID == invoiceID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Invoice, error) {
	inv, ok := r.store.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &inv, nil
}

func (r *fakeInvoiceRepo) FindByID(id uuid.UUID) (*model.Invoice, error) {
	inv, ok := r.store.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	items, _ := r.LineItemsByInvoice(nil, id)
	inv.LineItems = items
	inv.Payments = r.paymentsOf(id)
	if cp, ok := r.store.counterparties[inv.CounterpartyID]; ok {
		inv.Counterparty = &cp
	}
	return &inv, nil
}

func (r *fakeInvoiceRepo) paymentsOf(invoiceID uuid.UUID) []model.Payment {
	var out []model.Payment
	for _, p := range r.store.payments {
		if p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (r *fakeInvoiceRepo) FindAll(kind model.InvoiceKind) ([]model.Invoice, error) {
	var out []model.Invoice
	for _, inv := range r.store.invoices {
		if inv.Kind == kind {
			out = append(out, inv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].IssueDate.After(out[j].IssueDate) })
	return out, nil
}

func (r *fakeInvoiceRepo) FindByCounterparty(kind model.InvoiceKind, counterpartyID uuid.UUID) ([]model.Invoice, error) {
	var out []model.Invoice
	for _, inv := range r.store.invoices {
		if inv.Kind == kind && inv.CounterpartyID == counterpartyID {
			inv.Payments = r.paymentsOf(inv.ID)
			out = append(out, inv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].IssueDate.Before(out[j].IssueDate) })
	return out, nil
}

func (r *fakeInvoiceRepo) FindPendingForUpdate(tx *gorm.DB, kind model.InvoiceKind, counterpartyID uuid.UUID, ids []uuid.UUID) ([]model.Invoice, error) {
	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []model.Invoice
	for _, inv := range r.store.invoices {
		if wanted[inv.ID] && inv.Kind == kind && inv.CounterpartyID == counterpartyID && inv.Status == model.InvoicePending {
			out = append(out, inv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].IssueDate.Before(out[j].IssueDate) })
	return out, nil
}

func (r *fakeInvoiceRepo) UpdateHeader(tx *gorm.DB, invoice *model.Invoice) error {
	inv, ok := r.store.invoices[invoice.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	inv.CounterpartyID = invoice.CounterpartyID
	inv.IssueDate = invoice.IssueDate
	inv.DueDate = invoice.DueDate
	inv.PaymentMethod = invoice.PaymentMethod
	inv.Discount = invoice.Discount
	inv.TotalAmount = invoice.TotalAmount
	inv.UpdatedBy = invoice.UpdatedBy
	r.store.invoices[invoice.ID] = inv
	return nil
}

func (r *fakeInvoiceRepo) UpdatePayment(tx *gorm.DB, id uuid.UUID, paidAmount decimal.Decimal, status model.InvoiceStatus, updatedBy string) error {
	inv, ok := r.store.invoices[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	inv.PaidAmount = paidAmount
	inv.Status = status
	inv.UpdatedBy = updatedBy
	r.store.invoices[id] = inv
	return nil
}

func (r *fakeInvoiceRepo) UpdateDiscount(tx *gorm.DB, id uuid.UUID, discount, totalAmount decimal.Decimal, updatedBy string) error {
	inv, ok := r.store.invoices[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	inv.Discount = discount
	inv.TotalAmount = totalAmount
	inv.UpdatedBy = updatedBy
	r.store.invoices[id] = inv
	return nil
}

func (r *fakeInvoiceRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	delete(r.store.invoices, id)
	return nil
}

type fakePaymentRepo struct{ store *fakeStore }

func (r *fakePaymentRepo) Create(tx *gorm.DB, payment *model.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	r.store.payments = append(r.store.payments, *payment)
	return nil
}

func (r *fakePaymentRepo) FindByInvoice(invoiceID uuid.UUID) ([]model.Payment, error) {
	return (&fakeInvoiceRepo{r.store}).paymentsOf(invoiceID), nil
}

func (r *fakePaymentRepo) DeleteByInvoice(tx *gorm.DB, invoiceID uuid.UUID) error {
	kept := r.store.payments[:0]
	for _, p := range r.store.payments {
		if p.InvoiceID != invoiceID {
			kept = append(kept, p)
		}
	}
	r.store.payments = kept
	return nil
}

type fakeCashRepo struct{ store *fakeStore }

func (r *fakeCashRepo) LockHead(tx *gorm.DB) (*model.CashLedgerHead, error) {
	return &r.store.head, nil
}

func (r *fakeCashRepo) UpdateHeadBalance(tx *gorm.DB, balance decimal.Decimal) error {
	r.store.head.Balance = balance
	return nil
}

func (r *fakeCashRepo) Append(tx *gorm.DB, entry *model.CashTransaction) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	r.store.nextSeq++
	entry.Seq = r.store.nextSeq
	r.store.cashEntries = append(r.store.cashEntries, *entry)
	return nil
}

func (r *fakeCashRepo) LatestBalance(tx *gorm.DB) (decimal.Decimal, error) {
	if len(r.store.cashEntries) == 0 {
		return decimal.Zero, nil
	}
	return r.store.cashEntries[len(r.store.cashEntries)-1].ResultingBalance, nil
}

func (r *fakeCashRepo) FindRecent(limit int) ([]model.CashTransaction, error) {
	out := append([]model.CashTransaction(nil), r.store.cashEntries...)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeCashRepo) FindByReference(tx *gorm.DB, table model.ReferenceTable, referenceID uuid.UUID) ([]model.CashTransaction, error) {
	var out []model.CashTransaction
	for _, e := range r.store.cashEntries {
		if e.ReferenceTable != nil && *e.ReferenceTable == table && e.ReferenceID != nil && *e.ReferenceID == referenceID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeCashRepo) ShiftBalancesAfter(tx *gorm.DB, seq int64, signed decimal.Decimal) error {
	for i := range r.store.cashEntries {
		if r.store.cashEntries[i].Seq > seq {
			r.store.cashEntries[i].ResultingBalance = r.store.cashEntries[i].ResultingBalance.Sub(signed)
		}
	}
	return nil
}

func (r *fakeCashRepo) DeleteByReference(tx *gorm.DB, table model.ReferenceTable, referenceID uuid.UUID) error {
	kept := r.store.cashEntries[:0]
	for _, e := range r.store.cashEntries {
		if e.ReferenceTable != nil && *e.ReferenceTable == table && e.ReferenceID != nil && *e.ReferenceID == referenceID {
			continue
		}
		kept = append(kept, e)
	}
	r.store.cashEntries = kept
	return nil
}

func (r *fakeCashRepo) EnsureHead() error { return nil }

type fakeSequenceRepo struct{ store *fakeStore }

func (r *fakeSequenceRepo) NextNumber(tx *gorm.DB, series string) (int64, error) {
	if _, ok := r.store.sequences[series]; !ok {
		return 0, gorm.ErrRecordNotFound
	}
	r.store.sequences[series]++
	return r.store.sequences[series], nil
}

func (r *fakeSequenceRepo) Seed(series ...string) error {
	for _, s := range series {
		if _, ok := r.store.sequences[s]; !ok {
			r.store.sequences[s] = 0
		}
	}
	return nil
}

type fakeExpenseRepo struct{ store *fakeStore }

func (r *fakeExpenseRepo) Create(tx *gorm.DB, expense *model.Expense) error {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	r.store.expenses[expense.ID] = *expense
	return nil
}

func (r *fakeExpenseRepo) FindAll() ([]model.Expense, error) {
	var out []model.Expense
	for _, e := range r.store.expenses {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeExpenseRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Expense, error) {
	e, ok := r.store.expenses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (r *fakeExpenseRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	delete(r.store.expenses, id)
	return nil
}

type fakeContributionRepo struct{ store *fakeStore }

func (r *fakeContributionRepo) Create(tx *gorm.DB, contribution *model.Contribution) error {
	if contribution.ID == uuid.Nil {
		contribution.ID = uuid.New()
	}
	r.store.contributions[contribution.ID] = *contribution
	return nil
}

func (r *fakeContributionRepo) FindAll() ([]model.Contribution, error) {
	var out []model.Contribution
	for _, c := range r.store.contributions {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeContributionRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Contribution, error) {
	c, ok := r.store.contributions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *fakeContributionRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	delete(r.store.contributions, id)
	return nil
}

// fakeReportRepo computes the aggregates straight off the store so report
// tests see the same state the write paths produced.
type fakeReportRepo struct{ store *fakeStore }

func inWindow(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

func (r *fakeReportRepo) SumPaidInvoices(kind model.InvoiceKind, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, inv := range r.store.invoices {
		if inv.Kind == kind && inv.Status == model.InvoicePaid && inWindow(inv.IssueDate, from, to) {
			total = total.Add(inv.TotalAmount)
		}
	}
	return total, nil
}

func (r *fakeReportRepo) SumCOGS(from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range r.store.lineItems {
		inv, ok := r.store.invoices[item.InvoiceID]
		if !ok || inv.Kind != model.InvoiceSale || inv.Status != model.InvoicePaid || !inWindow(inv.IssueDate, from, to) {
			continue
		}
		total = total.Add(item.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total, nil
}

func (r *fakeReportRepo) SumExpenses(from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range r.store.expenses {
		if inWindow(e.Date, from, to) {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func (r *fakeReportRepo) SumPendingBalance(kind model.InvoiceKind) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, inv := range r.store.invoices {
		if inv.Kind == kind && inv.Status == model.InvoicePending {
			total = total.Add(inv.TotalAmount.Sub(inv.PaidAmount))
		}
	}
	return total, nil
}

func (r *fakeReportRepo) TopExpenseCategories(limit int) ([]repository.ExpenseCategoryTotal, error) {
	totals := make(map[string]decimal.Decimal)
	for _, e := range r.store.expenses {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	var out []repository.ExpenseCategoryTotal
	for category, total := range totals {
		out = append(out, repository.ExpenseCategoryTotal{Category: category, Total: total})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total.GreaterThan(out[j].Total) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// testEnv wires every service against one fake store.
type testEnv struct {
	store *fakeStore

	invoices      InvoiceService
	payments      PaymentService
	cash          CashService
	stock         StockService
	statements    StatementService
	expenses      ExpenseService
	contributions ContributionService
	sequences     SequenceService
}

func newTestEnv() *testEnv {
	return newTestEnvWithConfig(InvoiceConfig{})
}

func newTestEnvWithConfig(cfg InvoiceConfig) *testEnv {
	store := newFakeStore()
	store.sequences[model.InvoiceSale.Series()] = 0
	store.sequences[model.InvoicePurchase.Series()] = 0

	txr := fakeTxRunner{}
	hub := ws.NewHub()
	productRepo := &fakeProductRepo{store}
	movementRepo := &fakeStockMovementRepo{store}
	counterpartyRepo := &fakeCounterpartyRepo{store}
	invoiceRepo := &fakeInvoiceRepo{store}
	paymentRepo := &fakePaymentRepo{store}
	cashRepo := &fakeCashRepo{store}
	expenseRepo := &fakeExpenseRepo{store}
	contributionRepo := &fakeContributionRepo{store}
	sequenceRepo := &fakeSequenceRepo{store}
	reportRepo := &fakeReportRepo{store}

	sequences := NewSequenceService(sequenceRepo, txr)
	stock := NewStockService(productRepo, movementRepo, txr, hub)
	cash := NewCashService(cashRepo, txr, hub)
	invoices := NewInvoiceService(invoiceRepo, paymentRepo, counterpartyRepo, productRepo,
		sequences, stock, cash, txr, hub, cfg)
	payments := NewPaymentService(invoiceRepo, paymentRepo, counterpartyRepo, cash, txr, hub)
	statements := NewStatementService(invoiceRepo, counterpartyRepo, reportRepo, cash)
	expenses := NewExpenseService(expenseRepo, cash, txr)
	contributions := NewContributionService(contributionRepo, cash, txr)

	return &testEnv{
		store:         store,
		invoices:      invoices,
		payments:      payments,
		cash:          cash,
		stock:         stock,
		statements:    statements,
		expenses:      expenses,
		contributions: contributions,
		sequences:     sequences,
	}
}

func (e *testEnv) seedProduct(sku string, onHand int, cost, price string) uuid.UUID {
	p := model.Product{
		SKU:          sku,
		Name:         "Product " + sku,
		OnHand:       onHand,
		Unit:         "pcs",
		DefaultCost:  d(cost),
		DefaultPrice: d(price),
	}
	p.ID = uuid.New()
	e.store.products[p.ID] = p
	return p.ID
}

func (e *testEnv) seedCounterparty(kind model.CounterpartyKind, name string) uuid.UUID {
	cp := model.Counterparty{Kind: kind, Name: name}
	cp.ID = uuid.New()
	e.store.counterparties[cp.ID] = cp
	return cp.ID
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(n int) time.Time {
	return time.Date(2025, time.March, n, 0, 0, 0, 0, time.UTC)
}
