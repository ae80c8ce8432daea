package service

import (
	"errors"
	"sort"
	"time"

	"go-ledger-api/internal/model"
	"go-ledger-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatementRow is one chronological event on an entity's account.
type StatementRow struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// Statement is the projected account history of one customer or supplier.
// Zero transactions is a valid result, not an error.
type Statement struct {
	EntityType   model.CounterpartyKind `json:"entity_type"`
	EntityID     uuid.UUID              `json:"entity_id"`
	EntityName   string                 `json:"entity_name"`
	Transactions []StatementRow         `json:"transactions"`
	Balance      decimal.Decimal        `json:"balance"`
}

// FinancialSummary is the global dashboard projection.
type FinancialSummary struct {
	TotalIncome          decimal.Decimal                   `json:"total_income"`
	TotalCOGS            decimal.Decimal                   `json:"total_cogs"`
	TotalExpenses        decimal.Decimal                   `json:"total_expenses"`
	GrossProfit          decimal.Decimal                   `json:"gross_profit"`
	NetProfit            decimal.Decimal                   `json:"net_profit"`
	PendingReceivables   decimal.Decimal                   `json:"pending_receivables"`
	TotalPayables        decimal.Decimal                   `json:"total_payables"`
	MonthlyIncome        decimal.Decimal                   `json:"monthly_income"`
	MonthlyExpenses      decimal.Decimal                   `json:"monthly_expenses"`
	MonthlyNetProfit     decimal.Decimal                   `json:"monthly_net_profit"`
	TopExpenseCategories []repository.ExpenseCategoryTotal `json:"top_expense_categories"`
	RecentTransactions   []model.CashTransaction           `json:"recent_transactions"`
	CashBalance          decimal.Decimal                   `json:"cash_balance"`
}

// MonthlyIncomeStatement scopes revenue, COGS and operating expenses to one
// calendar month.
type MonthlyIncomeStatement struct {
	Year                   int             `json:"year"`
	Month                  int             `json:"month"`
	TotalRevenue           decimal.Decimal `json:"total_revenue"`
	TotalCOGS              decimal.Decimal `json:"total_cogs"`
	GrossProfit            decimal.Decimal `json:"gross_profit"`
	TotalOperatingExpenses decimal.Decimal `json:"total_operating_expenses"`
	NetIncome              decimal.Decimal `json:"net_income"`
}

// StatementService is the read-only projection layer: it never writes, and
// repeated calls with no intervening writes return identical results.
type StatementService interface {
	GetStatement(entityType model.CounterpartyKind, entityID uuid.UUID) (*Statement, error)
	GetFinancialSummary() (*FinancialSummary, error)
	GetMonthlyIncomeStatement(year, month int) (*MonthlyIncomeStatement, error)
}

type statementService struct {
	invoiceRepo      repository.InvoiceRepository
	counterpartyRepo repository.CounterpartyRepository
	reportRepo       repository.ReportRepository
	cash             CashService
	now              func() time.Time
}

func NewStatementService(
	invoiceRepo repository.InvoiceRepository,
	counterpartyRepo repository.CounterpartyRepository,
	reportRepo repository.ReportRepository,
	cash CashService,
) StatementService {
	return &statementService{
		invoiceRepo:      invoiceRepo,
		counterpartyRepo: counterpartyRepo,
		reportRepo:       reportRepo,
		cash:             cash,
		now:              time.Now,
	}
}

func (s *statementService) GetStatement(entityType model.CounterpartyKind, entityID uuid.UUID) (*Statement, error) {
	if !entityType.Valid() {
		return nil, validationErr("Statement.EntityType", "oneof")
	}

	cp, err := s.counterpartyRepo.FindByID(entityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("counterparty " + entityID.String())
		}
		return nil, err
	}
	if cp.Kind != entityType {
		return nil, validationErr("Statement.EntityType", "counterparty_kind")
	}

	kind := model.InvoiceSale
	if entityType == model.CounterpartySupplier {
		kind = model.InvoicePurchase
	}

	invoices, err := s.invoiceRepo.FindByCounterparty(kind, entityID)
	if err != nil {
		return nil, err
	}

	// Each invoice contributes a charge row; each of its payments a
	// settlement row. Debit/credit columns swap between customer and
	// supplier, the outstanding balance math does not.
	type event struct {
		date       time.Time
		desc       string
		charge     decimal.Decimal
		settlement decimal.Decimal
	}
	var events []event
	for i := range invoices {
		inv := &invoices[i]
		events = append(events, event{
			date:   inv.IssueDate,
			desc:   "Invoice " + inv.SeriesNumber,
			charge: inv.TotalAmount,
		})
		for _, p := range inv.Payments {
			events = append(events, event{
				date:       p.Date,
				desc:       p.Description,
				settlement: p.Amount,
			})
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].date.Before(events[j].date)
	})

	statement := &Statement{
		EntityType:   entityType,
		EntityID:     entityID,
		EntityName:   cp.Name,
		Transactions: []StatementRow{},
		Balance:      decimal.Zero,
	}
	outstanding := decimal.Zero
	for _, ev := range events {
		outstanding = outstanding.Add(ev.charge).Sub(ev.settlement)
		row := StatementRow{
			Date:        ev.date,
			Description: ev.desc,
			Balance:     outstanding,
		}
		if entityType == model.CounterpartyCustomer {
			row.Debit = ev.charge
			row.Credit = ev.settlement
		} else {
			row.Debit = ev.settlement
			row.Credit = ev.charge
		}
		statement.Transactions = append(statement.Transactions, row)
	}
	statement.Balance = outstanding

	return statement, nil
}

func monthWindow(year, month int) (time.Time, time.Time) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func (s *statementService) GetFinancialSummary() (*FinancialSummary, error) {
	var none time.Time

	income, err := s.reportRepo.SumPaidInvoices(model.InvoiceSale, none, none)
	if err != nil {
		return nil, err
	}
	cogs, err := s.reportRepo.SumCOGS(none, none)
	if err != nil {
		return nil, err
	}
	expenses, err := s.reportRepo.SumExpenses(none, none)
	if err != nil {
		return nil, err
	}
	receivables, err := s.reportRepo.SumPendingBalance(model.InvoiceSale)
	if err != nil {
		return nil, err
	}
	payables, err := s.reportRepo.SumPendingBalance(model.InvoicePurchase)
	if err != nil {
		return nil, err
	}

	now := s.now()
	monthFrom, monthTo := monthWindow(now.Year(), int(now.Month()))
	monthlyIncome, err := s.reportRepo.SumPaidInvoices(model.InvoiceSale, monthFrom, monthTo)
	if err != nil {
		return nil, err
	}
	monthlyCOGS, err := s.reportRepo.SumCOGS(monthFrom, monthTo)
	if err != nil {
		return nil, err
	}
	monthlyExpenses, err := s.reportRepo.SumExpenses(monthFrom, monthTo)
	if err != nil {
		return nil, err
	}

	topCategories, err := s.reportRepo.TopExpenseCategories(5)
	if err != nil {
		return nil, err
	}
	recent, err := s.cash.Recent(10)
	if err != nil {
		return nil, err
	}
	balance, err := s.cash.Balance()
	if err != nil {
		return nil, err
	}

	return &FinancialSummary{
		TotalIncome:          income,
		TotalCOGS:            cogs,
		TotalExpenses:        expenses,
		GrossProfit:          income.Sub(cogs),
		NetProfit:            income.Sub(cogs).Sub(expenses),
		PendingReceivables:   receivables,
		TotalPayables:        payables,
		MonthlyIncome:        monthlyIncome,
		MonthlyExpenses:      monthlyExpenses,
		MonthlyNetProfit:     monthlyIncome.Sub(monthlyCOGS).Sub(monthlyExpenses),
		TopExpenseCategories: topCategories,
		RecentTransactions:   recent,
		CashBalance:          balance,
	}, nil
}

func (s *statementService) GetMonthlyIncomeStatement(year, month int) (*MonthlyIncomeStatement, error) {
	if month < 1 || month > 12 {
		return nil, validationErr("IncomeStatement.Month", "range")
	}
	if year < 1 {
		return nil, validationErr("IncomeStatement.Year", "range")
	}

	from, to := monthWindow(year, month)
	revenue, err := s.reportRepo.SumPaidInvoices(model.InvoiceSale, from, to)
	if err != nil {
		return nil, err
	}
	cogs, err := s.reportRepo.SumCOGS(from, to)
	if err != nil {
		return nil, err
	}
	opex, err := s.reportRepo.SumExpenses(from, to)
	if err != nil {
		return nil, err
	}

	gross := revenue.Sub(cogs)
	return &MonthlyIncomeStatement{
		Year:                   year,
		Month:                  month,
		TotalRevenue:           revenue,
		TotalCOGS:              cogs,
		GrossProfit:            gross,
		TotalOperatingExpenses: opex,
		NetIncome:              gross.Sub(opex),
	}, nil
}
