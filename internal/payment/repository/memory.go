package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/geomarket/payments/internal/payment/domain"
)

// MemoryStore is an in-memory ledger store. It backs the test suites and
// doubles as a fixture-friendly stand-in for local development without
// PostgreSQL.
type MemoryStore struct {
	mu       sync.Mutex
	payments map[string]domain.Payment
	refunds  []domain.PaymentRefund
	payouts  map[string]domain.Payout
	items    map[string]domain.PayoutItem // keyed by payment id
	invoices map[string]domain.Invoice    // keyed by payment id
	taxRules []domain.TaxRule
	schemes  []domain.RevenueShareScheme
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		payments: make(map[string]domain.Payment),
		payouts:  make(map[string]domain.Payout),
		items:    make(map[string]domain.PayoutItem),
		invoices: make(map[string]domain.Invoice),
	}
}

// ItemForPayment returns the payout item recorded for a payment, if any.
func (s *MemoryStore) ItemForPayment(paymentID string) (domain.PayoutItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[paymentID]
	return item, ok
}

// SeedTaxRules replaces the tax rule fixtures.
func (s *MemoryStore) SeedTaxRules(rules ...domain.TaxRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taxRules = append([]domain.TaxRule{}, rules...)
}

// SeedSchemes replaces the revenue-share scheme fixtures.
func (s *MemoryStore) SeedSchemes(schemes ...domain.RevenueShareScheme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schemes = append([]domain.RevenueShareScheme{}, schemes...)
}

func (s *MemoryStore) Payments() domain.PaymentRepository     { return &memoryPayments{s} }
func (s *MemoryStore) Refunds() domain.RefundRepository       { return &memoryRefunds{s} }
func (s *MemoryStore) Payouts() domain.PayoutRepository       { return &memoryPayouts{s} }
func (s *MemoryStore) Invoices() domain.InvoiceRepository     { return &memoryInvoices{s} }
func (s *MemoryStore) TaxRules() domain.TaxRuleRepository     { return &memoryTaxRules{s} }
func (s *MemoryStore) Schemes() domain.RevenueSchemeRepository {
	return &memorySchemes{s}
}
func (s *MemoryStore) Reporting() domain.ReportingRepository { return &memoryReporting{s} }

type memoryPayments struct{ s *MemoryStore }

func (r *memoryPayments) Create(payment *domain.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.payments {
		if existing.Reference == payment.Reference {
			return domain.ErrDuplicate
		}
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	r.s.payments[payment.ID] = *payment
	return nil
}

func (r *memoryPayments) FindByID(id string) (*domain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	payment, ok := r.s.payments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &payment, nil
}

func (r *memoryPayments) FindByReference(reference string) (*domain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, payment := range r.s.payments {
		if payment.Reference == reference {
			p := payment
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryPayments) Update(payment *domain.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.payments[payment.ID]; !ok {
		return domain.ErrNotFound
	}
	payment.UpdatedAt = time.Now()
	r.s.payments[payment.ID] = *payment
	return nil
}

func (r *memoryPayments) UpdateEscrowStatus(id string, status domain.EscrowStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	payment, ok := r.s.payments[id]
	if !ok {
		return domain.ErrNotFound
	}
	payment.EscrowStatus = &status
	r.s.payments[id] = payment
	return nil
}

func (r *memoryPayments) FindByUser(userID string, status domain.PaymentStatus, limit, offset int) ([]domain.Payment, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	matched := []domain.Payment{}
	for _, payment := range r.s.payments {
		if payment.UserID != userID {
			continue
		}
		if status != "" && payment.Status != status {
			continue
		}
		matched = append(matched, payment)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	return paginate(matched, limit, offset), total, nil
}

type memoryRefunds struct{ s *MemoryStore }

func (r *memoryRefunds) ApplyRefund(refund *domain.PaymentRefund) (domain.PaymentStatus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	payment, ok := r.s.payments[refund.PaymentID]
	if !ok {
		return "", domain.ErrNotFound
	}

	if refund.CreatedAt.IsZero() {
		refund.CreatedAt = time.Now()
	}
	r.s.refunds = append(r.s.refunds, *refund)

	total := decimal.Zero
	for _, existing := range r.s.refunds {
		if existing.PaymentID == refund.PaymentID {
			total = total.Add(existing.Amount)
		}
	}

	switch {
	case total.GreaterThanOrEqual(payment.Amount):
		payment.Status = domain.StatusRefunded
	case total.GreaterThan(decimal.Zero):
		payment.Status = domain.StatusPartiallyRefunded
	}
	r.s.payments[payment.ID] = payment

	return payment.Status, nil
}

func (r *memoryRefunds) FindByPayment(paymentID string) ([]domain.PaymentRefund, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	refunds := []domain.PaymentRefund{}
	for _, refund := range r.s.refunds {
		if refund.PaymentID == paymentID {
			refunds = append(refunds, refund)
		}
	}
	return refunds, nil
}

type memoryPayouts struct{ s *MemoryStore }

func (r *memoryPayouts) Create(payout *domain.Payout) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if payout.CreatedAt.IsZero() {
		payout.CreatedAt = time.Now()
	}
	r.s.payouts[payout.ID] = *payout
	return nil
}

func (r *memoryPayouts) FindScheduledInWindow(sellerID, currency string, dayStart, dayEnd time.Time) (*domain.Payout, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, payout := range r.s.payouts {
		if payout.SellerID != sellerID || payout.Currency != currency || payout.Status != domain.PayoutScheduled {
			continue
		}
		if payout.ScheduledAt.Before(dayStart) || !payout.ScheduledAt.Before(dayEnd) {
			continue
		}
		p := payout
		return &p, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memoryPayouts) HasItemForPayment(paymentID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.items[paymentID]
	return ok, nil
}

func (r *memoryPayouts) CreateItem(item *domain.PayoutItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.items[item.PaymentID]; ok {
		return domain.ErrDuplicate
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	r.s.items[item.PaymentID] = *item
	return nil
}

func (r *memoryPayouts) IncrementTotal(payoutID string, amount decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	payout, ok := r.s.payouts[payoutID]
	if !ok {
		return domain.ErrNotFound
	}
	payout.TotalAmount = payout.TotalAmount.Add(amount)
	r.s.payouts[payoutID] = payout
	return nil
}

func (r *memoryPayouts) FindBySeller(sellerID string, limit, offset int) ([]domain.Payout, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	matched := []domain.Payout{}
	for _, payout := range r.s.payouts {
		if payout.SellerID == sellerID {
			matched = append(matched, payout)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ScheduledAt.After(matched[j].ScheduledAt)
	})

	total := int64(len(matched))
	return paginate(matched, limit, offset), total, nil
}

type memoryInvoices struct{ s *MemoryStore }

func (r *memoryInvoices) Create(invoice *domain.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.invoices[invoice.PaymentID]; ok {
		return domain.ErrDuplicate
	}
	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = time.Now()
	}
	r.s.invoices[invoice.PaymentID] = *invoice
	return nil
}

func (r *memoryInvoices) FindByPayment(paymentID string) (*domain.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	invoice, ok := r.s.invoices[paymentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &invoice, nil
}

type memoryTaxRules struct{ s *MemoryStore }

func (r *memoryTaxRules) FindActive() ([]domain.TaxRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	active := []domain.TaxRule{}
	for _, rule := range r.s.taxRules {
		if rule.IsActive {
			active = append(active, rule)
		}
	}
	return active, nil
}

type memorySchemes struct{ s *MemoryStore }

func (r *memorySchemes) FindActiveScheme(category string) (*domain.RevenueShareScheme, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if scheme := latestScheme(r.s.schemes, category); scheme != nil {
		return scheme, nil
	}
	if category != "" {
		if scheme := latestScheme(r.s.schemes, ""); scheme != nil {
			return scheme, nil
		}
	}
	return nil, domain.ErrNotFound
}

func latestScheme(schemes []domain.RevenueShareScheme, category string) *domain.RevenueShareScheme {
	var latest *domain.RevenueShareScheme
	for i := range schemes {
		scheme := schemes[i]
		if !scheme.IsActive || scheme.Category != category {
			continue
		}
		if latest == nil || scheme.CreatedAt.After(latest.CreatedAt) {
			latest = &scheme
		}
	}
	return latest
}

func (r *memorySchemes) FindActive() ([]domain.RevenueShareScheme, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	active := []domain.RevenueShareScheme{}
	for _, scheme := range r.s.schemes {
		if scheme.IsActive {
			active = append(active, scheme)
		}
	}
	return active, nil
}

type memoryReporting struct{ s *MemoryStore }

func (r *memoryReporting) SellerFinancials(sellerID string) (*domain.SellerFinancials, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	fin := &domain.SellerFinancials{
		SellerID:       sellerID,
		TotalSales:     decimal.Zero,
		PlatformFees:   decimal.Zero,
		RefundsIssued:  decimal.Zero,
		NetEarnings:    decimal.Zero,
		PendingPayouts: decimal.Zero,
		RecentPayments: []domain.Payment{},
		RecentPayouts:  []domain.Payout{},
	}

	for _, payment := range r.s.payments {
		if payment.SellerID != sellerID {
			continue
		}
		fin.RecentPayments = append(fin.RecentPayments, payment)
		if payment.Status == domain.StatusCompleted {
			fin.TotalSales = fin.TotalSales.Add(payment.Amount)
			fin.PlatformFees = fin.PlatformFees.Add(payment.PlatformCut)
			fin.NetEarnings = fin.NetEarnings.Add(payment.SellerNet)
			fin.TransactionCount++
		}
		for _, refund := range r.s.refunds {
			if refund.PaymentID == payment.ID {
				fin.RefundsIssued = fin.RefundsIssued.Add(refund.Amount)
			}
		}
	}

	for _, payout := range r.s.payouts {
		if payout.SellerID != sellerID {
			continue
		}
		fin.RecentPayouts = append(fin.RecentPayouts, payout)
		switch payout.Status {
		case domain.PayoutScheduled:
			fin.PendingPayouts = fin.PendingPayouts.Add(payout.TotalAmount)
		case domain.PayoutCompleted:
			fin.CompletedPayouts++
		}
	}

	sort.Slice(fin.RecentPayments, func(i, j int) bool {
		return fin.RecentPayments[i].CreatedAt.After(fin.RecentPayments[j].CreatedAt)
	})
	if len(fin.RecentPayments) > 10 {
		fin.RecentPayments = fin.RecentPayments[:10]
	}
	sort.Slice(fin.RecentPayouts, func(i, j int) bool {
		return fin.RecentPayouts[i].ScheduledAt.After(fin.RecentPayouts[j].ScheduledAt)
	})
	if len(fin.RecentPayouts) > 10 {
		fin.RecentPayouts = fin.RecentPayouts[:10]
	}

	return fin, nil
}

func (r *memoryReporting) FinancialReport(start, end time.Time) (*domain.FinancialReport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	report := &domain.FinancialReport{
		StartDate:    start,
		EndDate:      end,
		TotalRevenue: decimal.Zero,
		TotalFees:    decimal.Zero,
		TotalRefunds: decimal.Zero,
		ByMethod:     []domain.MethodReportRow{},
	}

	byMethod := map[domain.PaymentMethod]*domain.MethodReportRow{}
	for _, payment := range r.s.payments {
		if payment.CreatedAt.Before(start) || !payment.CreatedAt.Before(end) {
			continue
		}
		switch payment.Status {
		case domain.StatusCompleted, domain.StatusRefunded, domain.StatusPartiallyRefunded:
		default:
			continue
		}

		row, ok := byMethod[payment.Method]
		if !ok {
			row = &domain.MethodReportRow{
				Method:  payment.Method,
				Revenue: decimal.Zero,
				Fees:    decimal.Zero,
				Refunds: decimal.Zero,
			}
			byMethod[payment.Method] = row
		}
		row.Transactions++
		row.Revenue = row.Revenue.Add(payment.Amount)
		row.Fees = row.Fees.Add(payment.PlatformCut)

		for _, refund := range r.s.refunds {
			if refund.PaymentID == payment.ID {
				row.Refunds = row.Refunds.Add(refund.Amount)
			}
		}
	}

	methods := make([]domain.PaymentMethod, 0, len(byMethod))
	for method := range byMethod {
		methods = append(methods, method)
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i] < methods[j] })

	for _, method := range methods {
		row := byMethod[method]
		report.ByMethod = append(report.ByMethod, *row)
		report.TotalRevenue = report.TotalRevenue.Add(row.Revenue)
		report.TotalFees = report.TotalFees.Add(row.Fees)
		report.TotalRefunds = report.TotalRefunds.Add(row.Refunds)
		report.Transactions += row.Transactions
	}

	return report, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
