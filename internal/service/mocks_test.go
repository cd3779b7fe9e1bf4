package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andy/gstbill/internal/domain"
	"github.com/andy/gstbill/internal/repository"
)

// mock implementations

type mockPartyRepo struct {
	kind    domain.PartyKind
	parties map[int64]*domain.Party
}

func newMockPartyRepo(kind domain.PartyKind, parties ...*domain.Party) *mockPartyRepo {
	m := &mockPartyRepo{kind: kind, parties: map[int64]*domain.Party{}}
	for _, p := range parties {
		m.parties[p.ID] = p
	}
	return m
}

func (m *mockPartyRepo) Kind() domain.PartyKind { return m.kind }
func (m *mockPartyRepo) Create(ctx context.Context, p *domain.Party) error {
	p.ID = int64(len(m.parties) + 1)
	m.parties[p.ID] = p
	return nil
}
func (m *mockPartyRepo) GetByID(ctx context.Context, id int64) (*domain.Party, error) {
	if p, ok := m.parties[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("party %d: %w", id, domain.ErrUnknownParty)
}
func (m *mockPartyRepo) GetByName(ctx context.Context, name string) (*domain.Party, error) {
	for _, p := range m.parties {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("party %q: %w", name, domain.ErrUnknownParty)
}
func (m *mockPartyRepo) List(ctx context.Context) ([]*domain.Party, error) { return nil, nil }
func (m *mockPartyRepo) Update(ctx context.Context, p *domain.Party) error { return nil }
func (m *mockPartyRepo) Delete(ctx context.Context, id int64) error {
	delete(m.parties, id)
	return nil
}

type mockProductRepo struct {
	products map[string]*domain.Product
}

func newMockProductRepo(products ...*domain.Product) *mockProductRepo {
	m := &mockProductRepo{products: map[string]*domain.Product{}}
	for _, p := range products {
		m.products[p.Name] = p
	}
	return m
}

func (m *mockProductRepo) Create(ctx context.Context, p *domain.Product) error { return nil }
func (m *mockProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}
func (m *mockProductRepo) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	if p, ok := m.products[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("product %q: %w", name, domain.ErrProductNotFound)
}
func (m *mockProductRepo) List(ctx context.Context) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}
func (m *mockProductRepo) ListLowStock(ctx context.Context) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range m.products {
		if p.Status() == domain.StockLow {
			out = append(out, p)
		}
	}
	return out, nil
}
func (m *mockProductRepo) Update(ctx context.Context, p *domain.Product) error { return nil }
func (m *mockProductRepo) Delete(ctx context.Context, id int64) error          { return nil }

type mockInvoiceRepo struct {
	byNumber  map[string]*domain.Invoice
	seq       int
	failWrite error
	listCalls int
}

func newMockInvoiceRepo() *mockInvoiceRepo {
	return &mockInvoiceRepo{byNumber: map[string]*domain.Invoice{}}
}

func (m *mockInvoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	if err := inv.Validate(); err != nil {
		return err
	}
	if m.failWrite != nil {
		return m.failWrite
	}
	if _, ok := m.byNumber[inv.InvoiceNumber]; ok {
		return fmt.Errorf("invoice %s: %w", inv.InvoiceNumber, domain.ErrDuplicateInvoiceNumber)
	}
	inv.ID = int64(len(m.byNumber) + 1)
	m.byNumber[inv.InvoiceNumber] = inv
	return nil
}
func (m *mockInvoiceRepo) byID(id int64) (*domain.Invoice, error) {
	for _, inv := range m.byNumber {
		if inv.ID == id {
			return inv, nil
		}
	}
	return nil, domain.ErrInvoiceNotFound
}
func (m *mockInvoiceRepo) GetByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	if inv, ok := m.byNumber[number]; ok {
		return inv, nil
	}
	return nil, domain.ErrInvoiceNotFound
}
func (m *mockInvoiceRepo) List(ctx context.Context, from, to *time.Time) ([]*domain.Invoice, error) {
	m.listCalls++
	var out []*domain.Invoice
	for _, inv := range m.byNumber {
		if from != nil && inv.Date.Before(*from) {
			continue
		}
		if to != nil && inv.Date.After(*to) {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}
func (m *mockInvoiceRepo) GetLineItems(ctx context.Context, invoiceID int64) ([]domain.LineItem, error) {
	inv, err := m.byID(invoiceID)
	if err != nil {
		return nil, err
	}
	return inv.LineItems, nil
}
func (m *mockInvoiceRepo) NextInvoiceNumber(ctx context.Context, prefix string, year int) (string, error) {
	m.seq++
	return fmt.Sprintf("%s-%d-%05d", prefix, year, m.seq), nil
}

type mockReportRepo struct {
	outward []domain.SupplyRow
	inward  []domain.SupplyRow
	moves   []domain.StockMovement
	queries int
}

func (m *mockReportRepo) OutwardSupplies(ctx context.Context, from, to time.Time) ([]domain.SupplyRow, error) {
	m.queries++
	return m.outward, nil
}
func (m *mockReportRepo) InwardSupplies(ctx context.Context, from, to time.Time) ([]domain.SupplyRow, error) {
	m.queries++
	return m.inward, nil
}
func (m *mockReportRepo) StockMovements(ctx context.Context, limit int) ([]domain.StockMovement, error) {
	m.queries++
	if limit > 0 && limit < len(m.moves) {
		return m.moves[:limit], nil
	}
	return m.moves, nil
}

type mockPurchaseRepo struct {
	created []*domain.Purchase
}

func (m *mockPurchaseRepo) Create(ctx context.Context, p *domain.Purchase) error {
	p.ID = int64(len(m.created) + 1)
	m.created = append(m.created, p)
	return nil
}
func (m *mockPurchaseRepo) GetByID(ctx context.Context, id int64) (*domain.Purchase, error) {
	return nil, domain.ErrNotFound
}
func (m *mockPurchaseRepo) List(ctx context.Context, from, to *time.Time) ([]*domain.Purchase, error) {
	return m.created, nil
}
func (m *mockPurchaseRepo) Delete(ctx context.Context, id int64) error { return nil }

// mockTxRunner hands the same repositories to fn; rollback is modelled by
// the repositories refusing bad writes before storing anything.
type mockTxRunner struct {
	repos repository.Repos
	calls int
}

func (m *mockTxRunner) WithinTx(ctx context.Context, fn func(r repository.Repos) error) error {
	m.calls++
	return fn(m.repos)
}

type mockRenderer struct {
	err      error
	rendered []string
}

func (m *mockRenderer) Render(ctx context.Context, inv *domain.Invoice, customer *domain.Party) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.rendered = append(m.rendered, inv.InvoiceNumber)
	return "/docs/" + inv.InvoiceNumber + ".pdf", nil
}

type mockReportWriter struct {
	err     error
	written []*domain.PeriodReport
}

func (m *mockReportWriter) Write(r *domain.PeriodReport) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.written = append(m.written, r)
	base := r.Kind.ReturnName()
	return []string{base + ".json", base + ".csv", base + ".xlsx"}, nil
}

var errDiskFull = errors.New("disk full")
