package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/andy/gstbill/internal/domain"
	"github.com/andy/gstbill/internal/repository"
)

// Session is one in-progress bill: the selected customer and the ledger of
// lines added so far. Callers own it and pass it to every billing call.
type Session struct {
	Customer *domain.Party
	Ledger   *domain.Ledger
}

// NewSession starts an empty bill
func NewSession() *Session {
	return &Session{Ledger: domain.NewLedger()}
}

// Reset drops the customer and every line
func (s *Session) Reset() {
	s.Customer = nil
	s.Ledger.Clear()
}

// AssembleOptions tune a single assembly. Zero values mean today's date and
// the next number in the yearly sequence.
type AssembleOptions struct {
	Date   time.Time
	Number string
}

// Receipt is the outcome of a committed invoice. Warning is set when the
// invoice was saved but its document could not be written; the invoice
// stays recorded either way.
type Receipt struct {
	Invoice      *domain.Invoice
	DocumentPath string
	Warning      error
}

// DocumentRenderer writes the printable form of a committed invoice and
// returns where it was written.
type DocumentRenderer interface {
	Render(ctx context.Context, invoice *domain.Invoice, customer *domain.Party) (string, error)
}

// BillingService drives a bill from selection to committed invoice
type BillingService interface {
	// SelectCustomer binds the session to an existing customer by name
	SelectCustomer(ctx context.Context, s *Session, name string) error

	// AddItem looks up the product and adds a priced line to the ledger
	AddItem(ctx context.Context, s *Session, productName string, quantity int) (domain.Totals, error)

	// RemoveItem drops a line from the ledger
	RemoveItem(s *Session, index int) (domain.Totals, error)

	// Assemble commits the session's ledger as one invoice, then renders it
	// and clears the ledger
	Assemble(ctx context.Context, s *Session, opts AssembleOptions) (*Receipt, error)

	// GetInvoice retrieves an invoice with its lines and customer
	GetInvoice(ctx context.Context, number string) (*domain.Invoice, error)

	// ListInvoices lists invoices dated within the optional bounds
	ListInvoices(ctx context.Context, from, to *time.Time) ([]*domain.Invoice, error)

	// RenderInvoice writes the document for an already committed invoice
	RenderInvoice(ctx context.Context, number string) (string, error)
}

type billingService struct {
	tx        repository.TxRunner
	customers repository.PartyRepository
	products  repository.ProductRepository
	invoices  repository.InvoiceRepository
	renderer  DocumentRenderer
	prefix    string
	log       zerolog.Logger
}

// NewBillingService creates a new billing service. renderer may be nil, in
// which case no document is produced.
func NewBillingService(
	tx repository.TxRunner,
	customers repository.PartyRepository,
	products repository.ProductRepository,
	invoices repository.InvoiceRepository,
	renderer DocumentRenderer,
	prefix string,
	log zerolog.Logger,
) BillingService {
	return &billingService{
		tx:        tx,
		customers: customers,
		products:  products,
		invoices:  invoices,
		renderer:  renderer,
		prefix:    prefix,
		log:       log,
	}
}

func (b *billingService) SelectCustomer(ctx context.Context, s *Session, name string) error {
	customer, err := b.customers.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return err
	}
	s.Customer = customer
	return nil
}

func (b *billingService) AddItem(ctx context.Context, s *Session, productName string, quantity int) (domain.Totals, error) {
	if quantity <= 0 {
		return domain.Totals{}, fmt.Errorf("%w: got %d", domain.ErrInvalidQuantity, quantity)
	}
	product, err := b.products.GetByName(ctx, strings.TrimSpace(productName))
	if err != nil {
		return domain.Totals{}, err
	}
	return s.Ledger.Add(product, quantity)
}

func (b *billingService) RemoveItem(s *Session, index int) (domain.Totals, error) {
	return s.Ledger.Remove(index)
}

func (b *billingService) Assemble(ctx context.Context, s *Session, opts AssembleOptions) (*Receipt, error) {
	if s.Ledger.IsEmpty() {
		return nil, domain.ErrEmptyDocument
	}
	if s.Customer == nil {
		return nil, fmt.Errorf("no customer selected: %w", domain.ErrUnknownParty)
	}

	date := opts.Date
	if date.IsZero() {
		date = time.Now()
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	var (
		invoice  *domain.Invoice
		customer *domain.Party
	)
	err := b.tx.WithinTx(ctx, func(r repository.Repos) error {
		c, err := r.Customers.GetByID(ctx, s.Customer.ID)
		if err != nil {
			return err
		}

		number := strings.TrimSpace(opts.Number)
		if number == "" {
			number, err = r.Invoices.NextInvoiceNumber(ctx, b.prefix, date.Year())
			if err != nil {
				return err
			}
		}

		inv := domain.NewInvoice(number, c.ID, date, s.Ledger.Items())
		if err := r.Invoices.Create(ctx, inv); err != nil {
			return err
		}
		invoice, customer = inv, c
		return nil
	})
	if err != nil {
		b.log.Warn().Err(err).Int("lines", s.Ledger.Len()).Msg("invoice not committed")
		return nil, err
	}

	invoice.Customer = customer
	b.log.Info().
		Str("invoice", invoice.InvoiceNumber).
		Str("customer", customer.Name).
		Str("grand_total", domain.FormatMoney(invoice.GrandTotal)).
		Msg("invoice committed")

	s.Ledger.Clear()

	receipt := &Receipt{Invoice: invoice}
	if b.renderer == nil {
		return receipt, nil
	}
	path, err := b.renderer.Render(ctx, invoice, customer)
	if err != nil {
		receipt.Warning = fmt.Errorf("invoice %s saved but document not written: %w: %w", invoice.InvoiceNumber, domain.ErrExport, err)
		b.log.Error().Err(err).Str("invoice", invoice.InvoiceNumber).Msg("document render failed")
		return receipt, nil
	}
	receipt.DocumentPath = path
	b.log.Info().Str("invoice", invoice.InvoiceNumber).Str("path", path).Msg("document written")
	return receipt, nil
}

func (b *billingService) GetInvoice(ctx context.Context, number string) (*domain.Invoice, error) {
	invoice, err := b.invoices.GetByNumber(ctx, strings.TrimSpace(number))
	if err != nil {
		return nil, err
	}
	customer, err := b.customers.GetByID(ctx, invoice.CustomerID)
	if err != nil {
		return nil, err
	}
	invoice.Customer = customer
	return invoice, nil
}

func (b *billingService) ListInvoices(ctx context.Context, from, to *time.Time) ([]*domain.Invoice, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, domain.ErrInvalidRange
	}
	return b.invoices.List(ctx, from, to)
}

func (b *billingService) RenderInvoice(ctx context.Context, number string) (string, error) {
	if b.renderer == nil {
		return "", fmt.Errorf("%w: no document renderer configured", domain.ErrExport)
	}
	invoice, err := b.GetInvoice(ctx, number)
	if err != nil {
		return "", err
	}
	path, err := b.renderer.Render(ctx, invoice, invoice.Customer)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrExport, err)
	}
	return path, nil
}
