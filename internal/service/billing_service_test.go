package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andy/gstbill/internal/domain"
	"github.com/andy/gstbill/internal/repository"
)

type billingFixture struct {
	svc       BillingService
	invoices  *mockInvoiceRepo
	customers *mockPartyRepo
	renderer  *mockRenderer
	tx        *mockTxRunner
	session   *Session
}

func newBillingFixture(t *testing.T) *billingFixture {
	t.Helper()
	acme := domain.NewParty(domain.PartyCustomer, "Acme", "29ABCDE1234F1Z5")
	acme.ID = 1

	widget := domain.NewProduct("Widget", "8471", domain.Rate18, decimal.RequireFromString("100.00"))
	widget.ID = 10

	f := &billingFixture{
		invoices:  newMockInvoiceRepo(),
		customers: newMockPartyRepo(domain.PartyCustomer, acme),
		renderer:  &mockRenderer{},
		session:   NewSession(),
	}
	products := newMockProductRepo(widget)
	f.tx = &mockTxRunner{repos: repository.Repos{
		Customers: f.customers,
		Products:  products,
		Invoices:  f.invoices,
	}}
	f.svc = NewBillingService(f.tx, f.customers, products, f.invoices, f.renderer, "INV", zerolog.Nop())
	return f
}

func (f *billingFixture) fill(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.svc.SelectCustomer(ctx, f.session, "Acme"))
	_, err := f.svc.AddItem(ctx, f.session, "Widget", 3)
	require.NoError(t, err)
}

var billDate = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

func TestAssemble_WidgetEndToEnd(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SelectCustomer(ctx, f.session, "Acme"))
	totals, err := f.svc.AddItem(ctx, f.session, "Widget", 3)
	require.NoError(t, err)
	assert.Equal(t, "300.00", domain.FormatMoney(totals.Subtotal))
	assert.Equal(t, "27.00", domain.FormatMoney(totals.CGST))
	assert.Equal(t, "27.00", domain.FormatMoney(totals.SGST))
	assert.Equal(t, "354.00", domain.FormatMoney(totals.GrandTotal))

	receipt, err := f.svc.Assemble(ctx, f.session, AssembleOptions{Date: billDate})
	require.NoError(t, err)
	require.NoError(t, receipt.Warning)

	inv := receipt.Invoice
	assert.Equal(t, "INV-2026-00001", inv.InvoiceNumber)
	assert.Equal(t, "300.00", domain.FormatMoney(inv.Subtotal))
	assert.Equal(t, "27.00", domain.FormatMoney(inv.CGST))
	assert.Equal(t, "27.00", domain.FormatMoney(inv.SGST))
	assert.True(t, inv.IGST.IsZero())
	assert.Equal(t, "354.00", domain.FormatMoney(inv.GrandTotal))
	assert.Equal(t, domain.InvoiceStatusPaid, inv.Status)
	assert.Equal(t, "Acme", inv.Customer.Name)

	assert.Equal(t, "/docs/INV-2026-00001.pdf", receipt.DocumentPath)
	assert.Equal(t, []string{"INV-2026-00001"}, f.renderer.rendered)
	assert.True(t, f.session.Ledger.IsEmpty())
	assert.Contains(t, f.invoices.byNumber, "INV-2026-00001")
}

func TestAssemble_EmptyLedgerWritesNothing(t *testing.T) {
	f := newBillingFixture(t)
	require.NoError(t, f.svc.SelectCustomer(context.Background(), f.session, "Acme"))

	_, err := f.svc.Assemble(context.Background(), f.session, AssembleOptions{Date: billDate})
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, f.tx.calls)
	assert.Empty(t, f.invoices.byNumber)
}

func TestAssemble_UnknownCustomer(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()

	err := f.svc.SelectCustomer(ctx, f.session, "Nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.AddItem(ctx, f.session, "Widget", 1)
	require.NoError(t, err)
	_, err = f.svc.Assemble(ctx, f.session, AssembleOptions{Date: billDate})
	assert.ErrorIs(t, err, domain.ErrUnknownParty)

	// customer removed after being selected
	require.NoError(t, f.svc.SelectCustomer(ctx, f.session, "Acme"))
	delete(f.customers.parties, 1)
	_, err = f.svc.Assemble(ctx, f.session, AssembleOptions{Date: billDate})
	assert.ErrorIs(t, err, domain.ErrUnknownParty)
	assert.Equal(t, 1, f.session.Ledger.Len())
	assert.Empty(t, f.invoices.byNumber)
}

func TestAssemble_DistinctNumbersPersistIndependently(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()

	f.fill(t)
	first, err := f.svc.Assemble(ctx, f.session, AssembleOptions{Date: billDate})
	require.NoError(t, err)

	f.fill(t)
	second, err := f.svc.Assemble(ctx, f.session, AssembleOptions{Date: billDate})
	require.NoError(t, err)

	assert.NotEqual(t, first.Invoice.InvoiceNumber, second.Invoice.InvoiceNumber)
	assert.Len(t, f.invoices.byNumber, 2)
	assert.True(t, first.Invoice.GrandTotal.Equal(second.Invoice.GrandTotal))
}

func TestAssemble_DuplicateNumberKeepsLedger(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()

	f.fill(t)
	first, err := f.svc.Assemble(ctx, f.session, AssembleOptions{Date: billDate, Number: "INV-2026-00042"})
	require.NoError(t, err)

	_, err = f.svc.AddItem(ctx, f.session, "Widget", 7)
	require.NoError(t, err)
	_, err = f.svc.Assemble(ctx, f.session, AssembleOptions{Date: billDate, Number: "INV-2026-00042"})
	assert.ErrorIs(t, err, domain.ErrDuplicateInvoiceNumber)
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.Equal(t, 1, f.session.Ledger.Len(), "ledger must survive a failed commit")
	stored := f.invoices.byNumber["INV-2026-00042"]
	assert.True(t, stored.GrandTotal.Equal(first.Invoice.GrandTotal))
	assert.Len(t, f.renderer.rendered, 1)
}

func TestAssemble_PersistenceFailureKeepsLedger(t *testing.T) {
	f := newBillingFixture(t)
	f.fill(t)
	f.invoices.failWrite = fmt.Errorf("failed to create invoice: %w: %w", domain.ErrPersistence, errDiskFull)

	_, err := f.svc.Assemble(context.Background(), f.session, AssembleOptions{Date: billDate})
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, 1, f.session.Ledger.Len())
	assert.Empty(t, f.renderer.rendered)
}

func TestAssemble_RenderFailureIsWarning(t *testing.T) {
	f := newBillingFixture(t)
	f.fill(t)
	f.renderer.err = errDiskFull

	receipt, err := f.svc.Assemble(context.Background(), f.session, AssembleOptions{Date: billDate})
	require.NoError(t, err)
	require.Error(t, receipt.Warning)
	assert.ErrorIs(t, receipt.Warning, domain.ErrExport)
	assert.ErrorIs(t, receipt.Warning, errDiskFull)
	assert.Empty(t, receipt.DocumentPath)

	assert.Contains(t, f.invoices.byNumber, receipt.Invoice.InvoiceNumber)
	assert.True(t, f.session.Ledger.IsEmpty())
}

func TestAddItem_Validation(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, f.session, "Widget", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.svc.AddItem(ctx, f.session, "Gadget", 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.True(t, f.session.Ledger.IsEmpty())

	_, err = f.svc.AddItem(ctx, f.session, "Widget", 2)
	require.NoError(t, err)
	totals, err := f.svc.RemoveItem(f.session, 0)
	require.NoError(t, err)
	assert.True(t, totals.GrandTotal.IsZero())
}

func TestRenderInvoice_Rerender(t *testing.T) {
	f := newBillingFixture(t)
	f.fill(t)
	receipt, err := f.svc.Assemble(context.Background(), f.session, AssembleOptions{Date: billDate})
	require.NoError(t, err)

	path, err := f.svc.RenderInvoice(context.Background(), receipt.Invoice.InvoiceNumber)
	require.NoError(t, err)
	assert.Equal(t, "/docs/"+receipt.Invoice.InvoiceNumber+".pdf", path)

	_, err = f.svc.RenderInvoice(context.Background(), "INV-1999-00001")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
