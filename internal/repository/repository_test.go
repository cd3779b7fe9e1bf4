package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andy/gstbill/internal/db"
	"github.com/andy/gstbill/internal/domain"
)

func newTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "gstbill.db"), "test-key")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations())
	t.Cleanup(func() { database.Close() })
	return database
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(domain.DateLayout, s)
	require.NoError(t, err)
	return d
}

type fixture struct {
	repos    Repos
	customer *domain.Party
	vendor   *domain.Party
	widget   *domain.Product
	cable    *domain.Product
}

func newFixture(t *testing.T, database *db.DB) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{repos: NewRepos(database)}

	f.customer = domain.NewParty(domain.PartyCustomer, "Acme", "29ABCDE1234F1Z5")
	require.NoError(t, f.repos.Customers.Create(ctx, f.customer))

	f.vendor = domain.NewParty(domain.PartyVendor, "Parts Co", "")
	require.NoError(t, f.repos.Vendors.Create(ctx, f.vendor))

	f.widget = domain.NewProduct("Widget", "8471", domain.Rate18, decimal.RequireFromString("100"))
	require.NoError(t, f.repos.Products.Create(ctx, f.widget))

	f.cable = domain.NewProduct("Cable", "8544", domain.Rate5, decimal.RequireFromString("20"))
	require.NoError(t, f.repos.Products.Create(ctx, f.cable))
	return f
}

func (f *fixture) invoice(t *testing.T, number, date string, lines ...any) *domain.Invoice {
	t.Helper()
	l := domain.NewLedger()
	for i := 0; i < len(lines); i += 2 {
		_, err := l.Add(lines[i].(*domain.Product), lines[i+1].(int))
		require.NoError(t, err)
	}
	return domain.NewInvoice(number, f.customer.ID, day(t, date), l.Items())
}

func TestMigrations_Idempotent(t *testing.T) {
	database := newTestDB(t)
	require.NoError(t, database.RunMigrations())

	var version int
	require.NoError(t, database.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestPartyRepo_CRUD(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	customers := NewCustomerRepo(database)

	p := domain.NewParty(domain.PartyCustomer, "Acme", "29ABCDE1234F1Z5")
	p.Email = "billing@acme.test"
	require.NoError(t, customers.Create(ctx, p))
	require.NotZero(t, p.ID)

	got, err := customers.GetByName(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "billing@acme.test", got.Email)
	assert.Equal(t, domain.PartyCustomer, got.Kind)

	got.Address = "12 MG Road"
	require.NoError(t, customers.Update(ctx, got))
	again, err := customers.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "12 MG Road", again.Address)

	dup := domain.NewParty(domain.PartyCustomer, "Acme", "")
	err = customers.Create(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// same name is allowed for a vendor
	require.NoError(t, NewVendorRepo(database).Create(ctx, domain.NewParty(domain.PartyVendor, "Acme", "")))

	require.NoError(t, customers.Delete(ctx, p.ID))
	_, err = customers.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPartyRepo_DeleteReferenced(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database)

	require.NoError(t, f.repos.Invoices.Create(ctx, f.invoice(t, "INV-2026-00001", "2026-04-01", f.widget, 1)))

	err := f.repos.Customers.Delete(ctx, f.customer.ID)
	assert.ErrorIs(t, err, domain.ErrPartyInUse)
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = f.repos.Products.Delete(ctx, f.widget.ID)
	assert.ErrorIs(t, err, domain.ErrProductInUse)

	require.NoError(t, f.repos.Products.Delete(ctx, f.cable.ID))
}

func TestProductRepo_LowStock(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database)

	f.widget.StockQuantity = 2
	f.widget.MinStockLevel = 5
	require.NoError(t, f.repos.Products.Update(ctx, f.widget))
	f.cable.StockQuantity = 50
	f.cable.MinStockLevel = 5
	require.NoError(t, f.repos.Products.Update(ctx, f.cable))

	low, err := f.repos.Products.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Widget", low[0].Name)
	assert.True(t, low[0].Price.Equal(decimal.RequireFromString("100")))
	assert.Equal(t, domain.Rate18, low[0].Rate)
}

func TestInvoiceRepo_CreateAndRead(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database)

	inv := f.invoice(t, "INV-2026-00001", "2026-04-01", f.widget, 3, f.cable, 2)
	require.NoError(t, f.repos.Invoices.Create(ctx, inv))

	got, err := f.repos.Invoices.GetByNumber(ctx, "INV-2026-00001")
	require.NoError(t, err)
	require.Len(t, got.LineItems, 2)
	assert.Equal(t, "Widget", got.LineItems[0].ProductName)
	assert.Equal(t, "54.00", domain.FormatMoney(got.LineItems[0].TaxAmount))
	assert.True(t, got.GrandTotal.Equal(inv.GrandTotal))
	assert.Equal(t, domain.InvoiceStatusPaid, got.Status)
	require.NoError(t, got.Validate())

	_, err = f.repos.Invoices.GetByNumber(ctx, "INV-2026-99999")
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

func TestInvoiceRepo_DuplicateNumberLeavesPriorRow(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database)

	first := f.invoice(t, "INV-2026-00001", "2026-04-01", f.widget, 1)
	require.NoError(t, f.repos.Invoices.Create(ctx, first))

	runner := NewTxRunner(database)
	err := runner.WithinTx(ctx, func(r Repos) error {
		return r.Invoices.Create(ctx, f.invoice(t, "INV-2026-00001", "2026-04-02", f.cable, 9))
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateInvoiceNumber)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := f.repos.Invoices.GetByNumber(ctx, "INV-2026-00001")
	require.NoError(t, err)
	assert.True(t, got.GrandTotal.Equal(first.GrandTotal))
	assert.Len(t, got.LineItems, 1)
}

func TestTxRunner_RollsBackHeaderAndItems(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database)
	boom := errors.New("boom")

	err := NewTxRunner(database).WithinTx(ctx, func(r Repos) error {
		if err := r.Invoices.Create(ctx, f.invoice(t, "INV-2026-00001", "2026-04-01", f.widget, 1)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, domain.ErrPersistence)

	var headers, items int
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM invoices").Scan(&headers))
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM invoice_items").Scan(&items))
	assert.Zero(t, headers)
	assert.Zero(t, items)
}

func TestInvoiceRepo_NextInvoiceNumber(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database)

	next, err := f.repos.Invoices.NextInvoiceNumber(ctx, "INV", 2026)
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-00001", next)

	require.NoError(t, f.repos.Invoices.Create(ctx, f.invoice(t, next, "2026-04-01", f.widget, 1)))
	require.NoError(t, f.repos.Invoices.Create(ctx, f.invoice(t, "INV-2026-00009", "2026-04-01", f.widget, 1)))
	require.NoError(t, f.repos.Invoices.Create(ctx, f.invoice(t, "INV-2026-SPECIAL", "2026-04-01", f.widget, 1)))
	require.NoError(t, f.repos.Invoices.Create(ctx, f.invoice(t, "INV-2025-00042", "2025-12-31", f.widget, 1)))

	next, err = f.repos.Invoices.NextInvoiceNumber(ctx, "INV", 2026)
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-00010", next)

	next, err = f.repos.Invoices.NextInvoiceNumber(ctx, "INV", 2027)
	require.NoError(t, err)
	assert.Equal(t, "INV-2027-00001", next)
}

func TestReportRepo_Supplies(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database)

	require.NoError(t, f.repos.Invoices.Create(ctx, f.invoice(t, "INV-2026-00002", "2026-04-02", f.cable, 1)))
	require.NoError(t, f.repos.Invoices.Create(ctx, f.invoice(t, "INV-2026-00001", "2026-04-02", f.widget, 3, f.cable, 2)))
	require.NoError(t, f.repos.Invoices.Create(ctx, f.invoice(t, "INV-2026-00003", "2026-05-01", f.widget, 1)))

	p, err := domain.NewPurchase("B-1", f.vendor.ID, day(t, "2026-04-10"), "Widget", "8471", 10, decimal.RequireFromString("80"), domain.Rate18)
	require.NoError(t, err)
	require.NoError(t, f.repos.Purchases.Create(ctx, p))

	reports := NewReportRepo(database)
	rows, err := reports.OutwardSupplies(ctx, day(t, "2026-04-01"), day(t, "2026-04-30"))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "INV-2026-00001", rows[0].DocumentNumber)
	assert.Equal(t, "8471", rows[0].HSNCode)
	assert.Equal(t, "INV-2026-00001", rows[1].DocumentNumber)
	assert.Equal(t, "INV-2026-00002", rows[2].DocumentNumber)
	assert.Equal(t, "Acme", rows[0].PartyName)
	assert.Equal(t, "29ABCDE1234F1Z5", rows[0].GSTIN)

	inward, err := reports.InwardSupplies(ctx, day(t, "2026-04-01"), day(t, "2026-04-30"))
	require.NoError(t, err)
	require.Len(t, inward, 1)
	assert.Equal(t, "B-1", inward[0].DocumentNumber)
	assert.Equal(t, "Parts Co", inward[0].PartyName)
	assert.Equal(t, "944.00", domain.FormatMoney(inward[0].LineTotal))

	empty, err := reports.InwardSupplies(ctx, day(t, "2027-01-01"), day(t, "2027-01-31"))
	require.NoError(t, err)
	assert.Empty(t, empty)

	moves, err := reports.StockMovements(ctx, 0)
	require.NoError(t, err)
	require.Len(t, moves, 5)
	assert.Equal(t, "INV-2026-00003", moves[0].Reference)
	assert.Equal(t, domain.MovementOut, moves[0].Direction)
	assert.Equal(t, domain.MovementIn, moves[1].Direction)

	limited, err := reports.StockMovements(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestPurchaseRepo_ListAndDelete(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database)

	p, err := domain.NewPurchase("B-9", f.vendor.ID, day(t, "2026-04-10"), "Cable", "8544", 4, decimal.RequireFromString("15"), domain.Rate5)
	require.NoError(t, err)
	require.NoError(t, f.repos.Purchases.Create(ctx, p))

	from := day(t, "2026-04-01")
	list, err := f.repos.Purchases.List(ctx, &from, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Parts Co", list[0].Vendor.Name)

	err = f.repos.Vendors.Delete(ctx, f.vendor.ID)
	assert.ErrorIs(t, err, domain.ErrPartyInUse)

	require.NoError(t, f.repos.Purchases.Delete(ctx, p.ID))
	assert.ErrorIs(t, f.repos.Purchases.Delete(ctx, p.ID), domain.ErrNotFound)

	bad, err := domain.NewPurchase("B-10", 999, day(t, "2026-04-10"), "Cable", "", 1, decimal.RequireFromString("15"), domain.Rate5)
	require.NoError(t, err)
	assert.ErrorIs(t, f.repos.Purchases.Create(ctx, bad), domain.ErrUnknownParty)
}
