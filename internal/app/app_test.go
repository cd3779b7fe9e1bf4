package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andy/gstbill/internal/config"
	"github.com/andy/gstbill/internal/domain"
	"github.com/andy/gstbill/internal/service"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Database.Path = filepath.Join(dir, "data", "gstbill.db")
	cfg.Database.KeyFile = filepath.Join(dir, ".env")
	cfg.Invoice.OutputDir = filepath.Join(dir, "invoices")
	cfg.Reports.OutputDir = filepath.Join(dir, "reports")
	cfg.Seller.Name = "Sharma Traders"
	return cfg
}

func TestApp_BillToReport(t *testing.T) {
	ctx := context.Background()
	a, err := NewWithPassword(ctx, testConfig(t), "secret")
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	require.NoError(t, a.CustomerRepo.Create(ctx, domain.NewParty(domain.PartyCustomer, "Acme", "29ABCDE1234F1Z5")))
	require.NoError(t, a.ProductRepo.Create(ctx, domain.NewProduct("Widget", "8471", domain.Rate18, decimal.NewFromInt(100))))

	s := service.NewSession()
	require.NoError(t, a.BillingService.SelectCustomer(ctx, s, "Acme"))
	_, err = a.BillingService.AddItem(ctx, s, "Widget", 3)
	require.NoError(t, err)

	billDate := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	receipt, err := a.BillingService.Assemble(ctx, s, service.AssembleOptions{Date: billDate})
	require.NoError(t, err)
	require.NoError(t, receipt.Warning)
	assert.Equal(t, "INV-2026-00001", receipt.Invoice.InvoiceNumber)
	assert.True(t, s.Ledger.IsEmpty())

	_, err = os.Stat(receipt.DocumentPath)
	assert.NoError(t, err)

	report, err := a.ReportService.Aggregate(ctx, billDate, billDate.AddDate(0, 1, -1), domain.ReportSummary)
	require.NoError(t, err)
	require.NotNil(t, report.Summary)
	assert.Equal(t, 1, report.Summary.InvoiceCount)
	assert.True(t, decimal.NewFromInt(300).Equal(report.Summary.TaxableValue))
	assert.True(t, decimal.NewFromInt(27).Equal(report.Summary.CGST))
	assert.True(t, decimal.NewFromInt(27).Equal(report.Summary.SGST))
	assert.True(t, decimal.NewFromInt(354).Equal(report.Summary.GrandTotal))
}

func TestApp_ResetTransactionsKeepsMasterData(t *testing.T) {
	ctx := context.Background()
	a, err := NewWithPassword(ctx, testConfig(t), "secret")
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	require.NoError(t, a.CustomerRepo.Create(ctx, domain.NewParty(domain.PartyCustomer, "Acme", "")))
	require.NoError(t, a.ProductRepo.Create(ctx, domain.NewProduct("Widget", "8471", domain.Rate18, decimal.NewFromInt(100))))

	s := service.NewSession()
	require.NoError(t, a.BillingService.SelectCustomer(ctx, s, "Acme"))
	_, err = a.BillingService.AddItem(ctx, s, "Widget", 1)
	require.NoError(t, err)
	_, err = a.BillingService.Assemble(ctx, s, service.AssembleOptions{})
	require.NoError(t, err)

	require.NoError(t, a.Reset(ctx, TransactionTables))

	invoices, err := a.BillingService.ListInvoices(ctx, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, invoices)

	customers, err := a.Parties(false).List(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, 1)

	require.NoError(t, a.Reset(ctx, AllTables))
	customers, err = a.Parties(false).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestApp_EditedSellerAppearsOnNextInvoice(t *testing.T) {
	ctx := context.Background()
	a, err := NewWithPassword(ctx, testConfig(t), "secret")
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	require.NoError(t, a.CustomerRepo.Create(ctx, domain.NewParty(domain.PartyCustomer, "Acme", "")))
	require.NoError(t, a.ProductRepo.Create(ctx, domain.NewProduct("Widget", "8471", domain.Rate18, decimal.NewFromInt(100))))

	edited := *a.Config
	edited.Seller.Name = "Renamed Co"
	*a.Config = edited

	s := service.NewSession()
	require.NoError(t, a.BillingService.SelectCustomer(ctx, s, "Acme"))
	_, err = a.BillingService.AddItem(ctx, s, "Widget", 1)
	require.NoError(t, err)
	receipt, err := a.BillingService.Assemble(ctx, s, service.AssembleOptions{})
	require.NoError(t, err)
	require.NoError(t, receipt.Warning)

	data, err := os.ReadFile(receipt.DocumentPath)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(data, []byte("Renamed Co")))
	assert.False(t, bytes.Contains(data, []byte("Sharma Traders")))
}

func TestApp_SaveConfigWritesConfigPath(t *testing.T) {
	a := &App{Config: testConfig(t), ConfigPath: filepath.Join(t.TempDir(), "config.yaml")}
	a.Config.Seller.GSTIN = "27AAAPL1234C1ZV"
	require.NoError(t, a.SaveConfig())

	loaded, err := config.Load(a.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, "Sharma Traders", loaded.Seller.Name)
	assert.Equal(t, "27AAAPL1234C1ZV", loaded.Seller.GSTIN)
}
