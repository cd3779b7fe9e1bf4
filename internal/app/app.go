package app

import (
	"context"
	"fmt"
	"syscall"

	"github.com/andy/gstbill/internal/config"
	"github.com/andy/gstbill/internal/crypto"
	"github.com/andy/gstbill/internal/db"
	"github.com/andy/gstbill/internal/export"
	"github.com/andy/gstbill/internal/logger"
	"github.com/andy/gstbill/internal/render"
	"github.com/andy/gstbill/internal/repository"
	"github.com/andy/gstbill/internal/service"
	"golang.org/x/term"
)

// Tables in delete order, children before parents.
var (
	TransactionTables = []string{"invoice_items", "invoices", "purchases"}
	AllTables         = []string{"invoice_items", "invoices", "purchases", "products", "customers", "vendors"}
)

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	DB     *db.DB

	// ConfigPath is where SaveConfig writes; empty means the default path
	ConfigPath string

	// Repositories
	CustomerRepo repository.PartyRepository
	VendorRepo   repository.PartyRepository
	ProductRepo  repository.ProductRepository
	InvoiceRepo  repository.InvoiceRepository
	PurchaseRepo repository.PurchaseRepository
	ReportRepo   repository.ReportRepository

	// Services
	BillingService   service.BillingService
	ReportService    service.ReportService
	PurchaseService  service.PurchaseService
	InventoryService service.InventoryService
}

// New creates a new App instance, initializing all dependencies
// It handles:
// 1. Getting encryption key from keyring
// 2. Opening database
// 3. Running migrations
// 4. Creating repositories
// 5. Creating services
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg == nil {
		var err error
		if cfg, err = config.LoadDefault(); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	keyring := crypto.NewKeyring(cfg.Database.KeyFile)

	password, err := keyring.GetKey()
	if err != nil {
		// No key exists, prompt user to set one
		fmt.Println("Setting up database encryption for the first time...")
		password, err = promptForPassword()
		if err != nil {
			return nil, fmt.Errorf("failed to set password: %w", err)
		}

		if err := keyring.SetKey(password); err != nil {
			return nil, fmt.Errorf("failed to store encryption key: %w", err)
		}
	}

	return NewWithPassword(ctx, cfg, password)
}

// NewWithPassword builds the App with a known database key (useful for testing)
func NewWithPassword(_ context.Context, cfg *config.Config, password string) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	database, err := db.Open(cfg.Database.Path, password)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.RunMigrations(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	repos := repository.NewRepos(database)
	reportRepo := repository.NewReportRepo(database)

	// Settings edits replace *cfg in place, so the next document sees them.
	renderer := render.NewPDFRenderer(cfg.Invoice.OutputDir, func() render.Seller {
		return render.Seller{
			Name:    cfg.Seller.Name,
			GSTIN:   cfg.Seller.GSTIN,
			Address: cfg.Seller.Address,
			Phone:   cfg.Seller.Phone,
			Email:   cfg.Seller.Email,
		}
	})

	billingService := service.NewBillingService(
		repository.NewTxRunner(database),
		repos.Customers, repos.Products, repos.Invoices,
		renderer,
		cfg.Invoice.NumberPrefix,
		logger.WithComponent("billing"),
	)
	reportService := service.NewReportService(
		reportRepo, repos.Invoices,
		export.NewWriter(cfg.Reports.OutputDir),
		logger.WithComponent("reports"),
	)
	purchaseService := service.NewPurchaseService(repos.Purchases, repos.Vendors, logger.WithComponent("purchases"))
	inventoryService := service.NewInventoryService(repos.Products, reportRepo)

	return &App{
		Config:           cfg,
		DB:               database,
		CustomerRepo:     repos.Customers,
		VendorRepo:       repos.Vendors,
		ProductRepo:      repos.Products,
		InvoiceRepo:      repos.Invoices,
		PurchaseRepo:     repos.Purchases,
		ReportRepo:       reportRepo,
		BillingService:   billingService,
		ReportService:    reportService,
		PurchaseService:  purchaseService,
		InventoryService: inventoryService,
	}, nil
}

// Parties returns the customer or vendor repository
func (a *App) Parties(vendors bool) repository.PartyRepository {
	if vendors {
		return a.VendorRepo
	}
	return a.CustomerRepo
}

// Reset deletes every row from tables inside one transaction
func (a *App) Reset(ctx context.Context, tables []string) error {
	return a.DB.Reset(ctx, tables...)
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// promptForPassword prompts user for a new database password (first run)
// This should be called when keyring has no stored key
func promptForPassword() (string, error) {
	fmt.Println()
	fmt.Println("Your billing data will be encrypted with a password.")
	fmt.Println("This password will be stored in your system keyring, or in the")
	fmt.Println("configured key file where no keyring is available.")
	fmt.Println()
	fmt.Print("Enter a password for database encryption: ")

	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Database encryption configured successfully")
	fmt.Println()

	return string(password), nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	path := a.ConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	return a.Config.Save(path)
}
