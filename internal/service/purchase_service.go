package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/andy/gstbill/internal/domain"
	"github.com/andy/gstbill/internal/repository"
)

// PurchaseInput is a vendor bill line as entered by the user
type PurchaseInput struct {
	BillNumber  string
	Date        time.Time
	VendorName  string
	ProductName string
	HSNCode     string
	Quantity    int
	UnitPrice   decimal.Decimal
	Rate        domain.TaxRate
}

// PurchaseService records inward supplies
type PurchaseService interface {
	Record(ctx context.Context, in PurchaseInput) (*domain.Purchase, error)
	List(ctx context.Context, from, to *time.Time) ([]*domain.Purchase, error)
	Delete(ctx context.Context, id int64) error
}

type purchaseService struct {
	purchases repository.PurchaseRepository
	vendors   repository.PartyRepository
	log       zerolog.Logger
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(purchases repository.PurchaseRepository, vendors repository.PartyRepository, log zerolog.Logger) PurchaseService {
	return &purchaseService{purchases: purchases, vendors: vendors, log: log}
}

// Record taxes the line with the same calculator used for sales. Stock
// counts are not changed.
func (s *purchaseService) Record(ctx context.Context, in PurchaseInput) (*domain.Purchase, error) {
	if in.Date.IsZero() {
		in.Date = time.Now()
	}
	in.Date = startOfDay(in.Date)

	vendor, err := s.vendors.GetByName(ctx, strings.TrimSpace(in.VendorName))
	if err != nil {
		return nil, err
	}

	p, err := domain.NewPurchase(in.BillNumber, vendor.ID, in.Date, in.ProductName, in.HSNCode, in.Quantity, in.UnitPrice, in.Rate)
	if err != nil {
		return nil, err
	}
	if err := s.purchases.Create(ctx, p); err != nil {
		return nil, err
	}
	p.Vendor = vendor

	s.log.Info().Str("bill", p.BillNumber).Str("vendor", vendor.Name).Str("total", domain.FormatMoney(p.LineTotal)).Msg("purchase recorded")
	return p, nil
}

func (s *purchaseService) List(ctx context.Context, from, to *time.Time) ([]*domain.Purchase, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, domain.ErrInvalidRange
	}
	return s.purchases.List(ctx, from, to)
}

func (s *purchaseService) Delete(ctx context.Context, id int64) error {
	return s.purchases.Delete(ctx, id)
}
