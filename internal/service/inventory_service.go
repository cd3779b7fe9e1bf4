package service

import (
	"context"

	"github.com/andy/gstbill/internal/domain"
	"github.com/andy/gstbill/internal/repository"
)

// StockLine pairs a product with its stock status
type StockLine struct {
	Product *domain.Product
	Status  domain.StockStatus
}

// InventoryService reports stock positions. Stock counts are maintained by
// hand; billing and purchasing never change them.
type InventoryService interface {
	Overview(ctx context.Context) ([]StockLine, error)
	LowStock(ctx context.Context) ([]StockLine, error)
	Movements(ctx context.Context, limit int) ([]domain.StockMovement, error)
}

type inventoryService struct {
	products repository.ProductRepository
	reports  repository.ReportRepository
}

// NewInventoryService creates a new inventory service
func NewInventoryService(products repository.ProductRepository, reports repository.ReportRepository) InventoryService {
	return &inventoryService{products: products, reports: reports}
}

func (s *inventoryService) Overview(ctx context.Context) ([]StockLine, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	return stockLines(products), nil
}

func (s *inventoryService) LowStock(ctx context.Context) ([]StockLine, error) {
	products, err := s.products.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return stockLines(products), nil
}

func (s *inventoryService) Movements(ctx context.Context, limit int) ([]domain.StockMovement, error) {
	return s.reports.StockMovements(ctx, limit)
}

func stockLines(products []*domain.Product) []StockLine {
	lines := make([]StockLine, 0, len(products))
	for _, p := range products {
		lines = append(lines, StockLine{Product: p, Status: p.Status()})
	}
	return lines
}
