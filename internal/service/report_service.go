package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/andy/gstbill/internal/domain"
	"github.com/andy/gstbill/internal/repository"
)

// ReportWriter persists a period report and returns the files it wrote
type ReportWriter interface {
	Write(report *domain.PeriodReport) ([]string, error)
}

// ReportService builds period reports from committed invoices and purchases
type ReportService interface {
	// Aggregate builds the report of the given kind over [from, to], both
	// days inclusive. It always reads stored rows; nothing is cached.
	Aggregate(ctx context.Context, from, to time.Time, kind domain.ReportKind) (*domain.PeriodReport, error)

	// Generate aggregates and then writes the report files
	Generate(ctx context.Context, from, to time.Time, kind domain.ReportKind) (*domain.PeriodReport, []string, error)
}

type reportService struct {
	reports  repository.ReportRepository
	invoices repository.InvoiceRepository
	writer   ReportWriter
	log      zerolog.Logger
	now      func() time.Time
}

// NewReportService creates a new report service
func NewReportService(
	reports repository.ReportRepository,
	invoices repository.InvoiceRepository,
	writer ReportWriter,
	log zerolog.Logger,
) ReportService {
	return &reportService{
		reports:  reports,
		invoices: invoices,
		writer:   writer,
		log:      log,
		now:      time.Now,
	}
}

func (s *reportService) Aggregate(ctx context.Context, from, to time.Time, kind domain.ReportKind) (*domain.PeriodReport, error) {
	from, to = startOfDay(from), startOfDay(to)
	if from.After(to) {
		return nil, fmt.Errorf("%w: %s > %s", domain.ErrInvalidRange, from.Format(domain.DateLayout), to.Format(domain.DateLayout))
	}

	report := &domain.PeriodReport{
		Kind:        kind,
		From:        from,
		To:          to,
		GeneratedAt: s.now(),
	}

	var err error
	switch kind {
	case domain.ReportOutward:
		report.Rows, err = s.reports.OutwardSupplies(ctx, from, to)
	case domain.ReportInward:
		report.Rows, err = s.reports.InwardSupplies(ctx, from, to)
	case domain.ReportSummary:
		report.Summary, err = s.summarize(ctx, from, to)
	default:
		return nil, &domain.FieldError{Field: "kind", Reason: fmt.Sprintf("unknown report kind %q", kind)}
	}
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("kind", string(kind)).
		Str("from", from.Format(domain.DateLayout)).
		Str("to", to.Format(domain.DateLayout)).
		Int("rows", len(report.Rows)).
		Msg("report aggregated")
	return report, nil
}

// summarize folds every invoice header in range. Totals come from the
// stored headers, each of which satisfies the balance check on write.
func (s *reportService) summarize(ctx context.Context, from, to time.Time) (*domain.LiabilitySummary, error) {
	invoices, err := s.invoices.List(ctx, &from, &to)
	if err != nil {
		return nil, err
	}
	summary := &domain.LiabilitySummary{}
	for _, inv := range invoices {
		summary.Add(inv)
	}
	return summary, nil
}

func (s *reportService) Generate(ctx context.Context, from, to time.Time, kind domain.ReportKind) (*domain.PeriodReport, []string, error) {
	report, err := s.Aggregate(ctx, from, to, kind)
	if err != nil {
		return nil, nil, err
	}
	if s.writer == nil {
		return report, nil, nil
	}

	files, err := s.writer.Write(report)
	if err != nil {
		s.log.Error().Err(err).Str("kind", string(kind)).Msg("report export failed")
		return report, nil, fmt.Errorf("%w: %w", domain.ErrExport, err)
	}
	s.log.Info().Str("kind", string(kind)).Strs("files", files).Msg("report written")
	return report, files, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
