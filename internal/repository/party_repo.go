package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andy/gstbill/internal/db"
	"github.com/andy/gstbill/internal/domain"
)

// PartyRepo is a SQLite implementation of PartyRepository. Customers and
// vendors share a shape and differ only by table.
type PartyRepo struct {
	db    db.Querier
	kind  domain.PartyKind
	table string
}

// NewCustomerRepo creates a PartyRepo over the customers table
func NewCustomerRepo(q db.Querier) *PartyRepo {
	return &PartyRepo{db: q, kind: domain.PartyCustomer, table: "customers"}
}

// NewVendorRepo creates a PartyRepo over the vendors table
func NewVendorRepo(q db.Querier) *PartyRepo {
	return &PartyRepo{db: q, kind: domain.PartyVendor, table: "vendors"}
}

func (r *PartyRepo) Kind() domain.PartyKind {
	return r.kind
}

// Create inserts a new party
func (r *PartyRepo) Create(ctx context.Context, party *domain.Party) error {
	party.Kind = r.kind
	if err := party.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO ` + r.table + ` (name, gstin, address, phone, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		party.Name,
		party.GSTIN,
		party.Address,
		party.Phone,
		party.Email,
		party.CreatedAt.Format(timeLayout),
		party.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		if cerr := constraintError(err, domain.ErrDuplicateName, nil); cerr != nil {
			return fmt.Errorf("%s %q: %w", r.kind, party.Name, cerr)
		}
		return persistenceError("create "+string(r.kind), err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return persistenceError("get "+string(r.kind)+" ID", err)
	}

	party.ID = id
	return nil
}

// GetByID retrieves a party by ID
func (r *PartyRepo) GetByID(ctx context.Context, id int64) (*domain.Party, error) {
	query := `
		SELECT id, name, gstin, address, phone, email, created_at, updated_at
		FROM ` + r.table + `
		WHERE id = ?
	`
	party, err := r.scanOne(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %d: %w", r.kind, id, domain.ErrUnknownParty)
		}
		return nil, persistenceError("get "+string(r.kind), err)
	}
	return party, nil
}

// GetByName retrieves a party by its unique name
func (r *PartyRepo) GetByName(ctx context.Context, name string) (*domain.Party, error) {
	query := `
		SELECT id, name, gstin, address, phone, email, created_at, updated_at
		FROM ` + r.table + `
		WHERE name = ?
	`
	party, err := r.scanOne(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %q: %w", r.kind, name, domain.ErrUnknownParty)
		}
		return nil, persistenceError("get "+string(r.kind), err)
	}
	return party, nil
}

// List returns every party ordered by name
func (r *PartyRepo) List(ctx context.Context) ([]*domain.Party, error) {
	query := `
		SELECT id, name, gstin, address, phone, email, created_at, updated_at
		FROM ` + r.table + `
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, persistenceError("list "+r.table, err)
	}
	defer rows.Close()

	var parties []*domain.Party
	for rows.Next() {
		party, err := r.scanOne(rows)
		if err != nil {
			return nil, persistenceError("scan "+string(r.kind), err)
		}
		parties = append(parties, party)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceError("iterate "+r.table, err)
	}

	return parties, nil
}

// Update updates an existing party
func (r *PartyRepo) Update(ctx context.Context, party *domain.Party) error {
	party.Kind = r.kind
	if err := party.Validate(); err != nil {
		return err
	}
	party.UpdatedAt = time.Now()

	query := `
		UPDATE ` + r.table + `
		SET name = ?, gstin = ?, address = ?, phone = ?, email = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		party.Name,
		party.GSTIN,
		party.Address,
		party.Phone,
		party.Email,
		party.UpdatedAt.Format(timeLayout),
		party.ID,
	)
	if err != nil {
		if cerr := constraintError(err, domain.ErrDuplicateName, nil); cerr != nil {
			return fmt.Errorf("%s %q: %w", r.kind, party.Name, cerr)
		}
		return persistenceError("update "+string(r.kind), err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return persistenceError("get rows affected", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s %d: %w", r.kind, party.ID, domain.ErrUnknownParty)
	}

	return nil
}

// Delete removes a party that no invoice or purchase references
func (r *PartyRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM "+r.table+" WHERE id = ?", id)
	if err != nil {
		if cerr := constraintError(err, nil, domain.ErrPartyInUse); cerr != nil {
			return fmt.Errorf("%s %d: %w", r.kind, id, cerr)
		}
		return persistenceError("delete "+string(r.kind), err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return persistenceError("get rows affected", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s %d: %w", r.kind, id, domain.ErrUnknownParty)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PartyRepo) scanOne(row rowScanner) (*domain.Party, error) {
	party := &domain.Party{Kind: r.kind}
	var createdAt, updatedAt string

	if err := row.Scan(
		&party.ID,
		&party.Name,
		&party.GSTIN,
		&party.Address,
		&party.Phone,
		&party.Email,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if party.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if party.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return party, nil
}
