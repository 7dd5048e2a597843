package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/outreach-toolkit/api/internal/entity"
)

// ErrLeadNotFound is returned when no archived lead matches the lookup.
var ErrLeadNotFound = errors.New("archived lead not found")

// pgxPool is the subset of pgxpool.Pool the repositories use, extracted so
// tests can stub it.
type pgxPool interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// LeadsRepository archives completed result batches beyond the process
// lifetime. The in-memory result store stays the source of truth for
// "current results"; this layer only keeps history.
type LeadsRepository interface {
	ArchiveBatch(ctx context.Context, runID uuid.UUID, contacts []entity.Contact) error
	ListByRun(ctx context.Context, runID uuid.UUID, limit, offset int) ([]entity.Contact, error)
	GetByID(ctx context.Context, id string) (*entity.Contact, error)
}

// PGXLeadsRepository implements LeadsRepository with pgx.
type PGXLeadsRepository struct {
	pool pgxPool
}

// NewPGXLeadsRepository wires a pgx backed leads archive.
func NewPGXLeadsRepository(pool *pgxpool.Pool) *PGXLeadsRepository {
	return &PGXLeadsRepository{pool: pool}
}

var _ pgxPool = (*pgxpool.Pool)(nil)

const archiveLeadSQL = `
        INSERT INTO leads (
            id, scrape_run_id, name, role, company, platform, contact_link,
            region, notes, rating, review_count, address, phone, website,
            place_id, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,NOW())
        ON CONFLICT (id) DO UPDATE SET
            scrape_run_id = EXCLUDED.scrape_run_id,
            name = EXCLUDED.name,
            role = EXCLUDED.role,
            company = EXCLUDED.company,
            platform = EXCLUDED.platform,
            contact_link = EXCLUDED.contact_link,
            region = EXCLUDED.region,
            notes = EXCLUDED.notes,
            rating = EXCLUDED.rating,
            review_count = EXCLUDED.review_count,
            address = EXCLUDED.address,
            phone = EXCLUDED.phone,
            website = EXCLUDED.website,
            place_id = EXCLUDED.place_id,
            updated_at = NOW();
    `

// ArchiveBatch upserts the batch inside one transaction so a failed archive
// never leaves a half-written run behind.
func (r *PGXLeadsRepository) ArchiveBatch(ctx context.Context, runID uuid.UUID, contacts []entity.Contact) error {
	if len(contacts) == 0 {
		return nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("start archive tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, contact := range contacts {
		_, err := tx.Exec(ctx, archiveLeadSQL,
			contact.ID,
			runID,
			contact.Name,
			contact.Role,
			contact.Company,
			string(contact.Platform),
			contact.ContactLink,
			contact.Region,
			contact.Notes,
			floatOrNil(contact.Rating),
			intOrNil(contact.ReviewCount),
			stringOrNil(contact.Address),
			stringOrNil(contact.Phone),
			stringOrNil(contact.Website),
			stringOrNil(contact.PlaceID),
		)
		if err != nil {
			return fmt.Errorf("archive lead %q: %w", contact.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit archive tx: %w", err)
	}
	return nil
}

// ListByRun returns the archived contacts for one scrape run in insertion
// order.
func (r *PGXLeadsRepository) ListByRun(ctx context.Context, runID uuid.UUID, limit, offset int) ([]entity.Contact, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, `
        SELECT id, name, role, company, platform, contact_link, region, notes,
               rating, review_count, address, phone, website, place_id
        FROM leads
        WHERE scrape_run_id = $1
        ORDER BY created_at ASC, id ASC
        LIMIT $2 OFFSET $3`, runID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

// GetByID fetches one archived lead.
func (r *PGXLeadsRepository) GetByID(ctx context.Context, id string) (*entity.Contact, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT id, name, role, company, platform, contact_link, region, notes,
               rating, review_count, address, phone, website, place_id
        FROM leads
        WHERE id = $1`, id)

	contact, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("query lead by id: %w", err)
	}
	return contact, nil
}

func scanLeads(rows pgx.Rows) ([]entity.Contact, error) {
	var contacts []entity.Contact
	for rows.Next() {
		contact, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		contacts = append(contacts, *contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return contacts, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanLead(row scannable) (*entity.Contact, error) {
	var (
		contact     entity.Contact
		platform    string
		rating      sql.NullFloat64
		reviewCount sql.NullInt64
		address     sql.NullString
		phone       sql.NullString
		website     sql.NullString
		placeID     sql.NullString
	)

	err := row.Scan(
		&contact.ID,
		&contact.Name,
		&contact.Role,
		&contact.Company,
		&platform,
		&contact.ContactLink,
		&contact.Region,
		&contact.Notes,
		&rating,
		&reviewCount,
		&address,
		&phone,
		&website,
		&placeID,
	)
	if err != nil {
		return nil, err
	}

	contact.Platform = entity.Platform(platform)
	if rating.Valid {
		val := rating.Float64
		contact.Rating = &val
	}
	if reviewCount.Valid {
		val := int(reviewCount.Int64)
		contact.ReviewCount = &val
	}
	contact.Address = nullStringToPtr(address)
	contact.Phone = nullStringToPtr(phone)
	contact.Website = nullStringToPtr(website)
	contact.PlaceID = nullStringToPtr(placeID)

	return &contact, nil
}

func nullStringToPtr(value sql.NullString) *string {
	if value.Valid {
		val := value.String
		return &val
	}
	return nil
}

func stringOrNil(value *string) any {
	if value == nil || *value == "" {
		return nil
	}
	return *value
}

func floatOrNil(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func intOrNil(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}
