package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/repository"
)

// SurgeZoneRepository is a PostgreSQL implementation of repository.SurgeZoneRepository.
type SurgeZoneRepository struct {
	q Querier
}

// NewSurgeZoneRepository creates a new PostgreSQL surge zone repository.
func NewSurgeZoneRepository(db *sql.DB) *SurgeZoneRepository {
	return &SurgeZoneRepository{q: db}
}

// Create persists a new zone.
func (r *SurgeZoneRepository) Create(ctx context.Context, zone *domain.SurgeZone) error {
	query := `
		INSERT INTO surge_zones (id, tenant_id, name, boundary, multiplier, is_active, start_time, end_time, days_of_week, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	boundary, err := json.Marshal(zone.Boundary)
	if err != nil {
		return err
	}
	days, err := json.Marshal(zone.DaysOfWeek)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, query,
		zone.ID,
		zone.TenantID,
		zone.Name,
		boundary,
		zone.Multiplier,
		zone.IsActive,
		nullString(zone.StartTime),
		nullString(zone.EndTime),
		days,
		zone.CreatedAt,
		zone.UpdatedAt,
	)
	return err
}

const surgeZoneColumns = `id, tenant_id, name, boundary, multiplier, is_active, start_time, end_time, days_of_week, created_at, updated_at`

func scanSurgeZone(row interface{ Scan(...any) error }) (*domain.SurgeZone, error) {
	var zone domain.SurgeZone
	var startTime, endTime sql.NullString
	var boundary, days []byte

	err := row.Scan(
		&zone.ID,
		&zone.TenantID,
		&zone.Name,
		&boundary,
		&zone.Multiplier,
		&zone.IsActive,
		&startTime,
		&endTime,
		&days,
		&zone.CreatedAt,
		&zone.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if startTime.Valid {
		zone.StartTime = startTime.String
	}
	if endTime.Valid {
		zone.EndTime = endTime.String
	}
	if len(boundary) > 0 {
		if err := json.Unmarshal(boundary, &zone.Boundary); err != nil {
			return nil, err
		}
	}
	if len(days) > 0 {
		if err := json.Unmarshal(days, &zone.DaysOfWeek); err != nil {
			return nil, err
		}
	}
	return &zone, nil
}

// GetByID retrieves a zone by ID.
func (r *SurgeZoneRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.SurgeZone, error) {
	query := `SELECT ` + surgeZoneColumns + ` FROM surge_zones WHERE tenant_id = $1 AND id = $2`
	return scanSurgeZone(r.q.QueryRowContext(ctx, query, tenantID, id))
}

// GetAll retrieves zones for a tenant.
func (r *SurgeZoneRepository) GetAll(ctx context.Context, tenantID string, activeOnly bool) ([]*domain.SurgeZone, error) {
	query := `SELECT ` + surgeZoneColumns + ` FROM surge_zones WHERE tenant_id = $1`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.q.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []*domain.SurgeZone
	for rows.Next() {
		zone, err := scanSurgeZone(rows)
		if err != nil {
			return nil, err
		}
		zones = append(zones, zone)
	}
	return zones, rows.Err()
}

// Update persists boundary, multiplier, schedule, and active flag.
func (r *SurgeZoneRepository) Update(ctx context.Context, zone *domain.SurgeZone) error {
	query := `
		UPDATE surge_zones
		SET name = $1, boundary = $2, multiplier = $3, is_active = $4, start_time = $5, end_time = $6, days_of_week = $7, updated_at = NOW()
		WHERE tenant_id = $8 AND id = $9
	`

	boundary, err := json.Marshal(zone.Boundary)
	if err != nil {
		return err
	}
	days, err := json.Marshal(zone.DaysOfWeek)
	if err != nil {
		return err
	}

	result, err := r.q.ExecContext(ctx, query,
		zone.Name,
		boundary,
		zone.Multiplier,
		zone.IsActive,
		nullString(zone.StartTime),
		nullString(zone.EndTime),
		days,
		zone.TenantID,
		zone.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
