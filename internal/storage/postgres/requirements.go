package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/houseofcharity/charity-be/internal/models"
	"github.com/houseofcharity/charity-be/internal/storage"
)

const requirementSelect = `
	SELECT r.id, r.ngo_id, r.title, r.description, r.category, r.amount_needed, r.currency,
		r.priority, r.status, r.deadline, r.created_at, r.updated_at,
		ngo.name, ngo.description, ngo.city, ngo.state, ngo.website
	FROM %s r
	JOIN users ngo ON ngo.id = r.ngo_id`

func requirementQuery(source, tail string) string {
	return fmt.Sprintf(requirementSelect, source) + "\n" + tail
}

// CreateRequirement inserts a requirement and returns it joined with NGO details.
func (s *Store) CreateRequirement(ctx context.Context, r models.Requirement) (models.Requirement, error) {
	query := `
	WITH inserted AS (
		INSERT INTO requirements (id, ngo_id, title, description, category, amount_needed, currency, priority, status, deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING *
	)` + requirementQuery("inserted", "")
	row := s.pool.QueryRow(ctx, query,
		r.ID, r.NGOID, r.Title, r.Description, r.Category, r.AmountNeeded, r.Currency,
		string(r.Priority), string(r.Status), toPgDate(r.Deadline))
	created, err := scanRequirement(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Requirement{}, storage.ErrAlreadyExists
		}
		return models.Requirement{}, fmt.Errorf("create requirement: %w", err)
	}
	return created, nil
}

// FindRequirementByID fetches one requirement.
func (s *Store) FindRequirementByID(ctx context.Context, id string) (models.Requirement, error) {
	row := s.pool.QueryRow(ctx, requirementQuery("requirements", "WHERE r.id = $1"), id)
	return scanRequirement(row)
}

// ListActiveRequirements returns every active requirement, newest first.
func (s *Store) ListActiveRequirements(ctx context.Context) ([]models.Requirement, error) {
	return s.listRequirements(ctx,
		requirementQuery("requirements", "WHERE r.status = $1 ORDER BY r.created_at DESC"),
		string(models.RequirementActive))
}

// ListActiveRequirementsByCategory returns active requirements in one category, newest first.
func (s *Store) ListActiveRequirementsByCategory(ctx context.Context, category string) ([]models.Requirement, error) {
	return s.listRequirements(ctx,
		requirementQuery("requirements", "WHERE r.status = $1 AND r.category = $2 ORDER BY r.created_at DESC"),
		string(models.RequirementActive), category)
}

// ListRequirementsByNGO returns all of an NGO's requirements regardless of status, newest first.
func (s *Store) ListRequirementsByNGO(ctx context.Context, ngoID string) ([]models.Requirement, error) {
	return s.listRequirements(ctx,
		requirementQuery("requirements", "WHERE r.ngo_id = $1 ORDER BY r.created_at DESC"), ngoID)
}

// UpdateRequirement writes the set fields while the status still equals expected.
func (s *Store) UpdateRequirement(ctx context.Context, id string, expected models.RequirementStatus, upd models.RequirementUpdate) (models.Requirement, error) {
	query := `
	WITH updated AS (
		UPDATE requirements SET
			title = COALESCE($3, title),
			description = COALESCE($4, description),
			category = COALESCE($5, category),
			amount_needed = COALESCE($6, amount_needed),
			currency = COALESCE($7, currency),
			priority = COALESCE($8, priority),
			status = COALESCE($9, status),
			deadline = COALESCE($10, deadline),
			updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING *
	)` + requirementQuery("updated", "")

	var amount any
	if upd.AmountNeeded != nil {
		amount = *upd.AmountNeeded
	}
	var priority, status *string
	if upd.Priority != nil {
		p := string(*upd.Priority)
		priority = &p
	}
	if upd.Status != nil {
		st := string(*upd.Status)
		status = &st
	}

	row := s.pool.QueryRow(ctx, query, id, string(expected),
		upd.Title, upd.Description, upd.Category, amount, upd.Currency, priority, status, toPgDate(upd.Deadline))
	updated, err := scanRequirement(row)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Requirement{}, s.missingOrConflict(ctx, "requirements", id)
	}
	return updated, err
}

// DeleteRequirement removes a requirement permanently.
func (s *Store) DeleteRequirement(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM requirements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete requirement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) listRequirements(ctx context.Context, query string, args ...any) ([]models.Requirement, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	defer rows.Close()

	out := []models.Requirement{}
	for rows.Next() {
		r, err := scanRequirement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func toPgDate(d *models.Date) pgtype.Date {
	if d == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: d.Time, Valid: true}
}

func scanRequirement(row pgx.Row) (models.Requirement, error) {
	var r models.Requirement
	var priority, status string
	var deadline pgtype.Date
	if err := row.Scan(&r.ID, &r.NGOID, &r.Title, &r.Description, &r.Category, &r.AmountNeeded,
		&r.Currency, &priority, &status, &deadline, &r.CreatedAt, &r.UpdatedAt,
		&r.NGOName, &r.NGODescription, &r.NGOCity, &r.NGOState, &r.NGOWebsite); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Requirement{}, storage.ErrNotFound
		}
		return models.Requirement{}, err
	}
	r.Priority = models.Priority(priority)
	r.Status = models.RequirementStatus(status)
	if deadline.Valid {
		d := models.NewDate(deadline.Time)
		r.Deadline = &d
	}
	return r, nil
}
