package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/houseofcharity/charity-be/internal/models"
	"github.com/houseofcharity/charity-be/internal/storage"
)

const donationSelect = `
	SELECT d.id, d.donor_id, d.ngo_id, d.amount, d.currency, d.payment_method, d.transaction_id,
		d.status, d.message, d.anonymous, d.created_at, d.updated_at,
		donor.name, ngo.name, ngo.description
	FROM %s d
	JOIN users donor ON donor.id = d.donor_id
	JOIN users ngo ON ngo.id = d.ngo_id`

func donationQuery(source, tail string) string {
	return fmt.Sprintf(donationSelect, source) + "\n" + tail
}

// CreateDonation inserts a donation and returns it joined with party names.
func (s *Store) CreateDonation(ctx context.Context, d models.Donation) (models.Donation, error) {
	query := `
	WITH inserted AS (
		INSERT INTO donations (id, donor_id, ngo_id, amount, currency, payment_method, transaction_id, status, message, anonymous)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING *
	)` + donationQuery("inserted", "")
	row := s.pool.QueryRow(ctx, query,
		d.ID, d.DonorID, d.NGOID, d.Amount, d.Currency, d.PaymentMethod, d.TransactionID,
		string(d.Status), d.Message, d.Anonymous)
	created, err := scanDonation(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Donation{}, storage.ErrAlreadyExists
		}
		return models.Donation{}, fmt.Errorf("create donation: %w", err)
	}
	return created, nil
}

// FindDonationByID fetches one donation.
func (s *Store) FindDonationByID(ctx context.Context, id string) (models.Donation, error) {
	row := s.pool.QueryRow(ctx, donationQuery("donations", "WHERE d.id = $1"), id)
	return scanDonation(row)
}

// ListDonationsByDonor returns a donor's donations, newest first.
func (s *Store) ListDonationsByDonor(ctx context.Context, donorID string) ([]models.Donation, error) {
	return s.listDonations(ctx, donationQuery("donations", "WHERE d.donor_id = $1 ORDER BY d.created_at DESC"), donorID)
}

// ListDonationsByNGO returns donations received by an NGO, newest first.
func (s *Store) ListDonationsByNGO(ctx context.Context, ngoID string) ([]models.Donation, error) {
	return s.listDonations(ctx, donationQuery("donations", "WHERE d.ngo_id = $1 ORDER BY d.created_at DESC"), ngoID)
}

// ListCompletedDonations returns the most recent completed donations.
func (s *Store) ListCompletedDonations(ctx context.Context, limit int) ([]models.Donation, error) {
	return s.listDonations(ctx,
		donationQuery("donations", "WHERE d.status = $1 ORDER BY d.created_at DESC LIMIT $2"),
		string(models.DonationCompleted), limit)
}

// UpdateDonationStatus sets the status only while it still equals from.
func (s *Store) UpdateDonationStatus(ctx context.Context, id string, from, to models.DonationStatus) (models.Donation, error) {
	query := `
	WITH updated AS (
		UPDATE donations SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING *
	)` + donationQuery("updated", "")
	row := s.pool.QueryRow(ctx, query, id, string(from), string(to))
	updated, err := scanDonation(row)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Donation{}, s.missingOrConflict(ctx, "donations", id)
	}
	return updated, err
}

func (s *Store) listDonations(ctx context.Context, query string, args ...any) ([]models.Donation, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	defer rows.Close()

	out := []models.Donation{}
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// missingOrConflict explains why a guarded update on table touched no row.
func (s *Store) missingOrConflict(ctx context.Context, table, id string) error {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check %s existence: %w", table, err)
	}
	if exists {
		return storage.ErrConflict
	}
	return storage.ErrNotFound
}

func scanDonation(row pgx.Row) (models.Donation, error) {
	var d models.Donation
	var status string
	if err := row.Scan(&d.ID, &d.DonorID, &d.NGOID, &d.Amount, &d.Currency, &d.PaymentMethod,
		&d.TransactionID, &status, &d.Message, &d.Anonymous, &d.CreatedAt, &d.UpdatedAt,
		&d.DonorName, &d.NGOName, &d.NGODescription); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Donation{}, storage.ErrNotFound
		}
		return models.Donation{}, err
	}
	d.Status = models.DonationStatus(status)
	return d, nil
}
