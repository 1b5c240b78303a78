package postgres

import (
	"context"
	"fmt"

	"github.com/houseofcharity/charity-be/internal/models"
)

const moneyPlaces = 2

// DonorStats aggregates every donation made by donorID.
func (s *Store) DonorStats(ctx context.Context, donorID string) (models.DonorStats, error) {
	const query = `
	SELECT COUNT(*),
		COALESCE(SUM(amount), 0),
		COALESCE(AVG(amount), 0),
		COUNT(*) FILTER (WHERE status = 'completed')
	FROM donations
	WHERE donor_id = $1`
	var stats models.DonorStats
	if err := s.pool.QueryRow(ctx, query, donorID).Scan(
		&stats.TotalDonations, &stats.TotalAmount, &stats.AverageAmount, &stats.CompletedDonations); err != nil {
		return models.DonorStats{}, fmt.Errorf("donor stats: %w", err)
	}
	stats.AverageAmount = stats.AverageAmount.Round(moneyPlaces)
	return stats, nil
}

// NGOStats aggregates completed donations received and requirements posted by ngoID.
func (s *Store) NGOStats(ctx context.Context, ngoID string) (models.NGOStats, error) {
	const donationsQuery = `
	SELECT COUNT(*), COALESCE(SUM(amount), 0), COALESCE(AVG(amount), 0)
	FROM donations
	WHERE ngo_id = $1 AND status = 'completed'`
	const requirementsQuery = `
	SELECT COUNT(*),
		COUNT(*) FILTER (WHERE status = 'active'),
		COUNT(*) FILTER (WHERE status = 'fulfilled')
	FROM requirements
	WHERE ngo_id = $1`

	var stats models.NGOStats
	if err := s.pool.QueryRow(ctx, donationsQuery, ngoID).Scan(
		&stats.TotalDonationsReceived, &stats.TotalAmountReceived, &stats.AverageDonation); err != nil {
		return models.NGOStats{}, fmt.Errorf("ngo donation stats: %w", err)
	}
	if err := s.pool.QueryRow(ctx, requirementsQuery, ngoID).Scan(
		&stats.TotalRequirements, &stats.ActiveRequirements, &stats.FulfilledRequirements); err != nil {
		return models.NGOStats{}, fmt.Errorf("ngo requirement stats: %w", err)
	}
	stats.AverageDonation = stats.AverageDonation.Round(moneyPlaces)
	return stats, nil
}
