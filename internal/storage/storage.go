package storage

import (
	"context"
	"errors"

	"github.com/houseofcharity/charity-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrConflict indicates a guarded write matched no row because the record changed underneath it.
var ErrConflict = errors.New("record was modified concurrently")

// UserStore persists donor and NGO accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByID(ctx context.Context, id string) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	ListNGOs(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (models.User, error)
}

// DonationStore persists the donation ledger. Read methods return rows joined with party names.
type DonationStore interface {
	CreateDonation(ctx context.Context, d models.Donation) (models.Donation, error)
	FindDonationByID(ctx context.Context, id string) (models.Donation, error)
	ListDonationsByDonor(ctx context.Context, donorID string) ([]models.Donation, error)
	ListDonationsByNGO(ctx context.Context, ngoID string) ([]models.Donation, error)
	ListCompletedDonations(ctx context.Context, limit int) ([]models.Donation, error)
	// UpdateDonationStatus moves a donation from one status to another, returning
	// ErrConflict when the stored status no longer equals from.
	UpdateDonationStatus(ctx context.Context, id string, from, to models.DonationStatus) (models.Donation, error)
}

// RequirementStore persists the requirement board. Lists are newest first.
type RequirementStore interface {
	CreateRequirement(ctx context.Context, r models.Requirement) (models.Requirement, error)
	FindRequirementByID(ctx context.Context, id string) (models.Requirement, error)
	ListActiveRequirements(ctx context.Context) ([]models.Requirement, error)
	ListActiveRequirementsByCategory(ctx context.Context, category string) ([]models.Requirement, error)
	ListRequirementsByNGO(ctx context.Context, ngoID string) ([]models.Requirement, error)
	// UpdateRequirement applies upd, returning ErrConflict when the stored status no longer equals expected.
	UpdateRequirement(ctx context.Context, id string, expected models.RequirementStatus, upd models.RequirementUpdate) (models.Requirement, error)
	DeleteRequirement(ctx context.Context, id string) error
}

// StatsStore aggregates ledger and board figures for one account.
type StatsStore interface {
	DonorStats(ctx context.Context, donorID string) (models.DonorStats, error)
	NGOStats(ctx context.Context, ngoID string) (models.NGOStats, error)
}

// Store is the full persistence surface used by the HTTP layer.
type Store interface {
	UserStore
	DonationStore
	RequirementStore
	StatsStore
	Ping(ctx context.Context) error
}
