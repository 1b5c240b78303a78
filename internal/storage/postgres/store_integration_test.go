package postgres

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houseofcharity/charity-be/internal/models"
	"github.com/houseofcharity/charity-be/internal/storage"
)

// TestStoreIntegration exercises the Postgres store against a live database.
func TestStoreIntegration(t *testing.T) {
	if os.Getenv("RUN_POSTGRES_INTEGRATION") != "true" {
		t.Skip("set RUN_POSTGRES_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	ctx := context.Background()
	store, err := NewStore(ctx, Options{DatabaseURL: dbURL, MaxConns: 4}, logrus.NewEntry(logger))
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Ping(ctx))

	suffix := time.Now().UnixNano()
	donor := mustCreateUser(t, store, models.Donor, fmt.Sprintf("donor_%d@example.com", suffix), "Integration Donor")
	ngo := mustCreateUser(t, store, models.NGO, fmt.Sprintf("ngo_%d@example.com", suffix), "Integration NGO")

	t.Run("users", func(t *testing.T) {
		_, err := store.CreateUser(ctx, models.User{ID: uuid.NewString(), Email: donor.Email, UserType: models.Donor})
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)

		found, err := store.FindUserByEmail(ctx, donor.Email)
		require.NoError(t, err)
		assert.Equal(t, donor.ID, found.ID)
		assert.NotEmpty(t, found.PasswordHash)

		_, err = store.FindUserByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, storage.ErrNotFound)

		city := "Kochi"
		updated, err := store.UpdateUser(ctx, ngo.ID, models.UserUpdate{City: &city})
		require.NoError(t, err)
		assert.Equal(t, "Kochi", updated.City)
		assert.Equal(t, ngo.Name, updated.Name)

		ngos, err := store.ListNGOs(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, ngos)
		for _, u := range ngos {
			assert.Equal(t, models.NGO, u.UserType)
		}
	})

	t.Run("donations", func(t *testing.T) {
		created, err := store.CreateDonation(ctx, models.Donation{
			ID:        uuid.NewString(),
			DonorID:   donor.ID,
			NGOID:     ngo.ID,
			Amount:    decimal.RequireFromString("120.50"),
			Currency:  models.DefaultCurrency,
			Status:    models.DonationPending,
			Anonymous: true,
		})
		require.NoError(t, err)
		assert.Equal(t, donor.Name, created.DonorName)
		assert.Equal(t, ngo.Name, created.NGOName)
		assert.True(t, decimal.RequireFromString("120.50").Equal(created.Amount))

		_, err = store.UpdateDonationStatus(ctx, created.ID, models.DonationFailed, models.DonationPending)
		assert.ErrorIs(t, err, storage.ErrConflict)
		_, err = store.UpdateDonationStatus(ctx, uuid.NewString(), models.DonationPending, models.DonationCompleted)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		completed, err := store.UpdateDonationStatus(ctx, created.ID, models.DonationPending, models.DonationCompleted)
		require.NoError(t, err)
		assert.Equal(t, models.DonationCompleted, completed.Status)

		byDonor, err := store.ListDonationsByDonor(ctx, donor.ID)
		require.NoError(t, err)
		require.Len(t, byDonor, 1)
		assert.Equal(t, created.ID, byDonor[0].ID)

		feed, err := store.ListCompletedDonations(ctx, models.PublicFeedLimit)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(feed), models.PublicFeedLimit)

		stats, err := store.DonorStats(ctx, donor.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, stats.TotalDonations)
		assert.EqualValues(t, 1, stats.CompletedDonations)
		assert.True(t, decimal.RequireFromString("120.50").Equal(stats.TotalAmount))
	})

	t.Run("requirements", func(t *testing.T) {
		deadline := models.NewDate(time.Now().AddDate(0, 1, 0))
		created, err := store.CreateRequirement(ctx, models.Requirement{
			ID:           uuid.NewString(),
			NGOID:        ngo.ID,
			Title:        "Integration blankets",
			Category:     "shelter",
			AmountNeeded: decimal.NewNullDecimal(decimal.NewFromInt(900)),
			Currency:     models.DefaultCurrency,
			Priority:     models.PriorityHigh,
			Status:       models.RequirementActive,
			Deadline:     &deadline,
		})
		require.NoError(t, err)
		assert.Equal(t, ngo.Name, created.NGOName)
		require.NotNil(t, created.Deadline)
		assert.Equal(t, deadline.String(), created.Deadline.String())

		fulfilled := models.RequirementFulfilled
		_, err = store.UpdateRequirement(ctx, created.ID, models.RequirementCancelled, models.RequirementUpdate{Status: &fulfilled})
		assert.ErrorIs(t, err, storage.ErrConflict)

		updated, err := store.UpdateRequirement(ctx, created.ID, models.RequirementActive, models.RequirementUpdate{Status: &fulfilled})
		require.NoError(t, err)
		assert.Equal(t, models.RequirementFulfilled, updated.Status)
		assert.Equal(t, "Integration blankets", updated.Title)

		byNGO, err := store.ListRequirementsByNGO(ctx, ngo.ID)
		require.NoError(t, err)
		require.Len(t, byNGO, 1)

		stats, err := store.NGOStats(ctx, ngo.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, stats.TotalRequirements)
		assert.EqualValues(t, 1, stats.FulfilledRequirements)
		assert.EqualValues(t, 1, stats.TotalDonationsReceived)

		require.NoError(t, store.DeleteRequirement(ctx, created.ID))
		assert.ErrorIs(t, store.DeleteRequirement(ctx, created.ID), storage.ErrNotFound)
	})
}

func mustCreateUser(t *testing.T, store *Store, userType models.UserType, email, name string) models.User {
	t.Helper()
	user, err := store.CreateUser(context.Background(), models.User{
		ID:           uuid.NewString(),
		Email:        email,
		UserType:     userType,
		Name:         name,
		Country:      models.DefaultCountry,
		PasswordHash: "$2a$10$integrationplaceholderhashvalue",
	})
	require.NoError(t, err)
	return user
}

func loadDotEnv() {
	paths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	for _, path := range paths {
		_ = godotenv.Overload(path)
	}
}
