package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houseofcharity/charity-be/internal/models"
)

type donationEnvelope struct {
	Message  string          `json:"message"`
	Donation models.Donation `json:"donation"`
}

type donationList struct {
	Donations []models.Donation `json:"donations"`
}

func (e *testEnv) donate(donor account, ngoID string, anonymous bool) models.Donation {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/donations", donor.token, map[string]any{
		"ngo_id":         ngoID,
		"amount":         100,
		"payment_method": "upi",
		"anonymous":      anonymous,
	})
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[donationEnvelope](e.t, rec).Donation
}

func (e *testEnv) setDonationStatus(caller account, id string, status models.DonationStatus) int {
	e.t.Helper()
	return e.do(http.MethodPut, "/api/donations/"+id+"/status", caller.token, map[string]string{"status": string(status)}).Code
}

func TestCreateDonation(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	donor := env.seed(models.Donor, "Asha")
	ngo := env.seed(models.NGO, "Helping Hands")

	rec := env.do(http.MethodPost, "/api/donations", donor.token, map[string]any{
		"ngo_id":   ngo.ID,
		"amount":   "250.50",
		"status":   "completed",
		"donor_id": ngo.ID,
		"message":  "keep going",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decode[donationEnvelope](t, rec)
	assert.Equal(t, "Donation created successfully", resp.Message)
	d := resp.Donation
	assert.Equal(t, models.DonationPending, d.Status, "client-supplied status is ignored")
	assert.Equal(t, donor.ID, d.DonorID, "donor comes from the token")
	assert.Equal(t, models.DefaultCurrency, d.Currency)
	assert.True(t, decimal.RequireFromString("250.50").Equal(d.Amount))
	assert.Equal(t, "Asha", d.DonorName)
	assert.Equal(t, "Helping Hands", d.NGOName)
	assert.Equal(t, "keep going", d.Message)
}

func TestCreateDonationRoundsToCents(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	donor := env.seed(models.Donor, "Asha")
	ngo := env.seed(models.NGO, "Helping Hands")

	rec := env.do(http.MethodPost, "/api/donations", donor.token, map[string]any{"ngo_id": ngo.ID, "amount": "0.005"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decode[donationEnvelope](t, rec).Donation
	assert.True(t, decimal.RequireFromString("0.01").Equal(got.Amount), got.Amount.String())

	stored, err := env.store.FindDonationByID(context.Background(), got.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(stored.Amount))
}

func TestCreateDonationRejects(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	donor := env.seed(models.Donor, "Asha")
	other := env.seed(models.Donor, "Ravi")
	ngo := env.seed(models.NGO, "Helping Hands")

	tests := []struct {
		name     string
		token    string
		body     any
		wantCode int
		wantMsg  string
	}{
		{"no token", "", map[string]any{"ngo_id": ngo.ID, "amount": 10}, http.StatusUnauthorized, "Access token required"},
		{"missing ngo", donor.token, map[string]any{"amount": 10}, http.StatusBadRequest, "NGO ID and amount are required"},
		{"missing amount", donor.token, map[string]any{"ngo_id": ngo.ID}, http.StatusBadRequest, "NGO ID and amount are required"},
		{"zero amount", donor.token, map[string]any{"ngo_id": ngo.ID, "amount": 0}, http.StatusBadRequest, "Amount must be greater than zero"},
		{"negative amount", donor.token, map[string]any{"ngo_id": ngo.ID, "amount": -5}, http.StatusBadRequest, "Amount must be greater than zero"},
		{"sub-cent amount", donor.token, map[string]any{"ngo_id": ngo.ID, "amount": "0.001"}, http.StatusBadRequest, "Amount must be greater than zero"},
		{"oversized amount", donor.token, map[string]any{"ngo_id": ngo.ID, "amount": "1000000000000"}, http.StatusBadRequest, "Amount must be less than 1000000000000"},
		{"bad currency", donor.token, map[string]any{"ngo_id": ngo.ID, "amount": 5, "currency": "RUPEES"}, http.StatusBadRequest, "currency must be exactly 3 characters"},
		{"unknown ngo", donor.token, map[string]any{"ngo_id": uuid.NewString(), "amount": 5}, http.StatusNotFound, "NGO not found"},
		{"recipient is a donor", donor.token, map[string]any{"ngo_id": other.ID, "amount": 5}, http.StatusNotFound, "NGO not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/api/donations", tt.token, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, errorOf(t, rec))
		})
	}
}

func TestDonationListings(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	donor := env.seed(models.Donor, "Asha")
	ngo := env.seed(models.NGO, "Helping Hands")
	stranger := env.seed(models.Donor, "Ravi")

	open := env.donate(donor, ngo.ID, false)
	hidden := env.donate(donor, ngo.ID, true)

	t.Run("donor sees true identity", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/donations/donor/"+donor.ID, donor.token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		list := decode[donationList](t, rec).Donations
		require.Len(t, list, 2)
		assert.Equal(t, hidden.ID, list[0].ID, "newest first")
		for _, d := range list {
			assert.Equal(t, donor.ID, d.DonorID)
			assert.Equal(t, "Asha", d.DonorName)
		}
	})

	t.Run("other donors are denied", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/donations/donor/"+donor.ID, stranger.token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Access denied", errorOf(t, rec))
	})

	t.Run("ngo listing redacts anonymous donors", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/donations/ngo/"+ngo.ID, stranger.token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		byID := map[string]models.Donation{}
		for _, d := range decode[donationList](t, rec).Donations {
			byID[d.ID] = d
		}
		require.Len(t, byID, 2)
		assert.Equal(t, "Asha", byID[open.ID].DisplayName)
		assert.Equal(t, donor.ID, byID[open.ID].DonorID)
		assert.Equal(t, models.AnonymousName, byID[hidden.ID].DisplayName)
		assert.Equal(t, models.AnonymousName, byID[hidden.ID].DonorName)
		assert.Empty(t, byID[hidden.ID].DonorID)
	})

	t.Run("ngo listing for a non-ngo", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/donations/ngo/"+donor.ID, donor.token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPublicFeed(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	donor := env.seed(models.Donor, "Asha")
	ngo := env.seed(models.NGO, "Helping Hands")
	ctx := context.Background()

	for i := 0; i < models.PublicFeedLimit+5; i++ {
		_, err := env.store.CreateDonation(ctx, models.Donation{
			ID:        uuid.NewString(),
			DonorID:   donor.ID,
			NGOID:     ngo.ID,
			Amount:    decimal.NewFromInt(int64(i + 1)),
			Status:    models.DonationCompleted,
			Anonymous: i%2 == 0,
		})
		require.NoError(t, err)
	}
	pending := env.donate(donor, ngo.ID, false)

	rec := env.do(http.MethodGet, "/api/donations", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[donationList](t, rec).Donations
	require.Len(t, list, models.PublicFeedLimit)
	for _, d := range list {
		assert.NotEqual(t, pending.ID, d.ID)
		assert.Equal(t, models.DonationCompleted, d.Status)
		if d.Anonymous {
			assert.Equal(t, models.AnonymousName, d.DisplayName)
			assert.Empty(t, d.DonorID)
		} else {
			assert.Equal(t, "Asha", d.DisplayName)
		}
	}
}

func TestUpdateDonationStatus(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	donor := env.seed(models.Donor, "Asha")
	ngo := env.seed(models.NGO, "Helping Hands")
	stranger := env.seed(models.Donor, "Ravi")
	d := env.donate(donor, ngo.ID, false)

	rec := env.do(http.MethodPut, "/api/donations/"+d.ID+"/status", ngo.token, map[string]string{"status": "refunded"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid status", errorOf(t, rec))

	assert.Equal(t, http.StatusNotFound, env.setDonationStatus(ngo, uuid.NewString(), models.DonationCompleted))
	assert.Equal(t, http.StatusForbidden, env.setDonationStatus(stranger, d.ID, models.DonationCompleted))

	rec = env.do(http.MethodPut, "/api/donations/"+d.ID+"/status", ngo.token, map[string]string{"status": "Completed"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[donationEnvelope](t, rec)
	assert.Equal(t, "Donation status updated successfully", resp.Message)
	assert.Equal(t, models.DonationCompleted, resp.Donation.Status)

	rec = env.do(http.MethodPut, "/api/donations/"+d.ID+"/status", donor.token, map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	stored, err := env.store.FindDonationByID(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DonationCompleted, stored.Status)

	assert.Equal(t, http.StatusOK, env.setDonationStatus(ngo, d.ID, models.DonationCompleted), "same status is a no-op")
}

func TestDonorCanRetryFailedDonation(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	donor := env.seed(models.Donor, "Asha")
	ngo := env.seed(models.NGO, "Helping Hands")
	d := env.donate(donor, ngo.ID, false)

	assert.Equal(t, http.StatusOK, env.setDonationStatus(ngo, d.ID, models.DonationFailed))
	assert.Equal(t, http.StatusOK, env.setDonationStatus(donor, d.ID, models.DonationPending))
	assert.Equal(t, http.StatusOK, env.setDonationStatus(donor, d.ID, models.DonationCancelled))
	assert.Equal(t, http.StatusBadRequest, env.setDonationStatus(ngo, d.ID, models.DonationCompleted))
}

func TestGetDonation(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	donor := env.seed(models.Donor, "Asha")
	ngo := env.seed(models.NGO, "Helping Hands")
	stranger := env.seed(models.Donor, "Ravi")
	d := env.donate(donor, ngo.ID, true)

	first := env.do(http.MethodGet, "/api/donations/"+d.ID, ngo.token, nil)
	require.Equal(t, http.StatusOK, first.Code)
	second := env.do(http.MethodGet, "/api/donations/"+d.ID, ngo.token, nil)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	got := decode[donationEnvelope](t, first).Donation
	assert.Equal(t, d.ID, got.ID)
	assert.Equal(t, "Helping Hands", got.NGOName)

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/donations/"+d.ID, donor.token, nil).Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, "/api/donations/"+d.ID, stranger.token, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/donations/"+uuid.NewString(), donor.token, nil).Code)
}
