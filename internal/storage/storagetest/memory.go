// Package storagetest provides an in-memory storage.Store for handler and server tests.
package storagetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/houseofcharity/charity-be/internal/models"
	"github.com/houseofcharity/charity-be/internal/storage"
)

var _ storage.Store = (*Memory)(nil)

// Memory mirrors the Postgres store's observable behavior: joined names,
// newest-first lists, guarded status writes, and sentinel errors.
type Memory struct {
	mu           sync.Mutex
	clock        time.Time
	users        map[string]models.User
	donations    map[string]models.Donation
	requirements map[string]models.Requirement

	// PingErr, when set, is returned by Ping.
	PingErr error
}

// NewMemory returns an empty store whose clock advances one second per write.
func NewMemory() *Memory {
	return &Memory{
		clock:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:        make(map[string]models.User),
		donations:    make(map[string]models.Donation),
		requirements: make(map[string]models.Requirement),
	}
}

func (m *Memory) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *Memory) Ping(context.Context) error { return m.PingErr }

func (m *Memory) CreateUser(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	if _, ok := m.users[user.ID]; ok {
		return models.User{}, storage.ErrAlreadyExists
	}
	now := m.tick()
	user.CreatedAt, user.UpdatedAt = now, now
	m.users[user.ID] = user
	return user, nil
}

func (m *Memory) FindUserByID(_ context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (m *Memory) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (m *Memory) ListNGOs(context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.User{}
	for _, u := range m.users {
		if u.UserType == models.NGO {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) UpdateUser(_ context.Context, id string, upd models.UserUpdate) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	u = upd.Apply(u)
	u.UpdatedAt = m.tick()
	m.users[id] = u
	return u, nil
}

func (m *Memory) joinDonation(d models.Donation) models.Donation {
	d.DonorName = m.users[d.DonorID].Name
	ngo := m.users[d.NGOID]
	d.NGOName, d.NGODescription = ngo.Name, ngo.Description
	return d
}

func (m *Memory) CreateDonation(_ context.Context, d models.Donation) (models.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.donations[d.ID]; ok {
		return models.Donation{}, storage.ErrAlreadyExists
	}
	now := m.tick()
	d.CreatedAt, d.UpdatedAt = now, now
	m.donations[d.ID] = d
	return m.joinDonation(d), nil
}

func (m *Memory) FindDonationByID(_ context.Context, id string) (models.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.donations[id]
	if !ok {
		return models.Donation{}, storage.ErrNotFound
	}
	return m.joinDonation(d), nil
}

func (m *Memory) listDonations(keep func(models.Donation) bool, limit int) []models.Donation {
	out := []models.Donation{}
	for _, d := range m.donations {
		if keep(d) {
			out = append(out, m.joinDonation(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *Memory) ListDonationsByDonor(_ context.Context, donorID string) ([]models.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listDonations(func(d models.Donation) bool { return d.DonorID == donorID }, 0), nil
}

func (m *Memory) ListDonationsByNGO(_ context.Context, ngoID string) ([]models.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listDonations(func(d models.Donation) bool { return d.NGOID == ngoID }, 0), nil
}

func (m *Memory) ListCompletedDonations(_ context.Context, limit int) ([]models.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listDonations(func(d models.Donation) bool { return d.Status == models.DonationCompleted }, limit), nil
}

func (m *Memory) UpdateDonationStatus(_ context.Context, id string, from, to models.DonationStatus) (models.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.donations[id]
	if !ok {
		return models.Donation{}, storage.ErrNotFound
	}
	if d.Status != from {
		return models.Donation{}, storage.ErrConflict
	}
	d.Status = to
	d.UpdatedAt = m.tick()
	m.donations[id] = d
	return m.joinDonation(d), nil
}

func (m *Memory) joinRequirement(r models.Requirement) models.Requirement {
	ngo := m.users[r.NGOID]
	r.NGOName, r.NGODescription = ngo.Name, ngo.Description
	r.NGOCity, r.NGOState, r.NGOWebsite = ngo.City, ngo.State, ngo.Website
	return r
}

func (m *Memory) CreateRequirement(_ context.Context, r models.Requirement) (models.Requirement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requirements[r.ID]; ok {
		return models.Requirement{}, storage.ErrAlreadyExists
	}
	now := m.tick()
	r.CreatedAt, r.UpdatedAt = now, now
	m.requirements[r.ID] = r
	return m.joinRequirement(r), nil
}

// PutRequirement stores r as-is, keeping its CreatedAt. Useful for ordering fixtures.
func (m *Memory) PutRequirement(r models.Requirement) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requirements[r.ID] = r
}

func (m *Memory) FindRequirementByID(_ context.Context, id string) (models.Requirement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requirements[id]
	if !ok {
		return models.Requirement{}, storage.ErrNotFound
	}
	return m.joinRequirement(r), nil
}

func (m *Memory) listRequirements(keep func(models.Requirement) bool) []models.Requirement {
	out := []models.Requirement{}
	for _, r := range m.requirements {
		if keep(r) {
			out = append(out, m.joinRequirement(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *Memory) ListActiveRequirements(context.Context) ([]models.Requirement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listRequirements(func(r models.Requirement) bool { return r.Status == models.RequirementActive }), nil
}

func (m *Memory) ListActiveRequirementsByCategory(_ context.Context, category string) ([]models.Requirement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listRequirements(func(r models.Requirement) bool {
		return r.Status == models.RequirementActive && r.Category == category
	}), nil
}

func (m *Memory) ListRequirementsByNGO(_ context.Context, ngoID string) ([]models.Requirement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listRequirements(func(r models.Requirement) bool { return r.NGOID == ngoID }), nil
}

func (m *Memory) UpdateRequirement(_ context.Context, id string, expected models.RequirementStatus, upd models.RequirementUpdate) (models.Requirement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requirements[id]
	if !ok {
		return models.Requirement{}, storage.ErrNotFound
	}
	if r.Status != expected {
		return models.Requirement{}, storage.ErrConflict
	}
	r = upd.Apply(r)
	r.UpdatedAt = m.tick()
	m.requirements[id] = r
	return m.joinRequirement(r), nil
}

func (m *Memory) DeleteRequirement(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requirements[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.requirements, id)
	return nil
}

func (m *Memory) DonorStats(_ context.Context, donorID string) (models.DonorStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stats models.DonorStats
	for _, d := range m.donations {
		if d.DonorID != donorID {
			continue
		}
		stats.TotalDonations++
		stats.TotalAmount = stats.TotalAmount.Add(d.Amount)
		if d.Status == models.DonationCompleted {
			stats.CompletedDonations++
		}
	}
	stats.AverageAmount = average(stats.TotalAmount, stats.TotalDonations)
	return stats, nil
}

func (m *Memory) NGOStats(_ context.Context, ngoID string) (models.NGOStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stats models.NGOStats
	for _, d := range m.donations {
		if d.NGOID == ngoID && d.Status == models.DonationCompleted {
			stats.TotalDonationsReceived++
			stats.TotalAmountReceived = stats.TotalAmountReceived.Add(d.Amount)
		}
	}
	stats.AverageDonation = average(stats.TotalAmountReceived, stats.TotalDonationsReceived)
	for _, r := range m.requirements {
		if r.NGOID != ngoID {
			continue
		}
		stats.TotalRequirements++
		switch r.Status {
		case models.RequirementActive:
			stats.ActiveRequirements++
		case models.RequirementFulfilled:
			stats.FulfilledRequirements++
		}
	}
	return stats, nil
}

func average(total decimal.Decimal, n int64) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(n)).Round(2)
}
