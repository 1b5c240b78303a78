package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Requirement is a funding or resource request posted by an NGO.
type Requirement struct {
	ID             string              `json:"id"`
	NGOID          string              `json:"ngo_id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Category       string              `json:"category"`
	AmountNeeded   decimal.NullDecimal `json:"amount_needed"`
	Currency       string              `json:"currency"`
	Priority       Priority            `json:"priority"`
	Status         RequirementStatus   `json:"status"`
	Deadline       *Date               `json:"deadline"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	NGOName        string              `json:"ngo_name,omitempty"`
	NGODescription string              `json:"ngo_description,omitempty"`
	NGOCity        string              `json:"ngo_city,omitempty"`
	NGOState       string              `json:"ngo_state,omitempty"`
	NGOWebsite     string              `json:"ngo_website,omitempty"`
}

// RequirementUpdate lists the fields an owning NGO may change.
type RequirementUpdate struct {
	Title        *string
	Description  *string
	Category     *string
	AmountNeeded *decimal.Decimal
	Currency     *string
	Priority     *Priority
	Status       *RequirementStatus
	Deadline     *Date
}

// IsEmpty reports whether the update would change nothing.
func (u RequirementUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Category == nil && u.AmountNeeded == nil &&
		u.Currency == nil && u.Priority == nil && u.Status == nil && u.Deadline == nil
}

// Apply copies the set fields onto r and returns the result.
func (u RequirementUpdate) Apply(r Requirement) Requirement {
	if u.Title != nil {
		r.Title = *u.Title
	}
	if u.Description != nil {
		r.Description = *u.Description
	}
	if u.Category != nil {
		r.Category = *u.Category
	}
	if u.AmountNeeded != nil {
		r.AmountNeeded = decimal.NewNullDecimal(*u.AmountNeeded)
	}
	if u.Currency != nil {
		r.Currency = *u.Currency
	}
	if u.Priority != nil {
		r.Priority = *u.Priority
	}
	if u.Status != nil {
		r.Status = *u.Status
	}
	if u.Deadline != nil {
		d := *u.Deadline
		r.Deadline = &d
	}
	return r
}

// SortByPriority orders requirements urgent first through low, newest first within a priority.
func SortByPriority(reqs []Requirement) {
	sort.SliceStable(reqs, func(i, j int) bool {
		ri, rj := reqs[i].Priority.Rank(), reqs[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}
		return reqs[i].CreatedAt.After(reqs[j].CreatedAt)
	})
}
