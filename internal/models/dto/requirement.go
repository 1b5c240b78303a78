package dto

import (
	"github.com/shopspring/decimal"

	"github.com/houseofcharity/charity-be/internal/models"
)

// CreateRequirementRequest is the body of POST /requirements.
type CreateRequirementRequest struct {
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Category     string           `json:"category" validate:"max=64"`
	AmountNeeded *decimal.Decimal `json:"amount_needed"`
	Currency     string           `json:"currency" validate:"omitempty,len=3,alpha"`
	Priority     string           `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Deadline     *models.Date     `json:"deadline"`
}

// UpdateRequirementRequest is the body of PUT /requirements/{id}. Fields outside this set are ignored.
type UpdateRequirementRequest struct {
	Title        *string          `json:"title"`
	Description  *string          `json:"description"`
	Category     *string          `json:"category" validate:"omitempty,max=64"`
	AmountNeeded *decimal.Decimal `json:"amount_needed"`
	Currency     *string          `json:"currency" validate:"omitempty,len=3,alpha"`
	Priority     *string          `json:"priority"`
	Status       *string          `json:"status"`
	Deadline     *models.Date     `json:"deadline"`
}

func (r UpdateRequirementRequest) Update() models.RequirementUpdate {
	upd := models.RequirementUpdate{
		Title:        r.Title,
		Description:  r.Description,
		Category:     r.Category,
		AmountNeeded: r.AmountNeeded,
		Currency:     r.Currency,
		Deadline:     r.Deadline,
	}
	if r.Priority != nil {
		p := models.Priority(*r.Priority)
		upd.Priority = &p
	}
	if r.Status != nil {
		s := models.RequirementStatus(*r.Status)
		upd.Status = &s
	}
	return upd
}
