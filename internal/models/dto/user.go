package dto

import "github.com/houseofcharity/charity-be/internal/models"

// UpdateUserRequest is the body of PUT /users/{id}. Fields outside this set are ignored.
type UpdateUserRequest struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	Country     *string `json:"country"`
	Pincode     *string `json:"pincode"`
	Description *string `json:"description"`
	Website     *string `json:"website"`
	LogoURL     *string `json:"logo_url"`
}

func (r UpdateUserRequest) Update() models.UserUpdate {
	return models.UserUpdate{
		Name:        r.Name,
		Phone:       r.Phone,
		Address:     r.Address,
		City:        r.City,
		State:       r.State,
		Country:     r.Country,
		Pincode:     r.Pincode,
		Description: r.Description,
		Website:     r.Website,
		LogoURL:     r.LogoURL,
	}
}
