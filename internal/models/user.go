package models

import "time"

// UserType distinguishes donor accounts from NGO accounts.
type UserType string

const (
	Donor UserType = "donor"
	NGO   UserType = "ngo"
)

// Valid reports whether t is a known account type.
func (t UserType) Valid() bool {
	return t == Donor || t == NGO
}

// DefaultCountry is applied at registration when no country is supplied.
const DefaultCountry = "India"

// User captures application-facing fields for a donor or NGO account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	UserType     UserType  `json:"user_type"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Country      string    `json:"country"`
	Pincode      string    `json:"pincode"`
	Description  string    `json:"description"`
	Website      string    `json:"website"`
	LogoURL      string    `json:"logo_url"`
	Verified     bool      `json:"verified"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SessionUser is the trimmed user record returned alongside tokens.
type SessionUser struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	UserType    UserType `json:"user_type"`
	Name        string   `json:"name"`
	Phone       string   `json:"phone"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	Description string   `json:"description"`
}

// Session returns the sanitized view of u.
func (u User) Session() SessionUser {
	return SessionUser{
		ID:          u.ID,
		Email:       u.Email,
		UserType:    u.UserType,
		Name:        u.Name,
		Phone:       u.Phone,
		City:        u.City,
		State:       u.State,
		Description: u.Description,
	}
}

// PublicNGO is the directory listing shape for NGO accounts.
type PublicNGO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Country     string    `json:"country"`
	Website     string    `json:"website"`
	LogoURL     string    `json:"logo_url"`
	Verified    bool      `json:"verified"`
	CreatedAt   time.Time `json:"created_at"`
}

// Public returns the directory listing view of u.
func (u User) Public() PublicNGO {
	return PublicNGO{
		ID:          u.ID,
		Name:        u.Name,
		Description: u.Description,
		City:        u.City,
		State:       u.State,
		Country:     u.Country,
		Website:     u.Website,
		LogoURL:     u.LogoURL,
		Verified:    u.Verified,
		CreatedAt:   u.CreatedAt,
	}
}

// UserUpdate lists the profile fields an owner may change. Nil fields are left untouched.
type UserUpdate struct {
	Name        *string
	Phone       *string
	Address     *string
	City        *string
	State       *string
	Country     *string
	Pincode     *string
	Description *string
	Website     *string
	LogoURL     *string
}

// IsEmpty reports whether the update would change nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Phone == nil && u.Address == nil && u.City == nil &&
		u.State == nil && u.Country == nil && u.Pincode == nil && u.Description == nil &&
		u.Website == nil && u.LogoURL == nil
}

// Apply copies the set fields onto user and returns the result.
func (u UserUpdate) Apply(user User) User {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&user.Name, u.Name)
	set(&user.Phone, u.Phone)
	set(&user.Address, u.Address)
	set(&user.City, u.City)
	set(&user.State, u.State)
	set(&user.Country, u.Country)
	set(&user.Pincode, u.Pincode)
	set(&user.Description, u.Description)
	set(&user.Website, u.Website)
	set(&user.LogoURL, u.LogoURL)
	return user
}
