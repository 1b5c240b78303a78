package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency applies to donations and requirements created without one.
const DefaultCurrency = "INR"

// AnonymousName replaces the donor's name in NGO-facing and public listings.
const AnonymousName = "Anonymous"

// PublicFeedLimit bounds the public completed-donations feed.
const PublicFeedLimit = 50

// Donation is a donor-to-NGO monetary transfer.
type Donation struct {
	ID             string          `json:"id"`
	DonorID        string          `json:"donor_id,omitempty"`
	NGOID          string          `json:"ngo_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	PaymentMethod  string          `json:"payment_method"`
	TransactionID  string          `json:"transaction_id"`
	Status         DonationStatus  `json:"status"`
	Message        string          `json:"message"`
	Anonymous      bool            `json:"anonymous"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DonorName      string          `json:"donor_name,omitempty"`
	NGOName        string          `json:"ngo_name,omitempty"`
	NGODescription string          `json:"ngo_description,omitempty"`
	DisplayName    string          `json:"display_name,omitempty"`
}

// IsParty reports whether userID is the donor or the receiving NGO.
func (d Donation) IsParty(userID string) bool {
	return userID != "" && (userID == d.DonorID || userID == d.NGOID)
}

// Redacted returns the donation as shown to anyone other than the donor.
// Anonymous donations lose the donor's identity.
func (d Donation) Redacted() Donation {
	if d.Anonymous {
		d.DonorID = ""
		d.DonorName = AnonymousName
		d.DisplayName = AnonymousName
		return d
	}
	d.DisplayName = d.DonorName
	return d
}

// RedactAll applies Redacted to every donation in place.
func RedactAll(donations []Donation) []Donation {
	for i := range donations {
		donations[i] = donations[i].Redacted()
	}
	return donations
}
