package models

import "github.com/shopspring/decimal"

// DonorStats summarizes the donations a donor has made.
type DonorStats struct {
	TotalDonations     int64           `json:"total_donations"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	AverageAmount      decimal.Decimal `json:"average_amount"`
	CompletedDonations int64           `json:"completed_donations"`
}

// NGOStats summarizes completed donations received and requirements posted by an NGO.
type NGOStats struct {
	TotalDonationsReceived int64           `json:"total_donations_received"`
	TotalAmountReceived    decimal.Decimal `json:"total_amount_received"`
	AverageDonation        decimal.Decimal `json:"average_donation"`
	TotalRequirements      int64           `json:"total_requirements"`
	ActiveRequirements     int64           `json:"active_requirements"`
	FulfilledRequirements  int64           `json:"fulfilled_requirements"`
}
