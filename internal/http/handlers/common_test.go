package handlers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCheckAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantMsg string
	}{
		{"100", "100", ""},
		{"10.005", "10.01", ""},
		{"0.005", "0.01", ""},
		{"0.004", "0", "Amount must be greater than zero"},
		{"0", "0", "Amount must be greater than zero"},
		{"-3", "-3", "Amount must be greater than zero"},
		{"999999999999.99", "999999999999.99", ""},
		{"999999999999.995", "1000000000000", "Amount must be less than 1000000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, msg := checkAmount(decimal.RequireFromString(tt.in), "Amount")
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), got.String())
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}
