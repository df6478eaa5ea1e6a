package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
)

type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	State   string `json:"state"`
	Gstin   string `json:"gstin"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
	// Aadhaar and Dob are AES-GCM ciphertext at rest; plaintext never hits
	// the local store or the remote.
	Aadhaar       string          `json:"aadhaar,omitempty"`
	Dob           string          `json:"dob,omitempty"`
	TotalPurchase decimal.Decimal `json:"total_purchase"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type NewCustomer struct {
	ID      string `json:"id"`
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	State   string `json:"state"`
	Gstin   string `json:"gstin"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
	Aadhaar string `json:"aadhaar"`
	Dob     string `json:"dob"`
}

// Validate checks required fields and normalizes the phone number to E.164
// when it parses; unparseable numbers are kept as typed (small businesses
// record landlines and shortcodes that libphonenumber rejects).
func (input *NewCustomer) Validate(defaultRegion string) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return errors.New("customer name is required")
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		if num, err := libphonenumber.Parse(phone, defaultRegion); err == nil && libphonenumber.IsValidNumber(num) {
			input.Phone = libphonenumber.Format(num, libphonenumber.E164)
		} else {
			input.Phone = phone
		}
	}
	input.Gstin = strings.ToUpper(strings.TrimSpace(input.Gstin))
	return nil
}
