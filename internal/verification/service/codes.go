package service

import (
	"errors"
	"strings"
	"time"

	"github.com/ridloal/blood-portal/internal/verification/domain"
)

const (
	donorCodeLength  = 12
	donorCodePrefix  = "DN"
	pickupCodeLength = 8

	// YYMMDD + HH
	donorStampLayout = "06010215"
)

var (
	ErrInvalidDonorCode  = errors.New("donor code must be DN followed by date, hour and two digits")
	ErrInvalidPickupCode = errors.New("pickup code must be 8 uppercase letters or digits")
	ErrWrongCodeKind     = errors.New("this code belongs to the other verification desk")
)

// Normalize trims and upper-cases a typed code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateDonorCode checks DN + YYMMDD + HH + NN and returns the encoded issue hour.
func ValidateDonorCode(code string) (time.Time, error) {
	if len(code) != donorCodeLength || !strings.HasPrefix(code, donorCodePrefix) {
		return time.Time{}, ErrInvalidDonorCode
	}
	if !allDigits(code[len(donorCodePrefix):]) {
		return time.Time{}, ErrInvalidDonorCode
	}
	issued, err := time.Parse(donorStampLayout, code[2:10])
	if err != nil {
		return time.Time{}, ErrInvalidDonorCode
	}
	return issued, nil
}

func ValidatePickupCode(code string) error {
	if len(code) != pickupCodeLength {
		return ErrInvalidPickupCode
	}
	for _, r := range code {
		if !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') {
			return ErrInvalidPickupCode
		}
	}
	return nil
}

// Kind tells the two namespaces apart; the lengths never overlap.
func Kind(code string) domain.CodeKind {
	if _, err := ValidateDonorCode(code); err == nil {
		return domain.KindDonor
	}
	if ValidatePickupCode(code) == nil {
		return domain.KindPickup
	}
	return domain.KindUnknown
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
