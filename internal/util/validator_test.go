package util

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidateObjectID_Valid(t *testing.T) {
	testCases := []string{
		primitive.NewObjectID().Hex(),
		"64a000000000000000000001",
	}

	for _, id := range testCases {
		if err := ValidateObjectID(id); err != nil {
			t.Errorf("ValidateObjectID(%q) error = %v, want nil", id, err)
		}
	}
}

func TestValidateObjectID_Invalid(t *testing.T) {
	testCases := []string{
		"",
		"undefined",
		"UNDEFINED",
		"not-an-object-id",
		"64a0000000000000000000",     // too short
		"64a0000000000000000000012a", // too long
		"64a00000000000000000000g",   // non-hex
	}

	for _, id := range testCases {
		if err := ValidateObjectID(id); err == nil {
			t.Errorf("ValidateObjectID(%q) error = nil, want error", id)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"admin@example.com", "a.b@uni.ac.ma"}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("ValidateEmail(%q) error = %v, want nil", email, err)
		}
	}

	invalid := []string{"", "no-at-sign", "a@b", "a @b.c", "@b.c"}
	for _, email := range invalid {
		if err := ValidateEmail(email); err == nil {
			t.Errorf("ValidateEmail(%q) error = nil, want error", email)
		}
	}
}

func TestValidateCNE(t *testing.T) {
	valid := []string{"D131234567", "R100200300", "ABC123"}
	for _, cne := range valid {
		if err := ValidateCNE(cne); err != nil {
			t.Errorf("ValidateCNE(%q) error = %v, want nil", cne, err)
		}
	}

	invalid := []string{"", "ab", "with space", "way-too-long-cne-value-123456", "bad!chars"}
	for _, cne := range invalid {
		if err := ValidateCNE(cne); err == nil {
			t.Errorf("ValidateCNE(%q) error = nil, want error", cne)
		}
	}
}
