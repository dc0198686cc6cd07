package util

import (
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	cneRe   = regexp.MustCompile(`^[A-Za-z0-9]{6,20}$`)
)

// ValidateObjectID checks an id path/body parameter before it reaches the
// store. Frontends sometimes send the literal "undefined", treat it as empty.
func ValidateObjectID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" || strings.EqualFold(id, "undefined") {
		return fmt.Errorf("id is required")
	}
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return fmt.Errorf("invalid id format")
	}
	return nil
}

// ValidateEmail checks basic email shape.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is empty")
	}
	if !emailRe.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateCNE checks the institutional student identifier (6-20 alphanumeric).
func ValidateCNE(cne string) error {
	if cne == "" {
		return fmt.Errorf("cne is empty")
	}
	if !cneRe.MatchString(cne) {
		return fmt.Errorf("invalid cne format")
	}
	return nil
}
