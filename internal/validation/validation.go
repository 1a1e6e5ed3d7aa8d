// Package validation holds the pure input checks run before any write.
// Uniqueness and existence checks live in the mutation workflow, not
// here: a malformed input and a conflicting one are different failures.
package validation

import (
	"regexp"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validatorv10.New()

var (
	phoneIntl   = regexp.MustCompile(`^\+?1?\d{9,15}$`)
	phoneDashed = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
)

// ValidPhone reports whether phone matches one of the two accepted
// formats: "+1234567890" (9-15 digits) or "123-456-7890".
func ValidPhone(phone string) bool {
	if phone == "" {
		return true
	}
	return phoneIntl.MatchString(phone) || phoneDashed.MatchString(phone)
}

func ValidEmail(email string) bool {
	return validate.Var(email, "email") == nil
}

func Customer(name, email string, phone *string) []string {
	var errs []string

	email = strings.TrimSpace(email)

	if strings.TrimSpace(name) == "" {
		errs = append(errs, "Name is required")
	}

	if email == "" {
		errs = append(errs, "Email is required")
	} else if !ValidEmail(email) {
		errs = append(errs, "Invalid email format")
	}

	if phone != nil && strings.TrimSpace(*phone) != "" && !ValidPhone(strings.TrimSpace(*phone)) {
		errs = append(errs, "Invalid phone format. Use +1234567890 or 123-456-7890")
	}

	return errs
}

func Product(name string, price decimal.Decimal, stock *int32) []string {
	var errs []string

	if strings.TrimSpace(name) == "" {
		errs = append(errs, "Product name is required")
	}

	if price.Sign() <= 0 {
		errs = append(errs, "Price must be positive")
	}

	if stock != nil && *stock < 0 {
		errs = append(errs, "Stock cannot be negative")
	}

	return errs
}

func Order(customerID uuid.UUID, productIDs []uuid.UUID) []string {
	var errs []string

	if customerID == uuid.Nil {
		errs = append(errs, "Customer is required")
	}

	if len(productIDs) == 0 {
		errs = append(errs, "At least one product must be selected")
	}

	return errs
}
