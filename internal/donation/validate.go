package donation

import (
	"strings"

	"hopefund/internal/validate"
)

// Field names used in validation errors. They match the form input names.
const (
	FieldAmount = "amount"
	FieldName   = "name"
	FieldEmail  = "email"
	FieldPhone  = "phone"
)

// Validate collects every field problem in in. The returned error is a
// validate.Errors when non-nil.
func Validate(in Input) error {
	var errs validate.Errors
	if in.Amount <= 0 {
		errs.Add(FieldAmount, "Please select a donation amount")
	}
	if strings.TrimSpace(in.DonorName) == "" {
		errs.Add(FieldName, "Please enter your name")
	}
	if !validate.Email(in.DonorEmail) {
		errs.Add(FieldEmail, "Please enter a valid email address")
	}
	if in.DonorPhone != "" && !validate.Mobile(in.DonorPhone) {
		errs.Add(FieldPhone, "Please enter a valid 10-digit mobile number")
	}
	return errs.Err()
}
