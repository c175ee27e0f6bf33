package model

import (
	"fmt"
	"time"
)

// Nurse is a staff profile linked one-to-one with a User account.
type Nurse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Department    string    `json:"department"`
	LicenseNumber string    `json:"licenseNumber"`
	Contact       string    `json:"contact,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Validate checks the candidate nurse record, accumulating all violations.
func (n *Nurse) Validate() ValidationResult {
	var errs []string

	if isBlank(n.FirstName) {
		errs = append(errs, "first name is required")
	}
	if isBlank(n.LastName) {
		errs = append(errs, "last name is required")
	}
	if isBlank(n.Department) {
		errs = append(errs, "department is required")
	}
	if isBlank(n.LicenseNumber) {
		errs = append(errs, "license number is required")
	}
	if n.Contact != "" && !ValidPhone(n.Contact) {
		errs = append(errs, "valid contact number is required")
	}

	return newValidationResult(errs)
}

func (n *Nurse) FullName() string {
	return fmt.Sprintf("%s %s", n.FirstName, n.LastName)
}

type CreateNurseRequest struct {
	UserID        string `json:"userId" binding:"required"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Department    string `json:"department"`
	LicenseNumber string `json:"licenseNumber"`
	Contact       string `json:"contact" binding:"omitempty,phone"`
}

type UpdateNurseRequest struct {
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	Department    *string `json:"department"`
	LicenseNumber *string `json:"licenseNumber"`
	Contact       *string `json:"contact"`
}
