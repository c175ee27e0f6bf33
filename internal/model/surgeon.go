package model

import (
	"fmt"
	"time"
)

// Surgeon is a staff profile linked one-to-one with a User account.
type Surgeon struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Specialization string    `json:"specialization"`
	LicenseNumber  string    `json:"licenseNumber"`
	Contact        string    `json:"contact,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Validate checks the candidate surgeon record, accumulating all violations.
func (s *Surgeon) Validate() ValidationResult {
	var errs []string

	if isBlank(s.FirstName) {
		errs = append(errs, "first name is required")
	}
	if isBlank(s.LastName) {
		errs = append(errs, "last name is required")
	}
	if isBlank(s.Specialization) {
		errs = append(errs, "specialization is required")
	}
	if isBlank(s.LicenseNumber) {
		errs = append(errs, "license number is required")
	}
	if s.Contact != "" && !ValidPhone(s.Contact) {
		errs = append(errs, "valid contact number is required")
	}

	return newValidationResult(errs)
}

func (s *Surgeon) FullName() string {
	return fmt.Sprintf("%s %s", s.FirstName, s.LastName)
}

type CreateSurgeonRequest struct {
	UserID         string `json:"userId" binding:"required"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"licenseNumber"`
	Contact        string `json:"contact" binding:"omitempty,phone"`
}

type UpdateSurgeonRequest struct {
	FirstName      *string `json:"firstName"`
	LastName       *string `json:"lastName"`
	Specialization *string `json:"specialization"`
	LicenseNumber  *string `json:"licenseNumber"`
	Contact        *string `json:"contact"`
}

// SurgeonPatientsResult carries a page of the surgeon's operations, the
// distinct patients they reference, and the ids of patients whose fetch
// failed. Failures are reported rather than silently dropped so callers can
// observe the degradation.
type SurgeonPatientsResult struct {
	Operations       []*Operation `json:"operations"`
	Patients         []*Patient   `json:"patients"`
	FailedPatientIDs []string     `json:"failedPatientIds,omitempty"`
	Pagination       PageInfo     `json:"pagination"`
}
