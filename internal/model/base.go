package model

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationResult accumulates every rule violation found on a candidate
// record. Callers decide how to surface the list.
type ValidationResult struct {
	Valid  bool     `json:"is_valid"`
	Errors []string `json:"errors"`
}

func newValidationResult(errs []string) ValidationResult {
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// Pagination represents validated offset-based pagination parameters
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

const (
	DefaultPage  = 1
	DefaultLimit = 10

	// MaxListLimit bounds list endpoints, MaxSearchLimit bounds search
	MaxListLimit   = 100
	MaxSearchLimit = 50
)

// NewPagination validates page and limit, rejecting out-of-range values
// instead of clamping them.
func NewPagination(page, limit, maxLimit int) (Pagination, error) {
	if page < 1 {
		return Pagination{}, fmt.Errorf("invalid page number")
	}
	if limit < 1 || limit > maxLimit {
		return Pagination{}, fmt.Errorf("invalid limit, must be between 1 and %d", maxLimit)
	}
	return Pagination{Page: page, Limit: limit}, nil
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageInfo describes one page of a listing alongside the overall total.
type PageInfo struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func NewPageInfo(p Pagination, total int) PageInfo {
	totalPages := 0
	if total > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return PageInfo{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: totalPages}
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	phoneStrip   = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// ValidEmail reports whether the address matches a permissive
// something@something.tld pattern.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPhone strips common separator characters and matches an E.164-like
// pattern: optional leading +, first digit 1-9, up to 15 more digits.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phoneStrip.Replace(phone))
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
