package controllers

import (
	"regexp"
	"strings"

	"github.com/strategiq/website-backend/repository"
)

// FieldError names one offending field and why it was rejected. Validation
// collects every violation in a request, not just the first, so callers can
// fix a whole form in one round trip.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// local@domain with at least one dot in the domain part
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// validateContact trims and checks a raw contact submission, returning either
// a persistence-ready input or the complete list of field problems.
func validateContact(req contactRequest) (repository.ContactInput, []FieldError) {
	var problems []FieldError

	name := strings.TrimSpace(req.Name)
	if name == "" {
		problems = append(problems, FieldError{Field: "name", Message: "required"})
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		problems = append(problems, FieldError{Field: "email", Message: "required"})
	} else if !emailPattern.MatchString(email) {
		problems = append(problems, FieldError{Field: "email", Message: "not a valid email format"})
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		problems = append(problems, FieldError{Field: "message", Message: "required"})
	}

	if len(problems) > 0 {
		return repository.ContactInput{}, problems
	}

	return repository.ContactInput{
		Name:    name,
		Email:   email,
		Company: optionalField(req.Company),
		Phone:   optionalField(req.Phone),
		Message: message,
	}, nil
}

// validateNewsletterEmail checks a subscription email, returning the trimmed
// value or the field problems.
func validateNewsletterEmail(raw string) (string, []FieldError) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", []FieldError{{Field: "email", Message: "required"}}
	}
	if !emailPattern.MatchString(email) {
		return "", []FieldError{{Field: "email", Message: "not a valid email format"}}
	}
	return email, nil
}

// optionalField normalizes an optional form value: absent or blank becomes nil.
func optionalField(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
