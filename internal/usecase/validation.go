package usecase

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/xavierca1/quiz-funnel/internal/entity"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateCaptureLeadInput(input CaptureLeadInput) []ValidationError {
	var errors []ValidationError

	email := strings.TrimSpace(input.Email)
	phone := strings.TrimSpace(input.Phone)

	if email == "" && phone == "" {
		errors = append(errors, ValidationError{"email", "email or phone is required"})
		return errors
	}

	if email != "" && !isValidEmail(email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}
	if phone != "" && !isValidPhoneNumber(phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}
	if len(input.FirstName) > 200 {
		errors = append(errors, ValidationError{"first_name", "must not exceed 200 characters"})
	}

	return errors
}

func ValidateCheckoutInput(input CheckoutInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Plan) == "" {
		errors = append(errors, ValidationError{"plan", "is required"})
	}
	if input.Email != "" && !isValidEmail(input.Email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}
	if input.Phone != "" && !isValidPhoneNumber(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	return errors
}

func ValidateSweepInput(input SweepInput) []ValidationError {
	var errors []ValidationError

	if !input.Channel.Valid() {
		errors = append(errors, ValidationError{"channel", "must be zaia or recovery"})
	}
	if input.Threshold < 0 {
		errors = append(errors, ValidationError{"threshold", "must not be negative"})
	}

	return errors
}

// ParseDateFilter lê os filtros from/to do dashboard (YYYY-MM-DD). Vazio vira nil.
func ParseDateFilter(from, to string) (DashboardInput, []ValidationError) {
	var (
		input  DashboardInput
		errors []ValidationError
	)

	if from != "" {
		if !isValidDate(from) {
			errors = append(errors, ValidationError{"from", "must be a valid date (YYYY-MM-DD)"})
		} else {
			t, _ := time.Parse("2006-01-02", from)
			input.From = &t
		}
	}
	if to != "" {
		if !isValidDate(to) {
			errors = append(errors, ValidationError{"to", "must be a valid date (YYYY-MM-DD)"})
		} else {
			t, _ := time.Parse("2006-01-02", to)
			input.To = &t
		}
	}
	if input.From != nil && input.To != nil && input.To.Before(*input.From) {
		errors = append(errors, ValidationError{"to", "must not be before from"})
	}

	return input, errors
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// Aceita com ou sem DDI 55.
func isValidPhoneNumber(phone string) bool {
	cleaned := entity.NormalizePhone(phone)
	return len(cleaned) >= 10 && len(cleaned) <= 13
}

func isValidDate(dateStr string) bool {
	_, err := time.Parse("2006-01-02", dateStr)
	return err == nil
}
