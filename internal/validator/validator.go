package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidEmail           = errors.New("invalid email")
	ErrInvalidFullName        = errors.New("invalid full name")
	ErrInvalidPassword        = errors.New("invalid password")
	ErrInvalidPhone           = errors.New("invalid phone")
	ErrInvalidUserType        = errors.New("user_type must be 'user' or 'broker'")
	ErrInvalidTransactionType = errors.New("transaction_type must be 'rent' or 'sale'")
	ErrInvalidRating          = errors.New("rating must be between 1 and 5")
)

var (
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9\- ]{5,19}$`)
)

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidateFullName(name string) error {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 || len(trimmed) > 100 {
		return ErrInvalidFullName
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}

func ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if !phoneRegex.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

func ValidateUserType(userType string) error {
	if userType != "user" && userType != "broker" {
		return ErrInvalidUserType
	}
	return nil
}

func ValidateTransactionType(transactionType string) error {
	if transactionType != "rent" && transactionType != "sale" {
		return ErrInvalidTransactionType
	}
	return nil
}

func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	return nil
}
