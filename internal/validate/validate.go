// Package validate checks form input before it is sent to the service.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"todo/internal/service"
)

// MinPasswordLen is the shortest password the service accepts.
const MinPasswordLen = 6

// ErrTaskFields is returned when a task lacks a title or description.
var ErrTaskFields = errors.New("title and description are required")

var (
	// loginEmail is the stricter pattern the sign-in form checks.
	loginEmail    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	registerEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Login checks sign-in fields.
func Login(email, password string) error {
	switch {
	case email == "":
		return errors.New("email is required")
	case !loginEmail.MatchString(email):
		return errors.New("invalid email format")
	case password == "":
		return errors.New("password is required")
	case len(password) < MinPasswordLen:
		return errors.New("password must be at least 6 characters")
	}
	return nil
}

// Registration checks sign-up fields. An empty confirm is not compared.
func Registration(name, email, password, confirm string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.New("please enter your full name")
	case strings.TrimSpace(email) == "" || !registerEmail.MatchString(email):
		return errors.New("please enter a valid email address")
	case len(password) < MinPasswordLen:
		return errors.New("password must be at least 6 characters long")
	case confirm != "" && confirm != password:
		return errors.New("passwords do not match")
	}
	return nil
}

// Task checks the fields of a new or edited task and resolves the priority
// name; an empty name gives the default priority.
func Task(title, description, priority string) (service.Priority, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" {
		return "", ErrTaskFields
	}
	p, ok := service.ParsePriority(priority)
	if !ok {
		return "", fmt.Errorf("invalid priority: %s", priority)
	}
	return p, nil
}
