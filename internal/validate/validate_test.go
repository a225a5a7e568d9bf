package validate_test

import (
	"errors"
	"testing"

	"todo/internal/service"
	"todo/internal/validate"
)

func TestLogin(t *testing.T) {
	tests := []struct {
		email, password string
		want            string
	}{
		{"ada@example.com", "secret1", ""},
		{"", "secret1", "email is required"},
		{"ada@example", "secret1", "invalid email format"},
		{"ada example.com", "secret1", "invalid email format"},
		{"ada@example.com", "", "password is required"},
		{"ada@example.com", "12345", "password must be at least 6 characters"},
	}
	for _, tt := range tests {
		err := validate.Login(tt.email, tt.password)
		got := ""
		if err != nil {
			got = err.Error()
		}
		if got != tt.want {
			t.Errorf("Login(%q, %q) = %q, want %q", tt.email, tt.password, got, tt.want)
		}
	}
}

func TestRegistration(t *testing.T) {
	tests := []struct {
		name, email, password, confirm string
		want                           string
	}{
		{"Ada", "ada@example.com", "secret1", "secret1", ""},
		{"Ada", "ada@example.com", "secret1", "", ""},
		{"  ", "ada@example.com", "secret1", "", "please enter your full name"},
		{"Ada", "ada@", "secret1", "", "please enter a valid email address"},
		{"Ada", "ada@example.com", "short", "", "password must be at least 6 characters long"},
		{"Ada", "ada@example.com", "secret1", "secret2", "passwords do not match"},
	}
	for _, tt := range tests {
		err := validate.Registration(tt.name, tt.email, tt.password, tt.confirm)
		got := ""
		if err != nil {
			got = err.Error()
		}
		if got != tt.want {
			t.Errorf("Registration(%q, %q) = %q, want %q", tt.name, tt.email, got, tt.want)
		}
	}
}

func TestTask(t *testing.T) {
	p, err := validate.Task("Buy milk", "2%", "")
	if err != nil || p != service.PriorityMedium {
		t.Errorf("expected Medium, got %q / %v", p, err)
	}

	p, err = validate.Task("Buy milk", "2%", "HIGH")
	if err != nil || p != service.PriorityHigh {
		t.Errorf("expected High, got %q / %v", p, err)
	}

	if _, err := validate.Task("", "2%", "low"); !errors.Is(err, validate.ErrTaskFields) {
		t.Errorf("expected ErrTaskFields, got %v", err)
	}
	if _, err := validate.Task("a", "b", "urgent"); err == nil {
		t.Error("expected invalid priority error")
	}
}
