package validator

import (
	"errors"
	"testing"
)

type registrationInput struct {
	Name  string `validate:"required,min=2,max=100,alphaspace"`
	Email string `validate:"required,email"`
	Phone string `validate:"required,e164"`
}

func TestV10ValidatorValid(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}

	err = v.Validate(registrationInput{
		Name:  "Jane Doe",
		Email: "jane@example.com",
		Phone: "+6281234567890",
	})
	if err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestV10ValidatorFieldErrors(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}

	err = v.Validate(registrationInput{
		Name:  "J4ne",
		Email: "not-an-email",
		Phone: "081234567890",
	})

	var verr V10ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() error = %v, want V10ValidationError", err)
	}

	values := verr.Values()
	if got := values["name"]; got != "Name can contain only letters and spaces" {
		t.Errorf("name error = %q", got)
	}
	if got := values["phone"]; got != "Phone must be a valid phone number in E.164 format" {
		t.Errorf("phone error = %q", got)
	}
	if _, ok := values["email"]; !ok {
		t.Error("email error missing")
	}
}

func TestV10ValidatorNonStruct(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}

	if err := v.Validate("not a struct"); err == nil {
		t.Error("Validate() error = nil, want error")
	}
}
