package validation

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	FirstName string `json:"firstName" validate:"required,min=3"`
	Phone     string `json:"phone" validate:"required,len=11,numeric"`
	Gender    string `json:"gender" validate:"required,oneof=Male Female"`
	Email     string `json:"email" validate:"required,email"`
}

func TestStruct_Valid(t *testing.T) {
	s := sample{FirstName: "Sara", Phone: "03001234567", Gender: "Female", Email: "sara@example.com"}
	if err := Struct(s); err != nil {
		t.Fatalf("Struct() err=%v", err)
	}
}

func TestStruct_Messages(t *testing.T) {
	err := Struct(sample{FirstName: "Al", Phone: "12ab", Gender: "Other", Email: "nope"})
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	if len(verr.Messages) != 4 {
		t.Fatalf("got %d messages: %v", len(verr.Messages), verr.Messages)
	}
	want := []string{
		"firstName must contain at least 3 characters",
		"phone must contain exactly 11 characters",
		"gender must be one of: Male Female",
		"email must be a valid email",
	}
	for _, w := range want {
		if !strings.Contains(verr.Error(), w) {
			t.Errorf("missing %q in %q", w, verr.Error())
		}
	}
}

func TestStruct_Required(t *testing.T) {
	err := Struct(sample{})
	if err == nil || !strings.Contains(err.Error(), "firstName is required") {
		t.Fatalf("Struct() err=%v", err)
	}
}
