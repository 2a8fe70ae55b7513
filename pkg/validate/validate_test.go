package validate_test

import (
	"testing"

	"github.com/roadassist/roadassist/pkg/validate"
)

type registerInput struct {
	Username string `json:"username" validate:"required,alpha_dash,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"required,in=client,mechanic,admin"`
	Email    string `json:"email"    validate:"nullable,email"`
	Rating   int    `json:"rating"   validate:"nullable,gte=1,lte=5"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Username: "road_user-1",
		Password: "secret123",
		Role:     "client",
		Email:    "", // nullable — allowed to be empty
		Rating:   4,
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected required errors")
	}
	if _, ok := errs["username"]; !ok {
		t.Error("expected username to be required")
	}
	if _, ok := errs["password"]; !ok {
		t.Error("expected password to be required")
	}
}

func TestInRuleWithMultipleValues(t *testing.T) {
	errs := validate.Struct(registerInput{
		Username: "someone",
		Password: "secret123",
		Role:     "superuser",
	})
	if _, ok := errs["role"]; !ok {
		t.Error("expected role to be rejected")
	}

	for _, role := range []string{"client", "mechanic", "admin"} {
		errs = validate.Struct(registerInput{
			Username: "someone",
			Password: "secret123",
			Role:     role,
		})
		if _, ok := errs["role"]; ok {
			t.Errorf("role %q should be accepted, got: %v", role, errs["role"])
		}
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{Email: "not-an-email"})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email validation error")
	}
	errs = validate.Struct(in{Email: "valid@example.com"})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Rating int `json:"rating" validate:"required,gte=1,lte=5"`
	}
	if errs := validate.Struct(in{Rating: 6}); len(errs) == 0 {
		t.Error("expected rating > 5 to fail")
	}
	if errs := validate.Struct(in{Rating: 3}); len(errs) != 0 {
		t.Errorf("expected rating 3 to pass, got: %v", errs)
	}
}

func TestStringLengthRules(t *testing.T) {
	type in struct {
		Name string `json:"name" validate:"required,min=3,max=5"`
	}
	if errs := validate.Struct(in{Name: "ab"}); len(errs) == 0 {
		t.Error("expected too-short name to fail")
	}
	if errs := validate.Struct(in{Name: "abcdef"}); len(errs) == 0 {
		t.Error("expected too-long name to fail")
	}
	if errs := validate.Struct(in{Name: "abcd"}); len(errs) != 0 {
		t.Errorf("expected name to pass, got: %v", errs)
	}
}

func TestBetweenRule(t *testing.T) {
	type in struct {
		Score float64 `json:"score" validate:"required,between=0.5,100"`
	}
	if errs := validate.Struct(in{Score: 200}); len(errs) == 0 {
		t.Error("expected out-of-range score to fail")
	}
	if errs := validate.Struct(in{Score: 50}); len(errs) != 0 {
		t.Errorf("expected in-range score to pass, got: %v", errs)
	}
}
