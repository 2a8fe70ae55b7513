package models

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to RequestStatus
		want     bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusInProgress, false},
		{StatusAccepted, StatusInProgress, true},
		{StatusAccepted, StatusCompleted, true},
		{StatusAccepted, StatusCancelled, true},
		{StatusAccepted, StatusPending, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusPending, false},
		{StatusCancelled, StatusAccepted, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range []RequestStatus{StatusCompleted, StatusCancelled} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []RequestStatus{StatusPending, StatusAccepted, StatusInProgress} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"client", "mechanic", "admin"} {
		if _, err := ParseRole(s); err != nil {
			t.Errorf("ParseRole(%q) unexpected error: %v", s, err)
		}
	}
	if _, err := ParseRole("superuser"); err == nil {
		t.Error("ParseRole should reject unknown roles")
	}
	if _, err := ParseRole(""); err == nil {
		t.Error("ParseRole should reject the empty string")
	}
}
