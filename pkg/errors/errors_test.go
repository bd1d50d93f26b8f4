package errors

import (
	"fmt"
	"testing"
)

func TestConfigErrorMessage(t *testing.T) {
	err := NewConfigError("pihole", "PIHOLE_PASSWORD not set", nil)
	want := "configuration error in pihole: PIHOLE_PASSWORD not set"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	err = NewConfigError("", "missing required configuration", nil)
	want = "configuration error: missing required configuration"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestConfigErrorIsInvalidInput(t *testing.T) {
	err := NewConfigError("unifi", "UNIFI_HOST not set", nil)
	if !Is(err, ErrInvalidInput) {
		t.Error("ConfigError should match ErrInvalidInput")
	}
}

func TestAPIErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		target error
		match  bool
	}{
		{"unauthorized maps to auth failure", 401, ErrAuthFailed, true},
		{"forbidden maps to auth failure", 403, ErrAuthFailed, true},
		{"server error maps to unavailable", 502, ErrUnavailable, true},
		{"not found maps to neither", 404, ErrAuthFailed, false},
		{"bad request maps to neither", 400, ErrUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewAPIError("pihole", tt.status, "boom")
			if got := Is(err, tt.target); got != tt.match {
				t.Errorf("Is(%d, %v) = %v, want %v", tt.status, tt.target, got, tt.match)
			}
		})
	}
}

func TestAuthenticationErrorIsAuthFailed(t *testing.T) {
	err := &AuthenticationError{Endpoint: "pihole", Message: "bad password"}
	if !IsAuthFailed(err) {
		t.Error("AuthenticationError should match ErrAuthFailed")
	}
	if !IsAuthFailed(fmt.Errorf("wrapped: %w", err)) {
		t.Error("wrapped AuthenticationError should match ErrAuthFailed")
	}
}

func TestUnwrapChain(t *testing.T) {
	root := New("connection refused")
	err := WrapAPI("unifi", 0, root)
	if !Is(err, root) {
		t.Error("APIError should unwrap to the root error")
	}

	ioErr := WrapIO("read", "response body", root)
	if !Is(ioErr, root) {
		t.Error("IOError should unwrap to the root error")
	}
}

func TestWrapHelpersNilPassthrough(t *testing.T) {
	if WrapIO("read", "x", nil) != nil {
		t.Error("WrapIO(nil) should be nil")
	}
	if WrapParse("json", "x", nil) != nil {
		t.Error("WrapParse(nil) should be nil")
	}
	if WrapAPI("unifi", 500, nil) != nil {
		t.Error("WrapAPI(nil) should be nil")
	}
}

func TestParseErrorMessage(t *testing.T) {
	err := WrapParse("hosts", "pihole", New("short line"))
	want := "parse error in hosts from pihole: short line"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
