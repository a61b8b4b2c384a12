package api

import (
	"errors"
	"fmt"
	"testing"
)

func TestTransportErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *TransportError
		want string
	}{
		{
			name: "no response",
			err:  &TransportError{Op: "GetSiteConfig", URL: "https://x/api/edit/site/S1", Err: errors.New("dial tcp: refused")},
			want: "GetSiteConfig: request to https://x/api/edit/site/S1 failed: dial tcp: refused",
		},
		{
			name: "status with body",
			err:  &TransportError{Op: "GetSiteConfig", URL: "https://x/api/edit/site/S1", StatusCode: 503, Body: "upstream down"},
			want: "GetSiteConfig: https://x/api/edit/site/S1 returned HTTP 503: upstream down",
		},
		{
			name: "status without body",
			err:  &TransportError{Op: "GetSiteConfig", URL: "https://x/api/edit/site/S1", StatusCode: 404},
			want: "GetSiteConfig: https://x/api/edit/site/S1 returned HTTP 404",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransportErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &TransportError{Op: "GetSites", URL: "https://x", Err: cause}
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want true")
	}
}

func TestAuthErrorMessage(t *testing.T) {
	withBody := &AuthError{StatusCode: 401, Message: "session expired"}
	if got := withBody.Error(); got != "authentication failed (HTTP 401): session expired" {
		t.Errorf("Error() = %q", got)
	}
	bare := &AuthError{StatusCode: 403}
	if got := bare.Error(); got != "authentication failed (HTTP 403)" {
		t.Errorf("Error() = %q", got)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Param: "site_id", Value: "X1", Message: "must be numeric"}
	if got := err.Error(); got != `invalid site_id "X1": must be numeric` {
		t.Errorf("Error() = %q", got)
	}
}

func TestErrSiteNotFound(t *testing.T) {
	err := fmt.Errorf("%w: S999 not in portfolio C12345", ErrSiteNotFound)
	if !errors.Is(err, ErrSiteNotFound) {
		t.Errorf("errors.Is(err, ErrSiteNotFound) = false, want true")
	}
}
