package api

import (
	"errors"
	"testing"
)

func TestNormalizeSiteID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "prefixed", in: "S10001", want: "S10001"},
		{name: "lowercase prefix", in: "s10001", want: "S10001"},
		{name: "bare digits", in: "10001", want: "S10001"},
		{name: "surrounding whitespace", in: "  S10001 ", want: "S10001"},
		{name: "empty", in: "", wantErr: true},
		{name: "blank", in: "   ", wantErr: true},
		{name: "wrong prefix", in: "H10001", wantErr: true},
		{name: "letters in digits", in: "S10x01", wantErr: true},
		{name: "prefix only", in: "S", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeSiteID(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeSiteID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("NormalizeSiteID(%q) error = %T, want *ValidationError", tt.in, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("NormalizeSiteID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeHardwareID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "prefixed", in: "H12345", want: "H12345"},
		{name: "lowercase prefix", in: "h12345", want: "H12345"},
		{name: "bare digits", in: "12345", want: "H12345"},
		{name: "site id rejected", in: "S12345", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeHardwareID(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeHardwareID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("NormalizeHardwareID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeCustomerID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "prefixed", in: "C12345", want: "C12345"},
		{name: "bare digits", in: "12345", want: "C12345"},
		{name: "hardware id rejected", in: "H12345", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCustomerID(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeCustomerID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("NormalizeCustomerID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateSpan(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{name: "both empty", from: "", to: ""},
		{name: "ordered", from: "2022-01-01T00:00:00Z", to: "2022-01-02T00:00:00Z"},
		{name: "with offset", from: "2022-01-01T00:00:00-07:00", to: "2022-01-02T00:00:00-07:00"},
		{name: "from only", from: "2022-01-01T00:00:00Z", to: "", wantErr: true},
		{name: "to only", from: "", to: "2022-01-02T00:00:00Z", wantErr: true},
		{name: "not RFC3339", from: "2022-01-01", to: "2022-01-02", wantErr: true},
		{name: "equal endpoints", from: "2022-01-01T00:00:00Z", to: "2022-01-01T00:00:00Z", wantErr: true},
		{name: "reversed", from: "2022-01-02T00:00:00Z", to: "2022-01-01T00:00:00Z", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSpan(tt.from, tt.to)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateSpan(%q, %q) error = %v, wantErr %v", tt.from, tt.to, err, tt.wantErr)
			}
		})
	}
}

func TestAlertSummaryTarget(t *testing.T) {
	tests := []struct {
		name       string
		customerID string
		siteID     string
		want       string
		wantErr    bool
	}{
		{name: "customer", customerID: "C12345", want: "C12345"},
		{name: "bare customer digits", customerID: "12345", want: "C12345"},
		{name: "site", siteID: "S10001", want: "S10001"},
		{name: "both set", customerID: "C12345", siteID: "S10001", wantErr: true},
		{name: "neither set", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := alertSummaryTarget(tt.customerID, tt.siteID)
			if (err != nil) != tt.wantErr {
				t.Fatalf("alertSummaryTarget(%q, %q) error = %v, wantErr %v", tt.customerID, tt.siteID, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("alertSummaryTarget(%q, %q) = %q, want %q", tt.customerID, tt.siteID, got, tt.want)
			}
		})
	}
}

func TestPvsystTarget(t *testing.T) {
	tests := []struct {
		name       string
		hardwareID string
		siteID     string
		want       string
		wantErr    bool
	}{
		{name: "hardware only", hardwareID: "H12345", want: "H12345"},
		{name: "site only", siteID: "S10001", want: "S10001"},
		{name: "hardware wins over site", hardwareID: "H12345", siteID: "S10001", want: "H12345"},
		{name: "neither set", wantErr: true},
		{name: "bad hardware id", hardwareID: "nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pvsystTarget(tt.hardwareID, tt.siteID)
			if (err != nil) != tt.wantErr {
				t.Fatalf("pvsystTarget(%q, %q) error = %v, wantErr %v", tt.hardwareID, tt.siteID, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("pvsystTarget(%q, %q) = %q, want %q", tt.hardwareID, tt.siteID, got, tt.want)
			}
		})
	}
}
