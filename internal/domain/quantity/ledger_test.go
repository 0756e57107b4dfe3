package quantity

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		candidate decimal.Decimal
		ceiling   *Ceiling
		wantErr   string
	}{
		{"positive without ceiling", dec("100"), nil, ""},
		{"zero is always invalid", dec("0"), nil, "must be greater than 0"},
		{"negative is always invalid", dec("-5"), nil, "must be greater than 0"},
		{"zero invalid even under ceiling", dec("0"), CeilingOf("approved", dec("10")), "must be greater than 0"},
		{"below ceiling", dec("79.5"), CeilingOf("approved", dec("80")), ""},
		{"equal to ceiling is valid", dec("80"), CeilingOf("approved", dec("80")), ""},
		{"above ceiling", dec("85"), CeilingOf("issued", dec("80")), "cannot exceed issued quantity"},
		{"fractional above ceiling", dec("80.01"), CeilingOf("approved", dec("80")), "cannot exceed approved quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.candidate, tt.ceiling)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want %q", tt.wantErr)
			}
			if err.Error() != tt.wantErr {
				t.Errorf("Validate() = %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}
