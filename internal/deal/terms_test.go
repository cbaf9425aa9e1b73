package deal

import (
	"errors"
	"testing"

	"github.com/avelora/integration-marketplace/internal/model"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		terms string
		want  float64
	}{
		{"$6000", 6000},
		{"$5,000 (Fixed)", 5000},
		{"3000 upfront", 3000},
		{"$1250.50", 1250.50},
		{"rev-share only", 0},
		{"", 0},
		{"   ", 0},
	}
	for _, c := range cases {
		if got := ParseAmount(c.terms); got != c.want {
			t.Fatalf("ParseAmount(%q) = %v, want %v", c.terms, got, c.want)
		}
	}
}

func TestValidateTermsRequiredFields(t *testing.T) {
	if err := ValidateTerms(model.ObjectiveReach, model.PricingFixed, "$6000", "Feb 2025"); err != nil {
		t.Fatalf("valid terms rejected: %v", err)
	}
	bad := []struct{ obj, pm, amt, fw string }{
		{"Awareness", model.PricingFixed, "$6000", "Feb 2025"},
		{model.ObjectiveReach, "CPM", "$6000", "Feb 2025"},
		{model.ObjectiveReach, model.PricingFixed, "", "Feb 2025"},
		{model.ObjectiveReach, model.PricingFixed, "$6000", "  "},
	}
	for _, b := range bad {
		err := ValidateTerms(b.obj, b.pm, b.amt, b.fw)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected validation error for %+v, got %v", b, err)
		}
	}
}

// A merchant with a $5000 floor must not be able to place a $3000 Fixed
// bid; the same terms under Rev-Share are not comparable and pass.
func TestValidateMinFee(t *testing.T) {
	fee := 5000.0
	if err := ValidateMinFee(model.PricingFixed, "$3000", &fee); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected min-fee violation, got %v", err)
	}
	if err := ValidateMinFee(model.PricingFixed, "$6000", &fee); err != nil {
		t.Fatalf("amount above floor rejected: %v", err)
	}
	if err := ValidateMinFee(model.PricingRevShare, "$3000", &fee); err != nil {
		t.Fatalf("non-fixed model should not be fee-checked: %v", err)
	}
	if err := ValidateMinFee(model.PricingFixed, "$3000", nil); err != nil {
		t.Fatalf("unset fee should not be checked: %v", err)
	}
}
