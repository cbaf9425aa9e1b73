package deal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/avelora/integration-marketplace/internal/model"
)

// ErrValidation marks a bid payload that must be rejected before any
// state is touched.  Handlers translate it into HTTP 422.
var ErrValidation = errors.New("validation failed")

// ParseAmount extracts a dollar figure from free-text amount terms such
// as "$6000", "$5,000 (Fixed)" or "6000 upfront".  Only the first
// whitespace-separated token is considered; everything but digits and a
// decimal point is stripped.  Unparseable terms yield 0, matching how
// the financing views treat them.
func ParseAmount(terms string) float64 {
	fields := strings.Fields(strings.TrimSpace(terms))
	if len(fields) == 0 {
		return 0
	}
	var b strings.Builder
	for _, r := range fields[0] {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

// ValidateTerms checks the required bid fields and enum values.  It is
// applied on both create and edit.
func ValidateTerms(objective, pricingModel, amountTerms, flightWindow string) error {
	switch objective {
	case model.ObjectiveReach, model.ObjectiveConversions:
	default:
		return fmt.Errorf("%w: objective must be Reach or Conversions", ErrValidation)
	}
	switch pricingModel {
	case model.PricingFixed, model.PricingRevShare, model.PricingHybrid:
	default:
		return fmt.Errorf("%w: pricing model must be Fixed, Rev-Share or Hybrid", ErrValidation)
	}
	if strings.TrimSpace(amountTerms) == "" {
		return fmt.Errorf("%w: amount terms are required", ErrValidation)
	}
	if strings.TrimSpace(flightWindow) == "" {
		return fmt.Errorf("%w: flight window is required", ErrValidation)
	}
	return nil
}

// ValidateMinFee rejects a Fixed-price bid whose amount falls below the
// merchant's configured minimum integration fee.  Non-Fixed models are
// not checked because their terms do not carry a comparable figure.
func ValidateMinFee(pricingModel, amountTerms string, minFee *float64) error {
	if minFee == nil || pricingModel != model.PricingFixed {
		return nil
	}
	if ParseAmount(amountTerms) < *minFee {
		return fmt.Errorf("%w: bid amount is below your minimum integration fee of $%.0f", ErrValidation, *minFee)
	}
	return nil
}
