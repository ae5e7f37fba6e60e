package customer

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Tier represents a customer's loyalty tier. Tiers are ordered from
// TierNone (no membership) up to Platinum and are used as eligibility
// input by the pricing strategies. The discount percent attached to each
// tier is configuration supplied to the loyalty strategy, not a property
// of the tier itself.
type Tier int

const (
	// TierNone means the customer has no loyalty membership.
	TierNone Tier = iota

	// Bronze is the entry loyalty tier.
	Bronze

	// Silver is the second loyalty tier.
	Silver

	// Gold is the third loyalty tier.
	Gold

	// Platinum is the highest loyalty tier.
	Platinum
)

func getTierStrings() map[Tier]string {
	return map[Tier]string{
		TierNone: "None",
		Bronze:   "Bronze",
		Silver:   "Silver",
		Gold:     "Gold",
		Platinum: "Platinum",
	}
}

// Validate checks that the Tier holds one of the defined values.
func (t Tier) Validate() error {
	if _, ok := getTierStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("tier is invalid", fmt.Errorf("%d is not a valid tier", t))
	}
	return nil
}

// String returns the human-readable tier name. Implements fmt.Stringer.
func (t Tier) String() string {
	if str, ok := getTierStrings()[t]; ok {
		return str
	}
	return "None"
}
