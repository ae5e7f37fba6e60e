// Package customer contains the customer aggregate and the loyalty/profile
// attributes the pricing strategies read as eligibility inputs.
package customer

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
)

// ErrCustomerIsNotConstructed is returned when a Customer instance was not
// created through the NewCustomer factory method.
var ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer constructor")

// ErrNameIsRequired is returned when a customer name is empty.
var ErrNameIsRequired = errors.New("customer name is required")

// SkinProfile classifies a customer's skin type for profile-matched pricing.
// The zero value SkinProfileUnknown means the customer has not taken the
// profile quiz or the product has no target profile.
type SkinProfile string

const (
	SkinProfileUnknown     SkinProfile = ""
	SkinProfileDry         SkinProfile = "dry"
	SkinProfileOily        SkinProfile = "oily"
	SkinProfileCombination SkinProfile = "combination"
	SkinProfileSensitive   SkinProfile = "sensitive"
	SkinProfileNormal      SkinProfile = "normal"
)

// Customer is the purchaser aggregate. A nil *Customer represents a guest
// purchaser, which is never eligible for loyalty or profile-matched
// discounts.
//
// Invariants:
//   - Must have a valid unique identifier
//   - Must have a non-empty name
//   - Tier must be one of the defined loyalty tiers
//   - Can only be created through NewCustomer or RestoreCustomer
type Customer struct {
	id kernel.UUID

	name  string
	email string
	phone string

	tier Tier

	// skinProfile is only meaningful when completedSkinQuiz is true
	skinProfile       SkinProfile
	completedSkinQuiz bool

	isConstructed bool
}

// NewCustomer creates a Customer with validation. New customers start at
// TierNone with no completed skin quiz.
func NewCustomer(id kernel.UUID, name, email, phone string) (*Customer, error) {
	c := &Customer{
		tier:          TierNone,
		isConstructed: true,
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
	); err != nil {
		return nil, err
	}

	c.email = email
	c.phone = phone
	return c, nil
}

// RestoreCustomer reconstructs a Customer from persistence, including the
// loyalty tier and skin-quiz state.
func RestoreCustomer(
	id kernel.UUID,
	name, email, phone string,
	tier Tier,
	skinProfile SkinProfile,
	completedSkinQuiz bool,
) (*Customer, error) {
	c, err := NewCustomer(id, name, email, phone)
	if err != nil {
		return nil, err
	}

	if err = tier.Validate(); err != nil {
		return nil, err
	}

	c.tier = tier
	c.skinProfile = skinProfile
	c.completedSkinQuiz = completedSkinQuiz
	return c, nil
}

// Validate ensures the Customer instance was properly constructed.
func (c *Customer) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCustomerIsNotConstructed
	}
	return nil
}

// IsEqual compares two customers by their unique identifiers.
func (c *Customer) IsEqual(other *Customer) bool {
	return other != nil && c.id.IsEqual(other.id)
}

// ID returns the customer's unique identifier.
func (c *Customer) ID() kernel.UUID {
	return c.id
}

// Name returns the customer's display name.
func (c *Customer) Name() string {
	return c.name
}

// Email returns the customer's email address.
func (c *Customer) Email() string {
	return c.email
}

// Phone returns the customer's phone number.
func (c *Customer) Phone() string {
	return c.phone
}

// Tier returns the customer's loyalty tier.
func (c *Customer) Tier() Tier {
	return c.tier
}

// SkinProfile returns the customer's skin profile. Only meaningful when
// HasCompletedSkinQuiz reports true.
func (c *Customer) SkinProfile() SkinProfile {
	return c.skinProfile
}

// HasCompletedSkinQuiz reports whether the customer finished the profile
// quiz that unlocks profile-matched discounts.
func (c *Customer) HasCompletedSkinQuiz() bool {
	return c.completedSkinQuiz
}

// CompleteSkinQuiz records the quiz result, unlocking profile-matched
// discount eligibility for matching products.
func (c *Customer) CompleteSkinQuiz(profile SkinProfile) {
	c.skinProfile = profile
	c.completedSkinQuiz = true
}

// UpgradeTier moves the customer to a new loyalty tier. Downgrades are
// allowed; the tier only has to be a defined value.
func (c *Customer) UpgradeTier(tier Tier) error {
	if err := tier.Validate(); err != nil {
		return err
	}
	c.tier = tier
	return nil
}

func (c *Customer) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Customer) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}
