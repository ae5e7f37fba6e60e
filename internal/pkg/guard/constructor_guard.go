// Package guard provides a defensive construction check for value objects,
// commands, and entities that must only be created through their designated
// constructor functions. Embedding a ConstructorGuard lets a type distinguish
// a properly constructed instance from a zero value.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific
// validation error is supplied and the object was not constructed properly.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a struct as created through its constructor.
// The zero value fails validation, which prevents accidental use of
// directly-instantiated domain objects.
//
// Example:
//
//	type Voucher struct {
//	    code  string
//	    guard guard.ConstructorGuard
//	}
//
//	func NewVoucher(code string) (Voucher, error) {
//	    if code == "" {
//	        return Voucher{}, errors.New("code is required")
//	    }
//	    return Voucher{code: code, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (v Voucher) Validate() error {
//	    return v.guard.Validate(ErrVoucherIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking its owner as properly
// constructed. Call this in the owning type's constructor.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil if the owner was created through its constructor.
// Otherwise it returns validationError, or ErrDefaultConstructorGuard when
// validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
