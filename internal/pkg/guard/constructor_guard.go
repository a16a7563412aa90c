// Package guard implements the constructor-guard pattern used by value objects,
// aggregates, and commands across the application. Embedding a ConstructorGuard
// in a struct makes the zero value detectable, so objects created outside their
// designated constructor fail validation instead of carrying silent defaults.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes a
// nil validation error, so validation always fails with a meaningful message.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as having been created through its
// constructor function. The zero value is "not constructed".
//
// Example:
//
//	type Order struct {
//	    id    string
//	    guard guard.ConstructorGuard
//	}
//
//	func NewOrder(id string) (Order, error) {
//	    return Order{id: id, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (o Order) Validate() error {
//	    return o.guard.Validate(ErrOrderIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking the embedding object as
// properly constructed. Call it in every constructor.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil when the object was created through its constructor,
// the given validationError otherwise. A nil validationError falls back to
// ErrDefaultConstructorGuard.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
