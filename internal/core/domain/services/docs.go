// Package services provides domain services that orchestrate business
// operations across multiple domain entities in the dispatch system.
//
// The package includes:
//   - PartnerScorer: selects the best delivery partner from nearby candidates
//
// Domain services hold logic that does not naturally belong to a single
// aggregate, following Domain-Driven Design principles.
package services
