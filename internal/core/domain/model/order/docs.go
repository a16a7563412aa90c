// Package order models an order during its batching window.
//
// Orders here are ephemeral: they exist from the moment the batching queue
// delivers them until they are either paired with a compatible sibling or
// assigned solo after retry exhaustion. The package also owns the pairing
// rule (pickup and dropoff distance thresholds) and the retry bound.
package order
