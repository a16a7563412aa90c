// Package commands contains the write-side operations of the dispatch core:
// matching an inbound order into a batch, assigning a delivery partner, and
// applying partner location updates.
//
// All commands follow a consistent pattern: constructor-guarded command
// objects, handlers that validate before acting, and sentinel errors for
// expected business outcomes. The backing stores offer atomic single-key
// operations only, so handlers are written to tolerate replays rather than
// to prevent them; the idempotency marker and the queues' deduplication
// keys bound the damage of concurrent duplicate processing.
package commands
