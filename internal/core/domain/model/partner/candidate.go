package partner

import (
	"errors"
	"math"
	"time"

	"dispatch/internal/pkg/errs"
)

// MaxAllowedOrders is the active-order cap per partner. It bounds both
// candidate eligibility and the batch size a partner can receive.
const MaxAllowedOrders = 2

// minScoringDistanceKm floors the distance term so a partner standing at the
// restaurant door does not get an unbounded score.
const minScoringDistanceKm = 0.01

// ErrCandidateIsNotConstructed is returned when a Candidate was not created
// via NewCandidate.
var ErrCandidateIsNotConstructed = errors.New("Candidate must be created via NewCandidate constructor")

// Candidate is a read model of one delivery partner near a restaurant,
// assembled from the geo-index (distance) and the partner record (status,
// load, fairness timestamps). It is the scoring input; mutation happens
// against the store, never on the candidate.
type Candidate struct {
	id           string
	distanceKm   float64
	status       Status
	activeOrders int
	lastSeen     time.Time
	lastAssigned time.Time

	isConstructed bool
}

// NewCandidate creates a validated scoring candidate.
// distanceKm is the geo-index distance from the anchor restaurant.
// lastAssigned may be the zero time for a partner never assigned before.
func NewCandidate(
	id string,
	distanceKm float64,
	status Status,
	activeOrders int,
	lastSeen time.Time,
	lastAssigned time.Time,
) (*Candidate, error) {
	c := &Candidate{
		isConstructed: true,
	}

	if err := errors.Join(
		c.setID(id),
		c.setDistanceKm(distanceKm),
		c.setStatus(status),
		c.setActiveOrders(activeOrders),
	); err != nil {
		return nil, err
	}

	c.lastSeen = lastSeen
	c.lastAssigned = lastAssigned

	return c, nil
}

// Validate ensures the Candidate was constructed through NewCandidate.
func (c *Candidate) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCandidateIsNotConstructed
	}

	return nil
}

// ID returns the partner identifier.
func (c *Candidate) ID() string {
	return c.id
}

// DistanceKm returns the distance from the anchor restaurant in kilometers.
func (c *Candidate) DistanceKm() float64 {
	return c.distanceKm
}

// Status returns the partner's availability state.
func (c *Candidate) Status() Status {
	return c.status
}

// ActiveOrders returns the number of orders currently carried.
func (c *Candidate) ActiveOrders() int {
	return c.activeOrders
}

// LastSeen returns when the partner last reported its position.
func (c *Candidate) LastSeen() time.Time {
	return c.lastSeen
}

// LastAssigned returns when the partner last received an assignment.
// The zero time means never.
func (c *Candidate) LastAssigned() time.Time {
	return c.lastAssigned
}

// IsEligible reports whether the candidate may receive an assignment:
// online and below the active-order cap.
func (c *Candidate) IsEligible() bool {
	return c.status == StatusOnline && c.activeOrders < MaxAllowedOrders
}

// Score computes the weighted desirability of assigning this candidate at
// the given time. Proximity dominates, then load, then assignment fairness,
// then recency of activity:
//
//	0.5 * (1 / max(distance, 0.01))
//	0.2 * (1 / (1 + activeOrders))
//	0.2 * ((now - lastAssigned) / now)
//	0.1 * ((now - lastSeen) / now)
//
// Timestamps are unix milliseconds; a zero lastAssigned counts as epoch,
// giving never-assigned partners the full fairness term.
func (c *Candidate) Score(now time.Time) float64 {
	nowMs := float64(now.UnixMilli())

	var lastAssignedMs, lastSeenMs float64
	if !c.lastAssigned.IsZero() {
		lastAssignedMs = float64(c.lastAssigned.UnixMilli())
	}
	if !c.lastSeen.IsZero() {
		lastSeenMs = float64(c.lastSeen.UnixMilli())
	}

	return 0.5*(1/math.Max(c.distanceKm, minScoringDistanceKm)) +
		0.2*(1/float64(1+c.activeOrders)) +
		0.2*((nowMs-lastAssignedMs)/nowMs) +
		0.1*((nowMs-lastSeenMs)/nowMs)
}

func (c *Candidate) setID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("id")
	}

	c.id = id
	return nil
}

func (c *Candidate) setDistanceKm(distanceKm float64) error {
	if distanceKm < 0 {
		return errs.NewValueIsInvalidError("distanceKm")
	}

	c.distanceKm = distanceKm
	return nil
}

func (c *Candidate) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}

func (c *Candidate) setActiveOrders(activeOrders int) error {
	if activeOrders < 0 {
		return errs.NewValueIsInvalidError("activeOrders")
	}

	c.activeOrders = activeOrders
	return nil
}
