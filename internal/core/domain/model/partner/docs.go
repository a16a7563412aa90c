// Package partner models delivery partners as seen by the dispatch core:
// an availability status written by the location-update collaborator and a
// scoring candidate assembled from the geo-index and the partner record.
//
// The core never owns a partner's position. It reads the geo-index, scores
// candidates, and writes back only status, active-order membership, and the
// fairness timestamp.
package partner
