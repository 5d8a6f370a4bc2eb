// Package sync reconciles vault documents against canonical catalog
// metadata and media server availability.
//
// The Reconciler computes field-level changes under a per-field
// enablement policy; the Runner drives batches strictly in order with
// per-item cancellation checks and continue-on-failure semantics; the
// Service orchestrates one document end to end: identity resolution,
// lookup, aggregation, reconciliation, apply, rename, poster mirror.
package sync
