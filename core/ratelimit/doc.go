// Package ratelimit enforces the catalog API's request throttle and
// surfaces proactive quota warnings.
//
// Admission is a single global sequence: every outgoing catalog request
// calls Wait, which blocks until the minimum inter-request interval has
// elapsed since the previously admitted call. There is no per-endpoint
// partitioning.
//
// Quota warnings are a secondary concern. The API reports
// remaining/limit/reset values on each response; Observe computes the
// percentage used and emits one warning per process run once it crosses
// the configured threshold, including a human-readable reset estimate.
package ratelimit
