// Package track owns client-visible lifecycle state for asynchronous
// meeting-processing jobs: upload progress, list freshness, per-meeting
// status polling, one-shot detail fetches, and the optimistic chat session.
//
// Every tracker is an owned object with an explicit lifecycle; there is no
// package-level mutable state, so multiple instances and test harnesses do
// not interfere. Pollers never issue overlapping fetches for the same
// instance, and a generation counter discards responses that arrive after
// the tracked scope has changed or been stopped.
package track
