// Package engine holds the encounter rules: building a roster from
// structured input, ordering seats and moving the turn cursor, applying
// hit point deltas, and projecting role-specific views.
//
// Everything here works on in-memory values. Persistence and atomicity are
// the caller's job.
package engine
