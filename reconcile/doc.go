// Package reconcile turns a stream of entity-list snapshots into a smooth
// local view of remote entities.
//
// A Store holds two generations of entity records (the pre-shift "previous"
// and the live "current") plus the timestamp watermark of the last snapshot
// judged in order. An Engine feeds each decoded snapshot through the store:
//
//	Uninitialized -> Initialized   first snapshot, no correction pass
//	Initialized   -> Initialized   every later snapshot, correction pass
//
// The correction pass pairs records with the previous generation by entity
// id. Stale snapshots (timestamp below the watermark) are replaced wholesale
// by the previous generation and never move the watermark. Records that land
// further than the divergence threshold from their dead-reckoned position
// keep the reported position but have their velocity blended toward the new
// reading, unless the sender flagged a teleport.
//
// Extrapolate advances the current generation every tick using the committed
// velocities, whether or not a snapshot arrived.
//
// Nothing in this package locks. Callers that touch a Store from more than
// one goroutine must hold one lock across a full drain-and-extrapolate tick;
// see package session.
package reconcile
