// Package snapshot defines the entity-list wire format: one timestamped
// snapshot of every networked entity, encoded as fixed-width little-endian
// records with no padding.
//
// Layout:
//
//	[u64 timestamp][u32 payload size][record]*
//	record = [u8 kind][u32 id][f32 pos.x][f32 pos.y][f32 vel.x][f32 vel.y][u8 teleported]
//
// The package has no dependencies on the transport or the ECS so both the
// client and the sim server can share it.
package snapshot

import "github.com/automoto/entsync/shared/gamemath"

const (
	// TimestampSize is the width of the leading send timestamp.
	TimestampSize = 8
	// SizeFieldSize is the width of the payload byte-count field.
	SizeFieldSize = 4
	// HeaderSize is the minimum buffer length that can be decoded.
	HeaderSize = TimestampSize + SizeFieldSize
	// RecordSize is the serialized size of one EntityRecord.
	RecordSize = 1 + 4 + 4*4 + 1
)

// EntityRecord is one entity's networked state.
type EntityRecord struct {
	Kind     uint8
	ID       uint32
	Position gamemath.Vec2
	Velocity gamemath.Vec2
	// Teleported is set by the sender when a position jump is intentional.
	// It only applies to the snapshot that carries it.
	Teleported bool
}

// Snapshot is one decoded entity-list message.
type Snapshot struct {
	Timestamp uint64
	Records   []EntityRecord
}

// PayloadSize returns the byte count of the record section.
func (s Snapshot) PayloadSize() int {
	return len(s.Records) * RecordSize
}

// CloneRecords copies a record slice. A nil input yields nil.
func CloneRecords(records []EntityRecord) []EntityRecord {
	if records == nil {
		return nil
	}
	out := make([]EntityRecord, len(records))
	copy(out, records)
	return out
}
