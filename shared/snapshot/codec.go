package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/automoto/entsync/shared/gamemath"
)

var (
	ErrShortHeader    = errors.New("buffer shorter than snapshot header")
	ErrBadPayloadSize = errors.New("payload size is not a positive multiple of the record size")
	ErrTruncated      = errors.New("buffer shorter than declared payload")
	ErrDuplicateID    = errors.New("duplicate entity id")
)

// DecodeError reports a malformed entity-list buffer. The snapshot it came
// from must be discarded as a whole.
type DecodeError struct {
	Len int   // length of the offending buffer
	Err error // one of the Err* sentinels above
	msg string
}

func (e *DecodeError) Error() string {
	if e.msg != "" {
		return fmt.Sprintf("decode snapshot (%d bytes): %v: %s", e.Len, e.Err, e.msg)
	}
	return fmt.Sprintf("decode snapshot (%d bytes): %v", e.Len, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeErr(buf []byte, err error, format string, args ...any) *DecodeError {
	return &DecodeError{Len: len(buf), Err: err, msg: fmt.Sprintf(format, args...)}
}

var le = binary.LittleEndian

// Decode parses one entity-list buffer. Bytes past the declared payload are
// ignored. It never returns a partially filled snapshot.
func Decode(buf []byte) (Snapshot, error) {
	if len(buf) < HeaderSize {
		return Snapshot{}, decodeErr(buf, ErrShortHeader, "need %d", HeaderSize)
	}

	ts := le.Uint64(buf[0:TimestampSize])
	size := le.Uint32(buf[TimestampSize:HeaderSize])
	if size == 0 || size%RecordSize != 0 {
		return Snapshot{}, decodeErr(buf, ErrBadPayloadSize, "declared %d, record size %d", size, RecordSize)
	}
	if uint64(len(buf)-HeaderSize) < uint64(size) {
		return Snapshot{}, decodeErr(buf, ErrTruncated, "declared %d, have %d", size, len(buf)-HeaderSize)
	}

	n := int(size) / RecordSize
	records := make([]EntityRecord, n)
	seen := make(map[uint32]struct{}, n)
	payload := buf[HeaderSize : HeaderSize+int(size)]
	for i := range records {
		r := decodeRecord(payload[i*RecordSize : (i+1)*RecordSize])
		if _, dup := seen[r.ID]; dup {
			return Snapshot{}, decodeErr(buf, ErrDuplicateID, "id %d at index %d", r.ID, i)
		}
		seen[r.ID] = struct{}{}
		records[i] = r
	}

	return Snapshot{Timestamp: ts, Records: records}, nil
}

func decodeRecord(b []byte) EntityRecord {
	return EntityRecord{
		Kind: b[0],
		ID:   le.Uint32(b[1:5]),
		Position: gamemath.Vec2{
			X: math.Float32frombits(le.Uint32(b[5:9])),
			Y: math.Float32frombits(le.Uint32(b[9:13])),
		},
		Velocity: gamemath.Vec2{
			X: math.Float32frombits(le.Uint32(b[13:17])),
			Y: math.Float32frombits(le.Uint32(b[17:21])),
		},
		Teleported: b[21] != 0,
	}
}

// Encode serializes s into a new buffer.
func Encode(s Snapshot) []byte {
	return AppendEncode(make([]byte, 0, HeaderSize+s.PayloadSize()), s)
}

// AppendEncode appends the encoding of s to dst and returns the extended
// buffer, so broadcasters can reuse one scratch slice per tick.
func AppendEncode(dst []byte, s Snapshot) []byte {
	dst = le.AppendUint64(dst, s.Timestamp)
	dst = le.AppendUint32(dst, uint32(s.PayloadSize()))
	for _, r := range s.Records {
		dst = append(dst, r.Kind)
		dst = le.AppendUint32(dst, r.ID)
		dst = le.AppendUint32(dst, math.Float32bits(r.Position.X))
		dst = le.AppendUint32(dst, math.Float32bits(r.Position.Y))
		dst = le.AppendUint32(dst, math.Float32bits(r.Velocity.X))
		dst = le.AppendUint32(dst, math.Float32bits(r.Velocity.Y))
		if r.Teleported {
			dst = append(dst, 1)
		} else {
			dst = append(dst, 0)
		}
	}
	return dst
}
