// Package messages holds the necs router message types shared by the client
// and the sim server. The router's own type tag is what separates an entity
// list from any other message; the payload format lives in shared/snapshot.
package messages

// EntityList carries one encoded snapshot (see snapshot.Decode).
type EntityList struct {
	Data []byte
}
