package messages

// Welcome is sent by the server right after a client connects.
type Welcome struct {
	ServerName  string
	TickRate    int
	EntityCount int
}
