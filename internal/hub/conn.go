package hub

// Conn is one live bidirectional session. The websocket adapter implements it;
// tests use channel-backed fakes. Send must not block: implementations queue
// or drop.
type Conn interface {
	ID() string
	UserID() string
	Send(ev Event) error
	Close() error
}

// session is the hub-side bookkeeping for a connection: which rooms it
// occupies and the display name it last joined with. Guarded by Hub.mu.
type session struct {
	conn        Conn
	displayName string
	rooms       map[string]struct{}
}
