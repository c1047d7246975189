package domain

// Session is the composite authentication state owned by the session store.
// Invariant: Authenticated == (User != nil). Initializing is true only until
// the gateway reports the first session-change event.
type Session struct {
	Initializing  bool  `json:"initializing"`
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user,omitempty"`
}

// Valid reports whether the session honors the authenticated-XOR-anonymous
// invariant. A violation indicates broken store wiring, not user input.
func (s Session) Valid() bool {
	return s.Authenticated == (s.User != nil)
}
