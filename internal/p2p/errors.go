package p2p

import "errors"

var (
	// ErrPeerUnreachable surfaces to the caller of DialPeer.
	ErrPeerUnreachable = errors.New("p2p: peer unreachable")
	// ErrMessageParse is logged per-message; it never closes the connection.
	ErrMessageParse = errors.New("p2p: message parse error")
)
