package chain

import "errors"

// Error kinds from the node's error taxonomy. These are checked with
// errors.Is, never type-switched.
var (
	ErrInvalidTransaction       = errors.New("chain: invalid transaction")
	ErrInvalidProof             = errors.New("chain: invalid proof")
	ErrWrongKey                 = errors.New("chain: signing key does not match sender")
	ErrChainReplacementRejected = errors.New("chain: replacement rejected")
	ErrSnapshotIO               = errors.New("chain: snapshot io error")
)
