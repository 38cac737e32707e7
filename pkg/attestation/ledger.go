package attestation

import "context"

// Ledger is the chain client the attestation Client writes through and
// reads from. Topics and values cross this boundary already encoded as
// 0x-prefixed hex.
type Ledger interface {
	SetClaim(ctx context.Context, holder string, topicHex string, valueHex string) (TransactionResult, error)
	SetSelfClaim(ctx context.Context, topicHex string, valueHex string) (TransactionResult, error)
	RemoveClaim(ctx context.Context, holder string, topicHex string) (TransactionResult, error)
	GetValue(ctx context.Context, holder string, issuer string, topicHex string) (string, error)
}

// Watcher is implemented by ledgers that can push stored value updates.
// The handler receives the current value first and then every change.
type Watcher interface {
	WatchValue(ctx context.Context, holder string, issuer string, topicHex string, handler ValueHandler) (Subscription, error)
}

// BatchReader is implemented by ledgers that can read many stored values
// for one holder in a single round trip. Results line up with keys.
type BatchReader interface {
	GetValues(ctx context.Context, holder string, keys []ClaimKey) ([]string, error)
}
