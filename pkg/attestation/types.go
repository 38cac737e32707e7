package attestation

import (
	"context"
	"encoding/hex"
	"strings"
)

const (
	MaxTopicLength     = 32
	MaxValueHexDigits  = 64
	StoredValueDigits  = 64
	HexPrefix          = "0x"
	valueErrorMessage  = "value must be a hex string of max length of 64 or a byte slice of max length 32"
	topicLengthMessage = "topic cannot exceed 32 characters"
	topicASCIIMessage  = "topic must be an ASCII string with no characters that cannot be seen on a standard US keyboard"
)

// StoredValue is a claim value as read back from the ledger. The zero
// value behaves like an empty stored value ("0x").
type StoredValue struct {
	hex string
}

// Hex returns the stored hex with leading zero nibbles stripped.
func (v StoredValue) Hex() string {
	if v.hex == "" {
		return HexPrefix
	}
	return v.hex
}

// Bytes decodes Hex into raw bytes. An odd number of digits is read as if
// it carried one more leading zero nibble.
func (v StoredValue) Bytes() []byte {
	digits := v.Hex()
	if hasHexPrefix(digits) {
		digits = digits[len(HexPrefix):]
	}
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}
	decoded, err := hex.DecodeString(digits)
	if err != nil {
		return []byte{}
	}
	return decoded
}

// String implements fmt.Stringer.
func (v StoredValue) String() string {
	return v.Hex()
}

type Claim struct {
	Holder string
	Issuer string
	Topic  string
	Value  StoredValue
}

// ClaimKey addresses one stored value on the ledger.
type ClaimKey struct {
	Issuer   string
	Topic    string
	TopicHex string
}

type Claims map[string]map[string]StoredValue

type ClaimsAsHex map[string]map[string]string

type ClaimsAsBytes map[string]map[string][]byte

// LookupFunc reads a single stored value for one holder, issuer and topic.
type LookupFunc func(ctx context.Context, holder string, issuer string, topic string) (StoredValue, error)

type TransactionResult struct {
	Success        bool   `json:"success"`
	TransactionID  string `json:"transaction_id,omitempty"`
	SequenceNumber int64  `json:"sequence_number,omitempty"`
	Error          string `json:"error,omitempty"`
}

// ValueHandler receives each stored hex pushed by a Watcher, or the error
// that ended the watch.
type ValueHandler func(storedHex string, err error)

// ClaimHandler receives each decoded claim value pushed by WatchClaim.
type ClaimHandler func(value StoredValue, err error)

// ClaimsHandler receives a fresh view each time any watched claim changes.
type ClaimsHandler func(view ClaimsView, err error)

// Subscription cancels a watch.
type Subscription interface {
	Unsubscribe()
}

// SubscriptionFunc adapts a plain function to Subscription.
type SubscriptionFunc func()

func (f SubscriptionFunc) Unsubscribe() {
	f()
}

func hasHexPrefix(value string) bool {
	return len(value) >= len(HexPrefix) && strings.EqualFold(value[:len(HexPrefix)], HexPrefix)
}
