package claimregistry

import (
	"sort"
	"strings"

	"github.com/hashgraph-online/attestation-sdk-go/pkg/attestation"
)

// EmptyValue is what the registry reports for a claim that was never set
// or has been removed.
var EmptyValue = attestation.PadToWidth(attestation.HexPrefix, attestation.StoredValueDigits)

type stateKey struct {
	holder string
	issuer string
	topic  string
}

// State is the claim set produced by replaying registry messages in
// sequence order. It is not safe for concurrent use.
type State struct {
	claims        map[stateKey]ClaimRecord
	lastSequence  int64
	lastTimestamp string
}

// NewState returns an empty State.
func NewState() *State {
	return &State{claims: make(map[stateKey]ClaimRecord)}
}

// Apply folds one registry message paid for by issuer into the state.
// Messages at or below the last applied sequence number, invalid
// messages and unknown issuers are ignored. It reports whether the message
// was applied.
func (s *State) Apply(sequence int64, timestamp string, issuer string, message Message) bool {
	if sequence <= s.lastSequence {
		return false
	}
	issuer = strings.TrimSpace(issuer)
	if !IsAccountID(issuer) {
		return false
	}
	if err := ValidateMessage(message); err != nil {
		return false
	}

	s.lastSequence = sequence
	s.lastTimestamp = timestamp

	key := stateKey{
		holder: strings.TrimSpace(message.Holder),
		issuer: issuer,
		topic:  strings.ToLower(strings.TrimSpace(message.Topic)),
	}
	switch message.Op {
	case OperationSet:
		s.claims[key] = ClaimRecord{
			Holder:         key.holder,
			Issuer:         key.issuer,
			TopicHex:       key.topic,
			ValueHex:       attestation.PadToWidth(strings.ToLower(strings.TrimSpace(message.Value)), attestation.StoredValueDigits),
			SequenceNumber: sequence,
			Timestamp:      timestamp,
		}
	case OperationRemove:
		delete(s.claims, key)
	}
	return true
}

// Value returns the stored hex for one claim, or EmptyValue.
func (s *State) Value(holder string, issuer string, topicHex string) string {
	record, ok := s.claims[stateKey{
		holder: strings.TrimSpace(holder),
		issuer: strings.TrimSpace(issuer),
		topic:  strings.ToLower(strings.TrimSpace(topicHex)),
	}]
	if !ok {
		return EmptyValue
	}
	return record.ValueHex
}

// Claims lists the live claims on holder ordered by topic then issuer.
func (s *State) Claims(holder string) []ClaimRecord {
	holder = strings.TrimSpace(holder)
	records := make([]ClaimRecord, 0)
	for key, record := range s.claims {
		if key.holder == holder {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(left int, right int) bool {
		if records[left].TopicHex != records[right].TopicHex {
			return records[left].TopicHex < records[right].TopicHex
		}
		return records[left].Issuer < records[right].Issuer
	})
	return records
}

// Len returns the number of live claims.
func (s *State) Len() int {
	return len(s.claims)
}

// LastSequence returns the sequence number of the last applied message.
func (s *State) LastSequence() int64 {
	return s.lastSequence
}

// LastTimestamp returns the consensus timestamp of the last applied
// message.
func (s *State) LastTimestamp() string {
	return s.lastTimestamp
}
