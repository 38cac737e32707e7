package claimregistry

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	hederaAccountIDPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	topicHexPattern        = regexp.MustCompile(`^0x([a-f0-9]{2}){0,32}$`)
	valueHexPattern        = regexp.MustCompile(`^0x[a-fA-F0-9]{1,64}$`)
)

// ValidateMessage checks a registry message before it is submitted or
// applied to the claim state.
func ValidateMessage(message Message) error {
	if strings.TrimSpace(message.P) != Protocol {
		return fmt.Errorf("message p must be %s", Protocol)
	}
	if !hederaAccountIDPattern.MatchString(strings.TrimSpace(message.Holder)) {
		return fmt.Errorf("message holder must be a Hedera account ID")
	}
	if !topicHexPattern.MatchString(strings.TrimSpace(message.Topic)) {
		return fmt.Errorf("message topic must be 0x-prefixed lowercase hex of at most 32 bytes")
	}
	if len(strings.TrimSpace(message.Memo)) > 500 {
		return fmt.Errorf("message memo exceeds 500 characters")
	}

	switch message.Op {
	case OperationSet:
		if !valueHexPattern.MatchString(strings.TrimSpace(message.Value)) {
			return fmt.Errorf("set requires value of 1 to 64 hex digits")
		}
	case OperationRemove:
		if strings.TrimSpace(message.Value) != "" {
			return fmt.Errorf("remove must not carry a value")
		}
	default:
		return fmt.Errorf("unsupported operation %q", message.Op)
	}

	return nil
}

// IsAccountID reports whether value looks like a Hedera account ID.
func IsAccountID(value string) bool {
	return hederaAccountIDPattern.MatchString(strings.TrimSpace(value))
}
