package claimregistry

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultTTL int64 = 86400
	MinimumTTL int64 = 3600
)

var topicMemoPattern = regexp.MustCompile(`^attestation:indexed:(\d+)$`)

// BuildTopicMemo returns the memo that marks a topic as a claim registry.
func BuildTopicMemo(ttl int64) string {
	resolvedTTL := ttl
	if resolvedTTL <= 0 {
		resolvedTTL = DefaultTTL
	}
	return fmt.Sprintf("%s:indexed:%d", Protocol, resolvedTTL)
}

// ParseTopicMemo parses a registry topic memo.
func ParseTopicMemo(memo string) (*TopicMemo, bool) {
	matches := topicMemoPattern.FindStringSubmatch(strings.TrimSpace(memo))
	if len(matches) != 2 {
		return nil, false
	}

	ttl, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil || ttl <= 0 {
		return nil, false
	}

	return &TopicMemo{
		Protocol: Protocol,
		Indexed:  true,
		TTL:      ttl,
	}, true
}

// BuildTransactionMemo returns the analytics memo for an operation.
func BuildTransactionMemo(operation Operation) string {
	operationCode := map[Operation]int{
		OperationSet:    0,
		OperationRemove: 1,
	}
	return fmt.Sprintf("%s:op:%d", Protocol, operationCode[operation])
}
