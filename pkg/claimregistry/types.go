package claimregistry

import (
	"time"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"go.uber.org/zap"
)

const Protocol = "attestation"

type Operation string

const (
	OperationSet    Operation = "set"
	OperationRemove Operation = "remove"
)

type Message struct {
	P      string    `json:"p"`
	Op     Operation `json:"op"`
	Holder string    `json:"holder"`
	Topic  string    `json:"topic"`
	Value  string    `json:"value,omitempty"`
	Memo   string    `json:"m,omitempty"`
}

type TopicMemo struct {
	Protocol string
	Indexed  bool
	TTL      int64
}

type ClientConfig struct {
	OperatorAccountID  string
	OperatorPrivateKey string
	Network            string
	RegistryTopicID    string
	SubmitKey          string
	CompressMessages   bool
	MirrorBaseURL      string
	MirrorAPIKey       string
	// StateCacheTTL keeps a replayed registry state for reads for this
	// long. Zero disables caching. Writes through the client evict it, and
	// replays that do not yet include the written sequence are not cached.
	StateCacheTTL time.Duration
	Logger        *zap.Logger
}

type CreateRegistryOptions struct {
	TTL                 int64
	UseOperatorAsAdmin  bool
	UseOperatorAsSubmit bool
	AdminKey            string
	SubmitKey           string
}

type CreateRegistryResult struct {
	Success       bool   `json:"success"`
	TopicID       string `json:"topic_id,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	Error         string `json:"error,omitempty"`
}

type CreateRegistryTxParams struct {
	TTL       int64
	AdminKey  hedera.Key
	SubmitKey hedera.Key
}

type SubmitMessageTxParams struct {
	TopicID         string
	Message         Message
	TransactionMemo string
	Compress        bool
}

// ClaimRecord is one live claim in the registry state.
type ClaimRecord struct {
	Holder         string `json:"holder"`
	Issuer         string `json:"issuer"`
	TopicHex       string `json:"topic"`
	ValueHex       string `json:"value"`
	SequenceNumber int64  `json:"sequence_number"`
	Timestamp      string `json:"timestamp"`
}
