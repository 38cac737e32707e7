package claimregistry

import (
	"fmt"
	"strings"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

// BuildCreateRegistryTx builds the topic create transaction for a new
// claim registry.
func BuildCreateRegistryTx(params CreateRegistryTxParams) *hedera.TopicCreateTransaction {
	ttl := params.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	transaction := hedera.NewTopicCreateTransaction().SetTopicMemo(BuildTopicMemo(ttl))
	if params.AdminKey != nil {
		transaction.SetAdminKey(params.AdminKey)
	}
	if params.SubmitKey != nil {
		transaction.SetSubmitKey(params.SubmitKey)
	}
	return transaction
}

// BuildSubmitMessageTx validates the message and returns an unsubmitted
// message transaction for the registry topic.
func BuildSubmitMessageTx(params SubmitMessageTxParams) (*hedera.TopicMessageSubmitTransaction, error) {
	if err := ValidateMessage(params.Message); err != nil {
		return nil, err
	}
	topicID, err := hedera.TopicIDFromString(strings.TrimSpace(params.TopicID))
	if err != nil {
		return nil, fmt.Errorf("invalid topic ID: %w", err)
	}

	payload, err := EncodeMessage(params.Message, params.Compress)
	if err != nil {
		return nil, err
	}

	transactionMemo := strings.TrimSpace(params.TransactionMemo)
	if transactionMemo == "" {
		transactionMemo = BuildTransactionMemo(params.Message.Op)
	}

	return hedera.NewTopicMessageSubmitTransaction().
		SetTopicID(topicID).
		SetMessage(payload).
		SetTransactionMemo(transactionMemo), nil
}

// NewSetMessage builds a set message from already encoded topic and value.
func NewSetMessage(holder string, topicHex string, valueHex string) Message {
	return Message{
		P:      Protocol,
		Op:     OperationSet,
		Holder: strings.TrimSpace(holder),
		Topic:  strings.ToLower(strings.TrimSpace(topicHex)),
		Value:  strings.TrimSpace(valueHex),
	}
}

// NewRemoveMessage builds a remove message from an already encoded topic.
func NewRemoveMessage(holder string, topicHex string) Message {
	return Message{
		P:      Protocol,
		Op:     OperationRemove,
		Holder: strings.TrimSpace(holder),
		Topic:  strings.ToLower(strings.TrimSpace(topicHex)),
	}
}
