package claimregistry

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashgraph-online/attestation-sdk-go/pkg/attestation"
	"github.com/hashgraph-online/attestation-sdk-go/pkg/mirror"
	"github.com/hashgraph-online/attestation-sdk-go/pkg/shared"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	cache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const mirrorPageLimit = 100

type Client struct {
	hederaClient    *hedera.Client
	mirrorClient    *mirror.Client
	operatorID      hedera.AccountID
	operatorKey     hedera.PrivateKey
	registryTopicID string
	submitKey       *hedera.PrivateKey
	compress        bool
	stateCache      *cache.Cache
	logger          *zap.Logger
	subscribe       subscribeFunc
}

var (
	_ attestation.Ledger      = (*Client)(nil)
	_ attestation.Watcher     = (*Client)(nil)
	_ attestation.BatchReader = (*Client)(nil)
)

// NewClient creates a new Client.
func NewClient(config ClientConfig) (*Client, error) {
	network, err := shared.NormalizeNetwork(config.Network)
	if err != nil {
		return nil, err
	}

	hederaClient, operatorID, operatorKey, err := shared.NewOperatorClient(
		network,
		config.OperatorAccountID,
		config.OperatorPrivateKey,
	)
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mirrorClient, err := mirror.NewClient(mirror.Config{
		Network: network,
		BaseURL: config.MirrorBaseURL,
		APIKey:  config.MirrorAPIKey,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	registryTopicID := strings.TrimSpace(config.RegistryTopicID)
	if registryTopicID != "" {
		if _, err := hedera.TopicIDFromString(registryTopicID); err != nil {
			return nil, fmt.Errorf("invalid registry topic ID: %w", err)
		}
	}

	var submitKey *hedera.PrivateKey
	if strings.TrimSpace(config.SubmitKey) != "" {
		parsed, err := shared.ParsePrivateKey(config.SubmitKey)
		if err != nil {
			return nil, fmt.Errorf("invalid submit key: %w", err)
		}
		submitKey = &parsed
	}

	if config.StateCacheTTL < 0 {
		return nil, fmt.Errorf("state cache TTL cannot be negative")
	}
	var stateCache *cache.Cache
	if config.StateCacheTTL > 0 {
		stateCache = cache.New(config.StateCacheTTL, 2*config.StateCacheTTL)
	}

	client := &Client{
		hederaClient:    hederaClient,
		mirrorClient:    mirrorClient,
		operatorID:      operatorID,
		operatorKey:     operatorKey,
		registryTopicID: registryTopicID,
		submitKey:       submitKey,
		compress:        config.CompressMessages,
		stateCache:      stateCache,
		logger:          logger.Named("claimregistry"),
	}
	client.subscribe = client.subscribeTopic
	return client, nil
}

// MirrorClient returns the configured mirror node client.
func (c *Client) MirrorClient() *mirror.Client {
	return c.mirrorClient
}

// OperatorAccountID returns the account that pays for, and therefore
// issues, every claim written by this client.
func (c *Client) OperatorAccountID() string {
	return c.operatorID.String()
}

// RegistryTopicID returns the registry topic the client reads and writes.
func (c *Client) RegistryTopicID() string {
	return c.registryTopicID
}

// WithRegistry returns a copy of the client bound to topicID.
func (c *Client) WithRegistry(topicID string) (*Client, error) {
	trimmed := strings.TrimSpace(topicID)
	if _, err := hedera.TopicIDFromString(trimmed); err != nil {
		return nil, fmt.Errorf("invalid registry topic ID: %w", err)
	}
	copied := *c
	copied.registryTopicID = trimmed
	copied.subscribe = copied.subscribeTopic
	return &copied, nil
}

// CreateRegistry creates a new registry topic.
func (c *Client) CreateRegistry(ctx context.Context, options CreateRegistryOptions) (CreateRegistryResult, error) {
	ttl := options.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if ttl < MinimumTTL {
		return CreateRegistryResult{}, fmt.Errorf("TTL must be at least %d seconds", MinimumTTL)
	}

	adminKey, err := c.resolvePublicKey(options.AdminKey, options.UseOperatorAsAdmin)
	if err != nil {
		return CreateRegistryResult{}, err
	}
	submitKey, err := c.resolvePublicKey(options.SubmitKey, options.UseOperatorAsSubmit)
	if err != nil {
		return CreateRegistryResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return CreateRegistryResult{}, err
	}

	transaction := BuildCreateRegistryTx(CreateRegistryTxParams{
		TTL:       ttl,
		AdminKey:  adminKey,
		SubmitKey: submitKey,
	})
	response, err := transaction.Execute(c.hederaClient)
	if err != nil {
		return CreateRegistryResult{}, fmt.Errorf("failed to execute create topic transaction: %w", err)
	}
	receipt, err := response.GetReceipt(c.hederaClient)
	if err != nil {
		return CreateRegistryResult{}, fmt.Errorf("failed to get create topic receipt: %w", err)
	}
	if receipt.TopicID == nil {
		return CreateRegistryResult{}, fmt.Errorf("topic ID missing in create topic receipt")
	}

	c.logger.Info("created claim registry",
		zap.String("topic_id", receipt.TopicID.String()),
		zap.Int64("ttl", ttl),
	)
	return CreateRegistryResult{
		Success:       true,
		TopicID:       receipt.TopicID.String(),
		TransactionID: response.TransactionID.String(),
	}, nil
}

// GetRegistryInfo reads the registry topic memo from the mirror node.
func (c *Client) GetRegistryInfo(ctx context.Context) (TopicMemo, error) {
	if err := c.requireRegistry(); err != nil {
		return TopicMemo{}, err
	}
	info, err := c.mirrorClient.GetTopicInfo(ctx, c.registryTopicID)
	if err != nil {
		return TopicMemo{}, err
	}
	memo, ok := ParseTopicMemo(info.Memo)
	if !ok {
		return TopicMemo{}, fmt.Errorf("topic %s is not a claim registry", c.registryTopicID)
	}
	return *memo, nil
}

// SetClaim writes a claim on holder issued by the operator account.
func (c *Client) SetClaim(ctx context.Context, holder string, topicHex string, valueHex string) (attestation.TransactionResult, error) {
	return c.submit(ctx, NewSetMessage(holder, topicHex, valueHex))
}

// SetSelfClaim writes a claim with the operator as holder and issuer.
func (c *Client) SetSelfClaim(ctx context.Context, topicHex string, valueHex string) (attestation.TransactionResult, error) {
	return c.submit(ctx, NewSetMessage(c.operatorID.String(), topicHex, valueHex))
}

// RemoveClaim removes the operator's claim on holder for topicHex.
func (c *Client) RemoveClaim(ctx context.Context, holder string, topicHex string) (attestation.TransactionResult, error) {
	return c.submit(ctx, NewRemoveMessage(holder, topicHex))
}

// BuildSetClaimTx returns the unsubmitted transaction for a set message so
// callers can sign and execute it themselves.
func (c *Client) BuildSetClaimTx(holder string, topicHex string, valueHex string) (*hedera.TopicMessageSubmitTransaction, error) {
	if err := c.requireRegistry(); err != nil {
		return nil, err
	}
	return BuildSubmitMessageTx(SubmitMessageTxParams{
		TopicID:  c.registryTopicID,
		Message:  NewSetMessage(holder, topicHex, valueHex),
		Compress: c.compress,
	})
}

// GetState replays the registry topic into its current claim state.
func (c *Client) GetState(ctx context.Context) (*State, error) {
	if err := c.requireRegistry(); err != nil {
		return nil, err
	}

	items, err := c.mirrorClient.GetTopicMessages(ctx, c.registryTopicID, mirror.MessageQueryOptions{
		Limit: mirrorPageLimit,
		Order: "asc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read registry messages: %w", err)
	}

	state := NewState()
	skipped := 0
	for _, item := range items {
		if item.IsChunked() {
			skipped++
			continue
		}
		payload, err := mirror.DecodeMessageData(item)
		if err != nil {
			skipped++
			continue
		}
		message, err := DecodeMessage(payload)
		if err != nil {
			skipped++
			continue
		}
		if !state.Apply(item.SequenceNumber, item.ConsensusTimestamp, item.PayerAccountID, message) {
			skipped++
		}
	}

	c.logger.Debug("replayed claim registry",
		zap.String("topic_id", c.registryTopicID),
		zap.Int("messages", len(items)),
		zap.Int("skipped", skipped),
		zap.Int("claims", state.Len()),
	)
	return state, nil
}

// cachedState returns a recently replayed state when caching is enabled.
// The result is shared and must not be modified.
func (c *Client) cachedState(ctx context.Context) (*State, error) {
	if c.stateCache == nil {
		return c.GetState(ctx)
	}
	if cached, found := c.stateCache.Get(c.registryTopicID); found {
		return cached.(*State), nil
	}

	state, err := c.GetState(ctx)
	if err != nil {
		return nil, err
	}
	if floor, found := c.stateCache.Get(writeFloorKey(c.registryTopicID)); found && state.LastSequence() < floor.(int64) {
		// The mirror node has not caught up with our own write yet.
		c.logger.Debug("not caching lagging registry state",
			zap.String("topic_id", c.registryTopicID),
			zap.Int64("last_sequence", state.LastSequence()),
			zap.Int64("written_sequence", floor.(int64)),
		)
		return state, nil
	}
	c.stateCache.SetDefault(c.registryTopicID, state)
	return state, nil
}

// recordWrite evicts the cached state and keeps later replays out of the
// cache until they include sequence.
func (c *Client) recordWrite(sequence int64) {
	if c.stateCache == nil {
		return
	}
	c.stateCache.Delete(c.registryTopicID)
	key := writeFloorKey(c.registryTopicID)
	if current, found := c.stateCache.Get(key); found && current.(int64) >= sequence {
		return
	}
	c.stateCache.Set(key, sequence, cache.NoExpiration)
}

func writeFloorKey(topicID string) string {
	return topicID + "#written"
}

// GetValue returns the stored hex for one claim, padded to the canonical
// width. Missing claims read as EmptyValue.
func (c *Client) GetValue(ctx context.Context, holder string, issuer string, topicHex string) (string, error) {
	state, err := c.cachedState(ctx)
	if err != nil {
		return "", err
	}
	return state.Value(holder, issuer, topicHex), nil
}

// GetValues reads every key from a single registry replay.
func (c *Client) GetValues(ctx context.Context, holder string, keys []attestation.ClaimKey) ([]string, error) {
	state, err := c.cachedState(ctx)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(keys))
	for _, key := range keys {
		values = append(values, state.Value(holder, key.Issuer, key.TopicHex))
	}
	return values, nil
}

// GetHolderClaims lists every live claim on holder.
func (c *Client) GetHolderClaims(ctx context.Context, holder string) ([]ClaimRecord, error) {
	state, err := c.cachedState(ctx)
	if err != nil {
		return nil, err
	}
	return state.Claims(holder), nil
}

func (c *Client) submit(ctx context.Context, message Message) (attestation.TransactionResult, error) {
	if err := c.requireRegistry(); err != nil {
		return attestation.TransactionResult{}, err
	}
	transaction, err := BuildSubmitMessageTx(SubmitMessageTxParams{
		TopicID:  c.registryTopicID,
		Message:  message,
		Compress: c.compress,
	})
	if err != nil {
		return attestation.TransactionResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return attestation.TransactionResult{}, err
	}

	if c.submitKey != nil {
		frozen, err := transaction.FreezeWith(c.hederaClient)
		if err != nil {
			return attestation.TransactionResult{}, fmt.Errorf("failed to freeze transaction: %w", err)
		}
		transaction = frozen.Sign(*c.submitKey)
	}

	response, err := transaction.Execute(c.hederaClient)
	if err != nil {
		return attestation.TransactionResult{}, fmt.Errorf("failed to execute message submit transaction: %w", err)
	}
	receipt, err := response.GetReceipt(c.hederaClient)
	if err != nil {
		return attestation.TransactionResult{}, fmt.Errorf("failed to get message submit receipt: %w", err)
	}
	c.recordWrite(int64(receipt.TopicSequenceNumber))

	c.logger.Info("submitted claim message",
		zap.String("topic_id", c.registryTopicID),
		zap.String("op", string(message.Op)),
		zap.String("holder", message.Holder),
		zap.String("topic", message.Topic),
		zap.Uint64("sequence_number", receipt.TopicSequenceNumber),
	)
	return attestation.TransactionResult{
		Success:        true,
		TransactionID:  response.TransactionID.String(),
		SequenceNumber: int64(receipt.TopicSequenceNumber),
	}, nil
}

func (c *Client) requireRegistry() error {
	if c.registryTopicID == "" {
		return fmt.Errorf("registry topic ID is required")
	}
	return nil
}

func (c *Client) resolvePublicKey(raw string, useOperator bool) (hedera.Key, error) {
	if useOperator {
		return c.operatorKey.PublicKey(), nil
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	publicKey, err := hedera.PublicKeyFromString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid public key: %w", err)
	}
	return publicKey, nil
}
