package attestation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type ClientConfig struct {
	Ledger            Ledger
	Logger            *zap.Logger
	LookupConcurrency int
}

type Client struct {
	ledger            Ledger
	logger            *zap.Logger
	lookupConcurrency int
}

// NewClient creates a new Client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.Ledger == nil {
		return nil, fmt.Errorf("ledger is required")
	}
	if config.LookupConcurrency < 0 {
		return nil, fmt.Errorf("lookup concurrency cannot be negative")
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		ledger:            config.Ledger,
		logger:            logger.Named("attestation"),
		lookupConcurrency: config.LookupConcurrency,
	}, nil
}

// Ledger returns the ledger the client was built with.
func (c *Client) Ledger() Ledger {
	return c.ledger
}

// SetClaim records value under topic for holder, issued by the ledger's
// signing account.
func (c *Client) SetClaim(ctx context.Context, holder string, topic string, value any) (TransactionResult, error) {
	if err := requireHolder(holder); err != nil {
		return TransactionResult{}, err
	}
	topicHex, valueHex, err := encodeClaim(topic, value)
	if err != nil {
		return TransactionResult{}, err
	}

	c.logger.Debug("setting claim",
		zap.String("holder", holder),
		zap.String("topic", topicHex),
		zap.String("value", valueHex),
	)
	result, err := c.ledger.SetClaim(ctx, strings.TrimSpace(holder), topicHex, valueHex)
	if err != nil {
		return TransactionResult{}, fmt.Errorf("failed to set claim: %w", err)
	}
	return result, nil
}

// SetSelfClaim records value under topic with the signing account as both
// holder and issuer.
func (c *Client) SetSelfClaim(ctx context.Context, topic string, value any) (TransactionResult, error) {
	topicHex, valueHex, err := encodeClaim(topic, value)
	if err != nil {
		return TransactionResult{}, err
	}

	c.logger.Debug("setting self claim", zap.String("topic", topicHex), zap.String("value", valueHex))
	result, err := c.ledger.SetSelfClaim(ctx, topicHex, valueHex)
	if err != nil {
		return TransactionResult{}, fmt.Errorf("failed to set self claim: %w", err)
	}
	return result, nil
}

// RemoveClaim removes the signing account's claim on holder for topic.
func (c *Client) RemoveClaim(ctx context.Context, holder string, topic string) (TransactionResult, error) {
	if err := requireHolder(holder); err != nil {
		return TransactionResult{}, err
	}
	topicHex, err := EncodeTopic(topic)
	if err != nil {
		return TransactionResult{}, err
	}

	c.logger.Debug("removing claim", zap.String("holder", holder), zap.String("topic", topicHex))
	result, err := c.ledger.RemoveClaim(ctx, strings.TrimSpace(holder), topicHex)
	if err != nil {
		return TransactionResult{}, fmt.Errorf("failed to remove claim: %w", err)
	}
	return result, nil
}

// GetClaim reads the value issuer recorded on holder for topic.
func (c *Client) GetClaim(ctx context.Context, holder string, issuer string, topic string) (StoredValue, error) {
	if err := requireHolder(holder); err != nil {
		return StoredValue{}, err
	}
	if _, err := EncodeTopic(topic); err != nil {
		return StoredValue{}, err
	}
	return c.lookupOne(ctx, strings.TrimSpace(holder), issuer, topic)
}

// GetClaims reads every issuer's value for every topic on holder. Any
// failing read fails the whole call.
func (c *Client) GetClaims(ctx context.Context, holder string, issuers []string, topics []string) (ClaimsView, error) {
	if err := requireHolder(holder); err != nil {
		return ClaimsView{}, err
	}
	for _, topic := range topics {
		if err := ValidateTopic(topic); err != nil {
			return ClaimsView{}, err
		}
	}
	holder = strings.TrimSpace(holder)

	lookup := LookupFunc(c.lookupOne)
	if batchReader, ok := c.ledger.(BatchReader); ok {
		prefetched, err := c.prefetchBatch(ctx, batchReader, holder, issuers, topics)
		if err != nil {
			c.logger.Warn("claims batch read failed", zap.String("holder", holder), zap.Error(err))
			return ClaimsView{}, err
		}
		lookup = prefetched.lookup
	} else if c.lookupConcurrency > 1 {
		prefetched, err := c.prefetchConcurrent(ctx, holder, issuers, topics)
		if err != nil {
			c.logger.Warn("claims lookup failed", zap.String("holder", holder), zap.Error(err))
			return ClaimsView{}, err
		}
		lookup = prefetched.lookup
	}

	claims, err := BuildTable(ctx, holder, issuers, topics, lookup)
	if err != nil {
		c.logger.Warn("claims lookup failed", zap.String("holder", holder), zap.Error(err))
		return ClaimsView{}, err
	}

	c.logger.Debug("read claims",
		zap.String("holder", holder),
		zap.Int("topics", len(claims)),
		zap.Int("issuers", len(uniqueStrings(issuers))),
	)
	return WithViews(claims), nil
}

func (c *Client) lookupOne(ctx context.Context, holder string, issuer string, topic string) (StoredValue, error) {
	topicHex, err := EncodeTopic(topic)
	if err != nil {
		return StoredValue{}, err
	}
	storedHex, err := c.ledger.GetValue(ctx, holder, issuer, topicHex)
	if err != nil {
		return StoredValue{}, err
	}
	return DecodeStoredHex(storedHex)
}

type pairKey struct {
	topic  string
	issuer string
}

type prefetchedValues map[pairKey]StoredValue

func (p prefetchedValues) lookup(ctx context.Context, holder string, issuer string, topic string) (StoredValue, error) {
	value, ok := p[pairKey{topic: topic, issuer: issuer}]
	if !ok {
		return StoredValue{}, fmt.Errorf("claim was not prefetched")
	}
	return value, nil
}

func (c *Client) prefetchBatch(
	ctx context.Context,
	reader BatchReader,
	holder string,
	issuers []string,
	topics []string,
) (prefetchedValues, error) {
	keys := make([]ClaimKey, 0, len(issuers)*len(topics))
	for _, topic := range uniqueStrings(topics) {
		topicHex := StringToHex(topic)
		for _, issuer := range uniqueStrings(issuers) {
			keys = append(keys, ClaimKey{Issuer: issuer, Topic: topic, TopicHex: topicHex})
		}
	}

	storedValues, err := reader.GetValues(ctx, holder, keys)
	if err != nil {
		return nil, &LookupError{Holder: holder, Err: err}
	}
	if len(storedValues) != len(keys) {
		return nil, &LookupError{
			Holder: holder,
			Err:    fmt.Errorf("ledger returned %d values for %d claims", len(storedValues), len(keys)),
		}
	}

	values := make(prefetchedValues, len(keys))
	for index, key := range keys {
		value, err := DecodeStoredHex(storedValues[index])
		if err != nil {
			return nil, &LookupError{Holder: holder, Issuer: key.Issuer, Topic: key.Topic, Err: err}
		}
		values[pairKey{topic: key.Topic, issuer: key.Issuer}] = value
	}
	return values, nil
}

func (c *Client) prefetchConcurrent(
	ctx context.Context,
	holder string,
	issuers []string,
	topics []string,
) (prefetchedValues, error) {
	pairs := make([]pairKey, 0, len(issuers)*len(topics))
	for _, topic := range uniqueStrings(topics) {
		for _, issuer := range uniqueStrings(issuers) {
			pairs = append(pairs, pairKey{topic: topic, issuer: issuer})
		}
	}

	results := make([]StoredValue, len(pairs))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(c.lookupConcurrency)
	for index, pair := range pairs {
		group.Go(func() error {
			value, err := c.lookupOne(groupCtx, holder, pair.issuer, pair.topic)
			if err != nil {
				return &LookupError{Holder: holder, Issuer: pair.issuer, Topic: pair.topic, Err: err}
			}
			results[index] = value
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	values := make(prefetchedValues, len(pairs))
	for index, pair := range pairs {
		values[pair] = results[index]
	}
	return values, nil
}

func encodeClaim(topic string, value any) (string, string, error) {
	topicHex, err := EncodeTopic(topic)
	if err != nil {
		return "", "", err
	}
	valueHex, err := EncodeValue(value)
	if err != nil {
		return "", "", err
	}
	return topicHex, valueHex, nil
}

func requireHolder(holder string) error {
	if strings.TrimSpace(holder) == "" {
		return newValidationError("holder", holder, "holder is required")
	}
	return nil
}
