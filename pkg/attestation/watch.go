package attestation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// WatchClaim pushes the current value issuer recorded on holder for topic
// and every later change. The ledger must implement Watcher.
func (c *Client) WatchClaim(
	ctx context.Context,
	holder string,
	issuer string,
	topic string,
	handler ClaimHandler,
) (Subscription, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler is required")
	}
	if err := requireHolder(holder); err != nil {
		return nil, err
	}
	topicHex, err := EncodeTopic(topic)
	if err != nil {
		return nil, err
	}
	watcher, err := c.watcher()
	if err != nil {
		return nil, err
	}

	c.logger.Debug("watching claim",
		zap.String("holder", holder),
		zap.String("issuer", issuer),
		zap.String("topic", topicHex),
	)
	return watcher.WatchValue(ctx, strings.TrimSpace(holder), issuer, topicHex, func(storedHex string, err error) {
		if err != nil {
			handler(StoredValue{}, err)
			return
		}
		handler(DecodeStoredHex(storedHex))
	})
}

// WatchClaims pushes a fresh ClaimsView once every requested pair has a
// value and again on each change. The first watch error is delivered to
// handler and closes every underlying subscription. With no issuers or no
// topics the empty table is pushed once.
func (c *Client) WatchClaims(
	ctx context.Context,
	holder string,
	issuers []string,
	topics []string,
	handler ClaimsHandler,
) (Subscription, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler is required")
	}
	if err := requireHolder(holder); err != nil {
		return nil, err
	}
	for _, topic := range topics {
		if err := ValidateTopic(topic); err != nil {
			return nil, err
		}
	}
	watcher, err := c.watcher()
	if err != nil {
		return nil, err
	}
	holder = strings.TrimSpace(holder)

	uniqueTopics := uniqueStrings(topics)
	uniqueIssuers := uniqueStrings(issuers)
	watch := &claimsWatch{
		holder:  holder,
		handler: handler,
		values:  make(Claims, len(uniqueTopics)),
		pending: len(uniqueTopics) * len(uniqueIssuers),
		logger:  c.logger,
	}
	for _, topic := range uniqueTopics {
		watch.values[topic] = make(map[string]StoredValue, len(uniqueIssuers))
	}
	if watch.pending == 0 {
		// Nothing to subscribe to: report the empty table once.
		handler(WithViews(watch.values), nil)
		return watch, nil
	}

	for _, topic := range uniqueTopics {
		topicHex := StringToHex(topic)
		for _, issuer := range uniqueIssuers {
			subscription, err := watcher.WatchValue(ctx, holder, issuer, topicHex, watch.update(topic, issuer))
			if err != nil {
				watch.Unsubscribe()
				return nil, &LookupError{Holder: holder, Issuer: issuer, Topic: topic, Err: err}
			}
			if !watch.add(subscription) {
				return watch, nil
			}
		}
	}
	return watch, nil
}

func (c *Client) watcher() (Watcher, error) {
	watcher, ok := c.ledger.(Watcher)
	if !ok {
		return nil, fmt.Errorf("ledger does not support watching claims")
	}
	return watcher, nil
}

type claimsWatch struct {
	mu            sync.Mutex
	emitMu        sync.Mutex
	holder        string
	handler       ClaimsHandler
	values        Claims
	pending       int
	closed        bool
	subscriptions []Subscription
	logger        *zap.Logger
}

// add records subscription, closing it straight away when the watch has
// already ended.
func (w *claimsWatch) add(subscription Subscription) bool {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		subscription.Unsubscribe()
		return false
	}
	w.subscriptions = append(w.subscriptions, subscription)
	w.mu.Unlock()
	return true
}

func (w *claimsWatch) update(topic string, issuer string) ValueHandler {
	return func(storedHex string, err error) {
		var value StoredValue
		if err == nil {
			value, err = DecodeStoredHex(storedHex)
		}
		if err != nil {
			w.fail(&LookupError{Holder: w.holder, Issuer: issuer, Topic: topic, Err: err})
			return
		}

		// emitMu is held from snapshot to delivery so views reach the
		// handler in the order they were taken.
		w.emitMu.Lock()
		defer w.emitMu.Unlock()

		w.mu.Lock()
		if w.closed {
			w.mu.Unlock()
			return
		}
		row := w.values[topic]
		previous, seen := row[issuer]
		row[issuer] = value
		if !seen {
			w.pending--
		}
		if w.pending > 0 || (seen && previous == value) {
			w.mu.Unlock()
			return
		}
		snapshot := MapClaims(w.values, func(stored StoredValue) StoredValue { return stored })
		w.mu.Unlock()

		w.handler(WithViews(snapshot), nil)
	}
}

func (w *claimsWatch) fail(err error) {
	w.emitMu.Lock()
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.emitMu.Unlock()
		return
	}
	subscriptions := w.close()
	w.mu.Unlock()

	w.logger.Warn("claims watch failed", zap.String("holder", w.holder), zap.Error(err))
	w.handler(ClaimsView{}, err)
	w.emitMu.Unlock()

	// Closed outside emitMu: a subscription may be mid-delivery.
	for _, subscription := range subscriptions {
		subscription.Unsubscribe()
	}
}

// Unsubscribe stops every underlying watch. It is safe to call more than
// once.
func (w *claimsWatch) Unsubscribe() {
	w.mu.Lock()
	subscriptions := w.close()
	w.mu.Unlock()

	for _, subscription := range subscriptions {
		subscription.Unsubscribe()
	}
}

// close must be called with mu held.
func (w *claimsWatch) close() []Subscription {
	w.closed = true
	subscriptions := w.subscriptions
	w.subscriptions = nil
	return subscriptions
}
