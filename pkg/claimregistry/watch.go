package claimregistry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hashgraph-online/attestation-sdk-go/pkg/attestation"
	"github.com/hashgraph-online/attestation-sdk-go/pkg/mirror"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"go.uber.org/zap"
	"google.golang.org/grpc/status"
)

// ErrStreamEnded reports a registry subscription that the mirror node
// closed.
var ErrStreamEnded = errors.New("registry topic subscription ended")

// streamMessage is a registry message delivered by a live topic
// subscription.
type streamMessage struct {
	SequenceNumber     int64
	ConsensusTimestamp time.Time
	PayerAccountID     string
	Contents           []byte
}

type subscribeFunc func(
	topicID hedera.TopicID,
	startTime time.Time,
	onMessage func(streamMessage),
	onError func(error),
) (func(), error)

func (c *Client) subscribeTopic(
	topicID hedera.TopicID,
	startTime time.Time,
	onMessage func(streamMessage),
	onError func(error),
) (func(), error) {
	handle, err := hedera.NewTopicMessageQuery().
		SetTopicID(topicID).
		SetStartTime(startTime).
		SetErrorHandler(func(stat status.Status) {
			onError(fmt.Errorf("registry topic subscription failed: %w", stat.Err()))
		}).
		SetCompletionHandler(func() {
			onError(ErrStreamEnded)
		}).
		Subscribe(c.hederaClient, func(message hedera.TopicMessage) {
			payer := ""
			if message.TransactionID != nil && message.TransactionID.AccountID != nil {
				payer = message.TransactionID.AccountID.String()
			}
			onMessage(streamMessage{
				SequenceNumber:     int64(message.SequenceNumber),
				ConsensusTimestamp: message.ConsensusTimestamp,
				PayerAccountID:     payer,
				Contents:           message.Contents,
			})
		})
	if err != nil {
		return nil, err
	}
	return handle.Unsubscribe, nil
}

// WatchValue reports the current stored hex for one claim, then every
// change carried by later registry messages. The watch ends when ctx is
// done or the returned subscription is closed. A failed or finished stream
// is reported to handler once with a non-nil error and ends the watch.
func (c *Client) WatchValue(
	ctx context.Context,
	holder string,
	issuer string,
	topicHex string,
	handler attestation.ValueHandler,
) (attestation.Subscription, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler is required")
	}
	if err := c.requireRegistry(); err != nil {
		return nil, err
	}
	topicID, err := hedera.TopicIDFromString(c.registryTopicID)
	if err != nil {
		return nil, fmt.Errorf("invalid registry topic ID: %w", err)
	}

	state, err := c.GetState(ctx)
	if err != nil {
		return nil, err
	}
	startTime := time.Unix(0, 0)
	if lastTimestamp := state.LastTimestamp(); lastTimestamp != "" {
		parsed, err := mirror.ParseConsensusTimestamp(lastTimestamp)
		if err != nil {
			return nil, err
		}
		startTime = parsed.Add(time.Nanosecond)
	}

	watch := &valueWatch{
		state:    state,
		holder:   strings.TrimSpace(holder),
		issuer:   strings.TrimSpace(issuer),
		topicHex: strings.ToLower(strings.TrimSpace(topicHex)),
		handler:  handler,
		done:     make(chan struct{}),
		logger:   c.logger,
	}
	initial := state.Value(watch.holder, watch.issuer, watch.topicHex)
	watch.last = initial

	// Stream deliveries wait on emitMu until the initial value is out.
	watch.emitMu.Lock()
	cancel, err := c.subscribe(topicID, startTime, watch.receive, watch.fail)
	if err != nil {
		watch.emitMu.Unlock()
		return nil, fmt.Errorf("failed to subscribe to registry topic: %w", err)
	}
	if !watch.attach(cancel) {
		watch.emitMu.Unlock()
		return watch, nil
	}
	handler(initial, nil)
	watch.emitMu.Unlock()

	c.logger.Debug("watching registry value",
		zap.String("topic_id", c.registryTopicID),
		zap.String("holder", watch.holder),
		zap.String("issuer", watch.issuer),
		zap.String("topic", watch.topicHex),
		zap.Int64("from_sequence", state.LastSequence()),
	)

	go func() {
		select {
		case <-ctx.Done():
			watch.Unsubscribe()
		case <-watch.done:
		}
	}()
	return watch, nil
}

type valueWatch struct {
	mu       sync.Mutex
	emitMu   sync.Mutex
	state    *State
	holder   string
	issuer   string
	topicHex string
	last     string
	handler  attestation.ValueHandler
	cancel   func()
	once     sync.Once
	done     chan struct{}
	logger   *zap.Logger
}

func (w *valueWatch) receive(message streamMessage) {
	decoded, err := DecodeMessage(message.Contents)
	if err != nil {
		w.logger.Debug("skipping undecodable registry message",
			zap.Int64("sequence_number", message.SequenceNumber),
			zap.Error(err),
		)
		return
	}

	w.emitMu.Lock()
	defer w.emitMu.Unlock()

	w.mu.Lock()
	select {
	case <-w.done:
		w.mu.Unlock()
		return
	default:
	}
	timestamp := fmt.Sprintf("%d.%09d", message.ConsensusTimestamp.Unix(), message.ConsensusTimestamp.Nanosecond())
	if !w.state.Apply(message.SequenceNumber, timestamp, message.PayerAccountID, decoded) {
		w.mu.Unlock()
		return
	}
	value := w.state.Value(w.holder, w.issuer, w.topicHex)
	changed := value != w.last
	w.last = value
	w.mu.Unlock()

	if changed {
		w.handler(value, nil)
	}
}

func (w *valueWatch) fail(err error) {
	if !w.stop() {
		return
	}
	w.logger.Warn("registry watch stopped",
		zap.String("holder", w.holder),
		zap.String("issuer", w.issuer),
		zap.String("topic", w.topicHex),
		zap.Error(err),
	)
	w.emitMu.Lock()
	defer w.emitMu.Unlock()
	w.handler("", err)
}

// attach records the subscription cancel func, calling it straight away
// when the watch was closed while subscribing.
func (w *valueWatch) attach(cancel func()) bool {
	w.mu.Lock()
	select {
	case <-w.done:
		w.mu.Unlock()
		cancel()
		return false
	default:
	}
	w.cancel = cancel
	w.mu.Unlock()
	return true
}

// Unsubscribe stops the live subscription. It is safe to call more than
// once.
func (w *valueWatch) Unsubscribe() {
	w.stop()
}

// stop reports whether this call ended the watch.
func (w *valueWatch) stop() bool {
	stopped := false
	w.once.Do(func() {
		stopped = true
		w.mu.Lock()
		close(w.done)
		cancel := w.cancel
		w.mu.Unlock()
		if cancel != nil {
			cancel()
		}
	})
	return stopped
}
