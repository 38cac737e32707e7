package claimregistry

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hashgraph-online/attestation-sdk-go/pkg/attestation"
	"github.com/hashgraph-online/attestation-sdk-go/pkg/mirror"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

const (
	testOperatorKey = "302e020100300506032b6570042204200f1fd57ad073188fc1a3f0c174f2f7ce5eb58f3d82405463e99e36fcff7bcac6"
	testRegistryID  = "0.0.5005"
	testHolder      = "0.0.2002"
	testIssuer      = "0.0.3003"
	testOtherIssuer = "0.0.3004"
	testTopicKYCHex = "0x6b7963"
	testTopicAMLHex = "0x616d6c"
)

var testFullWidthHex = "0x" + strings.Repeat("0", 62) + "ab"

func encodedMessage(t *testing.T, message Message, compress bool) string {
	t.Helper()
	payload, err := EncodeMessage(message, compress)
	if err != nil {
		t.Fatalf("EncodeMessage failed: %v", err)
	}
	return base64.StdEncoding.EncodeToString(payload)
}

func newMirrorServer(t *testing.T, messages []mirror.TopicMessage) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		switch request.URL.Path {
		case "/api/v1/topics/" + testRegistryID:
			_ = json.NewEncoder(writer).Encode(mirror.TopicInfo{
				TopicID: testRegistryID,
				Memo:    BuildTopicMemo(7200),
			})
		case "/api/v1/topics/" + testRegistryID + "/messages":
			if request.URL.Query().Get("order") != "asc" {
				t.Errorf("expected ascending order, got %q", request.URL.Query().Get("order"))
			}
			_ = json.NewEncoder(writer).Encode(map[string]any{
				"messages": messages,
				"links":    map[string]any{"next": nil},
			})
		default:
			http.NotFound(writer, request)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, mirrorURL string, registryTopicID string) *Client {
	t.Helper()
	client, err := NewClient(ClientConfig{
		OperatorAccountID:  testIssuer,
		OperatorPrivateKey: testOperatorKey,
		Network:            "testnet",
		RegistryTopicID:    registryTopicID,
		MirrorBaseURL:      mirrorURL,
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func registryHistory(t *testing.T) []mirror.TopicMessage {
	t.Helper()
	return []mirror.TopicMessage{
		{
			SequenceNumber:     1,
			ConsensusTimestamp: "1700000000.000000001",
			PayerAccountID:     testIssuer,
			Message:            encodedMessage(t, NewSetMessage(testHolder, testTopicKYCHex, "0xAB"), false),
		},
		{
			SequenceNumber:     2,
			ConsensusTimestamp: "1700000000.000000002",
			PayerAccountID:     testOtherIssuer,
			Message:            encodedMessage(t, NewSetMessage(testHolder, testTopicKYCHex, "0x01"), true),
		},
		{
			SequenceNumber:     3,
			ConsensusTimestamp: "1700000000.000000003",
			PayerAccountID:     testIssuer,
			Message:            base64.StdEncoding.EncodeToString([]byte("not a registry message")),
		},
		{
			SequenceNumber:     4,
			ConsensusTimestamp: "1700000000.000000004",
			PayerAccountID:     testIssuer,
			ChunkInfo:          &mirror.ChunkInfo{Number: 1, Total: 2},
			Message:            encodedMessage(t, NewRemoveMessage(testHolder, testTopicKYCHex), false),
		},
		{
			SequenceNumber:     5,
			ConsensusTimestamp: "1700000000.000000005",
			PayerAccountID:     testOtherIssuer,
			Message:            encodedMessage(t, NewRemoveMessage(testHolder, testTopicKYCHex), false),
		},
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(ClientConfig{OperatorPrivateKey: testOperatorKey, Network: "testnet"}); err == nil {
		t.Fatalf("expected error for missing operator account ID")
	}
	if _, err := NewClient(ClientConfig{
		OperatorAccountID:  testIssuer,
		OperatorPrivateKey: testOperatorKey,
		Network:            "previewnet",
	}); err == nil {
		t.Fatalf("expected error for unsupported network")
	}
	if _, err := NewClient(ClientConfig{
		OperatorAccountID:  testIssuer,
		OperatorPrivateKey: testOperatorKey,
		RegistryTopicID:    "registry",
	}); err == nil {
		t.Fatalf("expected error for invalid registry topic ID")
	}
	if _, err := NewClient(ClientConfig{
		OperatorAccountID:  testIssuer,
		OperatorPrivateKey: testOperatorKey,
		SubmitKey:          "not-a-key",
	}); err == nil {
		t.Fatalf("expected error for invalid submit key")
	}
}

func TestClientRequiresRegistry(t *testing.T) {
	client := newTestClient(t, "https://mirror.invalid", "")
	ctx := context.Background()

	if _, err := client.SetClaim(ctx, testHolder, testTopicKYCHex, "0x01"); err == nil {
		t.Fatalf("expected SetClaim without registry to fail")
	}
	if _, err := client.GetValue(ctx, testHolder, testIssuer, testTopicKYCHex); err == nil {
		t.Fatalf("expected GetValue without registry to fail")
	}
	if _, err := client.WatchValue(ctx, testHolder, testIssuer, testTopicKYCHex, func(string, error) {}); err == nil {
		t.Fatalf("expected WatchValue without registry to fail")
	}

	bound, err := client.WithRegistry(testRegistryID)
	if err != nil {
		t.Fatalf("WithRegistry failed: %v", err)
	}
	if bound.RegistryTopicID() != testRegistryID || client.RegistryTopicID() != "" {
		t.Fatalf("WithRegistry must return a bound copy")
	}
	if _, err := client.WithRegistry("nope"); err == nil {
		t.Fatalf("expected invalid registry topic to fail")
	}
}

func TestClientRejectsInvalidWritesBeforeSubmitting(t *testing.T) {
	client := newTestClient(t, "https://mirror.invalid", testRegistryID)
	ctx := context.Background()

	if _, err := client.SetClaim(ctx, "alice", testTopicKYCHex, "0x01"); err == nil {
		t.Fatalf("expected non account holder to fail")
	}
	if _, err := client.SetSelfClaim(ctx, testTopicKYCHex, "0x"); err == nil {
		t.Fatalf("expected empty value to fail")
	}
	if _, err := client.CreateRegistry(ctx, CreateRegistryOptions{TTL: 60}); err == nil {
		t.Fatalf("expected short TTL to fail")
	}
	if _, err := client.CreateRegistry(ctx, CreateRegistryOptions{AdminKey: "bad"}); err == nil {
		t.Fatalf("expected invalid admin key to fail")
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := client.RemoveClaim(canceled, testHolder, testTopicKYCHex); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled context error, got %v", err)
	}
}

func TestBuildSetClaimTx(t *testing.T) {
	client := newTestClient(t, "https://mirror.invalid", testRegistryID)
	transaction, err := client.BuildSetClaimTx(testHolder, testTopicKYCHex, "0x01")
	if err != nil {
		t.Fatalf("BuildSetClaimTx failed: %v", err)
	}
	if transaction.GetTopicID().String() != testRegistryID {
		t.Fatalf("unexpected topic ID %s", transaction.GetTopicID().String())
	}
	if client.OperatorAccountID() != testIssuer {
		t.Fatalf("unexpected operator %s", client.OperatorAccountID())
	}
}

func TestGetStateFromMirror(t *testing.T) {
	server := newMirrorServer(t, registryHistory(t))
	client := newTestClient(t, server.URL, testRegistryID)
	ctx := context.Background()

	state, err := client.GetState(ctx)
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	if state.LastSequence() != 5 {
		t.Fatalf("expected cursor at sequence 5, got %d", state.LastSequence())
	}

	value, err := client.GetValue(ctx, testHolder, testIssuer, testTopicKYCHex)
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if value != testFullWidthHex {
		t.Fatalf("unexpected value %s", value)
	}

	removed, err := client.GetValue(ctx, testHolder, testOtherIssuer, testTopicKYCHex)
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if removed != EmptyValue {
		t.Fatalf("expected removed claim to be empty, got %s", removed)
	}

	values, err := client.GetValues(ctx, testHolder, []attestation.ClaimKey{
		{Issuer: testIssuer, TopicHex: testTopicKYCHex},
		{Issuer: testIssuer, TopicHex: testTopicAMLHex},
	})
	if err != nil {
		t.Fatalf("GetValues failed: %v", err)
	}
	if diff := cmp.Diff([]string{testFullWidthHex, EmptyValue}, values); diff != "" {
		t.Fatalf("GetValues mismatch (-want +got):\n%s", diff)
	}

	records, err := client.GetHolderClaims(ctx, testHolder)
	if err != nil {
		t.Fatalf("GetHolderClaims failed: %v", err)
	}
	if len(records) != 1 || records[0].Issuer != testIssuer || records[0].SequenceNumber != 1 {
		t.Fatalf("unexpected holder claims: %+v", records)
	}
}

func TestStateCache(t *testing.T) {
	history := registryHistory(t)
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requests.Add(1)
		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(map[string]any{"messages": history})
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{
		OperatorAccountID:  testIssuer,
		OperatorPrivateKey: testOperatorKey,
		RegistryTopicID:    testRegistryID,
		MirrorBaseURL:      server.URL,
		StateCacheTTL:      time.Minute,
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	ctx := context.Background()
	for attempt := 0; attempt < 3; attempt++ {
		value, err := client.GetValue(ctx, testHolder, testIssuer, testTopicKYCHex)
		if err != nil {
			t.Fatalf("GetValue failed: %v", err)
		}
		if value != testFullWidthHex {
			t.Fatalf("unexpected cached value %s", value)
		}
	}
	if _, err := client.GetHolderClaims(ctx, testHolder); err != nil {
		t.Fatalf("GetHolderClaims failed: %v", err)
	}
	if got := requests.Load(); got != 1 {
		t.Fatalf("expected one mirror read with caching, got %d", got)
	}

	if _, err := client.GetState(ctx); err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	if got := requests.Load(); got != 2 {
		t.Fatalf("GetState must always read the mirror, got %d requests", got)
	}

	if _, err := NewClient(ClientConfig{
		OperatorAccountID:  testIssuer,
		OperatorPrivateKey: testOperatorKey,
		StateCacheTTL:      -time.Second,
	}); err == nil {
		t.Fatalf("expected negative cache TTL to fail")
	}
}

func TestStateCacheWaitsForOwnWrite(t *testing.T) {
	var (
		mu      sync.Mutex
		history = registryHistory(t)
	)
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requests.Add(1)
		mu.Lock()
		messages := append([]mirror.TopicMessage(nil), history...)
		mu.Unlock()
		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(map[string]any{"messages": messages})
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{
		OperatorAccountID:  testIssuer,
		OperatorPrivateKey: testOperatorKey,
		RegistryTopicID:    testRegistryID,
		MirrorBaseURL:      server.URL,
		StateCacheTTL:      time.Minute,
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	ctx := context.Background()
	if _, err := client.GetValue(ctx, testHolder, testIssuer, testTopicKYCHex); err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}

	client.recordWrite(6)
	client.recordWrite(2)
	for attempt := 0; attempt < 2; attempt++ {
		value, err := client.GetValue(ctx, testHolder, testIssuer, testTopicKYCHex)
		if err != nil {
			t.Fatalf("GetValue failed: %v", err)
		}
		if value != testFullWidthHex {
			t.Fatalf("unexpected value before the mirror caught up: %s", value)
		}
	}
	if got := requests.Load(); got != 3 {
		t.Fatalf("expected lagging replays to skip the cache, got %d requests", got)
	}

	mu.Lock()
	history = append(history, mirror.TopicMessage{
		SequenceNumber:     6,
		ConsensusTimestamp: "1700000000.000000006",
		PayerAccountID:     testIssuer,
		Message:            encodedMessage(t, NewSetMessage(testHolder, testTopicKYCHex, "0xCD"), false),
	})
	mu.Unlock()

	want := "0x" + strings.Repeat("0", 62) + "cd"
	for attempt := 0; attempt < 2; attempt++ {
		value, err := client.GetValue(ctx, testHolder, testIssuer, testTopicKYCHex)
		if err != nil {
			t.Fatalf("GetValue failed: %v", err)
		}
		if value != want {
			t.Fatalf("expected own write to be visible, got %s", value)
		}
	}
	if got := requests.Load(); got != 4 {
		t.Fatalf("expected the caught-up replay to be cached, got %d requests", got)
	}
}

func TestGetRegistryInfo(t *testing.T) {
	server := newMirrorServer(t, nil)
	client := newTestClient(t, server.URL, testRegistryID)

	memo, err := client.GetRegistryInfo(context.Background())
	if err != nil {
		t.Fatalf("GetRegistryInfo failed: %v", err)
	}
	if memo.TTL != 7200 {
		t.Fatalf("unexpected TTL %d", memo.TTL)
	}

	other, err := client.WithRegistry("0.0.9999")
	if err != nil {
		t.Fatalf("WithRegistry failed: %v", err)
	}
	if _, err := other.GetRegistryInfo(context.Background()); err == nil {
		t.Fatalf("expected unknown topic to fail")
	}
}

func TestAttestationClientOverRegistry(t *testing.T) {
	server := newMirrorServer(t, registryHistory(t))
	registry := newTestClient(t, server.URL, testRegistryID)

	client, err := attestation.NewClient(attestation.ClientConfig{Ledger: registry})
	if err != nil {
		t.Fatalf("failed to create attestation client: %v", err)
	}

	view, err := client.GetClaims(context.Background(), testHolder, []string{testIssuer, testOtherIssuer}, []string{"kyc", "aml"})
	if err != nil {
		t.Fatalf("GetClaims failed: %v", err)
	}
	want := attestation.ClaimsAsHex{
		"kyc": {testIssuer: "0xab", testOtherIssuer: "0x"},
		"aml": {testIssuer: "0x", testOtherIssuer: "0x"},
	}
	if diff := cmp.Diff(want, view.AsHex()); diff != "" {
		t.Fatalf("claims mismatch (-want +got):\n%s", diff)
	}
}

type fakeStream struct {
	mu           sync.Mutex
	topicID      hedera.TopicID
	startTime    time.Time
	onMessage    func(streamMessage)
	onError      func(error)
	canceled     int
	subscribeErr error
}

func (s *fakeStream) subscribe(
	topicID hedera.TopicID,
	startTime time.Time,
	onMessage func(streamMessage),
	onError func(error),
) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subscribeErr != nil {
		return nil, s.subscribeErr
	}
	s.topicID = topicID
	s.startTime = startTime
	s.onMessage = onMessage
	s.onError = onError
	return func() {
		s.mu.Lock()
		s.canceled++
		s.mu.Unlock()
	}, nil
}

func (s *fakeStream) fail(err error) {
	s.mu.Lock()
	onError := s.onError
	s.mu.Unlock()
	onError(err)
}

func (s *fakeStream) push(t *testing.T, sequence int64, payer string, message Message) {
	t.Helper()
	payload, err := EncodeMessage(message, false)
	if err != nil {
		t.Fatalf("EncodeMessage failed: %v", err)
	}
	s.onMessage(streamMessage{
		SequenceNumber:     sequence,
		ConsensusTimestamp: time.Unix(1700000001, int64(sequence)),
		PayerAccountID:     payer,
		Contents:           payload,
	})
}

func TestWatchValue(t *testing.T) {
	server := newMirrorServer(t, registryHistory(t))
	client := newTestClient(t, server.URL, testRegistryID)
	stream := &fakeStream{}
	client.subscribe = stream.subscribe

	var received []string
	subscription, err := client.WatchValue(context.Background(), testHolder, testIssuer, testTopicKYCHex, func(storedHex string, err error) {
		if err != nil {
			t.Errorf("unexpected watch error: %v", err)
			return
		}
		received = append(received, storedHex)
	})
	if err != nil {
		t.Fatalf("WatchValue failed: %v", err)
	}

	if stream.topicID.String() != testRegistryID {
		t.Fatalf("unexpected subscribed topic %s", stream.topicID.String())
	}
	wantStart := time.Unix(1700000000, 6).UTC()
	if !stream.startTime.Equal(wantStart) {
		t.Fatalf("expected subscription to start after the replayed history, got %s", stream.startTime)
	}

	stream.push(t, 5, testIssuer, NewSetMessage(testHolder, testTopicKYCHex, "0xFF"))
	stream.push(t, 6, testOtherIssuer, NewSetMessage(testHolder, testTopicKYCHex, "0x02"))
	stream.push(t, 7, testIssuer, NewSetMessage(testHolder, testTopicKYCHex, "0xcd"))
	stream.push(t, 8, testIssuer, NewSetMessage(testHolder, testTopicKYCHex, "0xCD"))
	stream.push(t, 9, testIssuer, NewRemoveMessage(testHolder, testTopicKYCHex))

	subscription.Unsubscribe()
	subscription.Unsubscribe()
	stream.push(t, 10, testIssuer, NewSetMessage(testHolder, testTopicKYCHex, "0x01"))

	want := []string{
		testFullWidthHex,
		"0x" + strings.Repeat("0", 62) + "cd",
		EmptyValue,
	}
	if diff := cmp.Diff(want, received); diff != "" {
		t.Fatalf("watched values mismatch (-want +got):\n%s", diff)
	}
	if stream.canceled != 1 {
		t.Fatalf("expected one cancel, got %d", stream.canceled)
	}
}

func TestWatchValueStopsWithContext(t *testing.T) {
	server := newMirrorServer(t, nil)
	client := newTestClient(t, server.URL, testRegistryID)
	stream := &fakeStream{}
	client.subscribe = stream.subscribe

	ctx, cancel := context.WithCancel(context.Background())
	var initial string
	if _, err := client.WatchValue(ctx, testHolder, testIssuer, testTopicKYCHex, func(storedHex string, err error) {
		initial = storedHex
	}); err != nil {
		t.Fatalf("WatchValue failed: %v", err)
	}
	if initial != EmptyValue {
		t.Fatalf("expected empty initial value, got %s", initial)
	}
	if !stream.startTime.Equal(time.Unix(0, 0)) {
		t.Fatalf("expected subscription from the epoch for an empty registry, got %s", stream.startTime)
	}

	cancel()
	deadline := time.Now().Add(2 * time.Second)
	for {
		stream.mu.Lock()
		canceled := stream.canceled
		stream.mu.Unlock()
		if canceled == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected context cancellation to close the subscription")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestAttestationWatchClaimsOverRegistry(t *testing.T) {
	server := newMirrorServer(t, registryHistory(t))
	registry := newTestClient(t, server.URL, testRegistryID)
	stream := &fakeStream{}
	registry.subscribe = stream.subscribe

	client, err := attestation.NewClient(attestation.ClientConfig{Ledger: registry})
	if err != nil {
		t.Fatalf("failed to create attestation client: %v", err)
	}

	var views []attestation.ClaimsAsHex
	subscription, err := client.WatchClaims(context.Background(), testHolder, []string{testIssuer}, []string{"kyc"}, func(view attestation.ClaimsView, err error) {
		if err != nil {
			t.Errorf("unexpected watch error: %v", err)
			return
		}
		views = append(views, view.AsHex())
	})
	if err != nil {
		t.Fatalf("WatchClaims failed: %v", err)
	}
	defer subscription.Unsubscribe()

	stream.push(t, 6, testIssuer, NewSetMessage(testHolder, testTopicKYCHex, "0x0100"))

	want := []attestation.ClaimsAsHex{
		{"kyc": {testIssuer: "0xab"}},
		{"kyc": {testIssuer: "0x100"}},
	}
	if diff := cmp.Diff(want, views); diff != "" {
		t.Fatalf("watched views mismatch (-want +got):\n%s", diff)
	}
}

func TestWatchValueStreamFailure(t *testing.T) {
	server := newMirrorServer(t, registryHistory(t))
	client := newTestClient(t, server.URL, testRegistryID)
	stream := &fakeStream{}
	client.subscribe = stream.subscribe

	var (
		received []string
		failures []error
	)
	if _, err := client.WatchValue(context.Background(), testHolder, testIssuer, testTopicKYCHex, func(storedHex string, err error) {
		if err != nil {
			failures = append(failures, err)
			return
		}
		received = append(received, storedHex)
	}); err != nil {
		t.Fatalf("WatchValue failed: %v", err)
	}

	stream.fail(ErrStreamEnded)
	stream.fail(errors.New("unavailable"))
	stream.push(t, 6, testIssuer, NewSetMessage(testHolder, testTopicKYCHex, "0x01"))

	if diff := cmp.Diff([]string{testFullWidthHex}, received); diff != "" {
		t.Fatalf("watched values mismatch (-want +got):\n%s", diff)
	}
	if len(failures) != 1 || !errors.Is(failures[0], ErrStreamEnded) {
		t.Fatalf("expected a single stream-ended failure, got %v", failures)
	}
	if stream.canceled != 1 {
		t.Fatalf("expected the stream to be canceled once, got %d", stream.canceled)
	}
}

func TestWatchValueSubscribeFailureEmitsNothing(t *testing.T) {
	server := newMirrorServer(t, registryHistory(t))
	client := newTestClient(t, server.URL, testRegistryID)
	subscribeErr := errors.New("mirror unavailable")
	stream := &fakeStream{subscribeErr: subscribeErr}
	client.subscribe = stream.subscribe

	calls := 0
	_, err := client.WatchValue(context.Background(), testHolder, testIssuer, testTopicKYCHex, func(string, error) {
		calls++
	})
	if !errors.Is(err, subscribeErr) {
		t.Fatalf("expected subscribe error, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no values before a failed subscribe, got %d", calls)
	}

	attestationClient, err := attestation.NewClient(attestation.ClientConfig{Ledger: client})
	if err != nil {
		t.Fatalf("failed to create attestation client: %v", err)
	}
	views := 0
	_, err = attestationClient.WatchClaims(context.Background(), testHolder, []string{testIssuer}, []string{"kyc"}, func(attestation.ClaimsView, error) {
		views++
	})
	if !errors.Is(err, subscribeErr) || !errors.Is(err, attestation.ErrLookup) {
		t.Fatalf("expected lookup error wrapping the subscribe error, got %v", err)
	}
	if views != 0 {
		t.Fatalf("expected no views from a failed WatchClaims, got %d", views)
	}
}

func TestAttestationWatchClaimsStreamFailure(t *testing.T) {
	server := newMirrorServer(t, registryHistory(t))
	registry := newTestClient(t, server.URL, testRegistryID)
	stream := &fakeStream{}
	registry.subscribe = stream.subscribe

	client, err := attestation.NewClient(attestation.ClientConfig{Ledger: registry})
	if err != nil {
		t.Fatalf("failed to create attestation client: %v", err)
	}

	var failures []error
	if _, err := client.WatchClaims(context.Background(), testHolder, []string{testIssuer}, []string{"kyc"}, func(view attestation.ClaimsView, err error) {
		if err != nil {
			failures = append(failures, err)
		}
	}); err != nil {
		t.Fatalf("WatchClaims failed: %v", err)
	}

	stream.fail(ErrStreamEnded)

	if len(failures) != 1 {
		t.Fatalf("expected one failure, got %d", len(failures))
	}
	if !errors.Is(failures[0], ErrStreamEnded) || !errors.Is(failures[0], attestation.ErrLookup) {
		t.Fatalf("unexpected failure: %v", failures[0])
	}
	if stream.canceled != 1 {
		t.Fatalf("expected the stream to be canceled once, got %d", stream.canceled)
	}
}
