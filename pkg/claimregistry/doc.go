// Package claimregistry stores attestation claims on a Hedera Consensus
// Service topic. Every claim write is a JSON message submitted to the
// registry topic; the account that pays for the message is the claim's
// issuer. Reads replay the topic history from the mirror node and fold it
// into the current claim state, and watches follow new messages through
// the mirror node's streaming API.
//
// A Client implements attestation.Ledger, attestation.Watcher and
// attestation.BatchReader, so it can be passed straight to
// attestation.NewClient.
//
// # Message Format
//
//	{"p":"attestation","op":"set","holder":"0.0.1234","topic":"0x70617373706f7274","value":"0x01"}
//	{"p":"attestation","op":"remove","holder":"0.0.1234","topic":"0x70617373706f7274"}
//
// Messages may also be wrapped as {"c":"data:application/json;base64,..."}
// with brotli-compressed content.
//
// # SDK Documentation
//
// SDK documentation and guides: https://hol.org/docs/libraries/standards-sdk/
package claimregistry
