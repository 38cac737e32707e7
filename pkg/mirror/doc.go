// Package mirror is a small Hedera Mirror Node REST client used by the
// claim registry. It reads topic info and pages through topic message
// history, which the registry replays to rebuild claim state.
//
// # Hedera Mirror Node
//
// Learn more about Hedera: https://docs.hedera.com
package mirror
