package node

import (
	"context"

	"go-p2pgo/channel"
)

// RelayMode selects how the node reaches peers behind NATs (spec.md
// §4.F "Relay configuration").
type RelayMode uint8

const (
	RelayDefault RelayMode = iota
	RelayCustom
	RelaySelf
)

// RelayStats is a read-only per-relay health snapshot exposed to the UI
// collaborator (spec.md §4.F, §4.D "Relay statistics").
type RelayStats struct {
	Address       string
	ConnectAttempts int
	ConnectFailures int
	LastLatencyMS   int64
	Healthy         bool
}

// Topic is a bounded receiver of raw gossip payloads published under
// one topic string.
type Topic interface {
	// Publish broadcasts payload to every peer in the topic's mesh.
	// Implementations must enforce the spec.md §6 1KB ceiling on move
	// records at the caller's layer (BroadcastMove), not here.
	Publish(ctx context.Context, payload []byte) error
	// Receive returns the next inbound payload on this topic. Bounded
	// to 256 slots per spec.md §4.F; producers drop and warn on
	// overflow rather than blocking.
	Receive(ctx context.Context) ([]byte, error)
	Close() error
}

// Endpoint is the node-wide transport surface spec.md §4.F describes:
// identity, ticket issuance, direct connection establishment, topic
// subscription, and inbound-connection acceptance.
type Endpoint interface {
	Identity() Identity
	Ticket(gameSize *uint8) (string, error)
	ConnectByTicket(ctx context.Context, ticket string) (channel.PeerConn, error)
	SubscribeLobby(ctx context.Context, boardSize int) (Topic, error)
	SubscribeGameTopic(ctx context.Context, gameID string, bufferSize int) (Topic, error)
	BroadcastToTopic(ctx context.Context, topicID string, payload []byte) error
	AcceptConnection(ctx context.Context) (channel.PeerConn, error)
	RelayStatistics() []RelayStats
	Close() error
}

// GossipTransport implements channel.Transport by publishing a move
// record as CBOR on the per-game gossip topic and returning the record.
// It keeps the BroadcastHash the chain already set, and derives one from
// the CBOR bytes it sent only when the record arrives without one.
type GossipTransport struct {
	Endpoint Endpoint
}

var _ channel.Transport = GossipTransport{}
