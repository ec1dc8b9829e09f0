package channel

import "go-p2pgo/chain"

// PeerConn is a single direct, bidirectional connection to one peer, as
// produced by node.ConnectByTicket or node.AcceptConnection (spec.md
// §4.F). The channel owns the connections it uses; node demultiplexes
// inbound streams and hands them off.
type PeerConn interface {
	Send(Envelope) error
	// Recv blocks for the next inbound envelope; returns an error (e.g.
	// io.EOF) when the connection is closed.
	Recv() (Envelope, error)
	Close() error
	RemoteID() string
}

// Transport is the subset of the node context (spec.md §4.F) a
// GameChannel needs: broadcasting a signed move record to the per-game
// gossip topic. Records are signed before they reach the Transport, by
// the chain with the channel's configured keypair.
type Transport interface {
	BroadcastMove(gameID string, rec chain.MoveRecord) (chain.MoveRecord, error)
}
