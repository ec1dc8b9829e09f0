package channel

import "go-p2pgo/chain"

// WireKind tags which of the four direct peer-stream messages a framed
// payload carries (spec.md §4.D).
type WireKind uint8

const (
	WireMoveRecord WireKind = iota
	WireMoveAck
	WireSyncRequest
	WireSyncResponse
)

// MoveAck acknowledges a processed move at the given chain index.
type MoveAck struct {
	GameID    string `json:"game_id"`
	MoveIndex uint64 `json:"move_index"`
	Timestamp int64  `json:"timestamp"`
}

// SyncRequest asks the peer for a full state and move list.
type SyncRequest struct {
	GameID    string `json:"game_id"`
	Timestamp int64  `json:"timestamp"`
}

// SyncResponse is the responder's complete game view.
type SyncResponse struct {
	GameID    string             `json:"game_id"`
	Moves     []chain.MoveRecord `json:"moves"`
	Timestamp int64              `json:"timestamp"`
}

// Envelope wraps exactly one of the four wire messages for framing over
// a unidirectional, newline-terminated JSON stream (spec.md §4.D,
// §6 "Direct peer-stream messages").
type Envelope struct {
	Kind         WireKind          `json:"kind"`
	MoveRecord   *chain.MoveRecord `json:"move_record,omitempty"`
	MoveAck      *MoveAck          `json:"move_ack,omitempty"`
	SyncRequest  *SyncRequest      `json:"sync_request,omitempty"`
	SyncResponse *SyncResponse     `json:"sync_response,omitempty"`
}
