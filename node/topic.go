package node

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"go-p2pgo/chain"
)

const maxBroadcastRecordBytes = 1024

// TopicID derives a stable topic identifier by hashing name, per
// spec.md §6 ("Topic IDs... derived by hashing these strings with a
// cryptographic hash").
func TopicID(name string) string {
	sum := sha256.Sum256([]byte(name))
	return hex.EncodeToString(sum[:])
}

// LobbyTopicName and GameTopicName build the canonical pre-hash topic
// strings spec.md §6 specifies.
func LobbyTopicName(boardSize int) string { return fmt.Sprintf("p2pgo.lobby.%d", boardSize) }
func GameTopicName(gameID string) string  { return fmt.Sprintf("p2pgo.game.%s", gameID) }

// BroadcastMove publishes rec as CBOR on the game's topic (spec.md §6
// "Gossip payloads... Game: CBOR-encoded MoveRecord; <=1 KB"). The
// chain package already fills BroadcastHash from the canonical signing
// payload per spec.md §4.B step 3 before a record ever reaches here;
// BroadcastMove only derives one itself as a fallback for a record
// that somehow arrives with it unset, so that re-hashing the
// CBOR-with-signature bytes here never disagrees with the hash the
// originating chain already committed to its own log (a later
// prev_hash check would otherwise fail against the sender's own
// chain).
func (g GossipTransport) BroadcastMove(gameID string, rec chain.MoveRecord) (chain.MoveRecord, error) {
	raw, err := cbor.Marshal(rec)
	if err != nil {
		return rec, fmt.Errorf("node: encode move record: %w", err)
	}
	if len(raw) > maxBroadcastRecordBytes {
		return rec, fmt.Errorf("node: move record is %d bytes, exceeds the %d byte broadcast ceiling", len(raw), maxBroadcastRecordBytes)
	}
	if err := g.Endpoint.BroadcastToTopic(context.Background(), TopicID(GameTopicName(gameID)), raw); err != nil {
		return rec, fmt.Errorf("node: broadcast move: %w", err)
	}
	if rec.BroadcastHash == "" {
		sum := sha256.Sum256(raw)
		rec.BroadcastHash = hex.EncodeToString(sum[:])
	}
	return rec, nil
}
