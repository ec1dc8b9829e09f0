// Package chain implements spec.md §4.B: signed, hash-linked move
// records and the ordered log ("chain") of them for one game.
//
// Canonical serialization for signing/hashing uses encoding/json, the
// same wire framing the direct peer streams use (spec.md §6); gossip
// and snapshot payloads re-encode the resulting MoveRecord in CBOR at
// their own layer rather than here.
package chain

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"

	p2pgo "go-p2pgo"
)

// MoveRecord is one signed, hash-linked entry in a game's chain.
type MoveRecord struct {
	Move         p2pgo.Move `json:"move"`
	Sequence     uint64     `json:"sequence"`
	Timestamp    int64      `json:"timestamp"`
	TrainingTag  string     `json:"training_tag,omitempty"`
	PrevHash     string     `json:"prev_hash"`
	BroadcastHash string    `json:"broadcast_hash,omitempty"`
	Signature    []byte     `json:"signature,omitempty"`
	Signer       []byte     `json:"signer,omitempty"`
}

// signingPayload returns the JSON encoding of r with the signature,
// signer and broadcast-hash fields cleared: the exact bytes that are
// hashed into BroadcastHash and signed, so filling BroadcastHash in
// afterwards does not change what a verifier re-derives.
func (r MoveRecord) signingPayload() ([]byte, error) {
	stripped := r
	stripped.Signature = nil
	stripped.Signer = nil
	stripped.BroadcastHash = ""
	return json.Marshal(stripped)
}

func hashHex(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum)
}

// Verify reports whether r carries a valid signature for its signer.
// Unsigned records (no Signature, no Signer) are reported separately so
// callers can apply their own signature-required policy.
func (r MoveRecord) Verify() (signed bool, ok bool, err error) {
	if len(r.Signature) == 0 && len(r.Signer) == 0 {
		return false, false, nil
	}
	if len(r.Signer) != ed25519.PublicKeySize {
		return true, false, errors.New("chain: malformed signer key")
	}
	payload, err := r.signingPayload()
	if err != nil {
		return true, false, err
	}
	return true, ed25519.Verify(ed25519.PublicKey(r.Signer), payload, r.Signature), nil
}
