// Package node implements spec.md §4.F, the Node Context: peer
// identity, ticket encode/decode, and the Endpoint/Topic/PeerConn
// interfaces the rest of the system is built against. The one concrete
// transport, node/localmesh, lives in its own subpackage so that
// channel, lobby, and the board/chain/scoring stack never import a
// transport implementation directly.
package node

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// Identity is a process's persistent ed25519 keypair, generated once
// and held for process lifetime per spec.md §5's shared-resource
// policy ("keypair is created once and held for process lifetime").
type Identity struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// NodeID returns the stable public identifier spec.md §4.F's
// node_id() operation promises: the hex encoding of the public key.
func (id Identity) NodeID() string {
	return hex.EncodeToString(id.Public)
}

// Sign and Verify implement spec.md §4.F's sign/verify operations.
func (id Identity) Sign(payload []byte) (signature, signer []byte) {
	return ed25519.Sign(id.Private, payload), append([]byte(nil), id.Public...)
}

func Verify(payload, signature, signer []byte) bool {
	if len(signer) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(signer), payload, signature)
}

// GenerateIdentity creates a fresh keypair.
func GenerateIdentity() (Identity, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return Identity{}, fmt.Errorf("node: generate keypair: %w", err)
	}
	return Identity{Public: pub, Private: priv}, nil
}

// LoadOrGenerateIdentity reads a raw ed25519 private key from path, or
// generates and persists a new one if the file is absent — "generated
// on first run" per spec.md §4.F.
func LoadOrGenerateIdentity(path string) (Identity, error) {
	raw, err := os.ReadFile(path)
	if err == nil {
		if len(raw) != ed25519.PrivateKeySize {
			return Identity{}, fmt.Errorf("node: identity file %s has the wrong size", path)
		}
		priv := ed25519.PrivateKey(raw)
		return Identity{Public: priv.Public().(ed25519.PublicKey), Private: priv}, nil
	}
	if !os.IsNotExist(err) {
		return Identity{}, fmt.Errorf("node: read identity: %w", err)
	}

	id, err := GenerateIdentity()
	if err != nil {
		return Identity{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return Identity{}, fmt.Errorf("node: create identity directory: %w", err)
	}
	if err := os.WriteFile(path, id.Private, 0o600); err != nil {
		return Identity{}, fmt.Errorf("node: persist identity: %w", err)
	}
	return id, nil
}
