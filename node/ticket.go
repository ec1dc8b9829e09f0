package node

import (
	"encoding/base64"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// TicketVersion is the current Enhanced Ticket wire format. Higher
// versions found on decode must be rejected (spec.md §6).
const TicketVersion = 1

// NodeAddress is the reachable-address portion of a ticket: direct
// dial addresses plus any relay addresses currently in use.
type NodeAddress struct {
	NodeID  string   `cbor:"node_id"`
	Direct  []string `cbor:"direct"`
	Relays  []string `cbor:"relays,omitempty"`
}

// EnhancedTicket is the full ticket payload (spec.md §6): a node
// address, an optional document/namespace id, an optional capability
// string, an optional board-size hint, and a version byte.
type EnhancedTicket struct {
	Node     NodeAddress `cbor:"node"`
	Doc      string      `cbor:"doc,omitempty"`
	Cap      string      `cbor:"cap,omitempty"`
	GameSize *uint8      `cbor:"game_size,omitempty"`
	Version  uint8       `cbor:"version"`
}

// Encode renders t as the base64(standard)-encoded CBOR ticket string
// peers exchange out of band.
func (t EnhancedTicket) Encode() (string, error) {
	t.Version = TicketVersion
	raw, err := cbor.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("node: encode ticket: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeTicket parses a ticket string produced by Encode, rejecting
// any version newer than this implementation understands.
func DecodeTicket(s string) (EnhancedTicket, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return EnhancedTicket{}, fmt.Errorf("node: ticket is not valid base64: %w", err)
	}
	var t EnhancedTicket
	if err := cbor.Unmarshal(raw, &t); err != nil {
		return EnhancedTicket{}, fmt.Errorf("node: ticket is not valid CBOR: %w", err)
	}
	if t.Version > TicketVersion {
		return EnhancedTicket{}, fmt.Errorf("node: ticket version %d is newer than this build understands (max %d)", t.Version, TicketVersion)
	}
	return t, nil
}
