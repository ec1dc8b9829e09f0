package chain

import (
	"crypto/ed25519"
	"errors"

	p2pgo "go-p2pgo"
)

// Errors returned by chain append/ingest operations.
var (
	ErrSequenceMismatch = errors.New("chain: duplicate or non-monotonic sequence")
	ErrPrevHashMismatch = errors.New("chain: prev_hash does not match tail")
	ErrUnsigned         = errors.New("chain: record is unsigned and this chain requires signatures")
	ErrBadSignature     = errors.New("chain: invalid signature")
)

// MoveChain is the ordered, hash-linked log of MoveRecords for one game
// (spec.md §3 MoveChain, §4.B). A MoveChain has a single owner — the
// GameChannel goroutine in the channel package — and is not safe for
// concurrent use, matching the "chain exclusively owned by its channel"
// ownership rule of spec.md §3 Lifetimes & ownership.
type MoveChain struct {
	records []MoveRecord

	// RequireSignatures rejects unsigned inbound records when true (the
	// spec.md §4.B default). A deployment may flip this for backward
	// compatibility with unsigned peers.
	RequireSignatures bool
}

// New returns an empty chain with signature verification required, the
// default per spec.md §4.B.
func New() *MoveChain {
	return &MoveChain{RequireSignatures: true}
}

// Tail returns the most recently appended record, if any.
func (c *MoveChain) Tail() (MoveRecord, bool) {
	if len(c.records) == 0 {
		return MoveRecord{}, false
	}
	return c.records[len(c.records)-1], true
}

// Sequence returns the chain's current length, equal to the sequence
// number the next locally-produced record will receive.
func (c *MoveChain) Sequence() uint64 {
	return uint64(len(c.records))
}

// Records returns the full ordered sequence. Callers must not mutate
// the returned slice.
func (c *MoveChain) Records() []MoveRecord {
	return c.records
}

func (c *MoveChain) tailHash() (string, error) {
	tail, ok := c.Tail()
	if !ok {
		return "", nil
	}
	if tail.BroadcastHash != "" {
		return tail.BroadcastHash, nil
	}
	payload, err := tail.signingPayload()
	if err != nil {
		return "", err
	}
	return hashHex(payload), nil
}

// AppendLocal builds, signs, and appends a new record for move, per the
// spec.md §4.B append contract: compute prev_hash from the tail,
// assign the next sequence, hash the unsigned payload into
// BroadcastHash, then sign. priv may be nil to produce an unsigned
// record (e.g. in a deployment that opts out of signing).
func (c *MoveChain) AppendLocal(move p2pgo.Move, trainingTag string, priv ed25519.PrivateKey, pub ed25519.PublicKey, nowUnix int64) (MoveRecord, error) {
	prevHash, err := c.tailHash()
	if err != nil {
		return MoveRecord{}, err
	}

	rec := MoveRecord{
		Move:        move,
		Sequence:    c.Sequence(),
		Timestamp:   nowUnix,
		TrainingTag: trainingTag,
		PrevHash:    prevHash,
	}

	payload, err := rec.signingPayload()
	if err != nil {
		return MoveRecord{}, err
	}
	rec.BroadcastHash = hashHex(payload)

	if priv != nil {
		rec.Signature = ed25519.Sign(priv, payload)
		rec.Signer = append([]byte(nil), pub...)
	}

	c.records = append(c.records, rec)
	return rec, nil
}

// Ingest admits an inbound record per spec.md §4.B verification rules
// and §4.D's ordering contract: the record's prev_hash must match the
// local tail (otherwise ErrPrevHashMismatch, which channel treats as a
// cue to request a sync rather than a hard rejection; the record itself
// is not kept for later), its sequence must equal
// the chain's current length, and — unless RequireSignatures is false —
// it must carry a valid signature.
func (c *MoveChain) Ingest(rec MoveRecord) error {
	if rec.Sequence != c.Sequence() {
		return ErrSequenceMismatch
	}
	tailHash, err := c.tailHash()
	if err != nil {
		return err
	}
	if rec.PrevHash != tailHash {
		return ErrPrevHashMismatch
	}

	signed, ok, err := rec.Verify()
	if err != nil {
		return err
	}
	if !signed {
		if c.RequireSignatures {
			return ErrUnsigned
		}
	} else if !ok {
		return ErrBadSignature
	}

	c.records = append(c.records, rec)
	return nil
}
