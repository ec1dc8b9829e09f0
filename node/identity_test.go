package node

import (
	"path/filepath"
	"testing"
)

func TestLoadOrGenerateIdentityPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "identity.key")

	first, err := LoadOrGenerateIdentity(path)
	if err != nil {
		t.Fatal(err)
	}
	second, err := LoadOrGenerateIdentity(path)
	if err != nil {
		t.Fatal(err)
	}
	if first.NodeID() != second.NodeID() {
		t.Fatalf("expected the same identity to be reloaded from disk, got %s vs %s", first.NodeID(), second.NodeID())
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	id, err := GenerateIdentity()
	if err != nil {
		t.Fatal(err)
	}
	payload := []byte("a move record's canonical bytes")
	sig, signer := id.Sign(payload)
	if !Verify(payload, sig, signer) {
		t.Fatal("expected a freshly produced signature to verify")
	}
	if Verify([]byte("tampered"), sig, signer) {
		t.Fatal("expected verification to fail against a different payload")
	}
}
