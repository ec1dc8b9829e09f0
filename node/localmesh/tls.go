package localmesh

import (
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"time"

	"go-p2pgo/node"
)

// alpnProtocol is the exact byte string spec.md §6 assigns to the
// channel-layer direct-stream protocol.
const alpnProtocol = "p2pgo"

// selfSignedTLSConfig builds a minimal tls.Config carrying a
// self-signed certificate over id's ed25519 keypair and advertising
// the p2pgo ALPN protocol, the idiomatic Go mechanism for negotiating
// an application protocol string at handshake time (spec.md §6, §9).
func selfSignedTLSConfig(id node.Identity) (*tls.Config, error) {
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, fmt.Errorf("localmesh: generate certificate serial: %w", err)
	}

	template := &x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: id.NodeID()},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(10 * 365 * 24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, id.Public, id.Private)
	if err != nil {
		return nil, fmt.Errorf("localmesh: create self-signed certificate: %w", err)
	}

	cert := tls.Certificate{
		Certificate: [][]byte{der},
		PrivateKey:  id.Private,
	}

	return &tls.Config{
		Certificates:       []tls.Certificate{cert},
		NextProtos:         []string{alpnProtocol},
		InsecureSkipVerify: true, // identity is verified at the application layer via signed records, not the TLS chain
	}, nil
}
