package localmesh

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net"
	"net/http"

	ws "nhooyr.io/websocket"

	"go-p2pgo/channel"
)

// listener accepts direct peer streams over TLS+WebSocket, grounded on
// the teacher's main.go/proto.go plain net.Listen accept loop (one
// goroutine per accepted connection) and web/ws.go's websocket
// upgrade handler, combined under the ALPN-bearing TLS config this
// package builds.
type listener struct {
	ln      net.Listener
	srv     *http.Server
	pending chan channel.PeerConn
}

func startListener(addr string, tlsCfg *tls.Config) (*listener, error) {
	raw, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("localmesh: listen on %s: %w", addr, err)
	}
	tlsLn := tls.NewListener(raw, tlsCfg)

	l := &listener{ln: tlsLn, pending: make(chan channel.PeerConn, 64)}
	mux := http.NewServeMux()
	mux.HandleFunc("/", l.handleUpgrade)
	l.srv = &http.Server{Handler: mux}

	go func() {
		if err := l.srv.Serve(tlsLn); err != nil && err != http.ErrServerClosed {
			log.Printf("localmesh: listener on %s stopped: %v", addr, err)
		}
	}()
	return l, nil
}

func (l *listener) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.Accept(w, r, nil)
	if err != nil {
		log.Printf("localmesh: websocket upgrade failed: %v", err)
		return
	}
	peer := newWSConn(conn, r.RemoteAddr)
	select {
	case l.pending <- peer:
	default:
		log.Printf("localmesh: pending-connection queue full, dropping connection from %s", r.RemoteAddr)
		conn.Close(ws.StatusTryAgainLater, "busy")
	}
}

func (l *listener) accept(ctx context.Context) (channel.PeerConn, error) {
	select {
	case p := <-l.pending:
		return p, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *listener) close() error {
	return l.ln.Close()
}
