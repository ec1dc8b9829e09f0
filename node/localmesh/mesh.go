package localmesh

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"sync"

	ws "nhooyr.io/websocket"

	"go-p2pgo/channel"
	"go-p2pgo/node"
)

// Mesh is the concrete node.Endpoint. A Mesh with no listen address
// still works for gossip (topics are served from its hub) but cannot
// accept direct peer connections.
type Mesh struct {
	id      node.Identity
	hub     *hub
	tlsCfg  *tls.Config
	ln      *listener
	addr    string
	relay   node.RelayMode
	statsMu sync.Mutex
	stats   map[string]*node.RelayStats
}

// Options configures a new Mesh.
type Options struct {
	Identity node.Identity
	// ListenAddr, if non-empty, starts a TLS+WebSocket listener for
	// inbound direct peer connections (host:port).
	ListenAddr string
	Relay      node.RelayMode
	// Hub lets multiple Mesh instances in one process share a gossip
	// fabric, the in-process stand-in for a real overlay network; nil
	// creates a private hub visible only to this Mesh.
	Hub *hub
}

// New constructs a Mesh, starting its direct-connection listener if
// ListenAddr is set.
func New(opts Options) (*Mesh, error) {
	tlsCfg, err := selfSignedTLSConfig(opts.Identity)
	if err != nil {
		return nil, err
	}
	h := opts.Hub
	if h == nil {
		h = newHub()
	}

	m := &Mesh{
		id:     opts.Identity,
		hub:    h,
		tlsCfg: tlsCfg,
		addr:   opts.ListenAddr,
		relay:  opts.Relay,
		stats:  make(map[string]*node.RelayStats),
	}

	if opts.ListenAddr != "" {
		ln, err := startListener(opts.ListenAddr, tlsCfg)
		if err != nil {
			return nil, err
		}
		m.ln = ln
	}
	return m, nil
}

// SharedHub exposes the internal hub type constructor for tests that
// want several Meshes to gossip with each other in-process without a
// real listener.
func SharedHub() *hub { return newHub() }

var _ node.Endpoint = (*Mesh)(nil)

func (m *Mesh) Identity() node.Identity { return m.id }

func (m *Mesh) Ticket(gameSize *uint8) (string, error) {
	addr := NodeAddr(m)
	t := node.EnhancedTicket{
		Node:     node.NodeAddress{NodeID: m.id.NodeID(), Direct: addr},
		GameSize: gameSize,
		Version:  node.TicketVersion,
	}
	return t.Encode()
}

// NodeAddr returns the dialable addresses this Mesh currently
// advertises; split out so tests can stub it independently of the
// listener's bound address.
func NodeAddr(m *Mesh) []string {
	if m.addr == "" {
		return nil
	}
	return []string{m.addr}
}

func (m *Mesh) ConnectByTicket(ctx context.Context, ticket string) (channel.PeerConn, error) {
	t, err := node.DecodeTicket(ticket)
	if err != nil {
		return nil, err
	}
	if len(t.Node.Direct) == 0 {
		return nil, fmt.Errorf("localmesh: ticket for %s carries no direct address", t.Node.NodeID)
	}
	url := fmt.Sprintf("wss://%s/", t.Node.Direct[0])

	httpClient := &http.Client{Transport: &http.Transport{TLSClientConfig: &tls.Config{
		InsecureSkipVerify: true,
		NextProtos:         []string{alpnProtocol},
	}}}
	conn, _, err := ws.Dial(ctx, url, &ws.DialOptions{HTTPClient: httpClient})
	if err != nil {
		return nil, fmt.Errorf("localmesh: dial %s: %w", url, err)
	}
	return newWSConn(conn, t.Node.NodeID), nil
}

func (m *Mesh) SubscribeLobby(ctx context.Context, boardSize int) (node.Topic, error) {
	id := node.TopicID(node.LobbyTopicName(boardSize))
	return &localTopic{hub: m.hub, id: id, ch: m.hub.subscribe(id)}, nil
}

func (m *Mesh) SubscribeGameTopic(ctx context.Context, gameID string, bufferSize int) (node.Topic, error) {
	id := node.TopicID(node.GameTopicName(gameID))
	return &localTopic{hub: m.hub, id: id, ch: m.hub.subscribe(id)}, nil
}

func (m *Mesh) BroadcastToTopic(ctx context.Context, topicID string, payload []byte) error {
	m.hub.publish(topicID, payload)
	return nil
}

func (m *Mesh) AcceptConnection(ctx context.Context) (channel.PeerConn, error) {
	if m.ln == nil {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.ln.accept(ctx)
}

func (m *Mesh) RelayStatistics() []node.RelayStats {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	out := make([]node.RelayStats, 0, len(m.stats))
	for _, s := range m.stats {
		out = append(out, *s)
	}
	return out
}

func (m *Mesh) Close() error {
	if m.ln != nil {
		return m.ln.close()
	}
	return nil
}
