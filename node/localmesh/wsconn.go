package localmesh

import (
	"context"
	"encoding/json"
	"fmt"

	ws "nhooyr.io/websocket"

	"go-p2pgo/channel"
)

// wsConn adapts a websocket connection to channel.PeerConn, grounded on
// the teacher's web/ws.go wsrwc (ws.MessageText read/write wrapped
// around a *ws.Conn). Each Envelope is one websocket text message
// carrying its JSON encoding, matching spec.md §6's "JSON objects, one
// per unidirectional stream" framing.
type wsConn struct {
	conn     *ws.Conn
	remoteID string
}

func newWSConn(conn *ws.Conn, remoteID string) *wsConn {
	return &wsConn{conn: conn, remoteID: remoteID}
}

func (c *wsConn) Send(env channel.Envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("localmesh: encode envelope: %w", err)
	}
	return c.conn.Write(context.Background(), ws.MessageText, raw)
}

func (c *wsConn) Recv() (channel.Envelope, error) {
	typ, raw, err := c.conn.Read(context.Background())
	if err != nil {
		return channel.Envelope{}, err
	}
	if typ != ws.MessageText {
		return channel.Envelope{}, fmt.Errorf("localmesh: unexpected websocket message type %v", typ)
	}
	var env channel.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return channel.Envelope{}, fmt.Errorf("localmesh: decode envelope: %w", err)
	}
	return env, nil
}

func (c *wsConn) Close() error {
	return c.conn.Close(ws.StatusNormalClosure, "channel closed")
}

func (c *wsConn) RemoteID() string { return c.remoteID }
