package lobby

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"go-p2pgo/chain"
	"go-p2pgo/channel"
	"go-p2pgo/consensus"
	"go-p2pgo/node"

	p2pgo "go-p2pgo"
)

// gameTopicBufferSize bounds the per-game gossip topic exactly like the
// lobby topic (spec.md §4.F: "Bounded to 256 slots").
const gameTopicBufferSize = 256

// Directory maintains the known-games directory behind a single mutex
// (spec.md §4.E, §5 "the lobby directory is protected by a single
// mutex; iteration returns cloned snapshots"), grounded on the
// teacher's db package's connection-guarding pattern and web/web.go's
// snapshot-on-read listing style.
type Directory struct {
	endpoint node.Endpoint
	identity node.Identity
	tracker  *consensus.Tracker

	mu       sync.Mutex
	games    map[string]p2pgo.GameInfo
	channels map[string]*channel.GameChannel
}

// New constructs an empty directory bound to an Endpoint for
// advertisement broadcast/receipt and peer connection establishment.
// It owns the consensus Tracker shared by every game this directory
// hosts (spec.md §2 "G is a utility used by D"); callers interested in
// score-acceptance notifications should drain ConsensusEvents().
func New(endpoint node.Endpoint, identity node.Identity) *Directory {
	return &Directory{
		endpoint: endpoint,
		identity: identity,
		tracker:  consensus.New(),
		games:    make(map[string]p2pgo.GameInfo),
		channels: make(map[string]*channel.GameChannel),
	}
}

// ConsensusEvents exposes the directory's Tracker's observer channel so
// a caller can react to score timeouts and both-sides-accepted events.
func (d *Directory) ConsensusEvents() <-chan consensus.Event {
	return d.tracker.Events()
}

// Consensus returns the directory's shared Tracker, e.g. for a caller
// driving accept_local/accept_peer from a UI surface.
func (d *Directory) Consensus() *consensus.Tracker {
	return d.tracker
}

// CreateGame generates a UUID game ID, instantiates a GameChannel over
// a fresh GameState, inserts it into the directory, and broadcasts an
// advertisement on the lobby topic for boardSize (spec.md §4.E).
func (d *Directory) CreateGame(ctx context.Context, host string, boardSize int, bot bool) (string, error) {
	gid := uuid.NewString()

	gc := channel.New(channel.Config{
		GameID:     gid,
		BoardSize:  boardSize,
		Komi:       p2pgo.DefaultKomi(boardSize),
		Method:     p2pgo.ScoringTerritory,
		PrivateKey: d.identity.Private,
		PublicKey:  d.identity.Public,
		Transport:  node.GossipTransport{Endpoint: d.endpoint},
		Consensus:  d.tracker,
	})

	info := p2pgo.GameInfo{GameID: gid, BoardSize: boardSize, Host: host, Bot: bot}

	d.mu.Lock()
	d.games[gid] = info
	d.channels[gid] = gc
	d.mu.Unlock()

	if err := d.advertise(ctx, info); err != nil {
		return gid, fmt.Errorf("lobby: advertise new game: %w", err)
	}

	go func() {
		if err := d.ListenForGameMoves(ctx, gid); err != nil {
			log.Printf("lobby: game %s gossip listener stopped: %v", gid, err)
		}
	}()

	return gid, nil
}

func (d *Directory) advertise(ctx context.Context, info p2pgo.GameInfo) error {
	advert := GameAdvert{GID: info.GameID, Size: uint8(info.BoardSize), Host: info.Host, Bot: info.Bot}
	raw, err := cbor.Marshal(advert)
	if err != nil {
		return err
	}
	return d.endpoint.BroadcastToTopic(ctx, node.TopicID(node.LobbyTopicName(info.BoardSize)), raw)
}

// ListGames returns a snapshot of the current directory.
func (d *Directory) ListGames() []p2pgo.GameInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]p2pgo.GameInfo, 0, len(d.games))
	for _, g := range d.games {
		out = append(out, g)
	}
	return out
}

// ErrUnknownGame reports a game ID absent from the directory.
var ErrUnknownGame = fmt.Errorf("lobby: unknown game id")

// GetGameChannel retrieves the channel handle for gid.
func (d *Directory) GetGameChannel(gid string) (*channel.GameChannel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	gc, ok := d.channels[gid]
	if !ok {
		return nil, ErrUnknownGame
	}
	return gc, nil
}

// PostMove resolves gid's channel and pushes move through it — a thin
// convenience wrapper (spec.md §4.E post_move).
func (d *Directory) PostMove(gid string, move p2pgo.Move) error {
	gc, err := d.GetGameChannel(gid)
	if err != nil {
		return err
	}
	return gc.PushMove(move, "")
}

// OnAdvert upserts the directory from a received GameAdvert (spec.md
// §4.E on_advert): a new game ID is added as remote-joinable with no
// local channel; an already-known game ID is refreshed in place.
func (d *Directory) OnAdvert(advert GameAdvert) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.games[advert.GID] = p2pgo.GameInfo{
		GameID:    advert.GID,
		BoardSize: int(advert.Size),
		Host:      advert.Host,
		Bot:       advert.Bot,
	}
}

// ListenForAdverts subscribes to boardSize's lobby topic and folds
// every received advertisement into the directory until ctx is
// cancelled or the topic fails. Nothing in the module starts it.
func (d *Directory) ListenForAdverts(ctx context.Context, boardSize int) error {
	topic, err := d.endpoint.SubscribeLobby(ctx, boardSize)
	if err != nil {
		return err
	}
	defer topic.Close()

	for {
		raw, err := topic.Receive(ctx)
		if err != nil {
			return err
		}
		var advert GameAdvert
		if err := cbor.Unmarshal(raw, &advert); err != nil {
			continue // malformed advertisement: ignore and keep listening
		}
		d.OnAdvert(advert)
	}
}

// ListenForGameMoves subscribes to gid's per-game gossip topic and
// feeds every inbound MoveRecord into the channel's IngestRecord, the
// symmetric counterpart of readPeer's direct-stream path (spec.md §2
// "inbound records from F or direct streams enter D"; §4.D operation
// 2). CreateGame starts it in a plain background goroutine (not under
// the supervisor package); it runs until ctx is cancelled or the topic
// fails.
func (d *Directory) ListenForGameMoves(ctx context.Context, gid string) error {
	gc, err := d.GetGameChannel(gid)
	if err != nil {
		return err
	}

	topic, err := d.endpoint.SubscribeGameTopic(ctx, gid, gameTopicBufferSize)
	if err != nil {
		return err
	}
	defer topic.Close()

	for {
		raw, err := topic.Receive(ctx)
		if err != nil {
			return err
		}
		var rec chain.MoveRecord
		if err := cbor.Unmarshal(raw, &rec); err != nil {
			continue // malformed gossip payload: ignore and keep listening
		}
		if err := gc.IngestRecord(rec, ""); err != nil {
			log.Printf("lobby: game %s: ingest gossiped record: %v", gid, err)
		}
	}
}
