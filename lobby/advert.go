// Package lobby implements spec.md §4.E: a directory of known games,
// local and remotely advertised, with channel-open and creation
// operations.
package lobby

// GameAdvert is the CBOR payload gossiped on a lobby topic (spec.md
// §4.E, §6): "{gid, size, host, bot}".
type GameAdvert struct {
	GID  string `cbor:"gid"`
	Size uint8  `cbor:"size"`
	Host string `cbor:"host"`
	Bot  bool   `cbor:"bot"`
}
