// Command p2pgo is the external-collaborator CLI surface described in
// spec.md §6: a thin wrapper over lobby/channel/node that hosts or
// joins one game per process invocation. Entry-point shape (flag
// parsing, config load with a fall-through default, fatal-on-bad-args)
// is grounded on the teacher's cmd/server/main.go.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go-p2pgo/config"
	"go-p2pgo/lobby"
	"go-p2pgo/node"
	"go-p2pgo/node/localmesh"
)

const defaultConfFile = "p2pgo.toml"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("p2pgo", flag.ContinueOnError)
	var (
		confFile  = fs.String("conf", defaultConfFile, "configuration file")
		role      = fs.String("role", "", "host or join")
		gameID    = fs.String("game-id", "", "game UUID to join (without a ticket)")
		size      = fs.Int("size", 19, "board size: 9, 13, or 19")
		ticket    = fs.String("ticket", "", "decode a ticket string and print the node it names (no connection is made and no game is joined)")
		list      = fs.Bool("list", false, "print the current directory and exit")
		spectator = fs.Bool("spectator", false, "run as a relay/seed node with no game participation")
		debug     = fs.Bool("debug", false, "add time-of-day timestamps to log output (no per-move broadcast hash is shown)")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *size != 9 && *size != 13 && *size != 19 {
		fmt.Fprintf(os.Stderr, "p2pgo: invalid board size %d (must be 9, 13, or 19)\n", *size)
		return 2
	}
	if *role == "" && *ticket == "" && !*list && !*spectator {
		fmt.Fprintln(os.Stderr, "p2pgo: one of --role, --ticket, --list, or --spectator is required")
		return 2
	}
	if *role == "join" && *gameID == "" && *ticket == "" {
		fmt.Fprintln(os.Stderr, "p2pgo: --role join requires --game-id or --ticket")
		return 2
	}

	cfg, err := config.LoadFile(*confFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "p2pgo: load config: %v\n", err)
		return 1
	}
	if *debug {
		log.SetFlags(log.Ltime | log.Lmicroseconds)
	}

	id, err := node.LoadOrGenerateIdentity(cfg.IdentityFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "p2pgo: identity: %v\n", err)
		return 1
	}

	mesh, err := localmesh.New(localmesh.Options{Identity: id})
	if err != nil {
		fmt.Fprintf(os.Stderr, "p2pgo: start transport: %v\n", err)
		return 1
	}
	defer mesh.Close()

	dir := lobby.New(mesh, id)

	if *list {
		for _, g := range dir.ListGames() {
			fmt.Printf("%s\tsize=%d\thost=%s\n", g.GameID, g.BoardSize, g.Host)
		}
		return 0
	}
	if *spectator {
		<-context.Background().Done()
		return 0
	}

	ctx := context.Background()
	switch {
	case *ticket != "":
		t, err := node.DecodeTicket(*ticket)
		if err != nil {
			fmt.Fprintf(os.Stderr, "p2pgo: decode ticket: %v\n", err)
			return 1
		}
		fmt.Printf("p2pgo: would connect to node %s and auto-join its first advertised game\n", t.Node.NodeID)
	case *role == "host":
		gid, err := dir.CreateGame(ctx, id.NodeID(), *size, false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "p2pgo: create game: %v\n", err)
			return 1
		}
		fmt.Printf("p2pgo: hosting game %s (size %d)\n", gid, *size)
	case *role == "join":
		if _, err := dir.GetGameChannel(*gameID); err != nil {
			fmt.Fprintf(os.Stderr, "p2pgo: join %s: %v\n", *gameID, err)
			return 1
		}
	}

	return 0
}
