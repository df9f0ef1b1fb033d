// Package node wires together the chain, the peer network, and process
// lifecycle: the node driver.
package node

import (
	"net"
	"os"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/vrecan/death/v3"

	"github.com/privchain/privchain/internal/chain"
	"github.com/privchain/privchain/internal/config"
	"github.com/privchain/privchain/internal/p2p"
)

// Node owns the chain and the network for the lifetime of the process.
type Node struct {
	Chain *chain.Chain
	Net   *p2p.Server
	cfg   config.Config
	log   zerolog.Logger
}

// New attempts to load a chain snapshot from cfg.SnapshotPath, falling
// back to a fresh chain on any error, then constructs the Network around
// it.
func New(cfg config.Config, log zerolog.Logger) *Node {
	ch, err := chain.Load(cfg.SnapshotPath, log)
	if err != nil {
		log.Info().Err(err).Msg("no usable snapshot, starting fresh chain")
		ch = chain.NewChainWithDifficulty(cfg.Difficulty, log)
	}

	return &Node{
		Chain: ch,
		Net:   p2p.NewServer(ch, log),
		cfg:   cfg,
		log:   log,
	}
}

// Run spawns the listener, optionally dials a seed peer, and blocks until
// the process receives a termination signal, at which point it flushes
// the chain snapshot and exits. Snapshot-write failures are logged but do
// not block exit.
func (n *Node) Run() error {
	ln, err := net.Listen("tcp", n.cfg.ListenAddr)
	if err != nil {
		return err
	}

	go func() {
		if err := n.Net.Serve(ln); err != nil {
			n.log.Debug().Err(err).Msg("listener stopped")
		}
	}()
	n.log.Info().Str("listen_addr", n.cfg.ListenAddr).Msg("node listening")

	if n.cfg.DialPeer != "" {
		if err := n.Net.DialPeer(n.cfg.DialPeer); err != nil {
			n.log.Warn().Err(err).Msg("failed to dial seed peer")
		}
	}

	d := death.NewDeath(syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	d.WaitForDeathWithFunc(func() {
		defer os.Exit(0)
		ln.Close()
		if err := n.Chain.Save(n.cfg.SnapshotPath); err != nil {
			n.log.Warn().Err(err).Msg("snapshot flush failed on shutdown")
		}
	})
	return nil
}
