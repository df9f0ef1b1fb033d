// Package p2p implements the node's peer-to-peer gossip network: a TCP
// listener, outbound dialing, a deduplicated peer set, and a
// newline-delimited JSON message stream per connection.
package p2p

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/rs/zerolog"

	"github.com/privchain/privchain/internal/chain"
)

// envelope is the wire shape for both known message types. Unknown
// top-level keys are ignored by encoding/json's default decoding; there
// is no handshake, no versioning, no authentication.
type envelope struct {
	Chain    []*chain.Block `json:"chain,omitempty"`
	NewBlock *chain.Block   `json:"new_block,omitempty"`
}

// Server owns the listener, the peer set, and a shared handle to the
// node's chain. It never holds the chain's lock and the peers' lock at
// the same time.
type Server struct {
	chain *chain.Chain
	peers *Peers
	log   zerolog.Logger
	wg    sync.WaitGroup
}

// NewServer constructs a Server sharing ch, the node's single Chain
// instance.
func NewServer(ch *chain.Chain, log zerolog.Logger) *Server {
	return &Server{
		chain: ch,
		peers: newPeers(),
		log:   log,
	}
}

// Peers exposes the current peer set, mostly for diagnostics/tests.
func (s *Server) Peers() []string {
	return s.peers.List()
}

// Serve runs the accept loop on ln until it returns an error (typically
// because the listener was closed during shutdown). Each accepted
// connection is handled on its own goroutine.
func (s *Server) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		addr := conn.RemoteAddr().String()
		s.peers.add(addr)
		s.wg.Add(1)
		go s.handleConn(conn, addr)
	}
}

// Wait blocks until all in-flight connection handlers have returned.
// Cancellation of those handlers is cooperative: closing the listener
// only stops new Accepts, so callers that need a hard stop should close
// the individual connections too.
func (s *Server) Wait() {
	s.wg.Wait()
}

func (s *Server) handleConn(conn net.Conn, addr string) {
	defer s.wg.Done()
	defer conn.Close()
	defer s.peers.remove(addr)

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			s.dispatch(line)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log.Debug().Err(err).Str("peer_addr", addr).Msg("connection read error")
			}
			return
		}
	}
}

func (s *Server) dispatch(line string) {
	var env envelope
	if err := json.Unmarshal([]byte(line), &env); err != nil {
		s.log.Debug().Err(fmt.Errorf("%w: %v", ErrMessageParse, err)).Msg("message parse error")
		return
	}

	if env.Chain != nil {
		if err := s.chain.ReplaceChain(env.Chain); err != nil {
			s.log.Debug().Err(err).Msg("chain replacement rejected")
		}
	}
	if env.NewBlock != nil {
		if !s.chain.TryAppendBlock(env.NewBlock) {
			s.log.Debug().Uint64("block_index", env.NewBlock.Index).Msg("new_block ignored, does not extend tip")
		}
	}
}

// DialPeer opens a connection to addr, registers it in the peer set, and
// sends the local chain as a synchronization hello. The connection is then
// read like any inbound one, so any messages the peer writes back on the
// same socket are dispatched too.
func (s *Server) DialPeer(addr string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPeerUnreachable, err)
	}
	s.peers.add(addr)

	hello := envelope{Chain: s.chain.Blocks()}
	if err := writeEnvelope(conn, hello); err != nil {
		conn.Close()
		s.peers.remove(addr)
		return fmt.Errorf("%w: %v", ErrPeerUnreachable, err)
	}

	s.wg.Add(1)
	go s.handleConn(conn, addr)
	return nil
}

// Broadcast offers block to every known peer as a new_block message. Dead
// peers are dropped from the set rather than retried.
func (s *Server) Broadcast(block *chain.Block) {
	for _, addr := range s.peers.List() {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			s.log.Warn().Str("peer_addr", addr).Err(err).Msg("peer unreachable during broadcast")
			s.peers.remove(addr)
			continue
		}
		if err := writeEnvelope(conn, envelope{NewBlock: block}); err != nil {
			s.log.Warn().Str("peer_addr", addr).Err(err).Msg("broadcast write failed")
		}
		conn.Close()
	}
}

func writeEnvelope(w io.Writer, env envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
