package p2p

import "sync"

// Peers is a deduplicated set of peer addresses, guarded by its own
// mutex — never held at the same time as the chain's mutex.
type Peers struct {
	mu   sync.Mutex
	addr map[string]struct{}
}

func newPeers() *Peers {
	return &Peers{addr: make(map[string]struct{})}
}

func (p *Peers) add(addr string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.addr[addr] = struct{}{}
}

func (p *Peers) remove(addr string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.addr, addr)
}

// List returns a snapshot of the known peer addresses.
func (p *Peers) List() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.addr))
	for a := range p.addr {
		out = append(out, a)
	}
	return out
}
