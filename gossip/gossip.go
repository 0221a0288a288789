// Package gossip is a minimal UDP broadcast channel for exchanging
// transactions (and, nominally, committed blocks) between sequencer
// processes. It is not a full peer-to-peer stack: there is no discovery,
// no retransmission, and no membership protocol, only best-effort
// send-to-configured-peers.
package gossip

import (
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/latticefold/sequencer/types"
)

// message tags identify the payload that follows in the wire envelope.
const (
	tagTx    byte = 0
	tagBlock byte = 1
)

const maxDatagramSize = 64 * 1024

// TxHandler is called for every gossiped transaction received from a peer.
type TxHandler func(types.Transaction)

// Node is a UDP gossip endpoint: it broadcasts outgoing messages to every
// configured peer and dispatches incoming ones to a TxHandler.
type Node struct {
	conn  *net.UDPConn
	peers []*net.UDPAddr

	mu      sync.RWMutex
	onTx    TxHandler
	stopped chan struct{}
}

// New binds a UDP socket on listenAddr and resolves peers (host:port
// strings) for outgoing broadcasts.
func New(listenAddr string, peers []string) (*Node, error) {
	laddr, err := net.ResolveUDPAddr("udp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("gossip: resolve listen addr %q: %w", listenAddr, err)
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, fmt.Errorf("gossip: listen %q: %w", listenAddr, err)
	}

	resolved := make([]*net.UDPAddr, 0, len(peers))
	for _, p := range peers {
		addr, err := net.ResolveUDPAddr("udp", p)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("gossip: resolve peer %q: %w", p, err)
		}
		resolved = append(resolved, addr)
	}

	return &Node{conn: conn, peers: resolved, stopped: make(chan struct{})}, nil
}

// OnTx registers the handler invoked for every gossiped transaction. It
// must be called before Start.
func (n *Node) OnTx(h TxHandler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onTx = h
}

// Start launches the receive loop in a background goroutine.
func (n *Node) Start() {
	go n.receiveLoop()
}

// Stop closes the UDP socket, terminating the receive loop.
func (n *Node) Stop() error {
	close(n.stopped)
	return n.conn.Close()
}

// Addr returns the bound local address.
func (n *Node) Addr() net.Addr { return n.conn.LocalAddr() }

// BroadcastTx sends tx to every configured peer. Send failures to
// individual peers are logged and otherwise ignored: gossip delivery is
// best-effort.
func (n *Node) BroadcastTx(tx types.Transaction) {
	payload := append([]byte{tagTx}, types.EncodeTransaction(tx)...)
	n.broadcast(payload)
}

// BroadcastBlock sends a committed block to every configured peer.
func (n *Node) BroadcastBlock(block types.Block) {
	payload := append([]byte{tagBlock}, types.EncodeBlock(block)...)
	n.broadcast(payload)
}

func (n *Node) broadcast(payload []byte) {
	for _, peer := range n.peers {
		if _, err := n.conn.WriteToUDP(payload, peer); err != nil {
			log.Printf("[gossip] send to %s: %v", peer, err)
		}
	}
}

func (n *Node) receiveLoop() {
	buf := make([]byte, maxDatagramSize)
	for {
		size, _, err := n.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-n.stopped:
				return
			default:
				log.Printf("[gossip] receive error: %v", err)
				continue
			}
		}
		n.handle(buf[:size])
	}
}

func (n *Node) handle(data []byte) {
	if len(data) == 0 {
		return
	}
	tag, body := data[0], data[1:]
	switch tag {
	case tagTx:
		tx, err := types.DecodeTransaction(body)
		if err != nil {
			log.Printf("[gossip] malformed tx message: %v", err)
			return
		}
		n.mu.RLock()
		h := n.onTx
		n.mu.RUnlock()
		if h != nil {
			h(tx)
		}
	case tagBlock:
		// Block gossip ingest is deliberately unimplemented: committed
		// blocks are decoded only far enough to log that one arrived.
		if _, err := types.DecodeBlock(body); err != nil {
			log.Printf("[gossip] malformed block message: %v", err)
			return
		}
		log.Printf("[gossip] received gossiped block, dropping (block ingest unimplemented)")
	default:
		log.Printf("[gossip] unknown message tag %d", tag)
	}
}
