package tcp

import (
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/mpiech/connect4-server/protocol"
)

// peer adapts one TCP connection to the session.Peer contract. Writes
// are serialized; the read side belongs to the connection's pump.
type peer struct {
	id    string
	conn  net.Conn
	codec *protocol.Codec

	writeMu sync.Mutex

	closeOnce sync.Once
	closeErr  error
}

func newPeer(conn net.Conn, codec *protocol.Codec) *peer {
	return &peer{
		id:    uuid.NewString(),
		conn:  conn,
		codec: codec,
	}
}

func (p *peer) ID() string { return p.id }

func (p *peer) Send(m *protocol.GameMessage) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return p.codec.WriteMessage(p.conn, m)
}

func (p *peer) SendAssignment(player int32) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return protocol.WriteAssignment(p.conn, player)
}

func (p *peer) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.conn.Close()
	})
	return p.closeErr
}
