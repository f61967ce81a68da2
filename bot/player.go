package bot

import (
	"fmt"
	"io"
	"log"
	"net"
	"time"

	"github.com/mpiech/connect4-server/game/board"
	"github.com/mpiech/connect4-server/protocol"
)

// Player runs one automated side of a game.
type Player struct {
	conn   io.ReadWriteCloser
	codec  *protocol.Codec
	player board.Player

	// Delay before each move so humans on the other side can follow.
	Delay time.Duration
}

// New wraps an established, already-handshaken connection.
func New(conn io.ReadWriteCloser, codec *protocol.Codec, player int32) *Player {
	return &Player{
		conn:   conn,
		codec:  codec,
		player: board.Player(player),
	}
}

// Dial connects to the server, sends the game key, and waits for the
// player assignment.
func Dial(addr string, key int32, codec *protocol.Codec) (*Player, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	if err := protocol.WriteHandshake(conn, key); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send game key: %w", err)
	}
	player, err := protocol.ReadAssignment(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read player assignment: %w", err)
	}
	return New(conn, codec, player), nil
}

// Number returns the assigned player number.
func (b *Player) Number() board.Player {
	return b.player
}

// Close closes the underlying connection.
func (b *Player) Close() error {
	return b.conn.Close()
}

// Run plays until the game reaches a terminal record. It returns nil
// on a clean game end, or the error that broke the stream.
func (b *Player) Run() error {
	for {
		msg, err := b.codec.ReadMessage(b.conn)
		if err != nil {
			return fmt.Errorf("connection lost: %w", err)
		}
		if msg.Text != "" {
			log.Printf("server: %s", msg.Text)
		}
		if msg.Terminal {
			return nil
		}
		if board.Player(msg.CurrentMover) != b.player {
			continue
		}

		grid := board.New(b.codec.Rows(), b.codec.Cols())
		if err := grid.Restore(msg.Grid); err != nil {
			return fmt.Errorf("bad grid from server: %w", err)
		}

		col, ok := ChooseMove(grid, b.player)
		if !ok {
			return fmt.Errorf("no playable column left")
		}

		if b.Delay > 0 {
			time.Sleep(b.Delay)
		}
		log.Printf("playing column %d", col)
		if err := b.codec.WriteMessage(b.conn, &protocol.GameMessage{Move: int32(col)}); err != nil {
			return fmt.Errorf("send move: %w", err)
		}
	}
}
