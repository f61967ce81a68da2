// Package client implements a line-oriented terminal player for the
// connect four server. It speaks the same binary record format as the
// server's TCP transport and renders each broadcast board to a writer.
package client

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/mpiech/connect4-server/game/board"
	"github.com/mpiech/connect4-server/protocol"
)

// Client drives one player's side of a game. Input lines are column
// numbers; everything the server broadcasts is rendered to out.
type Client struct {
	conn   io.ReadWriteCloser
	codec  *protocol.Codec
	player int32
	in     *bufio.Scanner
	out    io.Writer
}

// New wraps an established, already-handshaken connection. Most
// callers want Dial instead.
func New(conn io.ReadWriteCloser, codec *protocol.Codec, player int32, in io.Reader, out io.Writer) *Client {
	return &Client{
		conn:   conn,
		codec:  codec,
		player: player,
		in:     bufio.NewScanner(in),
		out:    out,
	}
}

// Dial connects to the server, sends the game key, and waits for the
// player assignment. It blocks until an opponent shows up, since the
// server assigns both players only once the game is paired.
func Dial(addr string, key int32, codec *protocol.Codec, in io.Reader, out io.Writer) (*Client, error) {
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
	return New(conn, codec, player, in, out), nil
}

// Player returns this client's assigned player number.
func (c *Client) Player() int32 {
	return c.player
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Run renders server records and prompts for a column whenever it is
// this player's turn. It returns nil once the game reaches a terminal
// record, or the read error that ended the stream.
func (c *Client) Run() error {
	fmt.Fprintf(c.out, "You are player %d (%c)\n", c.player, board.Player(c.player).Symbol())

	for {
		msg, err := c.codec.ReadMessage(c.conn)
		if err != nil {
			return fmt.Errorf("connection lost: %w", err)
		}

		c.render(msg)

		if msg.Terminal {
			return nil
		}
		if msg.CurrentMover != c.player {
			continue
		}

		move, ok := c.promptMove()
		if !ok {
			return io.EOF
		}
		if err := c.codec.WriteMessage(c.conn, &protocol.GameMessage{Move: move}); err != nil {
			return fmt.Errorf("send move: %w", err)
		}
	}
}

// promptMove reads column numbers until one parses. A closed input
// stream ends the game.
func (c *Client) promptMove() (int32, bool) {
	for {
		fmt.Fprintf(c.out, "Your move (column 0-%d): ", c.codec.Cols()-1)
		if !c.in.Scan() {
			return 0, false
		}
		line := strings.TrimSpace(c.in.Text())
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(c.out, "%q is not a column number\n", line)
			continue
		}
		return int32(n), true
	}
}

func (c *Client) render(msg *protocol.GameMessage) {
	if msg.Text != "" {
		fmt.Fprintln(c.out, msg.Text)
	}

	cols := c.codec.Cols()
	fmt.Fprint(c.out, " ")
	for col := 0; col < cols; col++ {
		fmt.Fprintf(c.out, "%d", col%10)
	}
	fmt.Fprintln(c.out)
	for r := 0; r < c.codec.Rows(); r++ {
		fmt.Fprintf(c.out, "|%s|\n", msg.Grid[r*cols:(r+1)*cols])
	}
	fmt.Fprintf(c.out, "+%s+\n", strings.Repeat("-", cols))

	if msg.Terminal {
		fmt.Fprintln(c.out, "Game over.")
	}
}
