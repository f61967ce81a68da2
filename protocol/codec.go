package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// TextSize is the fixed size of the NUL-padded status text field.
const TextSize = 256

// Fixed field widths of the GameMessage record, in order.
const (
	moverSize    = 4
	moveSize     = 4
	terminalSize = 1
	headerSize   = moverSize + TextSize + moveSize + terminalSize
)

var (
	ErrTextTooLong = errors.New("status text exceeds field size")
	ErrBadGridSize = errors.New("grid snapshot does not match codec dimensions")
)

// GameMessage is the decoded form of the repeated game record. The
// server always populates Grid with the authoritative board; clients
// only ever populate Move.
type GameMessage struct {
	CurrentMover int32
	Text         string
	Move         int32
	Terminal     bool
	Grid         []byte
}

// Codec encodes and decodes records for one grid geometry.
type Codec struct {
	rows int
	cols int
}

// NewCodec returns a codec for a rows×cols grid.
func NewCodec(rows, cols int) *Codec {
	return &Codec{rows: rows, cols: cols}
}

// MessageSize returns the exact on-wire size of a GameMessage record.
func (c *Codec) MessageSize() int {
	return headerSize + c.rows*c.cols
}

// Rows returns the grid row count the codec was built for.
func (c *Codec) Rows() int { return c.rows }

// Cols returns the grid column count the codec was built for.
func (c *Codec) Cols() int { return c.cols }

// Encode serializes a GameMessage into a fresh buffer of MessageSize
// bytes. A nil Grid encodes as an all-empty board.
func (c *Codec) Encode(m *GameMessage) ([]byte, error) {
	if len(m.Text) > TextSize {
		return nil, ErrTextTooLong
	}
	gridLen := c.rows * c.cols
	if m.Grid != nil && len(m.Grid) != gridLen {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrBadGridSize, len(m.Grid), gridLen)
	}

	buf := make([]byte, c.MessageSize())
	off := 0

	binary.LittleEndian.PutUint32(buf[off:], uint32(m.CurrentMover))
	off += moverSize

	copy(buf[off:off+TextSize], m.Text)
	off += TextSize

	binary.LittleEndian.PutUint32(buf[off:], uint32(m.Move))
	off += moveSize

	if m.Terminal {
		buf[off] = 1
	}
	off += terminalSize

	if m.Grid == nil {
		for i := 0; i < gridLen; i++ {
			buf[off+i] = ' '
		}
	} else {
		copy(buf[off:], m.Grid)
	}
	return buf, nil
}

// Decode parses one GameMessage record. The input must be exactly
// MessageSize bytes.
func (c *Codec) Decode(buf []byte) (*GameMessage, error) {
	if len(buf) != c.MessageSize() {
		return nil, fmt.Errorf("short game message: got %d bytes, want %d", len(buf), c.MessageSize())
	}
	off := 0

	m := &GameMessage{}
	m.CurrentMover = int32(binary.LittleEndian.Uint32(buf[off:]))
	off += moverSize

	text := buf[off : off+TextSize]
	if i := bytes.IndexByte(text, 0); i >= 0 {
		text = text[:i]
	}
	m.Text = string(text)
	off += TextSize

	m.Move = int32(binary.LittleEndian.Uint32(buf[off:]))
	off += moveSize

	m.Terminal = buf[off] != 0
	off += terminalSize

	m.Grid = make([]byte, c.rows*c.cols)
	copy(m.Grid, buf[off:])
	return m, nil
}

// ReadMessage reads exactly one GameMessage record from r.
func (c *Codec) ReadMessage(r io.Reader) (*GameMessage, error) {
	buf := make([]byte, c.MessageSize())
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return c.Decode(buf)
}

// WriteMessage writes one GameMessage record to w.
func (c *Codec) WriteMessage(w io.Writer, m *GameMessage) error {
	buf, err := c.Encode(m)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// ReadHandshake reads the 4-byte game-key handshake.
func ReadHandshake(r io.Reader) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(buf[:])), nil
}

// WriteHandshake writes the 4-byte game-key handshake.
func WriteHandshake(w io.Writer, key int32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(key))
	_, err := w.Write(buf[:])
	return err
}

// ReadAssignment reads the 4-byte player-number record.
func ReadAssignment(r io.Reader) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	n := int32(binary.LittleEndian.Uint32(buf[:]))
	if n != 1 && n != 2 {
		return 0, fmt.Errorf("invalid player assignment %d", n)
	}
	return n, nil
}

// WriteAssignment writes the 4-byte player-number record.
func WriteAssignment(w io.Writer, player int32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(player))
	_, err := w.Write(buf[:])
	return err
}
