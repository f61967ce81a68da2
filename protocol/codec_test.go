package protocol

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"
	"testing"
)

func TestMessageSize(t *testing.T) {
	c := NewCodec(9, 8)
	if got := c.MessageSize(); got != 337 {
		t.Errorf("expected 337-byte record for a 9x8 grid, got %d", got)
	}
}

func TestEncode_Layout(t *testing.T) {
	c := NewCodec(9, 8)
	grid := bytes.Repeat([]byte{' '}, 72)
	grid[71] = '*'

	buf, err := c.Encode(&GameMessage{
		CurrentMover: 2,
		Text:         "Move accepted.",
		Move:         5,
		Terminal:     true,
		Grid:         grid,
	})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	if len(buf) != c.MessageSize() {
		t.Fatalf("expected %d bytes, got %d", c.MessageSize(), len(buf))
	}
	if mover := binary.LittleEndian.Uint32(buf[0:4]); mover != 2 {
		t.Errorf("mover field: expected 2, got %d", mover)
	}
	if !bytes.HasPrefix(buf[4:260], []byte("Move accepted.\x00")) {
		t.Error("text field is not NUL-terminated at the right offset")
	}
	if move := binary.LittleEndian.Uint32(buf[260:264]); move != 5 {
		t.Errorf("move field: expected 5, got %d", move)
	}
	if buf[264] != 1 {
		t.Errorf("terminal flag: expected 1, got %d", buf[264])
	}
	if buf[336] != '*' {
		t.Error("last grid byte not at the expected offset")
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	c := NewCodec(9, 8)
	grid := bytes.Repeat([]byte{' '}, 72)
	grid[0] = '@'

	in := &GameMessage{
		CurrentMover: 1,
		Text:         "You start the game.",
		Move:         3,
		Grid:         grid,
	}

	buf, err := c.Encode(in)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	out, err := c.Decode(buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if out.CurrentMover != in.CurrentMover {
		t.Errorf("mover: expected %d, got %d", in.CurrentMover, out.CurrentMover)
	}
	if out.Text != in.Text {
		t.Errorf("text: expected %q, got %q", in.Text, out.Text)
	}
	if out.Move != in.Move {
		t.Errorf("move: expected %d, got %d", in.Move, out.Move)
	}
	if out.Terminal {
		t.Error("terminal flag should be false")
	}
	if !bytes.Equal(out.Grid, grid) {
		t.Error("grid mismatch after round trip")
	}
}

func TestEncode_NilGridIsEmptyBoard(t *testing.T) {
	c := NewCodec(9, 8)
	buf, err := c.Encode(&GameMessage{CurrentMover: 1})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	for i := 265; i < len(buf); i++ {
		if buf[i] != ' ' {
			t.Fatalf("grid byte %d: expected space, got %q", i-265, buf[i])
		}
	}
}

func TestEncode_Errors(t *testing.T) {
	c := NewCodec(9, 8)

	_, err := c.Encode(&GameMessage{Text: strings.Repeat("x", TextSize+1)})
	if err != ErrTextTooLong {
		t.Errorf("expected ErrTextTooLong, got %v", err)
	}

	_, err = c.Encode(&GameMessage{Grid: make([]byte, 10)})
	if err == nil {
		t.Error("expected error for mismatched grid size")
	}
}

func TestDecode_ShortBuffer(t *testing.T) {
	c := NewCodec(9, 8)
	if _, err := c.Decode(make([]byte, 100)); err == nil {
		t.Error("expected error for short buffer")
	}
}

func TestReadMessage_ShortStream(t *testing.T) {
	c := NewCodec(9, 8)
	_, err := c.ReadMessage(bytes.NewReader(make([]byte, 50)))
	if err != io.ErrUnexpectedEOF {
		t.Errorf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestHandshake(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHandshake(&buf, 7); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	key, err := ReadHandshake(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if key != 7 {
		t.Errorf("expected key 7, got %d", key)
	}
}

func TestAssignment(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAssignment(&buf, 2); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	n, err := ReadAssignment(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected player 2, got %d", n)
	}

	buf.Reset()
	if err := WriteAssignment(&buf, 9); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := ReadAssignment(&buf); err == nil {
		t.Error("expected error for invalid player number")
	}
}

func TestWriteReadMessage_Stream(t *testing.T) {
	c := NewCodec(9, 8)
	var buf bytes.Buffer

	for i := 0; i < 3; i++ {
		err := c.WriteMessage(&buf, &GameMessage{CurrentMover: int32(i), Text: "msg"})
		if err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
	}

	// Records carry no length prefix; the stream is just concatenated
	// fixed-size records.
	if buf.Len() != 3*c.MessageSize() {
		t.Fatalf("expected %d bytes on the stream, got %d", 3*c.MessageSize(), buf.Len())
	}
	for i := 0; i < 3; i++ {
		m, err := c.ReadMessage(&buf)
		if err != nil {
			t.Fatalf("read %d failed: %v", i, err)
		}
		if m.CurrentMover != int32(i) {
			t.Errorf("record %d: expected mover %d, got %d", i, i, m.CurrentMover)
		}
	}
}
