// Package protocol implements the fixed-layout binary records exchanged
// between the connect-four server and its clients.
//
// The wire format is deliberately schema-defined rather than derived
// from any in-memory struct layout, so implementations in other
// languages interoperate bit for bit. All integers are little-endian
// and records are packed with no implicit padding.
//
// Records:
//
//   - Handshake (client → server, once): int32 game key. 4 bytes.
//   - Assignment (server → client, once at pairing): int32 player
//     number, 1 or 2. 4 bytes.
//   - GameMessage (both directions, repeated):
//     int32 current mover (0 when the game is over) |
//     256-byte NUL-padded status text |
//     int32 move column (meaningful client → server only) |
//     uint8 terminal flag |
//     rows×cols grid bytes (' ', '*', '@'), row-major.
//
// A Codec is sized by the grid dimensions; the GameMessage record is
// 265 + rows×cols bytes (337 for the reference 9×8 grid). Records are
// sent whole over the byte stream with no length prefix; receivers read
// exactly one record's worth of bytes.
package protocol
