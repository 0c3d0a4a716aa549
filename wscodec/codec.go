// Package wscodec implements the slice of the WebSocket wire protocol the
// table transport relies on: the key/accept handshake exchange and single,
// unfragmented text frames with 7/16/64-bit payload lengths. Frames from
// clients must be masked; frames to clients are sent unmasked.
package wscodec

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const acceptGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// MaxFrameSize caps the declared payload length of an incoming frame.
// Action payloads are small JSON objects; anything bigger is malformed.
const MaxFrameSize = 1 << 20

const (
	opText  = 0x1
	opClose = 0x8

	finBit  = 0x80
	maskBit = 0x80
)

var (
	// ErrConnectionClosed is returned when the peer sends a close frame.
	ErrConnectionClosed = errors.New("wscodec: connection closed by peer")

	// ErrFragmented rejects frames without the FIN bit; the transport
	// only speaks single-frame messages.
	ErrFragmented = errors.New("wscodec: fragmented frames not supported")

	// ErrNotText rejects any opcode other than a text frame.
	ErrNotText = errors.New("wscodec: expected text frame")

	// ErrUnmaskedFrame rejects client frames sent without a masking key.
	ErrUnmaskedFrame = errors.New("wscodec: client frame not masked")

	// ErrFrameTooLarge rejects frames whose declared payload length
	// exceeds MaxFrameSize before any allocation happens.
	ErrFrameTooLarge = errors.New("wscodec: frame exceeds maximum size")
)

// AcceptKey computes the Sec-WebSocket-Accept value for a client key:
// SHA-1 over key+GUID, Base64 encoded.
func AcceptKey(clientKey string) string {
	h := sha1.Sum([]byte(clientKey + acceptGUID))
	return base64.StdEncoding.EncodeToString(h[:])
}

// HandshakeResponse builds the 101 Switching Protocols reply for an
// upgrade request carrying clientKey.
func HandshakeResponse(clientKey string) string {
	return "HTTP/1.1 101 Switching Protocols\r\n" +
		"Upgrade: websocket\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Accept: " + AcceptKey(clientKey) + "\r\n\r\n"
}

// ReadText reads one masked, unfragmented text frame and returns the
// unmasked payload.
func ReadText(r io.Reader) ([]byte, error) {
	var hdr [2]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}

	opcode := hdr[0] & 0x0f
	if opcode == opClose {
		return nil, ErrConnectionClosed
	}
	if hdr[0]&finBit == 0 {
		return nil, ErrFragmented
	}
	if opcode != opText {
		return nil, fmt.Errorf("%w, got opcode %#x", ErrNotText, opcode)
	}
	if hdr[1]&maskBit == 0 {
		return nil, ErrUnmaskedFrame
	}

	length := uint64(hdr[1] & 0x7f)
	switch length {
	case 126:
		var ext [2]byte
		if _, err := io.ReadFull(r, ext[:]); err != nil {
			return nil, err
		}
		length = uint64(binary.BigEndian.Uint16(ext[:]))
	case 127:
		var ext [8]byte
		if _, err := io.ReadFull(r, ext[:]); err != nil {
			return nil, err
		}
		length = binary.BigEndian.Uint64(ext[:])
	}
	if length > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, length)
	}

	var key [4]byte
	if _, err := io.ReadFull(r, key[:]); err != nil {
		return nil, err
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	for i := range payload {
		payload[i] ^= key[i%4]
	}
	return payload, nil
}

// WriteText writes one unmasked server-to-client text frame.
func WriteText(w io.Writer, payload []byte) error {
	if _, err := w.Write(frameHeader(len(payload), false)); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// EncodeMasked builds a client-to-server text frame masked with key.
// Used by tests and in-process clients; real browsers do this themselves.
func EncodeMasked(payload []byte, key [4]byte) []byte {
	hdr := frameHeader(len(payload), true)
	frame := make([]byte, 0, len(hdr)+4+len(payload))
	frame = append(frame, hdr...)
	frame = append(frame, key[:]...)
	for i, b := range payload {
		frame = append(frame, b^key[i%4])
	}
	return frame
}

// frameHeader encodes FIN+text opcode and the payload length using the
// 7-bit field, extended to 16 or 64 bits above the small-length limits.
func frameHeader(length int, masked bool) []byte {
	var mask byte
	if masked {
		mask = maskBit
	}

	switch {
	case length <= 125:
		return []byte{finBit | opText, mask | byte(length)}
	case length <= 0xffff:
		hdr := []byte{finBit | opText, mask | 126, 0, 0}
		binary.BigEndian.PutUint16(hdr[2:], uint16(length))
		return hdr
	default:
		hdr := make([]byte, 10)
		hdr[0] = finBit | opText
		hdr[1] = mask | 127
		binary.BigEndian.PutUint64(hdr[2:], uint64(length))
		return hdr
	}
}
