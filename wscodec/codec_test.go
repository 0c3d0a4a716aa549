package wscodec

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcceptKeyKnownVector(t *testing.T) {
	// Handshake example from RFC 6455 section 1.3.
	assert.Equal(t, "s3pPLMBiTxaQ9kYGzzhZRbK+xOo=", AcceptKey("dGhlIHNhbXBsZSBub25jZQ=="))
}

func TestHandshakeResponse(t *testing.T) {
	resp := HandshakeResponse("dGhlIHNhbXBsZSBub25jZQ==")
	assert.True(t, strings.HasPrefix(resp, "HTTP/1.1 101 Switching Protocols\r\n"))
	assert.Contains(t, resp, "Upgrade: websocket\r\n")
	assert.Contains(t, resp, "Connection: Upgrade\r\n")
	assert.Contains(t, resp, "Sec-WebSocket-Accept: s3pPLMBiTxaQ9kYGzzhZRbK+xOo=\r\n")
	assert.True(t, strings.HasSuffix(resp, "\r\n\r\n"))
}

func TestMaskedRoundTrip(t *testing.T) {
	key := [4]byte{0x12, 0x34, 0x56, 0x78}
	// Sizes chosen to hit the 7-bit, 16-bit and 64-bit length encodings.
	for _, size := range []int{0, 1, 5, 125, 126, 300, 65535, 65536, 70000} {
		payload := bytes.Repeat([]byte("x"), size)
		if size > 0 {
			payload[0] = '{'
		}

		frame := EncodeMasked(payload, key)
		got, err := ReadText(bytes.NewReader(frame))
		require.NoError(t, err, "size %d", size)
		assert.Equal(t, payload, got, "size %d", size)
	}
}

func TestFrameHeaderLengthEncodings(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteText(&buf, bytes.Repeat([]byte("a"), 125)))
	frame := buf.Bytes()
	assert.Equal(t, byte(0x81), frame[0]) // FIN + text
	assert.Equal(t, byte(125), frame[1])  // 7-bit length, no mask

	buf.Reset()
	require.NoError(t, WriteText(&buf, bytes.Repeat([]byte("a"), 300)))
	frame = buf.Bytes()
	assert.Equal(t, byte(126), frame[1])
	assert.Equal(t, []byte{0x01, 0x2c}, frame[2:4]) // 300 big endian

	buf.Reset()
	require.NoError(t, WriteText(&buf, bytes.Repeat([]byte("a"), 70000)))
	frame = buf.Bytes()
	assert.Equal(t, byte(127), frame[1])
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0x01, 0x11, 0x70}, frame[2:10]) // 70000 big endian
}

func TestReadTextRejectsUnmaskedFrame(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, []byte("hello")))

	_, err := ReadText(&buf)
	assert.ErrorIs(t, err, ErrUnmaskedFrame)
}

func TestReadTextRejectsFragmentedFrame(t *testing.T) {
	frame := EncodeMasked([]byte("hello"), [4]byte{1, 2, 3, 4})
	frame[0] &^= 0x80 // clear FIN

	_, err := ReadText(bytes.NewReader(frame))
	assert.ErrorIs(t, err, ErrFragmented)
}

func TestReadTextRejectsBinaryFrame(t *testing.T) {
	frame := EncodeMasked([]byte("hello"), [4]byte{1, 2, 3, 4})
	frame[0] = 0x82 // FIN + binary opcode

	_, err := ReadText(bytes.NewReader(frame))
	assert.ErrorIs(t, err, ErrNotText)
}

func TestReadTextCloseFrame(t *testing.T) {
	frame := []byte{0x88, 0x80, 0, 0, 0, 0} // masked close, empty payload

	_, err := ReadText(bytes.NewReader(frame))
	assert.ErrorIs(t, err, ErrConnectionClosed)
}

func TestReadTextRejectsOversizedLength(t *testing.T) {
	// Declared lengths beyond the cap are rejected before any payload
	// allocation happens.
	for _, length := range []uint64{MaxFrameSize + 1, 1 << 40, 1 << 63} {
		frame := []byte{0x81, 0x80 | 127, 0, 0, 0, 0, 0, 0, 0, 0}
		binary.BigEndian.PutUint64(frame[2:], length)

		_, err := ReadText(bytes.NewReader(frame))
		assert.ErrorIs(t, err, ErrFrameTooLarge, "length %d", length)
	}

	// Exactly MaxFrameSize passes the length check.
	frame := []byte{0x81, 0x80 | 127, 0, 0, 0, 0, 0, 0, 0, 0}
	binary.BigEndian.PutUint64(frame[2:], MaxFrameSize)
	_, err := ReadText(bytes.NewReader(frame))
	assert.NotErrorIs(t, err, ErrFrameTooLarge)
}

func TestReadTextTruncatedFrame(t *testing.T) {
	frame := EncodeMasked([]byte("hello, craps"), [4]byte{9, 9, 9, 9})

	_, err := ReadText(bytes.NewReader(frame[:len(frame)-4]))
	assert.Error(t, err)
}
