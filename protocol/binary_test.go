package protocol_test

import (
	"testing"

	"github.com/pior/platypus/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGetPacket(key string) []byte {
	h := protocol.BinaryHeader{
		Magic:           protocol.MagicRequest,
		Opcode:          protocol.OpGet,
		KeyLength:       uint16(len(key)),
		TotalBodyLength: uint32(len(key)),
	}
	buf := make([]byte, 24)
	// exercised through the package's own header round-trip via ParseBinary
	_ = h
	copy(buf, encodeHeaderForTest(protocol.OpGet, uint16(len(key)), 0, uint32(len(key))))
	return append(buf, []byte(key)...)
}

func encodeHeaderForTest(opcode byte, keyLen uint16, extrasLen byte, bodyLen uint32) []byte {
	buf := make([]byte, 24)
	buf[0] = protocol.MagicRequest
	buf[1] = opcode
	buf[2] = byte(keyLen >> 8)
	buf[3] = byte(keyLen)
	buf[4] = extrasLen
	buf[8] = byte(bodyLen >> 24)
	buf[9] = byte(bodyLen >> 16)
	buf[10] = byte(bodyLen >> 8)
	buf[11] = byte(bodyLen)
	return buf
}

func TestParseBinaryGet(t *testing.T) {
	packet := buildGetPacket("Hello")
	cmd, opaque, consumed, err := protocol.ParseBinary(packet)
	require.NoError(t, err)
	assert.Equal(t, protocol.Get, cmd.Kind)
	assert.Equal(t, []string{"Hello"}, cmd.Keys)
	assert.Equal(t, uint32(0), opaque)
	assert.Equal(t, len(packet), consumed)
}

func TestParseBinaryVersion(t *testing.T) {
	buf := encodeHeaderForTest(protocol.OpVersion, 0, 0, 0)
	cmd, _, _, err := protocol.ParseBinary(buf)
	require.NoError(t, err)
	assert.Equal(t, protocol.Version, cmd.Kind)
}

func TestParseBinaryDeleteRejected(t *testing.T) {
	buf := encodeHeaderForTest(protocol.OpDelete, 3, 0, 3)
	buf = append(buf, []byte("abc")...)
	_, _, _, err := protocol.ParseBinary(buf)
	require.Error(t, err)
	assert.True(t, protocol.IsUnknownBinaryCommand(err))
}

func TestSerializeBinaryNotFound(t *testing.T) {
	resp := protocol.Response{Kind: protocol.RespNotFound}
	data := resp.Serialize(protocol.Dialect{Kind: protocol.DialectBinary, Opaque: 7})
	require.Len(t, data, 24)
	assert.Equal(t, protocol.MagicResponse, data[0])
	status := uint16(data[6])<<8 | uint16(data[7])
	assert.Equal(t, protocol.StatusKeyNotFound, status)
}
