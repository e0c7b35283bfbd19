package protocol

import (
	"encoding/binary"
	"fmt"
)

// Binary protocol magic bytes.
const (
	MagicRequest  byte = 0x80
	MagicResponse byte = 0x81
)

// Binary protocol opcodes platypus recognizes on the wire.
const (
	OpGet     byte = 0x00
	OpSet     byte = 0x01
	OpDelete  byte = 0x04
	OpQuit    byte = 0x07
	OpNoop    byte = 0x0a
	OpVersion byte = 0x0b
	OpGetK    byte = 0x0c
	OpStat    byte = 0x10
)

// Binary protocol response status codes.
const (
	StatusSuccess        uint16 = 0x0000
	StatusKeyNotFound    uint16 = 0x0001
	StatusKeyExists      uint16 = 0x0002
	StatusInvalidArgs    uint16 = 0x0004
	StatusItemNotStored  uint16 = 0x0005
	StatusUnknownCommand uint16 = 0x0081
	StatusOutOfMemory    uint16 = 0x0082
)

const binaryHeaderLen = 24

// BinaryHeader is the fixed 24-byte binary protocol packet header.
type BinaryHeader struct {
	Magic           byte
	Opcode          byte
	KeyLength       uint16
	ExtrasLength    byte
	DataType        byte
	StatusOrReserved uint16
	TotalBodyLength uint32
	Opaque          uint32
	CAS             uint64
}

// NewResponseHeader builds a response header with the given fields.
func NewResponseHeader(opcode byte, keyLen uint16, extrasLen byte, status uint16, bodyLen uint32, opaque uint32, cas uint64) BinaryHeader {
	return BinaryHeader{
		Magic:           MagicResponse,
		Opcode:          opcode,
		KeyLength:       keyLen,
		ExtrasLength:    extrasLen,
		StatusOrReserved: status,
		TotalBodyLength: bodyLen,
		Opaque:          opaque,
		CAS:             cas,
	}
}

func readHeader(data []byte) BinaryHeader {
	return BinaryHeader{
		Magic:            data[0],
		Opcode:           data[1],
		KeyLength:        binary.BigEndian.Uint16(data[2:4]),
		ExtrasLength:     data[4],
		DataType:         data[5],
		StatusOrReserved: binary.BigEndian.Uint16(data[6:8]),
		TotalBodyLength:  binary.BigEndian.Uint32(data[8:12]),
		Opaque:           binary.BigEndian.Uint32(data[12:16]),
		CAS:              binary.BigEndian.Uint64(data[16:24]),
	}
}

func (h BinaryHeader) writeTo(buf []byte) {
	buf[0] = h.Magic
	buf[1] = h.Opcode
	binary.BigEndian.PutUint16(buf[2:4], h.KeyLength)
	buf[4] = h.ExtrasLength
	buf[5] = h.DataType
	binary.BigEndian.PutUint16(buf[6:8], h.StatusOrReserved)
	binary.BigEndian.PutUint32(buf[8:12], h.TotalBodyLength)
	binary.BigEndian.PutUint32(buf[12:16], h.Opaque)
	binary.BigEndian.PutUint64(buf[16:24], h.CAS)
}

// ParseBinary parses a binary protocol request packet. It returns the
// parsed command, the opaque token to echo back, and the number of
// bytes consumed from data.
//
// Binary DELETE is rejected with STATUS_UNKNOWN_COMMAND instead of being
// silently rewritten into a touch-with-zero-ttl: platypus has no
// authoritative delete semantics over a refresh-ahead cache.
func ParseBinary(data []byte) (Command, uint32, int, error) {
	if len(data) < binaryHeaderLen {
		return Command{}, 0, 0, fmt.Errorf("binary packet too small")
	}

	header := readHeader(data)
	if header.Magic != MagicRequest {
		return Command{}, 0, 0, fmt.Errorf("invalid magic byte for request")
	}

	body := data[binaryHeaderLen:]
	extrasLen := int(header.ExtrasLength)
	keyLen := int(header.KeyLength)
	totalLen := int(header.TotalBodyLength)
	valueLen := totalLen - extrasLen - keyLen
	if valueLen < 0 || len(body) < totalLen {
		return Command{}, header.Opaque, 0, fmt.Errorf("truncated binary packet")
	}

	key := string(body[extrasLen : extrasLen+keyLen])
	consumed := binaryHeaderLen + totalLen

	switch header.Opcode {
	case OpGet, OpGetK:
		if extrasLen != 0 {
			return Command{}, header.Opaque, consumed, fmt.Errorf("get command must not have extras")
		}
		if keyLen == 0 {
			return Command{}, header.Opaque, consumed, fmt.Errorf("get command must have key")
		}
		if valueLen != 0 {
			return Command{}, header.Opaque, consumed, fmt.Errorf("get command must not have value")
		}
		return Command{Kind: Get, Keys: []string{key}}, header.Opaque, consumed, nil

	case OpVersion:
		if extrasLen != 0 || keyLen != 0 || valueLen != 0 {
			return Command{}, header.Opaque, consumed, fmt.Errorf("version command must not have extras, key, or value")
		}
		return Command{Kind: Version}, header.Opaque, consumed, nil

	case OpQuit:
		if extrasLen != 0 || keyLen != 0 || valueLen != 0 {
			return Command{}, header.Opaque, consumed, fmt.Errorf("quit command must not have extras, key, or value")
		}
		return Command{Kind: Quit}, header.Opaque, consumed, nil

	case OpStat:
		if extrasLen != 0 {
			return Command{}, header.Opaque, consumed, fmt.Errorf("stat command must not have extras")
		}
		if valueLen != 0 {
			return Command{}, header.Opaque, consumed, fmt.Errorf("stat command must not have value")
		}
		cmd := Command{Kind: Stats}
		if keyLen > 0 {
			cmd.StatsArg = key
			cmd.HasStatsArg = true
		}
		return cmd, header.Opaque, consumed, nil

	case OpDelete:
		return Command{}, header.Opaque, consumed, errUnknownBinaryCommand

	default:
		return Command{}, header.Opaque, consumed, errUnknownBinaryCommand
	}
}

// errUnknownBinaryCommand signals a syntactically valid packet for an
// opcode platypus declines to support; the caller should respond with
// STATUS_UNKNOWN_COMMAND rather than closing the connection.
var errUnknownBinaryCommand = fmt.Errorf("unsupported binary command")

// IsUnknownBinaryCommand reports whether err is the sentinel returned by
// ParseBinary for an opcode it does not support.
func IsUnknownBinaryCommand(err error) bool {
	return err == errUnknownBinaryCommand
}
