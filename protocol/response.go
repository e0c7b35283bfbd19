package protocol

import (
	"fmt"
	"strings"
)

// RespKind identifies which response variant a Response holds.
type RespKind int

const (
	RespValue RespKind = iota
	RespValues
	RespEnd
	RespStored
	RespNotStored
	RespExists
	RespNotFound
	RespDeleted
	RespTouched
	RespError
	RespClientError
	RespServerError
	RespVersion
	RespStats
	RespMetaValue
	RespMetaHit
	RespMetaEnd
	RespMetaNoOp
	RespUnknownCommand
)

// Item is a single key/value/metadata tuple returned to a client.
type Item struct {
	Key     string
	Flags   uint32
	Exptime uint32
	Data    []byte
	CAS     *uint64
}

// StatLine is one "STAT <name> <value>" line.
type StatLine struct {
	Name  string
	Value string
}

// Response is a dialect-agnostic reply to a parsed Command.
type Response struct {
	Kind      RespKind
	Item      Item
	Items     []Item
	Message   string
	Stats     []StatLine
	MetaFlags []MetaFlag
}

// Serialize renders the response for the given dialect.
func (r Response) Serialize(d Dialect) []byte {
	if d.Kind == DialectBinary {
		data, err := r.serializeBinary(d.Opaque)
		if err != nil {
			return []byte("ERROR\r\n")
		}
		return data
	}
	return []byte(r.Format())
}

// Format renders the response in text/meta wire form.
func (r Response) Format() string {
	switch r.Kind {
	case RespValue:
		return formatValue(r.Item)
	case RespValues:
		var b strings.Builder
		for _, it := range r.Items {
			b.WriteString(formatValueLine(it))
		}
		b.WriteString("END\r\n")
		return b.String()
	case RespEnd:
		return "END\r\n"
	case RespStored:
		return "STORED\r\n"
	case RespNotStored:
		return "NOT_STORED\r\n"
	case RespExists:
		return "EXISTS\r\n"
	case RespNotFound:
		return "NOT_FOUND\r\n"
	case RespDeleted:
		return "DELETED\r\n"
	case RespTouched:
		return "TOUCHED\r\n"
	case RespError:
		return fmt.Sprintf("ERROR %s\r\n", r.Message)
	case RespClientError:
		return fmt.Sprintf("CLIENT_ERROR %s\r\n", r.Message)
	case RespServerError:
		return fmt.Sprintf("SERVER_ERROR %s\r\n", r.Message)
	case RespVersion:
		return fmt.Sprintf("VERSION %s\r\n", r.Message)
	case RespStats:
		var b strings.Builder
		for _, s := range r.Stats {
			b.WriteString(fmt.Sprintf("STAT %s %s\r\n", s.Name, s.Value))
		}
		b.WriteString("END\r\n")
		return b.String()
	case RespMetaValue:
		var b strings.Builder
		b.WriteString(fmt.Sprintf("VA %d", len(r.Item.Data)))
		for _, f := range r.MetaFlags {
			b.WriteString(" ")
			b.WriteString(FormatMetaFlag(f))
		}
		b.WriteString("\r\n")
		b.Write(r.Item.Data)
		b.WriteString("\r\n")
		return b.String()
	case RespMetaHit:
		var b strings.Builder
		b.WriteString("HD")
		for _, f := range r.MetaFlags {
			b.WriteString(" ")
			b.WriteString(FormatMetaFlag(f))
		}
		b.WriteString("\r\n")
		return b.String()
	case RespMetaEnd:
		return "EN\r\n"
	case RespMetaNoOp:
		return "MN\r\n"
	case RespUnknownCommand:
		return "ERROR\r\n"
	default:
		return "SERVER_ERROR unknown response\r\n"
	}
}

func formatValueLine(it Item) string {
	if it.CAS != nil {
		return fmt.Sprintf("VALUE %s %d %d %d\r\n%s\r\n", it.Key, it.Flags, len(it.Data), *it.CAS, it.Data)
	}
	return fmt.Sprintf("VALUE %s %d %d\r\n%s\r\n", it.Key, it.Flags, len(it.Data), it.Data)
}

func formatValue(it Item) string {
	return formatValueLine(it) + "END\r\n"
}

func (r Response) serializeBinary(opaque uint32) ([]byte, error) {
	var result []byte

	writeHeader := func(opcode byte, keyLen uint16, extrasLen byte, status uint16, bodyLen uint32, cas uint64) {
		h := NewResponseHeader(opcode, keyLen, extrasLen, status, bodyLen, opaque, cas)
		buf := make([]byte, binaryHeaderLen)
		h.writeTo(buf)
		result = append(result, buf...)
	}

	switch r.Kind {
	case RespValue, RespValues:
		items := r.Items
		if r.Kind == RespValue {
			items = []Item{r.Item}
		}
		for _, it := range items {
			extras := make([]byte, 4)
			extras[0] = byte(it.Flags >> 24)
			extras[1] = byte(it.Flags >> 16)
			extras[2] = byte(it.Flags >> 8)
			extras[3] = byte(it.Flags)
			var cas uint64
			if it.CAS != nil {
				cas = *it.CAS
			}
			writeHeader(OpGet, 0, 4, StatusSuccess, uint32(4+len(it.Data)), cas)
			result = append(result, extras...)
			result = append(result, it.Data...)
		}
	case RespEnd:
		writeHeader(OpGet, 0, 0, StatusSuccess, 0, 0)
	case RespNotFound:
		writeHeader(OpGet, 0, 0, StatusKeyNotFound, 0, 0)
	case RespVersion:
		v := []byte(r.Message)
		writeHeader(OpVersion, 0, 0, StatusSuccess, uint32(len(v)), 0)
		result = append(result, v...)
	case RespStats:
		for _, s := range r.Stats {
			k, v := []byte(s.Name), []byte(s.Value)
			writeHeader(OpStat, uint16(len(k)), 0, StatusSuccess, uint32(len(k)+len(v)), 0)
			result = append(result, k...)
			result = append(result, v...)
		}
		writeHeader(OpStat, 0, 0, StatusSuccess, 0, 0)
	case RespError:
		writeHeader(OpNoop, 0, 0, StatusUnknownCommand, 0, 0)
	case RespClientError:
		writeHeader(OpNoop, 0, 0, StatusInvalidArgs, 0, 0)
	case RespServerError:
		writeHeader(OpNoop, 0, 0, StatusOutOfMemory, 0, 0)
	case RespUnknownCommand:
		writeHeader(OpNoop, 0, 0, StatusUnknownCommand, 0, 0)
	case RespStored:
		writeHeader(OpSet, 0, 0, StatusSuccess, 0, 0)
	case RespNotStored:
		writeHeader(OpSet, 0, 0, StatusItemNotStored, 0, 0)
	case RespExists:
		writeHeader(OpSet, 0, 0, StatusKeyExists, 0, 0)
	case RespDeleted:
		writeHeader(OpDelete, 0, 0, StatusSuccess, 0, 0)
	case RespTouched:
		writeHeader(OpNoop, 0, 0, StatusSuccess, 0, 0)
	case RespMetaValue, RespMetaHit, RespMetaEnd, RespMetaNoOp:
		return nil, fmt.Errorf("meta commands not supported in binary protocol")
	default:
		return nil, fmt.Errorf("unsupported response kind for binary serialization")
	}

	return result, nil
}
