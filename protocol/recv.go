package protocol

import (
	"bufio"
	"errors"
	"strings"
)

// ErrNoCommand is returned for a blank or whitespace-only line. A clean
// close is reported as io.EOF instead.
var ErrNoCommand = errors.New("no command")

// RecvCommand reads and parses a single command from r, detecting the
// dialect from the first byte: 0x80/0x81 selects binary, anything else
// is read as a line and tried against the meta dialect first (mg/mn),
// falling back to the text dialect.
func RecvCommand(r *bufio.Reader) (*CommandContext, error) {
	b, err := r.Peek(1)
	if err != nil {
		return nil, err
	}

	if b[0] == MagicRequest || b[0] == MagicResponse {
		return recvBinary(r)
	}

	line, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	return ParseLine(line)
}

func recvBinary(r *bufio.Reader) (*CommandContext, error) {
	header, err := r.Peek(binaryHeaderLen)
	if err != nil {
		return nil, err
	}
	h := readHeader(header)

	bodyLen := int(h.TotalBodyLength)
	full, err := r.Peek(binaryHeaderLen + bodyLen)
	if err != nil {
		return nil, err
	}

	cmd, opaque, consumed, err := ParseBinary(full)
	if consumed > 0 {
		r.Discard(consumed)
	}
	if err != nil {
		return &CommandContext{Dialect: Dialect{Kind: DialectBinary, Opaque: opaque}}, err
	}
	return &CommandContext{Command: cmd, Dialect: Dialect{Kind: DialectBinary, Opaque: opaque}}, nil
}

// ParseLine parses a single text line as meta dialect (mg/mn) or falls
// back to the classic text dialect, matching the original dispatch.
func ParseLine(line string) (*CommandContext, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, ErrNoCommand
	}

	if strings.HasPrefix(trimmed, "mg ") || trimmed == "mn" {
		cmd, err := ParseMeta(trimmed)
		cc := &CommandContext{Command: cmd, Dialect: Dialect{Kind: DialectMeta}}
		if err != nil {
			return cc, err
		}
		return cc, nil
	}

	cmd, err := ParseText(trimmed)
	cc := &CommandContext{Command: cmd, Dialect: Dialect{Kind: DialectText}}
	if err != nil {
		return cc, err
	}
	return cc, nil
}
