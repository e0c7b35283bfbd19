// Package protocol implements the memcached wire protocol platypus speaks
// with clients: the classic text dialect, the meta dialect, and the
// binary dialect. It parses incoming commands and serializes outgoing
// responses for whichever dialect the connection is using.
package protocol

// Kind identifies which command a parsed request represents. Go has no
// sum type, so Command is a tagged struct: Kind selects which of the
// payload fields are meaningful, mirroring the original implementation's
// Command enum.
type Kind int

const (
	Get Kind = iota
	Gets
	Gat
	Gats
	MetaGet
	MetaNoOp
	Version
	Stats
	Touch
	Quit
)

// Command is a parsed client request, dialect-agnostic.
type Command struct {
	Kind Kind

	// Keys holds the key list for Get/Gets/Gat/Gats.
	Keys []string

	// Key holds the single key for MetaGet/Touch.
	Key string

	// Exptime holds the expiration argument for Gat/Gats/Touch.
	Exptime uint32

	// MetaFlags holds the flags parsed from an mg command.
	MetaFlags []MetaFlag

	// StatsArg holds the optional argument to the stats command.
	StatsArg    string
	HasStatsArg bool
}

// DialectKind identifies which wire dialect a connection parsed a command
// with, so the response can be serialized back in the same dialect.
type DialectKind int

const (
	DialectText DialectKind = iota
	DialectMeta
	DialectBinary
)

// Dialect carries dialect-specific state needed to serialize a response,
// namely the opaque token echoed back by the binary protocol.
type Dialect struct {
	Kind   DialectKind
	Opaque uint32
}

// CommandContext pairs a parsed command with the dialect it arrived in.
type CommandContext struct {
	Command Command
	Dialect Dialect
}

// MetaFlag is a single meta-protocol flag, one letter optionally followed
// by a token, e.g. "v" or "T60" or "Omytoken".
type MetaFlag struct {
	Type  byte
	Token string
}

// HasFlagType reports whether flags contains a flag of the given type.
func HasFlagType(flags []MetaFlag, t byte) bool {
	for _, f := range flags {
		if f.Type == t {
			return true
		}
	}
	return false
}

// FlagToken returns the token for the first flag of the given type.
func FlagToken(flags []MetaFlag, t byte) (string, bool) {
	for _, f := range flags {
		if f.Type == t {
			return f.Token, true
		}
	}
	return "", false
}
