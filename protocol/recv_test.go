package protocol_test

import (
	"bufio"
	"strings"
	"testing"

	"github.com/pior/platypus/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineReturnsNoCommandForBlankLine(t *testing.T) {
	_, err := protocol.ParseLine("\r\n")
	assert.ErrorIs(t, err, protocol.ErrNoCommand)
}

func TestParseLinePreservesDialectOnTextError(t *testing.T) {
	cc, err := protocol.ParseLine("bogus\r\n")
	require.Error(t, err)
	require.NotNil(t, cc, "a malformed text command should still carry its dialect")
	assert.Equal(t, protocol.DialectText, cc.Dialect.Kind)
}

func TestParseLinePreservesDialectOnMetaError(t *testing.T) {
	cc, err := protocol.ParseLine("mg mykey x\r\n")
	require.Error(t, err)
	require.NotNil(t, cc, "a malformed meta command should still carry its dialect")
	assert.Equal(t, protocol.DialectMeta, cc.Dialect.Kind)
}

func TestRecvCommandParsesTextGet(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("get widget\r\n"))
	cc, err := protocol.RecvCommand(r)
	require.NoError(t, err)
	assert.Equal(t, protocol.Get, cc.Command.Kind)
	assert.Equal(t, protocol.DialectText, cc.Dialect.Kind)
}
