package protocol_test

import (
	"testing"

	"github.com/pior/platypus/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetaGet(t *testing.T) {
	cmd, err := protocol.ParseMeta("mg mykey v")
	require.NoError(t, err)
	assert.Equal(t, protocol.MetaGet, cmd.Kind)
	assert.Equal(t, "mykey", cmd.Key)
	assert.Equal(t, []protocol.MetaFlag{{Type: protocol.FlagReturnValue}}, cmd.MetaFlags)
}

func TestParseMetaGetWithTTLFlags(t *testing.T) {
	cmd, err := protocol.ParseMeta("mg mykey N3600 R1800")
	require.NoError(t, err)
	assert.Equal(t, []protocol.MetaFlag{
		{Type: protocol.FlagVivify, Token: "3600"},
		{Type: protocol.FlagRecache, Token: "1800"},
	}, cmd.MetaFlags)
}

func TestParseMetaNoOp(t *testing.T) {
	cmd, err := protocol.ParseMeta("mn")
	require.NoError(t, err)
	assert.Equal(t, protocol.MetaNoOp, cmd.Kind)
}

func TestParseMetaErrors(t *testing.T) {
	cases := []string{"mg", "mn extra", "mx mykey", "mg mykey x", "mg mykey Ninvalid"}
	for _, line := range cases {
		_, err := protocol.ParseMeta(line)
		assert.Error(t, err, "line %q", line)
	}
}
