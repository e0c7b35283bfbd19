package protocol_test

import (
	"testing"

	"github.com/pior/platypus/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTextCommands(t *testing.T) {
	cases := []struct {
		name string
		line string
		want protocol.Command
	}{
		{"get single", "get mykey", protocol.Command{Kind: protocol.Get, Keys: []string{"mykey"}}},
		{"get multiple", "get key1 key2 key3", protocol.Command{Kind: protocol.Get, Keys: []string{"key1", "key2", "key3"}}},
		{"gets", "gets mykey", protocol.Command{Kind: protocol.Gets, Keys: []string{"mykey"}}},
		{"gat", "gat 3600 mykey", protocol.Command{Kind: protocol.Gat, Exptime: 3600, Keys: []string{"mykey"}}},
		{"gats", "gats 3600 key1 key2", protocol.Command{Kind: protocol.Gats, Exptime: 3600, Keys: []string{"key1", "key2"}}},
		{"version", "version", protocol.Command{Kind: protocol.Version}},
		{"stats", "stats", protocol.Command{Kind: protocol.Stats}},
		{"stats with arg", "stats slabs", protocol.Command{Kind: protocol.Stats, StatsArg: "slabs", HasStatsArg: true}},
		{"touch", "touch mykey 3600", protocol.Command{Kind: protocol.Touch, Key: "mykey", Exptime: 3600}},
		{"quit", "quit", protocol.Command{Kind: protocol.Quit}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := protocol.ParseText(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseTextErrors(t *testing.T) {
	cases := []string{"get", "gat mykey", "touch mykey notanumber", "bogus", ""}
	for _, line := range cases {
		_, err := protocol.ParseText(line)
		assert.Error(t, err, "line %q", line)
	}
}
