package platypus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWarmTierConfigDefaults(t *testing.T) {
	cfg := WarmTierConfig{Target: "127.0.0.1:11211"}
	client, err := NewWarmTierClient(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, client)
	defer client.Close()

	assert.Equal(t, CircuitStateClosed, client.BreakerState())
}
