package platypus

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestWriterNilClientIsNoOp(t *testing.T) {
	w := NewWriter(nil, 4, zerolog.Nop())
	defer w.Shutdown()

	w.Send(WriteJob{Key: "k", Value: []byte("v"), TTL: time.Second})
}

func TestWriterDropsWhenQueueFull(t *testing.T) {
	client, err := NewWarmTierClient(WarmTierConfig{Target: "127.0.0.1:1"})
	if err != nil {
		t.Fatalf("NewWarmTierClient: %v", err)
	}
	defer client.Close()

	w := NewWriter(client, 1, zerolog.Nop())
	defer w.Shutdown()

	w.Send(WriteJob{Key: "a", Value: []byte("1"), TTL: time.Second})
	w.Send(WriteJob{Key: "b", Value: []byte("2"), TTL: time.Second})
	w.Send(WriteJob{Key: "c", Value: []byte("3"), TTL: time.Second})
}

func TestWriterShutdownDrains(t *testing.T) {
	w := NewWriter(nil, 8, zerolog.Nop())
	for i := 0; i < 5; i++ {
		w.Send(WriteJob{Key: "k", Value: []byte("v"), TTL: time.Second})
	}
	w.Shutdown()
}
