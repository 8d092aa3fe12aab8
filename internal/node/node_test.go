package node

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNode struct {
	name string
}

func (n *stubNode) Info() Info {
	return Info{Type: n.name, DisplayName: n.name, Category: "test"}
}

func (n *stubNode) Execute(_ context.Context, _ Host, inputs map[string]any) (map[string]any, error) {
	return inputs, nil
}

func TestRegistry(t *testing.T) {
	Register(&stubNode{name: "B"})
	Register(&stubNode{name: "A"})

	n, ok := Get("A")
	require.True(t, ok)
	assert.Equal(t, "A", n.Info().Type)

	_, ok = Get("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"A", "B"}, Types())
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register(&stubNode{name: "dup"})
	assert.Panics(t, func() {
		Register(&stubNode{name: "dup"})
	})
}
