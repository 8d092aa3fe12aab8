package node

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/user2862486/comfy-cloudflare-uploader/internal/config"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/services/fileuploader"
	"go.uber.org/zap"
)

// Host is the capability surface the pipeline runtime exposes to nodes.
// Nodes receive it on every Execute call; they hold no state of their own
// between invocations.
type Host interface {
	Logger() *zap.Logger
	Config() *config.Config
	Uploader() *fileuploader.Uploader
}

// InputSpec describes one declared node input for hosts that render UIs or
// validate workflows ahead of execution.
type InputSpec struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Default  any    `json:"default,omitempty"`
}

// Info is the node metadata a host uses to register and display the node.
type Info struct {
	Type        string      `json:"type"`
	DisplayName string      `json:"display_name"`
	Category    string      `json:"category"`
	Inputs      []InputSpec `json:"inputs"`
	Outputs     []string    `json:"outputs"`
	// OutputNode marks nodes whose side effects are the point of running
	// the workflow, so hosts never prune them as dead ends.
	OutputNode bool `json:"output_node"`
}

// Node is a single pluggable pipeline step. Execute receives resolved
// inputs keyed by the names declared in Info and returns outputs keyed by
// Info's output names.
type Node interface {
	Info() Info
	Execute(ctx context.Context, host Host, inputs map[string]any) (map[string]any, error)
}

var (
	mu       sync.RWMutex
	registry = make(map[string]Node)
)

// Register adds a node to the global registry under its Info type name.
// Registering the same type twice is a programming error.
func Register(n Node) {
	mu.Lock()
	defer mu.Unlock()

	name := n.Info().Type
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("node type already registered: %s", name))
	}

	registry[name] = n
}

// Get looks up a registered node by type name.
func Get(name string) (Node, bool) {
	mu.RLock()
	defer mu.RUnlock()

	n, ok := registry[name]
	return n, ok
}

// Types returns the registered node type names, sorted.
func Types() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}
