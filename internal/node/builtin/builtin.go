package builtin

import (
	"sync"

	"github.com/user2862486/comfy-cloudflare-uploader/internal/node"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/node/imagenode"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/node/uploadnode"
)

var once sync.Once

// Register installs the built-in nodes into the global registry. Safe to
// call from multiple entrypoints.
func Register() {
	once.Do(func() {
		node.Register(uploadnode.New())
		node.Register(&imagenode.LoadImage{})
		node.Register(&imagenode.SaveImage{})
	})
}
