package main

import (
	cmd "github.com/user2862486/comfy-cloudflare-uploader/cmd/comfycf"
)

func main() {
	cmd.Execute()
}
