package content

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed default
var defaultContent embed.FS

// Default returns the content bundled with the binary.
func Default() fs.FS {
	sub, err := fs.Sub(defaultContent, "default")
	if err != nil {
		panic(err)
	}
	return sub
}

// Open returns the content filesystem for dir, or the bundled content when
// dir is empty.
func Open(dir string) fs.FS {
	if dir == "" {
		return Default()
	}
	return os.DirFS(dir)
}
