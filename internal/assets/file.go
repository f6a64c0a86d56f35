package assets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// Model is the raw content of a model file as handed to the host engine.
type Model struct {
	Path string
	Data []byte
}

// FileLoader reads models from a directory. Asset paths are rooted URLs
// such as "/assets/hex/hex.gltf" and resolve under Root.
type FileLoader struct {
	Root string
}

// Load reads the file for path.
func (l FileLoader) Load(ctx context.Context, path string) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full := filepath.Join(l.Root, filepath.FromSlash(strings.TrimPrefix(path, "/")))
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	slog.Debug("model loaded", "path", path, "size", humanize.Bytes(uint64(len(data))))
	return &Model{Path: path, Data: data}, nil
}
