// internal/plugin/photo.go
package plugin

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // photo frame decodes jpeg and png
	_ "image/png"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// PhotoFrame cycles through images in a directory, letterboxed to the
// panel. Grayscale panels make it an actual picture frame; BW panels get
// whatever the threshold leaves of it.
type PhotoFrame struct {
	name string
	dir  string
	rand bool

	mu   sync.Mutex
	next int
}

// NewPhotoFrame builds a photo frame generator.
// Params: "dir" (required), "order" ("sequential" default, or "random").
func NewPhotoFrame(name string, params map[string]string) (*PhotoFrame, error) {
	dir := params["dir"]
	if dir == "" {
		return nil, fmt.Errorf("plugin: photo %q: param \"dir\" required", name)
	}
	order := params["order"]
	if order != "" && order != "sequential" && order != "random" {
		return nil, fmt.Errorf("plugin: photo %q: unknown order %q", name, order)
	}
	return &PhotoFrame{
		name: name,
		dir:  dir,
		rand: order == "random",
	}, nil
}

func (p *PhotoFrame) Name() string {
	return p.name
}

func (p *PhotoFrame) Generate(_ context.Context, req Request) (image.Image, error) {
	paths, err := p.listPhotos()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("plugin: photo %q: no images in %s", p.name, p.dir)
	}

	path := paths[p.pick(len(paths))]

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("plugin: photo %q: %w", p.name, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("plugin: photo %q: decode %s: %w", p.name, path, err)
	}

	return fitInto(src, req.Width, req.Height), nil
}

func (p *PhotoFrame) listPhotos() ([]string, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, fmt.Errorf("plugin: photo %q: %w", p.name, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg":
			paths = append(paths, filepath.Join(p.dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (p *PhotoFrame) pick(n int) int {
	if p.rand {
		return rand.Intn(n)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.next % n
	p.next++
	return i
}
