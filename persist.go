package hnsw

import (
	"fmt"
	"os"

	"github.com/google/renameio"
)

// SaveFile serializes the graph and atomically replaces path with the
// result: the new content either lands in full or not at all, even if
// the process is killed mid-write, via renameio's write-to-temp-then-
// rename pattern.
func (g *Graph[T, D]) SaveFile(path string) error {
	data, err := g.SerializeGraph()
	if err != nil {
		return err
	}

	t, err := renameio.TempFile("", path)
	if err != nil {
		return fmt.Errorf("hnsw: create temp file for %s: %w", path, err)
	}
	defer t.Cleanup()

	if _, err := t.Write(data); err != nil {
		return fmt.Errorf("hnsw: write %s: %w", path, err)
	}
	if err := t.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("hnsw: replace %s: %w", path, err)
	}
	return nil
}

// LoadFile reads path and deserializes it into the graph, binding ids
// to items by position as DeserializeGraph does.
func (g *Graph[T, D]) LoadFile(items []T, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("hnsw: read %s: %w", path, err)
	}
	return g.DeserializeGraph(items, data)
}
