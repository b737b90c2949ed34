// Package hostdoc keeps the in-memory mirror of the analysis page and the
// structural markers used to read and annotate it.
package hostdoc

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// Document is the mirror of the host page. All access goes through Read or
// Update so that host snapshots and annotation passes never interleave.
type Document struct {
	mu   sync.Mutex
	root *html.Node
}

func New() *Document {
	return &Document{root: emptyRoot()}
}

func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse host document: %w", err)
	}
	return &Document{root: root}, nil
}

func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Replace swaps the mirror for a fresh snapshot.
func (d *Document) Replace(r io.Reader) error {
	root, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("parse host snapshot: %w", err)
	}
	d.mu.Lock()
	d.root = root
	d.mu.Unlock()
	return nil
}

func (d *Document) Read(fn func(root *html.Node)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.root)
}

func (d *Document) Update(fn func(root *html.Node) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(d.root)
}

// Render serializes the whole mirror.
func (d *Document) Render() (string, error) {
	var out string
	var err error
	d.Read(func(root *html.Node) {
		out, err = Render(root)
	})
	return out, err
}

func Render(n *html.Node) (string, error) {
	if n == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("render node: %w", err)
	}
	return buf.String(), nil
}

func emptyRoot() *html.Node {
	root, err := html.Parse(strings.NewReader("<html><head></head><body></body></html>"))
	if err != nil {
		return &html.Node{Type: html.DocumentNode}
	}
	return root
}
