// Package msgcat holds the user-visible strings written into the host page.
package msgcat

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"

	yaml "gopkg.in/yaml.v3"

	"github.com/park285/detailed-moves/internal/domain"
)

//go:embed messages.*.yaml
var defaultFiles embed.FS

const DefaultLocale = "en"

// Catalog loads string templates for one locale from the embedded defaults,
// with the English set underneath as fallback, plus an optional override
// directory. Values are rendered with text/template (missing keys cause errors).
type Catalog struct {
	mu     sync.RWMutex
	locale string
	data   map[string]string // flattened dot-keys → template text
}

func New(locale, overrideDir string) (*Catalog, error) {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" {
		locale = DefaultLocale
	}
	c := &Catalog{locale: locale, data: make(map[string]string)}

	if err := c.loadEmbedded(DefaultLocale); err != nil {
		return nil, err
	}
	if locale != DefaultLocale {
		if err := c.loadEmbedded(locale); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(overrideDir) != "" {
		if err := c.applyDir(overrideDir); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Locales lists the embedded locales.
func Locales() []string {
	matches, _ := fs.Glob(defaultFiles, "messages.*.yaml")
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSuffix(strings.TrimPrefix(m, "messages."), ".yaml"))
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) Locale() string { return c.locale }

func (c *Catalog) loadEmbedded(locale string) error {
	name := "messages." + locale + ".yaml"
	raw, err := fs.ReadFile(defaultFiles, name)
	if err != nil {
		return fmt.Errorf("unknown locale %q: %w", locale, err)
	}
	return c.applyYAML(raw)
}

func (c *Catalog) applyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read template dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		ext := strings.ToLower(filepath.Ext(n))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, n)
		}
	}
	sort.Strings(files)
	// a key defined by more than one override file is rejected
	seen := make(map[string]string)
	for _, name := range files {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		flat, err := parseYAMLToFlat(b)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		for k := range flat {
			if prev, ok := seen[k]; ok {
				return fmt.Errorf("duplicate override key %q in %s and %s", k, prev, name)
			}
			seen[k] = name
		}
		c.merge(flat)
	}
	return nil
}

func parseYAMLToFlat(b []byte) (map[string]string, error) {
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	flat := make(map[string]string)
	if err := flattenStrings(m, "", flat); err != nil {
		return nil, err
	}
	return flat, nil
}

func (c *Catalog) applyYAML(b []byte) error {
	flat, err := parseYAMLToFlat(b)
	if err != nil {
		return err
	}
	c.merge(flat)
	return nil
}

// merge layers flat over what is loaded; later layers win.
func (c *Catalog) merge(flat map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range flat {
		c.data[k] = v
	}
}

func flattenStrings(src any, prefix string, out map[string]string) error {
	switch v := src.(type) {
	case map[string]any:
		for k, vv := range v {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if err := flattenStrings(vv, key, out); err != nil {
				return err
			}
		}
		return nil
	case string:
		if prefix == "" {
			return errors.New("string value without key prefix")
		}
		out[prefix] = v
		return nil
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported value at %s: %T", prefix, v)
	}
}

// Render executes a template by key with the provided data.
func (c *Catalog) Render(key string, data any) (string, error) {
	c.mu.RLock()
	tpl, ok := c.data[strings.TrimSpace(key)]
	c.mu.RUnlock()
	if !ok || strings.TrimSpace(tpl) == "" {
		return "", fmt.Errorf("template not found: %s", key)
	}
	t, err := template.New(key).Option("missingkey=error").Parse(tpl)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Text returns the raw value for key, or fallback when it is missing.
func (c *Catalog) Text(key, fallback string) string {
	if c == nil {
		return fallback
	}
	c.mu.RLock()
	v, ok := c.data[strings.TrimSpace(key)]
	c.mu.RUnlock()
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// SummaryLabel is the label next to a summary count.
func (c *Catalog) SummaryLabel(cat domain.Category) string {
	return c.Text("summary."+string(cat), string(cat))
}
