package msgcat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/park285/detailed-moves/internal/domain"
)

func TestSummaryLabelsPerLocale(t *testing.T) {
	en, err := New("", "")
	if err != nil {
		t.Fatalf("New en: %v", err)
	}
	es, err := New("ES", "")
	if err != nil {
		t.Fatalf("New es: %v", err)
	}
	want := map[domain.Category][2]string{
		domain.CategoryBrilliant: {"Brilliant", "Brillantes"},
		domain.CategoryExcellent: {"Excellent", "Excelentes"},
		domain.CategoryGood:      {"Good", "Buenas"},
		domain.CategoryBook:      {"Book", "De libro"},
	}
	for cat, w := range want {
		if got := en.SummaryLabel(cat); got != w[0] {
			t.Fatalf("en %s = %q", cat, got)
		}
		if got := es.SummaryLabel(cat); got != w[1] {
			t.Fatalf("es %s = %q", cat, got)
		}
	}
	if es.Locale() != "es" {
		t.Fatalf("locale = %q", es.Locale())
	}
}

func TestUnknownLocale(t *testing.T) {
	if _, err := New("fr", ""); err == nil {
		t.Fatalf("expected error for unknown locale")
	}
	locales := Locales()
	if len(locales) != 2 || locales[0] != "en" || locales[1] != "es" {
		t.Fatalf("locales = %v", locales)
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("summary:\n  book: \"Theory\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := New("en", dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.SummaryLabel(domain.CategoryBook); got != "Theory" {
		t.Fatalf("book = %q", got)
	}
	if got := c.SummaryLabel(domain.CategoryGood); got != "Good" {
		t.Fatalf("good = %q", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "b.yml"), []byte("summary:\n  book: \"Again\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := New("en", dir); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}

func TestRender(t *testing.T) {
	c, err := New("es", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := c.Render("indicator.alt", map[string]string{"Title": "Brilliant move", "Square": "f7"})
	if err != nil || out != "Brilliant move en f7" {
		t.Fatalf("render = %q err=%v", out, err)
	}
	if _, err := c.Render("indicator.alt", map[string]string{}); err == nil {
		t.Fatalf("expected missing key error")
	}
	if _, err := c.Render("nope", nil); err == nil {
		t.Fatalf("expected not found")
	}
	var nilCat *Catalog
	if got := nilCat.Text("summary.book", "fallback"); got != "fallback" {
		t.Fatalf("nil catalog text = %q", got)
	}
}

func TestEveryLocaleHasDiagnosticMessages(t *testing.T) {
	data := map[string]any{"Count": 3, "Source": "eco.json", "PGN": "1. e4", "Name": "King's Pawn", "Code": "B00", "Title": "King's Pawn"}
	for _, loc := range Locales() {
		c, err := New(loc, "")
		if err != nil {
			t.Fatalf("New(%s): %v", loc, err)
		}
		for _, key := range []string{"ecocheck.loaded", "ecocheck.match", "ecocheck.miss", "ecocheck.eco", "ecocheck.eco_none"} {
			if _, err := c.Render(key, data); err != nil {
				t.Fatalf("%s %s: %v", loc, key, err)
			}
		}
	}
}
