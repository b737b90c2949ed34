package hostdoc

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := ParseString(s)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestClassRoundTripRestoresAttrOrder(t *testing.T) {
	doc := mustParse(t, `<div><move data-x="1"><san>e4</san></move></div>`)
	before, _ := doc.Render()

	err := doc.Update(func(root *html.Node) error {
		mv := SelMove.MatchFirst(root)
		AddClass(mv, "brilliant")
		SetAttr(mv, AttrMoveColor, "white")
		RemoveClasses(mv, "brilliant", "good")
		RemoveAttr(mv, AttrMoveColor)
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	after, _ := doc.Render()
	if before != after {
		t.Fatalf("render mismatch:\n%s\n%s", before, after)
	}
}

func TestRemoveClassesKeepsForeign(t *testing.T) {
	n := Element("move", html.Attribute{Key: "class", Val: "active good inaccuracy"})
	RemoveClasses(n, "good", "brilliant")
	if v, _ := Attr(n, "class"); v != "active inaccuracy" {
		t.Fatalf("class = %q", v)
	}
	if !HasClass(n, "active") || HasClass(n, "good") {
		t.Fatalf("unexpected classes %v", Classes(n))
	}
}

func TestMoveContainerProbeOrder(t *testing.T) {
	doc := mustParse(t, `
<div class="tview2 tview2-column"><move><san>d4</san></move></div>
<div class="analyse__moves"><div class="tview2-column"><move><san>e4</san></move></div></div>`)
	doc.Read(func(root *html.Node) {
		c := MoveContainer(root)
		if c == nil {
			t.Fatalf("no container")
		}
		if got := strings.TrimSpace(Text(c)); got != "e4" {
			t.Fatalf("picked container with %q", got)
		}
	})
}

func TestMoveContainerWithoutMoves(t *testing.T) {
	doc := mustParse(t, `<div class="gamebook"><div class="tview2-column"></div></div>`)
	doc.Read(func(root *html.Node) {
		c := MoveContainer(root)
		if c == nil || SelMove.MatchFirst(c) != nil {
			t.Fatalf("expected empty container, got %v", c)
		}
	})
	doc = mustParse(t, `<div>nothing</div>`)
	doc.Read(func(root *html.Node) {
		if c := MoveContainer(root); c != nil {
			t.Fatalf("expected nil container")
		}
	})
}

func TestInsertAfterAndText(t *testing.T) {
	doc := mustParse(t, `<move><san>Nf3</san><eval>0.3</eval></move>`)
	doc.Update(func(root *html.Node) error {
		sanNode := SelSAN.MatchFirst(root)
		g := Element(TagGlyph, html.Attribute{Key: AttrTitle, Val: "Good move"})
		g.AppendChild(TextNode("!"))
		InsertAfter(sanNode, g)
		return nil
	})
	out, _ := doc.Render()
	if !strings.Contains(out, `<san>Nf3</san><glyph title="Good move">!</glyph><eval>`) {
		t.Fatalf("glyph not placed after san: %s", out)
	}
}

func TestIsInside(t *testing.T) {
	doc := mustParse(t, `<san>e4<span class="book-icon-wrapper"><i class="fas fa-book"></i></span><i class="fa-book"></i></san>`)
	doc.Read(func(root *html.Node) {
		sanNode := SelSAN.MatchFirst(root)
		icons := SelBookIcon.MatchAll(sanNode)
		if len(icons) != 2 {
			t.Fatalf("icons = %d", len(icons))
		}
		if !IsInside(icons[0], sanNode, ClassBookWrapper) {
			t.Fatalf("first icon should be wrapped")
		}
		if IsInside(icons[1], sanNode, ClassBookWrapper) {
			t.Fatalf("second icon should be bare")
		}
	})
}
