package hostdoc

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr updates an attribute in place or appends it at the end.
func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func RemoveAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

func Classes(n *html.Node) []string {
	v, _ := Attr(n, "class")
	return strings.Fields(v)
}

func HasClass(n *html.Node, class string) bool {
	for _, c := range Classes(n) {
		if c == class {
			return true
		}
	}
	return false
}

func AddClass(n *html.Node, class string) {
	if HasClass(n, class) {
		return
	}
	classes := append(Classes(n), class)
	SetAttr(n, "class", strings.Join(classes, " "))
}

// RemoveClasses drops the given classes and deletes the attribute once empty,
// so that add-after-remove restores the earlier attribute order.
func RemoveClasses(n *html.Node, classes ...string) {
	current := Classes(n)
	if len(current) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		drop[c] = struct{}{}
	}
	kept := current[:0]
	changed := false
	for _, c := range current {
		if _, ok := drop[c]; ok {
			changed = true
			continue
		}
		kept = append(kept, c)
	}
	if !changed {
		return
	}
	if len(kept) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(kept, " "))
}

// Text returns the concatenated text content of n.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		for ch := c.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(n)
	return b.String()
}

func Element(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

func TextNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

func InsertAfter(ref, n *html.Node) {
	if ref == nil || ref.Parent == nil {
		return
	}
	ref.Parent.InsertBefore(n, ref.NextSibling)
}

// ChildElements lists the element children of n in document order.
func ChildElements(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// IsInside reports whether n has an ancestor (up to stop) carrying class.
func IsInside(n, stop *html.Node, class string) bool {
	for p := n.Parent; p != nil && p != stop; p = p.Parent {
		if HasClass(p, class) {
			return true
		}
	}
	return false
}

// MoveContainer probes the known container paths in order and returns the
// first one holding at least one move. When containers exist but none holds
// a move, the first of them is returned so callers can tell the two apart.
func MoveContainer(root *html.Node) *html.Node {
	var first *html.Node
	for _, sel := range containerSelectors {
		for _, c := range sel.MatchAll(root) {
			if SelMove.MatchFirst(c) != nil {
				return c
			}
			if first == nil {
				first = c
			}
		}
	}
	return first
}

// PlayedMoves returns the non-placeholder moves of a container.
func PlayedMoves(container *html.Node) []*html.Node {
	if container == nil {
		return nil
	}
	return SelPlayedMove.MatchAll(container)
}

func IndexOf(nodes []*html.Node, n *html.Node) int {
	for i, c := range nodes {
		if c == n {
			return i
		}
	}
	return -1
}
