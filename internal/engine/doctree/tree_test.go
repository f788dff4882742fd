package doctree

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"
)

// paragraphs builds a document with one paragraph per entry, each holding
// one plain leaf per string.
func paragraphs(t *testing.T, paras ...[]string) (*Tree, [][]NodeID) {
	t.Helper()
	tr := New()
	var leaves [][]NodeID
	for _, texts := range paras {
		p := tr.AppendContainer(tr.Root(), KindParagraph)
		var row []NodeID
		for _, s := range texts {
			row = append(row, tr.AppendText(p, s, 0))
		}
		leaves = append(leaves, row)
	}
	return tr, leaves
}

func values(tr *Tree, container NodeID) []string {
	var out []string
	for _, c := range tr.Children(container) {
		out = append(out, tr.Value(c))
	}
	return out
}

func TestNewTree(t *testing.T) {
	tr := New()
	if tr.Kind(tr.Root()) != KindDocument {
		t.Errorf("expected document root, got %v", tr.Kind(tr.Root()))
	}
	if !tr.Alive(tr.Root()) {
		t.Error("root should be alive")
	}
	if err := tr.Remove(tr.Root()); !errors.Is(err, ErrRootImmutable) {
		t.Errorf("expected ErrRootImmutable, got %v", err)
	}
}

func TestAppendRejectsWrongParents(t *testing.T) {
	tr := New()
	if id := tr.AppendText(tr.Root(), "x", 0); !id.IsZero() {
		t.Error("document should not hold leaves directly")
	}
	p := tr.AppendContainer(tr.Root(), KindParagraph)
	if id := tr.AppendContainer(p, KindParagraph); !id.IsZero() {
		t.Error("paragraph should not hold containers")
	}
	if id := tr.AppendLink(p, "go", "", 0); tr.Kind(id) != KindText {
		t.Error("link without url should be plain text")
	}
}

func TestRemovedNodeGeneration(t *testing.T) {
	tr, leaves := paragraphs(t, []string{"abc"})
	old := leaves[0][0]
	ident := tr.ID(old)

	if err := tr.Remove(old); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if tr.Alive(old) {
		t.Error("removed leaf should not be alive")
	}
	if _, ok := tr.Lookup(ident); ok {
		t.Error("removed leaf should not be found by identifier")
	}

	// The freed slot is reused with a new generation.
	fresh := tr.AppendText(tr.Children(tr.Root())[0], "new", 0)
	if fresh.index != old.index {
		t.Fatalf("expected slot reuse, got %v and %v", old, fresh)
	}
	if tr.Alive(old) {
		t.Error("stale id must not resolve to the recycled slot")
	}
	if tr.Value(old) != "" {
		t.Error("stale id must not read recycled text")
	}
}

func TestLookup(t *testing.T) {
	tr, leaves := paragraphs(t, []string{"a", "b"})
	id, ok := tr.Lookup(tr.ID(leaves[0][1]))
	if !ok || id != leaves[0][1] {
		t.Errorf("Lookup returned %v, %v", id, ok)
	}
	if _, ok := tr.Lookup("not-a-uuid"); ok {
		t.Error("bad identifier should not resolve")
	}
}

func TestCompare(t *testing.T) {
	tr, leaves := paragraphs(t, []string{"a", "b"}, []string{"c"})
	a, b, c := leaves[0][0], leaves[0][1], leaves[1][0]

	tests := []struct {
		x, y NodeID
		want int
	}{
		{a, a, 0},
		{a, b, -1},
		{b, a, 1},
		{b, c, -1},
		{c, a, 1},
		{tr.Root(), a, -1},
		{tr.Parent(c), b, 1},
	}
	for _, tt := range tests {
		if got := tr.Compare(tt.x, tt.y); got != tt.want {
			t.Errorf("Compare(%v, %v) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestTraversal(t *testing.T) {
	tr, leaves := paragraphs(t, []string{"a", "b"}, []string{"c"})
	a, b, c := leaves[0][0], leaves[0][1], leaves[1][0]

	if next, ok := tr.NextText(a, false); !ok || next != b {
		t.Errorf("NextText(a) = %v, %v", next, ok)
	}
	if _, ok := tr.NextText(b, false); ok {
		t.Error("NextText without crossing should stop at container end")
	}
	if next, ok := tr.NextText(b, true); !ok || next != c {
		t.Errorf("NextText(b, cross) = %v, %v", next, ok)
	}
	if prev, ok := tr.PreviousText(c, true); !ok || prev != b {
		t.Errorf("PreviousText(c, cross) = %v, %v", prev, ok)
	}
	if _, ok := tr.PreviousText(a, true); ok {
		t.Error("first leaf should have no predecessor")
	}
	if !tr.Siblings(a, b) || tr.Siblings(b, c) {
		t.Error("Siblings mismatch")
	}
	if got := tr.Leaves(a, c); !cmp.Equal(got, []NodeID{a, b, c}, cmp.AllowUnexported(NodeID{})) {
		t.Errorf("Leaves = %v", got)
	}
}

func TestTraversalSkipsEmptyContainers(t *testing.T) {
	tr := New()
	p1 := tr.AppendContainer(tr.Root(), KindParagraph)
	a := tr.AppendText(p1, "a", 0)
	tr.AppendContainer(tr.Root(), KindBulleted)
	p2 := tr.AppendContainer(tr.Root(), KindParagraph)
	b := tr.AppendText(p2, "b", 0)

	if next, ok := tr.NextText(a, true); !ok || next != b {
		t.Errorf("NextText should skip the empty list, got %v, %v", next, ok)
	}
}

func TestClimb(t *testing.T) {
	tr := New()
	q := tr.AppendContainer(tr.Root(), KindBlockquote)
	list := tr.AppendContainer(q, KindBulleted)
	item := tr.AppendContainer(list, KindItem)
	leaf := tr.AppendText(item, "x", 0)

	if got, ok := tr.Climb(leaf, KindBulleted, KindNumbered); !ok || got != list {
		t.Errorf("Climb list = %v, %v", got, ok)
	}
	if got, ok := tr.Climb(item, KindItem); !ok || got != item {
		t.Errorf("Climb should match the node itself, got %v", got)
	}
	if got, ok := tr.Climb(leaf, KindBlockquote); !ok || got != q {
		t.Errorf("Climb quote = %v, %v", got, ok)
	}
	if _, ok := tr.Climb(leaf, KindTable); ok {
		t.Error("Climb should fail without a matching ancestor")
	}
	if top, ok := tr.TopBlock(leaf); !ok || top != q {
		t.Errorf("TopBlock = %v", top)
	}
}

func TestLeafEditing(t *testing.T) {
	tr, leaves := paragraphs(t, []string{"héllo"})
	leaf := leaves[0][0]

	if err := tr.Insert(leaf, 2, "XY"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if got := tr.Value(leaf); got != "héXYllo" {
		t.Errorf("after Insert got %q", got)
	}
	if err := tr.Extract(leaf, 2, 4); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := tr.Value(leaf); got != "héllo" {
		t.Errorf("after Extract got %q", got)
	}
	if err := tr.Cut(leaf, 1, -1); err != nil {
		t.Fatalf("Cut: %v", err)
	}
	if got := tr.Value(leaf); got != "éllo" {
		t.Errorf("after Cut got %q", got)
	}
	if err := tr.Insert(leaf, 9, "x"); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
	if err := tr.Extract(leaf, 3, 1); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
	if err := tr.Insert(tr.Root(), 0, "x"); !errors.Is(err, ErrNotLeaf) {
		t.Errorf("expected ErrNotLeaf, got %v", err)
	}
}

func TestSplit(t *testing.T) {
	tr, leaves := paragraphs(t, []string{"abcdef"})
	leaf := leaves[0][0]
	tr.Format(leaf, Bold)

	pieces, err := tr.Split(leaf, 4, 2, 0, 6, 2)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(pieces) != 3 || pieces[0] != leaf {
		t.Fatalf("unexpected pieces %v", pieces)
	}
	p := tr.Parent(leaf)
	if diff := cmp.Diff([]string{"ab", "cd", "ef"}, values(tr, p)); diff != "" {
		t.Errorf("split values mismatch (-want +got):\n%s", diff)
	}
	for _, piece := range pieces {
		if tr.Style(piece) != Bold {
			t.Errorf("piece %v lost its style", piece)
		}
	}

	// Growing the head must not clobber the following piece.
	tr.Insert(pieces[0], 2, "zz")
	if diff := cmp.Diff([]string{"abzz", "cd", "ef"}, values(tr, p)); diff != "" {
		t.Errorf("after insert (-want +got):\n%s", diff)
	}
}

func TestCreateTextAround(t *testing.T) {
	tr, leaves := paragraphs(t, []string{"mid"})
	leaf := leaves[0][0]
	if _, err := tr.CreateTextPrev(leaf, "pre", Italic); err != nil {
		t.Fatal(err)
	}
	next, err := tr.CreateTextNext(leaf, "post", 0)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"pre", "mid", "post"}, values(tr, tr.Parent(leaf))); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if tr.Kind(next) != KindText {
		t.Error("created leaf should be text")
	}
}

func TestJoin(t *testing.T) {
	tr, leaves := paragraphs(t, []string{"ab"}, []string{"cd"})
	a, c := leaves[0][0], leaves[1][0]
	second := tr.Parent(c)

	if err := tr.Join(a, c); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if tr.Value(a) != "abcd" {
		t.Errorf("joined value %q", tr.Value(a))
	}
	if tr.Alive(c) || tr.Alive(second) {
		t.Error("joined leaf and its emptied container should be removed")
	}
}

func TestMergeAcrossContainers(t *testing.T) {
	tr, leaves := paragraphs(t,
		[]string{"ab", "x"},
		[]string{"middle"},
		[]string{"cd", "tail"},
	)
	a, x, mid, c, tail := leaves[0][0], leaves[0][1], leaves[1][0], leaves[2][0], leaves[2][1]
	tr.Format(tail, Bold)

	if err := tr.Merge(a, c); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if tr.Alive(x) || tr.Alive(mid) || tr.Alive(c) {
		t.Error("leaves between and the fused leaf should be gone")
	}
	if got := len(tr.Children(tr.Root())); got != 1 {
		t.Errorf("expected 1 paragraph left, got %d", got)
	}
	if diff := cmp.Diff([]string{"abcd", "tail"}, values(tr, tr.Parent(a))); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if tr.Parent(tail) != tr.Parent(a) {
		t.Error("trailing siblings should follow into the merged container")
	}
}

func TestMergeKeepsDifferentStyles(t *testing.T) {
	tr, leaves := paragraphs(t, []string{"ab"}, []string{"cd"})
	a, c := leaves[0][0], leaves[1][0]
	tr.Format(c, Italic)

	if err := tr.Merge(a, c); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !tr.Alive(c) || !tr.Siblings(a, c) {
		t.Error("differently styled leaf should survive next to a")
	}
	if err := tr.Merge(c, a); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("reverse merge should fail, got %v", err)
	}
}

func TestDefrag(t *testing.T) {
	tr, leaves := paragraphs(t, []string{"a", "b", "", "c", "d"})
	p := tr.Parent(leaves[0][0])
	tr.Format(leaves[0][3], Bold)
	tr.Format(leaves[0][4], Bold)

	if err := tr.Defrag(tr.Root()); err != nil {
		t.Fatalf("Defrag: %v", err)
	}
	once := values(tr, p)
	if diff := cmp.Diff([]string{"ab", "cd"}, once); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	tr.Defrag(tr.Root())
	if diff := cmp.Diff(once, values(tr, p)); diff != "" {
		t.Errorf("Defrag is not idempotent (-once +twice):\n%s", diff)
	}
}

func TestDefragKeepsOneLeaf(t *testing.T) {
	tr, leaves := paragraphs(t, []string{"", ""})
	p := tr.Parent(leaves[0][0])
	tr.Defrag(p)
	if got := len(tr.Children(p)); got != 1 {
		t.Errorf("expected one placeholder leaf, got %d", got)
	}
}

func TestSplitContainer(t *testing.T) {
	tr := New()
	list := tr.AppendContainer(tr.Root(), KindNumbered)
	item := tr.AppendContainer(list, KindItem)
	tr.SetLevel(item, 2)
	tr.SetAlign(item, AlignCenter)
	tr.AppendText(item, "one", 0)
	two := tr.AppendText(item, "two", 0)

	nc, err := tr.SplitContainer(two)
	if err != nil {
		t.Fatalf("SplitContainer: %v", err)
	}
	if tr.Kind(nc) != KindItem || tr.Level(nc) != 2 || tr.Align(nc) != AlignCenter {
		t.Error("new container should copy kind and attributes")
	}
	if diff := cmp.Diff([]string{"one"}, values(tr, item)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"two"}, values(tr, nc)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	table := tr.AppendContainer(tr.Root(), KindTable)
	cell := tr.AppendContainer(tr.AppendContainer(table, KindRow), KindCell)
	leaf := tr.AppendText(cell, "x", 0)
	if _, err := tr.SplitContainer(leaf); !errors.Is(err, ErrNotSplittable) {
		t.Errorf("expected ErrNotSplittable, got %v", err)
	}
}

func kinds(tr *Tree, id NodeID) []string {
	var out []string
	for _, c := range tr.Children(id) {
		out = append(out, tr.Kind(c).String())
	}
	return out
}

func TestIndentListRoundTrip(t *testing.T) {
	tr, leaves := paragraphs(t, []string{"a"}, []string{"b"}, []string{"c"})
	p1, p2 := tr.Parent(leaves[0][0]), tr.Parent(leaves[1][0])

	if err := tr.Indent(p1, KindBulleted); err != nil {
		t.Fatal(err)
	}
	if err := tr.Indent(p2, KindBulleted); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"bulleted", "paragraph"}, kinds(tr, tr.Root())); diff != "" {
		t.Errorf("adjacent items should share a list (-want +got):\n%s", diff)
	}

	tr.Indent(p2, KindBulleted)
	if tr.Level(p2) != 1 {
		t.Errorf("expected level 1, got %d", tr.Level(p2))
	}
	tr.Unindent(p2, KindBulleted)
	if tr.Level(p2) != 0 {
		t.Errorf("expected level 0, got %d", tr.Level(p2))
	}

	tr.Unindent(p1, KindBulleted)
	tr.Unindent(p2, KindBulleted)
	if diff := cmp.Diff([]string{"paragraph", "paragraph", "paragraph"}, kinds(tr, tr.Root())); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if err := tr.Unindent(p1, KindBulleted); !errors.Is(err, ErrNotIndented) {
		t.Errorf("expected ErrNotIndented, got %v", err)
	}
}

func TestUnindentMiddleItemSplitsList(t *testing.T) {
	tr := New()
	list := tr.AppendContainer(tr.Root(), KindNumbered)
	var items []NodeID
	for _, s := range []string{"1", "2", "3"} {
		it := tr.AppendContainer(list, KindItem)
		tr.AppendText(it, s, 0)
		items = append(items, it)
	}
	if err := tr.Unindent(items[1], KindNumbered); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"numbered", "paragraph", "numbered"}, kinds(tr, tr.Root())); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestIndentRetypesItem(t *testing.T) {
	tr := New()
	list := tr.AppendContainer(tr.Root(), KindBulleted)
	a := tr.AppendContainer(list, KindItem)
	tr.AppendText(a, "a", 0)
	b := tr.AppendContainer(list, KindItem)
	tr.AppendText(b, "b", 0)

	if err := tr.Indent(b, KindNumbered); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"bulleted", "numbered"}, kinds(tr, tr.Root())); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if tr.Kind(tr.Parent(b)) != KindNumbered {
		t.Error("item should now live in a numbered list")
	}
}

func TestQuoteIndent(t *testing.T) {
	tr, leaves := paragraphs(t, []string{"a"}, []string{"b"})
	p1, p2 := tr.Parent(leaves[0][0]), tr.Parent(leaves[1][0])

	tr.Indent(p1, KindBlockquote)
	tr.Indent(p2, KindBlockquote)
	if diff := cmp.Diff([]string{"blockquote"}, kinds(tr, tr.Root())); diff != "" {
		t.Errorf("adjacent quotes should merge (-want +got):\n%s", diff)
	}
	if err := tr.Unindent(p1, KindBlockquote); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"paragraph", "blockquote"}, kinds(tr, tr.Root())); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestWrap(t *testing.T) {
	tr, leaves := paragraphs(t, []string{"a"}, []string{"b"}, []string{"c"})
	p1, p2 := tr.Parent(leaves[0][0]), tr.Parent(leaves[1][0])

	q, err := tr.Wrap(p1, p2, KindBlockquote)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"blockquote", "paragraph"}, kinds(tr, tr.Root())); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if len(tr.Children(q)) != 2 {
		t.Error("quote should hold both paragraphs")
	}
	if _, err := tr.Wrap(p1, leaves[2][0], KindBlockquote); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
}

func TestFragment(t *testing.T) {
	tr := New()
	p := tr.AppendContainer(tr.Root(), KindParagraph)
	tr.AppendText(p, "skip", 0)
	a := tr.AppendText(p, "alpha", Bold)
	list := tr.AppendContainer(tr.Root(), KindBulleted)
	item := tr.AppendContainer(list, KindItem)
	tr.SetLevel(item, 1)
	b := tr.AppendLink(item, "beta", "https://example.com", 0)
	tr.AppendText(item, "after", 0)

	f := tr.Fragment(b, a)
	if got := f.PlainText(); got != "alpha\nbeta" {
		t.Errorf("fragment text %q", got)
	}
	first, _ := f.FirstDescendant(f.Root())
	last, _ := f.LastDescendant(f.Root())
	if f.Style(first) != Bold || f.URL(last) != "https://example.com" {
		t.Error("fragment should keep leaf attributes")
	}
	if f.Level(f.Parent(last)) != 1 {
		t.Error("fragment should keep container attributes")
	}
	if f.ID(first) == tr.ID(a) {
		t.Error("fragment leaves need fresh identifiers")
	}
	// The source is untouched.
	if tr.PlainText() != "skipalpha\nbetaafter" {
		t.Errorf("source changed: %q", tr.PlainText())
	}
}

func TestTextBetween(t *testing.T) {
	tr, leaves := paragraphs(t, []string{"hello", " there"}, []string{"world"})
	got := tr.TextBetween(leaves[0][0], 2, leaves[1][0], 3)
	if got != "llo there\nwor" {
		t.Errorf("TextBetween = %q", got)
	}
	if got := tr.Containers(leaves[0][0], leaves[1][0]); len(got) != 2 {
		t.Errorf("Containers = %v", got)
	}
}

func TestDumpJSON(t *testing.T) {
	tr := New()
	p := tr.AppendContainer(tr.Root(), KindParagraph)
	tr.SetAlign(p, AlignRight)
	tr.AppendText(p, "hi ", Bold|Italic)
	tr.AppendLink(p, "there", "https://x.test", 0)

	out, err := tr.DumpJSON()
	if err != nil {
		t.Fatalf("DumpJSON: %v", err)
	}
	if !gjson.Valid(out) {
		t.Fatalf("invalid JSON: %s", out)
	}
	checks := map[string]string{
		"kind":                       "document",
		"children.0.kind":            "paragraph",
		"children.0.align":           "right",
		"children.0.children.0.text": "hi ",
		"children.0.children.1.url":  "https://x.test",
		"children.0.children.1.kind": "link",
	}
	for path, want := range checks {
		if got := gjson.Get(out, path).String(); got != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}
	styles := gjson.Get(out, "children.0.children.0.style").Array()
	if len(styles) != 2 || styles[0].String() != "bold" || styles[1].String() != "italic" {
		t.Errorf("styles = %v", styles)
	}
}

func TestParseKindAndStyle(t *testing.T) {
	if k, ok := ParseKind("Bulleted"); !ok || k != KindBulleted {
		t.Errorf("ParseKind = %v, %v", k, ok)
	}
	if _, ok := ParseKind("invalid"); ok {
		t.Error("invalid should not parse")
	}
	if s, ok := ParseStyle("strong"); !ok || s != Bold {
		t.Errorf("ParseStyle = %v, %v", s, ok)
	}
	if (Bold | Code).String() != "bold+code" {
		t.Errorf("String = %q", (Bold | Code).String())
	}
	if Style(0).Has(0) {
		t.Error("empty style should not be had")
	}
}
