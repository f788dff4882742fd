package doctree

import (
	"github.com/tidwall/sjson"
)

// DumpJSON renders the tree as JSON for inspection and debugging. It is a
// view of the tree, not a storage format: identifiers are regenerated when
// a document is rebuilt.
func (t *Tree) DumpJSON() (string, error) {
	return t.dumpNode(t.root)
}

func (t *Tree) dumpNode(id NodeID) (string, error) {
	n := t.node(id)
	out, err := sjson.Set("{}", "id", n.uid.String())
	if err != nil {
		return "", err
	}
	if out, err = sjson.Set(out, "kind", n.kind.String()); err != nil {
		return "", err
	}

	if n.kind.IsLeaf() {
		if out, err = sjson.Set(out, "text", string(n.text)); err != nil {
			return "", err
		}
		if n.style != 0 {
			if out, err = sjson.Set(out, "style", n.style.Names()); err != nil {
				return "", err
			}
		}
		if n.kind == KindLink {
			if out, err = sjson.Set(out, "url", n.url); err != nil {
				return "", err
			}
		}
		return out, nil
	}

	if n.level > 0 {
		if out, err = sjson.Set(out, "level", n.level); err != nil {
			return "", err
		}
	}
	if n.align != AlignLeft {
		if out, err = sjson.Set(out, "align", n.align.String()); err != nil {
			return "", err
		}
	}
	if out, err = sjson.SetRaw(out, "children", "[]"); err != nil {
		return "", err
	}
	for _, c := range t.node(id).children {
		child, err := t.dumpNode(c)
		if err != nil {
			return "", err
		}
		if out, err = sjson.SetRaw(out, "children.-1", child); err != nil {
			return "", err
		}
	}
	return out, nil
}
