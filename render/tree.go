// Package render prints a dataflow graph's topology as a tree, for the
// `tapline render` CLI subcommand and for debugging.
package render

import (
	"github.com/xlab/treeprint"

	"github.com/tapline-dev/tapline/flow"
)

// Describable is implemented by anything render.Tree can print: it supplies
// a label. A node that also has a Children method has its children rendered
// as branches. Every operator type built on flow.Node gets both via
// embedding.
type Describable interface {
	Describe() string
}

// downstream is implemented by nodes that expose their subscriber list.
type downstream interface {
	Children() []flow.Pushable
}

// Tree renders root and everything reachable from it as an indented tree
// string. root must also implement Describable (flow.Node does).
func Tree(root Describable) string {
	t := treeprint.New()
	t.SetValue(root.Describe())
	visit(t, root, make(map[Describable]bool))
	return t.String()
}

func visit(branch treeprint.Tree, node Describable, seen map[Describable]bool) {
	if seen[node] {
		return
	}
	seen[node] = true

	down, ok := node.(downstream)
	if !ok {
		return
	}
	for _, child := range down.Children() {
		desc, ok := child.(Describable)
		if !ok {
			continue
		}
		childBranch := branch.AddBranch(desc.Describe())
		visit(childBranch, desc, seen)
	}
}
