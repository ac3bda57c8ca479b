package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"dada/internal/ast"
	"dada/internal/source"
	"dada/internal/token"
)

type treeNode struct {
	label    string
	children []*treeNode
}

func (n *treeNode) add(label string, children ...*treeNode) *treeNode {
	c := &treeNode{label: label, children: children}
	n.children = append(n.children, c)
	return c
}

// FormatTree печатает синтаксическое дерево файла:
//
//	test.dada (span: 0-9)
//	└─ Item[0]: fn f (span: 0-9)
//	   ├─ Params (span: 4-6)
//	   └─ Body (span: 7-9)
func FormatTree(w io.Writer, f *ast.File, words token.Words) error {
	if f == nil {
		return fmt.Errorf("file not found")
	}
	root := buildFileTreeNode(f, words)
	var b strings.Builder
	b.WriteString(root.label)
	b.WriteByte('\n')
	renderChildren(&b, root, "")
	_, err := io.WriteString(w, b.String())
	return err
}

func renderChildren(b *strings.Builder, n *treeNode, prefix string) {
	for i, c := range n.children {
		last := i == len(n.children)-1
		branch, next := "├─ ", "│  "
		if last {
			branch, next = "└─ ", "   "
		}
		b.WriteString(prefix + branch + c.label + "\n")
		renderChildren(b, c, prefix+next)
	}
}

func buildFileTreeNode(f *ast.File, words token.Words) *treeNode {
	root := &treeNode{label: fmt.Sprintf("%s (span: %s)", f.Name, f.Span)}
	for idx, id := range f.Items {
		root.children = append(root.children, buildItemTreeNode(f.Nodes, id, words, idx))
	}
	return root
}

func buildItemTreeNode(n *ast.Nodes, id ast.ItemID, words token.Words, idx int) *treeNode {
	item := n.Item(id)
	if item == nil {
		return &treeNode{label: fmt.Sprintf("Item[%d]: <nil>", idx)}
	}
	name, _ := n.Name(id)
	node := &treeNode{label: fmt.Sprintf("Item[%d]: %s %s (span: %s)", idx, item.Kind, words.MustLookup(name), item.Span)}

	switch item.Kind {
	case ast.ItemFunction:
		fn, _ := n.Function(id)
		if fn.Effect != ast.EffectDefault {
			node.add(fmt.Sprintf("Effect: %s (span: %s)", fn.Effect, fn.EffectSpan))
		}
		addGenerics(node, n, fn.Generics, words)
		if fn.HasParams {
			addParams(node.add(fmt.Sprintf("Params (span: %s)", fn.ParamsSpan)), n, fn.Params, words)
		}
		if fn.ReturnTy.IsValid() {
			node.add("Return", tyNode(n, fn.ReturnTy, words))
		}
		addBody(node, fn.Body, fn.BodySpan)
	case ast.ItemClass:
		c, _ := n.Class(id)
		addGenerics(node, n, c.Generics, words)
		if c.HasParams {
			addParams(node.add(fmt.Sprintf("Fields (span: %s)", c.ParamsSpan)), n, c.Params, words)
		}
		addBody(node, c.Body, c.BodySpan)
	}
	return node
}

func addGenerics(node *treeNode, n *ast.Nodes, ids []ast.GenericID, words token.Words) {
	if len(ids) == 0 {
		return
	}
	g := node.add("Generics")
	for _, id := range ids {
		p := n.Generic(id)
		label := fmt.Sprintf("%s %s", p.Kind, words.MustLookup(p.Name))
		if p.Kind == ast.GenericPermission {
			label = fmt.Sprintf("%s %s %s", p.Kind, p.Perm, words.MustLookup(p.Name))
		}
		g.add(fmt.Sprintf("%s (span: %s)", label, p.Span))
	}
}

func addParams(node *treeNode, n *ast.Nodes, ids []ast.ParamID, words token.Words) {
	for _, id := range ids {
		p := n.Param(id)
		label := words.MustLookup(p.Name)
		if p.Atomic {
			label = "atomic " + label
		}
		pn := node.add(fmt.Sprintf("Param %s (span: %s)", label, p.Span))
		if p.Ty.IsValid() {
			pn.children = append(pn.children, tyNode(n, p.Ty, words))
		}
	}
}

func addBody(node *treeNode, body token.Tree, sp source.Span) {
	if body.IsZero() {
		node.add("Body: <none>")
		return
	}
	label := fmt.Sprintf("Body: %d tokens (span: %s)", len(body.Tokens()), sp)
	if body.Open() {
		label += " <open>"
	}
	node.add(label)
}

func tyNode(n *ast.Nodes, id ast.TyID, words token.Words) *treeNode {
	ty := n.Ty(id)
	return &treeNode{label: fmt.Sprintf("Type %s (span: %s)", formatTy(n, ty, words), ty.Span)}
}

func formatTy(n *ast.Nodes, ty *ast.Ty, words token.Words) string {
	var b strings.Builder
	if ty.Perm != ast.PermNone {
		b.WriteString(ty.Perm.String())
		b.WriteByte(' ')
	}
	b.WriteString(words.MustLookup(ty.Name))
	if len(ty.Args) > 0 {
		args := make([]string, len(ty.Args))
		for i, a := range ty.Args {
			args[i] = formatTy(n, n.Ty(a), words)
		}
		b.WriteString("[" + strings.Join(args, ", ") + "]")
	}
	return b.String()
}
