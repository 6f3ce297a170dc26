package types

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Print writes an indented, depth-first rendering of t to w, one node per
// line, following the same recursive-descent-with-indent shape as a
// compiler AST printer: each line is the node's String() form, preceded by
// a depth-proportional indent, and children recurse before siblings.
func Print(w io.Writer, t *Type) error {
	pp := &printer{w: w}
	pp.print(t, 0)
	return pp.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) print(t *Type, depth int) {
	if p.err != nil || t == nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat(". ", depth), t.describe())
	if p.err != nil {
		return
	}
	p.print(t.Elem, depth+1)
	p.print(t.Index, depth+1)
	for _, m := range t.Members {
		p.print(m, depth+1)
	}
	for _, a := range t.Arguments {
		p.print(a, depth+1)
	}
	for _, a := range t.TypeArguments {
		p.print(a, depth+1)
	}
	for _, a := range t.ExtendsArguments {
		p.print(a, depth+1)
	}
	for _, param := range t.Parameters {
		p.print(param, depth+1)
	}
	p.print(t.Return, depth+1)
	for _, part := range t.TemplateParts {
		p.print(part, depth+1)
	}
}

// describe renders a single node's own shape, without descending into its
// children (those are printed by the caller at the next indent level).
func (t *Type) describe() string {
	var sb strings.Builder
	sb.WriteString(t.String())
	if t.Name != "" {
		fmt.Fprintf(&sb, " %q", t.Name)
	}
	if t.Optional {
		sb.WriteString(" optional")
	}
	if t.Readonly {
		sb.WriteString(" readonly")
	}
	if t.Visibility != Public {
		fmt.Fprintf(&sb, " %s", t.Visibility)
	}
	if len(t.Annotations) > 0 {
		keys := make([]string, 0, len(t.Annotations))
		for k := range t.Annotations {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(&sb, " annotations=%s", strings.Join(keys, ","))
	}
	return sb.String()
}
