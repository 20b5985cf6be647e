// Package printer renders the nodes pkg/lower produces as JavaScript
// text. pkg/lower itself never needs to render anything — it only builds
// the AST shapes — so this package exists to exercise the pass end to
// end in tests and in cmd/lowerdump. It is structured as an
// indent-tracking buffer with one dispatch method per node category.
package printer

import (
	"bytes"
	"fmt"
	"strconv"

	"genlower/pkg/ast"
)

// Printer renders ast nodes to JavaScript-flavored text.
type Printer struct {
	indentLevel int
	buf         bytes.Buffer
}

// New returns a fresh Printer.
func New() *Printer {
	return &Printer{}
}

// Print renders a single node (typically the *ast.FunctionLike the output
// builder returned) and returns the accumulated text.
func Print(n ast.Node) string {
	p := New()
	p.node(n)
	return p.buf.String()
}

func (p *Printer) indent()   { p.indentLevel++ }
func (p *Printer) dedent()   { p.indentLevel-- }
func (p *Printer) writeIndent() {
	for i := 0; i < p.indentLevel; i++ {
		p.buf.WriteString("  ")
	}
}

func (p *Printer) write(format string, args ...any) {
	fmt.Fprintf(&p.buf, format, args...)
}

func (p *Printer) writeLine(format string, args ...any) {
	p.writeIndent()
	p.write(format, args...)
	p.buf.WriteString("\n")
}

// node dispatches across every kind pkg/ast defines. Unknown node types
// fall through to a marker comment rather than panicking — a node the
// printer doesn't understand is a printer gap, not an invariant violation.
func (p *Printer) node(n ast.Node) {
	switch v := n.(type) {
	case *ast.Opaque:
		p.write(v.Text)
	case *ast.Identifier:
		p.write(v.Name)
	case *ast.Parameter:
		p.node(v.Name)
	case *ast.StringLiteral:
		p.write(strconv.Quote(v.Value))
	case *ast.NumberLiteral:
		p.write(formatNumber(v.Value))
	case *ast.Generated:
		p.generated(v)
	case *ast.LabelRef:
		p.write(strconv.Itoa(v.Resolve()))
	case *ast.ArrayLiteral:
		p.arrayLiteral(v)
	case *ast.AssignmentExpression:
		p.node(v.Target)
		p.write(" = ")
		p.node(v.Value)
	case *ast.MemberExpression:
		p.node(v.Object)
		p.write(".%s", v.Property)
	case *ast.CallExpression:
		p.callExpression(v)
	case *ast.ExpressionStatement:
		p.writeIndent()
		p.node(v.Expression)
		p.write(";\n")
	case *ast.ReturnStatement:
		p.writeIndent()
		p.write("return")
		if v.Value != nil {
			p.write(" ")
			p.node(v.Value)
		}
		p.write(";\n")
	case *ast.ThrowStatement:
		p.writeIndent()
		p.write("throw ")
		p.node(v.Value)
		p.write(";\n")
	case *ast.IfStatement:
		p.ifStatement(v)
	case *ast.Block:
		p.block(v)
	case *ast.CaseClause:
		p.caseClause(v)
	case *ast.SwitchBody:
		p.switchBody(v)
	case *ast.ClauseList:
		p.clauseList(v)
	case *ast.FunctionLike:
		p.functionLike(v)
	default:
		p.writeLine("/* unsupported node type: %T */", v)
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// generated substitutes each `{name}` placeholder in Template with the
// rendered form of Substitutions[name]. AsStatement-tagged fragments are
// indented and newline-terminated like any other statement.
func (p *Printer) generated(g *ast.Generated) {
	if g.AsStatement {
		p.writeIndent()
	}
	text := g.Template
	for name, sub := range g.Substitutions {
		rendered := Print(sub)
		text = replaceAll(text, "{"+name+"}", rendered)
	}
	p.buf.WriteString(text)
	if g.AsStatement {
		p.buf.WriteString("\n")
	}
}

func replaceAll(s, old, new string) string {
	for {
		idx := indexOf(s, old)
		if idx < 0 {
			return s
		}
		s = s[:idx] + new + s[idx+len(old):]
	}
}

func indexOf(s, sub string) int {
	n, m := len(s), len(sub)
	if m == 0 || m > n {
		return -1
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == sub {
			return i
		}
	}
	return -1
}

func (p *Printer) arrayLiteral(a *ast.ArrayLiteral) {
	p.write("[")
	for i, el := range a.Elements {
		if i > 0 {
			p.write(", ")
		}
		p.node(el)
	}
	p.write("]")
}

func (p *Printer) callExpression(c *ast.CallExpression) {
	p.node(c.Callee)
	p.write("(")
	for i, arg := range c.Args {
		if i > 0 {
			p.write(", ")
		}
		p.node(arg)
	}
	p.write(")")
}

func (p *Printer) ifStatement(i *ast.IfStatement) {
	p.writeIndent()
	p.write("if (")
	p.node(i.Condition)
	p.write(") { ")
	switch then := i.Then.(type) {
	case *ast.ReturnStatement:
		p.write("return")
		if then.Value != nil {
			p.write(" ")
			p.node(then.Value)
		}
		p.write(";")
	default:
		p.node(then)
	}
	p.write(" }\n")
}

func (p *Printer) block(b *ast.Block) {
	p.writeLine("{")
	p.indent()
	for _, s := range b.Statements {
		p.node(s)
	}
	p.dedent()
	p.writeIndent()
	p.write("}\n")
}

func (p *Printer) caseClause(c *ast.CaseClause) {
	p.writeLine("case %d:", c.CaseIndex)
	p.indent()
	for _, s := range *c.Statements {
		p.node(s)
	}
	p.dedent()
}

// clauseList prints each case clause in sequence with no enclosing switch
// header — the caller's own template already supplies that (see
// ast.ClauseList).
func (p *Printer) clauseList(l *ast.ClauseList) {
	for _, c := range l.Clauses {
		p.node(c)
	}
}

func (p *Printer) switchBody(s *ast.SwitchBody) {
	p.writeIndent()
	p.write("switch (")
	p.node(s.Label)
	p.writeLine(") {")
	p.indent()
	for _, c := range s.Clauses {
		p.node(c)
	}
	p.dedent()
	p.writeLine("}")
}

func (p *Printer) functionLike(f *ast.FunctionLike) {
	switch f.Kind {
	case ast.ArrowFunction:
		p.write("(")
		for i, param := range f.Params {
			if i > 0 {
				p.write(", ")
			}
			p.node(param)
		}
		p.write(") => ")
		p.node(f.Body)
		return
	case ast.Method, ast.Getter:
		if f.Kind == ast.Getter {
			p.write("get ")
		}
		p.write("%s", f.Name)
	default:
		p.write("function")
		if f.Name != "" {
			p.write(" %s", f.Name)
		} else {
			p.write(" ")
		}
	}
	p.write("(")
	for i, param := range f.Params {
		if i > 0 {
			p.write(", ")
		}
		p.node(param)
	}
	p.write(") ")
	p.node(f.Body)
}
