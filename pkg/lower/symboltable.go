package lower

import (
	"fmt"

	"genlower/pkg/ast"
)

// ParameterFlags annotates a parameter declared via AddParameter.
type ParameterFlags int

const (
	ParameterNone ParameterFlags = 0
	ParameterRest ParameterFlags = 1 << iota
	ParameterOptional
)

// AddParameter appends a parameter declaration stamped with the current
// location.
func (cg *CodeGenerator) AddParameter(name string, flags ParameterFlags) *ast.Parameter {
	p := ast.NewParameter(ast.NewIdentifier(name, cg.relatedLocation), cg.relatedLocation)
	cg.parameters = append(cg.parameters, p)
	return p
}

// AddFunction appends a nested function declaration to be hoisted
// verbatim into the output.
func (cg *CodeGenerator) AddFunction(decl *ast.FunctionLike) {
	cg.functions = append(cg.functions, decl)
}

// DeclareLocal returns a reusable reference node for a local slot. When
// name is empty, an anonymous slot __l{n} is allocated; otherwise the
// caller-supplied name is stored. Both lists are emitted together at the
// top of the output body. Anonymous slots are numbered past any name the
// caller has already claimed, so a caller-supplied local named "__l0"
// never collides with a later anonymous one; when the caller claims a name
// an earlier anonymous slot already holds, that slot is renamed to a fresh
// __l{n}.
func (cg *CodeGenerator) DeclareLocal(name string) *ast.Identifier {
	if name == "" {
		for {
			candidate := fmt.Sprintf("__l%d", cg.nextLocalID)
			cg.nextLocalID++
			if !cg.localNames[candidate] {
				cg.localNames[candidate] = true
				id := ast.NewIdentifier(candidate, cg.relatedLocation)
				cg.locals = append(cg.locals, id)
				return id
			}
		}
	}
	for _, anon := range cg.locals {
		if anon.Name != name {
			continue
		}
		for cg.localNames[anon.Name] {
			anon.Name = fmt.Sprintf("__l%d", cg.nextLocalID)
			cg.nextLocalID++
		}
		cg.localNames[anon.Name] = true
	}
	cg.localNames[name] = true
	id := ast.NewIdentifier(name, cg.relatedLocation)
	cg.namedLocals = append(cg.namedLocals, id)
	return id
}

// CacheExpression allocates an anonymous local, records a Statement
// opcode assigning expr to it, and returns the local's reference node.
// Used by the caller to avoid duplicate evaluation when an expression
// feeds multiple control-flow arms.
func (cg *CodeGenerator) CacheExpression(expr ast.Expr) *ast.Identifier {
	local := cg.DeclareLocal("")
	rng := cg.relatedLocation
	assign := ast.NewExpressionStatement(ast.NewAssignmentExpression(local, expr, rng), rng)
	cg.EmitStatement(assign)
	return local
}
