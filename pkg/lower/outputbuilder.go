package lower

import (
	"genlower/pkg/ast"
	"genlower/pkg/factory"
	"genlower/pkg/source"
)

// localsDeclaration builds the single `var a, b, __l0, __l1;` declaration
// statement hoisting every local the symbol table accumulated, or nil when
// there are none to declare.
func (cg *CodeGenerator) localsDeclaration(rng source.Range) ast.Node {
	all := make([]ast.Node, 0, len(cg.namedLocals)+len(cg.locals))
	for _, id := range cg.namedLocals {
		all = append(all, id)
	}
	for _, id := range cg.locals {
		all = append(all, id)
	}
	if len(all) == 0 {
		return nil
	}
	subs := make(map[string]ast.Node, len(all))
	names := make([]string, len(all))
	for i, id := range all {
		key := identKey(i)
		names[i] = "{" + key + "}"
		subs[key] = id
	}
	template := "var "
	for i, n := range names {
		if i > 0 {
			template += ", "
		}
		template += n
	}
	template += ";"
	g := factory.Generated(template, subs, rng)
	g.AsStatement = true
	return g
}

func identKey(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	if i < len(letters) {
		return string(letters[i])
	}
	return "v" + string(rune('0'+i))
}

// hoistedFunctionStatements wraps every function the symbol table
// accumulated via AddFunction as a standalone statement, in insertion
// order.
func (cg *CodeGenerator) hoistedFunctionStatements() []ast.Stmt {
	stmts := make([]ast.Stmt, len(cg.functions))
	for i, fn := range cg.functions {
		stmts[i] = fn
	}
	return stmts
}

// wrapperBody assembles the statements common to both the generator and
// async templates: an optional locals declaration, the hoisted function
// declarations, then the trailing return-wrapped switch. extraSubs carries
// template placeholders beyond "clauses" (e.g. "promiseCtor" for the async
// form).
func (cg *CodeGenerator) wrapperBody(switchBody *ast.SwitchBody, wrapTemplate string, extraSubs map[string]ast.Node, rng source.Range) *ast.Block {
	var stmts []ast.Stmt
	if decl := cg.localsDeclaration(rng); decl != nil {
		stmts = append(stmts, decl.(ast.Stmt))
	}
	stmts = append(stmts, cg.hoistedFunctionStatements()...)
	subs := map[string]ast.Node{"clauses": ast.NewClauseList(switchBody.Clauses, rng)}
	for k, v := range extraSubs {
		subs[k] = v
	}
	wrapper := factory.Generated(wrapTemplate, subs, rng)
	wrapper.AsStatement = true
	stmts = append(stmts, wrapper)
	return ast.NewBlock(stmts, rng)
}

const generatorWrapperTemplate = "return __generator(function (__state) { switch (__state.label) { {clauses} } });"

const asyncWrapperTemplate = "return new {promiseCtor}(function (__resolve) { __resolve(__awaiter(__generator(function (__state) { switch (__state.label) { {clauses} } }))); });"

// BuildGeneratorFunction runs Finalize and wraps the assembled switch body
// in the generator template. kind selects the outer node shape; name may
// be empty for expressions and arrows.
func (cg *CodeGenerator) BuildGeneratorFunction(kind ast.FunctionKind, name string, rng source.Range) *ast.FunctionLike {
	switchBody := cg.finalizeSwitchBody()
	body := cg.wrapperBody(switchBody, generatorWrapperTemplate, nil, rng)
	return ast.NewFunctionLike(kind, name, cg.parameters, body, rng)
}

// BuildAsyncFunction runs Finalize and wraps the assembled switch body in
// the async template: the generator is driven by __awaiter inside a
// promiseCtor executor.
func (cg *CodeGenerator) BuildAsyncFunction(kind ast.FunctionKind, name, promiseCtor string, rng source.Range) *ast.FunctionLike {
	switchBody := cg.finalizeSwitchBody()
	body := cg.wrapperBody(switchBody, asyncWrapperTemplate, map[string]ast.Node{
		"promiseCtor": ast.NewIdentifier(promiseCtor, rng),
	}, rng)
	return ast.NewFunctionLike(kind, name, cg.parameters, body, rng)
}
