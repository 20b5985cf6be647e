package lower

import (
	"genlower/pkg/ast"
	"genlower/pkg/factory"
	"genlower/pkg/source"
)

// assembler holds the state threaded through one finalization pass. It
// replays the opcode log and the block-event log in lockstep — two
// independent timelines, kept deliberately separate: the live block stack
// only ever answers recording-time queries like FindBreakTarget, and is
// already empty by the time finalization runs, so the event log is the
// only thing finalization consults for block boundaries.
type assembler struct {
	cg      *CodeGenerator
	clauses []*ast.CaseClause
	current *[]ast.Stmt // the live buffer the current case clause aliases

	byOffset map[int][]Label // labels grouped by the operation index they were marked at

	blockIndex int

	// wasAbrupt/wasCompletion gate dead-code suppression within the
	// current case: once either is set, every subsequent opcode in the
	// same case is unreachable until the next label reopens a fresh one.
	wasAbrupt     bool
	wasCompletion bool
}

// finalizeSwitchBody runs the switch-body assembler exactly once and
// returns the assembled switch, ready for BuildGeneratorFunction or
// BuildAsyncFunction to wrap in their respective templates. Panics if
// called twice — a CodeGenerator is single-use.
func (cg *CodeGenerator) finalizeSwitchBody() *ast.SwitchBody {
	if cg.finalized {
		Internal("Finalize called twice on the same CodeGenerator")
	}
	if len(cg.blockStack) != 0 {
		Internal("the live block stack is not empty at finalization — caller left a block open")
	}
	cg.finalized = true

	a := &assembler{cg: cg, byOffset: make(map[int][]Label)}
	for label, idx := range cg.labels {
		if idx == unbound {
			continue // never marked — testable property 1 allows this when unreferenced
		}
		a.byOffset[idx] = append(a.byOffset[idx], label)
	}

	a.newCase(cg.locationAt(0))
	// A label marked at offset 0 — e.g. an exception block's start label,
	// marked before any opcode is recorded — names the same case the
	// unconditional initial case already is; bind it without opening a
	// second case or emitting a fix-up. __state.label starts at 0
	// regardless of whether anything was ever explicitly marked there.
	for _, label := range a.byOffset[0] {
		cg.labelTable.numbers[label] = 0
	}
	delete(a.byOffset, 0)
	if cg.hasProtectedRegions {
		a.push(factory.EmptyTrys(cg.locationAt(0)))
	}

	for i, op := range cg.operations {
		a.syncLabels(i)
		a.syncBlocks(i)
		if a.wasAbrupt || a.wasCompletion {
			continue // dead code: suppressed until the next label reopens a case
		}
		a.dispatch(op, i)
	}

	// Close any trailing labels bound at the very end of the operation
	// stream — a label marked on the last opcode still needs its own
	// case opened and fix-up applied, which only happens on this extra
	// sync pass past the end of the loop above.
	a.syncLabels(len(cg.operations))
	a.syncBlocks(len(cg.operations))

	if !a.wasCompletion {
		rng := cg.locationAt(len(cg.operations))
		if a.wasAbrupt {
			// The prior case already transferred control out; the
			// synthetic return needs a fresh case of its own, and no
			// fix-up is needed since the prior case was abrupt.
			a.newCase(rng)
		}
		a.push(factory.InlineReturn(nil, rng))
	}

	cg.opts.Debug.tracef(cg.opts.Debug.Assembler, "[lower] assembled %d case(s)\n", len(a.clauses))

	return ast.NewSwitchBody(factory.StateProperty("label", source.Range{}), a.clauses, source.Range{})
}

// locationAt returns the range recorded for operation i, or the range of
// the nearest prior operation when i is past the end of the log (used for
// the trailing label sync / synthetic return).
func (cg *CodeGenerator) locationAt(i int) source.Range {
	if i < len(cg.operations) {
		return cg.operations[i].Location
	}
	if len(cg.operations) > 0 {
		return cg.operations[len(cg.operations)-1].Location
	}
	return cg.relatedLocation
}

// newCase opens a fresh case clause and resets the abrupt/completion
// flags, without the label-index bookkeeping syncLabels layers on top —
// every call site either is syncLabels itself, or (for the trailing
// synthetic case) has already decided no label needs binding.
func (a *assembler) newCase(rng source.Range) {
	buf := make([]ast.Stmt, 0, 4)
	a.current = &buf
	idx := len(a.clauses)
	a.clauses = append(a.clauses, ast.NewCaseClause(idx, a.current, rng))
	a.wasAbrupt = false
	a.wasCompletion = false
}

func (a *assembler) push(stmt ast.Stmt) {
	*a.current = append(*a.current, stmt)
}

// syncLabels: for every label marked at operation index i, bind it to the
// about-to-be-opened case's index, and open that case — emitting a
// fall-through fix-up into the *previous* case first when that case
// neither transferred control out nor completed. Without the fix-up, a
// case that falls off its end would fall into the next case's statements
// at runtime rather than re-entering through the switch on the next
// label value, since the output is a plain switch, not real fall-through
// control flow across re-entries.
func (a *assembler) syncLabels(i int) {
	bound := a.byOffset[i]
	if len(bound) == 0 {
		return
	}
	newIndex := len(a.clauses)
	if newIndex > 0 && !a.wasAbrupt && !a.wasCompletion {
		a.push(factory.LabelAssign(newIndex, a.cg.locationAt(i)))
	}
	a.newCase(a.cg.locationAt(i))
	for _, label := range bound {
		a.cg.labelTable.numbers[label] = newIndex
	}
}

// syncBlocks: every Open event of an Exception block, up to and including
// offset i, emits a protected-region registration. Close events, and Open
// events of non-exception blocks, emit nothing — they exist only to
// support recording-time queries like FindBreakTarget.
func (a *assembler) syncBlocks(i int) {
	events := a.cg.blockEvents
	for a.blockIndex < len(events) && events[a.blockIndex].Offset <= i {
		ev := events[a.blockIndex]
		a.blockIndex++
		if ev.Action != eventOpen {
			continue
		}
		exc, ok := ev.Block.(*ExceptionBlock)
		if !ok {
			continue
		}
		rng := a.cg.locationAt(i)
		a.push(factory.PushTry(
			a.cg.labelRef(exc.StartLabel),
			a.cg.labelRef(exc.CatchLabel),
			a.cg.labelRef(exc.FinallyLabel),
			a.cg.labelRef(exc.EndLabel),
			rng,
		))
	}
}

// dispatch translates one recorded Operation into output statements.
func (a *assembler) dispatch(op Operation, i int) {
	cg := a.cg
	switch op.Code {
	case OpStatement:
		a.push(asStatement(op.Node, op.Location))

	case OpAssign:
		a.push(factory.Assign(op.Lhs, op.Rhs, op.Location))

	case OpBreak:
		a.push(factory.InlineBreak(cg.labelRef(op.Label), op.Location))
		a.wasAbrupt = true

	case OpBrTrue:
		a.push(factory.ConditionalBreak(op.Cond, false, cg.labelRef(op.Label), op.Location))

	case OpBrFalse:
		a.push(factory.ConditionalBreak(op.Cond, true, cg.labelRef(op.Label), op.Location))

	case OpYield:
		a.push(factory.InlineYield(op.Value, op.Location))
		a.wasAbrupt = true

	case OpReturn:
		a.push(factory.InlineReturn(op.Value, op.Location))
		a.wasCompletion = true

	case OpThrow:
		a.push(factory.Throw(op.Value, op.Location))
		a.wasCompletion = true

	case OpEndfinally:
		a.push(factory.InlineEndFinally(op.Location))
		a.wasAbrupt = true
	}
}

// asStatement wraps n in an expression statement unless it is already a
// statement-kind node or a pre-wrapped generated fragment meant to stand
// on its own.
func asStatement(n ast.Node, rng source.Range) ast.Stmt {
	if s, ok := n.(ast.Stmt); ok {
		return s
	}
	if g, ok := n.(*ast.Generated); ok {
		g.AsStatement = true
		return g
	}
	if e, ok := n.(ast.Expr); ok {
		return factory.ExpressionStatement(e, rng)
	}
	Internal("Statement opcode carries a node that is neither Stmt nor Expr")
	return nil
}
