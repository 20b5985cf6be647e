package lower

import (
	"genlower/pkg/ast"
	"genlower/pkg/factory"
	"genlower/pkg/source"
	"golang.org/x/text/unicode/norm"
)

func stateErrorExpr(rng source.Range) ast.Expr {
	return factory.StateProperty("error", rng)
}

// BlockKind tags a block scope's variant.
type BlockKind int

const (
	ExceptionBlockKind BlockKind = iota
	BreakBlockKind
	ContinueBlockKind
	ScriptBreakBlockKind
	ScriptContinueBlockKind
)

// Block is implemented by every block-scope variant.
type Block interface {
	Kind() BlockKind
}

// ExceptionState is the monotonic state ladder a protected region moves
// through: Try → Catch → Finally → Done.
type ExceptionState int

const (
	StateTry ExceptionState = iota
	StateCatch
	StateFinally
	StateDone
)

// ExceptionBlock models one try/catch/finally region.
type ExceptionBlock struct {
	State         ExceptionState
	StartLabel    Label
	CatchLabel    Label // zero if no catch clause was ever begun
	CatchVariable ast.Expr
	FinallyLabel  Label // zero if no finally clause was ever begun
	EndLabel      Label
}

func (*ExceptionBlock) Kind() BlockKind { return ExceptionBlockKind }

// breakBlock is the common shape of every break-capable block.
// labelText is the empty string for an unlabelled block, matching
// findBreakTarget's "!labelText || block.labelText === labelText": a
// query with no requested text matches the nearest breakable block
// regardless of that block's own labelText.
type breakBlock struct {
	BreakLabel Label
	LabelText  string
}

// BreakBlock hosts a labelled or unlabelled breakable construct that is
// not also a continue target (e.g. a switch, or a labelled block).
type BreakBlock struct{ breakBlock }

func (*BreakBlock) Kind() BlockKind { return BreakBlockKind }

// ContinueBlock hosts a loop: both a break target (its own breakLabel)
// and a continue target (the pre-existing label the caller passed in).
type ContinueBlock struct {
	breakBlock
	ContinueLabel Label
}

func (*ContinueBlock) Kind() BlockKind { return ContinueBlockKind }

// ScriptBreakBlock is the outermost synthetic block hosting a top-level
// labelled statement; it behaves identically to BreakBlock for target
// resolution.
type ScriptBreakBlock struct{ breakBlock }

func (*ScriptBreakBlock) Kind() BlockKind { return ScriptBreakBlockKind }

// ScriptContinueBlock is the top-level analogue of ContinueBlock.
type ScriptContinueBlock struct {
	breakBlock
	ContinueLabel Label
}

func (*ScriptContinueBlock) Kind() BlockKind { return ScriptContinueBlockKind }

// eventAction tags one entry in the block-event log.
type eventAction int

const (
	eventOpen eventAction = iota
	eventClose
)

// blockEvent is one entry of the parallel (action, operation_offset,
// block) arrays the finalization pass replays to reconstruct block
// boundaries after recording has finished. The same block object appears
// twice: once Open, once Close.
type blockEvent struct {
	Action eventAction
	Offset int
	Block  Block
}

func (cg *CodeGenerator) pushBlock(b Block) {
	cg.blockStack = append(cg.blockStack, b)
	cg.blockEvents = append(cg.blockEvents, blockEvent{eventOpen, len(cg.operations), b})
	cg.opts.Debug.tracef(cg.opts.Debug.Blocks, "[lower] push block kind=%d depth=%d at op %d\n", b.Kind(), len(cg.blockStack), len(cg.operations))
}

// popBlock pops the live stack and records the matching Close event.
// Panics (an invariant violation, not a user error) if the stack is
// empty or the top block is not of the expected kind.
func (cg *CodeGenerator) popBlock(expect BlockKind) Block {
	n := len(cg.blockStack)
	if n == 0 {
		Internal("popBlock on an empty block stack")
	}
	b := cg.blockStack[n-1]
	if b.Kind() != expect {
		Internal("popBlock expected kind %d, found %d — caller closed the wrong block", expect, b.Kind())
	}
	cg.blockStack = cg.blockStack[:n-1]
	cg.blockEvents = append(cg.blockEvents, blockEvent{eventClose, len(cg.operations), b})
	cg.opts.Debug.tracef(cg.opts.Debug.Blocks, "[lower] pop block kind=%d depth=%d at op %d\n", b.Kind(), len(cg.blockStack), len(cg.operations))
	return b
}

func normalizeLabelText(s string) string {
	return norm.NFC.String(s)
}

func labelTextsMatch(query, candidate string) bool {
	if query == "" {
		return true
	}
	return normalizeLabelText(query) == normalizeLabelText(candidate)
}

// --- Break/continue blocks ---

// BeginBreakBlock allocates a fresh break label, pushes a Break block, and
// returns the label so the caller can target it.
func (cg *CodeGenerator) BeginBreakBlock(labelText string) Label {
	l := cg.DefineLabel()
	cg.pushBlock(&BreakBlock{breakBlock{BreakLabel: l, LabelText: labelText}})
	return l
}

// EndBreakBlock pops the current Break block and marks its label at the
// current position.
func (cg *CodeGenerator) EndBreakBlock() {
	b := cg.popBlock(BreakBlockKind).(*BreakBlock)
	if b.BreakLabel > 0 {
		cg.MarkLabel(b.BreakLabel)
	}
}

// BeginContinueBlock takes a pre-existing continue target (typically the
// loop-head label the caller already defined) and allocates a new break
// label for the loop as a whole.
func (cg *CodeGenerator) BeginContinueBlock(continueLabel Label, labelText string) Label {
	l := cg.DefineLabel()
	cg.pushBlock(&ContinueBlock{breakBlock{BreakLabel: l, LabelText: labelText}, continueLabel})
	return l
}

// EndContinueBlock pops the current Continue block and marks its break
// label at the current position.
func (cg *CodeGenerator) EndContinueBlock() {
	b := cg.popBlock(ContinueBlockKind).(*ContinueBlock)
	if b.BreakLabel > 0 {
		cg.MarkLabel(b.BreakLabel)
	}
}

// BeginScriptBreakBlock hosts a top-level labelled statement without
// synthesizing additional control flow. The field is named labelText
// consistently with every other block variant, rather than labelSymbol or
// any other alias — one name for the same concept across every block kind
// keeps labelTextsMatch's comparisons uniform.
func (cg *CodeGenerator) BeginScriptBreakBlock(labelText string) Label {
	l := cg.DefineLabel()
	cg.pushBlock(&ScriptBreakBlock{breakBlock{BreakLabel: l, LabelText: labelText}})
	return l
}

// EndScriptBreakBlock pops the current ScriptBreak block.
func (cg *CodeGenerator) EndScriptBreakBlock() {
	b := cg.popBlock(ScriptBreakBlockKind).(*ScriptBreakBlock)
	if b.BreakLabel > 0 {
		cg.MarkLabel(b.BreakLabel)
	}
}

// BeginScriptContinueBlock is the top-level analogue of BeginContinueBlock.
func (cg *CodeGenerator) BeginScriptContinueBlock(continueLabel Label, labelText string) Label {
	l := cg.DefineLabel()
	cg.pushBlock(&ScriptContinueBlock{breakBlock{BreakLabel: l, LabelText: labelText}, continueLabel})
	return l
}

// EndScriptContinueBlock pops the current ScriptContinue block.
func (cg *CodeGenerator) EndScriptContinueBlock() {
	b := cg.popBlock(ScriptContinueBlockKind).(*ScriptContinueBlock)
	if b.BreakLabel > 0 {
		cg.MarkLabel(b.BreakLabel)
	}
}

// FindBreakTarget walks the live block stack from top to bottom and
// returns the breakLabel of the nearest block that supports break (Break,
// Continue, ScriptBreak, ScriptContinue) and either has no requested
// label text or whose own labelText matches it. Returns 0 when no target
// is found — the caller is responsible for diagnosing this as a user
// input error.
func (cg *CodeGenerator) FindBreakTarget(labelText string) Label {
	for i := len(cg.blockStack) - 1; i >= 0; i-- {
		switch b := cg.blockStack[i].(type) {
		case *BreakBlock:
			if labelTextsMatch(labelText, b.LabelText) {
				return b.BreakLabel
			}
		case *ContinueBlock:
			if labelTextsMatch(labelText, b.LabelText) {
				return b.BreakLabel
			}
		case *ScriptBreakBlock:
			if labelTextsMatch(labelText, b.LabelText) {
				return b.BreakLabel
			}
		case *ScriptContinueBlock:
			if labelTextsMatch(labelText, b.LabelText) {
				return b.BreakLabel
			}
		}
	}
	return 0
}

// FindContinueTarget is findBreakTarget's analogue over Continue and
// ScriptContinue blocks only, returning 0 symmetrically with
// FindBreakTarget when no target is found.
func (cg *CodeGenerator) FindContinueTarget(labelText string) Label {
	for i := len(cg.blockStack) - 1; i >= 0; i-- {
		switch b := cg.blockStack[i].(type) {
		case *ContinueBlock:
			if labelTextsMatch(labelText, b.LabelText) {
				return b.ContinueLabel
			}
		case *ScriptContinueBlock:
			if labelTextsMatch(labelText, b.LabelText) {
				return b.ContinueLabel
			}
		}
	}
	return 0
}

// --- Exception blocks ---

func (cg *CodeGenerator) topException() *ExceptionBlock {
	n := len(cg.blockStack)
	if n == 0 {
		Internal("no enclosing exception block")
	}
	b, ok := cg.blockStack[n-1].(*ExceptionBlock)
	if !ok {
		Internal("innermost block is not an exception block")
	}
	return b
}

// BeginExceptionBlock allocates startLabel/endLabel, marks startLabel,
// pushes an Exception block in state Try, sets hasProtectedRegions, and
// returns endLabel.
func (cg *CodeGenerator) BeginExceptionBlock() Label {
	start := cg.DefineLabel()
	end := cg.DefineLabel()
	cg.MarkLabel(start)
	cg.pushBlock(&ExceptionBlock{State: StateTry, StartLabel: start, EndLabel: end})
	cg.hasProtectedRegions = true
	return end
}

// BeginCatchBlock asserts state < Catch, emits Break(endLabel), allocates
// and marks catchLabel, advances to Catch, and emits the handler's error
// binding assignment.
func (cg *CodeGenerator) BeginCatchBlock(variable ast.Expr) {
	b := cg.topException()
	if b.State >= StateCatch {
		Internal("beginCatchBlock called after the exception block already entered Catch")
	}
	cg.EmitBreak(b.EndLabel)
	catchLabel := cg.DefineLabel()
	cg.MarkLabel(catchLabel)
	b.CatchLabel = catchLabel
	b.CatchVariable = variable
	b.State = StateCatch
	cg.EmitAssign(variable, stateErrorExpr(cg.relatedLocation))
}

// BeginFinallyBlock asserts state < Finally, emits Break(endLabel),
// allocates and marks finallyLabel, and advances to Finally.
func (cg *CodeGenerator) BeginFinallyBlock() {
	b := cg.topException()
	if b.State >= StateFinally {
		Internal("beginFinallyBlock called after the exception block already entered Finally")
	}
	cg.EmitBreak(b.EndLabel)
	finallyLabel := cg.DefineLabel()
	cg.MarkLabel(finallyLabel)
	b.FinallyLabel = finallyLabel
	b.State = StateFinally
}

// EndExceptionBlock closes the region: emits Break(endLabel) on the
// normal-completion path, or Endfinally when a finally block was
// entered; marks endLabel; advances to Done; pops the block.
func (cg *CodeGenerator) EndExceptionBlock() {
	b := cg.topException()
	if b.State == StateTry {
		Internal("endExceptionBlock requires at least a catch or finally clause")
	}
	if b.State < StateFinally {
		cg.EmitBreak(b.EndLabel)
	} else {
		cg.EmitEndFinally()
	}
	cg.MarkLabel(b.EndLabel)
	b.State = StateDone
	cg.popBlock(ExceptionBlockKind)
}
