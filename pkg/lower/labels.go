package lower

// Label is an opaque integer handle to a point in the opcode stream,
// resolved to a switch-case index at finalization. The zero value means
// "no label" — used for the absent catch/finally slots of a protected
// region.
type Label int

// unbound is the initial value of a defined-but-not-yet-marked label:
// DefineLabel sets labels[L] to unbound, and MarkLabel later overwrites it
// with the current operation count.
const unbound = -1

// labelTable is the mapping a CodeGenerator keeps from label id to
// switch-case index. It is filled in once, during Finalize, but the table
// itself exists from construction so that ast.LabelRef nodes created
// during recording (e.g. by CreateInlineBreak) can hold a reference to it
// before it is resolved — a label can be referenced before it is marked,
// and usually is.
type labelTable struct {
	numbers map[Label]int
}

func newLabelTable() *labelTable {
	return &labelTable{numbers: make(map[Label]int)}
}

// ResolveLabel implements ast.LabelResolver.
func (t *labelTable) ResolveLabel(id int) int {
	idx, ok := t.numbers[Label(id)]
	if !ok {
		Internal("label referenced in output was never bound to a case — finalize has not run, or the label was never marked")
	}
	return idx
}

// DefineLabel allocates a fresh, unbound label.
func (cg *CodeGenerator) DefineLabel() Label {
	cg.nextLabel++
	cg.labels[cg.nextLabel] = unbound
	return cg.nextLabel
}

// MarkLabel binds L to the current operation count.
func (cg *CodeGenerator) MarkLabel(l Label) {
	if l == 0 {
		Internal("cannot mark the zero label")
	}
	cg.labels[l] = len(cg.operations)
}
