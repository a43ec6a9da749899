package aal

import (
	"errors"

	"github.com/edwingeng/deque"
)

var errStackUnderflow = errors.New("call stack underflow")

// CallStack is the shared argument channel between the evaluator and native
// functions. Each dispatched call owns the items above its frame base.
type CallStack struct {
	items deque.Deque
	bases []int
}

func newCallStack() *CallStack {
	return &CallStack{items: deque.NewDeque()}
}

func (cs *CallStack) Push(v *Value) {
	cs.items.PushBack(v)
}

// Pop removes and returns the top value. Popping below the current call's
// frame base is an underflow.
func (cs *CallStack) Pop() (*Value, error) {
	if cs.Available() <= 0 {
		return nil, errStackUnderflow
	}
	return cs.items.PopBack().(*Value), nil
}

// popFrom pops the top value if it sits above base, ignoring the current
// frame boundary.
func (cs *CallStack) popFrom(base int) (*Value, error) {
	if cs.items.Len() <= base {
		return nil, errStackUnderflow
	}
	return cs.items.PopBack().(*Value), nil
}

// Top returns the top value without removing it.
func (cs *CallStack) Top() (*Value, error) {
	if cs.Available() <= 0 {
		return nil, errStackUnderflow
	}
	return cs.items.Back().(*Value), nil
}

func (cs *CallStack) Len() int { return cs.items.Len() }

func (cs *CallStack) Empty() bool { return cs.items.Empty() }

// Available is the number of items the current call may still pop.
func (cs *CallStack) Available() int {
	return cs.items.Len() - cs.base()
}

func (cs *CallStack) base() int {
	if len(cs.bases) == 0 {
		return 0
	}
	return cs.bases[len(cs.bases)-1]
}

func (cs *CallStack) enter(base int) {
	cs.bases = append(cs.bases, base)
}

func (cs *CallStack) leave() {
	if len(cs.bases) == 0 {
		return
	}
	cs.bases = cs.bases[:len(cs.bases)-1]
}

// truncate drops items until the stack is n deep.
func (cs *CallStack) truncate(n int) {
	for cs.items.Len() > n {
		cs.items.PopBack()
	}
}

// Reset empties the stack and forgets every frame.
func (cs *CallStack) Reset() {
	cs.truncate(0)
	cs.bases = cs.bases[:0]
}
