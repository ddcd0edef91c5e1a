package tjson

import (
	"github.com/tjson/tjson/schema"
	"github.com/tjson/tjson/values"
)

// MaxObjectDepth bounds the nesting the construction stack will follow,
// the same recursion-free-traversal guarantee spec.md §9 asks for:
// depth is a parameter of the stack's capacity, not of the host call
// stack. Sized to match a conventional fixed recursion-depth guard
// constant, generalised from a fixed array to a slice since the target
// type (not just the byte grammar) now decides how deep a given document
// is allowed to go.
const MaxObjectDepth = 1024

// frame is one entry on the construction stack (spec §3's "Construction
// stacks" table, collapsed from five parallel slices into one
// slice-of-structs — see DESIGN.md).
type frame struct {
	target *schema.Type // impliedType at this nesting level

	mapNode  *values.MapValue  // set iff this frame is MAP/RECORD/union-staging-object shaped
	listNode *values.ListValue // set iff this frame is ARRAY/TUPLE/union-staging-array shaped

	listIndex int // next free index; meaningful only when listNode != nil

	isUnion    bool           // true iff this frame began as a UNION target
	candidates []*schema.Type // surviving union members; meaningful iff isUnion

	pendingField string // most recently closed field name awaiting a value
}

func (f *frame) isList() bool { return f.listNode != nil }
func (f *frame) isMap() bool  { return f.mapNode != nil }

// push appends a new open frame.
func (p *Parser) push(f *frame) error {
	if len(p.frames) >= MaxObjectDepth {
		return p.errorf("maximum nesting depth exceeded")
	}
	p.frames = append(p.frames, f)
	return nil
}

// pop removes and returns the innermost frame.
func (p *Parser) pop() *frame {
	n := len(p.frames)
	f := p.frames[n-1]
	p.frames = p.frames[:n-1]
	return f
}

// top returns the innermost open frame, or nil if none is open (i.e. we
// are still deciding what the root value is).
func (p *Parser) top() *frame {
	if len(p.frames) == 0 {
		return nil
	}
	return p.frames[len(p.frames)-1]
}

// currentTarget is the implied type that governs whatever is parsed
// next: the top frame's target, or the caller's root target if no frame
// is open yet.
func (p *Parser) currentTarget() *schema.Type {
	if f := p.top(); f != nil {
		return f.target
	}
	return p.rootTarget
}
