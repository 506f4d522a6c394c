// Package proj implements the single-source and multi-source projectors:
// logical specs that resolve name-to-position mappings against concrete
// schemas and produce stable, bound attribute-flow graphs.
package proj

import (
	"fmt"
	"strings"

	"github.com/dot5enko/supersonic/failure"
	"github.com/dot5enko/supersonic/tschema"
)

// SingleSourceProjector is the unbound, logical spec for deriving a result
// schema (and a routing from it back to source positions) from one input
// schema. The concrete variants below form a closed set — this interface
// is Go's realization of the sum type the design notes call for, sealed by
// the unexported sealedSingleSource method.
type SingleSourceProjector interface {
	Bind(source *tschema.TupleSchema) failure.FailureOrOwned[*BoundSingleSourceProjector]
	String() string
	sealedSingleSource()
}

// BoundSingleSourceProjector is the resolved form: a fixed result schema
// plus proj[i] = source position, for every result position i.
type BoundSingleSourceProjector struct {
	source *tschema.TupleSchema
	result *tschema.TupleSchema
	proj   []int
}

// NewBoundSingleSourceProjector starts an empty bound projector over
// source; callers append to it with Add/AddAs.
func NewBoundSingleSourceProjector(source *tschema.TupleSchema) *BoundSingleSourceProjector {
	return &BoundSingleSourceProjector{source: source, result: tschema.New()}
}

// Add appends source[sourcePos] to the result schema under its own name.
// It returns false if that name already exists in the result.
func (p *BoundSingleSourceProjector) Add(sourcePos int) bool {
	attr := p.source.Attribute(sourcePos)
	return p.AddAs(sourcePos, attr.Name)
}

// AddAs appends source[sourcePos] to the result schema under alias (or the
// source attribute's own name if alias is empty). It returns false on a
// duplicate result name.
func (p *BoundSingleSourceProjector) AddAs(sourcePos int, alias string) bool {
	src := p.source.Attribute(sourcePos)
	name := alias
	if name == "" {
		name = src.Name
	}
	if !p.result.AddAttribute(tschema.Attribute{Name: name, Type: src.Type, Nullability: src.Nullability}) {
		return false
	}
	p.proj = append(p.proj, sourcePos)
	return true
}

func (p *BoundSingleSourceProjector) SourceSchema() *tschema.TupleSchema { return p.source }
func (p *BoundSingleSourceProjector) ResultSchema() *tschema.TupleSchema { return p.result }

// SourceAttributePosition is the inverse mapping used by operators to copy
// columns: the source position that feeds result position i.
func (p *BoundSingleSourceProjector) SourceAttributePosition(i int) int { return p.proj[i] }

func (p *BoundSingleSourceProjector) String() string {
	names := make([]string, p.result.AttributeCount())
	for i := range names {
		names[i] = p.result.Attribute(i).Name
	}
	return "(" + strings.Join(names, ", ") + ")"
}

// --- NamedAttribute ---

type namedAttributeProjector struct{ name string }

// Named resolves an attribute by name; Bind fails with ATTRIBUTE_MISSING if
// absent.
func Named(name string) SingleSourceProjector { return namedAttributeProjector{name: name} }

func (p namedAttributeProjector) sealedSingleSource() {}

func (p namedAttributeProjector) Bind(source *tschema.TupleSchema) failure.FailureOrOwned[*BoundSingleSourceProjector] {
	pos := source.LookupAttributePosition(p.name)
	if pos < 0 {
		return failure.FailOwned[*BoundSingleSourceProjector](failure.Newf(
			failure.AttributeMissing,
			"No attribute '%s' in the schema:\n '%s'", p.name, source.GetHumanReadableSpecification()))
	}
	result := NewBoundSingleSourceProjector(source)
	result.Add(pos)
	return failure.SuccessOwned(result)
}

func (p namedAttributeProjector) String() string { return p.name }

// --- PositionedAttribute ---

type positionedAttributeProjector struct{ position int }

// AtPosition resolves the attribute at a fixed index; Bind fails with
// ATTRIBUTE_COUNT_MISMATCH if the source schema is too narrow.
func AtPosition(position int) SingleSourceProjector {
	return positionedAttributeProjector{position: position}
}

func (p positionedAttributeProjector) sealedSingleSource() {}

func (p positionedAttributeProjector) Bind(source *tschema.TupleSchema) failure.FailureOrOwned[*BoundSingleSourceProjector] {
	if p.position >= source.AttributeCount() {
		return failure.FailOwned[*BoundSingleSourceProjector](failure.Newf(
			failure.AttributeCountMismatch,
			"source schema has too few attributes (%d vs %d)", source.AttributeCount(), p.position))
	}
	result := NewBoundSingleSourceProjector(source)
	result.Add(p.position)
	return failure.SuccessOwned(result)
}

func (p positionedAttributeProjector) String() string {
	return fmt.Sprintf("AttributeAt(%d)", p.position)
}

// --- AllAttributes ---

type allAttributesProjector struct{ prefix string }

// All projects every input attribute under its own name.
func All() SingleSourceProjector { return allAttributesProjector{} }

// AllPrefixed projects every input attribute, prefixing each result name.
func AllPrefixed(prefix string) SingleSourceProjector {
	return allAttributesProjector{prefix: prefix}
}

func (p allAttributesProjector) sealedSingleSource() {}

func (p allAttributesProjector) Bind(source *tschema.TupleSchema) failure.FailureOrOwned[*BoundSingleSourceProjector] {
	result := NewBoundSingleSourceProjector(source)
	for i := 0; i < source.AttributeCount(); i++ {
		if p.prefix == "" {
			result.Add(i)
		} else {
			result.AddAs(i, p.prefix+source.Attribute(i).Name)
		}
	}
	return failure.SuccessOwned(result)
}

func (p allAttributesProjector) String() string { return p.prefix + "*" }

// --- Compound ---

type compoundSingleSourceProjector struct{ children []SingleSourceProjector }

// Compound concatenates the result of each child projector in order;
// Bind fails with ATTRIBUTE_EXISTS on a duplicate result name.
func Compound(children ...SingleSourceProjector) SingleSourceProjector {
	return compoundSingleSourceProjector{children: children}
}

// AttributesAt is a convenience Compound of AtPosition projectors, one per
// position.
func AttributesAt(positions []int) SingleSourceProjector {
	children := make([]SingleSourceProjector, len(positions))
	for i, pos := range positions {
		children[i] = AtPosition(pos)
	}
	return Compound(children...)
}

// NamedAttributes is a convenience Compound of Named projectors, one per
// name.
func NamedAttributes(names []string) SingleSourceProjector {
	children := make([]SingleSourceProjector, len(names))
	for i, n := range names {
		children[i] = Named(n)
	}
	return Compound(children...)
}

func (p compoundSingleSourceProjector) sealedSingleSource() {}

func (p compoundSingleSourceProjector) Bind(source *tschema.TupleSchema) failure.FailureOrOwned[*BoundSingleSourceProjector] {
	result := NewBoundSingleSourceProjector(source)
	for _, child := range p.children {
		bound := child.Bind(source)
		if exc := failure.PropagateOnFailure(bound); exc != nil {
			return failure.FailOwned[*BoundSingleSourceProjector](exc)
		}
		component := bound.Release()
		for j := 0; j < component.ResultSchema().AttributeCount(); j++ {
			name := component.ResultSchema().Attribute(j).Name
			if !result.AddAs(component.SourceAttributePosition(j), name) {
				return failure.FailOwned[*BoundSingleSourceProjector](failure.Newf(
					failure.AttributeExists,
					"Duplicate attribute name %q in result schema: %s", name, component.ResultSchema().GetHumanReadableSpecification()))
			}
		}
	}
	return failure.SuccessOwned(result)
}

func (p compoundSingleSourceProjector) String() string {
	parts := make([]string, len(p.children))
	for i, c := range p.children {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, "") + ")"
}

// --- Renaming ---

type renamingProjector struct {
	aliases []string
	child   SingleSourceProjector
}

// Rename binds child, then replaces its result names with aliases.
// Bind fails with ATTRIBUTE_COUNT_MISMATCH if len(aliases) does not match
// the child's result attribute count. aliases must be internally unique;
// violating that is a programming error and panics immediately, the same
// way the original's CHECK_EQ does.
func Rename(aliases []string, child SingleSourceProjector) SingleSourceProjector {
	seen := make(map[string]struct{}, len(aliases))
	for _, a := range aliases {
		if _, dup := seen[a]; dup {
			panic("proj: Rename aliases must be unique, got duplicate " + a)
		}
		seen[a] = struct{}{}
	}
	return renamingProjector{aliases: aliases, child: child}
}

func (p renamingProjector) sealedSingleSource() {}

func (p renamingProjector) Bind(source *tschema.TupleSchema) failure.FailureOrOwned[*BoundSingleSourceProjector] {
	bound := p.child.Bind(source)
	if exc := failure.PropagateOnFailure(bound); exc != nil {
		return failure.FailOwned[*BoundSingleSourceProjector](exc)
	}
	intermediate := bound.Release()

	if len(p.aliases) != intermediate.ResultSchema().AttributeCount() {
		return failure.FailOwned[*BoundSingleSourceProjector](failure.Newf(
			failure.AttributeCountMismatch,
			"Number of aliases (%d) does not match the attribute count in source schema (%d): %s",
			len(p.aliases), intermediate.ResultSchema().AttributeCount(), intermediate.ResultSchema().GetHumanReadableSpecification()))
	}

	// aliases are already verified unique at construction time, so this
	// AddAs can never fail on a duplicate name.
	result := NewBoundSingleSourceProjector(source)
	for i := 0; i < intermediate.ResultSchema().AttributeCount(); i++ {
		result.AddAs(intermediate.SourceAttributePosition(i), p.aliases[i])
	}
	return failure.SuccessOwned(result)
}

func (p renamingProjector) String() string {
	return fmt.Sprintf("(%s) RENAME AS (%s)", p.child.String(), strings.Join(p.aliases, ", "))
}
