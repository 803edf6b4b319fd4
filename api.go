// Package veil renders Go object graphs as JSON views with per-type field
// filtering and value masking.
//
// A view is declared once per operation as a set of filters. Each filter
// targets a struct type, optionally at a structural path within the graph,
// and either includes or excludes a set of JSON properties. Properties can
// additionally be bound to a masker, which rewrites string values before
// they are written.
//
// # Rules
//
// Filters compile into a RuleIndex. When the walk reaches a struct value it
// resolves the rule for the value's type at the current path:
//
//   - include rules outrank exclude rules
//   - a rule declared at an exact path outranks the type-wide rule
//   - a struct with no rule is written with the default JSON representation
//
// Paths are dot-joined JSON property names relative to the root. Every
// element of a slice shares its field's path; indices are never part of a
// path.
//
// # Basic Usage
//
//	type Entity struct {
//	    ID    int    `json:"id"`
//	    Name  string `json:"name"`
//	    Email string `json:"email"`
//	}
//
//	type Wrapper struct {
//	    Entity *Entity `json:"entity"`
//	    Nested struct {
//	        Entity *Entity `json:"entity"`
//	    } `json:"nested"`
//	}
//
//	view := veil.View{
//	    Include: []veil.Filter{
//	        veil.For[Entity]("id", "name"),
//	        veil.For[Entity]("id", "email").At("nested.entity").Mask(veil.MaskEmail, "email"),
//	    },
//	}
//
//	proc, _ := veil.NewProcessor(json.New())
//	out, _ := proc.Send(ctx, "GET /wrapper", func() veil.View { return view }, wrapper)
//
// # Masking
//
// Masking never fails a render. An unknown mask type, a failing masker
// factory or a panicking masker leaves the value unchanged and emits
// SignalMaskFailed.
//
// Struct fields may declare a default mask type with the view.mask tag. The
// tag applies wherever a rule resolves for the struct and the rule itself
// binds no masker for that property:
//
//	Phone string `json:"phone" view.mask:"phone"`
//
// # Field Isolation
//
// A field that fails while being written inside a filtered object is
// retried with its default representation and omitted if that fails too.
// Only sink failures abort a render.
package veil

// Codec provides content-type aware marshaling.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// Describer lets a type enumerate and resolve its own properties without
// reflection. ReflectAccessor prefers it over struct field scanning.
type Describer interface {
	// DescribeProperties returns property names in output order.
	DescribeProperties() []string

	// PropertyValue returns the value of a named property.
	PropertyValue(name string) (any, error)
}
