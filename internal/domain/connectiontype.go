package domain

// ConnectionType describes one kind of relationship: its predicate text
// in both directions, its temporal constraint policy, and which span
// types may appear at each end. The catalog is immutable at runtime.
type ConnectionType struct {
	Type             string
	ForwardPredicate string
	InversePredicate string
	Constraint       ConstraintType
	ParentTypes      []SpanType
	ChildTypes       []SpanType
}

// Predicate returns the predicate text for the given edge direction.
func (ct ConnectionType) Predicate(dir Direction) string {
	if dir == DirectionInverse {
		return ct.InversePredicate
	}
	return ct.ForwardPredicate
}

// ValidateEndpoints checks the candidate parent and child span types
// against the allowed lists. Violations are creation-time errors, not
// constraint-overlap errors.
func (ct ConnectionType) ValidateEndpoints(parent, child SpanType) error {
	if !containsType(ct.ParentTypes, parent) {
		return &ConstraintError{Kind: ConstraintDisallowedSpanType, Role: "parent", ExpectedTypes: ct.ParentTypes}
	}
	if !containsType(ct.ChildTypes, child) {
		return &ConstraintError{Kind: ConstraintDisallowedSpanType, Role: "child", ExpectedTypes: ct.ChildTypes}
	}
	return nil
}

func containsType(types []SpanType, t SpanType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

// DefaultConnectionTypes is the seeded relationship catalog.
var DefaultConnectionTypes = []ConnectionType{
	{
		Type:             "residence",
		ForwardPredicate: "resided at",
		InversePredicate: "was home to",
		Constraint:       ConstraintSingle,
		ParentTypes:      []SpanType{SpanPerson, SpanOrganisation},
		ChildTypes:       []SpanType{SpanPlace},
	},
	{
		Type:             "employment",
		ForwardPredicate: "worked at",
		InversePredicate: "employed",
		Constraint:       ConstraintSingle,
		ParentTypes:      []SpanType{SpanPerson},
		ChildTypes:       []SpanType{SpanOrganisation},
	},
	{
		Type:             "education",
		ForwardPredicate: "studied at",
		InversePredicate: "educated",
		Constraint:       ConstraintSingle,
		ParentTypes:      []SpanType{SpanPerson},
		ChildTypes:       []SpanType{SpanOrganisation},
	},
	{
		Type:             "membership",
		ForwardPredicate: "was member of",
		InversePredicate: "had member",
		Constraint:       ConstraintMultiple,
		ParentTypes:      []SpanType{SpanPerson},
		ChildTypes:       []SpanType{SpanOrganisation, SpanSet},
	},
	{
		Type:             "travel",
		ForwardPredicate: "visited",
		InversePredicate: "was visited by",
		Constraint:       ConstraintMultiple,
		ParentTypes:      []SpanType{SpanPerson, SpanOrganisation},
		ChildTypes:       []SpanType{SpanPlace},
	},
	{
		Type:             "participation",
		ForwardPredicate: "took part in",
		InversePredicate: "had participant",
		Constraint:       ConstraintMultiple,
		ParentTypes:      []SpanType{SpanPerson, SpanOrganisation},
		ChildTypes:       []SpanType{SpanEvent},
	},
	{
		Type:             "family",
		ForwardPredicate: "was parent of",
		InversePredicate: "was child of",
		Constraint:       ConstraintMultiple,
		ParentTypes:      []SpanType{SpanPerson},
		ChildTypes:       []SpanType{SpanPerson},
	},
	{
		Type:             "relationship",
		ForwardPredicate: "had relationship with",
		InversePredicate: "had relationship with",
		Constraint:       ConstraintMultiple,
		ParentTypes:      []SpanType{SpanPerson},
		ChildTypes:       []SpanType{SpanPerson},
	},
	{
		Type:             "ownership",
		ForwardPredicate: "owned",
		InversePredicate: "was owned by",
		Constraint:       ConstraintMultiple,
		ParentTypes:      []SpanType{SpanPerson, SpanOrganisation},
		ChildTypes:       []SpanType{SpanThing, SpanPlace},
	},
	{
		Type:             "has_role",
		ForwardPredicate: "had role",
		InversePredicate: "was filled by",
		Constraint:       ConstraintMultiple,
		ParentTypes:      []SpanType{SpanPerson},
		ChildTypes:       []SpanType{SpanRole},
	},
	{
		Type:             "created",
		ForwardPredicate: "created",
		InversePredicate: "was created by",
		Constraint:       ConstraintTimeless,
		ParentTypes:      []SpanType{SpanPerson, SpanOrganisation},
		ChildTypes:       []SpanType{SpanThing, SpanNote, SpanSet},
	},
	{
		Type:             "contains",
		ForwardPredicate: "contains",
		InversePredicate: "belongs to",
		Constraint:       ConstraintTimeless,
		ParentTypes:      []SpanType{SpanSet},
		ChildTypes:       []SpanType{SpanPerson, SpanOrganisation, SpanPlace, SpanEvent, SpanThing, SpanNote},
	},
	{
		Type:             "note_for",
		ForwardPredicate: "has note",
		InversePredicate: "annotates",
		Constraint:       ConstraintTimeless,
		ParentTypes:      []SpanType{SpanPerson, SpanOrganisation, SpanPlace, SpanEvent, SpanThing},
		ChildTypes:       []SpanType{SpanNote},
	},
}
