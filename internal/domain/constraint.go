package domain

// ConnectionInterval is the slice of a connection the constraint
// validator needs: its identity plus the interval and state of its
// connection-span. How the interval was produced (user input, family
// derivation) is the caller's business.
type ConnectionInterval struct {
	ConnectionID string
	Interval     Interval
	State        SpanState
}

// checkable reports whether a connection participates in overlap
// checking. Placeholder connection-spans with no dates have nothing to
// compare; they re-enter the checked population once dated and promoted.
func (ci ConnectionInterval) checkable() bool {
	if ci.State == StatePlaceholder && ci.Interval.IsTimeless() {
		return false
	}
	return !ci.Interval.IsTimeless()
}

// ValidateConstraint decides whether a candidate connection may coexist
// with the existing connections of the same type from the same subject.
// The existing slice must already be scoped to (parent, type); the
// candidate itself, on update, must not appear in it.
func ValidateConstraint(ct ConnectionType, candidate ConnectionInterval, existing []ConnectionInterval) error {
	switch ct.Constraint {
	case ConstraintTimeless, ConstraintMultiple:
		// Time does not participate: timeless types carry no interval,
		// multiple types permit any number of concurrent instances.
		return nil
	}

	if !candidate.checkable() {
		return nil
	}
	for _, ex := range existing {
		if !ex.checkable() {
			continue
		}
		if candidate.Interval.Conflicts(ex.Interval) {
			return &ConstraintError{Kind: ConstraintOverlap, ConflictingConnectionID: ex.ConnectionID}
		}
	}
	return nil
}

// DeriveFamilyInterval computes the interval of a family connection from
// the participants rather than from user input: it runs from the child's
// birth to the earlier of the two deaths (an unknown death leaves the
// bound open).
func DeriveFamilyInterval(childBirth, parentDeath, childDeath PartialDate) Interval {
	end := parentDeath
	switch {
	case end.IsTimeless():
		end = childDeath
	case !childDeath.IsTimeless() && childDeath.Compare(end) == OrderedBefore:
		end = childDeath
	}
	return Interval{Start: childBirth, End: end}
}
