package importer

import (
	"fmt"

	"github.com/nswan/lifeweave/internal/domain"
)

var validStates = map[string]bool{"placeholder": true, "draft": true, "complete": true}
var validAccessLevels = map[string]bool{"public": true, "private": true, "shared": true}

// ValidateImportSchema checks the import schema for errors before
// conversion. Returns a slice of all validation errors found. The
// connection-type catalog is passed in so type keys are checked against
// the live registry rather than a hardcoded list.
func ValidateImportSchema(schema *ImportSchema, types map[string]domain.ConnectionType) []error {
	var errs []error

	spanRefs := make(map[string]string) // ref -> span type
	errs = append(errs, validateSpans(schema.Spans, spanRefs)...)
	errs = append(errs, validateConnections(schema.Connections, spanRefs, types)...)

	return errs
}

func validateSpans(spans []SpanImport, spanRefs map[string]string) []error {
	var errs []error

	if len(spans) == 0 {
		errs = append(errs, fmt.Errorf("spans: at least one span is required"))
	}

	for i, s := range spans {
		prefix := fmt.Sprintf("spans[%d]", i)

		if s.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if _, dup := spanRefs[s.Ref]; dup {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, s.Ref))
		} else {
			spanRefs[s.Ref] = s.Type
		}

		if s.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if s.Type == "" {
			errs = append(errs, fmt.Errorf("%s.type is required", prefix))
		} else if !domain.ValidSpanTypes[s.Type] {
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q", prefix, s.Type))
		}
		if s.State != "" && !validStates[s.State] {
			errs = append(errs, fmt.Errorf("%s.state: invalid value %q", prefix, s.State))
		}
		if s.AccessLevel != "" && !validAccessLevels[s.AccessLevel] {
			errs = append(errs, fmt.Errorf("%s.access_level: invalid value %q", prefix, s.AccessLevel))
		}

		errs = append(errs, validatePartialDate(prefix+".start", s.Start)...)
		errs = append(errs, validatePartialDate(prefix+".end", s.End)...)
	}

	return errs
}

func validateConnections(conns []ConnectionImport, spanRefs map[string]string, types map[string]domain.ConnectionType) []error {
	var errs []error

	for i, c := range conns {
		prefix := fmt.Sprintf("connections[%d]", i)

		if c.ParentRef == "" {
			errs = append(errs, fmt.Errorf("%s.parent_ref is required", prefix))
		} else if _, ok := spanRefs[c.ParentRef]; !ok {
			errs = append(errs, fmt.Errorf("%s.parent_ref: ref %q not found in spans", prefix, c.ParentRef))
		}

		if c.ChildRef == "" {
			errs = append(errs, fmt.Errorf("%s.child_ref is required", prefix))
		} else if _, ok := spanRefs[c.ChildRef]; !ok {
			errs = append(errs, fmt.Errorf("%s.child_ref: ref %q not found in spans", prefix, c.ChildRef))
		}

		if c.ParentRef != "" && c.ParentRef == c.ChildRef {
			errs = append(errs, fmt.Errorf("%s: self-connection (parent_ref == child_ref == %q)", prefix, c.ParentRef))
		}

		if c.Type == "" {
			errs = append(errs, fmt.Errorf("%s.type is required", prefix))
		} else if ct, ok := types[c.Type]; !ok {
			errs = append(errs, fmt.Errorf("%s.type: unknown connection type %q", prefix, c.Type))
		} else {
			// Endpoint type checks only when both refs resolve.
			pType, pOK := spanRefs[c.ParentRef]
			cType, cOK := spanRefs[c.ChildRef]
			if pOK && cOK {
				if err := ct.ValidateEndpoints(domain.SpanType(pType), domain.SpanType(cType)); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
				}
			}
		}

		errs = append(errs, validatePartialDate(prefix+".start", c.Start)...)
		errs = append(errs, validatePartialDate(prefix+".end", c.End)...)
	}

	return errs
}

func validatePartialDate(field, value string) []error {
	if value == "" {
		return nil
	}
	if _, err := domain.ParsePartialDate(value); err != nil {
		return []error{fmt.Errorf("%s: %v", field, err)}
	}
	return nil
}
