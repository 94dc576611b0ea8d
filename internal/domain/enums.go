package domain

type SpanType string

const (
	SpanPerson       SpanType = "person"
	SpanOrganisation SpanType = "organisation"
	SpanPlace        SpanType = "place"
	SpanEvent        SpanType = "event"
	SpanThing        SpanType = "thing"
	SpanRole         SpanType = "role"
	SpanConnection   SpanType = "connection"
	SpanSet          SpanType = "set"
	SpanNote         SpanType = "note"
)

// ValidSpanTypes is the canonical set of accepted span type strings.
var ValidSpanTypes = map[string]bool{
	"person": true, "organisation": true, "place": true, "event": true,
	"thing": true, "role": true, "connection": true, "set": true,
	"note": true,
}

// TimelessSpanTypes are span types with no temporal dimension. They are
// exempt from the "start year required" rule in every lifecycle state.
var TimelessSpanTypes = map[SpanType]bool{
	SpanRole: true, SpanSet: true, SpanNote: true,
}

type SpanState string

const (
	StatePlaceholder SpanState = "placeholder"
	StateDraft       SpanState = "draft"
	StateComplete    SpanState = "complete"
)

type AccessLevel string

const (
	AccessPublic  AccessLevel = "public"
	AccessPrivate AccessLevel = "private"
	AccessShared  AccessLevel = "shared"
)

type ConstraintType string

const (
	ConstraintSingle   ConstraintType = "single"
	ConstraintMultiple ConstraintType = "multiple"
	ConstraintTimeless ConstraintType = "timeless"
)

type PermissionType string

const (
	PermissionView PermissionType = "view"
	PermissionEdit PermissionType = "edit"
)

type Direction string

const (
	DirectionForward Direction = "forward"
	DirectionInverse Direction = "inverse"
)

type DatePrecision string

const (
	PrecisionNone  DatePrecision = ""
	PrecisionYear  DatePrecision = "year"
	PrecisionMonth DatePrecision = "month"
	PrecisionDay   DatePrecision = "day"
)
