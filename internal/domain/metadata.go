package domain

import "encoding/json"

// Metadata is the type-specific extension bag on a span. The engine
// interprets only the keys below; everything else passes through opaque.
type Metadata map[string]any

// Subtype returns the "subtype" key (e.g. "photo" on a thing span).
func (m Metadata) Subtype() string {
	s, _ := m["subtype"].(string)
	return s
}

// IsDefault reports whether the span is flagged as a default set.
func (m Metadata) IsDefault() bool {
	b, _ := m["is_default"].(bool)
	return b
}

// Tags returns the "tags" key as a string slice, tolerating the
// []any shape produced by JSON decoding.
func (m Metadata) Tags() []string {
	switch v := m["tags"].(type) {
	case []string:
		return v
	case []any:
		tags := make([]string, 0, len(v))
		for _, t := range v {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
		return tags
	default:
		return nil
	}
}

// Coordinates returns the "coordinates" key as a lat/lng pair.
func (m Metadata) Coordinates() (lat, lng float64, ok bool) {
	c, isMap := m["coordinates"].(map[string]any)
	if !isMap {
		return 0, 0, false
	}
	lat, latOK := asFloat(c["latitude"])
	lng, lngOK := asFloat(c["longitude"])
	return lat, lng, latOK && lngOK
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// MarshalJSONString encodes the bag for storage. An empty or nil bag
// encodes as "{}".
func (m Metadata) MarshalJSONString() (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ParseMetadata decodes a stored metadata JSON document. Empty input
// yields an empty bag.
func ParseMetadata(raw string) (Metadata, error) {
	if raw == "" || raw == "{}" {
		return Metadata{}, nil
	}
	var m Metadata
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	return m, nil
}
