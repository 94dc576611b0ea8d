package importer

import (
	"testing"

	"github.com/nswan/lifeweave/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_BuildsSpansAndConnections(t *testing.T) {
	g, err := Convert(validSchema(), "owner-1")
	require.NoError(t, err)

	require.Len(t, g.Spans, 2)
	alice := g.Spans[0]
	assert.Equal(t, domain.SpanPerson, alice.Type)
	assert.Equal(t, "alice", alice.Slug)
	assert.Equal(t, "1980-05-01", alice.Start.String())
	assert.Equal(t, domain.PrecisionDay, alice.StartPrecision)
	assert.Equal(t, "owner-1", alice.OwnerID)
	assert.Equal(t, domain.StateComplete, alice.State)
	assert.Equal(t, domain.AccessPrivate, alice.AccessLevel)

	require.Len(t, g.Connections, 1)
	gc := g.Connections[0]
	assert.Equal(t, alice.ID, gc.Connection.ParentID)
	assert.Equal(t, g.Spans[1].ID, gc.Connection.ChildID)
	assert.Equal(t, "employment", gc.Connection.Type)
	assert.Equal(t, gc.ConnectionSpan.ID, gc.Connection.ConnectionSpanID)
	assert.Equal(t, domain.SpanConnection, gc.ConnectionSpan.Type)
	assert.Equal(t, "2005", gc.ConnectionSpan.Start.String())
	assert.Equal(t, "2010", gc.ConnectionSpan.End.String())
	assert.Equal(t, domain.StateComplete, gc.ConnectionSpan.State)
}

func TestConvert_DatelessConnectionIsPlaceholder(t *testing.T) {
	schema := validSchema()
	schema.Connections[0].Start = ""
	schema.Connections[0].End = ""

	g, err := Convert(schema, "owner-1")
	require.NoError(t, err)
	cs := g.Connections[0].ConnectionSpan
	assert.Equal(t, domain.StatePlaceholder, cs.State)
	assert.True(t, cs.Interval().IsTimeless())
	assert.NoError(t, cs.Validate(), "stored connection-span must satisfy its own state rules")
}

func TestConvert_PlaceholderSkipsSlugAndDateRules(t *testing.T) {
	schema := &ImportSchema{
		Spans: []SpanImport{
			{Ref: "mystery", Type: "person", Name: "Unknown Cousin", State: "placeholder"},
		},
	}
	g, err := Convert(schema, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatePlaceholder, g.Spans[0].State)
	assert.Empty(t, g.Spans[0].Slug)
	assert.True(t, g.Spans[0].Start.IsTimeless())
}

func TestConvert_InvalidSpanRejected(t *testing.T) {
	schema := &ImportSchema{
		Spans: []SpanImport{
			// complete person with no start year fails span validation
			{Ref: "nodate", Type: "person", Name: "No Date"},
		},
	}
	_, err := Convert(schema, "owner-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `span "nodate"`)
}

func TestConvert_MetadataPassthrough(t *testing.T) {
	schema := &ImportSchema{
		Spans: []SpanImport{
			{Ref: "photo", Type: "thing", Name: "Old Photo", Start: "1999",
				Metadata: map[string]any{"subtype": "photo"}},
		},
	}
	g, err := Convert(schema, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "photo", g.Spans[0].Metadata.Subtype())
}
