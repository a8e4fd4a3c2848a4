package utils

import (
	"testing"
	"time"

	"github.com/asaidimu/go-sysparm/core/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type incident struct {
	Number   string    `json:"number"`
	Priority int       `json:"priority"`
	Tags     []string  `json:"tags,omitempty"`
	OpenedAt time.Time `json:"opened_at"`
	Caller   struct {
		Name string `json:"name"`
	} `json:"caller"`
}

func TestToDocument(t *testing.T) {
	in := incident{Number: "INC001", Priority: 2, Tags: []string{"email"}, OpenedAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	in.Caller.Name = "beth"

	doc, err := ToDocument(in)
	require.NoError(t, err)
	assert.Equal(t, "INC001", doc["number"])
	assert.Equal(t, float64(2), doc["priority"])
	assert.Equal(t, []any{"email"}, doc["tags"])
	assert.Equal(t, "2024-01-01T09:00:00Z", doc["opened_at"])
	assert.Equal(t, map[string]any{"name": "beth"}, doc["caller"])

	ptrDoc, err := ToDocument(&in)
	require.NoError(t, err)
	assert.Equal(t, doc, ptrDoc)
}

func TestToDocument_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"nil", nil},
		{"nil pointer", (*incident)(nil)},
		{"not a struct", 42},
		{"map", map[string]any{"a": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToDocument(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestToDocuments(t *testing.T) {
	docs, err := ToDocuments([]incident{{Number: "A"}, {Number: "B"}})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "B", docs[1]["number"])

	_, err = ToDocuments([]any{incident{}, "oops"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 1")
}

func TestFromDocument(t *testing.T) {
	doc := schema.Document{"number": "INC002", "priority": 3, "caller": map[string]any{"name": "ann"}}

	out, err := FromDocument[incident](doc)
	require.NoError(t, err)
	assert.Equal(t, "INC002", out.Number)
	assert.Equal(t, 3, out.Priority)
	assert.Equal(t, "ann", out.Caller.Name)

	ptr, err := FromDocument[*incident](doc)
	require.NoError(t, err)
	assert.Equal(t, "INC002", ptr.Number)

	_, err = FromDocument[incident](nil)
	assert.Error(t, err)

	_, err = FromDocument[int](doc)
	assert.Error(t, err)
}
