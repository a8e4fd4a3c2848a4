package utils

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/asaidimu/go-sysparm/core/schema"
)

// ToDocument converts a Go struct into a schema.Document so it can be matched
// by a query.DataProcessor.
//
// The struct is marshaled to JSON and decoded back into a map, so `json:"tag"`
// annotations decide the field names. Nested structs become nested maps and
// slices become []any. Numbers decode as float64.
//
// The input `record` must be a struct or a pointer to a struct. If `record` is
// nil, or not a struct/pointer to a struct, an error is returned.
//
// Example:
//
//	type Incident struct {
//		Number   string `json:"number"`
//		Priority int    `json:"priority"`
//	}
//	doc, err := ToDocument(Incident{Number: "INC001", Priority: 2})
//	// doc will be schema.Document{"number": "INC001", "priority": float64(2)}
func ToDocument[T any](record T) (schema.Document, error) {
	val := reflect.ValueOf(record)

	if !val.IsValid() {
		return nil, fmt.Errorf("input record cannot be nil")
	}

	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, fmt.Errorf("input record cannot be a nil pointer to a struct")
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("input record must be a struct or a pointer to a struct, got %s", val.Kind())
	}

	jsonBytes, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("ToDocument: failed to marshal input record to JSON: %w", err)
	}

	var doc schema.Document
	if err := json.Unmarshal(jsonBytes, &doc); err != nil {
		return nil, fmt.Errorf("ToDocument: failed to unmarshal JSON to document: %w", err)
	}
	return doc, nil
}

// ToDocuments converts each record with ToDocument, stopping at the first
// failure.
func ToDocuments[T any](records []T) ([]schema.Document, error) {
	docs := make([]schema.Document, 0, len(records))
	for i, record := range records {
		doc, err := ToDocument(record)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// FromDocument is the inverse of ToDocument: it decodes a document into a new
// instance of the struct type T.
//
// The generic type T must be a struct type or a pointer to one.
func FromDocument[T any](doc schema.Document) (T, error) {
	var zero T

	if doc == nil {
		return zero, fmt.Errorf("FromDocument: input document cannot be nil")
	}

	typ := reflect.TypeOf(zero)
	if typ == nil {
		return zero, fmt.Errorf("FromDocument: generic type T must be a struct type (or pointer to struct)")
	}
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return zero, fmt.Errorf("FromDocument: generic type T must be a struct type (or pointer to struct), got %s", typ.Kind())
	}

	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return zero, fmt.Errorf("FromDocument: failed to marshal document to JSON: %w", err)
	}

	var result T
	if err := json.Unmarshal(jsonBytes, &result); err != nil {
		return zero, fmt.Errorf("FromDocument: failed to unmarshal JSON to target struct: %w", err)
	}
	return result, nil
}
