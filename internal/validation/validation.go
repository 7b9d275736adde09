// Package validation screens inbound API payloads against JSON Schemas
// before they reach request decoding, so malformed bodies fail with a
// field-level message instead of a decode error.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/signoffhq/signoff/internal/ports"
)

const createSchema = `{
  "type": "object",
  "required": ["type", "title"],
  "properties": {
    "type": {"type": "string", "minLength": 1},
    "priority": {"type": "string", "enum": ["LOW", "NORMAL", "HIGH", "URGENT", "CRITICAL"]},
    "flowType": {"type": "string"},
    "title": {"type": "string", "minLength": 1, "maxLength": 500},
    "description": {"type": "string", "maxLength": 5000},
    "amount": {"type": "number", "minimum": 0},
    "currency": {"type": "string", "maxLength": 8},
    "deadline": {"type": "string"},
    "branchId": {"type": "string"},
    "documentUrls": {"type": "array", "items": {"type": "string"}},
    "requiresSignature": {"type": "boolean"},
    "autoSubmit": {"type": "boolean"}
  },
  "additionalProperties": true
}`

const actionSchema = `{
  "type": "object",
  "required": ["action"],
  "properties": {
    "action": {"type": "string", "minLength": 1},
    "comments": {"type": "string", "maxLength": 5000},
    "reason": {"type": "string", "maxLength": 5000},
    "delegateTo": {"type": "string"},
    "escalateTo": {"type": "string"},
    "escalationReason": {"type": "string", "maxLength": 5000}
  },
  "additionalProperties": true
}`

const signSchema = `{
  "type": "object",
  "required": ["signatureType", "signatureData"],
  "properties": {
    "signatureType": {"type": "string", "minLength": 1},
    "signatureData": {"type": "string", "minLength": 1}
  },
  "additionalProperties": true
}`

const bulkSchema = `{
  "type": "object",
  "required": ["ids", "action"],
  "properties": {
    "ids": {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
    "action": {"type": "string", "minLength": 1}
  },
  "additionalProperties": true
}`

// Schemas is a compiled set keyed by request name.
type Schemas struct {
	byName map[string]*gojsonschema.Schema
}

// NewSchemas compiles the built-in request schemas.
func NewSchemas() (*Schemas, error) {
	src := map[string]string{
		"create": createSchema,
		"action": actionSchema,
		"sign":   signSchema,
		"bulk":   bulkSchema,
	}
	s := &Schemas{byName: make(map[string]*gojsonschema.Schema, len(src))}
	for name, raw := range src {
		compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", name, err)
		}
		s.byName[name] = compiled
	}
	return s, nil
}

// Check validates doc against the named schema. Violations come back
// as a single ValidationError listing up to five fields.
func (s *Schemas) Check(name string, doc []byte) error {
	schema, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return ports.Validationf("invalid JSON body: %v", err)
	}
	if res.Valid() {
		return nil
	}
	var msgs []string
	for i, e := range res.Errors() {
		if i >= 5 {
			break
		}
		msgs = append(msgs, e.String())
	}
	return ports.Validationf("%s", strings.Join(msgs, "; "))
}
