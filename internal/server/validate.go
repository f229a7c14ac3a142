package server

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/saleshq/calapi/internal/services/event"
)

//go:embed schemas/event.json
var eventSchemaJSON string

// maxBodyBytes caps create/update request bodies.
const maxBodyBytes = 1 << 20 // 1 MiB

// errInvalidBody covers any body the validator rejects; the wrapped cause is
// for logs only.
var errInvalidBody = errors.New("invalid request body")

// BodyValidator holds the compiled request schemas. The two event write
// operations share one schema; it is static, so it is compiled exactly once
// at startup rather than cached.
type BodyValidator struct {
	event *jsonschema.Schema
}

// NewBodyValidator compiles the embedded schemas.
func NewBodyValidator() (*BodyValidator, error) {
	schema, err := compileSchema("event.json", eventSchemaJSON)
	if err != nil {
		return nil, fmt.Errorf("compile event schema: %w", err)
	}
	return &BodyValidator{event: schema}, nil
}

func compileSchema(name, schemaJSON string) (*jsonschema.Schema, error) {
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(schemaJSON)))
	if err != nil {
		return nil, fmt.Errorf("parse schema JSON: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft7)
	if err := compiler.AddResource(name, parsed); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	return compiler.Compile(name)
}

// eventPayload is the typed form of a validated event body.
type eventPayload struct {
	Title    string `json:"title"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
}

// DecodeEvent reads, size-caps, schema-validates, and decodes an event body
// into a service input. Any failure wraps errInvalidBody.
func (v *BodyValidator) DecodeEvent(w http.ResponseWriter, r *http.Request) (event.Input, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return event.Input{}, fmt.Errorf("%w: %w", errInvalidBody, err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return event.Input{}, fmt.Errorf("%w: %w", errInvalidBody, err)
	}
	if err := v.event.Validate(doc); err != nil {
		return event.Input{}, fmt.Errorf("%w: %w", errInvalidBody, err)
	}

	var payload eventPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return event.Input{}, fmt.Errorf("%w: %w", errInvalidBody, err)
	}

	startsAt, err := time.Parse(time.RFC3339, payload.StartsAt)
	if err != nil {
		return event.Input{}, fmt.Errorf("%w: starts_at must be RFC3339", errInvalidBody)
	}
	endsAt, err := time.Parse(time.RFC3339, payload.EndsAt)
	if err != nil {
		return event.Input{}, fmt.Errorf("%w: ends_at must be RFC3339", errInvalidBody)
	}

	return event.Input{
		Title:    payload.Title,
		Location: payload.Location,
		Notes:    payload.Notes,
		StartsAt: startsAt,
		EndsAt:   endsAt,
	}, nil
}
