// Package schema validates imported snapshots against the strict shape of the persisted state.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/taskmaster/todoplus/internal/domain/entities"
)

//go:embed state.schema.json
var stateSchemaJSON string

var stateSchema = jsonschema.MustCompileString("state.schema.json", stateSchemaJSON)

// ValidationError explains why a payload was rejected. Path is empty for document-level problems.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid state: %s", e.Message)
	}
	return fmt.Sprintf("invalid state at %s: %s", e.Path, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return entities.ErrInvalidState
}

// Parse validates data and decodes it into a snapshot. Malformed JSON and structural
// problems are both reported as *ValidationError; a rejected payload never yields a state.
func Parse(data []byte) (*entities.PersistedState, error) {
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("malformed JSON: %v", err)}
	}

	if err := stateSchema.Validate(doc); err != nil {
		return nil, toValidationError(err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var state entities.PersistedState
	if err := dec.Decode(&state); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if state.Todos == nil {
		state.Todos = []entities.Task{}
	}
	if state.Projects == nil {
		state.Projects = []entities.Project{}
	}

	return &state, nil
}

func decodeDocument(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}

	return doc, nil
}

// toValidationError reports the first leaf cause, which names the offending field
func toValidationError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{Message: err.Error()}
	}

	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}

	return &ValidationError{
		Path:    pointerToPath(leaf.InstanceLocation),
		Message: leaf.Message,
	}
}

// pointerToPath turns "/todos/0/priority" into "todos[0].priority"
func pointerToPath(pointer string) string {
	if pointer == "" || pointer == "/" {
		return ""
	}

	var b strings.Builder
	for _, token := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		token = strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")
		if isIndex(token) {
			b.WriteString("[" + token + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(token)
	}
	return b.String()
}

func isIndex(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
