package store

import (
	"encoding/json"
	"errors"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidDocument is returned when a JSON data file does not match its schema.
var ErrInvalidDocument = errors.New("invalid document")

const taskListSchema = `{
	"type": "object",
	"properties": {
		"tasks": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "owner"],
				"properties": {
					"id": {"type": "integer"},
					"owner": {"type": "string"},
					"description": {"type": "string"},
					"deadline": {"type": "string"},
					"completed": {"type": "boolean"},
					"completionDate": {"type": "string"}
				}
			}
		}
	}
}`

const accountListSchema = `{
	"type": "object",
	"properties": {
		"accounts": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["username", "password"],
				"properties": {
					"username": {"type": "string"},
					"password": {"type": "string"}
				}
			}
		}
	}
}`

var (
	taskListJSONSchema    = jsonschema.MustCompileString("tasks.schema.json", taskListSchema)
	accountListJSONSchema = jsonschema.MustCompileString("accounts.schema.json", accountListSchema)
)

// validateJSONDocument checks data against schema before it is decoded
// into models, so type mismatches are reported with their location.
func validateJSONDocument(schema *jsonschema.Schema, data []byte) error {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			leaf := firstLeaf(ve)
			return fmt.Errorf("%w: %s: %s", ErrInvalidDocument, instancePath(leaf.InstanceLocation), leaf.Message)
		}
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}

// firstLeaf follows the first cause down to the most specific error.
func firstLeaf(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

func instancePath(pointer string) string {
	if pointer == "" {
		return "(root)"
	}
	return pointer
}
