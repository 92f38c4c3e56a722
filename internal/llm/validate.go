package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiledSchemas holds one compiled validator per schema name. Lesson,
// quiz and review schemas are fixed for the life of the process.
var compiledSchemas sync.Map // name -> *jsonschema.Schema

// validateResponse checks a structured reply against schema. A reply that
// fails and was cut off at the token limit reports ErrMaxTokensExceeded so
// callers can tell truncation apart from a malformed answer.
func validateResponse(schema *Schema, raw json.RawMessage, stopReason string) error {
	if schema == nil {
		return nil
	}
	err := checkAgainst(schema, raw)
	if err == nil {
		return nil
	}
	if stopReason == "max_tokens" {
		return &ErrMaxTokensExceeded{Content: raw}
	}
	return &ErrInvalidResponse{Content: raw, Err: err}
}

func checkAgainst(schema *Schema, raw json.RawMessage) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("reply is not JSON: %w", err)
	}
	compiled, err := compileSchema(schema)
	if err != nil {
		return fmt.Errorf("schema %q: %w", schema.Name, err)
	}
	if err := compiled.Validate(doc); err != nil {
		return fmt.Errorf("reply does not match %q: %w", schema.Name, err)
	}
	return nil
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	if v, ok := compiledSchemas.Load(schema.Name); ok {
		return v.(*jsonschema.Schema), nil
	}

	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, err
	}

	url := "mem://study-mentor/" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, err
	}

	v, _ := compiledSchemas.LoadOrStore(schema.Name, compiled)
	return v.(*jsonschema.Schema), nil
}
