package product

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// inputSchema describes the JSON body of create and update requests
const inputSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["name"],
	"properties": {
		"name":        {"type": "string", "minLength": 1, "maxLength": 200},
		"category":    {"type": "string", "maxLength": 100},
		"brand":       {"type": "string", "maxLength": 100},
		"barcode":     {"type": "string", "pattern": "^([0-9]{8,14})?$"},
		"expiryDate":  {"type": "string", "pattern": "^([0-9]{4}-[0-9]{2}-[0-9]{2})?$"},
		"ingredients": {"type": "string"},
		"description": {"type": "string"},
		"imageUrl":    {"type": "string"}
	},
	"additionalProperties": false
}`

// textScanSchema describes the body of a text scan request
const textScanSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["text"],
	"properties": {
		"text": {"type": "string"}
	}
}`

var (
	inputValidator    = mustCompileSchema("product-input.json", inputSchema)
	textScanValidator = mustCompileSchema("text-scan.json", textScanSchema)
)

func mustCompileSchema(name, schema string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(schema)); err != nil {
		panic(fmt.Sprintf("add schema %s: %v", name, err))
	}
	return compiler.MustCompile(name)
}

// decodeValidated checks body against schema and then decodes it into v
func decodeValidated(schema *jsonschema.Schema, body []byte, v any) error {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("%w: malformed JSON: %v", ErrInvalid, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
