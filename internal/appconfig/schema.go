package appconfig

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

// Schema is the JSON schema every config file must satisfy.
const Schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "target":           { "type": "string" },
    "baseline":         { "type": "string" },
    "output":           { "type": "string" },
    "pattern":          { "type": "string" },
    "jsonOutput":       { "type": "string" },
    "htmlOutput":       { "type": "string" },
    "categoryPatterns": { "type": "array", "items": { "type": "string", "minLength": 1 } },
    "logFile":          { "type": "string" },
    "debug":            { "type": "boolean" },
    "microbench": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "iterations":  { "type": "integer", "minimum": 1 },
        "warmup":      { "type": "integer", "minimum": 0 },
        "maxElements": { "type": "integer", "minimum": 1 },
        "dtypes": {
          "type": "array",
          "items": { "type": "string", "enum": ["float32", "float16", "bfloat16"] }
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(Schema)

// Validate checks a raw JSON config document against Schema.
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return errors.Wrap(err, "schema validation error")
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return errors.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
}
