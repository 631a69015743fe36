package review

import (
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const resultSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["findings"],
  "properties": {
    "status": { "type": "string" },
    "findings": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["page", "issue"],
        "properties": {
          "page": { "type": "integer" },
          "issue": { "type": "string" }
        }
      }
    }
  }
}`

var resultSchemaLoader = gojsonschema.NewStringLoader(resultSchemaJSON)

type failurePayload struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// Parse validates a raw backend payload and decodes it into a Result.
// A payload reporting status "error" becomes a BackendError with its message.
func Parse(raw string) (*Result, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, &MalformedError{Problems: []string{"empty payload"}}
	}

	var failure failurePayload
	if err := json.Unmarshal([]byte(raw), &failure); err != nil {
		return nil, &MalformedError{Problems: []string{err.Error()}}
	}
	if failure.Status == "error" {
		reason := failure.Error
		if reason == "" {
			reason = "review failed"
		}
		return nil, &BackendError{Reason: reason}
	}

	validation, err := gojsonschema.Validate(resultSchemaLoader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, &MalformedError{Problems: []string{err.Error()}}
	}
	if !validation.Valid() {
		problems := make([]string, 0, len(validation.Errors()))
		for _, desc := range validation.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, &MalformedError{Problems: problems}
	}

	var result Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, &MalformedError{Problems: []string{err.Error()}}
	}
	if result.Findings == nil {
		result.Findings = []Finding{}
	}
	return &result, nil
}

// Settle turns a backend reply into an Outcome.
func Settle(raw string, err error) Outcome {
	if err != nil {
		return Err(err)
	}
	result, perr := Parse(raw)
	if perr != nil {
		return Err(perr)
	}
	return Ok(result)
}
