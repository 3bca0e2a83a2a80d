package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://scholar/api.json"

// apiSchema describes the response bodies the client understands. Several
// field names have aliases because the API has shipped more than one shape.
const apiSchema = `{
  "$defs": {
    "id": {"type": ["string", "integer"]},
    "document": {
      "type": "object",
      "required": ["id"],
      "properties": {
        "id": {"$ref": "#/$defs/id"},
        "file_name": {"type": "string"},
        "name": {"type": "string"},
        "file_size": {"type": ["number", "null"]},
        "size": {"type": ["number", "null"]},
        "page_count": {"type": ["integer", "null"]},
        "pageCount": {"type": ["integer", "null"]},
        "status": {"type": ["string", "null"]},
        "created_at": {"type": ["string", "null"]},
        "uploadedAt": {"type": ["string", "null"]}
      },
      "anyOf": [{"required": ["file_name"]}, {"required": ["name"]}]
    },
    "documentList": {
      "anyOf": [
        {"type": "array", "items": {"$ref": "#/$defs/document"}},
        {
          "type": "object",
          "required": ["documents"],
          "properties": {"documents": {"type": "array", "items": {"$ref": "#/$defs/document"}}}
        }
      ]
    },
    "upload": {
      "type": "object",
      "anyOf": [
        {"required": ["document"], "properties": {"document": {"$ref": "#/$defs/document"}}},
        {"required": ["doc_id"], "properties": {"doc_id": {"$ref": "#/$defs/id"}}}
      ]
    },
    "generated": {
      "anyOf": [
        {"type": "string", "minLength": 1},
        {
          "type": "object",
          "anyOf": [
            {"required": ["id"], "properties": {"id": {"$ref": "#/$defs/id"}}},
            {"required": ["assessment_id"], "properties": {"assessment_id": {"$ref": "#/$defs/id"}}}
          ]
        }
      ]
    },
    "source": {
      "type": ["object", "null"],
      "properties": {
        "text": {"type": ["string", "null"]},
        "page": {"type": ["integer", "null"]},
        "fileName": {"type": ["string", "null"]},
        "file_name": {"type": ["string", "null"]}
      }
    },
    "question": {
      "type": "object",
      "properties": {
        "id": {"$ref": "#/$defs/id"},
        "type": {"type": "string"},
        "question": {"type": "string"},
        "text": {"type": "string"},
        "options": {"type": ["array", "null"], "items": {"type": "string"}},
        "correctAnswer": {"type": ["integer", "string", "null"]},
        "correct_answer": {"type": ["integer", "string", "null"]},
        "userAnswer": {"type": ["string", "null"]},
        "source": {"$ref": "#/$defs/source"},
        "source_text": {"type": ["string", "null"]},
        "page_number": {"type": ["integer", "null"]}
      },
      "anyOf": [{"required": ["question"]}, {"required": ["text"]}]
    },
    "assessment": {
      "type": "object",
      "required": ["id"],
      "properties": {
        "id": {"$ref": "#/$defs/id"},
        "title": {"type": ["string", "null"]},
        "status": {"type": ["string", "null"]},
        "difficulty": {"type": ["string", "null"]},
        "questions": {"type": ["array", "null"], "items": {"$ref": "#/$defs/question"}},
        "content": {
          "type": ["object", "null"],
          "properties": {
            "questions": {"type": ["array", "null"], "items": {"$ref": "#/$defs/question"}}
          }
        },
        "source_files": {"type": ["array", "null"], "items": {"type": "string"}},
        "sourceFiles": {"type": ["array", "null"], "items": {"type": "string"}}
      }
    },
    "assessmentList": {
      "anyOf": [
        {"type": "array", "items": {"$ref": "#/$defs/assessment"}},
        {
          "type": "object",
          "required": ["assessments"],
          "properties": {"assessments": {"type": "array", "items": {"$ref": "#/$defs/assessment"}}}
        }
      ]
    }
  }
}`

// schemaCache caches compiled JSON schemas by definition name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

var (
	compilerOnce sync.Once
	compiler     *jsonschema.Compiler
	compilerErr  error
	compileMu    sync.Mutex
)

func getCompiledSchema(name string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	compilerOnce.Do(func() {
		var doc any
		if err := json.Unmarshal([]byte(apiSchema), &doc); err != nil {
			compilerErr = fmt.Errorf("parse api schema: %w", err)
			return
		}
		compiler = jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, doc); err != nil {
			compilerErr = fmt.Errorf("add resource: %w", err)
		}
	})
	if compilerErr != nil {
		return nil, compilerErr
	}

	compileMu.Lock()
	defer compileMu.Unlock()
	compiled, err := compiler.Compile(schemaURL + "#/$defs/" + name)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	schemaCache.Store(name, compiled)
	return compiled, nil
}

// validate checks raw against the named definition.
func validate(endpoint, name string, raw []byte) error {
	// UnmarshalJSON keeps numbers as json.Number so integer checks are exact.
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &InvalidResponseError{
			Endpoint: endpoint,
			Content:  raw,
			Err:      fmt.Errorf("invalid JSON: %w", err),
		}
	}

	compiled, err := getCompiledSchema(name)
	if err != nil {
		return &InvalidResponseError{Endpoint: endpoint, Content: raw, Err: err}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &InvalidResponseError{
			Endpoint: endpoint,
			Content:  raw,
			Err:      fmt.Errorf("schema validation failed: %w", err),
		}
	}
	return nil
}
