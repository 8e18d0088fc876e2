package overrides

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/agentstation/gamelib/pkg/errors"
)

//go:embed overrides.schema.json
var schemaJSON string

const schemaName = "overrides.schema.json"

// Format is the encoding of a rules document.
type Format string

// Supported rule file formats. JSON is accepted by the YAML decoder as well.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath infers the format from a file extension, defaulting to YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// LoadFile reads a rules file. A missing file is not an error and yields an
// empty rule set.
func LoadFile(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Rules{}, nil
		}
		return Rules{}, errors.WrapIO("read", path, err)
	}

	rules, err := LoadRules(data, FormatFromPath(path))
	if err != nil {
		var parseErr *errors.ParseError
		if errors.As(err, &parseErr) && parseErr.File == "" {
			parseErr.File = path
		}
		return Rules{}, err
	}
	return rules, nil
}

// LoadRules decodes and validates a rules document. An empty document
// yields an empty rule set.
func LoadRules(data []byte, format Format) (Rules, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Rules{}, nil
	}

	jsonData := data
	if format != FormatJSON {
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return Rules{}, errors.WrapParse(string(format), "", err)
		}
		jsonData = converted
	}

	value, err := decodeJSON(jsonData)
	if err != nil {
		return Rules{}, errors.WrapParse(string(format), "", err)
	}
	if value == nil {
		return Rules{}, nil
	}

	schema, err := loadSchema()
	if err != nil {
		return Rules{}, fmt.Errorf("load schema: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return Rules{}, &errors.ValidationError{
			Field:   "overrides",
			Message: err.Error(),
		}
	}

	var rules Rules
	if err := json.Unmarshal(jsonData, &rules); err != nil {
		return Rules{}, errors.WrapParse(string(format), "", err)
	}
	return rules, nil
}

// Load reads a rules file and returns a resolver for it.
func Load(path string) (*Resolver, error) {
	rules, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return NewResolver(rules), nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		if err := compiler.AddResource(schemaName, strings.NewReader(schemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile(schemaName)
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}

		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	return compiledSchema, nil
}

func decodeJSON(raw []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("document contains trailing content")
	}
	return value, nil
}
