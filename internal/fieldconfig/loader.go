// Package fieldconfig loads the declarative field configuration that drives
// which form fields render and how they are validated.
//
// Files may be JSON or YAML. Flags such as mandatory accept real booleans or
// the strings "true"/"false".
package fieldconfig

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	apperrors "github.com/csg33k/fpr-form/internal/common/errors"
	"github.com/csg33k/fpr-form/internal/domain"
	"github.com/csg33k/fpr-form/internal/validation"
)

//go:embed schema.json
var schemaJSON []byte

// DefaultTncName names the terms checkbox when the file leaves it unset.
const DefaultTncName = "tnc"

// LoadFile reads and validates the configuration at path. The extension
// picks the format: .yaml/.yml for YAML, anything else for JSON.
func LoadFile(path string) (*domain.FormConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read field config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(raw)
	default:
		return ParseJSON(raw)
	}
}

// ParseJSON validates and converts a JSON document.
func ParseJSON(raw []byte) (*domain.FormConfig, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apperrors.NewFieldConfigInvalidError("malformed JSON: " + err.Error())
	}
	return parse(doc, raw)
}

// ParseYAML validates and converts a YAML document.
func ParseYAML(raw []byte) (*domain.FormConfig, error) {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, apperrors.NewFieldConfigInvalidError("malformed YAML: " + err.Error())
	}
	normalised, err := json.Marshal(doc)
	if err != nil {
		return nil, apperrors.NewFieldConfigInvalidError("unsupported YAML value: " + err.Error())
	}
	var generic interface{}
	if err := json.Unmarshal(normalised, &generic); err != nil {
		return nil, apperrors.NewFieldConfigInvalidError(err.Error())
	}
	return parse(generic, normalised)
}

func parse(doc interface{}, raw []byte) (*domain.FormConfig, error) {
	if err := validateSchema(doc); err != nil {
		return nil, err
	}
	var f file
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, apperrors.NewFieldConfigInvalidError(err.Error())
	}
	cfg := f.toDomain()
	if err := Check(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateSchema(doc interface{}) error {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return apperrors.NewFieldConfigInvalidError(strings.Join(errs, "; "))
	}
	return nil
}

// Check enforces the rules a schema cannot express: unique field names,
// optional fields that point at configured inputs, sane age bounds, a
// salary ceiling typeable within the keystroke limit and a terms text.
func Check(cfg *domain.FormConfig) error {
	var problems []string
	seen := map[domain.FieldKind]bool{}
	note := func(k domain.FieldKind) {
		if seen[k] {
			problems = append(problems, fmt.Sprintf("field %q configured more than once", k))
		}
		seen[k] = true
	}
	for _, f := range cfg.InputFields {
		note(f.Name)
	}
	for _, f := range cfg.TabFields {
		note(f.Name)
		for _, o := range f.Options {
			if o.OptionalField == nil {
				continue
			}
			if _, ok := cfg.InputField(*o.OptionalField); !ok {
				problems = append(problems, fmt.Sprintf("option %q of %q names optional field %q which is not an input field", o.Value, f.Name, *o.OptionalField))
			}
		}
	}
	for _, f := range cfg.DropdownFields {
		note(f.Name)
	}
	if cfg.MinYearValidation > cfg.MaxYearValidation {
		problems = append(problems, fmt.Sprintf("minYearValidation %d exceeds maxYearValidation %d", cfg.MinYearValidation, cfg.MaxYearValidation))
	}
	if len(fmt.Sprint(cfg.MaxSalaryValidation)) > validation.MaxSalaryLength {
		problems = append(problems, fmt.Sprintf("maxSalaryValidation %d has more than %d digits", cfg.MaxSalaryValidation, validation.MaxSalaryLength))
	}
	// the gate requires the terms to be accepted, so the checkbox must render
	if strings.TrimSpace(cfg.TncText) == "" {
		problems = append(problems, "tncText is required")
	}
	if len(problems) > 0 {
		return apperrors.NewFieldConfigInvalidError(strings.Join(problems, "; "))
	}
	return nil
}
