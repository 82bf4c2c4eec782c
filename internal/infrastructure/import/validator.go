package csvimport

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// FieldType represents the expected type of a field
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeDecimal FieldType = "decimal"
	TypeDate    FieldType = "date"
	TypeBool    FieldType = "bool"
)

// FieldRule defines validation rules for a column
type FieldRule struct {
	Column      string
	Type        FieldType
	Required    bool
	MinLength   int
	MaxLength   int
	MinValue    *decimal.Decimal
	MaxValue    *decimal.Decimal
	MaxScale    int32 // decimals allowed, 0 means any
	Pattern     *regexp.Regexp
	PatternDesc string
	DateFormat  string
	OneOf       []string
	Unique      bool
	CustomFunc  func(value string) error
}

// FieldRuleBuilder helps build field rules fluently
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field creates a new field rule builder
func Field(column string) *FieldRuleBuilder {
	return &FieldRuleBuilder{
		rule: FieldRule{
			Column:     normalizeHeader(column),
			Type:       TypeString,
			DateFormat: "2006-01-02",
		},
	}
}

// Required marks the field as required
func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

// Decimal sets the field type to decimal
func (b *FieldRuleBuilder) Decimal() *FieldRuleBuilder {
	b.rule.Type = TypeDecimal
	return b
}

// Date sets the field type to date
func (b *FieldRuleBuilder) Date() *FieldRuleBuilder {
	b.rule.Type = TypeDate
	return b
}

// DateFormat sets the expected date layout
func (b *FieldRuleBuilder) DateFormat(layout string) *FieldRuleBuilder {
	b.rule.DateFormat = layout
	return b
}

// Bool sets the field type to boolean
func (b *FieldRuleBuilder) Bool() *FieldRuleBuilder {
	b.rule.Type = TypeBool
	return b
}

// MaxLength sets the maximum length in characters
func (b *FieldRuleBuilder) MaxLength(n int) *FieldRuleBuilder {
	b.rule.MaxLength = n
	return b
}

// Length sets the minimum and maximum length in characters
func (b *FieldRuleBuilder) Length(min, max int) *FieldRuleBuilder {
	b.rule.MinLength = min
	b.rule.MaxLength = max
	return b
}

// Range sets both min and max values
func (b *FieldRuleBuilder) Range(min, max decimal.Decimal) *FieldRuleBuilder {
	b.rule.MinValue = &min
	b.rule.MaxValue = &max
	return b
}

// MaxScale limits the number of decimals
func (b *FieldRuleBuilder) MaxScale(n int32) *FieldRuleBuilder {
	b.rule.MaxScale = n
	return b
}

// Pattern sets a regex pattern for validation
func (b *FieldRuleBuilder) Pattern(pattern, description string) *FieldRuleBuilder {
	b.rule.Pattern = regexp.MustCompile(pattern)
	b.rule.PatternDesc = description
	return b
}

// OneOf restricts the value to a set of codes, compared case insensitively
func (b *FieldRuleBuilder) OneOf(values ...string) *FieldRuleBuilder {
	b.rule.OneOf = values
	return b
}

// Unique marks the field as unique within the file
func (b *FieldRuleBuilder) Unique() *FieldRuleBuilder {
	b.rule.Unique = true
	return b
}

// Custom sets a custom validation function
func (b *FieldRuleBuilder) Custom(fn func(value string) error) *FieldRuleBuilder {
	b.rule.CustomFunc = fn
	return b
}

// Build returns the built field rule
func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// FieldValidator validates rows according to rules
type FieldValidator struct {
	rules       []FieldRule
	uniqueCheck map[string]map[string]int // column -> value -> first row number
	errors      *ErrorCollection
}

// NewFieldValidator creates a new field validator
func NewFieldValidator(rules []FieldRule, maxErrors int) *FieldValidator {
	return &FieldValidator{
		rules:       rules,
		uniqueCheck: make(map[string]map[string]int),
		errors:      NewErrorCollection(maxErrors),
	}
}

// RequiredColumns returns the columns that must be present in the header
func (v *FieldValidator) RequiredColumns() []string {
	var cols []string
	for _, r := range v.rules {
		if r.Required {
			cols = append(cols, r.Column)
		}
	}
	return cols
}

// ValidateRow validates all fields in a row, in rule order
func (v *FieldValidator) ValidateRow(row *Row) bool {
	hasError := false

	for _, rule := range v.rules {
		value := row.Get(rule.Column)

		if value == "" {
			if rule.Required {
				v.errors.AddRequiredError(row.LineNumber, rule.Column)
				hasError = true
			}
			continue
		}

		if !v.validateField(row.LineNumber, rule, value) {
			hasError = true
		}
	}

	return !hasError
}

func (v *FieldValidator) validateField(line int, rule FieldRule, value string) bool {
	if err := validateType(value, rule.Type, rule.DateFormat); err != nil {
		v.errors.AddTypeError(line, rule.Column, string(rule.Type), value)
		return false
	}

	ok := true
	n := utf8.RuneCountInString(value)
	if (rule.MaxLength > 0 && n > rule.MaxLength) || (rule.MinLength > 0 && n < rule.MinLength) {
		v.errors.AddLengthError(line, rule.Column, rule.MinLength, rule.MaxLength)
		ok = false
	}

	if rule.Type == TypeDecimal {
		if detail := checkDecimal(value, rule); detail != "" {
			v.errors.AddRangeError(line, rule.Column, detail, value)
			ok = false
		}
	}

	if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
		v.errors.AddPatternError(line, rule.Column, rule.PatternDesc, value)
		ok = false
	}

	if len(rule.OneOf) > 0 && !slices.ContainsFunc(rule.OneOf, func(s string) bool { return strings.EqualFold(s, value) }) {
		v.errors.AddUnknownValueError(line, rule.Column, value, rule.OneOf)
		ok = false
	}

	if rule.Unique {
		if v.uniqueCheck[rule.Column] == nil {
			v.uniqueCheck[rule.Column] = make(map[string]int)
		}
		if firstRow, exists := v.uniqueCheck[rule.Column][value]; exists {
			v.errors.Add(NewRowErrorWithValue(line, rule.Column, ErrCodeImportDuplicateInFile,
				fmt.Sprintf("duplicate value '%s' (first seen in row %d)", value, firstRow), value))
			ok = false
		} else {
			v.uniqueCheck[rule.Column][value] = line
		}
	}

	if rule.CustomFunc != nil {
		if err := rule.CustomFunc(value); err != nil {
			v.errors.Add(NewRowErrorWithValue(line, rule.Column, ErrCodeImportValidation, err.Error(), value))
			ok = false
		}
	}

	return ok
}

// validateType validates a value against expected type
func validateType(value string, fieldType FieldType, dateFormat string) error {
	switch fieldType {
	case TypeDecimal:
		_, err := decimal.NewFromString(value)
		return err
	case TypeDate:
		_, err := time.Parse(dateFormat, value)
		return err
	case TypeBool:
		if _, ok := ParseBool(value); !ok {
			return fmt.Errorf("invalid boolean value: %s", value)
		}
	}
	return nil
}

// ParseBool accepts true/false, 1/0, yes/no and y/n
func ParseBool(value string) (bool, bool) {
	switch strings.ToLower(value) {
	case "true", "1", "yes", "y":
		return true, true
	case "false", "0", "no", "n":
		return false, true
	}
	return false, false
}

func checkDecimal(value string, rule FieldRule) string {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return err.Error()
	}
	if rule.MinValue != nil && d.LessThan(*rule.MinValue) {
		return fmt.Sprintf("value must be at least %s", rule.MinValue.String())
	}
	if rule.MaxValue != nil && d.GreaterThan(*rule.MaxValue) {
		return fmt.Sprintf("value must be at most %s", rule.MaxValue.String())
	}
	if rule.MaxScale > 0 && !d.Equal(d.Truncate(rule.MaxScale)) {
		return fmt.Sprintf("value cannot have more than %d decimals", rule.MaxScale)
	}
	return ""
}

// Errors returns the error collection
func (v *FieldValidator) Errors() *ErrorCollection {
	return v.errors
}

// Reset clears the validator state for reuse
func (v *FieldValidator) Reset() {
	v.uniqueCheck = make(map[string]map[string]int)
	v.errors.Clear()
}
