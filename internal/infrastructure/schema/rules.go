package schema

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

const unbounded = -1

// textRule constrains the character content of a simple element or attribute
type textRule struct {
	minLen  int
	maxLen  int
	pattern *regexp.Regexp
	enum    []string
}

func (r textRule) check(value string) string {
	n := utf8.RuneCountInString(value)
	if n < r.minLen {
		return fmt.Sprintf("value %q is shorter than %d characters", value, r.minLen)
	}
	if r.maxLen > 0 && n > r.maxLen {
		return fmt.Sprintf("value %q is longer than %d characters", value, r.maxLen)
	}
	if r.pattern != nil && !r.pattern.MatchString(value) {
		return fmt.Sprintf("value %q does not match pattern %s", value, r.pattern.String())
	}
	if len(r.enum) > 0 && !slices.Contains(r.enum, value) {
		return fmt.Sprintf("value %q is not one of %s", value, strings.Join(r.enum, ", "))
	}
	return ""
}

type attrRule struct {
	name     string
	required bool
	rule     textRule
}

// node is one element declaration of a compiled schema. A node either has a
// text rule (simple content) or children (sequence or choice).
type node struct {
	name     string
	min      int
	max      int
	text     *textRule
	children []*node
	choice   bool
	attrs    []attrRule
}

// elem declares a required, non repeating complex element with a sequence
func elem(name string, children ...*node) *node {
	return &node{name: name, min: 1, max: 1, children: children}
}

// choiceOf declares a complex element whose content is exactly one of the alternatives
func choiceOf(name string, alternatives ...*node) *node {
	return &node{name: name, min: 1, max: 1, children: alternatives, choice: true}
}

// leaf declares a required simple element
func leaf(name string, rule textRule) *node {
	r := rule
	return &node{name: name, min: 1, max: 1, text: &r}
}

// opt makes the element optional
func (n *node) opt() *node {
	c := *n
	c.min = 0
	return &c
}

// many lets the element repeat without bound
func (n *node) many() *node {
	c := *n
	c.max = unbounded
	return &c
}

// upTo lets the element repeat at most max times
func (n *node) upTo(max int) *node {
	c := *n
	c.max = max
	return &c
}

// withAttr declares an attribute of the element
func (n *node) withAttr(name string, required bool, rule textRule) *node {
	c := *n
	c.attrs = append(slices.Clone(n.attrs), attrRule{name: name, required: required, rule: rule})
	return &c
}

func maxText(n int) textRule { return textRule{minLen: 1, maxLen: n} }

func patternText(expr string) textRule {
	return textRule{minLen: 1, pattern: regexp.MustCompile("^(?:" + expr + ")$")}
}

func enumText(values ...string) textRule { return textRule{minLen: 1, enum: values} }

// Simple types of the ISO 20022 payment initiation schemas
var (
	max4Text   = maxText(4)
	max10Text  = maxText(10)
	max16Text  = maxText(16)
	max34Text  = maxText(34)
	max35Text  = maxText(35)
	max70Text  = maxText(70)
	max140Text = maxText(140)

	isoDate         = patternText(`\d{4}-\d{2}-\d{2}`)
	isoDateTime     = patternText(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?`)
	max15Numeric    = patternText(`[0-9]{1,15}`)
	decimalNumber   = patternText(`\d{1,18}(\.\d{1,17})?`)
	currencyAmount  = patternText(`\d{1,18}(\.\d{1,5})?`)
	bicIdentifier   = patternText(`[A-Z]{6,6}[A-Z2-9][A-NP-Z0-9]([A-Z0-9]{3,3}){0,1}`)
	ibanIdentifier  = patternText(`[A-Z]{2,2}[0-9]{2,2}[a-zA-Z0-9]{1,30}`)
	countryCode     = patternText(`[A-Z]{2,2}`)
	currencyCode    = patternText(`[A-Z]{3,3}`)
	booleanIndictor = enumText("true", "false")

	addressTypeCode  = enumText("ADDR", "PBOX", "HOME", "BIZZ", "MLTO", "DLVY")
	priorityCode     = enumText("HIGH", "NORM")
	chargeBearerCode = enumText("DEBT", "CRED", "SHAR", "SLEV")
	sequenceTypeCode = enumText("FRST", "RCUR", "FNAL", "OOFF")
	instructionCode  = enumText("CHQB", "HOLD", "PHOB", "TELB")
)

// compiled is a schema ready for validation
type compiled struct {
	namespace string
	root      *node
}
