// Package schema validates rendered payment initiation messages against
// compiled structural rules of the ISO 20022 pain.001 and pain.008 schemas.
package schema

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/erp/sepawriter/internal/domain/sepa"
	"github.com/erp/sepawriter/internal/domain/shared"
	"go.uber.org/zap"
)

const xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"

// Issue is a single validation failure located in the input document
type Issue struct {
	Line     int
	Position int
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("line %d, position %d: %s", i.Line, i.Position, i.Message)
}

// Result is the outcome of a validation
type Result struct {
	Valid  bool
	Issues []Issue
}

// Err joins the issues into one error, nil when the document is valid
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	msgs := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		msgs = append(msgs, issue.String())
	}
	return fmt.Errorf("document is not valid: %s", strings.Join(msgs, "; "))
}

// Registry holds one compiled validator per supported schema. It is built
// once and read-only afterwards.
type Registry struct {
	validators map[sepa.Schema]*Validator
}

// NewRegistry compiles the rules of every schema in sepa.AllSchemas
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{validators: make(map[sepa.Schema]*Validator, len(sepa.AllSchemas))}
	for _, s := range sepa.AllSchemas {
		ns, err := s.Namespace()
		if err != nil {
			continue
		}
		b := blocks{agentBic: s.BicElement(), partyBic: "BICOrBEI"}
		if b.agentBic == "BICFI" {
			b.partyBic = "AnyBIC"
		}

		var c compiled
		if s.IsCreditTransfer() {
			c = creditTransferSchema(ns, b)
		} else {
			c = directDebitSchema(ns, b)
		}
		r.validators[s] = &Validator{
			schema: s,
			rules:  c,
			logger: logger.With(zap.String("schema", s.String())),
		}
	}
	return r
}

// Validator returns the validator of schema
func (r *Registry) Validator(s sepa.Schema) (*Validator, error) {
	v, ok := r.validators[s]
	if !ok {
		return nil, shared.NewDomainError(shared.CodeUnsupportedSchema,
			fmt.Sprintf("No validator for schema %s", s))
	}
	return v, nil
}

// Validator checks documents against the rules of one schema
type Validator struct {
	schema sepa.Schema
	rules  compiled
	logger *zap.Logger
}

// Schema returns the schema the validator checks against
func (v *Validator) Schema() sepa.Schema { return v.schema }

// Validate checks an XML string. Malformed XML is reported as an issue.
func (v *Validator) Validate(document string) Result {
	return v.validate(strings.NewReader(document))
}

// ValidateDocument serialises doc and checks it
func (v *Validator) ValidateDocument(doc *etree.Document) Result {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return v.finish([]Issue{{Message: fmt.Sprintf("cannot serialise document: %v", err)}})
	}
	return v.validate(&buf)
}

func (v *Validator) validate(r io.Reader) Result {
	root, err := parse(r)
	if err != nil {
		issue := Issue{Message: err.Error()}
		var syntaxErr *xml.SyntaxError
		if errors.As(err, &syntaxErr) {
			issue.Line = syntaxErr.Line
			issue.Message = syntaxErr.Msg
		}
		return v.finish([]Issue{issue})
	}

	w := &walker{namespace: v.rules.namespace}
	if root.name.Local != v.rules.root.name {
		w.report(root, "root element is %s, expected %s", root.name.Local, v.rules.root.name)
	} else {
		w.check(root, v.rules.root, "")
	}
	return v.finish(w.issues)
}

func (v *Validator) finish(issues []Issue) Result {
	for _, issue := range issues {
		v.logger.Warn("schema validation issue",
			zap.Int("line", issue.Line),
			zap.Int("position", issue.Position),
			zap.String("message", issue.Message),
		)
	}
	return Result{Valid: len(issues) == 0, Issues: issues}
}

// xmlNode is an element of the parsed input with its start position
type xmlNode struct {
	name     xml.Name
	attrs    []xml.Attr
	children []*xmlNode
	text     strings.Builder
	line     int
	column   int
}

func parse(r io.Reader) (*xmlNode, error) {
	dec := xml.NewDecoder(r)
	var (
		root  *xmlNode
		stack []*xmlNode
	)
	for {
		line, column := dec.InputPos()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &xmlNode{name: t.Name, attrs: t.Attr, line: line, column: column}
			if len(stack) == 0 {
				if root != nil {
					return nil, &xml.SyntaxError{Msg: "more than one root element", Line: line}
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	if root == nil {
		return nil, &xml.SyntaxError{Msg: "document has no root element", Line: 1}
	}
	return root, nil
}

type walker struct {
	namespace string
	issues    []Issue
}

func (w *walker) report(n *xmlNode, format string, args ...any) {
	w.issues = append(w.issues, Issue{
		Line:     n.line,
		Position: n.column,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (w *walker) check(n *xmlNode, rule *node, parentPath string) {
	path := parentPath + "/" + rule.name
	if n.name.Space != w.namespace {
		w.report(n, "%s: element is in namespace %q, expected %q", path, n.name.Space, w.namespace)
	}
	w.checkAttributes(n, rule, path)

	if rule.text != nil {
		if len(n.children) > 0 {
			w.report(n.children[0], "%s: element cannot contain child elements", path)
			return
		}
		if msg := rule.text.check(n.text.String()); msg != "" {
			w.report(n, "%s: %s", path, msg)
		}
		return
	}

	if strings.TrimSpace(n.text.String()) != "" {
		w.report(n, "%s: element cannot contain text", path)
	}
	if rule.choice {
		w.checkChoice(n, rule, path)
		return
	}
	w.checkSequence(n, rule, path)
}

func (w *walker) checkAttributes(n *xmlNode, rule *node, path string) {
	seen := make(map[string]bool, len(n.attrs))
	for _, a := range n.attrs {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") || a.Name.Space == xsiNamespace {
			continue
		}
		declared := false
		for _, ar := range rule.attrs {
			if a.Name.Space == "" && a.Name.Local == ar.name {
				declared = true
				seen[ar.name] = true
				if msg := ar.rule.check(a.Value); msg != "" {
					w.report(n, "%s@%s: %s", path, ar.name, msg)
				}
			}
		}
		if !declared {
			w.report(n, "%s: unexpected attribute %s", path, a.Name.Local)
		}
	}
	for _, ar := range rule.attrs {
		if ar.required && !seen[ar.name] {
			w.report(n, "%s: missing attribute %s", path, ar.name)
		}
	}
}

// consume matches consecutive children named like rule starting at i and
// returns the index after the last match
func (w *walker) consume(children []*xmlNode, i int, rule *node, path string) (int, int) {
	count := 0
	for i < len(children) && children[i].name.Local == rule.name && (rule.max == unbounded || count < rule.max) {
		w.check(children[i], rule, path)
		i++
		count++
	}
	return i, count
}

func (w *walker) checkSequence(n *xmlNode, rule *node, path string) {
	i := 0
	for ri, child := range rule.children {
		for i < len(n.children) && !declares(rule.children[ri:], n.children[i].name.Local) {
			w.report(n.children[i], "%s: unexpected element %s", path, n.children[i].name.Local)
			i++
		}
		var count int
		i, count = w.consume(n.children, i, child, path)
		if count < child.min {
			at := n
			if i < len(n.children) {
				at = n.children[i]
			}
			w.report(at, "%s: missing child element %s", path, child.name)
		}
	}
	for ; i < len(n.children); i++ {
		w.report(n.children[i], "%s: unexpected element %s", path, n.children[i].name.Local)
	}
}

func declares(rules []*node, name string) bool {
	for _, r := range rules {
		if r.name == name {
			return true
		}
	}
	return false
}

func (w *walker) checkChoice(n *xmlNode, rule *node, path string) {
	names := make([]string, 0, len(rule.children))
	for _, alt := range rule.children {
		names = append(names, alt.name)
	}
	if len(n.children) == 0 {
		w.report(n, "%s: missing one of %s", path, strings.Join(names, ", "))
		return
	}

	i := 0
	for _, alt := range rule.children {
		if n.children[0].name.Local != alt.name {
			continue
		}
		var count int
		i, count = w.consume(n.children, 0, alt, path)
		if count < alt.min {
			w.report(n, "%s: missing child element %s", path, alt.name)
		}
		break
	}
	for ; i < len(n.children); i++ {
		w.report(n.children[i], "%s: unexpected element %s, expected one of %s",
			path, n.children[i].name.Local, strings.Join(names, ", "))
	}
}
