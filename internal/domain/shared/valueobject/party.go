package valueobject

import (
	"fmt"
	"strings"

	"github.com/erp/sepawriter/internal/domain/shared"
	"github.com/erp/sepawriter/internal/domain/shared/textfmt"
)

const maxMax35Len = 35

// OrganisationIdentification is an "other" organisation identifier with its issuer
type OrganisationIdentification struct {
	id     string
	issuer string
}

// NewOrganisationIdentification validates both parts (at most 35 characters each).
// The issuer is optional.
func NewOrganisationIdentification(id, issuer string) (OrganisationIdentification, error) {
	id = strings.TrimSpace(id)
	issuer = strings.TrimSpace(issuer)
	if id == "" {
		return OrganisationIdentification{}, shared.InvalidFormat("Organisation identification cannot be empty")
	}
	if textfmt.Length(id) > maxMax35Len {
		return OrganisationIdentification{}, shared.InvalidFormat(
			fmt.Sprintf("Organisation identification %q cannot exceed %d characters", id, maxMax35Len))
	}
	if textfmt.Length(issuer) > maxMax35Len {
		return OrganisationIdentification{}, shared.InvalidFormat(
			fmt.Sprintf("Organisation identification issuer %q cannot exceed %d characters", issuer, maxMax35Len))
	}
	return OrganisationIdentification{id: id, issuer: issuer}, nil
}

// ID returns the identifier
func (o OrganisationIdentification) ID() string { return o.id }

// Issuer returns the issuer, empty when not provided
func (o OrganisationIdentification) Issuer() string { return o.issuer }

// InitiatingParty is the party that initiates the payment message
type InitiatingParty struct {
	name           string
	identification *OrganisationIdentification
}

// NewInitiatingParty creates a party; the name is truncated to 70 characters
// and the identification may be nil.
func NewInitiatingParty(name string, identification *OrganisationIdentification) *InitiatingParty {
	p := &InitiatingParty{name: textfmt.Truncate(name, maxNameLen)}
	if identification != nil {
		id := *identification
		p.identification = &id
	}
	return p
}

// Name returns the party name
func (p *InitiatingParty) Name() string { return p.name }

// Identification returns the organisation identification, nil when absent
func (p *InitiatingParty) Identification() *OrganisationIdentification { return p.identification }

// Clone returns an independent copy
func (p *InitiatingParty) Clone() *InitiatingParty {
	if p == nil {
		return nil
	}
	return NewInitiatingParty(p.name, p.identification)
}

// CodeOrProprietary carries either an ISO external code or a proprietary
// value, as used by category purpose and local instrument.
type CodeOrProprietary struct {
	code        string
	proprietary string
}

// NewCodeOrProprietary requires at least one of both values, each at most 35 characters
func NewCodeOrProprietary(code, proprietary string) (CodeOrProprietary, error) {
	code = strings.TrimSpace(code)
	proprietary = strings.TrimSpace(proprietary)
	if code == "" && proprietary == "" {
		return CodeOrProprietary{}, shared.InvalidFormat("Either a code or a proprietary value is required")
	}
	if textfmt.Length(code) > maxMax35Len || textfmt.Length(proprietary) > maxMax35Len {
		return CodeOrProprietary{}, shared.InvalidFormat(
			fmt.Sprintf("Code %q or proprietary %q exceeds %d characters", code, proprietary, maxMax35Len))
	}
	return CodeOrProprietary{code: code, proprietary: proprietary}, nil
}

// MustNewCode creates a code-only value, panics on error
func MustNewCode(code string) CodeOrProprietary {
	c, err := NewCodeOrProprietary(code, "")
	if err != nil {
		panic(err)
	}
	return c
}

// Code returns the ISO code
func (c CodeOrProprietary) Code() string { return c.code }

// Proprietary returns the proprietary value
func (c CodeOrProprietary) Proprietary() string { return c.proprietary }

// IsEmpty reports whether neither value is set
func (c CodeOrProprietary) IsEmpty() bool { return c.code == "" && c.proprietary == "" }
