package valueobject

import (
	"fmt"

	"github.com/erp/sepawriter/internal/domain/shared"
	"github.com/erp/sepawriter/internal/domain/shared/textfmt"
)

const (
	maxNameLen  = 70
	minIbanLen  = 14
	maxIbanLen  = 34
	maxOtherLen = 34
)

// IbanData holds the identity of a debtor or creditor: name, BIC and IBAN,
// optionally an address or a non-IBAN account identification.
type IbanData struct {
	name       string
	bic        string
	unknownBic bool
	iban       string
	other      string
	address    *PostalAddress
}

// NewIbanData creates IbanData from the three usual fields
func NewIbanData(name, bic, iban string) (*IbanData, error) {
	d := &IbanData{}
	d.SetName(name)
	if err := d.SetBic(bic); err != nil {
		return nil, err
	}
	if err := d.SetIban(iban); err != nil {
		return nil, err
	}
	return d, nil
}

// MustNewIbanData creates IbanData, panics on error
func MustNewIbanData(name, bic, iban string) *IbanData {
	d, err := NewIbanData(name, bic, iban)
	if err != nil {
		panic(err)
	}
	return d
}

// SetName sets the holder name, silently truncated to 70 characters
func (d *IbanData) SetName(name string) {
	d.name = textfmt.Truncate(name, maxNameLen)
}

// SetBic sets the BIC, which must have exactly 8 or 11 characters
func (d *IbanData) SetBic(bic string) error {
	if n := textfmt.Length(bic); n != 8 && n != 11 {
		return shared.InvalidFormat(fmt.Sprintf("Invalid BIC code %q, must have 8 or 11 characters", bic))
	}
	d.bic = bic
	return nil
}

// SetUnknownBic flags the BIC as not provided
func (d *IbanData) SetUnknownBic(unknown bool) {
	d.unknownBic = unknown
}

// SetIban strips every whitespace and stores the IBAN if its length is in [14, 34]
func (d *IbanData) SetIban(iban string) error {
	stripped := textfmt.StripWhitespace(iban)
	if n := textfmt.Length(stripped); n < minIbanLen || n > maxIbanLen {
		return shared.InvalidFormat(fmt.Sprintf("Invalid IBAN code %q, must have between %d and %d characters",
			iban, minIbanLen, maxIbanLen))
	}
	d.iban = stripped
	return nil
}

// SetOther sets a non-IBAN account identification of at most 34 characters
func (d *IbanData) SetOther(other string) error {
	stripped := textfmt.StripWhitespace(other)
	if textfmt.Length(stripped) > maxOtherLen {
		return shared.InvalidFormat(fmt.Sprintf("Invalid other identification %q, must have at most %d characters",
			other, maxOtherLen))
	}
	d.other = stripped
	return nil
}

// SetAddress attaches a postal address, nil removes it
func (d *IbanData) SetAddress(address *PostalAddress) {
	d.address = address.Clone()
}

// Name returns the holder name
func (d *IbanData) Name() string { return d.name }

// Bic returns the BIC
func (d *IbanData) Bic() string { return d.bic }

// UnknownBic reports whether the BIC was flagged as not provided
func (d *IbanData) UnknownBic() bool { return d.unknownBic }

// Iban returns the IBAN without whitespace
func (d *IbanData) Iban() string { return d.iban }

// Other returns the non-IBAN account identification
func (d *IbanData) Other() string { return d.other }

// Address returns the postal address, nil when absent
func (d *IbanData) Address() *PostalAddress { return d.address }

// IsValid reports whether the data is complete enough to be rendered
func (d *IbanData) IsValid() bool {
	if d == nil {
		return false
	}
	return (d.bic != "" || d.unknownBic) &&
		d.name != "" &&
		(d.iban != "" || d.other != "") &&
		(d.address == nil || d.address.IsValid())
}

// Clone returns a deep copy
func (d *IbanData) Clone() *IbanData {
	if d == nil {
		return nil
	}
	c := *d
	c.address = d.address.Clone()
	return &c
}
