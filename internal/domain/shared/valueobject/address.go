package valueobject

import (
	"fmt"
	"strings"

	"github.com/erp/sepawriter/internal/domain/shared"
	"github.com/erp/sepawriter/internal/domain/shared/textfmt"
)

// AddressType is the ISO 20022 postal address type
type AddressType int

const (
	AddressTypeNone AddressType = iota
	AddressTypePostal
	AddressTypePOBox
	AddressTypeResidential
	AddressTypeBusiness
	AddressTypeMailTo
	AddressTypeDeliveryTo
)

var addressTypeCodes = map[AddressType]string{
	AddressTypePostal:      "ADDR",
	AddressTypePOBox:       "PBOX",
	AddressTypeResidential: "HOME",
	AddressTypeBusiness:    "BIZZ",
	AddressTypeMailTo:      "MLTO",
	AddressTypeDeliveryTo:  "DLVY",
}

// AddressTypeToString returns the wire code of an address type
func AddressTypeToString(t AddressType) (string, error) {
	code, ok := addressTypeCodes[t]
	if !ok {
		return "", shared.UnknownCode(fmt.Sprintf("Unknown address type: %d", t))
	}
	return code, nil
}

// AddressTypeFromString parses a wire code such as "ADDR"
func AddressTypeFromString(code string) (AddressType, error) {
	for t, c := range addressTypeCodes {
		if c == code {
			return t, nil
		}
	}
	return AddressTypeNone, shared.UnknownCode(fmt.Sprintf("Unknown address type: %s", code))
}

// Field length limits of PostalAddress6
const (
	maxDepartmentLen  = 70
	maxStreetLen      = 70
	maxBuildingLen    = 16
	maxPostCodeLen    = 16
	maxTownLen        = 35
	maxSubDivisionLen = 35
	maxAddressLineLen = 70
	maxAddressLines   = 7
)

// PostalAddress holds the optional postal address of a party.
// Every setter checks its own field length and fails immediately.
type PostalAddress struct {
	addressType AddressType
	department  string
	subDept     string
	street      string
	building    string
	postCode    string
	town        string
	subDivision string
	country     string
	lines       []string
}

// NewPostalAddress creates an empty postal address
func NewPostalAddress() *PostalAddress {
	return &PostalAddress{}
}

func checkLength(field, value string, maxLen int) error {
	if textfmt.Length(value) > maxLen {
		return shared.InvalidFormat(fmt.Sprintf(
			"Invalid length of %s %q, must be less than or equal to %d characters", field, value, maxLen))
	}
	return nil
}

// SetAddressType sets the address type, AddressTypeNone clears it
func (a *PostalAddress) SetAddressType(t AddressType) error {
	if t != AddressTypeNone {
		if _, err := AddressTypeToString(t); err != nil {
			return err
		}
	}
	a.addressType = t
	return nil
}

// SetDepartment sets the department (Dept)
func (a *PostalAddress) SetDepartment(v string) error {
	if err := checkLength("Dept", v, maxDepartmentLen); err != nil {
		return err
	}
	a.department = v
	return nil
}

// SetSubDepartment sets the sub-department (SubDept)
func (a *PostalAddress) SetSubDepartment(v string) error {
	if err := checkLength("SubDept", v, maxDepartmentLen); err != nil {
		return err
	}
	a.subDept = v
	return nil
}

// SetStreet sets the street name (StrtNm)
func (a *PostalAddress) SetStreet(v string) error {
	if err := checkLength("StrtNm", v, maxStreetLen); err != nil {
		return err
	}
	a.street = v
	return nil
}

// SetBuildingNumber sets the building number (BldgNb)
func (a *PostalAddress) SetBuildingNumber(v string) error {
	if err := checkLength("BldgNb", v, maxBuildingLen); err != nil {
		return err
	}
	a.building = v
	return nil
}

// SetPostCode sets the postal code (PstCd)
func (a *PostalAddress) SetPostCode(v string) error {
	if err := checkLength("PstCd", v, maxPostCodeLen); err != nil {
		return err
	}
	a.postCode = v
	return nil
}

// SetTown sets the town name (TwnNm)
func (a *PostalAddress) SetTown(v string) error {
	if err := checkLength("TwnNm", v, maxTownLen); err != nil {
		return err
	}
	a.town = v
	return nil
}

// SetCountrySubDivision sets the country subdivision (CtrySubDvsn)
func (a *PostalAddress) SetCountrySubDivision(v string) error {
	if err := checkLength("CtrySubDvsn", v, maxSubDivisionLen); err != nil {
		return err
	}
	a.subDivision = v
	return nil
}

// SetCountry sets the 2 letter ISO country code, stored upper case.
// An empty value clears the country.
func (a *PostalAddress) SetCountry(v string) error {
	if v != "" && textfmt.Length(v) != 2 {
		return shared.InvalidFormat(fmt.Sprintf(
			"Invalid length of Ctry %q, must be a 2 character ISO country code", v))
	}
	a.country = strings.ToUpper(v)
	return nil
}

// SetAddressLines replaces the free address lines (AdrLine)
func (a *PostalAddress) SetAddressLines(lines []string) error {
	if len(lines) > maxAddressLines {
		return shared.InvalidFormat(fmt.Sprintf(
			"AdrLine cannot contain more than %d items, contains %d", maxAddressLines, len(lines)))
	}
	for _, line := range lines {
		if err := checkLength("AdrLine", line, maxAddressLineLen); err != nil {
			return err
		}
	}
	if lines == nil {
		a.lines = nil
		return nil
	}
	a.lines = append([]string(nil), lines...)
	return nil
}

// AddressType returns the address type
func (a *PostalAddress) AddressType() AddressType { return a.addressType }

// Department returns the department
func (a *PostalAddress) Department() string { return a.department }

// SubDepartment returns the sub-department
func (a *PostalAddress) SubDepartment() string { return a.subDept }

// Street returns the street name
func (a *PostalAddress) Street() string { return a.street }

// BuildingNumber returns the building number
func (a *PostalAddress) BuildingNumber() string { return a.building }

// PostCode returns the postal code
func (a *PostalAddress) PostCode() string { return a.postCode }

// Town returns the town name
func (a *PostalAddress) Town() string { return a.town }

// CountrySubDivision returns the country subdivision
func (a *PostalAddress) CountrySubDivision() string { return a.subDivision }

// Country returns the upper case country code
func (a *PostalAddress) Country() string { return a.country }

// AddressLines returns a copy of the address lines
func (a *PostalAddress) AddressLines() []string {
	if a.lines == nil {
		return nil
	}
	return append([]string(nil), a.lines...)
}

// IsEmpty returns true if no field is set
func (a *PostalAddress) IsEmpty() bool {
	return a.addressType == AddressTypeNone &&
		a.department == "" && a.subDept == "" &&
		a.street == "" && a.building == "" &&
		a.postCode == "" && a.town == "" &&
		a.subDivision == "" && a.country == "" &&
		len(a.lines) == 0
}

// IsValid re-checks every field constraint
func (a *PostalAddress) IsValid() bool {
	if textfmt.Length(a.department) > maxDepartmentLen ||
		textfmt.Length(a.subDept) > maxDepartmentLen ||
		textfmt.Length(a.street) > maxStreetLen ||
		textfmt.Length(a.building) > maxBuildingLen ||
		textfmt.Length(a.postCode) > maxPostCodeLen ||
		textfmt.Length(a.town) > maxTownLen ||
		textfmt.Length(a.subDivision) > maxSubDivisionLen {
		return false
	}
	if a.country != "" && textfmt.Length(a.country) != 2 {
		return false
	}
	if len(a.lines) > maxAddressLines {
		return false
	}
	for _, line := range a.lines {
		if textfmt.Length(line) > maxAddressLineLen {
			return false
		}
	}
	return true
}

// Clone returns an independent copy
func (a *PostalAddress) Clone() *PostalAddress {
	if a == nil {
		return nil
	}
	c := *a
	c.lines = a.AddressLines()
	return &c
}
