package sepa

import (
	"bytes"
	"io"
	"os"
	"strconv"

	"github.com/beevik/etree"
	"github.com/erp/sepawriter/internal/domain/shared/textfmt"
	"github.com/erp/sepawriter/internal/domain/shared/valueobject"
)

const (
	xsiNamespace   = "http://www.w3.org/2001/XMLSchema-instance"
	xmlDeclaration = `version="1.0" encoding="utf-8" standalone="yes"`

	serviceLevelSEPA   = "SEPA"
	priorityNormal     = "NORM"
	chargeBearerSLEV   = "SLEV"
	notProvided        = "NOTPROVIDED"
	paymentMethodTRF   = "TRF"
	paymentMethodDD    = "DD"
	defaultDDInstrCode = "CORE"
)

// newDocument creates the document with its declaration and the Document
// root bound to the namespace of schema. It returns the message element
// named rootName.
func newDocument(schema Schema, rootName string) (*etree.Document, *etree.Element, error) {
	ns, err := schema.Namespace()
	if err != nil {
		return nil, nil, err
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", xmlDeclaration)
	root := doc.CreateElement("Document")
	root.CreateAttr("xmlns:xsi", xsiNamespace)
	root.CreateAttr("xmlns", ns)
	return doc, root.CreateElement(rootName), nil
}

// newElement appends a child named name to parent. When a value is given it
// becomes the text content.
func newElement(parent *etree.Element, name string, value ...string) *etree.Element {
	el := parent.CreateElement(name)
	if len(value) > 0 {
		el.SetText(value[0])
	}
	return el
}

// addAgent writes FinInstnId with the BIC, or Othr/Id NOTPROVIDED when the
// BIC is unknown
func addAgent(parent *etree.Element, schema Schema, name string, data *valueobject.IbanData) {
	finInstnID := newElement(newElement(parent, name), "FinInstnId")
	if data.UnknownBic() || data.Bic() == "" {
		newElement(newElement(finInstnID, "Othr"), "Id", notProvided)
		return
	}
	newElement(finInstnID, schema.BicElement(), data.Bic())
}

// addAccount writes the account identification, IBAN first, else Othr/Id.
// currency is written as Ccy when not empty.
func addAccount(parent *etree.Element, name string, data *valueobject.IbanData, currency string) {
	acct := newElement(parent, name)
	id := newElement(acct, "Id")
	if data.Iban() != "" {
		newElement(id, "IBAN", data.Iban())
	} else {
		newElement(newElement(id, "Othr"), "Id", data.Other())
	}
	if currency != "" {
		newElement(acct, "Ccy", currency)
	}
}

// addParty writes Nm and the optional postal address and organisation id
func addParty(parent *etree.Element, name string, data *valueobject.IbanData, orgID *valueobject.OrganisationIdentification) {
	party := newElement(parent, name)
	newElement(party, "Nm", data.Name())
	if addr := data.Address(); addr != nil && !addr.IsEmpty() {
		addPostalAddress(party, addr)
	}
	if orgID != nil {
		addOrganisationID(party, orgID)
	}
}

func addOrganisationID(parent *etree.Element, orgID *valueobject.OrganisationIdentification) {
	othr := newElement(newElement(newElement(parent, "Id"), "OrgId"), "Othr")
	newElement(othr, "Id", orgID.ID())
	if orgID.Issuer() != "" {
		newElement(othr, "Issr", orgID.Issuer())
	}
}

// addPostalAddress writes PstlAdr in PostalAddress6 order
func addPostalAddress(parent *etree.Element, addr *valueobject.PostalAddress) {
	el := newElement(parent, "PstlAdr")
	if code, err := valueobject.AddressTypeToString(addr.AddressType()); err == nil {
		newElement(el, "AdrTp", code)
	}
	optional := []struct{ name, value string }{
		{"Dept", addr.Department()},
		{"SubDept", addr.SubDepartment()},
		{"StrtNm", addr.Street()},
		{"BldgNb", addr.BuildingNumber()},
		{"PstCd", addr.PostCode()},
		{"TwnNm", addr.Town()},
		{"CtrySubDvsn", addr.CountrySubDivision()},
		{"Ctry", addr.Country()},
	}
	for _, f := range optional {
		if f.value != "" {
			newElement(el, f.name, f.value)
		}
	}
	for _, line := range addr.AddressLines() {
		newElement(el, "AdrLine", line)
	}
}

// addCodeOrProprietary writes name{Cd} or name{Prtry}; nothing when empty
func addCodeOrProprietary(parent *etree.Element, name string, value valueobject.CodeOrProprietary) {
	if value.IsEmpty() {
		return
	}
	el := newElement(parent, name)
	if value.Code() != "" {
		newElement(el, "Cd", value.Code())
		return
	}
	newElement(el, "Prtry", value.Proprietary())
}

// addPaymentID writes PmtId with the optional instruction id
func addPaymentID(parent *etree.Element, c *TransactionCore) {
	pmtID := newElement(parent, "PmtId")
	if c.id != "" {
		newElement(pmtID, "InstrId", c.id)
	}
	newElement(pmtID, "EndToEndId", c.endToEndID)
}

func addInstructedAmount(parent *etree.Element, c *TransactionCore) {
	newElement(parent, "InstdAmt", c.amount.String()).CreateAttr("Ccy", c.currency)
}

func addRemittance(parent *etree.Element, c *TransactionCore) {
	if c.remittance == "" {
		return
	}
	newElement(newElement(parent, "RmtInf"), "Ustrd", c.remittance)
}

// addGroupHeader writes GrpHdr from the shared aggregate fields
func (t *Transfer[T]) addGroupHeader(parent *etree.Element) {
	grpHdr := newElement(parent, "GrpHdr")
	newElement(grpHdr, "MsgId", t.messageID)
	newElement(grpHdr, "CreDtTm", textfmt.FormatDateTime(t.creationDate))
	newElement(grpHdr, "NbOfTxs", strconv.Itoa(t.numberOfTransactions))
	newElement(grpHdr, "CtrlSum", textfmt.FormatAmount(t.headerControlSum))

	initgPty := newElement(grpHdr, "InitgPty")
	if name := t.initiatingParty.Name(); !textfmt.IsBlank(name) {
		newElement(initgPty, "Nm", name)
	}
	if id := t.initiatingParty.Identification(); id != nil {
		addOrganisationID(initgPty, id)
	}

	if t.forwardingAgentBic != "" {
		newElement(newElement(newElement(grpHdr, "FwdgAgt"), "FinInstnId"), t.schema.BicElement(), t.forwardingAgentBic)
	}
}

// addBatchBooking writes BtchBookg when a mode is set
func (t *Transfer[T]) addBatchBooking(parent *etree.Element) {
	if t.batchBooking == 0 {
		return
	}
	if v, err := BatchBookingToString(t.batchBooking); err == nil {
		newElement(parent, "BtchBookg", v)
	}
}

// writeDocument serialises doc to w
func writeDocument(doc *etree.Document, w io.Writer) error {
	_, err := doc.WriteTo(w)
	return err
}

func documentString(doc *etree.Document) (string, error) {
	var buf bytes.Buffer
	if err := writeDocument(doc, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func saveDocument(doc *etree.Document, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := writeDocument(doc, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
