package sepa

import (
	"io"
	"strconv"

	"github.com/beevik/etree"
	"github.com/erp/sepawriter/internal/domain/shared"
	"github.com/erp/sepawriter/internal/domain/shared/textfmt"
	"github.com/erp/sepawriter/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CreditTransferSchemas are the message versions a credit transfer can be written in
var CreditTransferSchemas = []Schema{SchemaPain00100103, SchemaPain00100104}

// CreditTransfer is a pain.001 customer credit transfer initiation with a
// single payment information block.
type CreditTransfer struct {
	Transfer[*CreditTransferTransaction]

	debtor                *valueobject.IbanData
	debtorAccountCurrency string
	debtorIdentification  *valueobject.OrganisationIdentification
	international         bool
	chargeBearer          ChargeBearer
}

// NewCreditTransfer creates an empty credit transfer in pain.001.001.03
func NewCreditTransfer() *CreditTransfer {
	return &CreditTransfer{
		Transfer:              newTransfer[*CreditTransferTransaction](SchemaPain00100103, CreditTransferSchemas),
		debtorAccountCurrency: valueobject.EUR,
		chargeBearer:          ChargeBearerSHAR,
	}
}

// SetDebtor sets the debited party. The data must be valid and carry a known BIC.
func (ct *CreditTransfer) SetDebtor(debtor *valueobject.IbanData) error {
	if debtor == nil {
		return shared.NewDomainError(shared.CodeNullArgument, "Debtor is required")
	}
	if !debtor.IsValid() || debtor.UnknownBic() {
		return shared.InvalidFormat("Debtor IBAN data are invalid")
	}
	ct.debtor = debtor.Clone()
	return nil
}

// Debtor returns the debited party
func (ct *CreditTransfer) Debtor() *valueobject.IbanData { return ct.debtor.Clone() }

// SetDebtorAccountCurrency sets DbtrAcct/Ccy (default EUR)
func (ct *CreditTransfer) SetDebtorAccountCurrency(currency string) error {
	c, err := valueobject.NormalizeCurrency(currency)
	if err != nil {
		return err
	}
	ct.debtorAccountCurrency = c
	return nil
}

// DebtorAccountCurrency returns the currency of the debtor account
func (ct *CreditTransfer) DebtorAccountCurrency() string { return ct.debtorAccountCurrency }

// SetDebtorIdentification sets the organisation id written in Dbtr/Id; nil removes it
func (ct *CreditTransfer) SetDebtorIdentification(id *valueobject.OrganisationIdentification) {
	if id == nil {
		ct.debtorIdentification = nil
		return
	}
	c := *id
	ct.debtorIdentification = &c
}

// DebtorIdentification returns the debtor organisation id, nil when absent
func (ct *CreditTransfer) DebtorIdentification() *valueobject.OrganisationIdentification {
	return ct.debtorIdentification
}

// SetInternational marks the transfer as an international (non SEPA) order.
// An international order uses the NORM priority, the charge bearer and the
// per transaction instruction and regulatory reporting blocks.
func (ct *CreditTransfer) SetInternational(international bool) { ct.international = international }

// IsInternational reports whether the transfer is an international order
func (ct *CreditTransfer) IsInternational() bool { return ct.international }

// SetChargeBearer sets the charge bearer of an international order
func (ct *CreditTransfer) SetChargeBearer(cb ChargeBearer) error {
	if _, err := ChargeBearerToString(cb); err != nil {
		return err
	}
	ct.chargeBearer = cb
	return nil
}

// ChargeBearer returns the charge bearer (default SHAR)
func (ct *CreditTransfer) ChargeBearer() ChargeBearer { return ct.chargeBearer }

// AddCreditTransfer adds a copy of tx to the transfer
func (ct *CreditTransfer) AddCreditTransfer(tx *CreditTransferTransaction) error {
	if tx == nil {
		return shared.NewDomainError(shared.CodeNullArgument, "Transaction is required")
	}
	if tx.creditor == nil {
		return shared.MissingField("Transaction Creditor IBAN data are mandatory")
	}
	return ct.addTransaction(tx)
}

// AddCreditTransferFields builds a transaction from its usual fields and adds it.
// An empty endToEndID lets the transfer assign one.
func (ct *CreditTransfer) AddCreditTransferFields(id, endToEndID string, creditor *valueobject.IbanData,
	amount decimal.Decimal, currency, remittance string) error {
	tx := NewCreditTransferTransaction()
	tx.SetID(id)
	if endToEndID != "" {
		if err := tx.SetEndToEndID(endToEndID); err != nil {
			return err
		}
	}
	if err := tx.SetCreditor(creditor); err != nil {
		return err
	}
	if err := tx.SetAmount(amount); err != nil {
		return err
	}
	if currency != "" {
		if err := tx.SetCurrency(currency); err != nil {
			return err
		}
	}
	tx.SetRemittanceInformation(remittance)
	return ct.AddCreditTransfer(tx)
}

// CheckMandatoryData verifies everything needed to render the message
func (ct *CreditTransfer) CheckMandatoryData() error {
	if err := ct.checkMandatoryData(); err != nil {
		return err
	}
	if ct.debtor == nil {
		return shared.MissingField("Debtor IBAN data are mandatory")
	}
	return nil
}

// Document builds the XML document of the transfer
func (ct *CreditTransfer) Document() (*etree.Document, error) {
	if err := ct.CheckMandatoryData(); err != nil {
		return nil, err
	}
	doc, initn, err := newDocument(ct.schema, "CstmrCdtTrfInitn")
	if err != nil {
		return nil, err
	}
	ct.addGroupHeader(initn)

	pmtInf := newElement(initn, "PmtInf")
	newElement(pmtInf, "PmtInfId", ct.effectivePaymentInfoID())
	newElement(pmtInf, "PmtMtd", paymentMethodTRF)
	ct.addBatchBooking(pmtInf)
	newElement(pmtInf, "NbOfTxs", strconv.Itoa(ct.numberOfTransactions))
	newElement(pmtInf, "CtrlSum", textfmt.FormatAmount(ct.paymentControlSum))

	pmtTpInf := newElement(pmtInf, "PmtTpInf")
	if ct.international {
		newElement(pmtTpInf, "InstrPrty", priorityNormal)
	} else {
		newElement(newElement(pmtTpInf, "SvcLvl"), "Cd", serviceLevelSEPA)
	}
	addCodeOrProprietary(pmtTpInf, "LclInstrm", ct.localInstrument)
	addCodeOrProprietary(pmtTpInf, "CtgyPurp", ct.categoryPurpose)

	newElement(pmtInf, "ReqdExctnDt", textfmt.FormatDate(ct.requestedExecutionDate))
	addParty(pmtInf, "Dbtr", ct.debtor, ct.debtorIdentification)
	addAccount(pmtInf, "DbtrAcct", ct.debtor, ct.debtorAccountCurrency)
	addAgent(pmtInf, ct.schema, "DbtrAgt", ct.debtor)

	chrgBr := chargeBearerSLEV
	if ct.international {
		if chrgBr, err = ChargeBearerToString(ct.chargeBearer); err != nil {
			return nil, err
		}
	}
	newElement(pmtInf, "ChrgBr", chrgBr)

	for _, tx := range ct.transactions {
		if err := ct.addTransactionInformation(pmtInf, tx); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (ct *CreditTransfer) addTransactionInformation(pmtInf *etree.Element, tx *CreditTransferTransaction) error {
	el := newElement(pmtInf, "CdtTrfTxInf")
	addPaymentID(el, &tx.TransactionCore)
	addInstructedAmount(newElement(el, "Amt"), &tx.TransactionCore)
	addAgent(el, ct.schema, "CdtrAgt", tx.creditor)
	addParty(el, "Cdtr", tx.creditor, nil)
	addAccount(el, "CdtrAcct", tx.creditor, "")

	if ct.international && tx.instruction != nil {
		code, err := InstructionForCreditorToString(tx.instruction.Code)
		if err != nil {
			return err
		}
		instr := newElement(el, "InstrForCdtrAgt")
		newElement(instr, "Cd", code)
		if tx.instruction.Comment != "" {
			newElement(instr, "InstrInf", tx.instruction.Comment)
		}
	}
	if tx.purpose != "" {
		newElement(newElement(el, "Purp"), "Cd", tx.purpose)
	}
	if ct.international && tx.regulatoryReporting != "" {
		dtls := newElement(newElement(el, "RgltryRptg"), "Dtls")
		newElement(dtls, "Cd", tx.regulatoryReporting)
	}
	addRemittance(el, &tx.TransactionCore)
	return nil
}

// AsXMLString renders the transfer as an XML string
func (ct *CreditTransfer) AsXMLString() (string, error) {
	doc, err := ct.Document()
	if err != nil {
		return "", err
	}
	return documentString(doc)
}

// Save renders the transfer and writes it to w
func (ct *CreditTransfer) Save(w io.Writer) error {
	doc, err := ct.Document()
	if err != nil {
		return err
	}
	return writeDocument(doc, w)
}

// SaveFile renders the transfer and writes it to filename
func (ct *CreditTransfer) SaveFile(filename string) error {
	doc, err := ct.Document()
	if err != nil {
		return err
	}
	return saveDocument(doc, filename)
}
