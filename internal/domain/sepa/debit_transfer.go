package sepa

import (
	"fmt"
	"io"
	"strconv"

	"github.com/beevik/etree"
	"github.com/erp/sepawriter/internal/domain/shared"
	"github.com/erp/sepawriter/internal/domain/shared/textfmt"
	"github.com/erp/sepawriter/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DebitTransferSchemas are the message versions a direct debit can be written in
var DebitTransferSchemas = []Schema{SchemaPain00800102, SchemaPain00800103}

const maxPersonIDLen = 35

// DebitTransfer is a pain.008 customer direct debit initiation. Transactions
// are grouped in one payment information block per sequence type.
type DebitTransfer struct {
	Transfer[*DebitTransferTransaction]

	creditor                *valueobject.IbanData
	creditorAccountCurrency string
	personID                string
}

// NewDebitTransfer creates an empty direct debit in pain.008.001.02 using
// the CORE local instrument
func NewDebitTransfer() *DebitTransfer {
	dt := &DebitTransfer{
		Transfer:                newTransfer[*DebitTransferTransaction](SchemaPain00800102, DebitTransferSchemas),
		creditorAccountCurrency: valueobject.EUR,
	}
	dt.localInstrument = valueobject.MustNewCode(defaultDDInstrCode)
	return dt
}

// SetCreditor sets the collecting party. The data must be valid and carry a known BIC.
func (dt *DebitTransfer) SetCreditor(creditor *valueobject.IbanData) error {
	if creditor == nil {
		return shared.NewDomainError(shared.CodeNullArgument, "Creditor is required")
	}
	if !creditor.IsValid() || creditor.UnknownBic() {
		return shared.InvalidFormat("Creditor IBAN data are invalid")
	}
	dt.creditor = creditor.Clone()
	return nil
}

// Creditor returns the collecting party
func (dt *DebitTransfer) Creditor() *valueobject.IbanData { return dt.creditor.Clone() }

// SetCreditorAccountCurrency sets CdtrAcct/Ccy (default EUR)
func (dt *DebitTransfer) SetCreditorAccountCurrency(currency string) error {
	c, err := valueobject.NormalizeCurrency(currency)
	if err != nil {
		return err
	}
	dt.creditorAccountCurrency = c
	return nil
}

// CreditorAccountCurrency returns the currency of the creditor account
func (dt *DebitTransfer) CreditorAccountCurrency() string { return dt.creditorAccountCurrency }

// SetPersonID sets the creditor scheme identification
func (dt *DebitTransfer) SetPersonID(id string) error {
	if textfmt.Length(id) > maxPersonIDLen {
		return shared.InvalidFormat(fmt.Sprintf(
			"Creditor scheme identification %q cannot exceed %d characters", id, maxPersonIDLen))
	}
	dt.personID = id
	return nil
}

// PersonID returns the creditor scheme identification
func (dt *DebitTransfer) PersonID() string { return dt.personID }

// AddDebitTransfer adds a copy of tx to the transfer
func (dt *DebitTransfer) AddDebitTransfer(tx *DebitTransferTransaction) error {
	if tx == nil {
		return shared.NewDomainError(shared.CodeNullArgument, "Transaction is required")
	}
	if tx.debtor == nil {
		return shared.MissingField("Transaction Debtor IBAN data are mandatory")
	}
	return dt.addTransaction(tx)
}

// CheckMandatoryData verifies everything needed to render the message
func (dt *DebitTransfer) CheckMandatoryData() error {
	if err := dt.checkMandatoryData(); err != nil {
		return err
	}
	if dt.creditor == nil {
		return shared.MissingField("Creditor IBAN data are mandatory")
	}
	return nil
}

// Document builds the XML document of the direct debit
func (dt *DebitTransfer) Document() (*etree.Document, error) {
	if err := dt.CheckMandatoryData(); err != nil {
		return nil, err
	}
	doc, initn, err := newDocument(dt.schema, "CstmrDrctDbtInitn")
	if err != nil {
		return nil, err
	}
	dt.addGroupHeader(initn)

	for _, st := range SequenceTypes {
		var (
			subset []*DebitTransferTransaction
			sum    = decimal.Zero
		)
		for _, tx := range dt.transactions {
			if tx.sequenceType == st {
				subset = append(subset, tx)
				sum = sum.Add(tx.amount.Decimal())
			}
		}
		if len(subset) == 0 {
			continue
		}
		if err := dt.addPaymentInformation(initn, st, subset, sum); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (dt *DebitTransfer) addPaymentInformation(parent *etree.Element, st SequenceType,
	txs []*DebitTransferTransaction, sum decimal.Decimal) error {
	seqTp, err := SequenceTypeToString(st)
	if err != nil {
		return err
	}

	pmtInf := newElement(parent, "PmtInf")
	newElement(pmtInf, "PmtInfId", dt.effectivePaymentInfoID())
	newElement(pmtInf, "PmtMtd", paymentMethodDD)
	dt.addBatchBooking(pmtInf)
	newElement(pmtInf, "NbOfTxs", strconv.Itoa(len(txs)))
	newElement(pmtInf, "CtrlSum", textfmt.FormatAmount(sum))

	pmtTpInf := newElement(pmtInf, "PmtTpInf")
	newElement(newElement(pmtTpInf, "SvcLvl"), "Cd", serviceLevelSEPA)
	addCodeOrProprietary(pmtTpInf, "LclInstrm", dt.localInstrument)
	newElement(pmtTpInf, "SeqTp", seqTp)
	addCodeOrProprietary(pmtTpInf, "CtgyPurp", dt.categoryPurpose)

	newElement(pmtInf, "ReqdColltnDt", textfmt.FormatDate(dt.requestedExecutionDate))
	addParty(pmtInf, "Cdtr", dt.creditor, nil)
	addAccount(pmtInf, "CdtrAcct", dt.creditor, dt.creditorAccountCurrency)
	addAgent(pmtInf, dt.schema, "CdtrAgt", dt.creditor)
	newElement(pmtInf, "ChrgBr", chargeBearerSLEV)

	othr := newElement(newElement(newElement(newElement(pmtInf, "CdtrSchmeId"), "Id"), "PrvtId"), "Othr")
	newElement(othr, "Id", dt.personID)
	newElement(newElement(othr, "SchmeNm"), "Prtry", serviceLevelSEPA)

	for _, tx := range txs {
		dt.addTransactionInformation(pmtInf, tx)
	}
	return nil
}

func (dt *DebitTransfer) addTransactionInformation(pmtInf *etree.Element, tx *DebitTransferTransaction) {
	el := newElement(pmtInf, "DrctDbtTxInf")
	addPaymentID(el, &tx.TransactionCore)
	addInstructedAmount(el, &tx.TransactionCore)

	mndt := newElement(newElement(el, "DrctDbtTx"), "MndtRltdInf")
	newElement(mndt, "MndtId", tx.mandateID)
	newElement(mndt, "DtOfSgntr", textfmt.FormatDate(tx.dateOfSignature))

	addAgent(el, dt.schema, "DbtrAgt", tx.debtor)
	addParty(el, "Dbtr", tx.debtor, nil)
	addAccount(el, "DbtrAcct", tx.debtor, "")
	if tx.purpose != "" {
		newElement(newElement(el, "Purp"), "Cd", tx.purpose)
	}
	addRemittance(el, &tx.TransactionCore)
}

// AsXMLString renders the direct debit as an XML string
func (dt *DebitTransfer) AsXMLString() (string, error) {
	doc, err := dt.Document()
	if err != nil {
		return "", err
	}
	return documentString(doc)
}

// Save renders the direct debit and writes it to w
func (dt *DebitTransfer) Save(w io.Writer) error {
	doc, err := dt.Document()
	if err != nil {
		return err
	}
	return writeDocument(doc, w)
}

// SaveFile renders the direct debit and writes it to filename
func (dt *DebitTransfer) SaveFile(filename string) error {
	doc, err := dt.Document()
	if err != nil {
		return err
	}
	return saveDocument(doc, filename)
}
