package sepa

import (
	"fmt"
	"time"

	"github.com/erp/sepawriter/internal/domain/shared"
	"github.com/erp/sepawriter/internal/domain/shared/textfmt"
	"github.com/erp/sepawriter/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

const (
	maxEndToEndIDLen     = 30
	maxRemittanceLen     = 140
	maxMandateIDLen      = 35
	maxPurposeLen        = 4
	maxRegulatoryLen     = 10
	maxInstructionInfLen = 140
)

// Transaction is implemented by the transaction variants a Transfer can hold
type Transaction[T any] interface {
	Clone() T
	core() *TransactionCore
}

// TransactionCore holds the fields shared by credit and debit transactions.
// It is embedded by both variants.
type TransactionCore struct {
	currency   string
	id         string
	endToEndID string
	remittance string
	amount     valueobject.Amount
}

func newTransactionCore() TransactionCore {
	return TransactionCore{currency: valueobject.EUR}
}

func (t *TransactionCore) core() *TransactionCore {
	return t
}

// SetCurrency sets the ISO 4217 currency of the amount
func (t *TransactionCore) SetCurrency(currency string) error {
	c, err := valueobject.NormalizeCurrency(currency)
	if err != nil {
		return err
	}
	t.currency = c
	return nil
}

// Currency returns the currency, EUR unless set
func (t *TransactionCore) Currency() string { return t.currency }

// SetID sets the instruction identification; empty means none
func (t *TransactionCore) SetID(id string) { t.id = id }

// ID returns the instruction identification
func (t *TransactionCore) ID() string { return t.id }

// SetEndToEndID sets the end to end identification.
// An empty value or more than 30 characters is rejected; a transfer assigns
// one itself when a transaction is added without it.
func (t *TransactionCore) SetEndToEndID(id string) error {
	if id == "" || textfmt.Length(id) > maxEndToEndIDLen {
		return shared.InvalidFormat(fmt.Sprintf(
			"EndToEndId %q must be set and cannot be longer than %d characters", id, maxEndToEndIDLen))
	}
	t.endToEndID = id
	return nil
}

// EndToEndID returns the end to end identification
func (t *TransactionCore) EndToEndID() string { return t.endToEndID }

// SetRemittanceInformation sets the unstructured remittance text, silently
// truncated to 140 characters
func (t *TransactionCore) SetRemittanceInformation(info string) {
	t.remittance = textfmt.Truncate(info, maxRemittanceLen)
}

// RemittanceInformation returns the remittance text
func (t *TransactionCore) RemittanceInformation() string { return t.remittance }

// SetAmount validates and sets the amount
func (t *TransactionCore) SetAmount(amount decimal.Decimal) error {
	a, err := valueobject.NewAmount(amount)
	if err != nil {
		return err
	}
	t.amount = a
	return nil
}

// Amount returns the amount
func (t *TransactionCore) Amount() valueobject.Amount { return t.amount }

func checkPurpose(code string) error {
	if textfmt.Length(code) > maxPurposeLen {
		return shared.InvalidFormat(fmt.Sprintf("Purpose code %q cannot exceed %d characters", code, maxPurposeLen))
	}
	return nil
}

// InstructionForCreditor is an instruction to the creditor agent with an
// optional free comment
type InstructionForCreditor struct {
	Code    InstructionForCreditorCode
	Comment string
}

// CreditTransferTransaction is one payment of a credit transfer
type CreditTransferTransaction struct {
	TransactionCore
	creditor            *valueobject.IbanData
	purpose             string
	regulatoryReporting string
	instruction         *InstructionForCreditor
}

// NewCreditTransferTransaction creates an empty transaction in EUR
func NewCreditTransferTransaction() *CreditTransferTransaction {
	return &CreditTransferTransaction{TransactionCore: newTransactionCore()}
}

// SetCreditor sets the beneficiary. The data must be valid and carry a known BIC.
// Unlike the debtor of a direct debit transaction, a creditor agent is never
// written as NOTPROVIDED; whether pain.001 should accept an unknown creditor
// BIC is still open with the payment domain owners.
func (t *CreditTransferTransaction) SetCreditor(creditor *valueobject.IbanData) error {
	if creditor == nil {
		return shared.NewDomainError(shared.CodeNullArgument, "Creditor is required")
	}
	if !creditor.IsValid() || creditor.UnknownBic() {
		return shared.InvalidFormat("Creditor IBAN data are invalid")
	}
	t.creditor = creditor.Clone()
	return nil
}

// Creditor returns the beneficiary
func (t *CreditTransferTransaction) Creditor() *valueobject.IbanData { return t.creditor.Clone() }

// SetPurpose sets the ISO purpose code (Purp/Cd), at most 4 characters
func (t *CreditTransferTransaction) SetPurpose(code string) error {
	if err := checkPurpose(code); err != nil {
		return err
	}
	t.purpose = code
	return nil
}

// Purpose returns the purpose code
func (t *CreditTransferTransaction) Purpose() string { return t.purpose }

// SetRegulatoryReportingCode sets the regulatory reporting code of an
// international transfer, at most 10 characters
func (t *CreditTransferTransaction) SetRegulatoryReportingCode(code string) error {
	if textfmt.Length(code) > maxRegulatoryLen {
		return shared.InvalidFormat(fmt.Sprintf(
			"Regulatory reporting code %q cannot exceed %d characters", code, maxRegulatoryLen))
	}
	t.regulatoryReporting = code
	return nil
}

// RegulatoryReportingCode returns the regulatory reporting code
func (t *CreditTransferTransaction) RegulatoryReportingCode() string { return t.regulatoryReporting }

// SetInstructionForCreditor sets the instruction for the creditor agent, nil removes it
func (t *CreditTransferTransaction) SetInstructionForCreditor(instr *InstructionForCreditor) error {
	if instr == nil {
		t.instruction = nil
		return nil
	}
	if _, err := InstructionForCreditorToString(instr.Code); err != nil {
		return err
	}
	c := *instr
	c.Comment = textfmt.Truncate(c.Comment, maxInstructionInfLen)
	t.instruction = &c
	return nil
}

// InstructionForCreditor returns the instruction for the creditor agent
func (t *CreditTransferTransaction) InstructionForCreditor() *InstructionForCreditor {
	if t.instruction == nil {
		return nil
	}
	c := *t.instruction
	return &c
}

// Clone returns a deep copy
func (t *CreditTransferTransaction) Clone() *CreditTransferTransaction {
	c := *t
	c.creditor = t.creditor.Clone()
	c.instruction = t.InstructionForCreditor()
	return &c
}

// DebitTransferTransaction is one collection of a direct debit
type DebitTransferTransaction struct {
	TransactionCore
	debtor          *valueobject.IbanData
	mandateID       string
	dateOfSignature time.Time
	sequenceType    SequenceType
	purpose         string
}

// NewDebitTransferTransaction creates an empty one-off transaction in EUR
func NewDebitTransferTransaction() *DebitTransferTransaction {
	return &DebitTransferTransaction{
		TransactionCore: newTransactionCore(),
		sequenceType:    SequenceTypeOOFF,
	}
}

// SetDebtor sets the debited party. The data must be valid; an unknown BIC
// is accepted and written as NOTPROVIDED.
func (t *DebitTransferTransaction) SetDebtor(debtor *valueobject.IbanData) error {
	if debtor == nil {
		return shared.NewDomainError(shared.CodeNullArgument, "Debtor is required")
	}
	if !debtor.IsValid() {
		return shared.InvalidFormat("Debtor IBAN data are invalid")
	}
	t.debtor = debtor.Clone()
	return nil
}

// Debtor returns the debited party
func (t *DebitTransferTransaction) Debtor() *valueobject.IbanData { return t.debtor.Clone() }

// SetMandateIdentification sets the mandate reference, at most 35 characters
func (t *DebitTransferTransaction) SetMandateIdentification(id string) error {
	if textfmt.Length(id) > maxMandateIDLen {
		return shared.InvalidFormat(fmt.Sprintf(
			"Mandate identification %q cannot exceed %d characters", id, maxMandateIDLen))
	}
	t.mandateID = id
	return nil
}

// MandateIdentification returns the mandate reference
func (t *DebitTransferTransaction) MandateIdentification() string { return t.mandateID }

// SetDateOfSignature sets the date the mandate was signed
func (t *DebitTransferTransaction) SetDateOfSignature(date time.Time) { t.dateOfSignature = date }

// DateOfSignature returns the date the mandate was signed
func (t *DebitTransferTransaction) DateOfSignature() time.Time { return t.dateOfSignature }

// SetSequenceType sets the sequence type
func (t *DebitTransferTransaction) SetSequenceType(st SequenceType) error {
	if _, err := SequenceTypeToString(st); err != nil {
		return err
	}
	t.sequenceType = st
	return nil
}

// SequenceType returns the sequence type, OOFF unless set
func (t *DebitTransferTransaction) SequenceType() SequenceType { return t.sequenceType }

// SetPurpose sets the ISO purpose code (Purp/Cd), at most 4 characters
func (t *DebitTransferTransaction) SetPurpose(code string) error {
	if err := checkPurpose(code); err != nil {
		return err
	}
	t.purpose = code
	return nil
}

// Purpose returns the purpose code
func (t *DebitTransferTransaction) Purpose() string { return t.purpose }

// Clone returns a deep copy
func (t *DebitTransferTransaction) Clone() *DebitTransferTransaction {
	c := *t
	c.debtor = t.debtor.Clone()
	return &c
}
