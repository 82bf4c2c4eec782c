package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/sepawriter/internal/domain/sepa"
	"github.com/erp/sepawriter/internal/domain/shared/textfmt"
	"github.com/erp/sepawriter/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// messageIDLen leaves room for "/" and a five digit counter in the end to
// end ids derived from a generated message id
const messageIDLen = 24

// TextOptions controls the clean up of free text before it reaches a transfer
type TextOptions struct {
	Transliterate bool
	Clean         bool
}

func (o TextOptions) apply(s string) string {
	if o.Transliterate {
		s = textfmt.Transliterate(s)
	}
	if o.Clean {
		s = textfmt.CleanString(s)
	}
	return s
}

// mapper turns a validated batch into a credit transfer or a direct debit
type mapper struct {
	text          TextOptions
	defaultSchema func(kind string) sepa.Schema
	now           func() time.Time
}

// newMessageID returns a 24 character identifier taken from a random UUID
func newMessageID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:messageIDLen]
}

func (m *mapper) schema(b *Batch) (sepa.Schema, error) {
	if b.Schema == "" {
		return m.defaultSchema(b.Kind), nil
	}
	return sepa.SchemaFromString(b.Schema)
}

// header holds the transfer fields common to both kinds
type header interface {
	SetMessageIdentification(id string) error
	SetPaymentInfoID(id string) error
	SetInitiatingParty(party *valueobject.InitiatingParty)
	SetCreationDate(date time.Time)
	SetRequestedExecutionDate(date time.Time)
	SetCategoryPurpose(purpose valueobject.CodeOrProprietary)
	SetLocalInstrument(instrument valueobject.CodeOrProprietary)
	SetForwardingAgent(bic string) error
	SetBatchBooking(bb sepa.BatchBooking) error
	SetSchema(schema sepa.Schema) error
}

func (m *mapper) applyHeader(h header, b *Batch) error {
	schema, err := m.schema(b)
	if err != nil {
		return err
	}
	if err := h.SetSchema(schema); err != nil {
		return err
	}

	messageID := b.MessageID
	if messageID == "" {
		messageID = newMessageID()
	}
	if err := h.SetMessageIdentification(messageID); err != nil {
		return err
	}
	if b.PaymentInfoID != "" {
		if err := h.SetPaymentInfoID(b.PaymentInfoID); err != nil {
			return err
		}
	}

	if b.CreationDate != "" {
		created, err := time.ParseInLocation(textfmt.DateTimeLayout, b.CreationDate, time.Local)
		if err != nil {
			return fmt.Errorf("creation_date: %w", err)
		}
		h.SetCreationDate(created)
	} else if m.now != nil {
		h.SetCreationDate(m.now())
	}
	if b.ExecutionDate != "" {
		execution, err := time.ParseInLocation(textfmt.DateLayout, b.ExecutionDate, time.Local)
		if err != nil {
			return fmt.Errorf("execution_date: %w", err)
		}
		h.SetRequestedExecutionDate(execution)
	}

	party, err := m.initiatingParty(b.InitiatingParty)
	if err != nil {
		return fmt.Errorf("initiating_party: %w", err)
	}
	h.SetInitiatingParty(party)

	if b.CategoryPurpose != nil {
		cp, err := valueobject.NewCodeOrProprietary(b.CategoryPurpose.Code, b.CategoryPurpose.Proprietary)
		if err != nil {
			return fmt.Errorf("category_purpose: %w", err)
		}
		h.SetCategoryPurpose(cp)
	}
	if b.LocalInstrument != nil {
		li, err := valueobject.NewCodeOrProprietary(b.LocalInstrument.Code, b.LocalInstrument.Proprietary)
		if err != nil {
			return fmt.Errorf("local_instrument: %w", err)
		}
		h.SetLocalInstrument(li)
	}
	if b.ForwardingAgent != "" {
		if err := h.SetForwardingAgent(b.ForwardingAgent); err != nil {
			return err
		}
	}
	if b.BatchBooking != nil {
		bb := sepa.BatchBookingMTM
		if *b.BatchBooking {
			bb = sepa.BatchBookingMTO
		}
		if err := h.SetBatchBooking(bb); err != nil {
			return err
		}
	}
	return nil
}

func (m *mapper) initiatingParty(p *Party) (*valueobject.InitiatingParty, error) {
	if p == nil {
		return nil, fmt.Errorf("initiating party is required")
	}
	var id *valueobject.OrganisationIdentification
	if p.Identification != nil {
		orgID, err := valueobject.NewOrganisationIdentification(p.Identification.ID, p.Identification.Issuer)
		if err != nil {
			return nil, err
		}
		id = &orgID
	}
	return valueobject.NewInitiatingParty(m.text.apply(p.Name), id), nil
}

func (m *mapper) ibanData(a *Account) (*valueobject.IbanData, error) {
	d := &valueobject.IbanData{}
	d.SetName(m.text.apply(a.Name))
	if a.UnknownBIC {
		d.SetUnknownBic(true)
	} else if err := d.SetBic(a.BIC); err != nil {
		return nil, err
	}
	if a.IBAN != "" {
		if err := d.SetIban(a.IBAN); err != nil {
			return nil, err
		}
	}
	if a.Other != "" {
		if err := d.SetOther(a.Other); err != nil {
			return nil, err
		}
	}
	if a.Address != nil {
		addr, err := m.address(a.Address)
		if err != nil {
			return nil, fmt.Errorf("address: %w", err)
		}
		d.SetAddress(addr)
	}
	return d, nil
}

func (m *mapper) address(a *Address) (*valueobject.PostalAddress, error) {
	addr := valueobject.NewPostalAddress()
	if a.Type != "" {
		t, err := valueobject.AddressTypeFromString(a.Type)
		if err != nil {
			return nil, err
		}
		if err := addr.SetAddressType(t); err != nil {
			return nil, err
		}
	}

	setters := []struct {
		set   func(string) error
		value string
	}{
		{addr.SetDepartment, a.Department},
		{addr.SetSubDepartment, a.SubDepartment},
		{addr.SetStreet, a.Street},
		{addr.SetBuildingNumber, a.BuildingNumber},
		{addr.SetPostCode, a.PostCode},
		{addr.SetTown, a.Town},
		{addr.SetCountrySubDivision, a.CountrySubDivision},
	}
	for _, s := range setters {
		if s.value == "" {
			continue
		}
		if err := s.set(m.text.apply(s.value)); err != nil {
			return nil, err
		}
	}
	if a.Country != "" {
		if err := addr.SetCountry(a.Country); err != nil {
			return nil, err
		}
	}
	if len(a.Lines) > 0 {
		lines := make([]string, len(a.Lines))
		for i, l := range a.Lines {
			lines[i] = m.text.apply(l)
		}
		if err := addr.SetAddressLines(lines); err != nil {
			return nil, err
		}
	}
	return addr, nil
}

// core fills the fields shared by both transaction kinds
func (m *mapper) core(c *sepa.TransactionCore, tx *Transaction) error {
	c.SetID(tx.ID)
	if tx.EndToEndID != "" {
		if err := c.SetEndToEndID(tx.EndToEndID); err != nil {
			return err
		}
	}
	amount, err := decimal.NewFromString(tx.Amount)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	if err := c.SetAmount(amount); err != nil {
		return err
	}
	if tx.Currency != "" {
		if err := c.SetCurrency(tx.Currency); err != nil {
			return err
		}
	}
	c.SetRemittanceInformation(m.text.apply(tx.Remittance))
	return nil
}

// Credit builds a credit transfer from a credit batch
func (m *mapper) Credit(b *Batch) (*sepa.CreditTransfer, error) {
	ct := sepa.NewCreditTransfer()
	if err := m.applyHeader(ct, b); err != nil {
		return nil, err
	}

	debtor, err := m.ibanData(b.Debtor)
	if err != nil {
		return nil, fmt.Errorf("debtor: %w", err)
	}
	if err := ct.SetDebtor(debtor); err != nil {
		return nil, fmt.Errorf("debtor: %w", err)
	}
	if b.AccountCurrency != "" {
		if err := ct.SetDebtorAccountCurrency(b.AccountCurrency); err != nil {
			return nil, err
		}
	}
	if b.DebtorIdentification != nil {
		orgID, err := valueobject.NewOrganisationIdentification(b.DebtorIdentification.ID, b.DebtorIdentification.Issuer)
		if err != nil {
			return nil, fmt.Errorf("debtor_identification: %w", err)
		}
		ct.SetDebtorIdentification(&orgID)
	}
	ct.SetInternational(b.International)
	if b.ChargeBearer != "" {
		cb, err := sepa.ChargeBearerFromString(b.ChargeBearer)
		if err != nil {
			return nil, err
		}
		if err := ct.SetChargeBearer(cb); err != nil {
			return nil, err
		}
	}

	for i := range b.Transactions {
		tx, err := m.creditTransaction(&b.Transactions[i])
		if err == nil {
			err = ct.AddCreditTransfer(tx)
		}
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i+1, err)
		}
	}
	return ct, nil
}

func (m *mapper) creditTransaction(tx *Transaction) (*sepa.CreditTransferTransaction, error) {
	out := sepa.NewCreditTransferTransaction()
	if err := m.core(&out.TransactionCore, tx); err != nil {
		return nil, err
	}
	creditor, err := m.ibanData(tx.Account)
	if err != nil {
		return nil, err
	}
	if err := out.SetCreditor(creditor); err != nil {
		return nil, err
	}
	if tx.Purpose != "" {
		if err := out.SetPurpose(tx.Purpose); err != nil {
			return nil, err
		}
	}
	if tx.RegulatoryReporting != "" {
		if err := out.SetRegulatoryReportingCode(tx.RegulatoryReporting); err != nil {
			return nil, err
		}
	}
	if tx.Instruction != nil {
		code, err := sepa.InstructionForCreditorFromString(tx.Instruction.Code)
		if err != nil {
			return nil, err
		}
		instr := &sepa.InstructionForCreditor{Code: code, Comment: m.text.apply(tx.Instruction.Comment)}
		if err := out.SetInstructionForCreditor(instr); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Debit builds a direct debit from a debit batch
func (m *mapper) Debit(b *Batch) (*sepa.DebitTransfer, error) {
	dt := sepa.NewDebitTransfer()
	if err := m.applyHeader(dt, b); err != nil {
		return nil, err
	}

	creditor, err := m.ibanData(b.Creditor)
	if err != nil {
		return nil, fmt.Errorf("creditor: %w", err)
	}
	if err := dt.SetCreditor(creditor); err != nil {
		return nil, fmt.Errorf("creditor: %w", err)
	}
	if b.AccountCurrency != "" {
		if err := dt.SetCreditorAccountCurrency(b.AccountCurrency); err != nil {
			return nil, err
		}
	}
	if err := dt.SetPersonID(b.CreditorSchemeID); err != nil {
		return nil, err
	}

	for i := range b.Transactions {
		tx, err := m.debitTransaction(&b.Transactions[i])
		if err == nil {
			err = dt.AddDebitTransfer(tx)
		}
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i+1, err)
		}
	}
	return dt, nil
}

func (m *mapper) debitTransaction(tx *Transaction) (*sepa.DebitTransferTransaction, error) {
	out := sepa.NewDebitTransferTransaction()
	if err := m.core(&out.TransactionCore, tx); err != nil {
		return nil, err
	}
	debtor, err := m.ibanData(tx.Account)
	if err != nil {
		return nil, err
	}
	if err := out.SetDebtor(debtor); err != nil {
		return nil, err
	}
	if err := out.SetMandateIdentification(tx.MandateID); err != nil {
		return nil, err
	}
	signed, err := time.ParseInLocation(textfmt.DateLayout, tx.MandateDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("mandate_date: %w", err)
	}
	out.SetDateOfSignature(signed)
	if tx.SequenceType != "" {
		st, err := sepa.SequenceTypeFromString(tx.SequenceType)
		if err != nil {
			return nil, err
		}
		if err := out.SetSequenceType(st); err != nil {
			return nil, err
		}
	}
	if tx.Purpose != "" {
		if err := out.SetPurpose(tx.Purpose); err != nil {
			return nil, err
		}
	}
	return out, nil
}
