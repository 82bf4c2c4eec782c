package payment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreditBatch() *Batch {
	return &Batch{
		Kind:            KindCredit,
		InitiatingParty: &Party{Name: "ACME"},
		Debtor:          &Account{Name: "ACME", BIC: "COBADEFFXXX", IBAN: "DE89370400440532013000"},
		Transactions: []Transaction{{
			Amount:  "10",
			Account: &Account{Name: "Bob", BIC: "DEUTDEFF", IBAN: "DE44500105175407324931"},
		}},
	}
}

func validDebitBatch() *Batch {
	return &Batch{
		Kind:             KindDebit,
		InitiatingParty:  &Party{Name: "Club"},
		Creditor:         &Account{Name: "Club", BIC: "BYLADEMMXXX", IBAN: "DE02120300000000202051"},
		CreditorSchemeID: "DE98ZZZ09999999999",
		Transactions: []Transaction{{
			Amount:      "10",
			MandateID:   "M-1",
			MandateDate: "2024-01-01",
			Account:     &Account{Name: "Anna", UnknownBIC: true, IBAN: "DE02700202700010108669"},
		}},
	}
}

func TestBatchValidator_Valid(t *testing.T) {
	v := NewBatchValidator()

	assert.NoError(t, v.Validate(validCreditBatch()))
	assert.NoError(t, v.Validate(validDebitBatch()))
}

func TestBatchValidator_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		batch   func() *Batch
		field   string
		message string
	}{
		{
			name:    "unknown kind",
			batch:   func() *Batch { b := validCreditBatch(); b.Kind = "refund"; return b },
			field:   "kind",
			message: "Must be one of: credit debit",
		},
		{
			name:    "no transactions",
			batch:   func() *Batch { b := validCreditBatch(); b.Transactions = nil; return b },
			field:   "transactions",
			message: "This field is required",
		},
		{
			name:    "credit without debtor",
			batch:   func() *Batch { b := validCreditBatch(); b.Debtor = nil; return b },
			field:   "debtor",
			message: "This field is required in a credit batch",
		},
		{
			name:    "debtor with an unknown BIC",
			batch:   func() *Batch { b := validCreditBatch(); b.Debtor.BIC = ""; b.Debtor.UnknownBIC = true; return b },
			field:   "debtor.unknown_bic",
			message: "This field is not allowed in a credit batch",
		},
		{
			name:    "malformed BIC",
			batch:   func() *Batch { b := validCreditBatch(); b.Debtor.BIC = "COBA-DE"; return b },
			field:   "debtor.bic",
			message: "Invalid BIC format",
		},
		{
			name:    "missing BIC",
			batch:   func() *Batch { b := validCreditBatch(); b.Transactions[0].Account.BIC = ""; return b },
			field:   "transactions[0].account.bic",
			message: "This field is required",
		},
		{
			name:    "account without IBAN or other id",
			batch:   func() *Batch { b := validCreditBatch(); b.Transactions[0].Account.IBAN = ""; return b },
			field:   "transactions[0].account.iban",
			message: "This field is required",
		},
		{
			name:    "negative amount",
			batch:   func() *Batch { b := validCreditBatch(); b.Transactions[0].Amount = "-5"; return b },
			field:   "transactions[0].amount",
			message: "Must be a positive decimal amount",
		},
		{
			name:    "unknown currency",
			batch:   func() *Batch { b := validCreditBatch(); b.Transactions[0].Currency = "EUX"; return b },
			field:   "transactions[0].currency",
			message: "Must be an ISO 4217 currency code",
		},
		{
			name:    "execution date layout",
			batch:   func() *Batch { b := validCreditBatch(); b.ExecutionDate = "04/03/2024"; return b },
			field:   "execution_date",
			message: "Must be a date formatted as 2006-01-02",
		},
		{
			name:    "long end to end id",
			batch:   func() *Batch { b := validCreditBatch(); b.Transactions[0].EndToEndID = "1234567890123456789012345678901"; return b },
			field:   "transactions[0].end_to_end_id",
			message: "Must be at most 30 characters",
		},
		{
			name:    "mandate on a credit transaction",
			batch:   func() *Batch { b := validCreditBatch(); b.Transactions[0].MandateID = "M-1"; return b },
			field:   "transactions[0].mandate_id",
			message: "This field is not allowed in a credit batch",
		},
		{
			name:    "debit without scheme id",
			batch:   func() *Batch { b := validDebitBatch(); b.CreditorSchemeID = ""; return b },
			field:   "creditor_scheme_id",
			message: "This field is required in a debit batch",
		},
		{
			name:    "debit without mandate",
			batch:   func() *Batch { b := validDebitBatch(); b.Transactions[0].MandateID = ""; return b },
			field:   "transactions[0].mandate_id",
			message: "This field is required in a debit batch",
		},
		{
			name:    "international debit",
			batch:   func() *Batch { b := validDebitBatch(); b.International = true; return b },
			field:   "international",
			message: "This field is not allowed in a debit batch",
		},
		{
			name:    "unknown sequence type",
			batch:   func() *Batch { b := validDebitBatch(); b.Transactions[0].SequenceType = "ONCE"; return b },
			field:   "transactions[0].sequence_type",
			message: "Must be one of: OOFF FRST RCUR FNAL",
		},
	}

	v := NewBatchValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.batch())

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "unexpected error %v", err)
			assert.Contains(t, verr.Fields, FieldError{Field: tt.field, Message: tt.message})
			assert.Contains(t, err.Error(), "invalid batch: ")
		})
	}
}

func TestBatchValidator_Nil(t *testing.T) {
	assert.Error(t, NewBatchValidator().Validate(nil))
}
