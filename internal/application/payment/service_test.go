package payment

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erp/sepawriter/internal/domain/sepa"
	"github.com/erp/sepawriter/internal/infrastructure/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const creditBatchYAML = `
kind: credit
message_id: MSG-001
payment_info_id: PMT-001
creation_date: "2024-03-01T10:00:00"
execution_date: "2024-03-04"
initiating_party:
  name: ACME GmbH
debtor:
  name: ACME GmbH
  bic: COBADEFFXXX
  iban: DE89 3704 0044 0532 0130 00
transactions:
  - id: INV-1
    amount: "100.50"
    remittance: Invoice 1
    account:
      name: Société Générale
      bic: SOGEFRPPXXX
      iban: FR1420041010050500013M02606
  - id: INV-2
    end_to_end_id: E2E-2
    amount: "20"
    account:
      name: Bob
      bic: DEUTDEFF
      iban: DE44500105175407324931
`

const debitBatchYAML = `
kind: debit
message_id: DD-001
execution_date: "2024-03-10"
initiating_party:
  name: Sports Club
creditor:
  name: Sports Club
  bic: BYLADEMMXXX
  iban: DE02120300000000202051
creditor_scheme_id: DE98ZZZ09999999999
transactions:
  - id: M1
    amount: "30"
    mandate_id: MANDATE-1
    mandate_date: "2023-01-15"
    sequence_type: RCUR
    account:
      name: Anna
      bic: DEUTDEFF
      iban: DE02700202700010108669
  - id: M2
    amount: "12.5"
    mandate_id: MANDATE-2
    mandate_date: "2024-02-01"
    account:
      name: Ben
      unknown_bic: true
      iban: DE02300209000106531065
`

func loadBatch(t *testing.T, content string) *Batch {
	t.Helper()
	b, err := LoadBatch(strings.NewReader(content))
	require.NoError(t, err)
	return b
}

func newTestService(opts Options) *Service {
	return NewService(schema.NewRegistry(nil), nil, opts)
}

// ============================================
// LoadBatch
// ============================================

func TestLoadBatch(t *testing.T) {
	t.Run("decodes a credit batch", func(t *testing.T) {
		b := loadBatch(t, creditBatchYAML)

		assert.Equal(t, KindCredit, b.Kind)
		assert.Equal(t, "MSG-001", b.MessageID)
		require.NotNil(t, b.Debtor)
		assert.Equal(t, "COBADEFFXXX", b.Debtor.BIC)
		require.Len(t, b.Transactions, 2)
		assert.Equal(t, "100.50", b.Transactions[0].Amount)
		assert.Equal(t, "Société Générale", b.Transactions[0].Account.Name)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		_, err := LoadBatch(strings.NewReader("kind: credit\nmesage_id: typo\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mesage_id")
	})

	t.Run("rejects an empty description", func(t *testing.T) {
		_, err := LoadBatch(strings.NewReader(""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})

	t.Run("reads a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "batch.yaml")
		require.NoError(t, os.WriteFile(path, []byte(debitBatchYAML), 0o600))

		b, err := LoadBatchFile(path)
		require.NoError(t, err)
		assert.Equal(t, KindDebit, b.Kind)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadBatchFile(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

// ============================================
// Generate
// ============================================

func TestService_GenerateCredit(t *testing.T) {
	svc := newTestService(Options{Validate: true})

	var out bytes.Buffer
	report, err := svc.Generate(context.Background(), loadBatch(t, creditBatchYAML), &out)
	require.NoError(t, err)

	assert.Equal(t, "MSG-001", report.MessageID)
	assert.Equal(t, sepa.SchemaPain00100103, report.Schema)
	assert.Equal(t, 2, report.Transactions)
	assert.Equal(t, "120.5", report.ControlSum.String())
	require.NotNil(t, report.Validation)
	assert.True(t, report.Validation.Valid, "%v", report.Validation.Issues)

	xml := out.String()
	assert.True(t, strings.HasPrefix(xml, `<?xml version="1.0" encoding="utf-8" standalone="yes"?>`))
	assert.Contains(t, xml, `xmlns="urn:iso:std:iso:20022:tech:xsd:pain.001.001.03"`)
	assert.Contains(t, xml, "<CreDtTm>2024-03-01T10:00:00</CreDtTm>")
	assert.Contains(t, xml, "<ReqdExctnDt>2024-03-04</ReqdExctnDt>")
	assert.Contains(t, xml, "<CtrlSum>120.5</CtrlSum>")
	assert.Contains(t, xml, "<IBAN>DE89370400440532013000</IBAN>")
	assert.Contains(t, xml, "<EndToEndId>PMT-001/1</EndToEndId>")
	assert.Contains(t, xml, "<EndToEndId>E2E-2</EndToEndId>")
	assert.Contains(t, xml, "<Nm>Société Générale</Nm>")
}

func TestService_GenerateDebit(t *testing.T) {
	svc := newTestService(Options{Validate: true, DebitSchema: sepa.SchemaPain00800103})

	var out bytes.Buffer
	report, err := svc.Generate(context.Background(), loadBatch(t, debitBatchYAML), &out)
	require.NoError(t, err)

	assert.Equal(t, sepa.SchemaPain00800103, report.Schema)
	assert.Equal(t, 2, report.Transactions)
	assert.Equal(t, "42.5", report.ControlSum.String())
	assert.True(t, report.Validation.Valid, "%v", report.Validation.Issues)

	xml := out.String()
	assert.Contains(t, xml, `xmlns="urn:iso:std:iso:20022:tech:xsd:pain.008.001.03"`)
	assert.Contains(t, xml, "<SeqTp>OOFF</SeqTp>")
	assert.Contains(t, xml, "<SeqTp>RCUR</SeqTp>")
	assert.Contains(t, xml, "<MndtId>MANDATE-1</MndtId>")
	assert.Contains(t, xml, "<DtOfSgntr>2023-01-15</DtOfSgntr>")
	assert.Contains(t, xml, "NOTPROVIDED")
	assert.Contains(t, xml, "DE98ZZZ09999999999")
	assert.Less(t, strings.Index(xml, "<SeqTp>OOFF</SeqTp>"), strings.Index(xml, "<SeqTp>RCUR</SeqTp>"))
}

func TestService_GenerateOptions(t *testing.T) {
	t.Run("batch schema wins over the default", func(t *testing.T) {
		b := loadBatch(t, creditBatchYAML)
		b.Schema = "pain.001.001.04"

		var out bytes.Buffer
		report, err := newTestService(Options{Validate: true}).Generate(context.Background(), b, &out)
		require.NoError(t, err)
		assert.Equal(t, sepa.SchemaPain00100104, report.Schema)
		assert.Contains(t, out.String(), "<BICFI>COBADEFFXXX</BICFI>")
		assert.True(t, report.Validation.Valid, "%v", report.Validation.Issues)
	})

	t.Run("cleans free text", func(t *testing.T) {
		svc := newTestService(Options{Text: TextOptions{Transliterate: true, Clean: true}})

		var out bytes.Buffer
		report, err := svc.Generate(context.Background(), loadBatch(t, creditBatchYAML), &out)
		require.NoError(t, err)
		assert.Nil(t, report.Validation)
		assert.Contains(t, out.String(), "<Nm>SOCIETE GENERALE</Nm>")
		assert.Contains(t, out.String(), "<Ustrd>INVOICE 1</Ustrd>")
	})

	t.Run("indents the document", func(t *testing.T) {
		var out bytes.Buffer
		report, err := newTestService(Options{Indent: 2, Validate: true}).
			Generate(context.Background(), loadBatch(t, creditBatchYAML), &out)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "\n  <CstmrCdtTrfInitn>\n    <GrpHdr>")
		assert.True(t, report.Validation.Valid, "%v", report.Validation.Issues)
	})

	t.Run("generates a message id when missing", func(t *testing.T) {
		b := loadBatch(t, creditBatchYAML)
		b.MessageID = ""

		report, err := newTestService(Options{}).Generate(context.Background(), b, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Len(t, report.MessageID, 24)
		assert.NotContains(t, report.MessageID, "-")
	})

	t.Run("derived end to end ids stay within 30 characters", func(t *testing.T) {
		b := loadBatch(t, creditBatchYAML)
		b.MessageID = ""
		b.PaymentInfoID = ""
		tx := b.Transactions[0]
		tx.ID = ""
		tx.EndToEndID = ""
		b.Transactions = nil
		for i := 0; i < 100; i++ {
			b.Transactions = append(b.Transactions, tx)
		}

		var out bytes.Buffer
		report, err := newTestService(Options{Validate: true}).Generate(context.Background(), b, &out)
		require.NoError(t, err)
		assert.Equal(t, 100, report.Transactions)
		assert.True(t, report.Validation.Valid, "%v", report.Validation.Issues)
		assert.Contains(t, out.String(), "<EndToEndId>"+report.MessageID+"/100</EndToEndId>")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newTestService(Options{}).Generate(ctx, loadBatch(t, creditBatchYAML), &bytes.Buffer{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestService_GenerateValidationFailure(t *testing.T) {
	invalid := func(t *testing.T) *Batch {
		b := loadBatch(t, creditBatchYAML)
		// accepted by the writer, longer than the four characters the schema allows
		b.CategoryPurpose = &Code{Code: "SUPPLIER"}
		return b
	}

	t.Run("lenient mode writes the document and reports issues", func(t *testing.T) {
		var out bytes.Buffer
		report, err := newTestService(Options{Validate: true}).Generate(context.Background(), invalid(t), &out)
		require.NoError(t, err)

		assert.False(t, report.Validation.Valid)
		require.NotEmpty(t, report.Validation.Issues)
		assert.Contains(t, report.Validation.Issues[0].Message, "CtgyPurp")
		assert.Contains(t, out.String(), "<CtgyPurp><Cd>SUPPLIER</Cd></CtgyPurp>")
	})

	t.Run("strict mode writes nothing", func(t *testing.T) {
		var out bytes.Buffer
		report, err := newTestService(Options{Validate: true, Strict: true}).Generate(context.Background(), invalid(t), &out)

		assert.ErrorIs(t, err, ErrInvalidDocument)
		require.NotNil(t, report)
		assert.False(t, report.Validation.Valid)
		assert.Zero(t, out.Len())
	})

	t.Run("validation without registry", func(t *testing.T) {
		svc := NewService(nil, nil, Options{Validate: true})
		_, err := svc.Generate(context.Background(), loadBatch(t, creditBatchYAML), &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no schema registry")
	})
}

func TestService_GenerateRejectsBatch(t *testing.T) {
	t.Run("invalid fields", func(t *testing.T) {
		b := loadBatch(t, creditBatchYAML)
		b.Transactions[0].Amount = "abc"

		var out bytes.Buffer
		_, err := newTestService(Options{}).Generate(context.Background(), b, &out)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Zero(t, out.Len())
	})

	t.Run("domain rule", func(t *testing.T) {
		b := loadBatch(t, creditBatchYAML)
		b.Transactions[1].ID = "INV-1"

		_, err := newTestService(Options{}).Generate(context.Background(), b, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "transaction 2")
		assert.Contains(t, err.Error(), `"INV-1" must be unique`)
	})
}

func TestService_GenerateFile(t *testing.T) {
	t.Run("writes a new file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.xml")

		_, err := newTestService(Options{}).GenerateFile(context.Background(), loadBatch(t, creditBatchYAML), path)
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "<MsgId>MSG-001</MsgId>")
	})

	t.Run("refuses to replace a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.xml")
		require.NoError(t, os.WriteFile(path, []byte("keep"), 0o600))

		_, err := newTestService(Options{}).GenerateFile(context.Background(), loadBatch(t, creditBatchYAML), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "keep", string(content))
	})

	t.Run("replaces a file when overwrite is set", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.xml")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

		_, err := newTestService(Options{Overwrite: true}).GenerateFile(context.Background(), loadBatch(t, debitBatchYAML), path)
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "<MsgId>DD-001</MsgId>")
	})
}

func TestService_Logging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc := NewService(schema.NewRegistry(nil), zap.New(core), Options{Validate: true})

	_, err := svc.Generate(context.Background(), loadBatch(t, creditBatchYAML), &bytes.Buffer{})
	require.NoError(t, err)

	entries := logs.FilterMessage("payment message generated").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "MSG-001", fields["message_id"])
	assert.Equal(t, "pain.001.001.03", fields["schema"])
	assert.Equal(t, int64(2), fields["transactions"])
}
