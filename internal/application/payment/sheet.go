package payment

import (
	"fmt"
	"io"
	"strings"

	"github.com/erp/sepawriter/internal/domain/shared/valueobject"
	csvimport "github.com/erp/sepawriter/internal/infrastructure/import"
	"github.com/shopspring/decimal"
)

const maxSheetErrors = 50

const bicPattern = `^[A-Z]{6}[A-Z0-9]{2}([A-Z0-9]{3})?$`

// Columns of a transaction sheet shared by both kinds
var commonColumns = []csvimport.FieldRule{
	csvimport.Field("id").MaxLength(35).Unique().Build(),
	csvimport.Field("end_to_end_id").MaxLength(30).Unique().Build(),
	csvimport.Field("amount").Required().Decimal().
		Range(decimal.RequireFromString("0.01"), decimal.RequireFromString("999999999.99")).
		MaxScale(2).Build(),
	csvimport.Field("currency").Length(3, 3).Build(),
	csvimport.Field("remittance").Build(),
	csvimport.Field("purpose").MaxLength(4).Build(),
	csvimport.Field("name").Required().Build(),
	csvimport.Field("bic").Length(8, 11).Pattern(bicPattern, "BIC").Build(),
	csvimport.Field("iban").MaxLength(42).Build(),
	csvimport.Field("other").MaxLength(34).Build(),
	csvimport.Field("street").MaxLength(70).Build(),
	csvimport.Field("building_number").MaxLength(16).Build(),
	csvimport.Field("post_code").MaxLength(16).Build(),
	csvimport.Field("town").MaxLength(35).Build(),
	csvimport.Field("country").Length(2, 2).Build(),
}

var creditColumns = append(commonColumns[:len(commonColumns):len(commonColumns)],
	csvimport.Field("regulatory_reporting").MaxLength(10).Build(),
	csvimport.Field("instruction_code").OneOf("CHQB", "HOLD", "PHOB", "TELB").Build(),
	csvimport.Field("instruction_comment").MaxLength(140).Build(),
)

var debitColumns = append(commonColumns[:len(commonColumns):len(commonColumns)],
	csvimport.Field("unknown_bic").Bool().Build(),
	csvimport.Field("mandate_id").Required().MaxLength(35).Build(),
	csvimport.Field("mandate_date").Required().Date().Build(),
	csvimport.Field("sequence_type").OneOf("OOFF", "FRST", "RCUR", "FNAL").Build(),
)

// ReadTransactions reads the transactions of a batch from a CSV sheet with
// one transaction per row. Every invalid row is reported in the error.
func ReadTransactions(r io.Reader, kind string) ([]Transaction, error) {
	var rules []csvimport.FieldRule
	switch kind {
	case KindCredit:
		rules = creditColumns
	case KindDebit:
		rules = debitColumns
	default:
		return nil, fmt.Errorf("unknown batch kind %q", kind)
	}

	sheet, rowErrors, err := csvimport.ReadSheet(r, rules, maxSheetErrors)
	if err != nil {
		return nil, fmt.Errorf("read transaction sheet: %w", err)
	}
	if rowErrors.HasErrors() {
		return nil, fmt.Errorf("invalid transaction sheet, %d errors in %d rows: %w",
			rowErrors.TotalCount(), sheet.TotalRows, rowErrors.Err())
	}

	txs := make([]Transaction, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		txs = append(txs, transactionFromRow(row, kind))
	}
	return txs, nil
}

func transactionFromRow(row *csvimport.Row, kind string) Transaction {
	tx := Transaction{
		ID:         row.Get("id"),
		EndToEndID: row.Get("end_to_end_id"),
		Amount:     row.Get("amount"),
		Currency:   strings.ToUpper(row.GetOrDefault("currency", valueobject.EUR)),
		Remittance: row.Get("remittance"),
		Purpose:    row.Get("purpose"),
		Account: &Account{
			Name:  row.Get("name"),
			BIC:   row.Get("bic"),
			IBAN:  row.Get("iban"),
			Other: row.Get("other"),
		},
	}

	addr := Address{
		Street:         row.Get("street"),
		BuildingNumber: row.Get("building_number"),
		PostCode:       row.Get("post_code"),
		Town:           row.Get("town"),
		Country:        strings.ToUpper(row.Get("country")),
	}
	if addr.Street+addr.BuildingNumber+addr.PostCode+addr.Town+addr.Country != "" {
		tx.Account.Address = &addr
	}

	if kind == KindCredit {
		tx.RegulatoryReporting = row.Get("regulatory_reporting")
		if code := row.Get("instruction_code"); code != "" {
			tx.Instruction = &Instruction{
				Code:    strings.ToUpper(code),
				Comment: row.Get("instruction_comment"),
			}
		}
		return tx
	}

	tx.Account.UnknownBIC, _ = csvimport.ParseBool(row.Get("unknown_bic"))
	tx.MandateID = row.Get("mandate_id")
	tx.MandateDate = row.Get("mandate_date")
	tx.SequenceType = strings.ToUpper(row.Get("sequence_type"))
	return tx
}
