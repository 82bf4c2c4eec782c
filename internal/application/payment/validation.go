package payment

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldError is a batch field that failed validation
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every invalid field of a batch
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid batch: " + strings.Join(parts, "; ")
}

// BatchValidator checks batches before they are mapped onto transfers
type BatchValidator struct {
	validate *validator.Validate
}

// NewBatchValidator creates a validator reporting field names as they appear in YAML
func NewBatchValidator() *BatchValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("amount", validateAmount)
	v.RegisterStructValidation(validateBatchKind, Batch{})
	return &BatchValidator{validate: v}
}

// Validate returns a *ValidationError describing every invalid field
func (bv *BatchValidator) Validate(b *Batch) error {
	if b == nil {
		return errors.New("batch is required")
	}
	err := bv.validate.Struct(b)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	out := &ValidationError{}
	for _, e := range validationErrors {
		out.Fields = append(out.Fields, FieldError{
			Field:   fieldPath(e.Namespace()),
			Message: validationMessage(e),
		})
	}
	return out
}

// fieldPath drops the root struct name: "Batch.debtor.bic" becomes "debtor.bic"
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

// validateAmount accepts a positive decimal number
func validateAmount(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && d.IsPositive()
}

// validateBatchKind checks the fields one kind of batch needs and the other does not
func validateBatchKind(sl validator.StructLevel) {
	b := sl.Current().Interface().(Batch)

	switch b.Kind {
	case KindCredit:
		if b.Debtor == nil {
			sl.ReportError(b.Debtor, "debtor", "Debtor", "required_for", KindCredit)
		}
		for i, tx := range b.Transactions {
			if tx.MandateID != "" || tx.SequenceType != "" {
				sl.ReportError(tx.MandateID, fmt.Sprintf("transactions[%d].mandate_id", i), "MandateID", "excluded_for", KindCredit)
			}
			if tx.Account != nil && tx.Account.UnknownBIC {
				sl.ReportError(tx.Account.UnknownBIC, fmt.Sprintf("transactions[%d].account.unknown_bic", i),
					"UnknownBIC", "excluded_for", KindCredit)
			}
		}
	case KindDebit:
		if b.Creditor == nil {
			sl.ReportError(b.Creditor, "creditor", "Creditor", "required_for", KindDebit)
		}
		if b.CreditorSchemeID == "" {
			sl.ReportError(b.CreditorSchemeID, "creditor_scheme_id", "CreditorSchemeID", "required_for", KindDebit)
		}
		if b.International || b.ChargeBearer != "" {
			sl.ReportError(b.International, "international", "International", "excluded_for", KindDebit)
		}
		for i, tx := range b.Transactions {
			if tx.MandateID == "" {
				sl.ReportError(tx.MandateID, fmt.Sprintf("transactions[%d].mandate_id", i), "MandateID", "required_for", KindDebit)
			}
			if tx.MandateDate == "" {
				sl.ReportError(tx.MandateDate, fmt.Sprintf("transactions[%d].mandate_date", i), "MandateDate", "required_for", KindDebit)
			}
		}
	}

	for _, acc := range []struct {
		name string
		a    *Account
	}{{"debtor", b.Debtor}, {"creditor", b.Creditor}} {
		if acc.a != nil && acc.a.UnknownBIC {
			sl.ReportError(acc.a.UnknownBIC, acc.name+".unknown_bic", "UnknownBIC", "excluded_for", b.Kind)
		}
	}
}

// validationMessage returns a human-readable validation message
func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_without":
		return "This field is required"
	case "required_for":
		return "This field is required in a " + e.Param() + " batch"
	case "excluded_for":
		return "This field is not allowed in a " + e.Param() + " batch"
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must have at most " + e.Param() + " entries"
	case "min":
		return "Must have at least " + e.Param() + " entries"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "datetime":
		return "Must be a date formatted as " + e.Param()
	case "bic":
		return "Invalid BIC format"
	case "iso4217":
		return "Must be an ISO 4217 currency code"
	case "iso3166_1_alpha2":
		return "Must be an ISO 3166 country code"
	case "amount":
		return "Must be a positive decimal amount"
	default:
		return "Invalid value"
	}
}
