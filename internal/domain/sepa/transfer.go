package sepa

import (
	"fmt"
	"slices"
	"time"

	"github.com/erp/sepawriter/internal/domain/shared"
	"github.com/erp/sepawriter/internal/domain/shared/textfmt"
	"github.com/erp/sepawriter/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

const maxIdentificationLen = 35

// Transfer is the aggregate shared by credit transfers and direct debits.
// It owns its transactions: each one is cloned when added, so later changes
// to the caller's copy have no effect on the rendered message.
type Transfer[T Transaction[T]] struct {
	messageID              string
	paymentInfoID          string
	initiatingParty        *valueobject.InitiatingParty
	creationDate           time.Time
	requestedExecutionDate time.Time
	categoryPurpose        valueobject.CodeOrProprietary
	localInstrument        valueobject.CodeOrProprietary
	forwardingAgentBic     string
	batchBooking           BatchBooking
	schema                 Schema
	allowedSchemas         []Schema

	transactions         []T
	headerControlSum     decimal.Decimal
	paymentControlSum    decimal.Decimal
	numberOfTransactions int
}

func newTransfer[T Transaction[T]](schema Schema, allowed []Schema) Transfer[T] {
	now := time.Now()
	return Transfer[T]{
		creationDate:           now,
		requestedExecutionDate: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		schema:                 schema,
		allowedSchemas:         allowed,
		headerControlSum:       decimal.Zero,
		paymentControlSum:      decimal.Zero,
	}
}

func checkIdentification(field, value string) error {
	if textfmt.Length(value) > maxIdentificationLen {
		return shared.InvalidFormat(fmt.Sprintf(
			"%s %q cannot exceed %d characters", field, value, maxIdentificationLen))
	}
	return nil
}

// SetMessageIdentification sets the message id (GrpHdr/MsgId)
func (t *Transfer[T]) SetMessageIdentification(id string) error {
	if err := checkIdentification("Message identification", id); err != nil {
		return err
	}
	t.messageID = id
	return nil
}

// MessageIdentification returns the message id
func (t *Transfer[T]) MessageIdentification() string { return t.messageID }

// SetPaymentInfoID sets the payment information id; when empty the message id is used
func (t *Transfer[T]) SetPaymentInfoID(id string) error {
	if err := checkIdentification("Payment info id", id); err != nil {
		return err
	}
	t.paymentInfoID = id
	return nil
}

// PaymentInfoID returns the payment information id as set
func (t *Transfer[T]) PaymentInfoID() string { return t.paymentInfoID }

func (t *Transfer[T]) effectivePaymentInfoID() string {
	if t.paymentInfoID != "" {
		return t.paymentInfoID
	}
	return t.messageID
}

// SetInitiatingParty sets the party initiating the message
func (t *Transfer[T]) SetInitiatingParty(party *valueobject.InitiatingParty) {
	t.initiatingParty = party.Clone()
}

// InitiatingParty returns the initiating party, nil when unset
func (t *Transfer[T]) InitiatingParty() *valueobject.InitiatingParty { return t.initiatingParty.Clone() }

// SetCreationDate overrides the creation timestamp (default: construction time)
func (t *Transfer[T]) SetCreationDate(date time.Time) { t.creationDate = date }

// CreationDate returns the creation timestamp
func (t *Transfer[T]) CreationDate() time.Time { return t.creationDate }

// SetRequestedExecutionDate sets the execution date of a credit transfer or
// the collection date of a direct debit (default: today)
func (t *Transfer[T]) SetRequestedExecutionDate(date time.Time) { t.requestedExecutionDate = date }

// RequestedExecutionDate returns the requested execution or collection date
func (t *Transfer[T]) RequestedExecutionDate() time.Time { return t.requestedExecutionDate }

// SetCategoryPurpose sets PmtTpInf/CtgyPurp; an empty value removes it
func (t *Transfer[T]) SetCategoryPurpose(purpose valueobject.CodeOrProprietary) {
	t.categoryPurpose = purpose
}

// CategoryPurpose returns the category purpose
func (t *Transfer[T]) CategoryPurpose() valueobject.CodeOrProprietary { return t.categoryPurpose }

// SetLocalInstrument sets PmtTpInf/LclInstrm; an empty value removes it
func (t *Transfer[T]) SetLocalInstrument(instrument valueobject.CodeOrProprietary) {
	t.localInstrument = instrument
}

// LocalInstrument returns the local instrument
func (t *Transfer[T]) LocalInstrument() valueobject.CodeOrProprietary { return t.localInstrument }

// SetForwardingAgent sets the BIC of the forwarding agent; empty removes it
func (t *Transfer[T]) SetForwardingAgent(bic string) error {
	if bic != "" {
		if n := textfmt.Length(bic); n != 8 && n != 11 {
			return shared.InvalidFormat(fmt.Sprintf("Invalid forwarding agent BIC %q, must have 8 or 11 characters", bic))
		}
	}
	t.forwardingAgentBic = bic
	return nil
}

// ForwardingAgent returns the BIC of the forwarding agent
func (t *Transfer[T]) ForwardingAgent() string { return t.forwardingAgentBic }

// SetBatchBooking sets the batch booking mode; zero removes BtchBookg
func (t *Transfer[T]) SetBatchBooking(bb BatchBooking) error {
	if bb != 0 {
		if _, err := BatchBookingToString(bb); err != nil {
			return err
		}
	}
	t.batchBooking = bb
	return nil
}

// BatchBooking returns the batch booking mode, zero when unset
func (t *Transfer[T]) BatchBooking() BatchBooking { return t.batchBooking }

// SetSchema selects the message version; it must belong to the variant's set
func (t *Transfer[T]) SetSchema(schema Schema) error {
	if !slices.Contains(t.allowedSchemas, schema) {
		return shared.NewDomainError(shared.CodeUnsupportedSchema,
			fmt.Sprintf("Schema %s is not supported by this transfer", schema))
	}
	t.schema = schema
	return nil
}

// Schema returns the selected message version
func (t *Transfer[T]) Schema() Schema { return t.schema }

// AllowedSchemas returns the message versions this transfer can be written in
func (t *Transfer[T]) AllowedSchemas() []Schema { return slices.Clone(t.allowedSchemas) }

// NumberOfTransactions returns the number of transactions added so far
func (t *Transfer[T]) NumberOfTransactions() int { return t.numberOfTransactions }

// HeaderControlSum returns the sum of every amount
func (t *Transfer[T]) HeaderControlSum() decimal.Decimal { return t.headerControlSum }

// HeaderControlSumInCents returns the header control sum multiplied by 100
func (t *Transfer[T]) HeaderControlSumInCents() decimal.Decimal {
	return t.headerControlSum.Mul(decimal.NewFromInt(100))
}

// PaymentControlSum returns the control sum of the payment information
func (t *Transfer[T]) PaymentControlSum() decimal.Decimal { return t.paymentControlSum }

// PaymentControlSumInCents returns the payment control sum multiplied by 100
func (t *Transfer[T]) PaymentControlSumInCents() decimal.Decimal {
	return t.paymentControlSum.Mul(decimal.NewFromInt(100))
}

// Transactions returns copies of the transactions in insertion order
func (t *Transfer[T]) Transactions() []T {
	out := make([]T, 0, len(t.transactions))
	for _, tx := range t.transactions {
		out = append(out, tx.Clone())
	}
	return out
}

// addTransaction clones tx, assigns an end to end id when missing, checks
// uniqueness and updates the running sums. tx must not be nil.
func (t *Transfer[T]) addTransaction(tx T) error {
	added := tx.Clone()
	c := added.core()
	if c.endToEndID == "" {
		generated := fmt.Sprintf("%s/%d", t.effectivePaymentInfoID(), t.numberOfTransactions+1)
		if textfmt.Length(generated) > maxEndToEndIDLen {
			return shared.InvalidFormat(fmt.Sprintf(
				"Generated EndToEndId %q is longer than %d characters, set a shorter payment info id or an explicit EndToEndId",
				generated, maxEndToEndIDLen))
		}
		c.endToEndID = generated
	}
	if c.amount.IsZero() {
		return shared.MissingField("Transaction amount is required")
	}

	for _, existing := range t.transactions {
		e := existing.core()
		if c.id != "" && e.id == c.id {
			return shared.NewDomainError(shared.CodeDuplicateID,
				fmt.Sprintf("Transaction Id %q must be unique in a transfer", c.id))
		}
	}
	for _, existing := range t.transactions {
		if existing.core().endToEndID == c.endToEndID {
			return shared.NewDomainError(shared.CodeDuplicateEndToEndID,
				fmt.Sprintf("End to End Id %q must be unique in a transfer", c.endToEndID))
		}
	}

	t.transactions = append(t.transactions, added)
	t.numberOfTransactions++
	t.headerControlSum = t.headerControlSum.Add(c.amount.Decimal())
	t.paymentControlSum = t.paymentControlSum.Add(c.amount.Decimal())
	return nil
}

// checkMandatoryData verifies the fields shared by both variants
func (t *Transfer[T]) checkMandatoryData() error {
	if textfmt.IsBlank(t.messageID) {
		return shared.MissingField("Message Identification is mandatory")
	}
	if t.initiatingParty == nil {
		return shared.MissingField("Initiating Party is mandatory")
	}
	id := t.initiatingParty.Identification()
	if textfmt.IsBlank(t.initiatingParty.Name()) && id == nil {
		return shared.MissingField("Initiating Party Name or Identification is mandatory")
	}
	if id != nil && (textfmt.IsBlank(id.ID()) || textfmt.IsBlank(id.Issuer())) {
		return shared.MissingField("Initiating Party Identification requires an id and an issuer")
	}
	if len(t.transactions) == 0 {
		return shared.MissingField("At least one transaction is needed in a transfer")
	}
	return nil
}
