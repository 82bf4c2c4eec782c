package sepa

import (
	"fmt"

	"github.com/erp/sepawriter/internal/domain/shared"
)

// Schema identifies the ISO 20022 message version a transfer is written in
type Schema int

const (
	SchemaPain00100103 Schema = iota + 1
	SchemaPain00100104
	SchemaPain00800102
	SchemaPain00800103
)

// AllSchemas lists every schema the writer can produce
var AllSchemas = []Schema{
	SchemaPain00100103,
	SchemaPain00100104,
	SchemaPain00800102,
	SchemaPain00800103,
}

var schemaNames = map[Schema]string{
	SchemaPain00100103: "pain.001.001.03",
	SchemaPain00100104: "pain.001.001.04",
	SchemaPain00800102: "pain.008.001.02",
	SchemaPain00800103: "pain.008.001.03",
}

// SchemaNamespacePrefix is prepended to the schema name to form the document namespace
const SchemaNamespacePrefix = "urn:iso:std:iso:20022:tech:xsd:"

// SchemaToString returns the schema name, e.g. "pain.001.001.03"
func SchemaToString(s Schema) (string, error) {
	name, ok := schemaNames[s]
	if !ok {
		return "", shared.UnknownCode(fmt.Sprintf("Unknown schema: %d", s))
	}
	return name, nil
}

// SchemaFromString parses a schema name such as "pain.008.001.02"
func SchemaFromString(name string) (Schema, error) {
	for s, n := range schemaNames {
		if n == name {
			return s, nil
		}
	}
	return 0, shared.UnknownCode(fmt.Sprintf("Unknown schema: %s", name))
}

// String implements fmt.Stringer
func (s Schema) String() string {
	if name, ok := schemaNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Schema(%d)", int(s))
}

// Namespace returns the default namespace of documents written in s
func (s Schema) Namespace() (string, error) {
	name, err := SchemaToString(s)
	if err != nil {
		return "", err
	}
	return SchemaNamespacePrefix + name, nil
}

// IsCreditTransfer reports whether s is a pain.001 version
func (s Schema) IsCreditTransfer() bool {
	return s == SchemaPain00100103 || s == SchemaPain00100104
}

// IsDirectDebit reports whether s is a pain.008 version
func (s Schema) IsDirectDebit() bool {
	return s == SchemaPain00800102 || s == SchemaPain00800103
}

// BicElement returns the name of the agent BIC element: BIC up to
// pain.001.001.03 and pain.008.001.02, BICFI in the later versions
func (s Schema) BicElement() string {
	if s == SchemaPain00100104 || s == SchemaPain00800103 {
		return "BICFI"
	}
	return "BIC"
}

// ChargeBearer tells who bears the charges of an international transfer
type ChargeBearer int

const (
	ChargeBearerCRED ChargeBearer = iota + 1
	ChargeBearerDEBT
	ChargeBearerSHAR
)

// ChargeBearerToString returns CRED, DEBT or SHAR
func ChargeBearerToString(cb ChargeBearer) (string, error) {
	switch cb {
	case ChargeBearerCRED:
		return "CRED", nil
	case ChargeBearerDEBT:
		return "DEBT", nil
	case ChargeBearerSHAR:
		return "SHAR", nil
	default:
		return "", shared.UnknownCode(fmt.Sprintf("Unknown Charge Bearer: %d", cb))
	}
}

// ChargeBearerFromString parses CRED, DEBT or SHAR
func ChargeBearerFromString(code string) (ChargeBearer, error) {
	switch code {
	case "CRED":
		return ChargeBearerCRED, nil
	case "DEBT":
		return ChargeBearerDEBT, nil
	case "SHAR":
		return ChargeBearerSHAR, nil
	default:
		return 0, shared.UnknownCode(fmt.Sprintf("Unknown Charge Bearer: %s", code))
	}
}

// SequenceType classifies a direct debit within the life of its mandate.
// The declaration order is the order payment information blocks are written in.
type SequenceType int

const (
	SequenceTypeOOFF SequenceType = iota
	SequenceTypeFIRST
	SequenceTypeRCUR
	SequenceTypeFINAL
)

// SequenceTypes lists every sequence type in rendering order
var SequenceTypes = []SequenceType{
	SequenceTypeOOFF,
	SequenceTypeFIRST,
	SequenceTypeRCUR,
	SequenceTypeFINAL,
}

// SequenceTypeToString returns OOFF, FRST, RCUR or FNAL
func SequenceTypeToString(st SequenceType) (string, error) {
	switch st {
	case SequenceTypeOOFF:
		return "OOFF", nil
	case SequenceTypeFIRST:
		return "FRST", nil
	case SequenceTypeRCUR:
		return "RCUR", nil
	case SequenceTypeFINAL:
		return "FNAL", nil
	default:
		return "", shared.UnknownCode(fmt.Sprintf("Unknown Sequence Type: %d", st))
	}
}

// SequenceTypeFromString parses OOFF, FRST, RCUR or FNAL
func SequenceTypeFromString(code string) (SequenceType, error) {
	switch code {
	case "OOFF":
		return SequenceTypeOOFF, nil
	case "FRST":
		return SequenceTypeFIRST, nil
	case "RCUR":
		return SequenceTypeRCUR, nil
	case "FNAL":
		return SequenceTypeFINAL, nil
	default:
		return 0, shared.UnknownCode(fmt.Sprintf("Unknown Sequence Type: %s", code))
	}
}

// BatchBooking selects how the debtor's account is booked.
// MTM (many to many) books every transaction separately and is written as
// "false"; MTO (many to one) books one batch entry and is written as "true".
type BatchBooking int

const (
	BatchBookingMTM BatchBooking = iota + 1
	BatchBookingMTO
)

// BatchBookingToString returns "false" for MTM and "true" for MTO
func BatchBookingToString(bb BatchBooking) (string, error) {
	switch bb {
	case BatchBookingMTM:
		return "false", nil
	case BatchBookingMTO:
		return "true", nil
	default:
		return "", shared.UnknownCode(fmt.Sprintf("Unknown Batch Booking: %d", bb))
	}
}

// BatchBookingFromString parses "false" (MTM) or "true" (MTO)
func BatchBookingFromString(value string) (BatchBooking, error) {
	switch value {
	case "false":
		return BatchBookingMTM, nil
	case "true":
		return BatchBookingMTO, nil
	default:
		return 0, shared.UnknownCode(fmt.Sprintf("Unknown Batch Booking: %s", value))
	}
}

// InstructionForCreditorCode is an instruction to the creditor agent of an
// international transfer
type InstructionForCreditorCode int

const (
	InstructionCHQB InstructionForCreditorCode = iota + 1
	InstructionHOLD
	InstructionPHOB
	InstructionTELB
)

// InstructionForCreditorToString returns CHQB, HOLD, PHOB or TELB
func InstructionForCreditorToString(code InstructionForCreditorCode) (string, error) {
	switch code {
	case InstructionCHQB:
		return "CHQB", nil
	case InstructionHOLD:
		return "HOLD", nil
	case InstructionPHOB:
		return "PHOB", nil
	case InstructionTELB:
		return "TELB", nil
	default:
		return "", shared.UnknownCode(fmt.Sprintf("Unknown Instruction for Creditor: %d", code))
	}
}

// InstructionForCreditorFromString parses CHQB, HOLD, PHOB or TELB
func InstructionForCreditorFromString(code string) (InstructionForCreditorCode, error) {
	switch code {
	case "CHQB":
		return InstructionCHQB, nil
	case "HOLD":
		return InstructionHOLD, nil
	case "PHOB":
		return InstructionPHOB, nil
	case "TELB":
		return InstructionTELB, nil
	default:
		return 0, shared.UnknownCode(fmt.Sprintf("Unknown Instruction for Creditor: %s", code))
	}
}
