package sepa

import (
	"testing"

	"github.com/erp/sepawriter/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_Mapping(t *testing.T) {
	tests := []struct {
		schema Schema
		name   string
		credit bool
		bic    string
	}{
		{SchemaPain00100103, "pain.001.001.03", true, "BIC"},
		{SchemaPain00100104, "pain.001.001.04", true, "BICFI"},
		{SchemaPain00800102, "pain.008.001.02", false, "BIC"},
		{SchemaPain00800103, "pain.008.001.03", false, "BICFI"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, err := SchemaToString(tt.schema)
			require.NoError(t, err)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.name, tt.schema.String())

			parsed, err := SchemaFromString(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.schema, parsed)

			ns, err := tt.schema.Namespace()
			require.NoError(t, err)
			assert.Equal(t, "urn:iso:std:iso:20022:tech:xsd:"+tt.name, ns)

			assert.Equal(t, tt.credit, tt.schema.IsCreditTransfer())
			assert.Equal(t, !tt.credit, tt.schema.IsDirectDebit())
			assert.Equal(t, tt.bic, tt.schema.BicElement())
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := SchemaToString(Schema(0))
		assertDomainCode(t, err, shared.ErrUnknownCode)
		_, err = SchemaFromString("pain.002.001.03")
		assertDomainCode(t, err, shared.ErrUnknownCode)
		_, err = Schema(99).Namespace()
		assertDomainCode(t, err, shared.ErrUnknownCode)
		assert.Equal(t, "Schema(99)", Schema(99).String())
	})
}

func TestChargeBearer_Mapping(t *testing.T) {
	for code, cb := range map[string]ChargeBearer{"CRED": ChargeBearerCRED, "DEBT": ChargeBearerDEBT, "SHAR": ChargeBearerSHAR} {
		got, err := ChargeBearerToString(cb)
		require.NoError(t, err)
		assert.Equal(t, code, got)

		parsed, err := ChargeBearerFromString(code)
		require.NoError(t, err)
		assert.Equal(t, cb, parsed)
	}

	_, err := ChargeBearerFromString("SLEV")
	assertDomainCode(t, err, shared.ErrUnknownCode)
	_, err = ChargeBearerToString(ChargeBearer(0))
	assertDomainCode(t, err, shared.ErrUnknownCode)
}

func TestSequenceType_Mapping(t *testing.T) {
	codes := []string{"OOFF", "FRST", "RCUR", "FNAL"}
	require.Len(t, SequenceTypes, len(codes))

	for i, st := range SequenceTypes {
		got, err := SequenceTypeToString(st)
		require.NoError(t, err)
		assert.Equal(t, codes[i], got)

		parsed, err := SequenceTypeFromString(codes[i])
		require.NoError(t, err)
		assert.Equal(t, st, parsed)
	}

	_, err := SequenceTypeFromString("FIRST")
	assertDomainCode(t, err, shared.ErrUnknownCode)
	_, err = SequenceTypeToString(SequenceType(-1))
	assertDomainCode(t, err, shared.ErrUnknownCode)
}

func TestBatchBooking_Mapping(t *testing.T) {
	v, err := BatchBookingToString(BatchBookingMTM)
	require.NoError(t, err)
	assert.Equal(t, "false", v)

	v, err = BatchBookingToString(BatchBookingMTO)
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	bb, err := BatchBookingFromString("true")
	require.NoError(t, err)
	assert.Equal(t, BatchBookingMTO, bb)

	bb, err = BatchBookingFromString("false")
	require.NoError(t, err)
	assert.Equal(t, BatchBookingMTM, bb)

	_, err = BatchBookingFromString("TRUE")
	assertDomainCode(t, err, shared.ErrUnknownCode)
	_, err = BatchBookingToString(BatchBooking(0))
	assertDomainCode(t, err, shared.ErrUnknownCode)
}

func TestInstructionForCreditor_Mapping(t *testing.T) {
	all := map[string]InstructionForCreditorCode{
		"CHQB": InstructionCHQB,
		"HOLD": InstructionHOLD,
		"PHOB": InstructionPHOB,
		"TELB": InstructionTELB,
	}
	for code, instr := range all {
		got, err := InstructionForCreditorToString(instr)
		require.NoError(t, err)
		assert.Equal(t, code, got)

		parsed, err := InstructionForCreditorFromString(code)
		require.NoError(t, err)
		assert.Equal(t, instr, parsed)
	}

	_, err := InstructionForCreditorFromString("phob")
	assertDomainCode(t, err, shared.ErrUnknownCode)
}
