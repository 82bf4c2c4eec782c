package sepa

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/erp/sepawriter/internal/domain/shared"
	"github.com/erp/sepawriter/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const creditOneRowXML = `<?xml version="1.0" encoding="utf-8" standalone="yes"?>` +
	`<Document xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns="urn:iso:std:iso:20022:tech:xsd:pain.001.001.03">` +
	`<CstmrCdtTrfInitn><GrpHdr><MsgId>transferID</MsgId><CreDtTm>2013-02-17T22:38:12</CreDtTm><NbOfTxs>1</NbOfTxs>` +
	`<CtrlSum>23.45</CtrlSum><InitgPty><Nm>Me</Nm></InitgPty></GrpHdr>` +
	`<PmtInf><PmtInfId>paymentInfo</PmtInfId><PmtMtd>TRF</PmtMtd><NbOfTxs>1</NbOfTxs><CtrlSum>23.45</CtrlSum>` +
	`<PmtTpInf><SvcLvl><Cd>SEPA</Cd></SvcLvl></PmtTpInf><ReqdExctnDt>2013-02-17</ReqdExctnDt>` +
	`<Dbtr><Nm>My Corp</Nm></Dbtr><DbtrAcct><Id><IBAN>FR7030002005500000157845Z02</IBAN></Id><Ccy>EUR</Ccy></DbtrAcct>` +
	`<DbtrAgt><FinInstnId><BIC>SOGEFRPPXXX</BIC></FinInstnId></DbtrAgt><ChrgBr>SLEV</ChrgBr>` +
	`<CdtTrfTxInf><PmtId><InstrId>Transaction Id 1</InstrId><EndToEndId>paymentInfo/1</EndToEndId></PmtId>` +
	`<Amt><InstdAmt Ccy="EUR">23.45</InstdAmt></Amt><CdtrAgt><FinInstnId><BIC>AGRIFRPPXXX</BIC></FinInstnId></CdtrAgt>` +
	`<Cdtr><Nm>THEIR_NAME</Nm></Cdtr><CdtrAcct><Id><IBAN>FR1420041010050500013M02606</IBAN></Id></CdtrAcct>` +
	`<RmtInf><Ustrd>Transaction description</Ustrd></RmtInf></CdtTrfTxInf></PmtInf></CstmrCdtTrfInitn></Document>`

const creditInternationalXML = `<?xml version="1.0" encoding="utf-8" standalone="yes"?>` +
	`<Document xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns="urn:iso:std:iso:20022:tech:xsd:pain.001.001.03">` +
	`<CstmrCdtTrfInitn><GrpHdr><MsgId>REF/789456/CCT001</MsgId><CreDtTm>2010-02-20T09:30:05</CreDtTm><NbOfTxs>2</NbOfTxs>` +
	`<CtrlSum>1520000</CtrlSum><InitgPty><Nm>TOTO Distribution SA</Nm></InitgPty></GrpHdr>` +
	`<PmtInf><PmtInfId>LOT123456</PmtInfId><PmtMtd>TRF</PmtMtd><NbOfTxs>2</NbOfTxs><CtrlSum>1520000</CtrlSum>` +
	`<PmtTpInf><InstrPrty>NORM</InstrPrty></PmtTpInf><ReqdExctnDt>2010-02-28</ReqdExctnDt>` +
	`<Dbtr><Nm>Societe S</Nm></Dbtr><DbtrAcct><Id><IBAN>FR7621479632145698745632145</IBAN></Id><Ccy>EUR</Ccy></DbtrAcct>` +
	`<DbtrAgt><FinInstnId><BIC>BANKFRPP</BIC></FinInstnId></DbtrAgt><ChrgBr>DEBT</ChrgBr>` +
	`<CdtTrfTxInf><PmtId><InstrId>Virement 458A</InstrId><EndToEndId>SOC/1478/CC/TI001/01</EndToEndId></PmtId>` +
	`<Amt><InstdAmt Ccy="USD">20000</InstdAmt></Amt><CdtrAgt><FinInstnId><BIC>PNPBUS33</BIC></FinInstnId></CdtrAgt>` +
	`<Cdtr><Nm>USA Factory</Nm></Cdtr><CdtrAcct><Id><IBAN>US29NWBK60161331926819</IBAN></Id></CdtrAcct>` +
	`<InstrForCdtrAgt><Cd>PHOB</Cd></InstrForCdtrAgt><Purp><Cd>SCVE</Cd></Purp><RgltryRptg><Dtls><Cd>150</Cd></Dtls></RgltryRptg>` +
	`<RmtInf><Ustrd>En reglement des factures numeros : 123456789 987456321 258741369</Ustrd></RmtInf></CdtTrfTxInf>` +
	`<CdtTrfTxInf><PmtId><InstrId>Virement 458B</InstrId><EndToEndId>SOC/1478/CC/TI001/02</EndToEndId></PmtId>` +
	`<Amt><InstdAmt Ccy="JPY">1500000</InstdAmt></Amt><CdtrAgt><FinInstnId><BIC>BANKDEFF</BIC></FinInstnId></CdtrAgt>` +
	`<Cdtr><Nm>Japan Society</Nm></Cdtr><CdtrAcct><Id><IBAN>DE89370400440532013000</IBAN></Id></CdtrAcct>` +
	`<Purp><Cd>SCVE</Cd></Purp><RgltryRptg><Dtls><Cd>150</Cd></Dtls></RgltryRptg>` +
	`<RmtInf><Ustrd>En reglement des factures numeros : 321456789A 789456321B  852741370C</Ustrd></RmtInf></CdtTrfTxInf>` +
	`</PmtInf></CstmrCdtTrfInitn></Document>`

var (
	debtorData   = valueobject.MustNewIbanData("My Corp", "SOGEFRPPXXX", "FR70 3000 2005 5000 0015 7845 Z02")
	creditorData = valueobject.MustNewIbanData("THEIR_NAME", "AGRIFRPPXXX", "FR1420041010050500013M02606")
)

func creationDate() time.Time {
	return time.Date(2013, time.February, 17, 22, 38, 12, 0, time.Local)
}

func newCreditTransaction(t *testing.T, id, amount, remittance string) *CreditTransferTransaction {
	t.Helper()
	tx := NewCreditTransferTransaction()
	tx.SetID(id)
	require.NoError(t, tx.SetAmount(decimal.RequireFromString(amount)))
	require.NoError(t, tx.SetCreditor(creditorData))
	tx.SetRemittanceInformation(remittance)
	return tx
}

func newEmptyCreditTransfer(t *testing.T) *CreditTransfer {
	t.Helper()
	ct := NewCreditTransfer()
	ct.SetCreationDate(creationDate())
	ct.SetRequestedExecutionDate(time.Date(2013, time.February, 17, 0, 0, 0, 0, time.Local))
	require.NoError(t, ct.SetMessageIdentification("transferID"))
	require.NoError(t, ct.SetPaymentInfoID("paymentInfo"))
	ct.SetInitiatingParty(valueobject.NewInitiatingParty("Me", nil))
	require.NoError(t, ct.SetDebtor(debtorData))
	return ct
}

func newOneRowCreditTransfer(t *testing.T) *CreditTransfer {
	t.Helper()
	ct := newEmptyCreditTransfer(t)
	require.NoError(t, ct.AddCreditTransfer(newCreditTransaction(t, "Transaction Id 1", "23.45", "Transaction description")))
	return ct
}

func assertDomainCode(t *testing.T, err error, target *shared.DomainError) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, target), "expected %s, got %v", target.Code, err)
}

// ============================================
// Rendering
// ============================================

func TestCreditTransfer_AsXMLString(t *testing.T) {
	t.Run("renders a single transaction", func(t *testing.T) {
		ct := newOneRowCreditTransfer(t)

		xml, err := ct.AsXMLString()
		require.NoError(t, err)
		assert.Equal(t, creditOneRowXML, xml)
		assert.True(t, ct.HeaderControlSumInCents().Equal(decimal.NewFromInt(2345)))
		assert.True(t, ct.PaymentControlSumInCents().Equal(decimal.NewFromInt(2345)))
	})

	t.Run("renders an international transfer", func(t *testing.T) {
		ct := NewCreditTransfer()
		ct.SetCreationDate(time.Date(2010, time.February, 20, 9, 30, 5, 0, time.Local))
		ct.SetRequestedExecutionDate(time.Date(2010, time.February, 28, 0, 0, 0, 0, time.Local))
		require.NoError(t, ct.SetMessageIdentification("REF/789456/CCT001"))
		require.NoError(t, ct.SetPaymentInfoID("LOT123456"))
		ct.SetInitiatingParty(valueobject.NewInitiatingParty("TOTO Distribution SA", nil))
		require.NoError(t, ct.SetDebtor(valueobject.MustNewIbanData("Societe S", "BANKFRPP", "FR7621479632145698745632145")))
		ct.SetInternational(true)
		require.NoError(t, ct.SetChargeBearer(ChargeBearerDEBT))

		first := NewCreditTransferTransaction()
		first.SetID("Virement 458A")
		require.NoError(t, first.SetEndToEndID("SOC/1478/CC/TI001/01"))
		require.NoError(t, first.SetAmount(decimal.NewFromInt(20000)))
		require.NoError(t, first.SetCurrency("USD"))
		require.NoError(t, first.SetCreditor(valueobject.MustNewIbanData("USA Factory", "PNPBUS33", "US29NWBK60161331926819")))
		require.NoError(t, first.SetInstructionForCreditor(&InstructionForCreditor{Code: InstructionPHOB}))
		require.NoError(t, first.SetPurpose("SCVE"))
		require.NoError(t, first.SetRegulatoryReportingCode("150"))
		first.SetRemittanceInformation("En reglement des factures numeros : 123456789 987456321 258741369")
		require.NoError(t, ct.AddCreditTransfer(first))

		second := NewCreditTransferTransaction()
		second.SetID("Virement 458B")
		require.NoError(t, second.SetEndToEndID("SOC/1478/CC/TI001/02"))
		require.NoError(t, second.SetAmount(decimal.NewFromInt(1500000)))
		require.NoError(t, second.SetCurrency("jpy"))
		require.NoError(t, second.SetCreditor(valueobject.MustNewIbanData("Japan Society", "BANKDEFF", "DE89370400440532013000")))
		require.NoError(t, second.SetPurpose("SCVE"))
		require.NoError(t, second.SetRegulatoryReportingCode("150"))
		second.SetRemittanceInformation("En reglement des factures numeros : 321456789A 789456321B  852741370C")
		require.NoError(t, ct.AddCreditTransfer(second))

		xml, err := ct.AsXMLString()
		require.NoError(t, err)
		assert.Equal(t, creditInternationalXML, xml)
		assert.True(t, ct.HeaderControlSum().Equal(decimal.NewFromInt(1520000)))
	})

	t.Run("renders optional header and payment type blocks", func(t *testing.T) {
		ct := newOneRowCreditTransfer(t)
		orgID, err := valueobject.NewOrganisationIdentification("123456789", "KBO-BCE")
		require.NoError(t, err)
		ct.SetInitiatingParty(valueobject.NewInitiatingParty("Me", &orgID))
		require.NoError(t, ct.SetForwardingAgent("FWDGFRPP"))
		require.NoError(t, ct.SetBatchBooking(BatchBookingMTO))
		ct.SetLocalInstrument(valueobject.MustNewCode("INST"))
		purpose, err := valueobject.NewCodeOrProprietary("", "SALARIES")
		require.NoError(t, err)
		ct.SetCategoryPurpose(purpose)
		ct.SetDebtorIdentification(&orgID)

		xml, err := ct.AsXMLString()
		require.NoError(t, err)
		assert.Contains(t, xml, `<InitgPty><Nm>Me</Nm><Id><OrgId><Othr><Id>123456789</Id><Issr>KBO-BCE</Issr></Othr></OrgId></Id></InitgPty>`+
			`<FwdgAgt><FinInstnId><BIC>FWDGFRPP</BIC></FinInstnId></FwdgAgt></GrpHdr>`)
		assert.Contains(t, xml, `<PmtMtd>TRF</PmtMtd><BtchBookg>true</BtchBookg><NbOfTxs>1</NbOfTxs>`)
		assert.Contains(t, xml, `<PmtTpInf><SvcLvl><Cd>SEPA</Cd></SvcLvl><LclInstrm><Cd>INST</Cd></LclInstrm>`+
			`<CtgyPurp><Prtry>SALARIES</Prtry></CtgyPurp></PmtTpInf>`)
		assert.Contains(t, xml, `<Dbtr><Nm>My Corp</Nm><Id><OrgId><Othr><Id>123456789</Id><Issr>KBO-BCE</Issr></Othr></OrgId></Id></Dbtr>`)
	})

	t.Run("renders postal address and other account identification", func(t *testing.T) {
		ct := newEmptyCreditTransfer(t)
		addr := valueobject.NewPostalAddress()
		require.NoError(t, addr.SetAddressType(valueobject.AddressTypeBusiness))
		require.NoError(t, addr.SetStreet("Rue de la Paix"))
		require.NoError(t, addr.SetBuildingNumber("12"))
		require.NoError(t, addr.SetPostCode("75002"))
		require.NoError(t, addr.SetTown("Paris"))
		require.NoError(t, addr.SetCountry("fr"))
		require.NoError(t, addr.SetAddressLines([]string{"Batiment B"}))

		creditor := &valueobject.IbanData{}
		creditor.SetName("Paris Shop")
		require.NoError(t, creditor.SetBic("BNPAFRPP"))
		require.NoError(t, creditor.SetOther("ACC-0001"))
		creditor.SetAddress(addr)

		tx := NewCreditTransferTransaction()
		require.NoError(t, tx.SetAmount(decimal.RequireFromString("10.00")))
		require.NoError(t, tx.SetCreditor(creditor))
		require.NoError(t, ct.AddCreditTransfer(tx))

		xml, err := ct.AsXMLString()
		require.NoError(t, err)
		assert.Contains(t, xml, `<Cdtr><Nm>Paris Shop</Nm><PstlAdr><AdrTp>BIZZ</AdrTp><StrtNm>Rue de la Paix</StrtNm>`+
			`<BldgNb>12</BldgNb><PstCd>75002</PstCd><TwnNm>Paris</TwnNm><Ctry>FR</Ctry><AdrLine>Batiment B</AdrLine></PstlAdr></Cdtr>`)
		assert.Contains(t, xml, `<CdtrAcct><Id><Othr><Id>ACC-0001</Id></Othr></Id></CdtrAcct>`)
		assert.Contains(t, xml, `<InstdAmt Ccy="EUR">10</InstdAmt>`)
		assert.NotContains(t, xml, "<RmtInf>")
	})

	t.Run("omits international blocks for a SEPA transfer", func(t *testing.T) {
		ct := newEmptyCreditTransfer(t)
		tx := newCreditTransaction(t, "", "1", "x")
		require.NoError(t, tx.SetInstructionForCreditor(&InstructionForCreditor{Code: InstructionHOLD, Comment: "call"}))
		require.NoError(t, tx.SetRegulatoryReportingCode("150"))
		require.NoError(t, tx.SetPurpose("SALA"))
		require.NoError(t, ct.AddCreditTransfer(tx))

		xml, err := ct.AsXMLString()
		require.NoError(t, err)
		assert.NotContains(t, xml, "InstrForCdtrAgt")
		assert.NotContains(t, xml, "RgltryRptg")
		assert.Contains(t, xml, "<Purp><Cd>SALA</Cd></Purp>")
		assert.Contains(t, xml, "<ChrgBr>SLEV</ChrgBr>")
	})

	t.Run("writes BICFI in pain.001.001.04", func(t *testing.T) {
		ct := newOneRowCreditTransfer(t)
		require.NoError(t, ct.SetSchema(SchemaPain00100104))

		xml, err := ct.AsXMLString()
		require.NoError(t, err)
		assert.Contains(t, xml, `xmlns="urn:iso:std:iso:20022:tech:xsd:pain.001.001.04"`)
		assert.Contains(t, xml, "<DbtrAgt><FinInstnId><BICFI>SOGEFRPPXXX</BICFI></FinInstnId></DbtrAgt>")
		assert.NotContains(t, xml, "<BIC>")
	})
}

func TestCreditTransfer_Save(t *testing.T) {
	ct := newOneRowCreditTransfer(t)

	var buf bytes.Buffer
	require.NoError(t, ct.Save(&buf))
	assert.Equal(t, creditOneRowXML, buf.String())

	path := filepath.Join(t.TempDir(), "credit.xml")
	require.NoError(t, ct.SaveFile(path))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, creditOneRowXML, string(content))
}

// ============================================
// Mandatory data
// ============================================

func TestCreditTransfer_CheckMandatoryData(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) *CreditTransfer
	}{
		{
			name: "no transaction",
			setup: func(t *testing.T) *CreditTransfer {
				return newEmptyCreditTransfer(t)
			},
		},
		{
			name: "no debtor",
			setup: func(t *testing.T) *CreditTransfer {
				ct := NewCreditTransfer()
				require.NoError(t, ct.SetMessageIdentification("transferID"))
				ct.SetInitiatingParty(valueobject.NewInitiatingParty("Me", nil))
				require.NoError(t, ct.AddCreditTransfer(newCreditTransaction(t, "1", "10", "")))
				return ct
			},
		},
		{
			name: "blank message identification",
			setup: func(t *testing.T) *CreditTransfer {
				ct := newOneRowCreditTransfer(t)
				require.NoError(t, ct.SetMessageIdentification("  "))
				return ct
			},
		},
		{
			name: "no initiating party",
			setup: func(t *testing.T) *CreditTransfer {
				ct := newOneRowCreditTransfer(t)
				ct.SetInitiatingParty(nil)
				return ct
			},
		},
		{
			name: "initiating party without name nor identification",
			setup: func(t *testing.T) *CreditTransfer {
				ct := newOneRowCreditTransfer(t)
				ct.SetInitiatingParty(valueobject.NewInitiatingParty(" ", nil))
				return ct
			},
		},
		{
			name: "initiating party identification without issuer",
			setup: func(t *testing.T) *CreditTransfer {
				ct := newOneRowCreditTransfer(t)
				orgID, err := valueobject.NewOrganisationIdentification("123", "")
				require.NoError(t, err)
				ct.SetInitiatingParty(valueobject.NewInitiatingParty("", &orgID))
				return ct
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct := tt.setup(t)
			assertDomainCode(t, ct.CheckMandatoryData(), shared.ErrMissingField)
			_, err := ct.AsXMLString()
			assertDomainCode(t, err, shared.ErrMissingField)
		})
	}

	t.Run("identification alone is enough", func(t *testing.T) {
		ct := newOneRowCreditTransfer(t)
		orgID, err := valueobject.NewOrganisationIdentification("123", "KBO")
		require.NoError(t, err)
		ct.SetInitiatingParty(valueobject.NewInitiatingParty("", &orgID))

		xml, err := ct.AsXMLString()
		require.NoError(t, err)
		assert.Contains(t, xml, "<InitgPty><Id><OrgId><Othr><Id>123</Id><Issr>KBO</Issr></Othr></OrgId></Id></InitgPty>")
	})
}

// ============================================
// Transactions
// ============================================

func TestCreditTransfer_AddCreditTransfer(t *testing.T) {
	t.Run("rejects nil", func(t *testing.T) {
		ct := newEmptyCreditTransfer(t)
		assertDomainCode(t, ct.AddCreditTransfer(nil), shared.ErrNullArgument)
	})

	t.Run("rejects a transaction without creditor", func(t *testing.T) {
		ct := newEmptyCreditTransfer(t)
		tx := NewCreditTransferTransaction()
		require.NoError(t, tx.SetAmount(decimal.NewFromInt(1)))
		assertDomainCode(t, ct.AddCreditTransfer(tx), shared.ErrMissingField)
	})

	t.Run("rejects a transaction without amount", func(t *testing.T) {
		ct := newEmptyCreditTransfer(t)
		tx := NewCreditTransferTransaction()
		require.NoError(t, tx.SetCreditor(creditorData))
		assertDomainCode(t, ct.AddCreditTransfer(tx), shared.ErrMissingField)
	})

	t.Run("assigns end to end ids from the payment info id", func(t *testing.T) {
		ct := newEmptyCreditTransfer(t)
		for i := 0; i < 3; i++ {
			require.NoError(t, ct.AddCreditTransfer(newCreditTransaction(t, "", "1", "")))
		}
		txs := ct.Transactions()
		require.Len(t, txs, 3)
		assert.Equal(t, "paymentInfo/1", txs[0].EndToEndID())
		assert.Equal(t, "paymentInfo/2", txs[1].EndToEndID())
		assert.Equal(t, "paymentInfo/3", txs[2].EndToEndID())
	})

	t.Run("assigns end to end ids from the message id without payment info id", func(t *testing.T) {
		ct := newEmptyCreditTransfer(t)
		require.NoError(t, ct.SetPaymentInfoID(""))
		require.NoError(t, ct.AddCreditTransfer(newCreditTransaction(t, "", "1", "")))
		assert.Equal(t, "transferID/1", ct.Transactions()[0].EndToEndID())

		xml, err := ct.AsXMLString()
		require.NoError(t, err)
		assert.Contains(t, xml, "<PmtInfId>transferID</PmtInfId>")
	})

	t.Run("rejects a generated end to end id over 30 characters", func(t *testing.T) {
		ct := newEmptyCreditTransfer(t)
		require.NoError(t, ct.SetPaymentInfoID(strings.Repeat("P", 27)))

		for i := 0; i < 9; i++ {
			require.NoError(t, ct.AddCreditTransfer(newCreditTransaction(t, "", "1", "")))
		}
		assert.Equal(t, strings.Repeat("P", 27)+"/9", ct.Transactions()[8].EndToEndID())

		err := ct.AddCreditTransfer(newCreditTransaction(t, "", "1", ""))
		assertDomainCode(t, err, shared.ErrInvalidFormat)
		assert.Equal(t, 9, ct.NumberOfTransactions())
		assert.True(t, ct.HeaderControlSum().Equal(decimal.NewFromInt(9)))

		tx := newCreditTransaction(t, "", "1", "")
		require.NoError(t, tx.SetEndToEndID("E2E-10"))
		require.NoError(t, ct.AddCreditTransfer(tx))
	})

	t.Run("keeps an explicit end to end id", func(t *testing.T) {
		ct := newEmptyCreditTransfer(t)
		tx := newCreditTransaction(t, "", "1", "")
		require.NoError(t, tx.SetEndToEndID("multiple1"))
		require.NoError(t, ct.AddCreditTransfer(tx))
		require.NoError(t, ct.AddCreditTransfer(newCreditTransaction(t, "", "1", "")))

		txs := ct.Transactions()
		assert.Equal(t, "multiple1", txs[0].EndToEndID())
		assert.Equal(t, "paymentInfo/2", txs[1].EndToEndID())
	})

	t.Run("rejects a duplicate id", func(t *testing.T) {
		ct := newEmptyCreditTransfer(t)
		require.NoError(t, ct.AddCreditTransfer(newCreditTransaction(t, "Transaction Id 1", "1", "")))
		err := ct.AddCreditTransfer(newCreditTransaction(t, "Transaction Id 1", "2", ""))
		assertDomainCode(t, err, shared.ErrDuplicateID)
		assert.Equal(t, 1, ct.NumberOfTransactions())
		assert.True(t, ct.HeaderControlSum().Equal(decimal.NewFromInt(1)))
	})

	t.Run("rejects a duplicate end to end id", func(t *testing.T) {
		ct := newEmptyCreditTransfer(t)
		first := newCreditTransaction(t, "", "1", "")
		require.NoError(t, first.SetEndToEndID("E2E"))
		second := newCreditTransaction(t, "", "2", "")
		require.NoError(t, second.SetEndToEndID("E2E"))

		require.NoError(t, ct.AddCreditTransfer(first))
		assertDomainCode(t, ct.AddCreditTransfer(second), shared.ErrDuplicateEndToEndID)
	})

	t.Run("accepts several transactions without id", func(t *testing.T) {
		ct := newEmptyCreditTransfer(t)
		require.NoError(t, ct.AddCreditTransfer(newCreditTransaction(t, "", "1", "")))
		require.NoError(t, ct.AddCreditTransfer(newCreditTransaction(t, "", "2", "")))
		assert.Equal(t, 2, ct.NumberOfTransactions())
	})

	t.Run("updates control sums", func(t *testing.T) {
		ct := newEmptyCreditTransfer(t)
		require.NoError(t, ct.AddCreditTransfer(newCreditTransaction(t, "1", "23.45", "")))
		require.NoError(t, ct.AddCreditTransfer(newCreditTransaction(t, "2", "12.56", "")))
		require.NoError(t, ct.AddCreditTransfer(newCreditTransaction(t, "3", "27.35", "")))

		assert.True(t, ct.HeaderControlSum().Equal(decimal.RequireFromString("63.36")))
		assert.True(t, ct.PaymentControlSumInCents().Equal(decimal.NewFromInt(6336)))

		xml, err := ct.AsXMLString()
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(xml, "<CtrlSum>63.36</CtrlSum>"))
		assert.Equal(t, 2, strings.Count(xml, "<NbOfTxs>3</NbOfTxs>"))
	})

	t.Run("is isolated from later changes of the caller copy", func(t *testing.T) {
		ct := newEmptyCreditTransfer(t)
		tx := newCreditTransaction(t, "1", "10", "before")
		require.NoError(t, ct.AddCreditTransfer(tx))

		tx.SetRemittanceInformation("after")
		require.NoError(t, tx.SetAmount(decimal.NewFromInt(99)))

		stored := ct.Transactions()[0]
		assert.Equal(t, "before", stored.RemittanceInformation())
		assert.Equal(t, "10", stored.Amount().String())
		assert.Empty(t, tx.EndToEndID())
	})

	t.Run("adds from fields", func(t *testing.T) {
		ct := newEmptyCreditTransfer(t)
		require.NoError(t, ct.AddCreditTransferFields("Transaction Id 1", "", creditorData,
			decimal.RequireFromString("23.45"), "", "Transaction description"))

		xml, err := ct.AsXMLString()
		require.NoError(t, err)
		assert.Equal(t, creditOneRowXML, xml)

		err = ct.AddCreditTransferFields("x", "", creditorData, decimal.RequireFromString("1.001"), "", "")
		assertDomainCode(t, err, shared.ErrInvalidAmount)
	})
}

// ============================================
// Setters
// ============================================

func TestCreditTransfer_SetDebtor(t *testing.T) {
	ct := NewCreditTransfer()

	assertDomainCode(t, ct.SetDebtor(nil), shared.ErrNullArgument)
	assertDomainCode(t, ct.SetDebtor(&valueobject.IbanData{}), shared.ErrInvalidFormat)

	unknown := debtorData.Clone()
	unknown.SetUnknownBic(true)
	assertDomainCode(t, ct.SetDebtor(unknown), shared.ErrInvalidFormat)

	require.NoError(t, ct.SetDebtor(debtorData))
	assert.Equal(t, "FR7030002005500000157845Z02", ct.Debtor().Iban())
}

func TestCreditTransfer_SetSchema(t *testing.T) {
	ct := NewCreditTransfer()
	assert.Equal(t, SchemaPain00100103, ct.Schema())

	require.NoError(t, ct.SetSchema(SchemaPain00100104))
	assert.Equal(t, SchemaPain00100104, ct.Schema())

	assertDomainCode(t, ct.SetSchema(SchemaPain00800102), shared.ErrUnsupportedSchema)
	assert.Equal(t, SchemaPain00100104, ct.Schema())
}

func TestCreditTransfer_Defaults(t *testing.T) {
	before := time.Now()
	ct := NewCreditTransfer()

	assert.False(t, ct.CreationDate().Before(before.Truncate(time.Second)))
	y, m, d := before.Date()
	assert.Equal(t, time.Date(y, m, d, 0, 0, 0, 0, before.Location()), ct.RequestedExecutionDate())
	assert.Equal(t, "EUR", ct.DebtorAccountCurrency())
	assert.Equal(t, ChargeBearerSHAR, ct.ChargeBearer())
	assert.Equal(t, BatchBooking(0), ct.BatchBooking())
	assert.False(t, ct.IsInternational())
	assert.Equal(t, 0, ct.NumberOfTransactions())
}

func TestCreditTransfer_SetterValidation(t *testing.T) {
	ct := NewCreditTransfer()

	assertDomainCode(t, ct.SetMessageIdentification(strings.Repeat("M", 36)), shared.ErrInvalidFormat)
	assertDomainCode(t, ct.SetPaymentInfoID(strings.Repeat("P", 36)), shared.ErrInvalidFormat)
	assertDomainCode(t, ct.SetForwardingAgent("ABC"), shared.ErrInvalidFormat)
	assertDomainCode(t, ct.SetBatchBooking(BatchBooking(9)), shared.ErrUnknownCode)
	assertDomainCode(t, ct.SetChargeBearer(ChargeBearer(9)), shared.ErrUnknownCode)
	assertDomainCode(t, ct.SetDebtorAccountCurrency("XXXX"), shared.ErrInvalidFormat)

	require.NoError(t, ct.SetDebtorAccountCurrency("chf"))
	assert.Equal(t, "CHF", ct.DebtorAccountCurrency())
	require.NoError(t, ct.SetForwardingAgent(""))
	assert.Empty(t, ct.ForwardingAgent())
}
