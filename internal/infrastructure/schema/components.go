package schema

// blocks builds the component types shared by every message version. The
// versions only differ in the name of the BIC elements.
type blocks struct {
	agentBic string // BIC or BICFI
	partyBic string // BICOrBEI or AnyBIC
}

func (b blocks) postalAddress() *node {
	return elem("PstlAdr",
		leaf("AdrTp", addressTypeCode).opt(),
		leaf("Dept", max70Text).opt(),
		leaf("SubDept", max70Text).opt(),
		leaf("StrtNm", max70Text).opt(),
		leaf("BldgNb", max16Text).opt(),
		leaf("PstCd", max16Text).opt(),
		leaf("TwnNm", max35Text).opt(),
		leaf("CtrySubDvsn", max35Text).opt(),
		leaf("Ctry", countryCode).opt(),
		leaf("AdrLine", max70Text).opt().upTo(7),
	)
}

func codeOrProprietary(name string, code textRule) *node {
	return choiceOf(name, leaf("Cd", code), leaf("Prtry", max35Text))
}

func genericIdentification(name string) *node {
	return elem(name,
		leaf("Id", max35Text),
		codeOrProprietary("SchmeNm", max4Text).opt(),
		leaf("Issr", max35Text).opt(),
	)
}

func (b blocks) partyIdentification() *node {
	return choiceOf("Id",
		elem("OrgId",
			leaf(b.partyBic, bicIdentifier).opt(),
			genericIdentification("Othr").opt().many(),
		),
		elem("PrvtId",
			genericIdentification("Othr").opt().many(),
		),
	)
}

// party is a PartyIdentification with name, address and identification
func (b blocks) party(name string) *node {
	return elem(name,
		leaf("Nm", max70Text).opt(),
		b.postalAddress().opt(),
		b.partyIdentification().opt(),
		leaf("CtryOfRes", countryCode).opt(),
	)
}

func (b blocks) account(name string) *node {
	return elem(name,
		choiceOf("Id",
			leaf("IBAN", ibanIdentifier),
			elem("Othr",
				leaf("Id", max34Text),
				codeOrProprietary("SchmeNm", max4Text).opt(),
				leaf("Issr", max35Text).opt(),
			),
		),
		leaf("Ccy", currencyCode).opt(),
		leaf("Nm", max70Text).opt(),
	)
}

func (b blocks) agent(name string) *node {
	return elem(name,
		elem("FinInstnId",
			leaf(b.agentBic, bicIdentifier).opt(),
			leaf("Nm", max140Text).opt(),
			b.postalAddress().opt(),
			genericIdentification("Othr").opt(),
		),
	)
}

func (b blocks) groupHeader() *node {
	return elem("GrpHdr",
		leaf("MsgId", max35Text),
		leaf("CreDtTm", isoDateTime),
		leaf("NbOfTxs", max15Numeric),
		leaf("CtrlSum", decimalNumber).opt(),
		b.party("InitgPty"),
		b.agent("FwdgAgt").opt(),
	)
}

func paymentID() *node {
	return elem("PmtId",
		leaf("InstrId", max35Text).opt(),
		leaf("EndToEndId", max35Text),
	)
}

func instructedAmount() *node {
	return leaf("InstdAmt", currencyAmount).withAttr("Ccy", true, currencyCode)
}

func purpose() *node {
	return codeOrProprietary("Purp", max4Text)
}

func remittance() *node {
	return elem("RmtInf",
		leaf("Ustrd", max140Text).opt().many(),
	)
}

// document wraps the message element in the Document root
func document(namespace string, message *node) compiled {
	return compiled{namespace: namespace, root: elem("Document", message)}
}
