package schema

// directDebitSchema builds the CstmrDrctDbtInitn message rules
func directDebitSchema(namespace string, b blocks) compiled {
	paymentTypeInformation := elem("PmtTpInf",
		leaf("InstrPrty", priorityCode).opt(),
		codeOrProprietary("SvcLvl", max4Text).opt(),
		codeOrProprietary("LclInstrm", max35Text).opt(),
		leaf("SeqTp", sequenceTypeCode).opt(),
		codeOrProprietary("CtgyPurp", max4Text).opt(),
	)

	transactionInformation := elem("DrctDbtTxInf",
		paymentID(),
		paymentTypeInformation.opt(),
		instructedAmount(),
		leaf("ChrgBr", chargeBearerCode).opt(),
		elem("DrctDbtTx",
			elem("MndtRltdInf",
				leaf("MndtId", max35Text).opt(),
				leaf("DtOfSgntr", isoDate).opt(),
				leaf("AmdmntInd", booleanIndictor).opt(),
				leaf("FrstColltnDt", isoDate).opt(),
				leaf("FnlColltnDt", isoDate).opt(),
			).opt(),
			b.party("CdtrSchmeId").opt(),
		).opt(),
		b.party("UltmtCdtr").opt(),
		b.agent("DbtrAgt"),
		b.party("Dbtr"),
		b.account("DbtrAcct"),
		b.party("UltmtDbtr").opt(),
		leaf("InstrForCdtrAgt", max140Text).opt(),
		purpose().opt(),
		remittance().opt(),
	)

	paymentInformation := elem("PmtInf",
		leaf("PmtInfId", max35Text),
		leaf("PmtMtd", enumText("DD")),
		leaf("BtchBookg", booleanIndictor).opt(),
		leaf("NbOfTxs", max15Numeric).opt(),
		leaf("CtrlSum", decimalNumber).opt(),
		paymentTypeInformation.opt(),
		leaf("ReqdColltnDt", isoDate),
		b.party("Cdtr"),
		b.account("CdtrAcct"),
		b.agent("CdtrAgt"),
		b.party("UltmtCdtr").opt(),
		leaf("ChrgBr", chargeBearerCode).opt(),
		b.party("CdtrSchmeId").opt(),
		transactionInformation.many(),
	)

	return document(namespace, elem("CstmrDrctDbtInitn",
		b.groupHeader(),
		paymentInformation.many(),
	))
}
