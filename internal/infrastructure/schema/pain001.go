package schema

// creditTransferSchema builds the CstmrCdtTrfInitn message rules
func creditTransferSchema(namespace string, b blocks) compiled {
	paymentTypeInformation := elem("PmtTpInf",
		leaf("InstrPrty", priorityCode).opt(),
		codeOrProprietary("SvcLvl", max4Text).opt(),
		codeOrProprietary("LclInstrm", max35Text).opt(),
		codeOrProprietary("CtgyPurp", max4Text).opt(),
	)

	transactionInformation := elem("CdtTrfTxInf",
		paymentID(),
		paymentTypeInformation.opt(),
		choiceOf("Amt", instructedAmount()),
		leaf("ChrgBr", chargeBearerCode).opt(),
		b.party("UltmtDbtr").opt(),
		b.agent("CdtrAgt").opt(),
		b.party("Cdtr").opt(),
		b.account("CdtrAcct").opt(),
		b.party("UltmtCdtr").opt(),
		elem("InstrForCdtrAgt",
			leaf("Cd", instructionCode).opt(),
			leaf("InstrInf", max140Text).opt(),
		).opt().many(),
		purpose().opt(),
		elem("RgltryRptg",
			leaf("DbtCdtRptgInd", enumText("CRED", "DEBT", "BOTH")).opt(),
			elem("Dtls",
				leaf("Ctry", countryCode).opt(),
				leaf("Cd", max10Text).opt(),
				leaf("Inf", max35Text).opt().many(),
			).opt().many(),
		).opt().upTo(10),
		remittance().opt(),
	)

	paymentInformation := elem("PmtInf",
		leaf("PmtInfId", max35Text),
		leaf("PmtMtd", enumText("CHK", "TRF", "TRA")),
		leaf("BtchBookg", booleanIndictor).opt(),
		leaf("NbOfTxs", max15Numeric).opt(),
		leaf("CtrlSum", decimalNumber).opt(),
		paymentTypeInformation.opt(),
		leaf("ReqdExctnDt", isoDate),
		b.party("Dbtr"),
		b.account("DbtrAcct"),
		b.agent("DbtrAgt"),
		b.party("UltmtDbtr").opt(),
		leaf("ChrgBr", chargeBearerCode).opt(),
		transactionInformation.many(),
	)

	return document(namespace, elem("CstmrCdtTrfInitn",
		b.groupHeader(),
		paymentInformation.many(),
	))
}
