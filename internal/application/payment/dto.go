package payment

// Batch kinds
const (
	KindCredit = "credit"
	KindDebit  = "debit"
)

// Batch describes one payment initiation message. Credit batches name a
// debtor and pay creditors; debit batches name a creditor and collect from
// debtors. Each transaction's account is the counterparty.
type Batch struct {
	Kind          string `yaml:"kind" validate:"required,oneof=credit debit"`
	Schema        string `yaml:"schema" validate:"omitempty,oneof=pain.001.001.03 pain.001.001.04 pain.008.001.02 pain.008.001.03"`
	MessageID     string `yaml:"message_id" validate:"omitempty,max=35"`
	PaymentInfoID string `yaml:"payment_info_id" validate:"omitempty,max=35"`
	CreationDate  string `yaml:"creation_date" validate:"omitempty,datetime=2006-01-02T15:04:05"`
	ExecutionDate string `yaml:"execution_date" validate:"omitempty,datetime=2006-01-02"`

	InitiatingParty *Party `yaml:"initiating_party" validate:"required"`
	CategoryPurpose *Code  `yaml:"category_purpose"`
	LocalInstrument *Code  `yaml:"local_instrument"`
	ForwardingAgent string `yaml:"forwarding_agent" validate:"omitempty,bic"`
	BatchBooking    *bool  `yaml:"batch_booking"`

	Debtor               *Account        `yaml:"debtor"`
	DebtorIdentification *OrganisationID `yaml:"debtor_identification"`
	International        bool            `yaml:"international"`
	ChargeBearer         string          `yaml:"charge_bearer" validate:"omitempty,oneof=CRED DEBT SHAR"`

	Creditor         *Account `yaml:"creditor"`
	CreditorSchemeID string   `yaml:"creditor_scheme_id" validate:"omitempty,max=35"`

	// currency of the debtor (credit) or creditor (debit) account
	AccountCurrency string `yaml:"account_currency" validate:"omitempty,iso4217"`

	Transactions []Transaction `yaml:"transactions" validate:"required,min=1,dive"`
}

// Party is the initiating party
type Party struct {
	Name           string          `yaml:"name" validate:"required_without=Identification"`
	Identification *OrganisationID `yaml:"identification"`
}

// OrganisationID is an organisation identifier and its issuer
type OrganisationID struct {
	ID     string `yaml:"id" validate:"required,max=35"`
	Issuer string `yaml:"issuer" validate:"max=35"`
}

// Code is an ISO code or a proprietary value
type Code struct {
	Code        string `yaml:"code" validate:"required_without=Proprietary,max=35"`
	Proprietary string `yaml:"proprietary" validate:"max=35"`
}

// Account identifies a debtor or creditor
type Account struct {
	Name       string   `yaml:"name" validate:"required"`
	BIC        string   `yaml:"bic" validate:"required_without=UnknownBIC,omitempty,bic"`
	UnknownBIC bool     `yaml:"unknown_bic"`
	IBAN       string   `yaml:"iban" validate:"required_without=Other"`
	Other      string   `yaml:"other" validate:"omitempty,max=34"`
	Address    *Address `yaml:"address"`
}

// Address is a postal address
type Address struct {
	Type               string   `yaml:"type" validate:"omitempty,oneof=ADDR PBOX HOME BIZZ MLTO DLVY"`
	Department         string   `yaml:"department" validate:"max=70"`
	SubDepartment      string   `yaml:"sub_department" validate:"max=70"`
	Street             string   `yaml:"street" validate:"max=70"`
	BuildingNumber     string   `yaml:"building_number" validate:"max=16"`
	PostCode           string   `yaml:"post_code" validate:"max=16"`
	Town               string   `yaml:"town" validate:"max=35"`
	CountrySubDivision string   `yaml:"country_subdivision" validate:"max=35"`
	Country            string   `yaml:"country" validate:"omitempty,iso3166_1_alpha2"`
	Lines              []string `yaml:"lines" validate:"max=7,dive,max=70"`
}

// Transaction is one payment (credit) or collection (debit)
type Transaction struct {
	ID         string   `yaml:"id" validate:"omitempty,max=35"`
	EndToEndID string   `yaml:"end_to_end_id" validate:"omitempty,max=30"`
	Amount     string   `yaml:"amount" validate:"required,amount"`
	Currency   string   `yaml:"currency" validate:"omitempty,iso4217"`
	Remittance string   `yaml:"remittance"`
	Purpose    string   `yaml:"purpose" validate:"omitempty,max=4"`
	Account    *Account `yaml:"account" validate:"required"`

	// credit transfers
	RegulatoryReporting string       `yaml:"regulatory_reporting" validate:"omitempty,max=10"`
	Instruction         *Instruction `yaml:"instruction"`

	// direct debits
	MandateID    string `yaml:"mandate_id" validate:"omitempty,max=35"`
	MandateDate  string `yaml:"mandate_date" validate:"omitempty,datetime=2006-01-02"`
	SequenceType string `yaml:"sequence_type" validate:"omitempty,oneof=OOFF FRST RCUR FNAL"`
}

// Instruction is an instruction for the creditor agent
type Instruction struct {
	Code    string `yaml:"code" validate:"required,oneof=CHQB HOLD PHOB TELB"`
	Comment string `yaml:"comment" validate:"max=140"`
}
