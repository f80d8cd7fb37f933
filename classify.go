package cryptotax

// Category is the tax category of a transaction type.
type Category int

const (
	Unknown Category = iota
	Acquisition
	Disposal
	Income
	NonTaxable
)

func (c Category) String() string {
	switch c {
	case Acquisition:
		return "acquisition"
	case Disposal:
		return "disposal"
	case Income:
		return "income"
	case NonTaxable:
		return "non-taxable"
	default:
		return "unknown"
	}
}

// IncomeKind groups income transactions for the income totals.
type IncomeKind string

const (
	StakingIncome  IncomeKind = "staking"
	AirdropIncome  IncomeKind = "airdrop"
	MiningIncome   IncomeKind = "mining"
	InterestIncome IncomeKind = "interest"
	OtherIncome    IncomeKind = "other"
)

// categories maps every known transaction type to its tax category.
var categories = map[TxType]Category{
	Buy:     Acquisition,
	Receive: Acquisition,
	Deposit: Acquisition,

	Sell:       Disposal,
	Send:       Disposal,
	Spend:      Disposal,
	Withdrawal: Disposal,
	Trade:      Disposal,
	Swap:       Disposal,
	Convert:    Disposal,

	Staking:  Income,
	Airdrop:  Income,
	Mining:   Income,
	Interest: Income,
	Reward:   Income,
	IncomeTx: Income,

	Transfer:    NonTaxable,
	TransferIn:  NonTaxable,
	TransferOut: NonTaxable,
}

var incomeKinds = map[TxType]IncomeKind{
	Staking:  StakingIncome,
	Reward:   StakingIncome,
	Airdrop:  AirdropIncome,
	Mining:   MiningIncome,
	Interest: InterestIncome,
	IncomeTx: OtherIncome,
}

// Classify returns the tax category of a transaction type. Unlisted types,
// including "other", are Unknown.
func Classify(t TxType) Category { return categories[t] }

// IncomeKindOf returns the income kind of an income transaction type, or
// OtherIncome.
func IncomeKindOf(t TxType) IncomeKind {
	if k, ok := incomeKinds[t]; ok {
		return k
	}
	return OtherIncome
}
