package core

// Field is an abstract payload field referenced by the rule table.
type Field string

const (
	FieldTotalSale     Field = "total_sale"
	FieldTotalCost     Field = "total_cost"
	FieldCost          Field = "cost"
	FieldAmount        Field = "amount"
	FieldTotalEarnings Field = "total_earnings"
	FieldReward        Field = "reward"
	FieldDonation      Field = "donation"
	FieldFine          Field = "fine"
	FieldPrice         Field = "price"
)

// FieldMap resolves abstract fields to journal entry keys.
var FieldMap = map[Field]string{
	FieldTotalSale:     "TotalSale",
	FieldTotalCost:     "TotalCost",
	FieldCost:          "Cost",
	FieldAmount:        "Amount",
	FieldTotalEarnings: "TotalEarnings",
	FieldReward:        "Reward",
	FieldDonation:      "Donation",
	FieldFine:          "Fine",
	FieldPrice:         "Price",
}

// JournalKey returns the concrete payload key for f.
func (f Field) JournalKey() (string, bool) {
	key, ok := FieldMap[f]
	return key, ok
}
