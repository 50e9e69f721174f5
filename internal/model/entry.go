package model

import "github.com/shopspring/decimal"

// EntryType tells whether money left or entered the wallet.
type EntryType string

const (
	// EntryTypeExpense is money spent.
	EntryTypeExpense EntryType = "expense"
	// EntryTypeRevenue is money received.
	EntryTypeRevenue EntryType = "revenue"
)

// EntryTypes maps each type code to its display label. Labels are message
// keys; the UI translates them for the active locale.
var EntryTypes = map[EntryType]string{
	EntryTypeExpense: "Expense",
	EntryTypeRevenue: "Revenue",
}

// TypeOption is one selectable entry type.
type TypeOption struct {
	Value EntryType
	Label string
}

// EntryTypeOptions returns EntryTypes in a stable display order.
func EntryTypeOptions() []TypeOption {
	return []TypeOption{
		{Value: EntryTypeExpense, Label: EntryTypes[EntryTypeExpense]},
		{Value: EntryTypeRevenue, Label: EntryTypes[EntryTypeRevenue]},
	}
}

// Valid reports whether t is a known entry type.
func (t EntryType) Valid() bool {
	_, ok := EntryTypes[t]
	return ok
}

// Entry is a single income or expense record.
type Entry struct {
	Date        Date            `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	ID          *int            `json:"id"`
	Description *string         `json:"description"`
	Name        string          `json:"name"`
	Type        EntryType       `json:"type"`
	CategoryID  int             `json:"categoryId"`
	Paid        bool            `json:"paid"`
}

// RecordID reports the server-assigned id, if any.
func (e Entry) RecordID() (int, bool) {
	if e.ID == nil {
		return 0, false
	}
	return *e.ID, true
}

// DisplayName returns the entry name.
func (e Entry) DisplayName() string {
	return e.Name
}

// Equal compares two entries field by field. Amounts compare numerically.
func (e Entry) Equal(other Entry) bool {
	return equalInt(e.ID, other.ID) &&
		e.Name == other.Name &&
		equalString(e.Description, other.Description) &&
		e.Type == other.Type &&
		e.Amount.Equal(other.Amount) &&
		e.Date.Equal(other.Date) &&
		e.Paid == other.Paid &&
		e.CategoryID == other.CategoryID
}
