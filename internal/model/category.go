// Package model defines the records managed by the finance tracker.
package model

// Category groups entries, e.g. "Groceries" or "Salary".
type Category struct {
	ID          *int    `json:"id"`
	Description *string `json:"description"`
	Name        string  `json:"name"`
}

// RecordID reports the server-assigned id, if any.
func (c Category) RecordID() (int, bool) {
	if c.ID == nil {
		return 0, false
	}
	return *c.ID, true
}

// DisplayName returns the category name.
func (c Category) DisplayName() string {
	return c.Name
}

// Equal compares two categories field by field.
func (c Category) Equal(other Category) bool {
	return equalInt(c.ID, other.ID) &&
		c.Name == other.Name &&
		equalString(c.Description, other.Description)
}
