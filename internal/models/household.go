package models

// Household groups the accounts, categories and recurring patterns of one
// family.
type Household struct {
	DefaultModel
	Name string `json:"name" example:"The Levis"`
}
