package models

// Category is a user-defined colored label. The global palette is unique
// by Name; a project's Categories hold copies by value.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}
