package models

import "time"

type Category struct {
	ID              string
	Name            string
	Answer          *string
	ContactPersonID *string
	ParentID        *string
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CategoryNode is the read model for the category tree: a category with its
// subcategories expanded recursively.
type CategoryNode struct {
	Category
	Subcategories    []CategoryNode
	HasSubcategories bool
}
