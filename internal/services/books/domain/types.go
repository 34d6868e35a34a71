// Package domain defines the types and interfaces for the books service
package domain

import (
	"time"

	"pricebook/internal/core/catalog"
)

// Book is one stored price book snapshot
type Book struct {
	ID        string
	Name      string
	Records   int
	CreatedAt time.Time
}

// CreateInput is the payload for storing a new snapshot
type CreateInput struct {
	// ID is optional; a fresh uuid is assigned when empty
	ID      string
	Name    string
	Records []catalog.ProductRecord
}
