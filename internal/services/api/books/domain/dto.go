// Package domain holds DTOs for books http and service contracts
package domain

// RecordInput is one uploaded product row. Natural key fields are not
// required here: the engine diverts incomplete rows to diagnostics
// instead of rejecting the upload
type RecordInput struct {
	Manufacturer string             `json:"manufacturer,omitempty" validate:"omitempty,max=200" example:"Kohler"`
	Family       string             `json:"family,omitempty" validate:"omitempty,max=200" example:"Cimarron"`
	Model        string             `json:"model,omitempty" validate:"omitempty,max=200" example:"K-4296"`
	SKU          string             `json:"sku,omitempty" validate:"omitempty,max=200" example:"K-4296-0"`
	Finish       string             `json:"finish,omitempty" validate:"omitempty,max=200" example:"White"`
	Size         string             `json:"size,omitempty" validate:"omitempty,max=200" example:"1.28 GPF"`
	BasePrice    float64            `json:"base_price,omitempty" validate:"omitempty,gte=0" example:"325.50"`
	Options      map[string]float64 `json:"options,omitempty"`
	RuleText     string             `json:"rule_text,omitempty"`
	Meta         map[string]string  `json:"meta,omitempty"`
}

// UploadInput is the payload for storing a snapshot
type UploadInput struct {
	ID      string        `json:"id,omitempty" validate:"omitempty,uuid" example:"4bfb7f32-6a33-4d3b-9f76-7858f35aae6b"`
	Name    string        `json:"name" validate:"required,min=1,max=200" example:"vendor-2026-01"`
	Records []RecordInput `json:"records" validate:"required,min=1,dive"`
}

// BookOut describes a stored snapshot
type BookOut struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Records   int    `json:"records"`
	CreatedAt string `json:"created_at"`
}

// ListInput filters book listings
type ListInput struct {
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=500" example:"50"`
}

// GetInput fetches one book
type GetInput struct {
	BookID string `json:"book_id" validate:"required,uuid"`
}
