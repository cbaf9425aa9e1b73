package model

import "time"

// SKU is a merchant product that can be pitched into an integration
// slot, stored in the `skus` table.  Tags are persisted as a
// comma-joined column and exposed as a list.
//
// Fields:
//  ID         – primary key identifier.
//  MerchantID – owning merchant reference.
//  Title      – product title.
//  Price      – unit price, never negative.
//  Margin     – gross margin percentage in [0,100].
//  Tags       – free-form labels used by matching.
//  ImageURL   – uploaded product image URL (nullable).
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type SKU struct {
	ID         uint64    `json:"id"`                 // skus.id
	MerchantID uint64    `json:"merchantId"`         // skus.merchant_id
	Title      string    `json:"title"`              // skus.title
	Price      float64   `json:"price"`              // skus.price
	Margin     float64   `json:"margin"`             // skus.margin
	Tags       []string  `json:"tags"`               // skus.tags (comma-joined)
	ImageURL   *string   `json:"imageUrl,omitempty"` // skus.image_url (nullable)
	CreatedAt  time.Time `json:"createdDate"`        // skus.created_at
	UpdatedAt  time.Time `json:"lastModifiedDate"`   // skus.updated_at
}
