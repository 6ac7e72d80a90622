package models

import (
	"fmt"
	"time"
)

// Product represents a product in the catalog.
type Product struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      *string   `json:"name" gorm:"column:name;type:varchar(200);not null" validate:"required,max=200"`
	UPC       *string   `json:"upc" gorm:"column:upc;type:varchar(200);not null;uniqueIndex" validate:"required,max=200"`
	ImageURL  *string   `json:"imageUrl" gorm:"column:imageUrl;type:varchar(255)" validate:"omitempty,max=255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Product) TableName() string { return "products" }

// ProductSummary is the projection returned by the list operation.
type ProductSummary struct {
	ID       uint    `json:"id" gorm:"column:id"`
	Name     *string `json:"name" gorm:"column:name"`
	UPC      *string `json:"upc" gorm:"column:upc"`
	ImageURL *string `json:"imageUrl" gorm:"column:imageUrl"`
}

func (ProductSummary) TableName() string { return "products" }

// Summary projects p onto the list shape.
func (p Product) Summary() ProductSummary {
	return ProductSummary{ID: p.ID, Name: p.Name, UPC: p.UPC, ImageURL: p.ImageURL}
}

// Field is a single allow-listed body value. Present distinguishes an
// explicit null from a key that was never sent.
type Field struct {
	Present bool
	Value   *string
}

// ProductFields holds the only request body keys that may reach the store.
type ProductFields struct {
	Name     Field
	UPC      Field
	ImageURL Field
}

// Writable body keys, in column order.
const (
	FieldName     = "name"
	FieldUPC      = "upc"
	FieldImageURL = "imageUrl"
)

// PickProductFields copies name, upc and imageUrl out of an arbitrary decoded
// body and drops every other key. Non-string scalars are stored in their
// printed form, the way a relational column would coerce them.
func PickProductFields(input map[string]any) ProductFields {
	return ProductFields{
		Name:     pick(input, FieldName),
		UPC:      pick(input, FieldUPC),
		ImageURL: pick(input, FieldImageURL),
	}
}

func pick(input map[string]any, key string) Field {
	raw, ok := input[key]
	if !ok {
		return Field{}
	}
	switch v := raw.(type) {
	case nil:
		return Field{Present: true}
	case string:
		return Field{Present: true, Value: &v}
	default:
		s := fmt.Sprint(v)
		return Field{Present: true, Value: &s}
	}
}

// NewProduct builds an unsaved product from the allow-listed fields.
func (f ProductFields) NewProduct() *Product {
	return &Product{
		Name:     f.Name.Value,
		UPC:      f.UPC.Value,
		ImageURL: f.ImageURL.Value,
	}
}

// Merge applies the fields present in f onto p and leaves the rest untouched.
func (f ProductFields) Merge(p *Product) {
	if f.Name.Present {
		p.Name = f.Name.Value
	}
	if f.UPC.Present {
		p.UPC = f.UPC.Value
	}
	if f.ImageURL.Present {
		p.ImageURL = f.ImageURL.Value
	}
}
