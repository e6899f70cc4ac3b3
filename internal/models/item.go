package models

import "time"

// Item: master barang per brand. Code unik dalam satu brand.
type Item struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Brand    string `gorm:"size:50;not null;uniqueIndex:idx_items_brand_code" json:"brand"`
	Code     string `gorm:"size:50;not null;uniqueIndex:idx_items_brand_code" json:"code"`
	Name     string `gorm:"size:150;not null" json:"item"`
	Qty      int    `gorm:"not null;default:0" json:"qty"`
	Unit     string `gorm:"size:20" json:"unit"`
	Category string `gorm:"size:100" json:"category"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
