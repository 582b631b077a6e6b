package model

import "time"

// Product is read-only input to a transaction. Category holds the category
// name; polarity is resolved through the category service at mutation time.
type Product struct {
	ID           string    `gorm:"column:id;primaryKey;type:char(25)"`
	Code         string    `gorm:"column:code;uniqueIndex"`
	Name         string    `gorm:"column:name"`
	Category     string    `gorm:"column:category"`
	BasePrice    int64     `gorm:"column:base_price;not null"`
	SellingPrice int64     `gorm:"column:selling_price;not null"`
	Fee          int64     `gorm:"column:fee;not null;default:0"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"`
}

func (Product) TableName() string {
	return "products"
}
