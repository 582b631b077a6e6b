package model

import "time"

// User carries the ledger balance in the smallest currency unit.
// Balance is written only through the ledger service; no other component
// may update it directly.
type User struct {
	ID        string    `gorm:"column:id;primaryKey;type:char(25)"`
	Name      string    `gorm:"column:name"`
	Email     string    `gorm:"column:email;uniqueIndex"`
	Balance   int64     `gorm:"column:balance;not null;default:0"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"`
}

func (User) TableName() string {
	return "users"
}
