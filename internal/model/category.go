package model

import "time"

type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "INCOME"
	CategoryTypeExpense CategoryType = "EXPENSE"
)

type Category struct {
	ID        int64        `gorm:"primaryKey;autoIncrement;column:id;<-:create"`
	Name      string       `gorm:"column:name;uniqueIndex"`
	Type      CategoryType `gorm:"column:type;type:enum('INCOME','EXPENSE');default:'EXPENSE'"`
	IsActive  bool         `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time    `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
}

func (Category) TableName() string {
	return "categories"
}
