package models

import (
	"time"
)

type User struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:250;not null"`
	Email     string    `gorm:"size:250;not null;uniqueIndex"`
	Picture   string    `gorm:"size:250"`
	Items     []Item    `gorm:"foreignKey:UserID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category is created lazily by the first item that names it and removed
// together with its last item.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:250;not null;uniqueIndex"`
	Items     []Item `gorm:"foreignKey:CategoryID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Item names are unique across the whole catalog, not per category.
type Item struct {
	ID          uint     `gorm:"primaryKey"`
	Name        string   `gorm:"size:250;not null;uniqueIndex"`
	Description string   `gorm:"type:text"`
	CategoryID  uint     `gorm:"not null;index"`
	Category    Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	UserID      uint     `gorm:"not null;index"`
	User        User     `gorm:"foreignKey:UserID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// All lists the models in migration order.
func All() []interface{} {
	return []interface{}{&User{}, &Category{}, &Item{}}
}
