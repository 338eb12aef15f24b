package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name           string    `gorm:"type:varchar(50);not null"`
	Username       string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Email          string    `gorm:"type:varchar(255)"`
	PasswordHash   string    `gorm:"type:varchar(255);not null"`
	Role           string    `gorm:"type:varchar(50);not null;default:'lender'"`
	Phone          string    `gorm:"type:varchar(50)"`
	DOB            string    `gorm:"type:varchar(50)"`
	Address        string    `gorm:"type:text"`
	ProfilePicture string    `gorm:"type:text"`
	Status         string    `gorm:"type:varchar(20);not null;default:'Active'"`

	CardNumber string `gorm:"type:varchar(50)"`
	CardName   string `gorm:"type:varchar(100)"`
	ValidTil   string `gorm:"type:varchar(20)"`

	// Legacy secret columns; populated only on pre-migration records
	// and cleared by the migration tool
	Cvv    string `gorm:"column:cvv;type:varchar(255)"`
	AtmPin string `gorm:"column:atm_pin;type:varchar(255)"`

	CreditScore   int     `gorm:"default:0"`
	TotalBorrowed float64 `gorm:"type:decimal(14,2);default:0"`
	ActiveLoans   int     `gorm:"default:0"`
	LastPayment   *time.Time
	Referrer      string `gorm:"type:varchar(100)"`

	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
