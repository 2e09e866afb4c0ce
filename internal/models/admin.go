package models

import "time"

// Admin - the tenant. Every user, client and record in the system hangs off
// exactly one admin.
type Admin struct {
	ID           uint   `gorm:"primaryKey"`
	UUID         string `gorm:"size:36;uniqueIndex;not null"`
	Name         string `gorm:"size:50;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	CreatedAt    time.Time

	Users   []User   `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE"`
	Clients []Client `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE"`
}
