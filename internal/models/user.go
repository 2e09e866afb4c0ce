package models

import "time"

// User - buyer. Owns an append-only list of weight-priced debit and plain
// credit records.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	AdminID   uint   `gorm:"index;not null"`
	UUID      string `gorm:"size:36;uniqueIndex;not null"`
	FirstName string `gorm:"size:50;not null"`
	LastName  string `gorm:"size:50;not null"`
	Mobile    string `gorm:"size:10;not null"`
	Location  string `gorm:"size:100"`
	IsActive  bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Records []UserRecord `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
