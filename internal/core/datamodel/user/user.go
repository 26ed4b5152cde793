package user

import "time"

const (
	ProviderLocal    = "local"
	ProviderFacebook = "facebook"
	ProviderGoogle   = "google"
)

type User struct {
	ID           int64      `gorm:"primaryKey"`
	FirstName    string     `gorm:"column:first_name;not null"`
	LastName     string     `gorm:"column:last_name;not null"`
	Email        string     `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash"`
	RoleID       int64      `gorm:"column:role_id;not null"`
	CompanyID    *int64     `gorm:"column:company_id"`
	Gender       string     `gorm:"column:gender"`
	Street       string     `gorm:"column:street"`
	City         string     `gorm:"column:city"`
	State        string     `gorm:"column:state"`
	Country      string     `gorm:"column:country"`
	Birthdate    *time.Time `gorm:"column:birthdate;type:date"`
	PhoneNumber  string     `gorm:"column:phone_number"`
	Provider     string     `gorm:"column:provider;not null"`
	ProviderID   string     `gorm:"column:provider_id"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
