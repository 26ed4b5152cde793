package company

import "time"

type Company struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;not null;uniqueIndex"`
	SignupToken string    `gorm:"column:signup_token;not null;uniqueIndex"`
	AdminID     *int64    `gorm:"column:admin_id"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Company) TableName() string {
	return "companies"
}
