package facility

import "time"

type Facility struct {
	ID          int64     `gorm:"primaryKey"`
	CompanyID   *int64    `gorm:"column:company_id"`
	Name        string    `gorm:"column:name;not null"`
	Address     string    `gorm:"column:address"`
	City        string    `gorm:"column:city;not null"`
	Country     string    `gorm:"column:country;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Facility) TableName() string {
	return "facilities"
}

type Room struct {
	ID            int64     `gorm:"primaryKey"`
	FacilityID    int64     `gorm:"column:facility_id;not null;index"`
	Name          string    `gorm:"column:name;not null"`
	RoomType      string    `gorm:"column:room_type;not null"`
	Capacity      int       `gorm:"column:capacity;not null"`
	PricePerNight int64     `gorm:"column:price_per_night;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Room) TableName() string {
	return "rooms"
}
