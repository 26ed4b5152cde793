package request

import "time"

type Request struct {
	ID            int64      `gorm:"primaryKey"`
	RequesterID   int64      `gorm:"column:requester_id;not null;index"`
	ManagerID     int64      `gorm:"column:manager_id;not null;index"`
	Purpose       string     `gorm:"column:purpose;not null"`
	Status        string     `gorm:"column:status;not null"`
	TripType      string     `gorm:"column:trip_type;not null"`
	Origin        string     `gorm:"column:origin;not null"`
	Destination   string     `gorm:"column:destination;not null"`
	DepartureDate time.Time  `gorm:"column:departure_date;type:date;not null"`
	ReturnDate    *time.Time `gorm:"column:return_date;type:date"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Request) TableName() string {
	return "requests"
}
