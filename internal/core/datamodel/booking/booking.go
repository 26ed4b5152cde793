package booking

import "time"

type Booking struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	RequestID int64     `gorm:"column:request_id;not null"`
	RoomID    int64     `gorm:"column:room_id;not null;index"`
	CheckIn   time.Time `gorm:"column:check_in;type:date;not null"`
	CheckOut  time.Time `gorm:"column:check_out;type:date;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Booking) TableName() string {
	return "bookings"
}
