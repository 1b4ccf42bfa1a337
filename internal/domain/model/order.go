package model

import "time"

// チェックアウトで一度だけ作成。以後は不変。
type Order struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID     string    `gorm:"type:varchar(64);not null;index" json:"cart_id"`
	TotalPrice int64     `gorm:"not null" json:"total_price"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
