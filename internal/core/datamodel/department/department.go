package department

import "time"

type Department struct {
	ID        string    `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"column:name;not null"`
	Code      string    `gorm:"column:code;index"`
	ParentID  *string   `gorm:"column:parent_id"`
	HeadID    *string   `gorm:"column:head_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Department) TableName() string {
	return "departments"
}
