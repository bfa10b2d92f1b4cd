package models

// Tag is a free-form interest keyword attached to accounts and studies.
type Tag struct {
	ID    uint64 `gorm:"primarykey" json:"id"`
	Title string `gorm:"type:varchar(100);uniqueIndex;not null" json:"title"`
}
