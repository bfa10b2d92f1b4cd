package models

import "fmt"

// Zone is a geographic region attached to accounts and studies for
// interest matching. Zones come from a fixed seed list.
type Zone struct {
	ID        uint64 `gorm:"primarykey" json:"id"`
	City      string `gorm:"type:varchar(100);not null" json:"city"`
	LocalName string `gorm:"type:varchar(100);not null" json:"local_name"`
	Province  string `gorm:"type:varchar(100)" json:"province"`
}

func (z Zone) String() string {
	return fmt.Sprintf("%s(%s)/%s", z.City, z.LocalName, z.Province)
}
