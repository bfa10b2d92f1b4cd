package database

import (
	"fmt"

	"github.com/sejins/studyhub/internal/models"
)

var seedZones = []models.Zone{
	{City: "Seoul", LocalName: "서울특별시", Province: ""},
	{City: "Busan", LocalName: "부산광역시", Province: ""},
	{City: "Incheon", LocalName: "인천광역시", Province: ""},
	{City: "Daegu", LocalName: "대구광역시", Province: ""},
	{City: "Daejeon", LocalName: "대전광역시", Province: ""},
	{City: "Gwangju", LocalName: "광주광역시", Province: ""},
	{City: "Suwon", LocalName: "수원시", Province: "Gyeonggi"},
	{City: "Seongnam", LocalName: "성남시", Province: "Gyeonggi"},
	{City: "Goyang", LocalName: "고양시", Province: "Gyeonggi"},
	{City: "Yongin", LocalName: "용인시", Province: "Gyeonggi"},
	{City: "Changwon", LocalName: "창원시", Province: "Gyeongnam"},
	{City: "Jeonju", LocalName: "전주시", Province: "Jeonbuk"},
	{City: "Cheongju", LocalName: "청주시", Province: "Chungbuk"},
	{City: "Jeju", LocalName: "제주시", Province: "Jeju"},
}

// SeedZones inserts the built-in zone list once. Zones already present
// are left untouched.
func SeedZones() error {
	var count int64
	if err := DB.Model(&models.Zone{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count zones: %w", err)
	}
	if count > 0 {
		return nil
	}
	if err := DB.Create(&seedZones).Error; err != nil {
		return fmt.Errorf("failed to seed zones: %w", err)
	}
	return nil
}
