package Models

import (
	"encoding/json"
	"log"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "database.db"
	}

	connection, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = connection

	// 1. Base records with no dependencies
	DB.AutoMigrate(
		&User{},
		&CompanySetting{},
		&HoldReason{},
		&Resource{},
	)

	// 2. Projects, then tasks (tasks reference projects and hold reasons)
	DB.AutoMigrate(
		&Project{},
		&ScheduleTask{},
	)

	// 3. Records that reference tasks
	DB.AutoMigrate(
		&TaskDependency{},
		&Baseline{},
		&ResourceAllocation{},
		&TimeEntry{},
	)

	seedDefaults()
}

// seedDefaults makes sure a company setting row and the stock hold reasons
// exist so the schedule engine always has a working-day config to read.
func seedDefaults() {
	var count int64
	DB.Model(&CompanySetting{}).Count(&count)
	if count == 0 {
		workingDays, _ := json.Marshal(map[string]bool{
			"monday":    true,
			"tuesday":   true,
			"wednesday": true,
			"thursday":  true,
			"friday":    true,
			"saturday":  false,
			"sunday":    false,
		})
		setting := CompanySetting{
			CompanyName: "Mason",
			Timezone:    "Australia/Brisbane",
			WorkingDays: workingDays,
		}
		if err := DB.Create(&setting).Error; err != nil {
			log.Printf("Error seeding company setting: %v", err)
		}
	}

	DB.Model(&HoldReason{}).Count(&count)
	if count == 0 {
		reasons := []HoldReason{
			{Name: "Awaiting Client Decision", Color: "#F59E0B", Active: true},
			{Name: "Weather", Color: "#3B82F6", Active: true},
			{Name: "Finance / Progress Payment", Color: "#EF4444", Active: true},
			{Name: "Material Supply", Color: "#8B5CF6", Active: true},
		}
		if err := DB.Create(&reasons).Error; err != nil {
			log.Printf("Error seeding hold reasons: %v", err)
		}
	}
}

// GetCompanySetting returns the company configuration row, if present.
func GetCompanySetting() (CompanySetting, error) {
	var setting CompanySetting
	err := DB.First(&setting).Error
	return setting, err
}
