package Models

import (
	"time"

	"gorm.io/gorm"
)

// Resource is a person, crew or piece of equipment that can be allocated to
// schedule tasks. Rates feed the earned-value actual-cost calculation.
type Resource struct {
	gorm.Model
	Name         string  `json:"name" gorm:"not null"`
	ResourceType string  `json:"resource_type"` // labour, equipment, subcontractor
	HourlyRate   float64 `json:"hourly_rate"`
	Active       bool    `json:"active" gorm:"default:true"`
}

// ResourceAllocation is planned work: hours a resource is expected to spend
// on a task on a given date.
type ResourceAllocation struct {
	gorm.Model
	TaskID         uint      `json:"task_id" gorm:"index;not null"`
	ResourceID     uint      `json:"resource_id" gorm:"index;not null"`
	AllocationDate time.Time `json:"allocation_date" gorm:"type:date"`
	PlannedHours   float64   `json:"planned_hours"`

	Resource Resource `json:"resource,omitempty" gorm:"foreignKey:ResourceID"`
}

// TimeEntry is actual logged work. HourlyRate overrides the resource rate
// when non-zero (rate at time of entry).
type TimeEntry struct {
	gorm.Model
	TaskID     uint      `json:"task_id" gorm:"index;not null"`
	ResourceID uint      `json:"resource_id" gorm:"index;not null"`
	EntryDate  time.Time `json:"entry_date" gorm:"type:date"`
	Hours      float64   `json:"hours"`
	HourlyRate float64   `json:"hourly_rate"`
	Notes      string    `json:"notes"`

	Resource Resource `json:"resource,omitempty" gorm:"foreignKey:ResourceID"`
}
