package Models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project is the schedule container. Every task, dependency and baseline
// belongs to exactly one project.
type Project struct {
	gorm.Model
	Title    string `json:"title"`
	Address  string `json:"address"`
	Status   string `json:"status"` // active, completed, archived
	ClientID *uint  `json:"client_id"`

	Tasks []ScheduleTask `json:"tasks,omitempty" gorm:"foreignKey:ProjectID"`
}

// CompanySetting holds company-wide configuration. WorkingDays is a JSON map
// of lowercase weekday name to bool, e.g. {"monday":true,...,"sunday":false}.
type CompanySetting struct {
	gorm.Model
	CompanyName string         `json:"company_name"`
	Timezone    string         `json:"timezone" gorm:"default:Australia/Brisbane"`
	WorkingDays datatypes.JSON `json:"working_days"`
}

type HoldReason struct {
	gorm.Model
	Name   string `json:"name"`
	Color  string `json:"color"`
	Active bool   `json:"active" gorm:"default:true"`
}
