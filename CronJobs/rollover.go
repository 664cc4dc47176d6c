package CronJobs

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"Mason/Models"
	"Mason/Schedule"
)

// NightlyRollover represents the scheduled past-due task rollover service
type NightlyRollover struct {
	cronScheduler  *cron.Cron
	runImmediately bool
	jobID          cron.EntryID
}

// NewNightlyRollover creates a new rollover job with the given configuration
func NewNightlyRollover(runImmediately bool) *NightlyRollover {
	return &NightlyRollover{
		cronScheduler:  cron.New(cron.WithSeconds()),
		runImmediately: runImmediately,
	}
}

// Start initiates the rollover cron job
func (r *NightlyRollover) Start() error {
	var err error
	r.jobID, err = r.cronScheduler.AddFunc("0 0 5 * * *", func() {
		log.Println("Running scheduled nightly rollover")
		r.runRollover()
	})

	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	r.cronScheduler.Start()
	fmt.Println("Rollover scheduler started - will run daily at 5:00 AM")

	if r.runImmediately {
		fmt.Println("Running initial rollover")
		r.runRollover()
	}

	return nil
}

// Stop terminates the rollover scheduler
func (r *NightlyRollover) Stop() {
	if r.cronScheduler != nil {
		r.cronScheduler.Stop()
		log.Println("Rollover scheduler stopped")
	}
}

// UpdateSchedule changes the rollover schedule
// Format: "0 0 5 * * *" = At 05:00:00 AM every day
func (r *NightlyRollover) UpdateSchedule(schedule string) error {
	r.cronScheduler.Remove(r.jobID)

	var err error
	r.jobID, err = r.cronScheduler.AddFunc(schedule, func() {
		log.Println("Running scheduled rollover")
		r.runRollover()
	})

	if err != nil {
		return fmt.Errorf("error updating schedule: %w", err)
	}

	log.Printf("Rollover schedule updated to: %s\n", schedule)
	return nil
}

// runRollover moves past-due unstarted tasks of every active project to the
// next working day
func (r *NightlyRollover) runRollover() {
	setting, err := Models.GetCompanySetting()
	if err != nil {
		log.Printf("Rollover aborted, failed to load settings: %v\n", err)
		return
	}
	cal := Schedule.NewCalendar(Schedule.ParseWorkingDays(setting.WorkingDays))

	var projects []Models.Project
	if err := Models.DB.Where("status = ?", "active").Find(&projects).Error; err != nil {
		log.Printf("Rollover aborted, failed to load projects: %v\n", err)
		return
	}

	today := time.Now()
	for _, project := range projects {
		result, err := Schedule.Rollover(Models.DB, project.ID, today, cal)
		if err != nil {
			log.Printf("Rollover failed for project %d: %v\n", project.ID, err)
			continue
		}
		if len(result.RolledTasks) > 0 {
			log.Printf("Rollover project %d: moved %d past-due tasks\n",
				project.ID, len(result.RolledTasks))
		}
	}
}
