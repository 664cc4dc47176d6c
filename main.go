package main

import (
	"log"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"Mason/CronJobs"
	"Mason/FiberConfig"
	"Mason/Models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment defaults")
	}

	Models.Connect()

	rollover := CronJobs.NewNightlyRollover(false)
	if err := rollover.Start(); err != nil {
		log.Printf("Failed to start rollover scheduler: %v\n", err)
	}
	defer rollover.Stop()

	FiberConfig.FiberConfig()
}
