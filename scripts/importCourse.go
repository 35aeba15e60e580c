package main

import (
	"context"
	"encoding/json"
	"os"

	"lms/config"
	"lms/database"
	"lms/logger"
	"lms/store"
)

// Imports a course definition, e.g. go run ./scripts course.json
func main() {
	cfg := config.LoadConfig()
	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	path := "course.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("Failed to open course file", "path", path, "error", err)
	}
	var def store.CourseDefinition
	if err := json.Unmarshal(raw, &def); err != nil {
		log.Fatal("Failed to parse course file", "path", path, "error", err)
	}

	db, err := database.ConnectDb(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}

	crs, err := store.New(db, log).ImportCourse(context.Background(), def)
	if err != nil {
		log.Fatal("Import failed", "error", err)
	}
	log.Info("Import completed successfully", "course_id", crs.ID, "title", crs.Title)
}
