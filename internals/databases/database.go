package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	commentModel "evalku_backend/internals/features/evaluations/comment/model"
	evaluationModel "evalku_backend/internals/features/evaluations/evaluation/model"
	gradeModel "evalku_backend/internals/features/evaluations/grade/model"
	scaleModel "evalku_backend/internals/features/evaluations/scale/model"
	userModel "evalku_backend/internals/features/users/user/model"
)

var DB *gorm.DB

func ConnectDB() {
	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=evalku&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // PgBouncer transaction pooling
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("[ERROR] DB connect failed: %v", err)
	}
	DB = db
	log.Println("[INFO] DB connected")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("[WARN] pool tune: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate creates/updates the six domain tables.
func Migrate() {
	if err := AutoMigrate(DB); err != nil {
		log.Fatalf("[ERROR] migration failed: %v", err)
	}
	log.Println("[INFO] migrations applied")
}

// AutoMigrate is shared by the server startup and test setups.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel.UserModel{},
		&scaleModel.ScaleModel{},
		&scaleModel.CriteriaModel{},
		&evaluationModel.EvaluationModel{},
		&gradeModel.GradeModel{},
		&commentModel.CommentModel{},
	)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
