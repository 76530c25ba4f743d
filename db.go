package main

import (
	"log"
	"os"
	"strings"
	"time"

	"silayan/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// initDB opens the Postgres connection (with a bounded retry so a slow
// database container does not kill the app at boot), runs migrations and
// seeding, and returns the handle. Called exactly once at startup.
func initDB() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= 5; attempt++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}
		log.Printf("postgres connect attempt %d/5 failed: %v", attempt, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}

	// Control schema migrations with env DB_AUTO_MIGRATE (default true).
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}

	// Roles first so the users FK can be applied safely.
	if shouldMigrate {
		if err := db.AutoMigrate(&models.Role{}); err != nil {
			log.Printf("migration warning (roles): %v", err)
		}
	}
	seedRoles(db)

	if shouldMigrate {
		// Migrate models individually so a failure on one doesn't block others
		if err := db.AutoMigrate(&models.User{}); err != nil {
			log.Printf("migration warning (users): %v", err)
		}
		if err := db.AutoMigrate(&models.Submission{}); err != nil {
			log.Printf("migration warning (submissions): %v", err)
		}
		if err := db.AutoMigrate(&models.NotificationLog{}); err != nil {
			log.Printf("migration warning (notification_logs): %v", err)
		}
		if err := db.AutoMigrate(&models.Lampiran{}); err != nil {
			log.Printf("migration warning (lampirans): %v", err)
		}
		if err := db.AutoMigrate(&models.RefreshToken{}); err != nil {
			log.Printf("migration warning (refresh_tokens): %v", err)
		}
		if err := ensureStatusBackfill(db); err != nil {
			log.Printf("warning: status backfill failed: %v", err)
		}
	}

	seedDB(db)
	return db
}

// ensureStatusBackfill repairs rows created before the status column carried a
// default. Idempotent; safe to run on every boot.
func ensureStatusBackfill(db *gorm.DB) error {
	return db.Exec(
		`UPDATE submissions SET status = ? WHERE status IS NULL OR status = ''`,
		models.StatusPengajuanBaru,
	).Error
}

func seedRoles(db *gorm.DB) {
	roles := []models.Role{
		{Name: "administrator", Description: "full access"},
		{Name: "petugas", Description: "service desk officer"},
	}
	for _, r := range roles {
		var cnt int64
		db.Model(&models.Role{}).Where("name = ?", r.Name).Count(&cnt)
		if cnt == 0 {
			db.Create(&r)
		}
	}
}

func seedDB(db *gorm.DB) {
	seedRoles(db)

	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count == 0 {
		var role models.Role
		if err := db.Where("name = ?", "administrator").First(&role).Error; err != nil {
			log.Printf("failed to find administrator role: %v", err)
		}
		rid := role.ID
		admin := models.User{
			Username: "admin",
			RoleID:   &rid,
		}
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		admin.HashedPassword = hashedPassword
		db.Create(&admin)
		log.Println("Seeded admin user: username=admin, password=admin123")
	}
	ensureUploadBase()
}

// ensureUploadBase creates the base directory for lampiran files.
func ensureUploadBase() {
	base := uploadBaseDir()
	if err := os.MkdirAll(base, 0755); err != nil {
		log.Printf("failed to create upload base dir %s: %v", base, err)
	}
}

// uploadBaseDir returns the base directory for stored lampiran files
// (configurable via UPLOAD_BASE env).
func uploadBaseDir() string {
	if v := os.Getenv("UPLOAD_BASE"); v != "" {
		return v
	}
	return "uploads"
}
