package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/taskflow/taskflow/internal/permission"
	permissionPostgres "github.com/taskflow/taskflow/internal/permission/postgres"
	"github.com/taskflow/taskflow/pkg/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the bootstrap admin and sample users",
	Long:  `Seed the database with the bootstrap admin account, default role permissions, and sample users for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		// Bootstrap admin: only one admin account may exist, so the seed
		// checks for any admin row, not just this email.
		var adminCount int64
		if err := db.Raw("SELECT count(*) FROM users WHERE role = 'admin'").Scan(&adminCount).Error; err != nil {
			log.Fatalf("failed to count admins: %v", err)
		}

		if adminCount == 0 {
			if err := db.Exec(
				"INSERT INTO users (email, name, password_hash, role, is_active, created_at, updated_at) VALUES (?, ?, ?, 'admin', true, now(), now())",
				"admin@taskflow.com", "Administrator", string(hash)).Error; err != nil {
				log.Fatalf("failed to insert admin user: %v", err)
			}
			fmt.Println("Seeded admin user: admin@taskflow.com")
		} else {
			fmt.Println("admin user already exists; skipping")
		}

		sampleUsers := []struct {
			Email string
			Name  string
			Role  string
		}{
			{"manager@taskflow.com", "Sample Manager", "manager"},
			{"employee@taskflow.com", "Sample Employee", "employee"},
		}

		for _, u := range sampleUsers {
			var exists int
			row := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Printf("user %s already exists; skipping\n", u.Email)
				continue
			}

			if err := db.Exec(
				"INSERT INTO users (email, name, password_hash, role, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, true, now(), now())",
				u.Email, u.Name, string(hash), u.Role).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Printf("Seeded user: %s (%s)\n", u.Email, u.Role)
		}

		permissionService := permission.NewService(permissionPostgres.NewPermissionRepository(db), nil, logger.L())
		if err := permissionService.EnsureDefaults(); err != nil {
			log.Fatalf("failed to seed role permissions: %v", err)
		}
		fmt.Println("Role permissions seeded with defaults")
	},
}
