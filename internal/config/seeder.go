package config

import (
	"log"

	"loanlink-partners/internal/adapters/persistence/models"
	"loanlink-partners/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds the default back-office administrator.
// In production, rotate the password immediately after first login.
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.Admin{}).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash(getEnv("SEED_ADMIN_PASSWORD", "admin123456"))
	if err != nil {
		return err
	}

	admin := &models.Admin{
		Username: getEnv("SEED_ADMIN_USERNAME", "admin"),
		Email:    getEnv("SEED_ADMIN_EMAIL", "admin@loanlink.com.br"),
		Password: hashedPassword,
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return nil
}
