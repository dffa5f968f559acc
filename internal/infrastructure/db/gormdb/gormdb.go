// Package gormdb holds the relational storage layer: connection setup,
// schema migration, and the task/user repositories.
package gormdb

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config captures the settings for opening the SQLite database.
type Config struct {
	Path string
}

// Open connects to the database, enables foreign-key enforcement (off by
// default in SQLite) and migrates the schema. Migration is additive only.
func Open(cfg Config) (*gorm.DB, error) {
	// SQLite enforces foreign keys per connection, so the setting goes in
	// the DSN rather than a one-off PRAGMA. Without it ON DELETE CASCADE
	// is ignored.
	dsn := cfg.Path
	if strings.Contains(dsn, "?") {
		dsn += "&_foreign_keys=on"
	} else {
		dsn += "?_foreign_keys=on"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	if err := db.AutoMigrate(&userRow{}, &taskRow{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return db, nil
}

// userRow is the storage shape of a user. Kept separate from the domain
// struct so the persisted layout is not coupled to the API contract.
type userRow struct {
	ID             string  `gorm:"primaryKey;size:36"`
	Email          string  `gorm:"uniqueIndex;size:255;not null"`
	HashedPassword string  `gorm:"not null"`
	IsActive       bool    `gorm:"not null;default:true"`
	IsSuperuser    bool    `gorm:"not null;default:false"`
	FullName       *string `gorm:"size:255"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (userRow) TableName() string { return "user" }

// taskRow is the storage shape of a task. The owner association declares
// the cascade: deleting a user deletes every task it owns.
type taskRow struct {
	ID          string  `gorm:"primaryKey;size:36"`
	Title       string  `gorm:"size:255;not null"`
	Description *string `gorm:"size:1024"`
	DueDate     *time.Time
	Status      string  `gorm:"size:50;not null"`
	Priority    string  `gorm:"size:50;not null"`
	OwnerID     string  `gorm:"size:36;not null;index"`
	Owner       userRow `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (taskRow) TableName() string { return "task" }
