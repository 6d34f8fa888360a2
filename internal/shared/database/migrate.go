package database

import (
	"gradehub/internal/grades"
	"gradehub/internal/submissions"
	"gradehub/internal/tasks"
	"gradehub/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&tasks.Task{},
		&submissions.Submission{},
		&grades.Grade{},
	)
}
