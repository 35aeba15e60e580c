package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"lms/logger"
	"lms/models/course"
)

func TestRunMigrationsCreatesTables(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:migrations?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, RunMigrations(db, logger.Nop()))
	for _, model := range []interface{}{
		&course.ContentCompletion{},
		&course.QuizAttempt{},
		&course.CourseCompletion{},
		&course.Certificate{},
	} {
		assert.True(t, db.Migrator().HasTable(model))
	}
	assert.True(t, db.Migrator().HasIndex(&course.ContentCompletion{}, "idx_content_completion_user_content"))
}
