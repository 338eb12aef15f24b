package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		username TEXT UNIQUE NOT NULL,
		email TEXT,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'lender',
		phone TEXT,
		dob TEXT,
		address TEXT,
		profile_picture TEXT,
		status TEXT NOT NULL DEFAULT 'Active',
		card_number TEXT,
		card_name TEXT,
		valid_til TEXT,
		cvv TEXT,
		atm_pin TEXT,
		credit_score INTEGER DEFAULT 0,
		total_borrowed REAL DEFAULT 0,
		active_loans INTEGER DEFAULT 0,
		last_payment DATETIME,
		referrer TEXT,
		active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createCardDetailTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE card_details (
		id TEXT PRIMARY KEY,
		user_id TEXT UNIQUE NOT NULL,
		encrypted_cvv TEXT,
		encrypted_atm_pin TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createActivityLogTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE activity_logs (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		description TEXT,
		user_id TEXT NOT NULL,
		related_user_id TEXT,
		type TEXT NOT NULL DEFAULT 'system',
		metadata TEXT DEFAULT '{}',
		timestamp DATETIME
	);`)
}
