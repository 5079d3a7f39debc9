package test

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

// NewMockDB returns a sqlx handle backed by sqlmock. The connection is closed
// when the test finishes.
func NewMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	sqlxDB := sqlx.NewDb(mockDb, "sqlmock")

	t.Cleanup(func() {
		mockDb.Close()
	})

	return sqlxDB, mock
}

// SubscriptionColumns lists the channel_subscriptions columns in select order.
var SubscriptionColumns = []string{"id", "user_id", "channel_id", "channel_title", "channel_thumbnail", "created_at"}
