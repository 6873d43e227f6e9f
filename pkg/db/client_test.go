package db

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/config"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/logger"
)

type testModel struct {
	ID   int
	Name string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	db := newTestDB(t)
	client := &Client{conn: db}

	ctx := context.Background()
	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testModel{Name: "committed"}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int64
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed after rollback: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 record, got %d", count)
	}
}

func TestPing(t *testing.T) {
	db := newTestDB(t)
	client := &Client{conn: db}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}

func TestDriverNameDefaultsToPostgres(t *testing.T) {
	if got := driverName(config.DBConfig{}); got != DriverPostgres {
		t.Fatalf("expected postgres, got %s", got)
	}
	if got := driverName(config.DBConfig{Driver: " SQLite "}); got != DriverSQLite {
		t.Fatalf("expected sqlite, got %s", got)
	}
}

func TestNewOpensSQLite(t *testing.T) {
	client, err := New(context.Background(), config.DBConfig{Driver: DriverSQLite, DSN: "file::memory:"}, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer client.Close()
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "ux_services_slug"}
	if !IsUniqueViolation(fmt.Errorf("insert: %w", pgErr), "ux_services_slug") {
		t.Fatal("expected pg unique violation to match constraint")
	}
	if IsUniqueViolation(pgErr, "other_constraint") {
		t.Fatal("expected constraint mismatch to be false")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Fatal("foreign key violation is not a unique violation")
	}
	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: services.slug"), "") {
		t.Fatal("expected sqlite unique message to match")
	}
	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: quote_requests.reference"), "ux_quote_requests_reference") {
		t.Fatal("expected sqlite unique message to match any constraint name")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error is never a violation")
	}
}

func TestQueryLoggerReportsFailuresAndSlowQueries(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})

	conn, err := gorm.Open(sqlite.Open("file:querylog?mode=memory&cache=shared"), &gorm.Config{
		Logger: newQueryLogger(logg, time.Nanosecond),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	buf.Reset()

	var row testModel
	if err := conn.First(&row, "name = ?", "missing").Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if strings.Contains(buf.String(), "db.query.failed") {
		t.Fatalf("record not found must not be logged as a failure: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "db.query.slow") {
		t.Fatalf("expected slow query entry with a 1ns threshold: %s", buf.String())
	}

	buf.Reset()
	_ = conn.Exec("SELECT * FROM table_that_does_not_exist").Error
	if !strings.Contains(buf.String(), "db.query.failed") {
		t.Fatalf("expected failed query entry: %s", buf.String())
	}

	buf.Reset()
	silent := conn.Session(&gorm.Session{Logger: conn.Logger.LogMode(gormlogger.Silent)})
	_ = silent.Exec("SELECT * FROM table_that_does_not_exist").Error
	if buf.Len() != 0 {
		t.Fatalf("silent mode must not log: %s", buf.String())
	}
}
