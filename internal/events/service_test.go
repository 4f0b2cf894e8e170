package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/smoralesdev/labtrack-backend/pkg/db/models"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
	"github.com/smoralesdev/labtrack-backend/pkg/pagination"
)

var testNow = time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.EventLogEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	svc.(*service).now = func() time.Time { return testNow }
	return svc
}

func TestRecordNormalizesSeverity(t *testing.T) {
	conn := testDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	if err := svc.Record(ctx, enums.EventSeverity("loud"), "tech", "created instrument", "instruments", ""); err != nil {
		t.Fatalf("record: %v", err)
	}

	var row models.EventLogEntry
	if err := conn.First(&row).Error; err != nil {
		t.Fatalf("load row: %v", err)
	}
	if row.Severity != enums.EventSeverityInfo {
		t.Fatalf("expected unknown severity downgraded to info got %q", row.Severity)
	}
	if !row.OccurredAt.Equal(testNow) {
		t.Fatalf("expected occurred_at pinned to clock got %v", row.OccurredAt)
	}
}

func TestListFiltersAndPaginates(t *testing.T) {
	conn := testDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	seed := []struct {
		severity   enums.EventSeverity
		collection string
		offset     time.Duration
	}{
		{enums.EventSeverityInfo, "rooms", -3 * time.Hour},
		{enums.EventSeverityWarning, "rooms", -2 * time.Hour},
		{enums.EventSeverityWarning, "rooms", -1 * time.Hour},
		{enums.EventSeverityWarning, "instruments", -1 * time.Hour},
	}
	for _, entry := range seed {
		at := testNow.Add(entry.offset)
		svc.(*service).now = func() time.Time { return at }
		if err := svc.Record(ctx, entry.severity, "tech", "updated", entry.collection, ""); err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}

	rows, meta, err := svc.List(ctx, Filter{
		Severity:   enums.EventSeverityWarning,
		Collection: "rooms",
		Page:       pagination.Params{Page: 1, PageSize: 1},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row per page got %d", len(rows))
	}
	if meta.TotalItems != 2 || meta.TotalPages != 2 {
		t.Fatalf("expected 2 matches over 2 pages got %+v", meta)
	}
	if !rows[0].OccurredAt.Equal(testNow.Add(-1 * time.Hour)) {
		t.Fatalf("expected newest first got %v", rows[0].OccurredAt)
	}
}

func TestListDateRange(t *testing.T) {
	conn := testDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	for _, offset := range []time.Duration{-48 * time.Hour, -24 * time.Hour, -1 * time.Hour} {
		at := testNow.Add(offset)
		svc.(*service).now = func() time.Time { return at }
		if err := svc.Record(ctx, enums.EventSeverityInfo, "tech", "created", "reagents", ""); err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}

	from := testNow.Add(-30 * time.Hour)
	to := testNow.Add(-12 * time.Hour)
	rows, _, err := svc.List(ctx, Filter{From: &from, To: &to, Page: pagination.Params{Page: 1, PageSize: 10}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row inside range got %d", len(rows))
	}
}
