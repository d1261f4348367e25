package readlog

import (
	"context"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/readpipe/dbopen"
	"github.com/hazyhaar/readpipe/readpipe"
)

func newLog(t *testing.T) *Log {
	t.Helper()
	db := dbopen.OpenMemory(t)
	l, err := Attach(db)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestReadCompletedRecordsEntry(t *testing.T) {
	l := newLog(t)
	ctx := context.Background()

	l.ReadCompleted(ctx, &readpipe.ReadResult{
		URL:         "https://example.com/a",
		ContentType: readpipe.ContentHTML,
	}, 1500*time.Millisecond)

	entries, err := l.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	e := entries[0]
	if e.URL != "https://example.com/a" || e.ContentType != "html" {
		t.Errorf("entry = %+v", e)
	}
	if e.Status != "ok" || e.Error != "" {
		t.Errorf("status = %q, error = %q", e.Status, e.Error)
	}
	if e.DurationMS != 1500 {
		t.Errorf("duration = %d", e.DurationMS)
	}
	if e.ID == "" || e.CreatedAt == "" {
		t.Errorf("missing generated fields: %+v", e)
	}
}

func TestReadCompletedRecordsFailure(t *testing.T) {
	l := newLog(t)
	ctx := context.Background()

	l.ReadCompleted(ctx, &readpipe.ReadResult{
		URL:         "https://example.com/x.pdf",
		ContentType: readpipe.ContentPDF,
		Error:       "PDF read failed: http 404",
	}, 10*time.Millisecond)

	entries, err := l.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Status != "error" {
		t.Fatalf("entries = %+v", entries)
	}
	if entries[0].Error != "PDF read failed: http 404" {
		t.Errorf("error = %q", entries[0].Error)
	}
}

func TestRecentLimit(t *testing.T) {
	l := newLog(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		l.ReadCompleted(ctx, &readpipe.ReadResult{
			URL:         "https://example.com",
			ContentType: readpipe.ContentHTML,
		}, time.Millisecond)
	}

	entries, err := l.Recent(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("entries = %d, want 3", len(entries))
	}
}

func TestSummary(t *testing.T) {
	l := newLog(t)
	ctx := context.Background()

	l.ReadCompleted(ctx, &readpipe.ReadResult{URL: "u1", ContentType: readpipe.ContentHTML}, time.Millisecond)
	l.ReadCompleted(ctx, &readpipe.ReadResult{URL: "u2", ContentType: readpipe.ContentHTML, Error: "HTML read failed: x"}, time.Millisecond)
	l.ReadCompleted(ctx, &readpipe.ReadResult{URL: "u3", ContentType: readpipe.ContentPDF}, time.Millisecond)

	s, err := l.Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if s.Total != 3 || s.OK != 2 || s.Errors != 1 {
		t.Errorf("stats = %+v", s)
	}
}

func TestSummaryEmpty(t *testing.T) {
	l := newLog(t)
	s, err := l.Summary(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if s.Total != 0 || s.OK != 0 || s.Errors != 0 {
		t.Errorf("stats = %+v", s)
	}
}
