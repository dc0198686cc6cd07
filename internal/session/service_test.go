package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/charfaouimohammed/Atend-X/internal/errs"
	"github.com/charfaouimohammed/Atend-X/internal/models"
	"github.com/charfaouimohammed/Atend-X/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testAdmin = "64a000000000000000000001"

func newTestService() (*Service, *store.Stores) {
	stores := store.NewMemoryStores()
	svc := NewService(stores)
	return svc, stores
}

func enroll(t *testing.T, stores *store.Stores, name, cne string) string {
	t.Helper()
	st := &models.Student{
		Name:         name,
		CNE:          cne,
		Email:        name + "@example.com",
		Phone:        "0600000000",
		Embedding:    []float64{1, 0, 0},
		RegisteredAt: time.Now(),
		CreatedBy:    testAdmin,
	}
	if err := stores.Students.Insert(context.Background(), st); err != nil {
		t.Fatalf("enroll %s: %v", name, err)
	}
	return st.ID.Hex()
}

func TestStartThenCurrent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	started, err := svc.Start(ctx, testAdmin)
	if err != nil {
		t.Fatalf("Start error = %v, want nil", err)
	}
	if started.Status != models.SessionActive {
		t.Errorf("Start status = %s, want %s", started.Status, models.SessionActive)
	}

	current, err := svc.Current(ctx, testAdmin)
	if err != nil {
		t.Fatalf("Current error = %v, want nil", err)
	}
	if current == nil {
		t.Fatal("Current = nil, want the started session")
	}
	if current.ID != started.ID.Hex() {
		t.Errorf("Current id = %s, want %s", current.ID, started.ID.Hex())
	}
	if len(current.PresentStudents) != 0 {
		t.Errorf("new session roster size = %d, want 0", len(current.PresentStudents))
	}
}

func TestCurrent_NoneIsNotError(t *testing.T) {
	svc, _ := newTestService()

	current, err := svc.Current(context.Background(), testAdmin)
	if err != nil {
		t.Fatalf("Current error = %v, want nil", err)
	}
	if current != nil {
		t.Errorf("Current = %+v, want nil", current)
	}
}

func TestStart_SecondActiveConflicts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Start(ctx, testAdmin); err != nil {
		t.Fatalf("first Start error = %v, want nil", err)
	}
	if _, err := svc.Start(ctx, testAdmin); !errors.Is(err, errs.ErrConflict) {
		t.Errorf("second Start error = %v, want ErrConflict", err)
	}

	// a different admin is not blocked
	if _, err := svc.Start(ctx, "64a000000000000000000002"); err != nil {
		t.Errorf("other admin Start error = %v, want nil", err)
	}
}

func TestStart_ConcurrentExclusivity(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	results := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Start(ctx, testAdmin)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, errs.ErrConflict):
		default:
			t.Errorf("unexpected Start error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("%d concurrent Starts succeeded, want exactly 1", succeeded)
	}
}

func TestMarkPresent_Idempotent(t *testing.T) {
	svc, stores := newTestService()
	ctx := context.Background()
	studentID := enroll(t, stores, "amine", "D131234567")

	started, err := svc.Start(ctx, testAdmin)
	if err != nil {
		t.Fatalf("Start error = %v", err)
	}
	sessionID := started.ID.Hex()

	res, err := svc.MarkPresent(ctx, testAdmin, sessionID, studentID)
	if err != nil || res != MarkAdded {
		t.Fatalf("first MarkPresent = (%v, %v), want (MarkAdded, nil)", res, err)
	}

	res, err = svc.MarkPresent(ctx, testAdmin, sessionID, studentID)
	if err != nil {
		t.Fatalf("second MarkPresent error = %v, want nil", err)
	}
	if res != MarkAlreadyPresent {
		t.Errorf("second MarkPresent = %v, want MarkAlreadyPresent", res)
	}

	current, err := svc.Current(ctx, testAdmin)
	if err != nil {
		t.Fatalf("Current error = %v", err)
	}
	if len(current.PresentStudents) != 1 {
		t.Errorf("roster size = %d, want 1", len(current.PresentStudents))
	}
}

func TestMarkPresent_Concurrent(t *testing.T) {
	svc, stores := newTestService()
	ctx := context.Background()
	studentID := enroll(t, stores, "amine", "D131234567")

	started, _ := svc.Start(ctx, testAdmin)
	sessionID := started.ID.Hex()

	const n = 16
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.MarkPresent(ctx, testAdmin, sessionID, studentID); err != nil {
				t.Errorf("concurrent MarkPresent error: %v", err)
			}
		}()
	}
	wg.Wait()

	current, _ := svc.Current(ctx, testAdmin)
	if len(current.PresentStudents) != 1 {
		t.Errorf("roster size after %d concurrent marks = %d, want 1", n, len(current.PresentStudents))
	}
}

func TestMarkPresent_Failures(t *testing.T) {
	svc, stores := newTestService()
	ctx := context.Background()
	studentID := enroll(t, stores, "amine", "D131234567")

	started, _ := svc.Start(ctx, testAdmin)
	sessionID := started.ID.Hex()

	t.Run("unknown student", func(t *testing.T) {
		ghost := primitive.NewObjectID().Hex()
		if _, err := svc.MarkPresent(ctx, testAdmin, sessionID, ghost); !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		ghost := primitive.NewObjectID().Hex()
		if _, err := svc.MarkPresent(ctx, testAdmin, ghost, studentID); !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("not the owner", func(t *testing.T) {
		if _, err := svc.MarkPresent(ctx, "64a000000000000000000002", sessionID, studentID); !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("invalid session id", func(t *testing.T) {
		if _, err := svc.MarkPresent(ctx, testAdmin, "not-an-id", studentID); !errors.Is(err, errs.ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})
}

func TestEnd_FreezesRoster(t *testing.T) {
	svc, stores := newTestService()
	ctx := context.Background()
	studentID := enroll(t, stores, "amine", "D131234567")
	other := enroll(t, stores, "sara", "D137654321")

	started, _ := svc.Start(ctx, testAdmin)
	sessionID := started.ID.Hex()
	if _, err := svc.MarkPresent(ctx, testAdmin, sessionID, studentID); err != nil {
		t.Fatalf("MarkPresent error = %v", err)
	}

	ended, err := svc.End(ctx, testAdmin, sessionID)
	if err != nil {
		t.Fatalf("End error = %v, want nil", err)
	}
	if ended.Status != models.SessionCompleted {
		t.Errorf("ended status = %s, want %s", ended.Status, models.SessionCompleted)
	}
	if ended.EndTime == nil {
		t.Error("ended session has no end time")
	}
	if len(ended.PresentStudents) != 1 || ended.PresentStudents[0].ID != studentID {
		t.Errorf("ended roster = %+v, want just %s", ended.PresentStudents, studentID)
	}
	if ended.PresentStudents[0].Name != "amine" || ended.PresentStudents[0].CNE != "D131234567" {
		t.Errorf("roster entry not resolved: %+v", ended.PresentStudents[0])
	}

	// completed sessions reject further marks
	if _, err := svc.MarkPresent(ctx, testAdmin, sessionID, other); !errors.Is(err, errs.ErrSessionClosed) {
		t.Errorf("MarkPresent after End error = %v, want ErrSessionClosed", err)
	}

	// and a double close fails the same way
	if _, err := svc.End(ctx, testAdmin, sessionID); !errors.Is(err, errs.ErrSessionClosed) {
		t.Errorf("second End error = %v, want ErrSessionClosed", err)
	}
}

func TestEnd_SkipsDanglingMembers(t *testing.T) {
	svc, stores := newTestService()
	ctx := context.Background()
	idA := enroll(t, stores, "amine", "D131234567")
	idB := enroll(t, stores, "sara", "D137654321")

	started, _ := svc.Start(ctx, testAdmin)
	sessionID := started.ID.Hex()
	if _, err := svc.MarkPresent(ctx, testAdmin, sessionID, idA); err != nil {
		t.Fatalf("mark idA: %v", err)
	}
	if _, err := svc.MarkPresent(ctx, testAdmin, sessionID, idB); err != nil {
		t.Fatalf("mark idB: %v", err)
	}

	// idB is deleted before the session ends
	if err := stores.Students.Delete(ctx, idB); err != nil {
		t.Fatalf("delete idB: %v", err)
	}

	ended, err := svc.End(ctx, testAdmin, sessionID)
	if err != nil {
		t.Fatalf("End error = %v, want nil", err)
	}
	if len(ended.PresentStudents) != 1 {
		t.Fatalf("roster size = %d, want 1 (dangling member skipped)", len(ended.PresentStudents))
	}
	if ended.PresentStudents[0].ID != idA {
		t.Errorf("roster = %s, want %s", ended.PresentStudents[0].ID, idA)
	}
}

func TestStats(t *testing.T) {
	svc, stores := newTestService()
	ctx := context.Background()

	ids := []string{
		enroll(t, stores, "amine", "D131234567"),
		enroll(t, stores, "sara", "D137654321"),
		enroll(t, stores, "yassine", "D139999999"),
	}

	// a controllable clock so both sessions land on the same UTC day with
	// distinct start times
	base := time.Date(2024, 5, 14, 9, 0, 0, 0, time.UTC)
	current := base
	svc.now = func() time.Time { return current }

	// first session: two present
	s1, _ := svc.Start(ctx, testAdmin)
	svc.MarkPresent(ctx, testAdmin, s1.ID.Hex(), ids[0])
	svc.MarkPresent(ctx, testAdmin, s1.ID.Hex(), ids[1])
	if _, err := svc.End(ctx, testAdmin, s1.ID.Hex()); err != nil {
		t.Fatalf("end s1: %v", err)
	}

	// second session, one hour later: one present
	current = base.Add(time.Hour)
	s2, _ := svc.Start(ctx, testAdmin)
	svc.MarkPresent(ctx, testAdmin, s2.ID.Hex(), ids[2])
	if _, err := svc.End(ctx, testAdmin, s2.ID.Hex()); err != nil {
		t.Fatalf("end s2: %v", err)
	}

	stats, err := svc.Stats(ctx, testAdmin)
	if err != nil {
		t.Fatalf("Stats error = %v, want nil", err)
	}

	if stats.TotalStudents != 3 {
		t.Errorf("TotalStudents = %d, want 3", stats.TotalStudents)
	}
	if stats.TodayPresent != 3 {
		t.Errorf("TodayPresent = %d, want 3", stats.TodayPresent)
	}
	// denominator is students x sessions, not deduped across sessions
	if stats.TodayTotal != 6 {
		t.Errorf("TodayTotal = %d, want 6", stats.TodayTotal)
	}
	if stats.TodayAbsent != 3 {
		t.Errorf("TodayAbsent = %d, want 3", stats.TodayAbsent)
	}
	if stats.AttendanceRate != 0.5 {
		t.Errorf("AttendanceRate = %f, want 0.5", stats.AttendanceRate)
	}
	if len(stats.RecentSessions) != 2 {
		t.Fatalf("RecentSessions size = %d, want 2", len(stats.RecentSessions))
	}
	// newest first
	if stats.RecentSessions[0].ID != s2.ID.Hex() {
		t.Errorf("most recent = %s, want %s", stats.RecentSessions[0].ID, s2.ID.Hex())
	}
	if stats.RecentSessions[0].PresentCount != 1 || stats.RecentSessions[0].AbsentCount != 2 {
		t.Errorf("recent s2 counts = %d/%d, want 1/2",
			stats.RecentSessions[0].PresentCount, stats.RecentSessions[0].AbsentCount)
	}
}

func TestStats_Empty(t *testing.T) {
	svc, _ := newTestService()

	stats, err := svc.Stats(context.Background(), testAdmin)
	if err != nil {
		t.Fatalf("Stats error = %v, want nil", err)
	}
	if stats.TotalStudents != 0 || stats.TodayPresent != 0 || stats.TodayTotal != 0 ||
		stats.TodayAbsent != 0 || stats.AttendanceRate != 0 {
		t.Errorf("empty stats = %+v, want zeros", stats)
	}
	if len(stats.RecentSessions) != 0 {
		t.Errorf("RecentSessions size = %d, want 0", len(stats.RecentSessions))
	}
}

func TestStats_YesterdayExcluded(t *testing.T) {
	svc, stores := newTestService()
	ctx := context.Background()
	studentID := enroll(t, stores, "amine", "D131234567")

	base := time.Date(2024, 5, 14, 23, 30, 0, 0, time.UTC)
	current := base
	svc.now = func() time.Time { return current }

	s1, _ := svc.Start(ctx, testAdmin)
	svc.MarkPresent(ctx, testAdmin, s1.ID.Hex(), studentID)
	if _, err := svc.End(ctx, testAdmin, s1.ID.Hex()); err != nil {
		t.Fatalf("end s1: %v", err)
	}

	// the clock rolls over to the next UTC day
	current = base.Add(time.Hour)

	stats, err := svc.Stats(ctx, testAdmin)
	if err != nil {
		t.Fatalf("Stats error = %v", err)
	}
	if stats.TodayTotal != 0 || stats.TodayPresent != 0 {
		t.Errorf("yesterday's session leaked into today: %+v", stats)
	}
	// it still shows up in the recent feed
	if len(stats.RecentSessions) != 1 {
		t.Errorf("RecentSessions size = %d, want 1", len(stats.RecentSessions))
	}
}

func TestFind_ForExport(t *testing.T) {
	svc, stores := newTestService()
	ctx := context.Background()
	studentID := enroll(t, stores, "amine", "D131234567")

	started, _ := svc.Start(ctx, testAdmin)
	sessionID := started.ID.Hex()
	svc.MarkPresent(ctx, testAdmin, sessionID, studentID)
	if _, err := svc.End(ctx, testAdmin, sessionID); err != nil {
		t.Fatalf("End error = %v", err)
	}

	view, err := svc.Find(ctx, testAdmin, sessionID)
	if err != nil {
		t.Fatalf("Find error = %v, want nil", err)
	}
	if view.Status != models.SessionCompleted || len(view.PresentStudents) != 1 {
		t.Errorf("Find view = %+v, want completed with 1 member", view)
	}

	if _, err := svc.Find(ctx, "64a000000000000000000002", sessionID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Find as other admin error = %v, want ErrNotFound", err)
	}
}
