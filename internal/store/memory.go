package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/charfaouimohammed/Atend-X/internal/errs"
	"github.com/charfaouimohammed/Atend-X/internal/models"
)

// NewMemoryStores returns a storage context backed by in-process maps with
// the same atomic semantics as the mongo implementation (each operation
// holds the store mutex, so check-and-set is indivisible). Used by tests and
// handy for local runs without a database.
func NewMemoryStores() *Stores {
	return &Stores{
		Students: &memoryStudentStore{students: map[string]models.Student{}},
		Admins:   &memoryAdminStore{admins: map[string]models.Admin{}},
		Sessions: &memorySessionStore{sessions: map[string]models.AttendanceSession{}},
		Audit:    &memoryAuditStore{},
	}
}

// ---------- students ----------

type memoryStudentStore struct {
	mu       sync.Mutex
	students map[string]models.Student
	order    []string
}

func (s *memoryStudentStore) Insert(_ context.Context, st *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.students {
		if existing.CNE == st.CNE {
			return errs.Conflictf("student with cne %s already exists", st.CNE)
		}
	}
	if st.ID.IsZero() {
		st.ID = primitive.NewObjectID()
	}
	id := st.ID.Hex()
	s.students[id] = *st
	s.order = append(s.order, id)
	return nil
}

func (s *memoryStudentStore) FindByID(_ context.Context, id string) (*models.Student, error) {
	if _, err := parseOID(id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.students[id]
	if !ok {
		return nil, errs.NotFoundf("student %s", id)
	}
	return &st, nil
}

func (s *memoryStudentStore) List(_ context.Context) ([]models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	students := make([]models.Student, 0, len(s.students))
	for _, id := range s.order {
		if st, ok := s.students[id]; ok {
			students = append(students, st)
		}
	}
	return students, nil
}

func (s *memoryStudentStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.students)), nil
}

func (s *memoryStudentStore) Delete(_ context.Context, id string) error {
	if _, err := parseOID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[id]; !ok {
		return errs.NotFoundf("student %s", id)
	}
	delete(s.students, id)
	return nil
}

// ---------- admins ----------

type memoryAdminStore struct {
	mu     sync.Mutex
	admins map[string]models.Admin
}

func (s *memoryAdminStore) Insert(_ context.Context, a *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.admins {
		if existing.Email == a.Email {
			return errs.Conflictf("email already registered")
		}
	}
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	s.admins[a.ID.Hex()] = *a
	return nil
}

func (s *memoryAdminStore) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.admins {
		if a.Email == email {
			admin := a
			return &admin, nil
		}
	}
	return nil, errs.NotFoundf("admin %s", email)
}

func (s *memoryAdminStore) FindByID(_ context.Context, id string) (*models.Admin, error) {
	if _, err := parseOID(id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.admins[id]
	if !ok {
		return nil, errs.NotFoundf("admin %s", id)
	}
	return &a, nil
}

// ---------- sessions ----------

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.AttendanceSession
}

func (s *memorySessionStore) InsertActive(_ context.Context, adminID string, start time.Time) (*models.AttendanceSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.sessions {
		if existing.AdminID == adminID && existing.Status == models.SessionActive {
			return nil, errs.Conflictf("you already have an active session")
		}
	}

	session := models.AttendanceSession{
		ID:              primitive.NewObjectID(),
		AdminID:         adminID,
		StartTime:       start,
		Status:          models.SessionActive,
		PresentStudents: []string{},
	}
	s.sessions[session.ID.Hex()] = session
	out := session
	return &out, nil
}

func (s *memorySessionStore) FindForAdmin(_ context.Context, id, adminID string) (*models.AttendanceSession, error) {
	if _, err := parseOID(id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findForAdminLocked(id, adminID)
}

func (s *memorySessionStore) findForAdminLocked(id, adminID string) (*models.AttendanceSession, error) {
	session, ok := s.sessions[id]
	if !ok || session.AdminID != adminID {
		return nil, errs.NotFoundf("session not found or not authorized")
	}
	out := session
	out.PresentStudents = append([]string(nil), session.PresentStudents...)
	return &out, nil
}

func (s *memorySessionStore) FindActive(_ context.Context, adminID string) (*models.AttendanceSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, session := range s.sessions {
		if session.AdminID == adminID && session.Status == models.SessionActive {
			out := session
			out.PresentStudents = append([]string(nil), session.PresentStudents...)
			return &out, nil
		}
	}
	return nil, errs.NotFoundf("no active session")
}

func (s *memorySessionStore) AddPresent(_ context.Context, id, adminID, studentID string) (bool, error) {
	if _, err := parseOID(id); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok || session.AdminID != adminID {
		return false, errs.NotFoundf("session not found or not authorized")
	}
	if session.Status != models.SessionActive {
		return false, errs.ErrSessionClosed
	}
	for _, present := range session.PresentStudents {
		if present == studentID {
			return false, nil
		}
	}
	session.PresentStudents = append(session.PresentStudents, studentID)
	s.sessions[id] = session
	return true, nil
}

func (s *memorySessionStore) Complete(_ context.Context, id, adminID string, end time.Time) (*models.AttendanceSession, error) {
	if _, err := parseOID(id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok || session.AdminID != adminID {
		return nil, errs.NotFoundf("session not found or not authorized")
	}
	if session.Status != models.SessionActive {
		return nil, errs.ErrSessionClosed
	}

	session.Status = models.SessionCompleted
	endCopy := end
	session.EndTime = &endCopy
	s.sessions[id] = session

	out := session
	out.PresentStudents = append([]string(nil), session.PresentStudents...)
	return &out, nil
}

func (s *memorySessionStore) CompletedBetween(_ context.Context, adminID string, from, to time.Time) ([]models.AttendanceSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sessions []models.AttendanceSession
	for _, session := range s.sessions {
		if session.AdminID != adminID || session.Status != models.SessionCompleted {
			continue
		}
		if session.StartTime.Before(from) || !session.StartTime.Before(to) {
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (s *memorySessionStore) RecentCompleted(_ context.Context, adminID string, limit int) ([]models.AttendanceSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sessions []models.AttendanceSession
	for _, session := range s.sessions {
		if session.AdminID == adminID && session.Status == models.SessionCompleted {
			sessions = append(sessions, session)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartTime.After(sessions[j].StartTime)
	})
	if len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

// ---------- audit ----------

type memoryAuditStore struct {
	mu   sync.Mutex
	logs []models.AuditLog
}

func (s *memoryAuditStore) Insert(_ context.Context, l *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	s.logs = append(s.logs, *l)
	return nil
}
