package adminapi

import (
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/wardenhq/warden/engine"
	"github.com/wardenhq/warden/storage/model"
)

type fakeUsers struct {
	users map[string]string
}

func (f *fakeUsers) Count() (int64, error) { return int64(len(f.users)), nil }
func (f *fakeUsers) List() ([]model.User, error) { return nil, nil }
func (f *fakeUsers) Get(string) (*model.User, error) { return nil, model.NotFoundError("user not found") }
func (f *fakeUsers) Delete(string) error { return model.NotFoundError("user not found") }
func (f *fakeUsers) Create(username, password, displayName string) (*model.User, error) {
	if _, ok := f.users[username]; ok {
		return nil, model.AlreadyExistsError("user already exists")
	}
	f.users[username] = password
	return &model.User{Username: username, DisplayName: displayName}, nil
}
func (f *fakeUsers) Update(string, *string, *string, *bool) (*model.User, error) {
	return nil, model.NotFoundError("user not found")
}
func (f *fakeUsers) Authenticate(username, password string) (*model.User, error) {
	if pw, ok := f.users[username]; ok && pw == password {
		return &model.User{Username: username}, nil
	}
	return nil, model.NotFoundError("invalid credentials")
}

type memRecords struct {
	records map[string]model.TimedStatusRecord
}

func (s *memRecords) Load() error { return nil }
func (s *memRecords) Record(kind model.PolicyKind, subjectID string) (*model.TimedStatusRecord, error) {
	r, ok := s.records[kind.String()+":"+subjectID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}
func (s *memRecords) Write(record model.TimedStatusRecord) error {
	s.records[record.Kind.String()+":"+record.SubjectID] = record
	return nil
}
func (s *memRecords) Delete(kind model.PolicyKind, subjectID string) error {
	delete(s.records, kind.String()+":"+subjectID)
	return nil
}
func (s *memRecords) DeleteBatch(kind model.PolicyKind, subjectIDs []string) error {
	for _, id := range subjectIDs {
		delete(s.records, kind.String()+":"+id)
	}
	return nil
}
func (s *memRecords) List(kind model.PolicyKind) ([]model.TimedStatusRecord, error) {
	var out []model.TimedStatusRecord
	for k, r := range s.records {
		if strings.HasPrefix(k, kind.String()+":") {
			out = append(out, r)
		}
	}
	return out, nil
}

type noopNotifier struct{}

func (noopNotifier) PostMessage(string, engine.Message) (model.MessageRef, error) {
	return model.MessageRef{ChannelID: "c", MessageID: "m"}, nil
}
func (noopNotifier) EditMessage(model.MessageRef, engine.Message) error { return nil }
func (noopNotifier) SendDirect(string, engine.Message) error { return nil }

type noopDirectory struct{}

func (noopDirectory) GrantRole(string, string) error { return nil }
func (noopDirectory) RevokeRole(string, string) error { return nil }
func (noopDirectory) HasCapability(string, string) (bool, error) { return false, nil }
func (noopDirectory) KickMember(string, string) error { return nil }
func (noopDirectory) BanMember(string, string) error { return nil }

func newTestAPI(t *testing.T, users *fakeUsers) (http.HandlerFunc, *memRecords) {
	t.Helper()
	records := &memRecords{records: make(map[string]model.TimedStatusRecord)}
	eng := engine.New(records, noopNotifier{}, noopDirectory{}, &engine.Options{Superuser: "root"})
	app := fiber.New()
	err := Register(app.Group("/api/v1/admin"), eng, model.Backends{Records: records, Users: users})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return adaptor.FiberApp(app), records
}

func do(t *testing.T, h http.HandlerFunc, method, target, body, auth string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(auth)))
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestAdminAPIWithoutUsersStore(t *testing.T) {
	records := &memRecords{records: make(map[string]model.TimedStatusRecord)}
	eng := engine.New(records, noopNotifier{}, noopDirectory{}, nil)
	app := fiber.New()
	if err := Register(app.Group("/api/v1/admin"), eng, model.Backends{Records: records}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	h := adaptor.FiberApp(app)

	rec := do(t, h, http.MethodGet, "/api/v1/admin/records/ztp", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 without a users store, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = do(t, h, http.MethodGet, "/api/v1/admin/users/", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unmounted users API, got %d", rec.Code)
	}
}

func TestAdminAPIOpenWithoutUsers(t *testing.T) {
	h, records := newTestAPI(t, &fakeUsers{users: map[string]string{}})

	now := time.Now().UTC()
	_ = records.Write(model.TimedStatusRecord{
		SubjectID: "alice", Kind: model.KindZeroTolerance, Status: model.StatusActive,
		IssuedAt: now, WindowStart: now, WindowEnd: now.Add(24 * time.Hour),
	})

	rec := do(t, h, http.MethodGet, "/api/v1/admin/records/ztp", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "alice") {
		t.Errorf("expected record listing, got %s", rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/api/v1/admin/records/parking", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown kind, got %d", rec.Code)
	}
}

func TestAdminAPIRequiresAuthWithUsers(t *testing.T) {
	h, _ := newTestAPI(t, &fakeUsers{users: map[string]string{"admin": "hunter2"}})

	rec := do(t, h, http.MethodGet, "/api/v1/admin/records/ztp", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = do(t, h, http.MethodGet, "/api/v1/admin/records/ztp", "", "admin:wrong")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", rec.Code)
	}
	rec = do(t, h, http.MethodGet, "/api/v1/admin/records/ztp", "", "admin:hunter2")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminAPIDecide(t *testing.T) {
	h, records := newTestAPI(t, &fakeUsers{users: map[string]string{}})

	now := time.Now().UTC()
	_ = records.Write(model.TimedStatusRecord{
		SubjectID: "alice", Kind: model.KindLeaveOfAbsence, Status: model.StatusPending,
		IssuedAt: now, WindowStart: now, WindowEnd: now.Add(24 * time.Hour), IssuedBy: "alice",
	})

	rec := do(
		t, h, http.MethodPost, "/api/v1/admin/records/loa/alice/decide",
		`{"actor":"root","decision":"approve"}`, "",
	)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	stored, _ := records.Record(model.KindLeaveOfAbsence, "alice")
	if stored == nil || stored.Status != model.StatusApproved {
		t.Errorf("expected approved record, got %+v", stored)
	}

	rec = do(
		t, h, http.MethodPost, "/api/v1/admin/records/loa/bob/decide",
		`{"actor":"root","decision":"approve"}`, "",
	)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}
