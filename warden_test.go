package warden

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wardenhq/warden/delivery"
	"github.com/wardenhq/warden/engine"
	"github.com/wardenhq/warden/internal/cooldown"
	"github.com/wardenhq/warden/storage"
	"github.com/wardenhq/warden/storage/model"
)

// testNow pins the engine clock so the absolute dates in the request
// bodies stay in the future.
var testNow = time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return testNow }

func newTestWarden(t *testing.T) (*Warden, *delivery.LogNotifier) {
	t.Helper()
	records := storage.NewFileRecordStorage(t.TempDir())
	notifier := delivery.NewLogNotifier()
	directory := delivery.NewStaticDirectory(
		delivery.DirectoryConf{
			Members: map[string][]string{
				"cpt": {"command"},
				"sgt": {"supervisor"},
			},
			Capabilities: map[string][]string{
				engine.CapabilityApprover: {"command"},
				engine.CapabilityIssuer:   {"command", "supervisor"},
				CapabilityDirectMessage:   {"command"},
				CapabilityForceAssistance: {"command"},
			},
		},
	)
	eng := engine.New(records, notifier, directory, &engine.Options{Clock: fixedClock{}})
	w, err := NewWarden(
		Config{
			Server:     ServerConf{Port: 8365},
			Admin:      AdminConf{Disabled: true},
			Assistance: AssistanceConf{Channel: "chan-assist"},
			Membership: MembershipConf{Channel: "chan-members"},
		},
		eng, notifier, directory, cooldown.NewMemoryStore(),
		model.Backends{Records: records}, 0,
	)
	if err != nil {
		t.Fatalf("NewWarden failed: %v", err)
	}
	return w, notifier
}

func doJSON(t *testing.T, w *Warden, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	w.HttpHandlerFunc()(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	w, _ := newTestWarden(t)
	rec := doJSON(t, w, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLOALifecycleOverHTTP(t *testing.T) {
	w, _ := newTestWarden(t)

	rec := doJSON(
		t, w, http.MethodPost, "/loa/request",
		`{"subject":"alice","begin":"04/10/2025","end":"04/20/2025","reason":"vacation"}`,
	)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var record model.TimedStatusRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &record); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if record.Status != model.StatusPending {
		t.Errorf("expected pending record, got %s", record.Status)
	}

	// a duplicate request conflicts
	rec = doJSON(
		t, w, http.MethodPost, "/loa/request",
		`{"subject":"alice","begin":"04/10/2025","end":"04/20/2025","reason":"vacation"}`,
	)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	// deciding without the capability is forbidden
	rec = doJSON(
		t, w, http.MethodPost, "/loa/decide",
		`{"subject":"alice","actor":"sgt","decision":"approve"}`,
	)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(
		t, w, http.MethodPost, "/loa/decide",
		`{"subject":"alice","actor":"cpt","decision":"approve"}`,
	)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, w, http.MethodGet, "/loa/check?subject=alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var report engine.StatusReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("could not decode report: %v", err)
	}
	if !report.Active || report.Status != model.StatusApproved {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestLOARequestValidation(t *testing.T) {
	w, _ := newTestWarden(t)
	rec := doJSON(
		t, w, http.MethodPost, "/loa/request",
		`{"subject":"alice","begin":"soon","end":"04/20/2025"}`,
	)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, w, http.MethodPost, "/loa/request", `{"begin":"04/10/2025","end":"04/20/2025"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing subject, got %d", rec.Code)
	}
}

func TestPolicyEndpoints(t *testing.T) {
	w, _ := newTestWarden(t)

	rec := doJSON(t, w, http.MethodPost, "/policy/ztp", `{"subject":"alice","actor":"sgt","length":"3d"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, w, http.MethodGet, "/policy/ztp/check?subject=alice&actor=sgt", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var report engine.StatusReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("could not decode report: %v", err)
	}
	if !report.Active || report.DaysLeft != 3 {
		t.Errorf("unexpected report: %+v", report)
	}

	rec = doJSON(t, w, http.MethodPost, "/policy/parking", `{"subject":"alice","actor":"sgt","length":"3d"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown kind, got %d", rec.Code)
	}
}

func TestAssistanceCooldown(t *testing.T) {
	w, _ := newTestWarden(t)

	rec := doJSON(t, w, http.MethodPost, "/assistance", `{"subject":"alice","priority":2,"reason":"backup"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, w, http.MethodPost, "/assistance", `{"subject":"alice","priority":2,"reason":"backup"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 while on cooldown, got %d: %s", rec.Code, rec.Body.String())
	}

	// force bypasses the cooldown but needs the capability
	rec = doJSON(t, w, http.MethodPost, "/assistance/force", `{"subject":"alice","priority":3,"reason":"backup"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, w, http.MethodPost, "/assistance/force", `{"subject":"cpt","priority":3,"reason":"backup"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, w, http.MethodPost, "/assistance", `{"subject":"bob","priority":5,"reason":"backup"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad priority, got %d", rec.Code)
	}
}

func TestMembershipEndpoint(t *testing.T) {
	w, _ := newTestWarden(t)

	rec := doJSON(t, w, http.MethodPost, "/membership", `{"subject":"alice","event":"join","member_count":42}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, w, http.MethodPost, "/membership", `{"subject":"alice","event":"lurk"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown event, got %d", rec.Code)
	}
}

func TestDMEndpoint(t *testing.T) {
	w, notifier := newTestWarden(t)

	rec := doJSON(t, w, http.MethodPost, "/dm", `{"subject":"alice","actor":"sgt","body":"hello"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, w, http.MethodPost, "/dm", `{"subject":"alice","actor":"cpt","body":"hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if resp["delivered"] != true {
		t.Errorf("expected delivered=true, got %v", resp)
	}

	// an unreachable recipient is reported, not an error
	notifier.Unreachable = map[string]bool{"alice": true}
	rec = doJSON(t, w, http.MethodPost, "/dm", `{"subject":"alice","actor":"cpt","body":"hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if resp["delivered"] != false {
		t.Errorf("expected delivered=false, got %v", resp)
	}
}
