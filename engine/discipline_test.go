package engine

import (
	"testing"

	"github.com/wardenhq/warden/storage/model"
)

type fakeAuthz struct {
	levels map[string]int
}

func (a *fakeAuthz) Set(entry model.AuthorizationEntry) error { return nil }
func (a *fakeAuthz) Level(subjectID string) (int, error)      { return a.levels[subjectID], nil }
func (a *fakeAuthz) List() ([]model.AuthorizationEntry, error) {
	return nil, nil
}
func (a *fakeAuthz) Delete(subjectID string) error { return nil }

func newDisciplineEnv(levels map[string]int) *testEnv {
	env := newTestEnv()
	env.engine.authz = &fakeAuthz{levels: levels}
	env.engine.disciplineConf = DisciplineConfig{Channel: "chan-discipline"}
	return env
}

func TestDisciplineRequiresLevel(t *testing.T) {
	env := newDisciplineEnv(map[string]int{"sgt": 1})

	err := env.engine.Discipline(DisciplineRequest{
		SubjectID: "alice", ActorID: "nobody", Action: ActionWrittenWarning, Reason: "conduct",
	})
	if _, ok := err.(AuthorizationError); !ok {
		t.Fatalf("expected AuthorizationError for unregistered actor, got %v", err)
	}

	err = env.engine.Discipline(DisciplineRequest{
		SubjectID: "alice", ActorID: "sgt", Action: ActionTermination, Reason: "conduct",
	})
	if _, ok := err.(AuthorizationError); !ok {
		t.Fatalf("expected AuthorizationError for insufficient level, got %v", err)
	}

	err = env.engine.Discipline(DisciplineRequest{
		SubjectID: "alice", ActorID: "sgt", Action: ActionWrittenWarning, Reason: "conduct",
	})
	if err != nil {
		t.Fatalf("written warning failed: %v", err)
	}
	if len(env.notifier.directs["alice"]) != 1 {
		t.Error("expected the subject to be informed")
	}
	if len(env.notifier.posted) != 1 || env.notifier.posted[0].channel != "chan-discipline" {
		t.Errorf("expected a log post in the discipline channel, got %+v", env.notifier.posted)
	}
}

func TestDisciplineValidation(t *testing.T) {
	env := newDisciplineEnv(map[string]int{"cpt": 4})

	err := env.engine.Discipline(DisciplineRequest{
		SubjectID: "alice", ActorID: "cpt", Action: "timeout", Reason: "conduct",
	})
	if _, ok := err.(ValidationError); !ok {
		t.Fatalf("expected ValidationError for unknown action, got %v", err)
	}
	err = env.engine.Discipline(DisciplineRequest{
		SubjectID: "alice", ActorID: "cpt", Action: ActionSuspension, Reason: "conduct",
	})
	if _, ok := err.(ValidationError); !ok {
		t.Fatalf("expected ValidationError for suspension without length, got %v", err)
	}
	err = env.engine.Discipline(DisciplineRequest{
		SubjectID: "alice", ActorID: "cpt", Action: ActionWrittenWarning,
	})
	if _, ok := err.(ValidationError); !ok {
		t.Fatalf("expected ValidationError for missing reason, got %v", err)
	}
}

func TestDisciplineSuspensionCreatesRecord(t *testing.T) {
	env := newDisciplineEnv(map[string]int{"cpt": 2})

	err := env.engine.Discipline(DisciplineRequest{
		SubjectID: "alice", ActorID: "cpt", Action: ActionSuspension, Reason: "conduct", Length: "3d",
	})
	if err != nil {
		t.Fatalf("suspension failed: %v", err)
	}
	stored, _ := env.store.Record(model.KindSuspension, "alice")
	if stored == nil || stored.Status != model.StatusActive {
		t.Fatalf("expected an active suspension record, got %+v", stored)
	}
	if stored.IssuedBy != "cpt" || stored.Reason != "conduct" {
		t.Errorf("unexpected record fields: %+v", stored)
	}
	if !env.directory.roles["alice"]["role-suspension"] {
		t.Error("expected suspension role to be granted")
	}
}

func TestDisciplineDemotionRemapsRankRoles(t *testing.T) {
	env := newDisciplineEnv(map[string]int{"cpt": 3})
	env.engine.disciplineConf.RankRoles = map[string]string{
		"sergeant": "role-sergeant",
		"corporal": "role-corporal",
		"officer":  "role-officer",
	}
	_ = env.directory.GrantRole("alice", "role-sergeant")

	err := env.engine.Discipline(DisciplineRequest{
		SubjectID: "alice", ActorID: "cpt", Action: ActionDemotion, Reason: "conduct", NewRank: "corporal",
	})
	if err != nil {
		t.Fatalf("demotion failed: %v", err)
	}
	if !env.directory.roles["alice"]["role-corporal"] {
		t.Error("expected the new rank role to be granted")
	}
	if env.directory.roles["alice"]["role-sergeant"] {
		t.Error("expected the old rank role to be revoked")
	}

	err = env.engine.Discipline(DisciplineRequest{
		SubjectID: "alice", ActorID: "cpt", Action: ActionDemotion, Reason: "conduct", NewRank: "general",
	})
	if _, ok := err.(ValidationError); !ok {
		t.Fatalf("expected ValidationError for unmapped rank, got %v", err)
	}
}

func TestDisciplineTerminationAndBlacklist(t *testing.T) {
	env := newDisciplineEnv(map[string]int{"chief": 4})

	err := env.engine.Discipline(DisciplineRequest{
		SubjectID: "alice", ActorID: "chief", Action: ActionTermination, Reason: "conduct",
	})
	if err != nil {
		t.Fatalf("termination failed: %v", err)
	}
	if len(env.directory.kicked) != 1 || env.directory.kicked[0] != "alice" {
		t.Errorf("expected alice to be kicked, got %v", env.directory.kicked)
	}

	err = env.engine.Discipline(DisciplineRequest{
		SubjectID: "bob", ActorID: "chief", Action: ActionBlacklist, Reason: "conduct",
	})
	if err != nil {
		t.Fatalf("blacklist failed: %v", err)
	}
	if len(env.directory.banned) != 1 || env.directory.banned[0] != "bob" {
		t.Errorf("expected bob to be banned, got %v", env.directory.banned)
	}
}

func TestDisciplineSuperuserBypassesRegistry(t *testing.T) {
	env := newDisciplineEnv(map[string]int{})
	err := env.engine.Discipline(DisciplineRequest{
		SubjectID: "alice", ActorID: "root", Action: ActionBlacklist, Reason: "conduct",
	})
	if err != nil {
		t.Fatalf("superuser discipline failed: %v", err)
	}
}
