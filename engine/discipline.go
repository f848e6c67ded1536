package engine

import (
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/wardenhq/warden/storage/model"
)

// DisciplineAction names one of the formal discipline actions.
type DisciplineAction string

// Constants for DisciplineAction
const (
	ActionWrittenWarning DisciplineAction = "written_warning"
	ActionSuspension     DisciplineAction = "suspension"
	ActionDemotion       DisciplineAction = "demotion"
	ActionTermination    DisciplineAction = "termination"
	ActionBlacklist      DisciplineAction = "blacklist"
)

// disciplineLevels maps each action to the minimum access level an actor
// needs in the authorization registry to issue it.
var disciplineLevels = map[DisciplineAction]int{
	ActionWrittenWarning: 1,
	ActionSuspension:     2,
	ActionDemotion:       3,
	ActionTermination:    4,
	ActionBlacklist:      4,
}

// DisciplineConfig configures the discipline surface of an Engine.
type DisciplineConfig struct {
	Channel   string `yaml:"channel"`
	Thumbnail string `yaml:"thumbnail"`
	// RankRoles maps rank names to the role a demoted subject is moved
	// to; a demotion revokes every other mapped role. Leave empty to
	// only log the new rank.
	RankRoles map[string]string `yaml:"rank_roles"`
}

// DisciplineRequest describes a discipline action to take against a
// subject.
type DisciplineRequest struct {
	SubjectID string           `json:"subject_id"`
	ActorID   string           `json:"actor_id"`
	Action    DisciplineAction `json:"action"`
	Reason    string           `json:"reason"`
	Evidence  string           `json:"evidence,omitempty"`
	// Length is the suspension length spec, required for suspensions.
	Length string `json:"length,omitempty"`
	// NewRank is the rank a demotion moves the subject to.
	NewRank string `json:"new_rank,omitempty"`
}

func (r DisciplineRequest) validate() error {
	if _, ok := disciplineLevels[r.Action]; !ok {
		return ValidationErrorFmt("unknown discipline action '%s'", r.Action)
	}
	if r.SubjectID == "" || r.ActorID == "" {
		return ValidationError("subject and actor must be given")
	}
	if r.Reason == "" {
		return ValidationError("a reason must be given")
	}
	if r.Action == ActionSuspension && r.Length == "" {
		return ValidationError("a suspension needs a length")
	}
	if r.Action == ActionDemotion && r.NewRank == "" {
		return ValidationError("a demotion needs the new rank")
	}
	return nil
}

// Discipline issues a discipline action. The actor's access level from
// the authorization registry must cover the action; the superuser
// bypasses the registry. Suspensions additionally create a timed record
// that lifts automatically.
func (e *Engine) Discipline(req DisciplineRequest) error {
	if err := req.validate(); err != nil {
		return err
	}
	if e.authz == nil {
		return ValidationError("discipline actions are not enabled")
	}
	if e.superuser == "" || req.ActorID != e.superuser {
		level, err := e.authz.Level(req.ActorID)
		if err != nil {
			return err
		}
		if level == 0 {
			return AuthorizationError("you are not authorized to issue discipline actions")
		}
		if level < disciplineLevels[req.Action] {
			return AuthorizationErrorFmt("access level %d is not sufficient for '%s'", level, req.Action)
		}
	}

	if req.Action == ActionDemotion && len(e.disciplineConf.RankRoles) > 0 {
		if _, ok := e.disciplineConf.RankRoles[req.NewRank]; !ok {
			return ValidationErrorFmt("unknown rank '%s'", req.NewRank)
		}
	}

	if req.Action == ActionSuspension {
		policy, err := e.Policy(model.KindSuspension)
		if err != nil {
			return err
		}
		length, err := resolveLength(req.Length)
		if err != nil {
			return err
		}
		e.mu.Lock()
		_, err = e.createActiveLocked(policy, req.SubjectID, req.ActorID, length, req.Reason)
		e.mu.Unlock()
		if err != nil {
			return err
		}
	}

	switch req.Action {
	case ActionDemotion:
		for rank, roleID := range e.disciplineConf.RankRoles {
			if rank == req.NewRank {
				e.bestEffort("grant rank role", e.directory.GrantRole(req.SubjectID, roleID))
			} else {
				e.bestEffort("revoke rank role", e.directory.RevokeRole(req.SubjectID, roleID))
			}
		}
	case ActionTermination:
		e.bestEffort("kick member", e.directory.KickMember(req.SubjectID, req.Reason))
	case ActionBlacklist:
		e.bestEffort("ban member", e.directory.BanMember(req.SubjectID, req.Reason))
	}

	e.bestEffort("notify subject", e.notifier.SendDirect(req.SubjectID, disciplineDirectMessage(req)))
	if e.disciplineConf.Channel != "" {
		_, err := e.notifier.PostMessage(e.disciplineConf.Channel, disciplineLogMessage(e.disciplineConf, req))
		e.bestEffort("post discipline log", err)
	}
	e.appendDisciplineEvent(req)
	return nil
}

func (e *Engine) appendDisciplineEvent(req DisciplineRequest) {
	if e.events == nil {
		return
	}
	payload, _ := json.Marshal(req)
	ev := model.AuditEvent{
		SubjectID: req.SubjectID,
		Kind:      "discipline",
		Type:      string(req.Action),
		Timestamp: e.clock.Now().Unix(),
		Actor:     &req.ActorID,
		Payload:   datatypes.JSON(payload),
	}
	if err := e.events.Append(ev); err != nil {
		log.WithError(err).Error("could not append discipline event")
	}
}

func disciplineDirectMessage(req DisciplineRequest) Message {
	return Message{
		Title:       "Disciplinary Action",
		Description: fmt.Sprintf("A disciplinary action (%s) has been issued against you.\nReason: %s", req.Action, req.Reason),
		Color:       DefaultColor,
	}
}

func disciplineLogMessage(conf DisciplineConfig, req DisciplineRequest) Message {
	desc := fmt.Sprintf(
		"Officer: <@%s>\nIssued by: <@%s>\nAction: %s\nReason: %s",
		req.SubjectID, req.ActorID, req.Action, req.Reason,
	)
	if req.Evidence != "" {
		desc += "\nEvidence: " + req.Evidence
	}
	if req.NewRank != "" {
		desc += "\nNew rank: " + req.NewRank
	}
	return Message{
		Title:       "Disciplinary Action",
		Description: desc,
		Color:       DefaultColor,
		Thumbnail:   conf.Thumbnail,
	}
}
