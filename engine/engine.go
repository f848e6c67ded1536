// Package engine implements the timed status record engine: one state
// machine driving leave-of-absence, zero-tolerance and suspension records
// through their lifecycle, parametrized per policy kind.
package engine

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/wardenhq/warden/internal/dateparse"
	"github.com/wardenhq/warden/storage/model"
)

// Decision is the typed approve/deny action an approver takes on a pending
// record.
type Decision int

// Constants for Decision
const (
	DecisionApprove Decision = iota
	DecisionDeny
)

// String returns the canonical string representation for the decision.
func (d Decision) String() string {
	if d == DecisionApprove {
		return "approve"
	}
	return "deny"
}

// ParseDecision converts a string to a Decision, returning an error for
// invalid values.
func ParseDecision(v string) (Decision, error) {
	switch v {
	case "approve":
		return DecisionApprove, nil
	case "deny":
		return DecisionDeny, nil
	}
	return 0, ValidationErrorFmt("invalid decision: %s", v)
}

// StatusReport is the outcome of a read-only check.
type StatusReport struct {
	SubjectID string           `json:"subject_id"`
	Kind      model.PolicyKind `json:"kind"`
	Active    bool             `json:"active"`
	Status    model.Status     `json:"status,omitempty"`
	IssuedAt  time.Time        `json:"issued_at,omitempty"`
	WindowEnd time.Time        `json:"window_end,omitempty"`
	DaysLeft  int              `json:"days_left,omitempty"`
	// PreviouslyExpired is set when the check found a record past its
	// window and expired it inline.
	PreviouslyExpired bool `json:"previously_expired,omitempty"`
}

// Options configures optional collaborators of an Engine.
type Options struct {
	// Events receives an audit event per transition; nil disables the log.
	Events model.EventStore
	// Authz is the discipline authorization registry; nil disables the
	// discipline surface.
	Authz model.AuthzStore
	// Clock defaults to SystemClock.
	Clock Clock
	// Policies defaults to DefaultPolicies().
	Policies map[model.PolicyKind]PolicyConfig
	// Superuser is a subject id that bypasses every capability check.
	Superuser string
	// Discipline configures the discipline action surface.
	Discipline DisciplineConfig
}

// Engine validates and performs record transitions and drives their side
// effects. All transitions are serialized by one mutex so that the full
// read-validate-persist span is atomic with respect to the sweeper.
type Engine struct {
	mu             sync.Mutex
	store          model.RecordStorageBackend
	events         model.EventStore
	authz          model.AuthzStore
	notifier       Notifier
	directory      Directory
	clock          Clock
	policies       map[model.PolicyKind]PolicyConfig
	superuser      string
	disciplineConf DisciplineConfig
}

// New creates a new Engine on top of the passed record store and delivery
// collaborators.
func New(store model.RecordStorageBackend, notifier Notifier, directory Directory, opts *Options) *Engine {
	e := &Engine{
		store:     store,
		notifier:  notifier,
		directory: directory,
		clock:     SystemClock{},
		policies:  DefaultPolicies(),
	}
	if opts != nil {
		if opts.Clock != nil {
			e.clock = opts.Clock
		}
		if opts.Policies != nil {
			e.policies = opts.Policies
		}
		e.events = opts.Events
		e.authz = opts.Authz
		e.superuser = opts.Superuser
		e.disciplineConf = opts.Discipline
	}
	return e
}

// Policy returns the policy configuration for a kind.
func (e *Engine) Policy(kind model.PolicyKind) (PolicyConfig, error) {
	p, ok := e.policies[kind]
	if !ok {
		return PolicyConfig{}, ValidationErrorFmt("no policy configured for kind '%s'", kind)
	}
	return p, nil
}

// authorize checks the actor for a capability; the configured superuser
// passes every check.
func (e *Engine) authorize(actorID, capability string) error {
	if e.superuser != "" && actorID == e.superuser {
		return nil
	}
	ok, err := e.directory.HasCapability(actorID, capability)
	if err != nil {
		log.WithError(err).WithField("actor", actorID).Warn("capability lookup failed")
		return AuthorizationErrorFmt("could not verify capability '%s'", capability)
	}
	if !ok {
		return AuthorizationErrorFmt("missing capability '%s'", capability)
	}
	return nil
}

// bestEffort logs a delivery failure and moves on; the persisted state
// transition is the source of truth, delivery never rolls it back.
func (e *Engine) bestEffort(action string, err error) {
	if err != nil {
		log.WithError(err).WithField("action", action).Warn("delivery failed")
	}
}

func (e *Engine) appendEvent(record model.TimedStatusRecord, eventType, actor string) {
	if e.events == nil {
		return
	}
	status := record.Status.String()
	payload, _ := json.Marshal(record)
	ev := model.AuditEvent{
		SubjectID: record.SubjectID,
		Kind:      record.Kind.String(),
		Type:      eventType,
		Timestamp: e.clock.Now().Unix(),
		Status:    &status,
		Payload:   datatypes.JSON(payload),
	}
	if actor != "" {
		ev.Actor = &actor
	}
	if err := e.events.Append(ev); err != nil {
		log.WithError(err).WithField("type", eventType).Error("could not append audit event")
	}
}

// Request creates a Pending leave-of-absence record for the subject and
// posts the approval notification.
func (e *Engine) Request(subjectID, beginText, endText, reason string) (*model.TimedStatusRecord, error) {
	policy, err := e.Policy(model.KindLeaveOfAbsence)
	if err != nil {
		return nil, err
	}
	begin, err := dateparse.Parse(beginText)
	if err != nil {
		return nil, ValidationErrorFmt("unable to parse begin date '%s'", beginText)
	}
	end, err := dateparse.Parse(endText)
	if err != nil {
		return nil, ValidationErrorFmt("unable to parse end date '%s'", endText)
	}
	if end.Before(begin) {
		return nil, ValidationError("end date cannot be before begin date")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	existing, err := e.store.Record(policy.Kind, subjectID)
	if err != nil {
		return nil, err
	}
	if existing != nil && !existing.Status.Terminal() {
		return nil, ConflictErrorFmt("subject %s already has a %s record", subjectID, policy.DisplayName)
	}

	record := model.TimedStatusRecord{
		SubjectID:   subjectID,
		Kind:        policy.Kind,
		Status:      model.StatusPending,
		IssuedAt:    e.clock.Now(),
		WindowStart: begin,
		WindowEnd:   end,
		Reason:      reason,
		IssuedBy:    subjectID,
	}
	if err = e.store.Write(record); err != nil {
		return nil, err
	}

	ref, err := e.notifier.PostMessage(policy.Channel, requestMessage(policy, record))
	if err != nil {
		e.bestEffort("post request notification", err)
	} else {
		record.Message = ref
		if err = e.store.Write(record); err != nil {
			return nil, err
		}
	}
	e.appendEvent(record, "request", subjectID)
	return &record, nil
}

// Decide approves or denies a pending record. The kind must have an
// approval step and the actor needs the approver capability.
func (e *Engine) Decide(kind model.PolicyKind, subjectID, actorID string, decision Decision) (*model.TimedStatusRecord, error) {
	policy, err := e.Policy(kind)
	if err != nil {
		return nil, err
	}
	if policy.SkipPending {
		return nil, ValidationErrorFmt("%s records have no approval step", policy.DisplayName)
	}
	if err = e.authorize(actorID, policy.ApproverCapability); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	record, err := e.store.Record(kind, subjectID)
	if err != nil {
		return nil, err
	}
	if record == nil || record.Status != model.StatusPending {
		return nil, model.NotFoundErrorFmt("no pending %s record for subject %s", policy.DisplayName, subjectID)
	}

	if decision == DecisionApprove {
		record.Status = model.StatusApproved
	} else {
		record.Status = model.StatusDenied
	}
	record.DecidedBy = actorID
	if err = e.store.Write(*record); err != nil {
		return nil, err
	}

	if record.Message.IsSet() {
		e.bestEffort("update request notification", e.notifier.EditMessage(record.Message, decidedMessage(policy, *record)))
	}
	e.bestEffort("notify subject", e.notifier.SendDirect(record.SubjectID, statusUpdateMessage(policy)))
	e.appendEvent(*record, decision.String(), actorID)
	return record, nil
}

// Extend moves the end of a record's validity window. Only the record's
// own subject (or the superuser) may extend; everything but the window end
// is left untouched and the original notification is edited in place.
func (e *Engine) Extend(kind model.PolicyKind, subjectID, actorID, newEndText string) (*model.TimedStatusRecord, error) {
	policy, err := e.Policy(kind)
	if err != nil {
		return nil, err
	}
	if actorID != subjectID && actorID != e.superuser {
		return nil, AuthorizationError("only the record's own subject may extend it")
	}
	newEnd, err := dateparse.Parse(newEndText)
	if err != nil {
		return nil, ValidationErrorFmt("unable to parse new end date '%s'", newEndText)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	record, err := e.store.Record(kind, subjectID)
	if err != nil {
		return nil, err
	}
	if record == nil || record.Status.Terminal() {
		return nil, model.NotFoundErrorFmt("no active %s record for subject %s", policy.DisplayName, subjectID)
	}
	if newEnd.Before(record.WindowStart) {
		return nil, ValidationError("new end date cannot be before the begin date")
	}

	record.WindowEnd = newEnd
	if err = e.store.Write(*record); err != nil {
		return nil, err
	}

	if record.Message.IsSet() {
		e.bestEffort("update request notification", e.notifier.EditMessage(record.Message, decidedMessage(policy, *record)))
	}
	e.appendEvent(*record, "extend", actorID)
	return record, nil
}

// AddPolicy creates an Active record for a skip-pending kind (ZTP,
// Suspension), grants the entitlement role and posts the notifications.
// lengthSpec is either a free-form day count ("5") or a coded length
// ("1d", "3d", "7d").
func (e *Engine) AddPolicy(kind model.PolicyKind, subjectID, actorID, lengthSpec string) (*model.TimedStatusRecord, error) {
	policy, err := e.Policy(kind)
	if err != nil {
		return nil, err
	}
	if !policy.SkipPending {
		return nil, ValidationErrorFmt("%s records are created via request, not add", policy.DisplayName)
	}
	if err = e.authorize(actorID, policy.IssuerCapability); err != nil {
		return nil, err
	}
	length, err := resolveLength(lengthSpec)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.createActiveLocked(policy, subjectID, actorID, length, "")
}

// createActiveLocked persists an immediately-active record and fires its
// creation effects. An existing non-terminal record is replaced, the new
// window starting over from now; the original notification is edited in
// place and the subject is told about the update instead of a fresh issue.
// Callers hold e.mu and have authorized the actor.
func (e *Engine) createActiveLocked(
	policy PolicyConfig, subjectID, actorID string, length time.Duration, reason string,
) (*model.TimedStatusRecord, error) {
	existing, err := e.store.Record(policy.Kind, subjectID)
	if err != nil {
		return nil, err
	}
	replaced := existing != nil && !existing.Status.Terminal()

	now := e.clock.Now()
	record := model.TimedStatusRecord{
		SubjectID:   subjectID,
		Kind:        policy.Kind,
		Status:      model.StatusActive,
		IssuedAt:    now,
		WindowStart: now,
		WindowEnd:   now.Add(length),
		Reason:      reason,
		IssuedBy:    actorID,
	}
	if replaced {
		record.Message = existing.Message
	}
	if err = e.store.Write(record); err != nil {
		return nil, err
	}

	if policy.EntitlementRole != "" {
		e.bestEffort("grant role", e.directory.GrantRole(subjectID, policy.EntitlementRole))
	}
	if record.Message.IsSet() {
		e.bestEffort("update issue notification", e.notifier.EditMessage(record.Message, issuedMessage(policy, record)))
	} else {
		ref, err := e.notifier.PostMessage(policy.Channel, issuedMessage(policy, record))
		if err != nil {
			e.bestEffort("post issue notification", err)
		} else {
			record.Message = ref
			if err = e.store.Write(record); err != nil {
				return nil, err
			}
		}
	}
	if replaced {
		e.bestEffort("notify subject", e.notifier.SendDirect(subjectID, updatedDirectMessage(policy)))
	} else {
		e.bestEffort("notify subject", e.notifier.SendDirect(subjectID, issuedDirectMessage(policy)))
	}
	e.appendEvent(record, "add", actorID)
	return &record, nil
}

// Check reports the current state of a subject's record. A record found
// past its window is expired inline before responding, so a check never
// reports stale state.
func (e *Engine) Check(kind model.PolicyKind, subjectID, actorID string) (*StatusReport, error) {
	policy, err := e.Policy(kind)
	if err != nil {
		return nil, err
	}
	if actorID != subjectID {
		capability := policy.IssuerCapability
		if capability == "" {
			capability = policy.ApproverCapability
		}
		if err = e.authorize(actorID, capability); err != nil {
			return nil, err
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	record, err := e.store.Record(kind, subjectID)
	if err != nil {
		return nil, err
	}
	report := &StatusReport{SubjectID: subjectID, Kind: kind}
	if record == nil {
		return report, nil
	}

	now := e.clock.Now()
	if record.ExpiredAt(now) || record.Status == model.StatusDenied {
		if err = e.expireLocked(policy, *record); err != nil {
			return nil, err
		}
		report.PreviouslyExpired = true
		return report, nil
	}

	report.Active = true
	report.Status = record.Status
	report.IssuedAt = record.IssuedAt
	report.WindowEnd = record.WindowEnd
	report.DaysLeft = int(record.Remaining(now).Hours() / 24)
	return report, nil
}

// expireLocked fires a record's expiry effects and removes it from the
// store. Callers hold e.mu.
func (e *Engine) expireLocked(policy PolicyConfig, record model.TimedStatusRecord) error {
	e.expireEffects(policy, record)
	if err := e.store.Delete(record.Kind, record.SubjectID); err != nil {
		return err
	}
	if record.Status == model.StatusDenied {
		record.Status = model.StatusCleared
	} else {
		record.Status = model.StatusExpired
	}
	e.appendEvent(record, "expire", "")
	return nil
}

// expireEffects drives the side effects of an expiry: the entitlement role
// is revoked, the notification marked cleared, the subject informed where
// the policy says so.
func (e *Engine) expireEffects(policy PolicyConfig, record model.TimedStatusRecord) {
	if policy.EntitlementRole != "" {
		e.bestEffort("revoke role", e.directory.RevokeRole(record.SubjectID, policy.EntitlementRole))
	}
	if record.Message.IsSet() {
		e.bestEffort("mark notification cleared", e.notifier.EditMessage(record.Message, clearedMessage(policy, record)))
	}
	if policy.NotifySubjectOnExpiry {
		e.bestEffort("notify subject", e.notifier.SendDirect(record.SubjectID, expiredDirectMessage(policy)))
	}
}

// ExpireDue sweeps every policy kind once, expiring records whose window
// has passed or that were denied. Deletions are batched into one flush per
// kind; a failing record is logged and retried on the next sweep.
func (e *Engine) ExpireDue() {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.clock.Now()
	for _, kind := range model.AllPolicyKinds {
		policy, ok := e.policies[kind]
		if !ok {
			continue
		}
		records, err := e.store.List(kind)
		if err != nil {
			log.WithError(err).WithField("kind", kind.String()).Error("sweep: could not list records")
			continue
		}
		var due []string
		for _, record := range records {
			if record.WindowEnd.IsZero() {
				log.WithField("subject", record.SubjectID).WithField("kind", kind.String()).
					Warn("sweep: record has no window end, skipping")
				continue
			}
			if !record.ExpiredAt(now) && record.Status != model.StatusDenied {
				continue
			}
			e.expireEffects(policy, record)
			if record.Status == model.StatusDenied {
				record.Status = model.StatusCleared
			} else {
				record.Status = model.StatusExpired
			}
			e.appendEvent(record, "expire", "")
			due = append(due, record.SubjectID)
		}
		if len(due) == 0 {
			continue
		}
		if err = e.store.DeleteBatch(kind, due); err != nil {
			log.WithError(err).WithField("kind", kind.String()).Error("sweep: could not delete expired records")
		}
	}
}

// resolveLength turns a length spec into a duration: a plain number is a
// day count and must be positive, anything else goes through the coded
// length table.
func resolveLength(spec string) (time.Duration, error) {
	if days, err := strconv.Atoi(spec); err == nil {
		if days <= 0 {
			return 0, ValidationError("length must be a positive number of days")
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	if spec == "" {
		return 0, ValidationError("length must be given")
	}
	return dateparse.CodedDuration(spec), nil
}
