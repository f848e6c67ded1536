package engine

import (
	"github.com/wardenhq/warden/storage/model"
)

// Capability tags checked before transitions.
const (
	CapabilityApprover = "approver"
	CapabilityIssuer   = "issuer"
)

// PolicyConfig parametrizes the engine for one policy kind. The three
// kinds share every transition; what differs is whether creation needs an
// approval step, which role embodies the entitlement and where
// notifications go.
type PolicyConfig struct {
	Kind model.PolicyKind `yaml:"-"`
	// DisplayName is used in notification texts ("Leave of Absence", ...)
	DisplayName string `yaml:"display_name"`
	// SkipPending creates records directly in the Active status; the
	// approve/deny step does not exist for such kinds.
	SkipPending bool `yaml:"skip_pending"`
	// EntitlementRole is granted while the record is active and revoked on
	// expiry; empty means no role is attached.
	EntitlementRole string `yaml:"entitlement_role"`
	// ApproverCapability guards the decide transition.
	ApproverCapability string `yaml:"approver_capability"`
	// IssuerCapability guards creation (and check) for skip-pending kinds.
	IssuerCapability string `yaml:"issuer_capability"`
	// Channel receives the record's notifications.
	Channel string `yaml:"channel"`
	// Thumbnail decorates notifications.
	Thumbnail string `yaml:"thumbnail"`
	// NotifySubjectOnExpiry sends the subject a direct message when the
	// record expires (not only on explicit decisions).
	NotifySubjectOnExpiry bool `yaml:"notify_subject_on_expiry"`
}

// DefaultPolicies returns the built-in policy table. Channels and roles
// are deployment-specific and come from configuration.
func DefaultPolicies() map[model.PolicyKind]PolicyConfig {
	return map[model.PolicyKind]PolicyConfig{
		model.KindLeaveOfAbsence: {
			Kind:               model.KindLeaveOfAbsence,
			DisplayName:        "Leave of Absence",
			ApproverCapability: CapabilityApprover,
		},
		model.KindZeroTolerance: {
			Kind:                  model.KindZeroTolerance,
			DisplayName:           "Zero-Tolerance Policy",
			SkipPending:           true,
			IssuerCapability:      CapabilityIssuer,
			NotifySubjectOnExpiry: true,
		},
		model.KindSuspension: {
			Kind:             model.KindSuspension,
			DisplayName:      "Suspension",
			SkipPending:      true,
			IssuerCapability: CapabilityIssuer,
		},
	}
}
