package config

import (
	"github.com/pkg/errors"

	"github.com/wardenhq/warden/engine"
	"github.com/wardenhq/warden/storage/model"
)

// policiesConf overrides the built-in policy table per kind. Only
// deployment-specific values (channels, roles, thumbnails) are expected
// here; behavioral fields have sensible built-in values.
type policiesConf map[string]policyOverride

type policyOverride struct {
	EntitlementRole    string `yaml:"entitlement_role"`
	ApproverCapability string `yaml:"approver_capability"`
	IssuerCapability   string `yaml:"issuer_capability"`
	Channel            string `yaml:"channel"`
	Thumbnail          string `yaml:"thumbnail"`
}

func (c policiesConf) validate() error {
	for k := range c {
		if _, err := model.ParsePolicyKind(k); err != nil {
			return errors.Errorf("error in policies conf: %s", err.Error())
		}
	}
	return nil
}

// Policies returns the effective policy table: the built-in defaults with
// the configured overrides applied.
func (c policiesConf) Policies() map[model.PolicyKind]engine.PolicyConfig {
	policies := engine.DefaultPolicies()
	for k, o := range c {
		kind, err := model.ParsePolicyKind(k)
		if err != nil {
			continue
		}
		p := policies[kind]
		if o.EntitlementRole != "" {
			p.EntitlementRole = o.EntitlementRole
		}
		if o.ApproverCapability != "" {
			p.ApproverCapability = o.ApproverCapability
		}
		if o.IssuerCapability != "" {
			p.IssuerCapability = o.IssuerCapability
		}
		if o.Channel != "" {
			p.Channel = o.Channel
		}
		if o.Thumbnail != "" {
			p.Thumbnail = o.Thumbnail
		}
		policies[kind] = p
	}
	return policies
}
