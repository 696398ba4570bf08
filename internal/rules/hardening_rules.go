package rules

import (
	"fmt"

	"github.com/kubepolicy/kpb/internal/models"
)

// The hardening rules below are warnings, and all of them require the exact
// boolean true (or the exact RuntimeDefault string): "true", 1 or an absent
// key never satisfy a check.

// ── MISSING_RUN_AS_NON_ROOT ──────────────────────────────────────────────────

// MissingRunAsNonRootRule warns when neither the pod-level nor the
// container-level securityContext sets runAsNonRoot: true.
type MissingRunAsNonRootRule struct{}

func (r MissingRunAsNonRootRule) ID() string   { return "MISSING_RUN_AS_NON_ROOT" }
func (r MissingRunAsNonRootRule) Name() string { return "Missing runAsNonRoot" }

func (r MissingRunAsNonRootRule) Evaluate(ctx ContainerContext) []models.Finding {
	if ctx.Pod.SecurityContext.Get("runAsNonRoot").IsTrue() ||
		ctx.SecurityContext().Get("runAsNonRoot").IsTrue() {
		return nil
	}
	return []models.Finding{{
		RuleID:   r.ID(),
		Severity: models.SeverityWarning,
		Message:  fmt.Sprintf("container '%s': missing runAsNonRoot: true (pod or container securityContext)", ctx.Container.Name),
		Path:     ctx.Container.Path.Child("securityContext", "runAsNonRoot"),
	}}
}

// ── MISSING_READONLY_ROOT_FS ─────────────────────────────────────────────────

// MissingReadOnlyRootFSRule warns when the container-level securityContext
// does not set readOnlyRootFilesystem: true. Unlike runAsNonRoot, a
// pod-level setting does not satisfy this check; the field is effective per
// container only.
type MissingReadOnlyRootFSRule struct{}

func (r MissingReadOnlyRootFSRule) ID() string   { return "MISSING_READONLY_ROOT_FS" }
func (r MissingReadOnlyRootFSRule) Name() string { return "Missing readOnlyRootFilesystem" }

func (r MissingReadOnlyRootFSRule) Evaluate(ctx ContainerContext) []models.Finding {
	if ctx.SecurityContext().Get("readOnlyRootFilesystem").IsTrue() {
		return nil
	}
	return []models.Finding{{
		RuleID:   r.ID(),
		Severity: models.SeverityWarning,
		Message:  fmt.Sprintf("container '%s': missing readOnlyRootFilesystem: true", ctx.Container.Name),
		Path:     ctx.Container.Path.Child("securityContext", "readOnlyRootFilesystem"),
	}}
}

// ── MISSING_SECCOMP_PROFILE ──────────────────────────────────────────────────

// MissingSeccompProfileRule warns when neither the pod-level nor the
// container-level securityContext declares seccompProfile.type: RuntimeDefault.
type MissingSeccompProfileRule struct{}

func (r MissingSeccompProfileRule) ID() string   { return "MISSING_SECCOMP_PROFILE" }
func (r MissingSeccompProfileRule) Name() string { return "Missing Seccomp RuntimeDefault" }

func (r MissingSeccompProfileRule) Evaluate(ctx ContainerContext) []models.Finding {
	if HasRuntimeDefaultSeccomp(ctx.Pod.SecurityContext) ||
		HasRuntimeDefaultSeccomp(ctx.SecurityContext()) {
		return nil
	}
	return []models.Finding{{
		RuleID:   r.ID(),
		Severity: models.SeverityWarning,
		Message:  fmt.Sprintf("container '%s': missing seccompProfile.type: RuntimeDefault (pod or container)", ctx.Container.Name),
		Path:     ctx.Container.Path.Child("securityContext", "seccompProfile"),
	}}
}

// ── MISSING_LIVENESS_PROBE ───────────────────────────────────────────────────

// MissingLivenessProbeRule warns when the container declares no (or an
// empty) livenessProbe.
type MissingLivenessProbeRule struct{}

func (r MissingLivenessProbeRule) ID() string   { return "MISSING_LIVENESS_PROBE" }
func (r MissingLivenessProbeRule) Name() string { return "Missing Liveness Probe" }

func (r MissingLivenessProbeRule) Evaluate(ctx ContainerContext) []models.Finding {
	if ctx.Container.Node.Get("livenessProbe").Truthy() {
		return nil
	}
	return []models.Finding{{
		RuleID:   r.ID(),
		Severity: models.SeverityWarning,
		Message:  fmt.Sprintf("container '%s': missing livenessProbe", ctx.Container.Name),
		Path:     ctx.Container.Path.Child("livenessProbe"),
	}}
}

// ── MISSING_READINESS_PROBE ──────────────────────────────────────────────────

// MissingReadinessProbeRule warns when the container declares no (or an
// empty) readinessProbe.
type MissingReadinessProbeRule struct{}

func (r MissingReadinessProbeRule) ID() string   { return "MISSING_READINESS_PROBE" }
func (r MissingReadinessProbeRule) Name() string { return "Missing Readiness Probe" }

func (r MissingReadinessProbeRule) Evaluate(ctx ContainerContext) []models.Finding {
	if ctx.Container.Node.Get("readinessProbe").Truthy() {
		return nil
	}
	return []models.Finding{{
		RuleID:   r.ID(),
		Severity: models.SeverityWarning,
		Message:  fmt.Sprintf("container '%s': missing readinessProbe", ctx.Container.Name),
		Path:     ctx.Container.Path.Child("readinessProbe"),
	}}
}
