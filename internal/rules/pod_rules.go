package rules

import (
	"fmt"

	"github.com/kubepolicy/kpb/internal/models"
)

// ── HOST_NAMESPACE ───────────────────────────────────────────────────────────

// hostNamespaceFlags are checked in a fixed order so findings are emitted
// deterministically.
var hostNamespaceFlags = []string{"hostNetwork", "hostPID", "hostIPC"}

// HostNamespaceRule fires one error per enabled host namespace flag.
// Sharing the host's network, PID or IPC namespace collapses the isolation
// boundary between the pod and the node.
type HostNamespaceRule struct{}

func (r HostNamespaceRule) ID() string   { return "HOST_NAMESPACE" }
func (r HostNamespaceRule) Name() string { return "Host Namespace Sharing" }

func (r HostNamespaceRule) Evaluate(ctx PodContext) []models.Finding {
	var findings []models.Finding
	for _, flag := range hostNamespaceFlags {
		if !ctx.Spec.Get(flag).Truthy() {
			continue
		}
		findings = append(findings, models.Finding{
			RuleID:   r.ID(),
			Severity: models.SeverityError,
			Message:  fmt.Sprintf("%s is true", flag),
			Path:     ctx.Path.Child(flag),
		})
	}
	return findings
}
