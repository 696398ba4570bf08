package rules

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/kubepolicy/kpb/internal/models"
)

// ── PRIVILEGED_CONTAINER ─────────────────────────────────────────────────────

// PrivilegedRule fires when securityContext.privileged is set truthy.
// Privileged containers have full host access.
type PrivilegedRule struct{}

func (r PrivilegedRule) ID() string   { return "PRIVILEGED_CONTAINER" }
func (r PrivilegedRule) Name() string { return "Privileged Container" }

func (r PrivilegedRule) Evaluate(ctx ContainerContext) []models.Finding {
	if !ctx.SecurityContext().Get("privileged").Truthy() {
		return nil
	}
	return []models.Finding{{
		RuleID:   r.ID(),
		Severity: models.SeverityError,
		Message:  fmt.Sprintf("container '%s': securityContext.privileged is true", ctx.Container.Name),
		Path:     ctx.Container.Path.Child("securityContext", "privileged"),
	}}
}

// ── UNPINNED_IMAGE ───────────────────────────────────────────────────────────

// UnpinnedImageRule fires when the container image is tagged :latest or has
// no tag at all. Digest-pinned references ("@") are always exempt. The rule
// is silent when the image field is absent or empty; schema validation is
// out of scope.
type UnpinnedImageRule struct{}

func (r UnpinnedImageRule) ID() string   { return "UNPINNED_IMAGE" }
func (r UnpinnedImageRule) Name() string { return "Unpinned Image Tag" }

func (r UnpinnedImageRule) Evaluate(ctx ContainerContext) []models.Finding {
	image := ctx.Container.Node.Get("image").StrOr("")
	if image == "" || !ImageUsesLatestOrNoTag(image) {
		return nil
	}
	return []models.Finding{{
		RuleID:   r.ID(),
		Severity: models.SeverityError,
		Message:  fmt.Sprintf("container '%s': image '%s' uses 'latest' or has no tag", ctx.Container.Name, image),
		Path:     ctx.Container.Path.Child("image"),
	}}
}

// ── MISSING_RESOURCES ────────────────────────────────────────────────────────

// MissingResourcesRule fires when the container declares neither
// resources.requests nor resources.limits (absent or empty both count).
// The finding points at the resources key when present, otherwise at the
// container entry itself.
type MissingResourcesRule struct{}

func (r MissingResourcesRule) ID() string   { return "MISSING_RESOURCES" }
func (r MissingResourcesRule) Name() string { return "Missing Resource Requests and Limits" }

func (r MissingResourcesRule) Evaluate(ctx ContainerContext) []models.Finding {
	res := ctx.Container.Node.Get("resources")
	if res.Get("requests").Truthy() || res.Get("limits").Truthy() {
		return nil
	}
	path := ctx.Container.Path
	if ctx.Container.Node.Has("resources") {
		path = path.Child("resources")
	}
	return []models.Finding{{
		RuleID:   r.ID(),
		Severity: models.SeverityError,
		Message:  fmt.Sprintf("container '%s': missing both resources.requests and resources.limits", ctx.Container.Name),
		Path:     path,
	}}
}

// ── DANGEROUS_CAPABILITIES ───────────────────────────────────────────────────

// DangerousCapabilitiesRule fires when securityContext.capabilities.add
// contains any of the dangerous capability names after normalization. The
// finding lists the matched names deduplicated and alphabetically sorted.
type DangerousCapabilitiesRule struct{}

func (r DangerousCapabilitiesRule) ID() string   { return "DANGEROUS_CAPABILITIES" }
func (r DangerousCapabilitiesRule) Name() string { return "Dangerous Capabilities Added" }

func (r DangerousCapabilitiesRule) Evaluate(ctx ContainerContext) []models.Finding {
	added := ctx.SecurityContext().Map("capabilities").Get("add")

	matched := sets.New[string]()
	for _, item := range added.Items() {
		raw, ok := item.Str()
		if !ok {
			continue
		}
		if n := NormalizeCapability(raw); dangerousCapabilities.Has(n) {
			matched.Insert(n)
		}
	}
	if matched.Len() == 0 {
		return nil
	}
	return []models.Finding{{
		RuleID:   r.ID(),
		Severity: models.SeverityError,
		Message: fmt.Sprintf(
			"container '%s': capabilities.add includes dangerous caps: %s",
			ctx.Container.Name, strings.Join(sets.List(matched), ", "),
		),
		Path: ctx.Container.Path.Child("securityContext", "capabilities", "add"),
	}}
}

// ── WRITABLE_HOSTPATH_MOUNT ──────────────────────────────────────────────────

// WritableHostPathMountRule fires for each volumeMount whose referenced
// volume is backed by hostPath and whose readOnly is not exactly true.
// The finding path targets the mount's readOnly field; when that key is
// absent the location resolver falls back to the mount entry itself.
type WritableHostPathMountRule struct{}

func (r WritableHostPathMountRule) ID() string   { return "WRITABLE_HOSTPATH_MOUNT" }
func (r WritableHostPathMountRule) Name() string { return "Writable hostPath Volume Mount" }

func (r WritableHostPathMountRule) Evaluate(ctx ContainerContext) []models.Finding {
	var findings []models.Finding
	for i, mount := range ctx.Container.Node.Get("volumeMounts").Items() {
		if !mount.IsMapping() {
			continue
		}
		volName := mount.Get("name").StrOr("")
		if volName == "" || !ctx.Pod.HostPathVolumes.Has(volName) {
			continue
		}
		if mount.Get("readOnly").IsTrue() {
			continue
		}
		findings = append(findings, models.Finding{
			RuleID:   r.ID(),
			Severity: models.SeverityError,
			Message: fmt.Sprintf(
				"container '%s': hostPath volumeMount '%s' should set readOnly: true",
				ctx.Container.Name, volName,
			),
			Path: ctx.Container.Path.Child("volumeMounts").Index(i).Child("readOnly"),
		})
	}
	return findings
}
