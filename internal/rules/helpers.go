package rules

import (
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/kubepolicy/kpb/internal/manifest"
)

// dangerousCapabilities are Linux capabilities that effectively grant host
// or cross-container access when added to a container.
var dangerousCapabilities = sets.New(
	"SYS_ADMIN",
	"NET_ADMIN",
	"SYS_PTRACE",
	"DAC_READ_SEARCH",
)

// NormalizeCapability canonicalises a capability name: trims surrounding
// whitespace, upper-cases, and strips leading CAP_ prefixes. The result is
// stable under repeated application.
func NormalizeCapability(cap string) string {
	c := strings.ToUpper(strings.TrimSpace(cap))
	for strings.HasPrefix(c, "CAP_") {
		c = strings.TrimPrefix(c, "CAP_")
	}
	return c
}

// ImageUsesLatestOrNoTag reports whether an image reference is unpinned:
// tagged :latest or carrying no tag at all. References containing "@" are
// digest-pinned and always exempt, regardless of any tag-like suffix. The
// tag is the substring after the last ":" in the final "/"-delimited path
// segment, so registry ports (registry:5000/app) are not mistaken for tags.
func ImageUsesLatestOrNoTag(image string) bool {
	if strings.Contains(image, "@") {
		return false
	}
	last := image
	if i := strings.LastIndex(image, "/"); i >= 0 {
		last = image[i+1:]
	}
	colon := strings.LastIndex(last, ":")
	if colon < 0 {
		return true
	}
	return last[colon+1:] == "latest"
}

// HasRuntimeDefaultSeccomp reports whether the given securityContext mapping
// declares seccompProfile.type: RuntimeDefault. Callable with either the
// pod-level or the container-level securityContext, including nil.
func HasRuntimeDefaultSeccomp(sc *manifest.Node) bool {
	return sc.Map("seccompProfile").Get("type").StrOr("") == "RuntimeDefault"
}
