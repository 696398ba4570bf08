// Package podspec locates the embedded pod specification inside a workload
// manifest. Different workload kinds nest the pod spec at different depths;
// the resolver returns both the spec sub-tree and the logical path leading
// to it so findings can be mapped back to the right source location.
package podspec

import (
	"strings"

	"github.com/kubepolicy/kpb/internal/manifest"
)

// Resolved pairs a pod spec mapping with the logical path from the document
// root to that mapping.
type Resolved struct {
	Spec *manifest.Node
	Path manifest.Path
}

// Resolve determines the workload kind of doc and returns its pod spec.
// ok is false when the kind does not map to a known workload shape or the
// required nesting is absent; that is not an error, the document simply
// yields no findings.
//
// Resolution order (kind compared case-insensitively, first match wins):
//  1. Pod: spec itself is the pod spec.
//  2. Any kind with a mapping at spec.template.spec (Deployment,
//     StatefulSet, DaemonSet, ReplicaSet, Job, ...).
//  3. Job: spec.template.spec (redundant with 2; kept as explicit fallback).
//  4. CronJob: spec.jobTemplate.spec.template.spec.
func Resolve(doc *manifest.Node) (Resolved, bool) {
	kind := strings.ToLower(doc.Get("kind").StrOr(""))
	spec := doc.Map("spec")
	if spec == nil {
		return Resolved{}, false
	}

	if kind == "pod" {
		return Resolved{Spec: spec, Path: manifest.Path{"spec"}}, true
	}

	if tmpl := spec.Map("template").Map("spec"); tmpl != nil {
		return Resolved{
			Spec: tmpl,
			Path: manifest.Path{"spec", "template", "spec"},
		}, true
	}

	if kind == "job" {
		if tmpl := spec.Map("template").Map("spec"); tmpl != nil {
			return Resolved{
				Spec: tmpl,
				Path: manifest.Path{"spec", "template", "spec"},
			}, true
		}
	}

	if kind == "cronjob" {
		if tmpl := spec.Map("jobTemplate").Map("spec").Map("template").Map("spec"); tmpl != nil {
			return Resolved{
				Spec: tmpl,
				Path: manifest.Path{"spec", "jobTemplate", "spec", "template", "spec"},
			}, true
		}
	}

	return Resolved{}, false
}
