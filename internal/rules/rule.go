// Package rules implements the fixed policy rule set evaluated against a
// resolved pod specification. Rules never touch the filesystem or the
// network: they see only the untyped spec tree and emit findings carrying
// logical paths. Source locations are attached later by the scan pipeline.
package rules

import (
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/kubepolicy/kpb/internal/manifest"
	"github.com/kubepolicy/kpb/internal/models"
)

// containerArrays are the pod spec keys that hold container lists, in the
// order they are enumerated. The order is part of the output contract.
var containerArrays = []string{"containers", "initContainers", "ephemeralContainers"}

// PodContext carries everything a pod-level rule may inspect.
// Rules must be stateless and must not mutate the context.
type PodContext struct {
	// Spec is the resolved pod spec mapping.
	Spec *manifest.Node

	// Path is the logical path from the document root to Spec, e.g.
	// ["spec","jobTemplate","spec","template","spec"] for a CronJob.
	Path manifest.Path

	// SecurityContext is the pod-level securityContext mapping; nil when
	// absent or not a mapping.
	SecurityContext *manifest.Node

	// HostPathVolumes holds the names of volumes in the pod spec backed by
	// a hostPath entry.
	HostPathVolumes sets.Set[string]
}

// Container identifies one container within the pod spec.
type Container struct {
	// Node is the container mapping.
	Node *manifest.Node

	// Path is the container's logical path: <pod path>/<array key>/<index>.
	Path manifest.Path

	// Name is the container's declared name, or "<unnamed>".
	Name string
}

// ContainerContext carries everything a container-level rule may inspect.
type ContainerContext struct {
	Pod       PodContext
	Container Container
}

// SecurityContext returns the container-level securityContext mapping, or
// nil when absent.
func (c ContainerContext) SecurityContext() *manifest.Node {
	return c.Container.Node.Map("securityContext")
}

// PodRule is evaluated once per resolved pod spec.
type PodRule interface {
	// ID returns the unique, stable identifier for this rule.
	ID() string

	// Name returns a short human-readable rule name.
	Name() string

	// Evaluate inspects the pod spec and returns zero or more findings.
	Evaluate(ctx PodContext) []models.Finding
}

// ContainerRule is evaluated once per container, across all three container
// arrays.
type ContainerRule interface {
	ID() string
	Name() string
	Evaluate(ctx ContainerContext) []models.Finding
}

// NewPodContext builds a PodContext from a resolved pod spec and its path,
// precomputing the lookups shared by multiple rules.
func NewPodContext(spec *manifest.Node, path manifest.Path) PodContext {
	return PodContext{
		Spec:            spec,
		Path:            path,
		SecurityContext: spec.Map("securityContext"),
		HostPathVolumes: hostPathVolumeNames(spec),
	}
}

// Containers enumerates the pod's containers from containers,
// initContainers and ephemeralContainers, in that order, preserving each
// array's internal order. Non-mapping entries are skipped but keep their
// index, so logical paths always match the source.
func (p PodContext) Containers() []Container {
	var out []Container
	for _, key := range containerArrays {
		arr := p.Spec.Get(key)
		for i, item := range arr.Items() {
			if !item.IsMapping() {
				continue
			}
			name := item.Get("name").StrOr("")
			if name == "" {
				name = "<unnamed>"
			}
			out = append(out, Container{
				Node: item,
				Path: p.Path.Child(key).Index(i),
				Name: name,
			})
		}
	}
	return out
}

// hostPathVolumeNames collects the names of volumes whose definition carries
// a hostPath mapping.
func hostPathVolumeNames(spec *manifest.Node) sets.Set[string] {
	names := sets.New[string]()
	for _, vol := range spec.Get("volumes").Items() {
		name, ok := vol.Get("name").Str()
		if !ok || name == "" {
			continue
		}
		if vol.Map("hostPath") != nil {
			names.Insert(name)
		}
	}
	return names
}
