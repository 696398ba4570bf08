package rules

import (
	"fmt"

	"github.com/kubepolicy/kpb/internal/models"
)

// Registry holds the active rule set in evaluation order. Pod rules run
// first, then every container is evaluated against each container rule in
// registration order. That container-major ordering is what makes report
// output stable and reproducible.
type Registry struct {
	pod       []PodRule
	container []ContainerRule
	index     map[string]struct{}
}

// NewRegistry returns an empty registry ready for rule registration.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]struct{})}
}

// RegisterPod adds a pod-level rule. Panics on duplicate rule IDs to catch
// wiring mistakes at startup.
func (r *Registry) RegisterPod(rule PodRule) {
	r.reserve(rule.ID())
	r.pod = append(r.pod, rule)
}

// RegisterContainer adds a container-level rule. Panics on duplicate IDs.
func (r *Registry) RegisterContainer(rule ContainerRule) {
	r.reserve(rule.ID())
	r.container = append(r.container, rule)
}

func (r *Registry) reserve(id string) {
	if _, exists := r.index[id]; exists {
		panic(fmt.Sprintf("duplicate rule ID: %q", id))
	}
	r.index[id] = struct{}{}
}

// PodRules returns the registered pod rules in registration order.
func (r *Registry) PodRules() []PodRule { return r.pod }

// ContainerRules returns the registered container rules in registration order.
func (r *Registry) ContainerRules() []ContainerRule { return r.container }

// EvaluateAll runs the full rule set against one resolved pod spec and
// returns the merged findings: pod rules in registration order, then for
// each container (containers, initContainers, ephemeralContainers, each in
// array order) every container rule in registration order.
func (r *Registry) EvaluateAll(pod PodContext) []models.Finding {
	var findings []models.Finding
	for _, rule := range r.pod {
		findings = append(findings, rule.Evaluate(pod)...)
	}
	for _, c := range pod.Containers() {
		ctx := ContainerContext{Pod: pod, Container: c}
		for _, rule := range r.container {
			findings = append(findings, rule.Evaluate(ctx)...)
		}
	}
	return findings
}

// Default returns a registry with the complete built-in rule set registered
// in its canonical order.
func Default() *Registry {
	r := NewRegistry()
	r.RegisterPod(HostNamespaceRule{})
	r.RegisterContainer(PrivilegedRule{})
	r.RegisterContainer(UnpinnedImageRule{})
	r.RegisterContainer(MissingResourcesRule{})
	r.RegisterContainer(DangerousCapabilitiesRule{})
	r.RegisterContainer(WritableHostPathMountRule{})
	r.RegisterContainer(MissingRunAsNonRootRule{})
	r.RegisterContainer(MissingReadOnlyRootFSRule{})
	r.RegisterContainer(MissingSeccompProfileRule{})
	r.RegisterContainer(MissingLivenessProbeRule{})
	r.RegisterContainer(MissingReadinessProbeRule{})
	return r
}
