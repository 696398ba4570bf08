package output

import "strings"

// Suggestions returns the static remediation section appended to every PR
// comment. The patches are generic; they cover each built-in rule rather
// than the specific findings of the run.
func Suggestions() string {
	return strings.Join([]string{
		"### Suggested YAML patches",
		"",
		"- Avoid privileged:",
		"```yaml",
		"securityContext:",
		"  privileged: false",
		"```",
		"- Disable host namespace sharing:",
		"```yaml",
		"spec:",
		"  hostNetwork: false",
		"  hostPID: false",
		"  hostIPC: false",
		"```",
		"- Pin image tags (avoid latest) and/or use digests:",
		"```yaml",
		"containers:",
		"- name: app",
		"  image: myrepo/myimage:1.2.3  # or myimage@sha256:...",
		"```",
		"- Define resources requests and limits:",
		"```yaml",
		"resources:",
		"  requests:",
		"    cpu: \"100m\"",
		"    memory: \"128Mi\"",
		"  limits:",
		"    cpu: \"500m\"",
		"    memory: \"512Mi\"",
		"```",
		"- Remove dangerous Linux capabilities:",
		"```yaml",
		"securityContext:",
		"  capabilities:",
		"    drop: [\"ALL\"]",
		"    # add only minimal required",
		"```",
		"- Mount hostPath read-only:",
		"```yaml",
		"volumes:",
		"- name: host-vol",
		"  hostPath:",
		"    path: /host/path",
		"containers:",
		"- name: app",
		"  volumeMounts:",
		"  - name: host-vol",
		"    mountPath: /mount/path",
		"    readOnly: true",
		"```",
		"- Enforce non-root, read-only FS, and seccomp:",
		"```yaml",
		"securityContext:",
		"  runAsNonRoot: true",
		"  readOnlyRootFilesystem: true",
		"  seccompProfile:",
		"    type: RuntimeDefault",
		"```",
		"- Add health probes:",
		"```yaml",
		"livenessProbe:",
		"  httpGet: { path: /healthz, port: 8080 }",
		"  initialDelaySeconds: 10",
		"  periodSeconds: 10",
		"readinessProbe:",
		"  httpGet: { path: /ready, port: 8080 }",
		"  initialDelaySeconds: 5",
		"  periodSeconds: 5",
		"```",
	}, "\n")
}
