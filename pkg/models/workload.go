package models

// Workload kinds scanned for probe issues, in scan order
const (
	KindDeployment  = "deployment"
	KindStatefulSet = "statefulset"
	KindDaemonSet   = "daemonset"
)

// WorkloadKinds lists the kinds the scanner walks
var WorkloadKinds = []string{KindDeployment, KindStatefulSet, KindDaemonSet}

// Workload is one scanned workload object reduced to the fields the
// probe checker needs
type Workload struct {
	Kind       string
	Namespace  string
	Name       string
	Containers []Container
}

// Container holds the three probe slots of a pod template container
type Container struct {
	Name           string
	LivenessProbe  *Probe
	ReadinessProbe *Probe
	StartupProbe   *Probe
}

// Probe captures the two probe fields relevant to timeout checks.
// TimeoutSeconds is nil when the manifest omits the field, which is
// exactly the condition being scanned for.
type Probe struct {
	Exec           bool
	TimeoutSeconds *int32
}

// ProbeFinding is a single probe needing an explicit timeout
type ProbeFinding struct {
	Container          string `json:"container" yaml:"container"`
	ProbeType          string `json:"probe_type" yaml:"probe_type"`
	RecommendedTimeout int    `json:"recommended_timeout" yaml:"recommended_timeout"`
}

// WorkloadProbeIssue aggregates the findings for one workload
type WorkloadProbeIssue struct {
	Kind      string         `json:"kind" yaml:"kind"`
	Namespace string         `json:"namespace" yaml:"namespace"`
	Name      string         `json:"name" yaml:"name"`
	Findings  []ProbeFinding `json:"findings" yaml:"findings"`
}
