package domain

// PodRecord is the placement view of one pod lookup.
// It is derived from series labels, read-only, and scoped to a single invocation.
type PodRecord struct {
	// Pod is the pod name of the matched series
	Pod string
	// Namespace is the pod's namespace
	Namespace string
	// HostIP is the internal IP of the node running the pod
	HostIP string
	// Node is the node name, when the backend exposes it
	Node string
}
