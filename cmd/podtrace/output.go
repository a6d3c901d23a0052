package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"sigs.k8s.io/yaml"

	eventsdomain "podtrace/internal/features/events/domain"
	tracedomain "podtrace/internal/features/trace/domain"
)

// TraceOutput is the rendered result of a trace command
type TraceOutput struct {
	Pod    PodInfo                      `json:"pod"`
	Node   NodeInfo                     `json:"node"`
	Events []eventsdomain.InstanceEvent `json:"events"`
	Total  int                          `json:"total"`
}

// PodInfo is the pod placement part of the output
type PodInfo struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace,omitempty"`
	HostIP    string `json:"hostIp"`
	Node      string `json:"node,omitempty"`
}

// NodeInfo is the node identity part of the output
type NodeInfo struct {
	InternalIP string `json:"internalIp"`
	ProviderID string `json:"providerId"`
	Name       string `json:"name,omitempty"`
	InstanceID string `json:"instanceId"`
}

// newTraceOutput converts a trace result for rendering
func newTraceOutput(result tracedomain.TraceResult) TraceOutput {
	events := result.Events
	if events == nil {
		events = []eventsdomain.InstanceEvent{}
	}
	return TraceOutput{
		Pod: PodInfo{
			Name:      result.Pod.Pod,
			Namespace: result.Pod.Namespace,
			HostIP:    result.Pod.HostIP,
			Node:      result.Pod.Node,
		},
		Node: NodeInfo{
			InternalIP: result.Node.InternalIP,
			ProviderID: result.Node.ProviderID,
			Name:       result.Node.Node,
			InstanceID: result.Node.InstanceID,
		},
		Events: events,
		Total:  len(events),
	}
}

// outputResult outputs the result in the specified format.
func outputResult(result TraceOutput, format string) error {
	switch format {
	case "json":
		return outputJSON(result)
	case "yaml":
		return outputYAML(result)
	default:
		return outputTable(result)
	}
}

func outputJSON(result TraceOutput) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputYAML(result TraceOutput) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func outputTable(result TraceOutput) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "POD\t%s\n", result.Pod.Name)
	if result.Pod.Namespace != "" {
		fmt.Fprintf(w, "NAMESPACE\t%s\n", result.Pod.Namespace)
	}
	fmt.Fprintf(w, "HOST IP\t%s\n", result.Pod.HostIP)
	fmt.Fprintf(w, "PROVIDER ID\t%s\n", result.Node.ProviderID)
	fmt.Fprintf(w, "INSTANCE\t%s\n", result.Node.InstanceID)
	fmt.Fprintf(w, "EVENTS\t%d\n\n", result.Total)

	if result.Total == 0 {
		fmt.Fprintln(w, "No instance events in the requested range.")
		return nil
	}

	fmt.Fprintln(w, "TIMESTAMP\tCATEGORY\tMESSAGE")
	for _, ev := range result.Events {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			ev.Timestamp.Format(time.RFC3339), ev.Category, ev.Message)
	}

	return nil
}
