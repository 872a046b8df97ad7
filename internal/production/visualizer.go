package production

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/comalice/mfsm"
)

// DefaultVisualizer renders a topology for inspection.
type DefaultVisualizer struct{}

// ExportDOT generates Graphviz DOT source showing each queue, the listeners
// registered in its slots and how full every listener buffer is.
func (v *DefaultVisualizer) ExportDOT(t *mfsm.Topology) string {
	var buf bytes.Buffer
	buf.WriteString(`digraph Topology {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)

	for _, name := range t.ListenerNames() {
		renderListener(&buf, t.Listener(name))
	}

	for _, q := range t.Queues() {
		fmt.Fprintf(&buf, "  \"queue:%s\" [label=\"%s\\n%d/%d listeners\" shape=ellipse];\n",
			q.Name(), q.Name(), q.Len(), q.Cap())
		for slot, l := range q.Listeners() {
			fmt.Fprintf(&buf, "  \"queue:%s\" -> \"listener:%s\" [label=\"%d\"];\n", q.Name(), l.Name(), slot)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// renderListener writes one listener node, colored by fill level.
func renderListener(buf *bytes.Buffer, l *mfsm.Listener) {
	style := ""
	switch {
	case l.Full():
		style = ` style=filled fillcolor=tomato`
	case l.Len() > 0:
		style = ` style=filled fillcolor=lightgreen`
	}
	fmt.Fprintf(buf, "  \"listener:%s\" [label=\"%s\\n%d/%d %s\"%s];\n",
		l.Name(), l.Name(), l.Len(), l.Cap(), l.Order(), style)
}

// QueueSummary is the JSON form of a queue.
type QueueSummary struct {
	Name      string   `json:"name"`
	Capacity  int      `json:"capacity"`
	Listeners []string `json:"listeners"`
}

// ListenerSummary is the JSON form of a listener.
type ListenerSummary struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Buffered int    `json:"buffered"`
	Order    string `json:"order"`
}

// TopologySummary is the document written by ExportJSON.
type TopologySummary struct {
	Queues    []QueueSummary    `json:"queues"`
	Listeners []ListenerSummary `json:"listeners"`
}

// Summarize captures the current registry and buffer state of t.
func (v *DefaultVisualizer) Summarize(t *mfsm.Topology) TopologySummary {
	s := TopologySummary{
		Queues:    []QueueSummary{},
		Listeners: []ListenerSummary{},
	}
	for _, q := range t.Queues() {
		qs := QueueSummary{Name: q.Name(), Capacity: q.Cap(), Listeners: []string{}}
		for _, l := range q.Listeners() {
			qs.Listeners = append(qs.Listeners, l.Name())
		}
		s.Queues = append(s.Queues, qs)
	}
	for _, name := range t.ListenerNames() {
		l := t.Listener(name)
		s.Listeners = append(s.Listeners, ListenerSummary{
			Name:     name,
			Capacity: l.Cap(),
			Buffered: l.Len(),
			Order:    l.Order().String(),
		})
	}
	return s
}

// ExportJSON serializes the topology summary to JSON.
func (v *DefaultVisualizer) ExportJSON(t *mfsm.Topology) ([]byte, error) {
	return json.MarshalIndent(v.Summarize(t), "", "  ")
}
