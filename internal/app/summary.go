package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"github.com/specialistvlad/osmium/internal/exec"
	"github.com/specialistvlad/osmium/internal/runctx"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

type nodeSummary struct {
	Node    string            `json:"node"`
	Outputs []json.RawMessage `json:"outputs"`
}

type runSummary struct {
	Dimensions string        `json:"dimensions"`
	Nodes      []nodeSummary `json:"nodes"`
}

// writeSummary prints every run's results as one JSON document, nodes
// ordered by id.
func writeSummary(w io.Writer, sizes []runctx.Context, results []exec.Results) error {
	doc := make([]runSummary, len(results))
	for i, res := range results {
		rs := runSummary{Dimensions: sizes[i].String(), Nodes: []nodeSummary{}}
		for _, id := range res.IDs() {
			ns := nodeSummary{Node: id.String(), Outputs: make([]json.RawMessage, len(res[id]))}
			for j, v := range res[id] {
				raw, err := ctyjson.SimpleJSONValue{Value: v}.MarshalJSON()
				if err != nil {
					return fmt.Errorf("encoding output %d of %s: %w", j, id, err)
				}
				ns.Outputs[j] = raw
			}
			rs.Nodes = append(rs.Nodes, ns)
		}
		doc[i] = rs
	}

	data, err := sonic.ConfigStd.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}
