package schema

import (
	"encoding/json"
	"errors"
)

// TreeNode is one node of a sunburst/circles hierarchy.
// A node is a leaf (Size) when Children is nil and an internal node otherwise.
type TreeNode struct {
	Name     string
	Size     int64
	Children []TreeNode
}

// IsLeaf reports whether the node carries a size instead of children.
func (n TreeNode) IsLeaf() bool {
	return n.Children == nil
}

type treeLeafJSON struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

type treeBranchJSON struct {
	Name     string     `json:"name"`
	Children []TreeNode `json:"children"`
}

// MarshalJSON emits exactly one of size or children.
func (n TreeNode) MarshalJSON() ([]byte, error) {
	if n.IsLeaf() {
		return json.Marshal(treeLeafJSON{Name: n.Name, Size: n.Size})
	}
	return json.Marshal(treeBranchJSON{Name: n.Name, Children: n.Children})
}

// UnmarshalJSON accepts the shape produced by MarshalJSON.
func (n *TreeNode) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name     string          `json:"name"`
		Size     *int64          `json:"size"`
		Children json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Size != nil && raw.Children != nil {
		return errors.New("tree node has both size and children")
	}
	n.Name = raw.Name
	n.Size = 0
	n.Children = nil
	if raw.Children != nil {
		n.Children = []TreeNode{}
		return json.Unmarshal(raw.Children, &n.Children)
	}
	if raw.Size != nil {
		n.Size = *raw.Size
	}
	return nil
}

// PathValue is one aggregated category path and its summed value.
type PathValue struct {
	Path  string  `json:"path"`
	Value float64 `json:"value"`
}

// GraphNode is a participant of the funding network.
type GraphNode struct {
	Name   string   `json:"name"`
	Value  int      `json:"value"`
	Type   NodeType `json:"type"`
	Avatar *string  `json:"avatar"`
}

// GraphLink is a weighted edge between two node indices.
type GraphLink struct {
	Source int     `json:"source"`
	Target int     `json:"target"`
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
}

// Graph is the payload consumed by the force-directed and sankey charts.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}

// Table is a header plus rows of already-formatted fields.
type Table struct {
	Header []string
	Rows   [][]string
}

// AllRows returns the header (when present) followed by the data rows.
func (t Table) AllRows() [][]string {
	rows := make([][]string, 0, len(t.Rows)+1)
	if len(t.Header) > 0 {
		rows = append(rows, t.Header)
	}
	return append(rows, t.Rows...)
}

// SeriesPoint is one timestamped value of a heatmap or spiral.
type SeriesPoint struct {
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
}

// Series is the JSON payload of the stat-driven charts.
type Series struct {
	Data []SeriesPoint `json:"data"`
}

// BubbleSeries is one actor of the draggable bubble chart; every pair is [day, value].
type BubbleSeries struct {
	Name           string       `json:"name"`
	Region         string       `json:"region"`
	Income         [][2]float64 `json:"income"`
	Population     [][2]float64 `json:"population"`
	LifeExpectancy [][2]float64 `json:"lifeExpectancy"`
}

// Page holds the parameters of a visualization's HTML shell.
type Page struct {
	Title       string   `json:"title,omitempty"`
	Comment     string   `json:"comment,omitempty"`
	Key         string   `json:"key,omitempty"`
	VizType     string   `json:"viz_type"`
	PageRoute   string   `json:"page_route"`
	Template    Template `json:"template"`
	TypeOptions []string `json:"type_options"`
	Categories  []string `json:"categories,omitempty"`
	Usernames   []string `json:"usernames,omitempty"`
}
