package fgdb

// Edge is one directed edge.  Label is empty for ancestry edges and
// carries the applied function's name for dataflow edges.
type Edge struct {
	From  string `msgpack:"from"`
	To    string `msgpack:"to"`
	Label string `msgpack:"label,omitempty"`
}

// Graph is a directed graph over block codes.  The store only ever
// appends to it -- there is no node or edge removal.
type Graph struct {
	Root  string          `msgpack:"root"`
	Nodes map[string]bool `msgpack:"nodes"`
	Edges []*Edge         `msgpack:"edges"`
}

func NewGraph() *Graph {
	return &Graph{Nodes: make(map[string]bool)}
}

func (g *Graph) AddNode(code string) {
	g.Nodes[code] = true
}

func (g *Graph) HasNode(code string) bool {
	return g.Nodes[code]
}

// AddEdge inserts a directed edge, adding either endpoint to the node
// set if it isn't there yet.
func (g *Graph) AddEdge(from, to, label string) {
	g.AddNode(from)
	g.AddNode(to)
	g.Edges = append(g.Edges, &Edge{From: from, To: to, Label: label})
}

func (g *Graph) HasEdge(from, to string) bool {
	for _, e := range g.Edges {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}

// EdgeLabel returns the label of the from->to edge.
func (g *Graph) EdgeLabel(from, to string) (label string, ok bool) {
	for _, e := range g.Edges {
		if e.From == from && e.To == to {
			return e.Label, true
		}
	}
	return "", false
}

func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}

func (g *Graph) EdgeCount() int {
	return len(g.Edges)
}

// InDegree counts the edges pointing at code.
func (g *Graph) InDegree(code string) (n int) {
	for _, e := range g.Edges {
		if e.To == code {
			n++
		}
	}
	return
}

// Parents returns the sources of all edges pointing at code.
func (g *Graph) Parents(code string) (parents []string) {
	for _, e := range g.Edges {
		if e.To == code {
			parents = append(parents, e.From)
		}
	}
	return
}

// Children returns the targets of all edges leaving code.
func (g *Graph) Children(code string) (children []string) {
	for _, e := range g.Edges {
		if e.From == code {
			children = append(children, e.To)
		}
	}
	return
}
