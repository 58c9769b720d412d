// Package graph compiles an expanded grammar into a labeled weighted
// directed graph and serializes it for downstream tooling.
package graph

// Epsilon is the empty-symbol label used for edges that consume or emit
// nothing.
const Epsilon = "<eps>"

// LabelPrefix marks the olabel of an edge from the global start node into
// an intent's own start node.
const LabelPrefix = "__label__"

// Marker prefixes recognized on an edge's olabel. A recognizer strips the
// prefix to recover the tag/converter key the marker opens or closes.
const (
	TagBeginPrefix   = "__begin__"
	TagEndPrefix     = "__end__"
	ConvertPrefix    = "__convert__"
	ConvertedPrefix  = "__converted__"
)

// TagBegin returns the olabel marking the start of an entity boundary.
func TagBegin(name string) string { return TagBeginPrefix + name }

// TagEnd returns the olabel marking the end of an entity boundary.
func TagEnd(name string) string { return TagEndPrefix + name }

// Convert returns the olabel marking the start of a converter's scope. key
// is the converter's name, optionally followed by ",arg1,arg2,..." the way
// a grammar's "!name,arg1" suffix is written.
func Convert(key string) string { return ConvertPrefix + key }

// Converted returns the olabel marking the end of a converter's scope.
func Converted(key string) string { return ConvertedPrefix + key }

// Edge is a labeled, weighted transition to another node.
type Edge struct {
	To     int
	ILabel string
	OLabel string
	Weight float64
}

// Node is addressed by its ID, which is also its index in Graph.Nodes.
type Node struct {
	ID              int
	Edges           []Edge
	IsIntentStart   bool
	IsEndOfSentence bool
	Intent          string
}

// Graph is an arena of Nodes; edges are owned by their source node.
// Nodes are never removed once added, so a Node's ID is stable for the
// Graph's lifetime.
type Graph struct {
	Nodes []*Node
	Start int
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{}
}

// AddNode appends a new Node and returns it.
func (g *Graph) AddNode() *Node {
	n := &Node{ID: len(g.Nodes)}
	g.Nodes = append(g.Nodes, n)
	return n
}

// AddEdge appends an edge from the node with the given id.
func (g *Graph) AddEdge(from int, to int, ilabel, olabel string, weight float64) {
	g.Nodes[from].Edges = append(g.Nodes[from].Edges, Edge{To: to, ILabel: ilabel, OLabel: olabel, Weight: weight})
}

// Node looks up a node by ID.
func (g *Graph) Node(id int) *Node {
	return g.Nodes[id]
}
