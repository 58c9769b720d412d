package graph

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteFST serializes g in OpenFST's plain-text column format: one line per
// edge (from, to, ilabel, olabel, weight), then one line per final state
// (state, finalWeight). This is a deliberate extension over the legacy
// n-tuple format, which carried no weight column: every arc here is weighted,
// so the column is never omitted.
func WriteFST(w io.Writer, g *Graph) error {
	for _, node := range g.Nodes {
		for _, e := range node.Edges {
			if _, err := fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n",
				node.ID, e.To, symbolOrDefault(e.ILabel), symbolOrDefault(e.OLabel), formatWeight(e.Weight)); err != nil {
				return err
			}
		}
	}
	for _, node := range g.Nodes {
		if node.IsEndOfSentence {
			if _, err := fmt.Fprintf(w, "%d\t0\n", node.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// ToFST renders WriteFST's output as a string.
func ToFST(g *Graph) (string, error) {
	var sb strings.Builder
	if err := WriteFST(&sb, g); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func symbolOrDefault(s string) string {
	if s == "" {
		return Epsilon
	}
	return s
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'g', -1, 64)
}
