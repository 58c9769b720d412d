package graph

import "errors"

var (
	ErrUnreachableAccept    = errors.New("graph: unreachable accept state")
	ErrInvalidWeight        = errors.New("graph: invalid edge weight")
	ErrUnexpandedReference  = errors.New("graph: unexpanded rule or slot reference")
	ErrUnknownNodeType      = errors.New("graph: unknown sentence node type")
)
