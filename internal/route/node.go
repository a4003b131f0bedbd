package route

import (
	"context"
	"strings"
)

// Params holds dynamic segment values captured while resolving a path, keyed
// by parameter name. A wildcard stores the unmatched remainder under "*".
type Params map[string]string

// LoaderFunc fetches the data a page needs before it renders.
type LoaderFunc func(ctx context.Context, params Params) (any, error)

type Kind int

const (
	KindRoot Kind = iota
	KindLiteral
	KindIndex
	KindDynamic
	KindWildcard
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindLiteral:
		return "literal"
	case KindIndex:
		return "index"
	case KindDynamic:
		return "dynamic"
	case KindWildcard:
		return "wildcard"
	default:
		return "unknown"
	}
}

// WildcardParam is the Params key holding the remainder matched by "*".
const WildcardParam = "*"

// Node is one entry of the route tree. Path is a single segment: a literal
// ("jobs"), a dynamic parameter (":id"), "*" for a catch-all, or empty for an
// index route. The root uses "/".
type Node struct {
	Path      string
	Index     bool
	Page      string
	Loader    LoaderFunc
	ErrorPage string // error boundary page rendered when a loader in this subtree fails
	Children  []*Node

	kind     Kind
	param    string
	pattern  string
	depth    int
	parent   *Node
	literals []*Node
	index    *Node
	dynamic  *Node
	wildcard *Node
}

type Option func(*Node)

// Page declares a route for a single path segment.
func Page(path, page string, opts ...Option) *Node {
	n := &Node{Path: path, Page: page}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Root declares the tree root, matched by "/".
func Root(page string, opts ...Option) *Node {
	return Page("/", page, opts...)
}

// IndexPage declares the default child rendered when its parent path is
// matched with no further segments.
func IndexPage(page string, opts ...Option) *Node {
	n := Page("", page, opts...)
	n.Index = true
	return n
}

// CatchAll declares a wildcard route matching anything its siblings do not.
func CatchAll(page string, opts ...Option) *Node {
	return Page(WildcardParam, page, opts...)
}

func WithLoader(loader LoaderFunc) Option {
	return func(n *Node) {
		n.Loader = loader
	}
}

func WithErrorBoundary(page string) Option {
	return func(n *Node) {
		n.ErrorPage = page
	}
}

func WithChildren(children ...*Node) Option {
	return func(n *Node) {
		n.Children = append(n.Children, children...)
	}
}

func (n *Node) Kind() Kind { return n.kind }

// Param is the parameter name of a dynamic node.
func (n *Node) Param() string { return n.param }

// Pattern is the full path pattern of the node, e.g. "/jobs/:id".
func (n *Node) Pattern() string { return n.pattern }

// Depth is 0 for the root.
func (n *Node) Depth() int { return n.depth }

func (n *Node) Parent() *Node { return n.parent }

func (n *Node) HasErrorBoundary() bool { return n.ErrorPage != "" }

func joinPattern(parent, segment string) string {
	if segment == "" {
		return parent
	}
	if parent == "/" {
		return "/" + segment
	}
	return strings.TrimSuffix(parent, "/") + "/" + segment
}
