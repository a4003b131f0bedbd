package route

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrNoRoute is returned when no node matches a path and no wildcard
	// catches it.
	ErrNoRoute = errors.New("no route matches path")

	ErrInvalidTree = errors.New("invalid route tree")
)

// Tree is a validated, read-only route tree. Resolution never mutates it, so
// a Tree is safe for concurrent use.
type Tree struct {
	root *Node
}

// Match is the result of resolving a path.
type Match struct {
	Path   string
	Chain  []*Node // root first, leaf last
	Params Params
}

// Leaf is the deepest matched node.
func (m *Match) Leaf() *Node {
	return m.Chain[len(m.Chain)-1]
}

// New validates root and its descendants and links them into a Tree.
// Nodes must not be shared between trees or parents.
func New(root *Node) (*Tree, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil root", ErrInvalidTree)
	}
	if root.Path != "/" || root.Index {
		return nil, fmt.Errorf("%w: root path must be \"/\", got %q", ErrInvalidTree, root.Path)
	}

	root.kind = KindRoot
	root.pattern = "/"
	root.depth = 0
	root.parent = nil

	seen := map[*Node]bool{root: true}
	if err := link(root, seen, map[string]bool{}); err != nil {
		return nil, err
	}
	return &Tree{root: root}, nil
}

func link(parent *Node, seen map[*Node]bool, params map[string]bool) error {
	parent.literals = nil
	parent.index = nil
	parent.dynamic = nil
	parent.wildcard = nil

	literalNames := map[string]bool{}

	for _, child := range parent.Children {
		if child == nil {
			return fmt.Errorf("%w: nil child under %s", ErrInvalidTree, parent.pattern)
		}
		if seen[child] {
			return fmt.Errorf("%w: node %q under %s already belongs to a tree", ErrInvalidTree, child.Path, parent.pattern)
		}
		seen[child] = true

		if err := classify(child); err != nil {
			return fmt.Errorf("%w: under %s: %v", ErrInvalidTree, parent.pattern, err)
		}

		child.parent = parent
		child.depth = parent.depth + 1
		child.pattern = joinPattern(parent.pattern, child.Path)

		switch child.kind {
		case KindIndex:
			if parent.index != nil {
				return fmt.Errorf("%w: more than one index route under %s", ErrInvalidTree, parent.pattern)
			}
			parent.index = child
		case KindWildcard:
			if parent.wildcard != nil {
				return fmt.Errorf("%w: more than one wildcard route under %s", ErrInvalidTree, parent.pattern)
			}
			parent.wildcard = child
		case KindDynamic:
			if parent.dynamic != nil {
				return fmt.Errorf("%w: more than one dynamic route under %s", ErrInvalidTree, parent.pattern)
			}
			if params[child.param] {
				return fmt.Errorf("%w: parameter %q declared twice on %s", ErrInvalidTree, child.param, child.pattern)
			}
			parent.dynamic = child
		case KindLiteral:
			key := strings.ToLower(child.Path)
			if literalNames[key] {
				return fmt.Errorf("%w: duplicate route %s", ErrInvalidTree, child.pattern)
			}
			literalNames[key] = true
			parent.literals = append(parent.literals, child)
		}

		if (child.kind == KindIndex || child.kind == KindWildcard) && len(child.Children) > 0 {
			return fmt.Errorf("%w: %s route %s cannot have children", ErrInvalidTree, child.kind, child.pattern)
		}

		childParams := params
		if child.kind == KindDynamic {
			childParams = make(map[string]bool, len(params)+1)
			for k := range params {
				childParams[k] = true
			}
			childParams[child.param] = true
		}
		if err := link(child, seen, childParams); err != nil {
			return err
		}
	}
	return nil
}

func classify(n *Node) error {
	switch {
	case n.Index:
		if n.Path != "" {
			return fmt.Errorf("index route cannot have path %q", n.Path)
		}
		n.kind = KindIndex
	case n.Path == WildcardParam:
		n.kind = KindWildcard
	case strings.HasPrefix(n.Path, ":"):
		n.param = strings.TrimPrefix(n.Path, ":")
		if n.param == "" || strings.ContainsAny(n.param, "/:*") {
			return fmt.Errorf("invalid parameter segment %q", n.Path)
		}
		n.kind = KindDynamic
	case n.Path == "":
		return errors.New("empty path on a non-index route")
	case strings.ContainsAny(n.Path, "/*:?#"):
		return fmt.Errorf("path %q must be a single literal segment", n.Path)
	default:
		n.kind = KindLiteral
	}
	return nil
}

// Resolve matches path against the tree. At each level it prefers a literal
// segment, then the index route when the path is exhausted, then a dynamic
// segment, then the wildcard. A candidate whose subtree cannot consume the
// rest of the path is abandoned for the next one. Resolve is pure.
func (t *Tree) Resolve(path string) (*Match, error) {
	segments := splitPath(path)
	params := Params{}

	chain, ok := descend(t.root, segments, params)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoRoute, path)
	}

	return &Match{
		Path:   "/" + strings.Join(segments, "/"),
		Chain:  chain,
		Params: params,
	}, nil
}

func descend(n *Node, rest []string, params Params) ([]*Node, bool) {
	if len(rest) == 0 {
		if n.index != nil {
			return []*Node{n, n.index}, true
		}
		return []*Node{n}, true
	}

	for _, child := range n.literals {
		if !strings.EqualFold(child.Path, rest[0]) {
			continue
		}
		if sub, ok := descend(child, rest[1:], params); ok {
			return append([]*Node{n}, sub...), true
		}
	}

	if child := n.dynamic; child != nil {
		params[child.param] = rest[0]
		if sub, ok := descend(child, rest[1:], params); ok {
			return append([]*Node{n}, sub...), true
		}
		delete(params, child.param)
	}

	if child := n.wildcard; child != nil {
		params[WildcardParam] = strings.Join(rest, "/")
		return []*Node{n, child}, true
	}

	return nil, false
}

func splitPath(path string) []string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(path, "/")
	segments := parts[:0]
	for _, p := range parts {
		if p == "" {
			continue
		}
		// escaped paths keep "%2F" inside a single segment
		if unescaped, err := url.PathUnescape(p); err == nil {
			p = unescaped
		}
		segments = append(segments, p)
	}
	return segments
}

// Walk visits every node depth-first, parents before children, in
// declaration order. A non-nil error from fn stops the walk.
func (t *Tree) Walk(fn func(n *Node) error) error {
	return walk(t.root, fn)
}

func walk(n *Node, fn func(n *Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	for _, child := range n.Children {
		if err := walk(child, fn); err != nil {
			return err
		}
	}
	return nil
}
