package deps

import "fmt"

// TreeNode is one node of a nested dependency tree: the requirement its
// parent declared on it, plus its own dependencies.
type TreeNode struct {
	RequiredVersion string              `json:"required_version"`
	Dependencies    map[string]TreeNode `json:"dependencies"`
}

// Tree builds the nested dependency view rooted at root: a map from
// dependency key to [TreeNode], recursing through the adjacency map.
//
// Cycles in the underlying graph are truncated rather than recursed into: a
// dependency already on the active recursion path gets an empty Dependencies
// map, so the output is always finite.
//
// Returns [ErrUnknownPackage] if root is not in the snapshot.
func (s *Snapshot) Tree(root string) (map[string]TreeNode, error) {
	key := NormalizeKey(root)
	if _, ok := s.info[key]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPackage, key)
	}
	onPath := map[string]bool{key: true}
	return s.subtree(key, onPath), nil
}

func (s *Snapshot) subtree(key string, onPath map[string]bool) map[string]TreeNode {
	nested := make(map[string]TreeNode, len(s.adj[key]))
	for dep, req := range s.adj[key] {
		node := TreeNode{RequiredVersion: req, Dependencies: map[string]TreeNode{}}
		if !onPath[dep] {
			onPath[dep] = true
			node.Dependencies = s.subtree(dep, onPath)
			delete(onPath, dep)
		}
		nested[dep] = node
	}
	return nested
}
