package typegen

import (
	"sort"
	"strconv"
)

// Names maps every node of a graph to its emitted identifier.
type Names struct {
	byID map[NodeID]string
}

// Of returns the emitted name of id, or "" for unknown nodes.
func (n Names) Of(id NodeID) string {
	return n.byID[id]
}

// Len is the number of named nodes
func (n Names) Len() int {
	return len(n.byID)
}

// Verify checks that no two nodes share an emitted name.
func (n Names) Verify() error {
	owners := make(map[string]NodeID, len(n.byID))
	for _, id := range n.sortedIDs() {
		name := n.byID[id]
		if prev, dup := owners[name]; dup {
			return ambiguous(name, "emitted twice", prev, id)
		}
		owners[name] = id
	}
	return nil
}

func (n Names) sortedIDs() []NodeID {
	ids := make([]NodeID, 0, len(n.byID))
	for id := range n.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Module != ids[j].Module {
			return ids[i].Module < ids[j].Module
		}
		return ids[i].Name < ids[j].Name
	})
	return ids
}

// Sanitizer maps a short name to a legal type name in the target language.
// It must be deterministic; a name it returns unchanged is considered legal.
type Sanitizer func(string) string

// ResolveNames assigns emitted names.
//
// Renames (keyed by qualified "module.Name") are applied first. Then nodes
// are grouped by sanitized short name and ranked by declaring root, then by
// discovery: the first member keeps the bare name, later members get the
// smallest free numeric suffix starting at 1 (Foo, Foo1, Foo2). Every bare name is reserved before
// any suffix is handed out, so a declared "Foo1" is never displaced.
func ResolveNames(g *Graph, renames map[string]string, sanitize Sanitizer) (Names, error) {
	if sanitize == nil {
		sanitize = func(s string) string { return s }
	}

	ranked := rankNodes(g.Nodes)
	assigned := make(map[NodeID]string, len(ranked))
	taken := make(map[string]NodeID, len(ranked))

	for _, node := range ranked {
		name, ok := renames[node.ID.String()]
		if !ok {
			continue
		}
		if sanitize(name) != name || name == "" {
			return Names{}, ambiguous(name, "rename is not a valid type name", node.ID)
		}
		if other, dup := taken[name]; dup {
			return Names{}, ambiguous(name, "claimed by two rename directives", other, node.ID)
		}
		assigned[node.ID] = name
		taken[name] = node.ID
	}

	bases := make(map[NodeID]string, len(ranked))
	for _, node := range ranked {
		if _, renamed := assigned[node.ID]; renamed {
			continue
		}
		base := sanitize(node.ShortName())
		bases[node.ID] = base
		if owner, claimed := taken[base]; claimed {
			if _, ownerRenamed := renames[owner.String()]; ownerRenamed {
				return Names{}, ambiguous(base, "rename collides with a declared type name", owner, node.ID)
			}
			continue
		}
		assigned[node.ID] = base
		taken[base] = node.ID
	}

	for _, node := range ranked {
		if _, done := assigned[node.ID]; done {
			continue
		}
		base := bases[node.ID]
		for i := 1; ; i++ {
			candidate := base + strconv.Itoa(i)
			if _, claimed := taken[candidate]; !claimed {
				assigned[node.ID] = candidate
				taken[candidate] = node.ID
				break
			}
		}
	}

	names := Names{byID: assigned}
	if err := names.Verify(); err != nil {
		return Names{}, err
	}
	return names, nil
}

// rankNodes orders nodes by declaring root, keeping discovery order within a root
func rankNodes(nodes []*Node) []*Node {
	ranked := append([]*Node(nil), nodes...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Root < ranked[j].Root
	})
	return ranked
}

// UnusedRenames lists rename keys that match no node, sorted.
func UnusedRenames(g *Graph, renames map[string]string) []string {
	var unused []string
	for key := range renames {
		found := false
		for _, node := range g.Nodes {
			if node.ID.String() == key {
				found = true
				break
			}
		}
		if !found {
			unused = append(unused, key)
		}
	}
	sort.Strings(unused)
	return unused
}
