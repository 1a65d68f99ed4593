package domtree

// Path is the root-to-node sequence of nodes leading to a given node.
// It is lazily computed and cached per node; only the similarity
// collaborator (internal/similarity) uses it.
type Path struct {
	nodes []Node
}

// Nodes returns the root-to-self sequence backing this path.
func (p *Path) Nodes() []Node { return p.nodes }

// Len returns the number of nodes on the path.
func (p *Path) Len() int { return len(p.nodes) }

// NextLevelPaths returns one child path per child of the path's last
// node (empty for a Text node or childless Element).
func (p *Path) NextLevelPaths() []*Path {
	last := p.nodes[len(p.nodes)-1]
	el, ok := last.(*Element)
	if !ok {
		return nil
	}
	out := make([]*Path, 0, len(el.children))
	for _, child := range el.children {
		extended := make([]Node, len(p.nodes)+1)
		copy(extended, p.nodes)
		extended[len(p.nodes)] = child
		out = append(out, &Path{nodes: extended})
	}
	return out
}

// EqualWOcpid compares two paths ignoring cpid: same length and, at
// each position, the same name/attrs or same name/content (depending on
// node kind) — see Node.EqualWOcpid.
func (p *Path) EqualWOcpid(other *Path) bool {
	if len(p.nodes) != len(other.nodes) {
		return false
	}
	for i := range p.nodes {
		if !p.nodes[i].EqualWOcpid(other.nodes[i]) {
			return false
		}
	}
	return true
}

// Key returns a string uniquely determined by EqualWOcpid-equivalence,
// suitable as a map/counter key.
func (p *Path) Key() string {
	out := make([]byte, 0, 64)
	for _, n := range p.nodes {
		out = append(out, n.nameAndPayloadKey()...)
		out = append(out, '>')
	}
	return string(out)
}
