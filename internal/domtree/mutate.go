package domtree

// InsertChildAt inserts n into e's children at index, reseats its
// parent, and refreshes the cpids of n and every sibling after it.
func (e *Element) InsertChildAt(index int, n Node) {
	children := make([]Node, 0, len(e.children)+1)
	children = append(children, e.children[:index]...)
	children = append(children, n)
	children = append(children, e.children[index:]...)
	e.children = children
	n.setParent(e)

	for i := index; i < len(e.children); i++ {
		e.children[i].UpdateID(i)
	}
}
