package ast

// ArrayLiteral builds an ordered, heterogeneous sequence.
type ArrayLiteral struct {
	Elements []Node
}

func (n *ArrayLiteral) Kind() Kind       { return KindArrayLiteral }
func (n *ArrayLiteral) Children() []Node { return n.Elements }

// ArrayGet, ArraySet, ArrayPush, and ArrayLen all operate by variable name
// on the array bound to that name, not on an arbitrary expression; use
// Index for that.
type ArrayGet struct {
	Name  string
	Index Node
}

func (n *ArrayGet) Kind() Kind       { return KindArrayGet }
func (n *ArrayGet) Children() []Node { return []Node{n.Index} }

type ArraySet struct {
	Name  string
	Index Node
	Value Node
}

func (n *ArraySet) Kind() Kind       { return KindArraySet }
func (n *ArraySet) Children() []Node { return []Node{n.Index, n.Value} }

type ArrayPush struct {
	Name  string
	Value Node
}

func (n *ArrayPush) Kind() Kind       { return KindArrayPush }
func (n *ArrayPush) Children() []Node { return []Node{n.Value} }

type ArrayLen struct {
	Name string
}

func (n *ArrayLen) Kind() Kind       { return KindArrayLen }
func (n *ArrayLen) Children() []Node { return nil }

// Index applies to an arbitrary array- or string-valued expression, unlike
// the name-bound Array* family above.
type Index struct {
	Target Node
	At     Node
}

func (n *Index) Kind() Kind       { return KindIndex }
func (n *Index) Children() []Node { return []Node{n.Target, n.At} }

// ObjectLiteral builds an insertion-ordered mapping; a later key overwrites
// an earlier one rather than appending a duplicate.
type ObjectLiteral struct {
	Keys   []string
	Values []Node
}

func (n *ObjectLiteral) Kind() Kind       { return KindObjectLiteral }
func (n *ObjectLiteral) Children() []Node { return n.Values }

// PropertyGet fetches a field from an object-valued expression.
type PropertyGet struct {
	Target Node
	Key    string
}

func (n *PropertyGet) Kind() Kind       { return KindPropertyGet }
func (n *PropertyGet) Children() []Node { return []Node{n.Target} }
