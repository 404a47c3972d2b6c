package localsearch

import (
	"math"

	"github.com/katalvlaran/hybridcvrp/vrp"
)

// Node is one customer (or depot sentinel) in the linked route graph. Each
// route owns its own pair of depot sentinels so a customer node can always be
// referenced unambiguously.
type Node struct {
	// Number is the problem location index; 0 marks a depot sentinel.
	Number int
	Angle  int

	Successor   *Node
	Predecessor *Node
	Route       *Route
	Position    int

	// LastTested is the move count at which this node was last used as a
	// pivot; pairs are re-examined only after one of their routes changed.
	LastTested int64

	// CumDistance and CumLoad are prefix sums from the start depot.
	CumDistance float64
	CumLoad     float64

	// DeltaRemoval is the distance change if this node were removed from its
	// route; cached by the SWAP* preprocessing.
	DeltaRemoval float64
}

func newNode(number, angle int) *Node {
	return &Node{Number: number, Angle: angle}
}

// IsDepot reports whether the node is a depot sentinel.
func (n *Node) IsDepot() bool {
	return n.Number == 0
}

// linkNodes chains a → b in both directions.
func linkNodes(a, b *Node) {
	a.Successor = b
	b.Predecessor = a
}

// insertAfter unlinks u from its position and re-links it right after v.
// All neighbours are read before any pointer changes.
func insertAfter(u, v *Node) {
	uPrev := u.Predecessor
	uNext := u.Successor
	vNext := v.Successor
	linkNodes(uPrev, uNext)
	linkNodes(v, u)
	linkNodes(u, vNext)
}

// forwardReverse flips the (pred, succ) pairs of the chain after from,
// walking successors until to (inclusive) or the chain end. When the walk
// reaches the end and newFirst is set, newFirst becomes the new head link.
func forwardReverse(from, to, newFirst *Node) {
	node := from.Successor
	for node != nil {
		next := node.Successor
		if next == nil && newFirst != nil {
			linkNodes(newFirst, from)
		} else {
			linkNodes(node, from)
		}
		if to != nil && node.Number == to.Number {
			break
		}
		from = node
		node = next
	}
}

// backwardReverse is the mirror image of forwardReverse over predecessors.
func backwardReverse(from, to, newLast *Node) {
	node := from.Predecessor
	for node != nil {
		next := node.Predecessor
		if next == nil && newLast != nil {
			linkNodes(from, newLast)
		} else {
			linkNodes(from, node)
		}
		if to != nil && node.Number == to.Number {
			break
		}
		from = node
		node = next
	}
}

// replaceEndDepot walks to the end of from's chain and swaps the final
// sentinel for endDepot.
func replaceEndDepot(from, endDepot *Node) {
	next := from.Successor
	for next != nil {
		if next.Successor == nil {
			linkNodes(from, endDepot)
		}
		from = next
		next = from.Successor
	}
}

// Route is one vehicle tour in the linked graph, bracketed by its start and
// end depot sentinels. The chains of all routes stay disjoint and simple:
// startDepot → customer* → endDepot.
type Route struct {
	Index int

	StartDepot *Node
	EndDepot   *Node

	NumCustomers int

	// LastModified and LastTestedSwapStar are move-count timestamps driving
	// the lazy move-skipping rules.
	LastModified       int64
	LastTestedSwapStar int64

	// Sector is the angular span of the route's customers around the depot.
	Sector vrp.CircleSector

	Distance float64
	Load     float64
	Overload float64
	Cost     float64
}

func newRoute(index int, start, end *Node) *Route {
	return &Route{
		Index:      index,
		StartDepot: start,
		EndDepot:   end,
		Distance:   math.Inf(1),
		Load:       math.Inf(1),
		Overload:   math.Inf(1),
		Cost:       math.Inf(1),
	}
}

// IsEmpty reports whether the route visits no customer.
func (r *Route) IsEmpty() bool {
	return r.NumCustomers == 0
}

// Customers returns the visited customer numbers in order.
func (r *Route) Customers() []int {
	customers := make([]int, 0, r.NumCustomers)
	for node := r.StartDepot; node != nil; node = node.Successor {
		if !node.IsDepot() {
			customers = append(customers, node.Number)
		}
	}
	return customers
}

// InsertLocation is one candidate insertion position with its distance delta.
type InsertLocation struct {
	Cost float64
	Node *Node
}

func (l *InsertLocation) reset() {
	l.Cost = math.Inf(1)
	l.Node = nil
}

// ThreeBestInserts caches the three cheapest insertion positions of a
// customer into a route, cost-sorted ascending.
type ThreeBestInserts struct {
	Locations      [3]InsertLocation
	LastCalculated int64
}

func (t *ThreeBestInserts) reset() {
	for i := range t.Locations {
		t.Locations[i].reset()
	}
}

// add keeps the three cheapest locations in sorted order.
func (t *ThreeBestInserts) add(loc InsertLocation) {
	switch {
	case loc.Cost > t.Locations[2].Cost:
	case loc.Cost > t.Locations[1].Cost:
		t.Locations[2] = loc
	case loc.Cost > t.Locations[0].Cost:
		t.Locations[2] = t.Locations[1]
		t.Locations[1] = loc
	default:
		t.Locations[2] = t.Locations[1]
		t.Locations[1] = t.Locations[0]
		t.Locations[0] = loc
	}
}
