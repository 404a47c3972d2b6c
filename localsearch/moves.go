package localsearch

import "github.com/katalvlaran/hybridcvrp/config"

// Move is one neighbourhood move anchored on two nodes u and v.
//
// Delta returns the exact change in Σ route penalised cost in O(1), using
// precomputed edge distances and the routes' cached cumulative figures; a
// non-negative delta means no improvement. Perform rewires the linked list
// and refreshes the affected routes via updateRoute.
type Move interface {
	Name() string
	Delta(ls *LocalSearch, u, v *Node) float64
	Perform(ls *LocalSearch, u, v *Node)
}

// moveSet holds the enabled moves for the three anchor situations: v a
// correlated customer, v right after a start depot, and v the start depot of
// an empty route.
type moveSet struct {
	neighbor   []Move
	depot      []Move
	emptyRoute []Move
}

func newMoveSet(cfg *config.Config) moveSet {
	var ms moveSet

	if cfg.RelocateSingle {
		ms.neighbor = append(ms.neighbor, RelocateSingle{})
	}
	if cfg.RelocateDouble {
		ms.neighbor = append(ms.neighbor, RelocateDouble{})
	}
	if cfg.RelocateDoubleReverse {
		ms.neighbor = append(ms.neighbor, RelocateDoubleReverse{})
	}
	if cfg.SwapOneWithOne {
		ms.neighbor = append(ms.neighbor, SwapOneWithOne{})
	}
	if cfg.SwapTwoWithOne {
		ms.neighbor = append(ms.neighbor, SwapTwoWithOne{})
	}
	if cfg.SwapTwoWithTwo {
		ms.neighbor = append(ms.neighbor, SwapTwoWithTwo{})
	}
	if cfg.TwoOptIntraReverse {
		ms.neighbor = append(ms.neighbor, TwoOptIntraReverse{})
	}
	if cfg.TwoOptInterReverse {
		ms.neighbor = append(ms.neighbor, TwoOptInterReverse{})
	}
	if cfg.TwoOptInter {
		ms.neighbor = append(ms.neighbor, TwoOptInter{})
	}

	if cfg.RelocateSingle {
		ms.depot = append(ms.depot, RelocateSingle{})
	}
	if cfg.RelocateDouble {
		ms.depot = append(ms.depot, RelocateDouble{})
	}
	if cfg.RelocateDoubleReverse {
		ms.depot = append(ms.depot, RelocateDoubleReverse{})
	}
	if cfg.TwoOptInterReverse {
		ms.depot = append(ms.depot, TwoOptInterReverse{})
	}
	if cfg.TwoOptInter {
		ms.depot = append(ms.depot, TwoOptInter{})
	}

	if cfg.RelocateSingle {
		ms.emptyRoute = append(ms.emptyRoute, RelocateSingle{})
	}
	if cfg.RelocateDouble {
		ms.emptyRoute = append(ms.emptyRoute, RelocateDouble{})
	}
	if cfg.RelocateDoubleReverse {
		ms.emptyRoute = append(ms.emptyRoute, RelocateDoubleReverse{})
	}
	if cfg.TwoOptInter {
		ms.emptyRoute = append(ms.emptyRoute, TwoOptInter{})
	}

	return ms
}
