// Package genetic implements the population-based layer of the solver: two
// ranked sub-populations (feasible / infeasible) with biased-fitness
// selection, ordered crossover, capacity-penalty adaptation, and the
// orchestrating state machine.
package genetic

import (
	"sort"

	"github.com/katalvlaran/hybridcvrp/solution"
	"github.com/katalvlaran/hybridcvrp/solver"
)

// feasibleHistorySize is the sliding window of admission feasibility bits
// driving penalty adaptation.
const feasibleHistorySize = 100

// diversityEntry is one broken-pairs distance to a peer, keyed by that
// peer's serial number.
type diversityEntry struct {
	distance int
	toNumber uint64
}

// SubPopulation is one cost-sorted half of the population together with its
// diversity table.
type SubPopulation struct {
	// Individuals stays sorted by penalised cost ascending.
	Individuals []*solution.Individual

	// diversity maps an individual's serial number to its distances to all
	// current members, sorted ascending. Never iterated for semantic
	// decisions; lookups are keyed.
	diversity map[uint64][]diversityEntry

	maxIndividuals int
}

func newSubPopulation(ctx *solver.Context) *SubPopulation {
	maxIndividuals := ctx.Config.MinPopulationSize + ctx.Config.PopulationLambda
	return &SubPopulation{
		diversity:      make(map[uint64][]diversityEntry, maxIndividuals),
		maxIndividuals: maxIndividuals,
	}
}

// Size returns the number of individuals.
func (sp *SubPopulation) Size() int {
	return len(sp.Individuals)
}

// Add inserts the individual at its cost-sorted position, refreshes the
// diversity table and fitness ranks, reverts the insertion if it is a clone,
// and runs natural selection when the sub-population overflows.
func (sp *SubPopulation) Add(ctx *solver.Context, ind *solution.Individual) {
	cost := ind.PenalizedCost()
	index := sort.Search(len(sp.Individuals), func(i int) bool {
		return sp.Individuals[i].PenalizedCost() >= cost
	})

	sp.Individuals = append(sp.Individuals, nil)
	copy(sp.Individuals[index+1:], sp.Individuals[index:])
	sp.Individuals[index] = ind

	sp.updateDiversity(index)

	if len(sp.Individuals) > 1 && sp.isClone(ind) {
		sp.remove(index)
	}
	sp.updateFitness(ctx)

	if len(sp.Individuals) >= sp.maxIndividuals {
		for len(sp.Individuals) > ctx.Config.MinPopulationSize {
			sp.naturalSelection(ctx)
		}
	}
}

// Best returns the cheapest individual, or nil when empty.
func (sp *SubPopulation) Best() *solution.Individual {
	if len(sp.Individuals) == 0 {
		return nil
	}
	return sp.Individuals[0]
}

// BestCost returns the cheapest cost, or zero when empty.
func (sp *SubPopulation) BestCost() float64 {
	if best := sp.Best(); best != nil {
		return best.PenalizedCost()
	}
	return 0
}

// AverageCost averages the penalised cost over the best MinPopulationSize
// individuals; −1 when empty.
func (sp *SubPopulation) AverageCost(ctx *solver.Context) float64 {
	size := len(sp.Individuals)
	if size > ctx.Config.MinPopulationSize {
		size = ctx.Config.MinPopulationSize
	}
	if size == 0 {
		return -1
	}
	total := 0.0
	for _, ind := range sp.Individuals[:size] {
		total += ind.PenalizedCost()
	}
	return total / float64(size)
}

// Diversity averages the mean broken-pairs distance over the best
// MinPopulationSize individuals; −1 when empty.
func (sp *SubPopulation) Diversity(ctx *solver.Context) float64 {
	size := len(sp.Individuals)
	if size > ctx.Config.MinPopulationSize {
		size = ctx.Config.MinPopulationSize
	}
	if size == 0 {
		return -1
	}
	total := 0.0
	for _, ind := range sp.Individuals[:size] {
		total += sp.averageBrokenPairs(ind, size)
	}
	return total / float64(size)
}

// Reevaluate refreshes every individual under the current penalty and
// restores the cost order (used after penalty adaptation).
func (sp *SubPopulation) Reevaluate(ctx *solver.Context) {
	for _, ind := range sp.Individuals {
		ind.Evaluate(ctx)
	}
	sort.SliceStable(sp.Individuals, func(a, b int) bool {
		return sp.Individuals[a].PenalizedCost() < sp.Individuals[b].PenalizedCost()
	})
}

// remove evicts the individual at index and drops its diversity row and
// column.
func (sp *SubPopulation) remove(index int) {
	ind := sp.Individuals[index]
	sp.Individuals = append(sp.Individuals[:index], sp.Individuals[index+1:]...)

	delete(sp.diversity, ind.Number)
	for key, entries := range sp.diversity {
		for i, entry := range entries {
			if entry.toNumber == ind.Number {
				sp.diversity[key] = append(entries[:i], entries[i+1:]...)
				break
			}
		}
	}
}

// naturalSelection evicts the worst individual by biased fitness, preferring
// clones over non-clones. The incumbent best (index 0) is never removed.
func (sp *SubPopulation) naturalSelection(ctx *solver.Context) {
	worstIndex := 1
	worstIsClone := false
	worstFitness := -1.0

	for index := 1; index < len(sp.Individuals); index++ {
		isClone := sp.isClone(sp.Individuals[index])
		update := isClone && !worstIsClone
		update = update || (worstIsClone == isClone && sp.Individuals[index].Fitness >= worstFitness)
		if update {
			worstIndex = index
			worstIsClone = isClone
			worstFitness = sp.Individuals[index].Fitness
		}
	}

	sp.remove(worstIndex)
	sp.updateFitness(ctx)
}

// isClone reports whether the individual's closest peer is at broken-pairs
// distance zero.
func (sp *SubPopulation) isClone(ind *solution.Individual) bool {
	entries, ok := sp.diversity[ind.Number]
	if !ok {
		panic("genetic: no diversity row for individual")
	}
	return len(entries) > 0 && entries[0].distance == 0
}

// updateDiversity records the distances between the individual at index and
// every other member, in both directions.
func (sp *SubPopulation) updateDiversity(index int) {
	ind := sp.Individuals[index]
	if _, ok := sp.diversity[ind.Number]; !ok {
		sp.diversity[ind.Number] = make([]diversityEntry, 0, sp.maxIndividuals)
	}
	for other := 0; other < len(sp.Individuals); other++ {
		if other == index {
			continue
		}
		peer := sp.Individuals[other]
		distance := peer.BrokenPairsDistance(ind)
		sp.addDiversity(peer.Number, diversityEntry{distance: distance, toNumber: ind.Number})
		sp.addDiversity(ind.Number, diversityEntry{distance: distance, toNumber: peer.Number})
	}
}

// addDiversity inserts an entry into a distance row, keeping it sorted.
func (sp *SubPopulation) addDiversity(key uint64, entry diversityEntry) {
	entries := sp.diversity[key]
	index := sort.Search(len(entries), func(i int) bool {
		return entries[i].distance >= entry.distance
	})
	entries = append(entries, diversityEntry{})
	copy(entries[index+1:], entries[index:])
	entries[index] = entry
	sp.diversity[key] = entries
}

// averageBrokenPairs averages the distances to the num closest peers.
func (sp *SubPopulation) averageBrokenPairs(ind *solution.Individual, num int) float64 {
	numToCheck := len(sp.Individuals) - 1
	if num < numToCheck {
		numToCheck = num
	}
	entries, ok := sp.diversity[ind.Number]
	if !ok || numToCheck <= 0 {
		return 0
	}
	total := 0
	for i := 0; i < numToCheck; i++ {
		total += entries[i].distance
	}
	return float64(total) / float64(numToCheck)
}

// updateFitness recomputes the biased fitness of every member:
// costRank + (1 − nElite/size)·diversityRank, both ranks normalised to
// [0, 1]; pure cost rank when the sub-population fits inside the elite set.
func (sp *SubPopulation) updateFitness(ctx *solver.Context) {
	size := len(sp.Individuals)
	if size == 0 {
		return
	}
	if size == 1 {
		sp.Individuals[0].Fitness = 0
		return
	}

	numClosest := ctx.Config.NumDiversityClosest

	type divRank struct {
		diversity float64
		index     int
	}
	ranks := make([]divRank, size)
	for index, ind := range sp.Individuals {
		ranks[index] = divRank{diversity: sp.averageBrokenPairs(ind, numClosest), index: index}
	}
	// Highest diversity first; ties resolved by cost rank for determinism.
	sort.SliceStable(ranks, func(a, b int) bool {
		return ranks[a].diversity > ranks[b].diversity
	})

	numElites := ctx.Config.NumElites
	populationFactor := float64(size) - 1
	eliteFactor := 1.0 - float64(numElites)/float64(size)

	for diversityIndex, rank := range ranks {
		diversityRank := float64(diversityIndex) / populationFactor
		fitnessRank := float64(rank.index) / populationFactor

		if size <= numElites {
			sp.Individuals[rank.index].Fitness = fitnessRank
		} else {
			sp.Individuals[rank.index].Fitness = fitnessRank + eliteFactor*diversityRank
		}
	}
}

// Population is the pair of sub-populations plus the admission bookkeeping.
type Population struct {
	// TotalIndividualsCount is the monotonic serial source: every admitted
	// individual gets the next number.
	TotalIndividualsCount uint64

	Feasible   *SubPopulation
	Infeasible *SubPopulation

	// feasibleHistory is the sliding window of the last admissions'
	// feasibility bits.
	feasibleHistory []bool
}

// NewPopulation starts empty with an optimistic (all-feasible) history.
func NewPopulation(ctx *solver.Context) *Population {
	history := make([]bool, feasibleHistorySize)
	for i := range history {
		history[i] = true
	}
	return &Population{
		Feasible:        newSubPopulation(ctx),
		Infeasible:      newSubPopulation(ctx),
		feasibleHistory: history,
	}
}

// Size returns the total number of individuals.
func (p *Population) Size() int {
	return p.Feasible.Size() + p.Infeasible.Size()
}

// Add assigns the next serial number and routes the individual into the
// matching sub-population, optionally recording its feasibility bit.
func (p *Population) Add(ctx *solver.Context, ind *solution.Individual, updateHistory bool) {
	ind.Number = p.TotalIndividualsCount
	if updateHistory {
		p.feasibleHistory = append(p.feasibleHistory[1:], ind.IsFeasible())
	}
	if ind.IsFeasible() {
		p.Feasible.Add(ctx, ind)
	} else {
		p.Infeasible.Add(ctx, ind)
	}
	p.TotalIndividualsCount++
}

// HistoryFraction is the feasible share of the admission window.
func (p *Population) HistoryFraction() float64 {
	count := 0
	for _, feasible := range p.feasibleHistory {
		if feasible {
			count++
		}
	}
	return float64(count) / float64(len(p.feasibleHistory))
}

// Parent selects a parent by k-ary tournament over the union of both
// sub-populations; the contestant with the lowest biased fitness wins.
func (p *Population) Parent(ctx *solver.Context) *solution.Individual {
	return p.tournament(ctx, ctx.Config.TournamentSize)
}

func (p *Population) tournament(ctx *solver.Context, contestants int) *solution.Individual {
	var winner *solution.Individual
	for i := 0; i < contestants; i++ {
		index := ctx.Rand.IntRange(0, p.Size())
		var contestant *solution.Individual
		if index < p.Feasible.Size() {
			contestant = p.Feasible.Individuals[index]
		} else {
			contestant = p.Infeasible.Individuals[index-p.Feasible.Size()]
		}
		if winner == nil || contestant.Fitness < winner.Fitness {
			winner = contestant
		}
	}
	if winner == nil {
		panic("genetic: tournament over empty population")
	}
	return winner
}
