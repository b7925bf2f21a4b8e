// Package optimizer chooses the order in which the operands of a contraction are contracted pairwise.
//
// Each pairwise step contracts two of the "live" operands: the two are removed from the live list, and their
// product is appended at its end. The cost of a step is the product of the extents of all distinct labels
// touched by the two operands, that is, the number of multiply-adds it takes. The cost of an Order is the
// sum of the cost of its steps. Costs saturate at math.MaxInt.
//
// Orders are deterministic: among orders (or pairs, for greedy) of equal cost, the one with the
// lexicographically lowest (lhs, rhs) live positions is chosen.
//
// The optimizer only reasons over labels and sizes, it never touches tensors.
package optimizer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/einsum/contraction"
	"github.com/gomlx/einsum/internal/utils"
	"github.com/gomlx/einsum/types"
	"github.com/gomlx/exceptions"
)

// MaxExhaustiveOperands is the default largest number of operands for which OptimizeAuto uses
// an exhaustive search. Above it, OptimizeGreedy is used.
const MaxExhaustiveOperands = 6

// Step is one pairwise contraction of an Order.
type Step struct {
	// Lhs and Rhs are the positions of the operands in the live list at the time of the step, Lhs < Rhs.
	Lhs, Rhs int

	// Pair holds the classification of the labels of the two operands.
	Pair contraction.PairClassification

	// Output labels of the step: [batch][lhs only][rhs only], except for the last step, which uses the
	// order of the output of the contraction, if they have the same labels.
	Output []rune

	// Cost of the step: product of the extents of all distinct labels touched, saturated at math.MaxInt.
	Cost int
}

// Order is the sequence of pairwise contractions that reduces all operands to one.
// A contraction with one operand has no steps.
type Order struct {
	// Method actually used to find the order: OptimizeAuto is resolved to the method chosen.
	Method types.OptimizationMethod

	Steps []Step

	// Cost is the sum of the costs of the steps, saturated at math.MaxInt.
	Cost int
}

// String returns a multi-line description of the order, one step per line.
func (o *Order) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "order (%s): %d steps, cost %s\n", o.Method, len(o.Steps), humanize.Comma(int64(o.Cost)))
	for ii, step := range o.Steps {
		fmt.Fprintf(&sb, "  #%d: (%d, %d) %s,%s->%s cost %s\n", ii, step.Lhs, step.Rhs,
			string(step.Pair.Lhs), string(step.Pair.Rhs), string(step.Output), humanize.Comma(int64(step.Cost)))
	}
	return sb.String()
}

// Resolve returns the method used for the number of operands: OptimizeAuto is converted to
// OptimizeExhaustive if numOperands <= maxExhaustiveOperands, or to OptimizeGreedy otherwise.
func Resolve(method types.OptimizationMethod, numOperands, maxExhaustiveOperands int) types.OptimizationMethod {
	if method != types.OptimizeAuto {
		return method
	}
	if numOperands <= maxExhaustiveOperands {
		return types.OptimizeExhaustive
	}
	return types.OptimizeGreedy
}

// Optimize returns the Order of pairwise contractions for the sized contraction, using the given method.
// OptimizeAuto uses MaxExhaustiveOperands as the threshold, see OptimizeWithThreshold to change it.
func Optimize(sc *contraction.SizedContraction, method types.OptimizationMethod) *Order {
	return OptimizeWithThreshold(sc, method, MaxExhaustiveOperands)
}

// OptimizeWithThreshold is like Optimize, but with a configurable threshold of operands for OptimizeAuto.
func OptimizeWithThreshold(sc *contraction.SizedContraction, method types.OptimizationMethod, maxExhaustiveOperands int) *Order {
	method = Resolve(method, sc.NumOperands(), maxExhaustiveOperands)
	s := newSearch(sc)
	var pairs [][2]int
	switch method {
	case types.OptimizeNaive:
		pairs = s.naive()
	case types.OptimizeReverse:
		pairs = s.reverse()
	case types.OptimizeGreedy:
		pairs = s.greedy()
	case types.OptimizeExhaustive:
		pairs = s.exhaustive()
	default:
		exceptions.Panicf("unknown optimization method %s", method)
	}
	order := s.buildOrder(pairs)
	order.Method = method
	return order
}

// search holds the state shared by the different methods.
type search struct {
	sc     *contraction.SizedContraction
	output utils.Set[rune]
}

func newSearch(sc *contraction.SizedContraction) *search {
	return &search{
		sc:     sc,
		output: utils.SetWith(sc.Output...),
	}
}

// initialLive returns the distinct labels of each operand.
func (s *search) initialLive() [][]rune {
	live := make([][]rune, len(s.sc.Operands))
	for ii, operand := range s.sc.Operands {
		live[ii] = operand
	}
	return live
}

// keep returns the labels to keep when contracting live[lhs] and live[rhs]: those of the output and of the
// other live operands.
func (s *search) keep(live [][]rune, lhs, rhs int) utils.Set[rune] {
	others := utils.MakeSet[rune]()
	for ii, labels := range live {
		if ii != lhs && ii != rhs {
			others.Insert(labels...)
		}
	}
	return s.output.Union(others)
}

// contract returns the new live list after contracting lhs and rhs, and the classification of the pair.
func (s *search) contract(live [][]rune, lhs, rhs int) ([][]rune, contraction.PairClassification) {
	pair := contraction.ClassifyPair(live[lhs], live[rhs], s.keep(live, lhs, rhs))
	next := make([][]rune, 0, len(live)-1)
	for ii, labels := range live {
		if ii != lhs && ii != rhs {
			next = append(next, labels)
		}
	}
	next = append(next, pair.OutputLabels())
	return next, pair
}

// stepCost is the product of the extents of all labels touched by the two operands.
func (s *search) stepCost(live [][]rune, lhs, rhs int) int {
	return s.sc.Cost(live[lhs], live[rhs])
}

// buildOrder replays the sequence of pairs, and builds the corresponding Order.
func (s *search) buildOrder(pairs [][2]int) *Order {
	order := &Order{}
	live := s.initialLive()
	for ii, pair := range pairs {
		cost := s.stepCost(live, pair[0], pair[1])
		var classification contraction.PairClassification
		live, classification = s.contract(live, pair[0], pair[1])
		step := Step{
			Lhs:    pair[0],
			Rhs:    pair[1],
			Pair:   classification,
			Output: classification.OutputLabels(),
			Cost:   cost,
		}
		if ii == len(pairs)-1 && utils.SetWith(step.Output...).Equal(s.output) {
			step.Output = slices.Clone(s.sc.Output)
		}
		order.Steps = append(order.Steps, step)
		order.Cost = contraction.AddCosts(order.Cost, cost)
	}
	return order
}

// naive contracts the operands from left to right: the first two operands, and then the accumulated
// result (at the end of the live list) with the next operand (at the start of the live list).
func (s *search) naive() [][2]int {
	n := s.sc.NumOperands()
	var pairs [][2]int
	for numLive := n; numLive > 1; numLive-- {
		if numLive == n {
			pairs = append(pairs, [2]int{0, 1})
		} else {
			pairs = append(pairs, [2]int{0, numLive - 1})
		}
	}
	return pairs
}

// reverse contracts the operands from right to left: the last two operands, and then the accumulated
// result (at the end of the live list) with the previous operand.
func (s *search) reverse() [][2]int {
	var pairs [][2]int
	for numLive := s.sc.NumOperands(); numLive > 1; numLive-- {
		pairs = append(pairs, [2]int{numLive - 2, numLive - 1})
	}
	return pairs
}

// greedy repeatedly picks the pair of live operands with the lowest step cost.
func (s *search) greedy() [][2]int {
	live := s.initialLive()
	var pairs [][2]int
	for len(live) > 1 {
		best := [2]int{-1, -1}
		bestCost := 0
		for lhs := 0; lhs < len(live)-1; lhs++ {
			for rhs := lhs + 1; rhs < len(live); rhs++ {
				cost := s.stepCost(live, lhs, rhs)
				if best[0] < 0 || cost < bestCost {
					best, bestCost = [2]int{lhs, rhs}, cost
				}
			}
		}
		pairs = append(pairs, best)
		live, _ = s.contract(live, best[0], best[1])
	}
	return pairs
}

// exhaustive searches all sequences of pairs, depth-first, with the pairs at each level enumerated in
// lexicographic order. Branches whose partial cost is already >= the best total are pruned, so among
// orders of equal cost the first found is kept.
func (s *search) exhaustive() [][2]int {
	var (
		best     [][2]int
		bestCost = -1
		current  [][2]int
	)
	var recurse func(live [][]rune, cost int)
	recurse = func(live [][]rune, cost int) {
		if bestCost >= 0 && cost >= bestCost {
			return
		}
		if len(live) == 1 {
			best = slices.Clone(current)
			bestCost = cost
			return
		}
		for lhs := 0; lhs < len(live)-1; lhs++ {
			for rhs := lhs + 1; rhs < len(live); rhs++ {
				stepCost := s.stepCost(live, lhs, rhs)
				next, _ := s.contract(live, lhs, rhs)
				current = append(current, [2]int{lhs, rhs})
				recurse(next, contraction.AddCosts(cost, stepCost))
				current = current[:len(current)-1]
			}
		}
	}
	recurse(s.initialLive(), 0)
	return best
}
