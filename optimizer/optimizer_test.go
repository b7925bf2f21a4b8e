package optimizer

import (
	"fmt"
	"math"
	"testing"

	"github.com/gomlx/einsum/contraction"
	"github.com/gomlx/einsum/types"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sized(t *testing.T, operands []string, output string, sizes map[rune]int) *contraction.SizedContraction {
	t.Helper()
	c, err := contraction.New(operands, output)
	require.NoError(t, err)
	sc, err := contraction.NewSized(c, sizes)
	require.NoError(t, err)
	return sc
}

func pairsOf(order *Order) [][2]int {
	pairs := make([][2]int, len(order.Steps))
	for ii, step := range order.Steps {
		pairs[ii] = [2]int{step.Lhs, step.Rhs}
	}
	return pairs
}

func TestChain(t *testing.T) {
	sc := sized(t, []string{"ij", "jk", "kl"}, "il", map[rune]int{'i': 2, 'j': 3, 'k': 4, 'l': 5})

	naive := Optimize(sc, types.OptimizeNaive)
	assert.Equal(t, types.OptimizeNaive, naive.Method)
	assert.Equal(t, [][2]int{{0, 1}, {0, 1}}, pairsOf(naive))
	require.Len(t, naive.Steps, 2)
	assert.Equal(t, 24, naive.Steps[0].Cost)
	assert.Equal(t, []rune("ik"), naive.Steps[0].Output)
	assert.Equal(t, []rune("j"), naive.Steps[0].Pair.Contracted)
	// The last step produces the output labels in the output order.
	assert.Equal(t, []rune("kl"), naive.Steps[1].Pair.Lhs)
	assert.Equal(t, []rune("ik"), naive.Steps[1].Pair.Rhs)
	assert.Equal(t, []rune("il"), naive.Steps[1].Output)
	assert.Equal(t, 40, naive.Steps[1].Cost)
	assert.Equal(t, 64, naive.Cost)

	reverse := Optimize(sc, types.OptimizeReverse)
	assert.Equal(t, [][2]int{{1, 2}, {0, 1}}, pairsOf(reverse))
	assert.Equal(t, 60+30, reverse.Cost)
	assert.Equal(t, []rune("jl"), reverse.Steps[0].Output)

	greedy := Optimize(sc, types.OptimizeGreedy)
	assert.Equal(t, [][2]int{{0, 1}, {0, 1}}, pairsOf(greedy))
	assert.Equal(t, 64, greedy.Cost)

	exhaustive := Optimize(sc, types.OptimizeExhaustive)
	assert.Equal(t, [][2]int{{0, 1}, {0, 1}}, pairsOf(exhaustive))
	assert.Equal(t, 64, exhaustive.Cost)

	auto := Optimize(sc, types.OptimizeAuto)
	assert.Equal(t, types.OptimizeExhaustive, auto.Method)
	assert.Equal(t, exhaustive.Steps, auto.Steps)

	assert.Contains(t, auto.String(), "cost 64")
	assert.Contains(t, auto.String(), "kl,ik->il")
}

func TestTies(t *testing.T) {
	// All pairs have the same cost: the lowest positions are chosen.
	sc := sized(t, []string{"i", "i", "i", "i"}, "i", map[rune]int{'i': 3})
	for _, method := range []types.OptimizationMethod{types.OptimizeGreedy, types.OptimizeExhaustive} {
		order := Optimize(sc, method)
		assert.Equal(t, [][2]int{{0, 1}, {0, 1}, {0, 1}}, pairsOf(order), "method %s", method)
		assert.Equal(t, 9, order.Cost)
	}
}

func TestSingleOperand(t *testing.T) {
	sc := sized(t, []string{"iij"}, "j", map[rune]int{'i': 3, 'j': 2})
	for _, method := range types.OptimizationMethodValues() {
		order := Optimize(sc, method)
		assert.Empty(t, order.Steps)
		assert.Equal(t, 0, order.Cost)
	}
}

func TestResolve(t *testing.T) {
	assert.Equal(t, types.OptimizeExhaustive, Resolve(types.OptimizeAuto, MaxExhaustiveOperands, MaxExhaustiveOperands))
	assert.Equal(t, types.OptimizeGreedy, Resolve(types.OptimizeAuto, MaxExhaustiveOperands+1, MaxExhaustiveOperands))
	assert.Equal(t, types.OptimizeNaive, Resolve(types.OptimizeNaive, 100, MaxExhaustiveOperands))

	operands := make([]string, 8)
	sizes := make(map[rune]int)
	for ii := range operands {
		a, b := rune('a'+ii), rune('a'+ii+1)
		operands[ii] = string([]rune{a, b})
		sizes[a], sizes[b] = ii+2, ii+3
	}
	sc := sized(t, operands, "ai", sizes)
	assert.Equal(t, types.OptimizeGreedy, Optimize(sc, types.OptimizeAuto).Method)
	assert.Equal(t, types.OptimizeGreedy, OptimizeWithThreshold(sc, types.OptimizeAuto, 7).Method)
}

func TestExhaustiveIsOptimal(t *testing.T) {
	// Outer products are expensive, and greedy can be lured into a cheap first step.
	testCases := []struct {
		operands []string
		output   string
		sizes    map[rune]int
	}{
		{[]string{"ab", "bc", "cd", "de"}, "ae", map[rune]int{'a': 10, 'b': 2, 'c': 30, 'd': 2, 'e': 10}},
		{[]string{"ij", "k", "jk", "il"}, "l", map[rune]int{'i': 7, 'j': 5, 'k': 3, 'l': 11}},
		{[]string{"abc", "cd", "bde", "ea"}, "", map[rune]int{'a': 4, 'b': 3, 'c': 5, 'd': 2, 'e': 6}},
	}
	for _, tc := range testCases {
		sc := sized(t, tc.operands, tc.output, tc.sizes)
		t.Run(sc.String(), func(t *testing.T) {
			exhaustive := Optimize(sc, types.OptimizeExhaustive)
			require.Len(t, exhaustive.Steps, len(tc.operands)-1)
			for _, method := range []types.OptimizationMethod{types.OptimizeNaive, types.OptimizeReverse, types.OptimizeGreedy} {
				other := Optimize(sc, method)
				require.Len(t, other.Steps, len(tc.operands)-1)
				assert.LessOrEqual(t, exhaustive.Cost, other.Cost, fmt.Sprintf("exhaustive vs %s", method))
			}

			// Steps reduce the live operands to the output labels.
			last := exhaustive.Steps[len(exhaustive.Steps)-1]
			assert.ElementsMatch(t, sc.Output, last.Output)

			// The order is deterministic.
			again := Optimize(must.M1(contraction.NewSized(&sc.Contraction, sc.Sizes)), types.OptimizeExhaustive)
			assert.Equal(t, pairsOf(exhaustive), pairsOf(again))
		})
	}
}

func TestLargeExtents(t *testing.T) {
	// Any step touching all four labels has 2^64 multiply-adds: its cost saturates at math.MaxInt.
	const extent = 1 << 16
	sc := sized(t, []string{"ab", "cd", "bd", "ac"}, "", map[rune]int{'a': extent, 'b': extent, 'c': extent, 'd': extent})
	cheapest := 2*(1<<48) + (1 << 32)
	for _, method := range []types.OptimizationMethod{types.OptimizeGreedy, types.OptimizeExhaustive} {
		order := Optimize(sc, method)
		fmt.Printf("%s", order)
		require.Len(t, order.Steps, 3)
		assert.Equal(t, cheapest, order.Cost, "method %s", method)
		assert.Equal(t, [2]int{0, 2}, [2]int{order.Steps[0].Lhs, order.Steps[0].Rhs}, "method %s", method)
		for _, step := range order.Steps {
			assert.Less(t, step.Cost, math.MaxInt, "method %s", method)
		}
	}

	// Outer product ab,cd->abcd first.
	naive := Optimize(sc, types.OptimizeNaive)
	assert.Equal(t, math.MaxInt, naive.Steps[0].Cost)
	assert.Equal(t, math.MaxInt, naive.Cost)
	assert.Contains(t, naive.String(), "ab,cd->abcd cost 9,223,372,036,854,775,807")
	// bd,ac->abcd first.
	reverse := Optimize(sc, types.OptimizeReverse)
	assert.Equal(t, math.MaxInt, reverse.Cost)
}
