package einsum

import (
	"io"
	"os"

	"github.com/gomlx/einsum/contraction"
	"github.com/gomlx/einsum/internal/kernels"
	"github.com/gomlx/einsum/optimizer"
	"github.com/gomlx/einsum/types"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// EINSUM_OPTIMIZATION is the environment variable with the default optimization method used by Builder,
// if one is not set with Builder.WithOptimization. It takes the names of types.OptimizationMethod in
// snake case, e.g.: "greedy" or "exhaustive".
const EINSUM_OPTIMIZATION = "EINSUM_OPTIMIZATION"

// Builder is used to configure and build a Path for a sized contraction.
// See details in New.
type Builder struct {
	sc   *contraction.SizedContraction
	name string

	method    types.OptimizationMethod
	methodSet bool

	parallelism           int
	maxExhaustiveOperands int
}

// New creates a new Builder for the contraction path of sc.
//
// Configure it with the With... methods, and then call Builder.Build to create the Path, which
// can be executed on any number of sets of operands with the dimensions given by sc.
//
// Example:
//
//	c := must.M1(contraction.New([]string{"bij", "bjk"}, "bik"))
//	sc := must.M1(contraction.SizeFromDimensions(c, lhs.Shape().Dimensions, rhs.Shape().Dimensions))
//	path, err := einsum.New(sc).WithParallelism(-1).Build()
//	if err != nil { ... }
//	result, err := path.Execute(lhs, rhs)
func New(sc *contraction.SizedContraction) *Builder {
	return &Builder{
		sc:                    sc,
		name:                  "einsum",
		maxExhaustiveOperands: optimizer.MaxExhaustiveOperands,
	}
}

// elementWriter represents elements of a Path that know how to write themselves.
type elementWriter interface {
	Write(w io.Writer, indentation string) error
}

// WithName sets the name of the path, used when printing it.
func (b *Builder) WithName(name string) *Builder {
	b.name = name
	return b
}

// WithOptimization sets the method used to choose the order of pairwise contractions.
//
// The default is taken from the environment variable EINSUM_OPTIMIZATION if set, or
// types.OptimizeAuto otherwise.
func (b *Builder) WithOptimization(method types.OptimizationMethod) *Builder {
	b.method = method
	b.methodSet = true
	return b
}

// WithParallelism sets the maximum number of goroutines used to split the batch of each pairwise
// contraction. If 0 (the default) execution is sequential. If negative, it is unlimited.
//
// Results don't depend on the parallelism: each output element is always computed by the same
// sequential loop.
func (b *Builder) WithParallelism(n int) *Builder {
	b.parallelism = n
	return b
}

// WithMaxExhaustiveOperands sets the largest number of operands for which types.OptimizeAuto
// uses an exhaustive search of the order of contractions. Above it, a greedy search is used.
//
// The default is optimizer.MaxExhaustiveOperands.
func (b *Builder) WithMaxExhaustiveOperands(n int) *Builder {
	b.maxExhaustiveOperands = n
	return b
}

// optimizationMethod returns the configured optimization method, or the one from the environment.
func (b *Builder) optimizationMethod() (types.OptimizationMethod, error) {
	if b.methodSet {
		if !b.method.IsAOptimizationMethod() {
			return 0, errors.Errorf("invalid optimization method %d", b.method)
		}
		return b.method, nil
	}
	config, found := os.LookupEnv(EINSUM_OPTIMIZATION)
	if !found || config == "" {
		return types.OptimizeAuto, nil
	}
	method, err := types.OptimizationMethodString(config)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid value for $%s, valid values are %q", EINSUM_OPTIMIZATION,
			types.OptimizationMethodStrings())
	}
	return method, nil
}

// Build chooses the order of contractions and compiles the Path.
//
// It returns an error if the sized contraction is nil or the configuration is invalid.
func (b *Builder) Build() (*Path, error) {
	if b.sc == nil {
		return nil, errors.New("einsum.New() requires a sized contraction, got nil")
	}
	if b.maxExhaustiveOperands < 0 {
		return nil, errors.Errorf("WithMaxExhaustiveOperands(%d) must be >= 0", b.maxExhaustiveOperands)
	}
	method, err := b.optimizationMethod()
	if err != nil {
		return nil, err
	}
	order := optimizer.OptimizeWithThreshold(b.sc, method, b.maxExhaustiveOperands)
	path := newPath(b.name, b.sc, order, kernels.NewPool(b.parallelism))
	path.compile()
	if klog.V(1).Enabled() {
		klog.Infof("einsum path %q for %s: %d statements, %s, estimated cost %s",
			path.Name, b.sc, len(path.Statements), order.Method, path.Cost())
	}
	return path, nil
}
