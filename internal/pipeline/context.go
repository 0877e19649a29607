package pipeline

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/funvibe/lattice/internal/config"
	"github.com/funvibe/lattice/internal/infer"
	"github.com/funvibe/lattice/internal/traits"
	"github.com/funvibe/lattice/internal/typesystem"
)

// PipelineContext carries one case through the pipeline. Each case owns its
// own inference context, so cases can run on separate goroutines.
type PipelineContext struct {
	SuitePath string
	Suite     *config.Suite
	Index     int
	Case      config.Case

	Infcx *infer.Context
	Queue *traits.Queue

	A, B   typesystem.Type
	Result typesystem.Type // fully resolved result of the lattice operation

	// RelationErr is the relation error returned by the lattice operation,
	// which may be the expected outcome of the case.
	RelationErr error

	// Errors are failures of the case itself: parse errors and unmet
	// expectations.
	Errors []error

	vars map[string]typesystem.Type
}

// NewPipelineContext prepares case i of suite for running.
// A suite with malformed variances yields a context that already carries
// the error, so the case is reported as failed without being run.
func NewPipelineContext(suite *config.Suite, path string, i int, logger logrus.FieldLogger) *PipelineContext {
	ctx := &PipelineContext{
		SuitePath: path,
		Suite:     suite,
		Index:     i,
		Case:      suite.Cases[i],
		Queue:     traits.NewQueue(),
		vars:      make(map[string]typesystem.Type),
	}
	variances, err := parseVariances(suite.Variances)
	if err != nil {
		ctx.addError("variances: %w", err)
	}
	ctx.Infcx = infer.NewContext(infer.Options{
		IsLocal:   infer.LocalUnit(suite.Unit),
		Variances: variances,
		Logger:    logger,
	})
	return ctx
}

// Passed reports whether the case met all of its expectations.
func (ctx *PipelineContext) Passed() bool {
	return len(ctx.Errors) == 0
}

// Cause is the provenance attached to constraints generated by the case.
func (ctx *PipelineContext) Cause() traits.Cause {
	return traits.Cause{
		Span: infer.Span{File: ctx.SuitePath, Line: ctx.Index + 1},
		Kind: traits.IfExpression,
	}
}

// Var returns the variable named name, creating it on first use.
func (ctx *PipelineContext) Var(name string) typesystem.Type {
	if v, ok := ctx.vars[name]; ok {
		return v
	}
	v := ctx.Infcx.FreshVar(infer.VarOrigin{Kind: infer.TypeInference, Span: ctx.Cause().Span})
	ctx.vars[name] = v
	return v
}

func (ctx *PipelineContext) addError(format string, args ...interface{}) {
	ctx.Errors = append(ctx.Errors, fmt.Errorf(format, args...))
}

// parseVariances converts suite variances. Suites loaded through
// config.ParseSuite are already validated; hand-built ones may not be.
func parseVariances(in map[string][]string) (map[string][]typesystem.Variance, error) {
	out := make(map[string][]typesystem.Variance, len(in))
	for name, vs := range in {
		for j, v := range vs {
			variance, err := typesystem.ParseVariance(v)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", name, j, err)
			}
			out[name] = append(out[name], variance)
		}
	}
	return out, nil
}
