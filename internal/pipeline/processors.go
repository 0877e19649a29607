package pipeline

import (
	"errors"

	"github.com/funvibe/lattice/internal/config"
	"github.com/funvibe/lattice/internal/lattice"
	"github.com/funvibe/lattice/internal/relate"
	"github.com/funvibe/lattice/internal/traits"
	"github.com/funvibe/lattice/internal/typesystem"
)

// ParseProcessor parses both operands of the case. A case whose context
// could not be set up is left unparsed.
type ParseProcessor struct{}

func (p *ParseProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if !ctx.Passed() {
		return ctx
	}
	var err error
	if ctx.A, err = typesystem.Parse(ctx.Case.A, ctx.Var); err != nil {
		ctx.addError("a: %w", err)
	}
	if ctx.B, err = typesystem.Parse(ctx.Case.B, ctx.Var); err != nil {
		ctx.addError("b: %w", err)
	}
	return ctx
}

// LatticeProcessor runs the join or meet.
type LatticeProcessor struct{}

func (p *LatticeProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if !ctx.Passed() {
		return ctx
	}
	fields := relate.NewFields(ctx.Infcx, ctx.Cause(), traits.ParamEnv{}, ctx.Queue, ctx.Suite.OpaqueTypesAllowed())

	var dir lattice.Direction = lattice.NewJoin(fields, true)
	if ctx.Case.Direction == config.DirectionMeet {
		dir = lattice.NewMeet(fields, true)
	}
	res, err := lattice.Compute(dir, ctx.A, ctx.B)
	if err != nil {
		ctx.RelationErr = err
		return ctx
	}
	ctx.Result = ctx.Infcx.ResolveDeep(res)
	return ctx
}

// CheckProcessor compares the outcome against the case expectations.
type CheckProcessor struct{}

func (p *CheckProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.A == nil || ctx.B == nil {
		return ctx
	}
	c := ctx.Case
	switch {
	case c.ExpectError:
		var te *typesystem.TypeError
		if ctx.RelationErr == nil {
			ctx.addError("expected a relation error, got %s", ctx.Result)
		} else if !errors.As(ctx.RelationErr, &te) {
			ctx.addError("expected a relation error, got %w", ctx.RelationErr)
		}
	case ctx.RelationErr != nil:
		ctx.addError("unexpected error: %w", ctx.RelationErr)
	case c.Expect != "":
		want, err := typesystem.Parse(c.Expect, ctx.Var)
		if err != nil {
			ctx.addError("expect: %w", err)
			break
		}
		want = ctx.Infcx.ResolveDeep(want)
		if !typesystem.Equal(want, ctx.Result) {
			ctx.addError("expected %s, got %s", want, ctx.Result)
		}
	}
	if c.Obligations != nil && ctx.Queue.Pushed() != *c.Obligations {
		ctx.addError("expected %d obligations, got %d", *c.Obligations, ctx.Queue.Pushed())
	}
	return ctx
}
