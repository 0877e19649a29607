package pipeline

// Processor is one stage of a case pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Default returns the standard parse, compute and check pipeline.
func Default() *Pipeline {
	return New(&ParseProcessor{}, &LatticeProcessor{}, &CheckProcessor{})
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Later stages see earlier failures and skip their own work, but
		// still run so that every problem with a case is reported.
	}
	return ctx
}
