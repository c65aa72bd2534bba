package pipeline

import (
	"context"
	"fmt"
)

// Stage names, in pipeline order.
const (
	StageNormalize     = "normalize"
	StageInline        = "inline"
	StageListBlocks    = "list-blocks"
	StageExampleBlocks = "example-blocks"
	StageFrontMatter   = "front-matter"
)

// DefaultCodeLanguage tags fenced code blocks produced from example: blocks.
const DefaultCodeLanguage = "rust"

// List items are preceded by "--", the incremental-reveal separator of the
// slide dialect, so each bullet appears on its own step.
const listItemPrefix = "--\n* "

// Stage is one named text transformation. Apply must be a pure function of
// its input; stages that do not rewrite blocks return zero BlockStats.
type Stage struct {
	Name  string
	Apply func(content string) (string, BlockStats)
}

// textStage adapts a plain string transformation into a Stage.
func textStage(name string, fn func(string) string) Stage {
	return Stage{
		Name: name,
		Apply: func(content string) (string, BlockStats) {
			return fn(content), BlockStats{}
		},
	}
}

// blockStage adapts a BlockRewriter into a Stage.
func blockStage(name string, rw *BlockRewriter) Stage {
	return Stage{Name: name, Apply: rw.Rewrite}
}

// Options tunes the slide pipeline.
type Options struct {
	// CodeLanguage tags the fenced code blocks (default DefaultCodeLanguage).
	CodeLanguage string
	// AllowUnindentedStart also opens list:/example: blocks at column 0.
	AllowUnindentedStart bool
	// CloseUnterminated closes blocks still open at end of input.
	CloseUnterminated bool
	// SkipNormalize leaves line endings untouched.
	SkipNormalize bool
	// ComposeUnicode puts the text in Unicode NFC. Ignored with SkipNormalize.
	ComposeUnicode bool
}

// StageReport records what one stage did.
type StageReport struct {
	Name   string
	Blocks BlockStats
}

// Report is the outcome of a pipeline run.
type Report struct {
	Stages []StageReport
}

// Blocks returns the block statistics of the named stage.
func (r Report) Blocks(name string) BlockStats {
	for _, s := range r.Stages {
		if s.Name == name {
			return s.Blocks
		}
	}
	return BlockStats{}
}

// TotalBlocks sums block statistics across all stages.
func (r Report) TotalBlocks() BlockStats {
	var total BlockStats
	for _, s := range r.Stages {
		total = total.Add(s.Blocks)
	}
	return total
}

// Pipeline is an ordered list of stages. Each stage sees the output of the
// previous one; the order is significant.
type Pipeline struct {
	stages []Stage
}

// New returns a pipeline running stages in the given order.
func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// NewSlidePipeline returns the slide-markup to Markdown pipeline:
// normalize, inline, list-blocks, example-blocks, front-matter.
// header is prepended verbatim by the last stage.
func NewSlidePipeline(header string, opts Options) *Pipeline {
	lang := opts.CodeLanguage
	if lang == "" {
		lang = DefaultCodeLanguage
	}

	var stages []Stage
	switch {
	case opts.SkipNormalize:
	case opts.ComposeUnicode:
		stages = append(stages, textStage(StageNormalize, NormalizeUnicode))
	default:
		stages = append(stages, textStage(StageNormalize, Normalize))
	}

	inline := NewInlineRewriter()
	stages = append(stages,
		textStage(StageInline, inline.Rewrite),
		blockStage(StageListBlocks, NewBlockRewriter(listBlockStart, BlockConfig{
			LineMap:              func(line string) string { return listItemPrefix + line },
			AllowUnindentedStart: opts.AllowUnindentedStart,
			CloseAtEOF:           opts.CloseUnterminated,
		})),
		blockStage(StageExampleBlocks, NewBlockRewriter(exampleBlockStart, BlockConfig{
			Before:               "```" + lang,
			After:                "```",
			AllowUnindentedStart: opts.AllowUnindentedStart,
			CloseAtEOF:           opts.CloseUnterminated,
		})),
		textStage(StageFrontMatter, func(content string) string {
			return header + content
		}),
	)

	return New(stages...)
}

// Stages returns the stage names in execution order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Run applies every stage in order. Cancellation is checked between stages.
func (p *Pipeline) Run(ctx context.Context, content string) (string, Report, error) {
	report := Report{Stages: make([]StageReport, 0, len(p.stages))}
	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return "", report, fmt.Errorf("stage %s: %w", stage.Name, err)
		}
		var stats BlockStats
		content, stats = stage.Apply(content)
		report.Stages = append(report.Stages, StageReport{Name: stage.Name, Blocks: stats})
	}
	return content, report, nil
}
