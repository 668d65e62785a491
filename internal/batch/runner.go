package batch

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/zeebo/xxh3"

	"github.com/mesh-intelligence/djirun/pkg/types"
)

// Policy decides what happens after a file fails.
type Policy int

const (
	// HaltOnError stops the batch at the first failed file.
	HaltOnError Policy = iota
	// ContinueOnError records the failure and moves to the next file.
	ContinueOnError
)

func (p Policy) String() string {
	if p == ContinueOnError {
		return "continue"
	}
	return "halt"
}

// Converter converts one export held in memory.
type Converter interface {
	Convert(ctx context.Context, data []byte) (*types.OutputArtifact, error)
}

// Result describes one input file.
type Result struct {
	Input  string `json:"input"`
	Size   uint64 `json:"size"`
	Digest string `json:"digest,omitempty"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`

	Err error `json:"-"`
}

// OK reports whether the file was converted and emitted.
func (r Result) OK() bool {
	return r.Err == nil
}

// Summary is the outcome of a batch run. Results are in input order.
type Summary struct {
	RunID    string   `json:"run_id"`
	Policy   string   `json:"policy"`
	Results  []Result `json:"results"`
	Rejected []Result `json:"rejected,omitempty"`
	Halted   bool     `json:"halted"`
}

// Converted returns the number of files emitted successfully.
func (s *Summary) Converted() int {
	n := 0
	for _, r := range s.Results {
		if r.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of accepted files that did not convert.
func (s *Summary) Failed() int {
	return len(s.Results) - s.Converted()
}

// Runner converts files sequentially.
type Runner struct {
	conv     Converter
	sink     Sink
	policy   Policy
	maxSize  uint64
	log      zerolog.Logger
	readFile func(string) ([]byte, error)
}

// Option configures a Runner.
type Option func(*Runner)

// WithPolicy sets the failure policy. Default: HaltOnError.
func WithPolicy(p Policy) Option {
	return func(r *Runner) { r.policy = p }
}

// WithMaxInputSize sets the largest accepted input in bytes.
func WithMaxInputSize(n uint64) Option {
	return func(r *Runner) { r.maxSize = n }
}

// WithLogger sets the logger for per-file progress.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// NewRunner returns a Runner that converts with conv and emits to sink.
func NewRunner(conv Converter, sink Sink, opts ...Option) *Runner {
	r := &Runner{
		conv:     conv,
		sink:     sink,
		policy:   HaltOnError,
		maxSize:  types.DefaultMaxInputSize,
		log:      zerolog.Nop(),
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run converts inputs in order. Rejected inputs are skipped and listed in
// Summary.Rejected; if none remain Run returns ErrNoInputs. Under
// HaltOnError the first failure stops the batch and is returned along with
// the partial summary. Under ContinueOnError failures are only recorded.
// Cancellation is honored between files, never inside one.
func (r *Runner) Run(ctx context.Context, inputs []string) (*Summary, error) {
	runID := newRunID()
	log := r.log.With().Str("run_id", runID).Logger()
	summary := &Summary{RunID: runID, Policy: r.policy.String()}

	type accepted struct {
		path string
		size uint64
	}
	var queue []accepted
	for _, in := range inputs {
		size, err := Accept(in, r.maxSize)
		if err != nil {
			log.Warn().Err(err).Str("input", in).Msg("input rejected")
			summary.Rejected = append(summary.Rejected, Result{Input: in, Size: size, Error: err.Error(), Err: err})
			continue
		}
		queue = append(queue, accepted{path: in, size: size})
	}
	if len(queue) == 0 {
		return summary, ErrNoInputs
	}

	seen := make(map[uint64]string)
	for i, in := range queue {
		if err := ctx.Err(); err != nil {
			summary.Halted = true
			return summary, err
		}

		res := r.convertOne(ctx, log, in.path, seen)
		summary.Results = append(summary.Results, res)

		if res.OK() {
			log.Info().
				Str("input", in.path).
				Str("size", humanize.IBytes(res.Size)).
				Str("digest", res.Digest).
				Str("output", res.Output).
				Int("file", i+1).
				Int("of", len(queue)).
				Msg("converted")
			continue
		}

		log.Warn().Err(res.Err).Str("input", in.path).Msg("conversion failed")
		if r.policy == HaltOnError {
			summary.Halted = i < len(queue)-1
			return summary, fmt.Errorf("%s: %w", in.path, res.Err)
		}
	}
	return summary, nil
}

func (r *Runner) convertOne(ctx context.Context, log zerolog.Logger, path string, seen map[uint64]string) Result {
	res := Result{Input: path}
	fail := func(err error) Result {
		res.Err = err
		res.Error = err.Error()
		return res
	}

	data, err := r.readFile(path)
	if err != nil {
		return fail(fmt.Errorf("read input: %w", err))
	}
	res.Size = uint64(len(data))

	sum := xxh3.Hash(data)
	res.Digest = fmt.Sprintf("%016x", sum)
	if prev, ok := seen[sum]; ok {
		log.Warn().Str("input", path).Str("same_as", prev).Msg("duplicate input")
	} else {
		seen[sum] = path
	}

	art, err := r.conv.Convert(ctx, data)
	if err != nil {
		return fail(err)
	}

	out, err := r.sink.Emit(ctx, art)
	if err != nil {
		return fail(fmt.Errorf("%w: %s: %w", ErrEmit, art.Filename, err))
	}
	res.Output = out
	return res
}

// newRunID returns a time-ordered identifier for one batch run.
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
