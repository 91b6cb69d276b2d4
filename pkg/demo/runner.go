package demo

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sanity-io/litter"

	"github.com/rhuss/litedemo/pkg/debug"
	"github.com/rhuss/litedemo/pkg/observability"
	"github.com/rhuss/litedemo/pkg/provider"
)

// Output labels.
const (
	NonStreamHeader = "Running LiteLLM Client Non-Stream Mode:"
	StreamHeader    = "Running LiteLLM Client Stream Mode:"

	NonStreamPrefix = "Non-streaming response:"
	StreamPrefix    = "Streaming response:"

	NonStreamErrorPrefix = "Error in non-stream mode:"
	StreamErrorPrefix    = "Error in streaming mode:"
)

var dumper = litter.Options{Compact: true, StripPackageNames: true}

// Options configures what the demo asks for.
type Options struct {
	Model  string
	Prompt string

	// RawChunks prints a dump of each chunk on its own line instead of
	// the concatenated text.
	RawChunks bool
}

// Result describes the outcome of one call.
type Result struct {
	Mode      string
	Success   bool
	Err       error
	Fragments int
	Elapsed   time.Duration
}

// Runner performs the demo calls and writes their output.
type Runner struct {
	provider provider.Provider
	out      io.Writer
	opts     Options
}

// NewRunner returns a Runner writing to out. If out has a Flush() error
// method (bufio.Writer does), it is flushed after every write.
func NewRunner(p provider.Provider, out io.Writer, opts Options) *Runner {
	return &Runner{provider: p, out: out, opts: opts}
}

// Run prints the non-stream header, runs RunNonStream, then prints the
// stream header and runs RunStream. Both calls always run.
func (r *Runner) Run(ctx context.Context) []Result {
	r.println(NonStreamHeader)
	nonStream := r.RunNonStream(ctx)

	r.println("\n" + StreamHeader)
	stream := r.RunStream(ctx)

	return []Result{nonStream, stream}
}

// RunNonStream performs one non-streaming completion and prints the full
// response object, or the error.
func (r *Runner) RunNonStream(ctx context.Context) Result {
	res := Result{Mode: observability.ModeNonStream}
	start := time.Now()

	debug.Log("demo", "non-stream call", "model", r.opts.Model)
	resp, err := r.provider.Complete(ctx, r.request(false))
	res.Elapsed = time.Since(start)

	if err != nil {
		res.Err = err
		r.record(res, nil)
		r.println(NonStreamErrorPrefix + " " + err.Error())
		return res
	}

	res.Success = true
	r.record(res, &resp.Usage)
	r.println(NonStreamPrefix + " " + dumper.Sdump(resp))
	return res
}

// RunStream performs one streaming completion and prints each fragment as
// it arrives. Fragments written before a failure stay in the output.
func (r *Runner) RunStream(ctx context.Context) Result {
	res := Result{Mode: observability.ModeStream}
	start := time.Now()

	debug.Log("demo", "stream call", "model", r.opts.Model)
	stream, err := r.provider.Stream(ctx, r.request(true))
	if err != nil {
		res.Err = err
		res.Elapsed = time.Since(start)
		r.record(res, nil)
		r.println(StreamErrorPrefix + " " + err.Error())
		return res
	}
	defer stream.Close()

	observability.StreamsActive.Inc()
	defer observability.StreamsActive.Dec()

	r.println(StreamPrefix)

	var usage *provider.Usage
	wrote := false
	for stream.Next() {
		chunk := stream.Current()
		if chunk.Usage != nil {
			usage = chunk.Usage
		}

		if r.opts.RawChunks {
			r.println(dumper.Sdump(chunk))
			res.Fragments++
			continue
		}

		text := chunk.Text()
		if text == "" {
			continue
		}
		r.print(text)
		res.Fragments++
		wrote = true
	}
	res.Elapsed = time.Since(start)

	if wrote {
		r.println("")
	}

	if err := stream.Err(); err != nil {
		res.Err = err
		r.record(res, usage)
		r.println(StreamErrorPrefix + " " + err.Error())
		return res
	}

	res.Success = true
	r.record(res, usage)
	debug.Log("demo", "stream finished", "fragments", res.Fragments, "elapsed", res.Elapsed)
	return res
}

func (r *Runner) request(stream bool) *provider.Request {
	return &provider.Request{
		Model:    r.opts.Model,
		Messages: []provider.Message{provider.NewUserMessage(r.opts.Prompt)},
		Stream:   stream,
	}
}

func (r *Runner) record(res Result, usage *provider.Usage) {
	name := r.provider.Name()
	model := r.opts.Model

	status := "success"
	if !res.Success {
		status = "error"
	}
	observability.ProviderRequestsTotal.WithLabelValues(name, model, res.Mode, status).Inc()
	observability.ProviderLatency.WithLabelValues(name, model, res.Mode).Observe(res.Elapsed.Seconds())

	if res.Mode == observability.ModeStream && res.Fragments > 0 {
		observability.StreamChunksTotal.WithLabelValues(name, model).Add(float64(res.Fragments))
	}
	if usage != nil {
		observability.ProviderTokensTotal.WithLabelValues(name, model, "input").Add(float64(usage.PromptTokens))
		observability.ProviderTokensTotal.WithLabelValues(name, model, "output").Add(float64(usage.CompletionTokens))
	}
}

type flusher interface {
	Flush() error
}

func (r *Runner) print(s string) {
	io.WriteString(r.out, s)
	if f, ok := r.out.(flusher); ok {
		if err := f.Flush(); err != nil {
			debug.Log("demo", "flush failed", "error", err)
		}
	}
}

func (r *Runner) println(s string) {
	r.print(fmt.Sprintln(s))
}
