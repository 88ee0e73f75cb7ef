package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dshills/mouseproc/internal/config"
	"github.com/dshills/mouseproc/internal/router"
	"github.com/dshills/mouseproc/internal/script"
)

// Options configures a replay run.
type Options struct {
	Config *config.Config
	Logger *Logger

	// Stdin and Stdout stand in for "-" in the event and trace paths.
	Stdin  io.Reader
	Stdout io.Writer
}

// Summary reports the outcome of a replay run.
type Summary struct {
	Replay   ReplayStats
	Router   router.Stats
	Traced   uint64
	Calls    uint64
	Failures uint64
}

// Run builds the scene, loads the proc script, replays the event log and
// waits for every invocation to finish.
func Run(ctx context.Context, opts Options) (Summary, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = NullLogger
	}

	scene, err := BuildScene(cfg)
	if err != nil {
		return Summary{}, fmt.Errorf("building scene: %w", err)
	}

	rt, err := script.NewRuntime(script.Config{
		QueueSize:   cfg.Script.QueueSize,
		CallTimeout: cfg.Script.CallTimeout(),
		Logger:      logger.WithComponent("script"),
	})
	if err != nil {
		return Summary{}, fmt.Errorf("starting script runtime: %w", err)
	}
	rt.Start(ctx)
	defer rt.Close()

	if cfg.Script.Path != "" {
		if err := rt.Load(ctx, cfg.Script.Path); err != nil {
			return Summary{}, err
		}
	}

	events, closeEvents, err := openInput(cfg.Replay.Events, opts.Stdin)
	if err != nil {
		return Summary{}, err
	}
	defer closeEvents()

	var invoker router.Invoker = rt
	var tracer *Tracer
	var closeTrace func() error
	if cfg.Replay.Trace != "" {
		out, closer, err := openOutput(cfg.Replay.Trace, opts.Stdout)
		if err != nil {
			return Summary{}, err
		}
		closeTrace = closer
		defer func() {
			if closeTrace != nil {
				_ = closeTrace()
			}
		}()
		tracer = NewTracer(out, rt, scene.Label)
		invoker = tracer
	}

	replayer := NewReplayer(scene, invoker, logger)
	stats, err := replayer.Replay(ctx, events)
	if err != nil {
		return Summary{Replay: stats}, err
	}
	if err := rt.Wait(ctx); err != nil {
		return Summary{Replay: stats}, fmt.Errorf("waiting for procs: %w", err)
	}

	sum := Summary{
		Replay:   stats,
		Router:   replayer.Router().Stats(),
		Calls:    rt.Calls(),
		Failures: rt.Failures(),
	}
	if tracer != nil {
		sum.Traced = tracer.Count()
		closer := closeTrace
		closeTrace = nil
		if err := finishTrace(tracer, closer); err != nil {
			return sum, err
		}
	}

	logger.WithComponent("replay").Info("replay finished",
		"events", stats.Events,
		"malformed", stats.Malformed,
		"invocations", sum.Router.Invocations,
		"dropped", sum.Router.EventsDropped,
		"double_clicks", sum.Router.DoubleClicks,
		"proc_failures", sum.Failures,
	)
	return sum, nil
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening event log: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "-" {
		if stdout == nil {
			stdout = os.Stdout
		}
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating trace file: %w", err)
	}
	return f, f.Close, nil
}

// finishTrace closes the trace output and reports the first write error,
// or the close error when every write succeeded.
func finishTrace(t *Tracer, closeTrace func() error) error {
	werr := t.Err()
	cerr := closeTrace()
	if werr != nil {
		return fmt.Errorf("writing trace: %w", werr)
	}
	if cerr != nil {
		return fmt.Errorf("closing trace: %w", cerr)
	}
	return nil
}
