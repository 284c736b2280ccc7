// Command strandexample is a runnable smoke-test harness for strandrt: it
// wires up a Loop, a Driver, and a handful of the library's primitives, then
// exits once they've all settled. It is not a product surface -- just
// confirmation that the library's pieces fit together end to end.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	strand "github.com/joeycumines/strandrt"
)

func main() {
	verbose := flag.Bool("v", false, "log runtime diagnostics to stderr")
	flag.Parse()

	var opts []strand.DriverOption
	if *verbose {
		opts = append(opts, strand.WithLogger(strand.NewDefaultLogger(strand.WithWriter(os.Stderr))))
	} else {
		opts = append(opts, strand.WithLogger(strand.NopLogger()))
	}

	loop := strand.NewLoop(strand.WithLoopMetrics(true))
	driver := strand.NewDriver(loop, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	rootCtx := strand.NewContext(ctx, driver)

	result := make(chan error, 1)
	go func() { result <- runSmokeTest(rootCtx) }()

	go func() {
		err := <-result
		if err != nil {
			fmt.Fprintf(os.Stderr, "smoke test failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("smoke test passed")
		_ = loop.Shutdown(ctx)
	}()

	if err := loop.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("loop exited with error: %v", err)
	}

	if snap := loop.Metrics(); snap != nil {
		s := snap.Latency.Snapshot()
		fmt.Printf("dispatch latency: p50=%s p99=%s max=%s over %d ticks\n", s.P50, s.P99, s.Max, s.Count)
	}
}

func runSmokeTest(ctx context.Context) error {
	p := strand.NewPromise[int]()
	c := strand.NewChannel[int]()

	outcomes := strand.Interleavedx[int](ctx, []func(context.Context) (int, error){
		func(ctx context.Context) (int, error) {
			return p.Await(ctx)
		},
		func(ctx context.Context) (int, error) {
			a, err := c.Receive(ctx)
			if err != nil {
				return 0, err
			}
			b, err := c.Receive(ctx)
			if err != nil {
				return 0, err
			}
			return a + b, nil
		},
		func(ctx context.Context) (int, error) {
			if err := p.Resolve(21); err != nil {
				return 0, err
			}
			c.Emit(1)
			c.Emit(2)
			return 0, nil
		},
	})
	for i, o := range outcomes {
		if o.IsExn() {
			return fmt.Errorf("strand %d failed: %w", i, o.Err)
		}
	}
	if outcomes[0].Value != 21 {
		return fmt.Errorf("promise strand: want 21, got %d", outcomes[0].Value)
	}
	if outcomes[1].Value != 3 {
		return fmt.Errorf("channel strand: want 3, got %d", outcomes[1].Value)
	}

	v, err := strand.Timeout[string](ctx, 100*time.Millisecond, func(ctx context.Context) (string, error) {
		if err := strand.Wait(ctx, 10*time.Millisecond); err != nil {
			return "", err
		}
		return "ok", nil
	})
	if err != nil {
		return fmt.Errorf("timeout smoke check: %w", err)
	}
	if v != "ok" {
		return fmt.Errorf("timeout smoke check: want ok, got %q", v)
	}

	_, err = strand.Timeout[string](ctx, 10*time.Millisecond, func(ctx context.Context) (string, error) {
		if err := strand.Wait(ctx, time.Hour); err != nil {
			return "", err
		}
		return "should never get here", nil
	})
	var te *strand.TimeoutError
	if err == nil {
		return fmt.Errorf("expected timeout error, got none")
	}
	if !errors.As(err, &te) {
		return fmt.Errorf("expected *TimeoutError, got %T: %v", err, err)
	}

	return nil
}
