package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danmuck/qsort_viz/cmd/internal/logcfg"
	"github.com/danmuck/qsort_viz/src/sorter"
	logs "github.com/danmuck/smplog"
)

func main() {
	logs.Configure(logcfg.Load())

	addr := flag.String("addr", ":8080", "HTTP listen address")
	limit := flag.Int("max-sessions", 256, "sessions kept in memory before the oldest is evicted")
	seed := flag.Uint64("seed", 0, "pivot seed for reproducible traces (0 = random)")
	flag.Parse()

	var src sorter.PivotSource
	if *seed != 0 {
		src = sorter.NewSeededSource(*seed)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           newServer(*limit, src).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logs.Warnf("shutdown: %v", err)
		}
	}()

	logs.Infof("HTTP sort visualizer listening on %s (max sessions: %d)", *addr, *limit)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logs.Fatal(err, "server exited")
	}
}
