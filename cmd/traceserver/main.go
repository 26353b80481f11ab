package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danmuck/qsort_viz/cmd/internal/logcfg"
	"github.com/danmuck/qsort_viz/src/api/transport"
	logs "github.com/danmuck/smplog"
)

func main() {
	logs.Configure(logcfg.Load())

	addr := flag.String("addr", ":9000", "TCP listen address")
	flag.Parse()

	exit := make(chan any)
	handler := transport.NewTCPHandler(*addr, exit, logged(transport.SortHandler))
	if err := handler.ListenAndAccept(); err != nil {
		logs.Fatalf(err, "failed to listen on %s", *addr)
	}
	logs.Infof("TCP trace server listening on %s", handler.Addr())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logs.Infof("shutting down")
	close(exit)
	time.Sleep(600 * time.Millisecond) // let the accept loop observe exit
	if err := handler.Close(); err != nil {
		logs.Warnf("close: %v", err)
	}
}

// logged wraps next with a per-request summary line.
func logged(next transport.Handler) transport.Handler {
	return func(req *transport.SortRequest) *transport.SortReply {
		start := time.Now()
		reply := next(req)
		logs.Infof("sort n=%d seeded=%v status=%s steps=%d in %s",
			len(req.Values), req.HasSeed, reply.Status, len(reply.Snapshots), time.Since(start))
		return reply
	}
}
