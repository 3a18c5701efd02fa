// Command proxytime serves the current time over HTTP from behind a
// PROXY-protocol-speaking load balancer, reporting each caller's original
// address. It doubles as a smoke test for the proxyhead listener.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"proxyhead.io/proxyhead"
)

var (
	connsAccepted = metrics.NewCounter(`proxytime_conns_accepted_total`)
	connsRejected = metrics.NewCounter(`proxytime_conns_rejected_total`)
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		listen        = pflag.String("listen", "127.0.0.1:8080", "HTTP listen address")
		headerTimeout = pflag.Duration("header-timeout", 5*time.Second, "Max time to wait for the PROXY header on a new connection")
		requireHeader = pflag.Bool("require-header", false, "Reject connections that do not start with a PROXY header")
		verbose       = pflag.Bool("verbose", false, "Log rejected connections")
	)
	pflag.Parse()

	ln, err := net.Listen("tcp", *listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", *listen, err)
	}
	pln := proxyhead.NewListener(ln, proxyhead.Config{
		HeaderTimeout: *headerTimeout,
		RequireHeader: *requireHeader,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/", handleTime)
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		metrics.WritePrometheus(w, true)
	})
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := srv.Serve(&skipRejected{Listener: pln, verbose: *verbose})
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	log.Printf("listening on %s", ln.Addr())
	return g.Wait()
}

func handleTime(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "time: %d\nyou: %s\n", time.Now().Unix(), r.RemoteAddr)
}

// skipRejected keeps http.Server.Serve alive across per-connection header
// failures: those close one client, not the server.
type skipRejected struct {
	*proxyhead.Listener
	verbose bool
}

func (l *skipRejected) Accept() (net.Conn, error) {
	for {
		c, err := l.Listener.Accept()
		if err == nil {
			connsAccepted.Inc()
			return c, nil
		}
		var mErr *proxyhead.MalformedError
		if errors.As(err, &mErr) ||
			errors.Is(err, proxyhead.ErrHeaderTimeout) ||
			errors.Is(err, proxyhead.ErrHeaderRequired) {
			connsRejected.Inc()
			if l.verbose {
				log.Printf("rejected connection: %v", err)
			}
			continue
		}
		return nil, err
	}
}
