// Cellserver serves procedurally generated terrain cells for the
// proceduralbuffer example over HTTP (/cell?x=&y=) and websocket (/ws).
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/phanxgames/tily/cellsource"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:1337", "listen address")
	seed := flag.Int64("seed", 12345, "terrain seed")
	cellSize := flag.Int("cell", 16, "cell size in tiles")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           cellsource.NewServer(cellsource.NewTerrain(*seed), *cellSize),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("cell server running at http://%s/", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
