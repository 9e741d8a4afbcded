package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Solvosoft/fletbatteries/pkg/listing"
)

// Prefix of the HTTP API.
const apiPrefix = "/api"

func newServeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over HTTP and JSON-RPC",
		Long: `Serve exposes the catalog to other instances of selectdemo configured
with an "http" or "rpc" source. The HTTP API answers

	GET /api/<collection>?skip=0&limit=10&q=filter[&parent=id...]

and the JSON-RPC server accepts the methods listing.list and
listing.children.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := openStore(e.cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := seedIfEmpty(st, e.cfg); err != nil {
				return err
			}

			var httpLn, rpcLn net.Listener
			if addr := e.cfg.Serve.HTTP; addr != "" {
				if httpLn, err = net.Listen("tcp", addr); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "HTTP on http://%s%s\n", httpLn.Addr(), apiPrefix)
			}
			if addr := e.cfg.Serve.RPC; addr != "" {
				if rpcLn, err = net.Listen("tcp", addr); err != nil {
					if httpLn != nil {
						httpLn.Close()
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "JSON-RPC on %s\n", rpcLn.Addr())
			}
			return serveListeners(ctx, &listing.Shared{Lister: listing.StoreLister{Store: st}}, httpLn, rpcLn)
		},
	}
}

// Serves l on the given listeners until ctx is done. Either listener may be
// nil.
func serveListeners(ctx context.Context, l listing.Lister, httpLn, rpcLn net.Listener) error {
	if httpLn == nil && rpcLn == nil {
		return errors.New("nothing to serve, both listen addresses are empty")
	}
	g, ctx := errgroup.WithContext(ctx)
	if httpLn != nil {
		r := chi.NewRouter()
		r.Use(middleware.Recoverer)
		r.Mount(apiPrefix, listing.NewHTTPHandler(l))
		srv := &http.Server{Handler: r}
		g.Go(func() error {
			err := srv.Serve(httpLn)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		})
		g.Go(func() error {
			<-ctx.Done()
			return srv.Shutdown(context.WithoutCancel(ctx))
		})
	}
	if rpcLn != nil {
		g.Go(func() error { return listing.ServeRPCListener(ctx, rpcLn, l) })
		g.Go(func() error {
			<-ctx.Done()
			return rpcLn.Close()
		})
	}
	err := g.Wait()
	logger.Printf("servers stopped: %v", err)
	return err
}
