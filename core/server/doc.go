// Package server wraps the standard http.Server with graceful shutdown and
// a lifecycle shaped for errgroup composition.
//
// The gateway process uses it as the HTTP listener in front of its
// WebSocket upgrade endpoint and health probes:
//
//	srv := server.New("127.0.0.1:7682",
//		server.WithLogger(log),
//		server.WithShutdownTimeout(30*time.Second),
//	)
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, mux))
//
// Run starts the listener, watches ctx, and performs a bounded graceful
// shutdown once ctx is canceled. A *tls.Config can be supplied via WithTLS
// when the gateway terminates TLS itself rather than sitting behind a
// terminating proxy.
package server
