// Package httpserver runs an http.Server bound to a context: Run listens,
// serves until the context ends and then shuts down gracefully within a
// configurable deadline. It backs the local collector started by
// "trackkit collector".
//
//	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"), httpserver.WithLogger(log))
//	go func() { _ = srv.Run(ctx, handler) }()
//	<-srv.Ready()
//	fmt.Println("listening on", srv.Addr())
//
// Listen failures wrap ErrStart and drain failures wrap ErrShutdown.
package httpserver
