// Package async provides small generic helpers for running independent
// steps concurrently and joining their results.
//
// Go starts a function in its own goroutine and returns a *Future; Await
// and AwaitContext wait for it, IsComplete polls it. A panic in the function
// is recovered and reported as an error wrapping ErrPanic, which matters when
// the function calls into collaborator code the caller does not control.
//
// # Usage
//
//	fp := async.Go(ctx, func(ctx context.Context) (string, error) {
//	    return provider.Fingerprint(ctx)
//	})
//	id := async.Go(ctx, loadIdentity)
//
//	fingerprint, err := fp.Await()
//	identity, _ := id.Await()
//
// If ctx is already canceled when Go is called, the function is not invoked
// and the Future completes with ctx.Err().
package async
