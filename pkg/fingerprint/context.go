package fingerprint

import "context"

type fingerprintContextKey struct{}

func SetFingerprintToContext(ctx context.Context, fingerprint string) context.Context {
	return context.WithValue(ctx, fingerprintContextKey{}, fingerprint)
}

func GetFingerprintFromContext(ctx context.Context) string {
	fingerprint, _ := ctx.Value(fingerprintContextKey{}).(string)
	return fingerprint
}

// Context reads the fingerprint stored by Middleware or
// SetFingerprintToContext.
type Context struct{}

func (Context) Fingerprint(ctx context.Context) (string, error) {
	fp := GetFingerprintFromContext(ctx)
	if fp == "" {
		return "", ErrNoComponents
	}
	return fp, nil
}
