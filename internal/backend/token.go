// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import "context"

type tokenKey struct{}

// ContextWithToken pins the bearer token for requests made with ctx, so a
// call launched in the background keeps the token that was cached when it was
// issued even if the store is cleared meanwhile.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFromContext(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(tokenKey{}).(string)
	return tok, ok
}
