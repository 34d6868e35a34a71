// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const (
	keyRunID  ctxKey = "run_id"
	keyBookID ctxKey = "book_id"
)

// WithRequest annotates context with common request scoped ids
func WithRequest(ctx context.Context, reqID, runID string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if runID != "" {
		ctx = context.WithValue(ctx, keyRunID, runID)
	}
	return ctx
}

// WithBook annotates context with the price book being worked on
func WithBook(ctx context.Context, bookID string) context.Context {
	if bookID != "" {
		ctx = context.WithValue(ctx, keyBookID, bookID)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	if v := chimw.GetReqID(ctx); v != "" {
		return v
	}
	return ""
}

// RunID returns the diff run id on the context if present
func RunID(ctx context.Context) string {
	if v, ok := ctx.Value(keyRunID).(string); ok {
		return v
	}
	return ""
}

// BookID returns the price book id on the context if present
func BookID(ctx context.Context) string {
	if v, ok := ctx.Value(keyBookID).(string); ok {
		return v
	}
	return ""
}
