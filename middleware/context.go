package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const (
	userIDKey       contextKey = "userID"
	uploadedFileKey contextKey = "uploadedFile"
)

// UserID returns the authenticated user id attached by JWTMiddleware.
func UserID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(userIDKey).(string)
	return id, ok
}

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// uploadedFile is a mutable holder so the upload middleware can record
// the stored path after the context has already been threaded through.
type uploadedFile struct {
	path string
}

// UploadedFilePath returns the path of the file stored for this
// request, or "" if the request carried no upload.
func UploadedFilePath(r *http.Request) string {
	if f, ok := r.Context().Value(uploadedFileKey).(*uploadedFile); ok {
		return f.path
	}
	return ""
}

// WithUploadedFile returns a context that records path as the stored
// upload for the request.
func WithUploadedFile(ctx context.Context, path string) context.Context {
	ctx, f := withUploadSlot(ctx)
	f.path = path
	return ctx
}

func withUploadSlot(ctx context.Context) (context.Context, *uploadedFile) {
	f := &uploadedFile{}
	return context.WithValue(ctx, uploadedFileKey, f), f
}
