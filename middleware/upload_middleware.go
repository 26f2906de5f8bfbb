package middleware

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"go-places/utils/errors"
)

// MaxUploadSize caps the whole multipart body.
const MaxUploadSize = 500000

var mimeTypeMap = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

var errInvalidMimeType = errors.NewAPIError("Invalid mime type!", http.StatusUnprocessableEntity)

// UploadMiddleware stores the single "image" field of a multipart
// request under a random filename and exposes the stored path through
// the request context. If anything downstream fails, WriteError sees
// the same context entry and removes the file again.
func UploadMiddleware(uploadDir string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			ctx, slot := withUploadSlot(r.Context())
			r = r.WithContext(ctx)

			r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
			if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
				WriteError(w, r, errors.Wrap(err, errors.ErrInvalidInput.Message, errors.ErrInvalidInput.Status))
				return
			}

			file, header, err := r.FormFile("image")
			if err != nil {
				WriteError(w, r, errors.Wrap(err, errors.ErrInvalidInput.Message, errors.ErrInvalidInput.Status))
				return
			}
			defer file.Close()

			ext, ok := mimeTypeMap[header.Header.Get("Content-Type")]
			if !ok {
				WriteError(w, r, errInvalidMimeType)
				return
			}

			if err := os.MkdirAll(uploadDir, 0o755); err != nil {
				WriteError(w, r, errors.Wrap(err, errors.ErrUnknown.Message, errors.ErrUnknown.Status))
				return
			}

			dstPath := filepath.Join(uploadDir, uuid.New().String()+"."+ext)
			dst, err := os.Create(dstPath)
			if err != nil {
				WriteError(w, r, errors.Wrap(err, errors.ErrUnknown.Message, errors.ErrUnknown.Status))
				return
			}
			if _, err := io.Copy(dst, file); err != nil {
				dst.Close()
				os.Remove(dstPath)
				WriteError(w, r, errors.Wrap(err, errors.ErrUnknown.Message, errors.ErrUnknown.Status))
				return
			}
			if err := dst.Close(); err != nil {
				os.Remove(dstPath)
				WriteError(w, r, errors.Wrap(err, errors.ErrUnknown.Message, errors.ErrUnknown.Status))
				return
			}

			slot.path = dstPath
			next.ServeHTTP(w, r)
		})
	}
}
