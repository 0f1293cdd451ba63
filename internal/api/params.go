package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"

	svcErr "github.com/sumit00002/VidTube-Practice-Backend/internal/errors"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/upload"
)

// maxMemory is how much of a multipart body is held in memory before
// parts spill to temporary files.
const maxMemory = 32 << 20

// pathID returns the named path value after checking it is a UUID.
func pathID(r *http.Request, name string) (string, error) {
	return checkID(r.PathValue(name), name)
}

func checkID(raw, name string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", svcErr.Validation("invalid " + name)
	}
	return id.String(), nil
}

// optionalQueryID reads a UUID query parameter; absent means "".
func optionalQueryID(r *http.Request, name string) (string, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return "", nil
	}
	return checkID(raw, name)
}

func parseMultipart(r *http.Request) error {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return svcErr.Validation("expected a multipart/form-data body", err.Error())
	}
	return nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// formFile opens an uploaded part. A missing part is (nil, nil); the
// caller closes the returned part.
func formFile(r *http.Request, field string) (*upload.File, multipart.File, error) {
	f, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, svcErr.Validation("invalid " + field + " upload")
	}
	return &upload.File{Name: header.Filename, Body: f}, f, nil
}

// closeAll closes every non-nil part.
func closeAll(parts ...multipart.File) {
	for _, p := range parts {
		if p != nil {
			_ = p.Close()
		}
	}
}
