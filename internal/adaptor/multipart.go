package adaptor

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"community-hub/internal/usecase"
	"community-hub/pkg/utils"
)

const (
	maxUploadMemory = 10 << 20
	maxUploadBody   = 12 << 20
	imageField      = "image"
)

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// parseForm parses a multipart body and returns the optional image. The
// caller closes the returned closer.
func parseForm(w http.ResponseWriter, r *http.Request) (*usecase.Image, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, func() {}, err
	}

	file, header, err := r.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}

	if ct := header.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		file.Close()
		return nil, func() {}, errors.New("image must be an image file")
	}

	return &usecase.Image{File: file, Filename: header.Filename}, func() { file.Close() }, nil
}

// formString returns a pointer to the trimmed value when the field is set.
func formString(r *http.Request, field string) *string {
	if _, ok := r.MultipartForm.Value[field]; !ok {
		return nil
	}
	v := strings.TrimSpace(r.FormValue(field))
	return &v
}

func formPrice(r *http.Request) (*float64, error) {
	return utils.ParseFloat(strings.TrimSpace(r.FormValue("price")))
}
