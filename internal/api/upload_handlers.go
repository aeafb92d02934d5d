package api

import (
	stderrors "errors"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"

	"github.com/vytor/studysmart/internal/errors"
	"github.com/vytor/studysmart/internal/logger"
	"github.com/vytor/studysmart/internal/studytext"
)

const maxUploadBytes = 1 << 20

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+4096)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		handleError(w, r, errors.NewValidationError("file", "must be a multipart upload of at most 1 MB"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		handleError(w, r, errors.NewValidationError("file", "is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}
	if len(data) > maxUploadBytes {
		handleError(w, r, errors.NewValidationError("file", "must be at most 1 MB"))
		return
	}
	if !isPlainText(data) {
		log.Warn("rejected upload %q: not plain text", header.Filename)
		handleError(w, r, errors.NewValidationError("file", "must be a plain text file"))
		return
	}

	p, err := studytext.Process(string(data), header.Filename)
	if err != nil {
		if stderrors.Is(err, studytext.ErrTooShort) {
			handleError(w, r, errors.NewValidationError("file", err.Error()))
			return
		}
		handleError(w, r, errors.NewInternalError(err))
		return
	}

	log.Info("processed upload %q: %d -> %d chars, %d topics", p.FileName, p.OriginalLength, p.ProcessedLength, len(p.Topics))
	writeJSON(w, r, http.StatusOK, p)
}

func isPlainText(data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
