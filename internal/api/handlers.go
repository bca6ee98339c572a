package api

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/starford/wunjo/internal/render"
	"github.com/starford/wunjo/internal/snippet"
	"github.com/starford/wunjo/internal/view"
	"github.com/starford/wunjo/internal/viewservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc      *viewservice.Service
	snippets *snippet.Parser
	logger   *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(svc *viewservice.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, snippets: &snippet.Parser{Logger: logger}, logger: logger}
}

// View handles GET /api/view.
//
//	@Summary		Render a mentions table
//	@Tags			view
//	@Produce		json,text/markdown,text/plain
//	@Param			subject			query		string	false	"Document identity or #tag; defaults to current"
//	@Param			current			query		string	false	"Path of the document the table is shown in"
//	@Param			columns			query		string	false	"Comma-separated metadata fields promoted to columns"
//	@Param			exclude_folders	query		string	false	"Comma-separated folders left out of the scan"
//	@Param			hide_keys		query		string	false	"Comma-separated metadata fields never shown"
//	@Param			exclude_current	query		bool	false	"Leave the current document out"
//	@Param			debug			query		bool	false	"Trace the pass to the server log"
//	@Param			format			query		string	false	"Output format"	Enums(json, markdown, text, pretty)
//	@Success		200				{object}	view.Result
//	@Failure		400				{object}	errResponse
//	@Failure		503				{object}	view.Result
//	@Security		BearerAuth
//	@Router			/view [get]
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	req := viewRequestFromQuery(r.URL.Query())
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	sreq := req.serviceRequest()

	res := h.svc.Render(r.Context(), sreq)
	status := http.StatusOK
	if res.Status == view.StatusNotReady {
		status = http.StatusServiceUnavailable
	}

	if sreq.Format == render.FormatJSON {
		writeJSON(w, status, res)
		return
	}

	var buf bytes.Buffer
	if err := render.Write(&buf, sreq.Format, res, render.DefaultWidth); err != nil {
		h.logger.Error("render view failed", slog.String("format", string(sreq.Format)), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	contentType := "text/plain"
	if sreq.Format == render.FormatMarkdown {
		contentType = "text/markdown"
	}
	writeText(w, status, contentType, buf.Bytes())
}

// ListDocuments handles GET /api/documents.
//
//	@Summary		List indexed documents
//	@Tags			documents
//	@Produce		json
//	@Param			folder	query		string	false	"Only documents under this folder"
//	@Success		200		{object}	DocumentListResponse
//	@Security		BearerAuth
//	@Router			/documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.ListDocuments(r.Context(), r.URL.Query().Get("folder"))
	if err != nil {
		h.logger.Error("list documents failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, DocumentListResponse{Documents: docs, Total: len(docs)})
}

// ParseSnippet handles GET /api/snippet.
//
//	@Summary		Parse a note-title snippet
//	@Tags			snippet
//	@Produce		json
//	@Param			msg		query		string	true	"Snippet, e.g. p;Jane Smith &role=designer"
//	@Param			prefix	query		string	false	"Prefix for the full title"
//	@Success		200		{object}	Snippet
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/snippet [get]
func (h *Handler) ParseSnippet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := SnippetRequest{Msg: q.Get("msg"), Prefix: q.Get("prefix")}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, h.snippets.Parse(req.Msg, req.Prefix))
}
