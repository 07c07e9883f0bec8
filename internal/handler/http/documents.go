package http

import (
	"net/http"

	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/internal/utils"
	"github.com/oakstead/careledger/models"
)

// uploads are limited to 20 MiB
const maxUploadBytes = 20 << 20

func (h *Handler) uploadDocument(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	clientID, ok := pathID(w, r, "clientID")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Err(err).Msg("failed to parse multipart form")
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file part is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	doc := models.Document{
		ClientID:    clientID,
		Category:    models.DocumentCategory(r.FormValue("category")),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		SizeBytes:   header.Size,
	}

	if err := h.services.Documents.Upload(r.Context(), principal, &doc, file); err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, doc, http.StatusCreated)
}

func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "documentID")
	if !ok {
		return
	}

	doc, err := h.services.Documents.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, doc, http.StatusOK)
}

func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathID(w, r, "clientID")
	if !ok {
		return
	}

	category := models.DocumentCategory(r.URL.Query().Get("category"))
	docs, err := h.services.Documents.List(r.Context(), clientID, category)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, docs, http.StatusOK)
}

type documentURLResponse struct {
	URL string `json:"url"`
}

func (h *Handler) getDocumentURL(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "documentID")
	if !ok {
		return
	}

	url, err := h.services.Documents.DownloadURL(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, documentURLResponse{URL: url}, http.StatusOK)
}

func (h *Handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "documentID")
	if !ok {
		return
	}

	if err := h.services.Documents.Delete(r.Context(), principal, id); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
