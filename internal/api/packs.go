package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/s-celles/atpack-go/internal/atpack"
	"github.com/s-celles/atpack-go/internal/catalog"
)

// handleParsePack parses an uploaded AtPack archive and stores it in the
// catalog. A pack with the same name replaces the earlier entry.
//
// Request: multipart/form-data with "file" field containing the archive.
// Response: the full parsed pack, including skipped devices and warnings.
func (s *Server) handleParsePack(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(s.loader.MaxArchiveMB) * 1024 * 1024

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeBadRequest(w, "failed to parse multipart form: file may be too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "missing required 'file' field in form data")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeBadRequest(w, "failed to read uploaded file")
		return
	}

	pack, err := s.parser.ParseBytes(data, header.Filename)
	if err != nil {
		s.writeParseError(w, err, header.Filename)
		return
	}

	s.storeAndRespond(r.Context(), w, pack)
}

// FetchPackRequest is the request body for loading a pack by URL.
type FetchPackRequest struct {
	// URL of the AtPack archive to download and parse.
	URL string `json:"url"`
}

// handleFetchPack downloads an AtPack archive from a URL, parses it, and
// stores it in the catalog.
func (s *Server) handleFetchPack(w http.ResponseWriter, r *http.Request) {
	var req FetchPackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.URL == "" {
		writeBadRequest(w, "url is required")
		return
	}
	if u, err := url.Parse(req.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		writeBadRequest(w, "url must be an absolute http or https URL")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(s.loader.FetchTimeout)*time.Second)
	defer cancel()

	pack, err := s.parser.ParseURL(ctx, req.URL)
	if err != nil {
		s.writeParseError(w, err, req.URL)
		return
	}

	s.storeAndRespond(r.Context(), w, pack)
}

// storeAndRespond stores a freshly parsed pack and writes it back.
func (s *Server) storeAndRespond(ctx context.Context, w http.ResponseWriter, pack *atpack.AtPack) {
	if err := s.catalog.Store(ctx, pack); err != nil {
		s.logger.Error("failed to store pack",
			"name", pack.Metadata.Name,
			"error", err,
		)
		writeInternalError(w, "failed to store pack")
		return
	}

	s.logger.Info("pack loaded",
		"name", pack.Metadata.Name,
		"load_id", pack.LoadID,
		"devices", len(pack.Devices),
		"skipped", len(pack.Skipped),
		"warnings", len(pack.Warnings),
	)

	writeJSON(w, http.StatusOK, pack)
}

// writeParseError maps load failures to HTTP responses. Archive and
// descriptor problems are the client's fault; an unreachable URL is the
// upstream's.
func (s *Server) writeParseError(w http.ResponseWriter, err error, source string) {
	s.logger.Error("pack load failed", "source", source, "error", err)

	switch {
	case errors.Is(err, atpack.ErrFetch):
		writeBadGateway(w, "failed to fetch archive from URL")
	case errors.Is(err, atpack.ErrFileTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "file_too_large",
			"archive exceeds the configured size limit")
	case errors.Is(err, atpack.ErrArchiveFormat):
		writeBadRequest(w, "not a valid atpack archive: expected a ZIP container")
	case errors.Is(err, atpack.ErrNoDescriptor):
		writeBadRequest(w, "archive contains no package descriptor (.pdsc)")
	case errors.Is(err, atpack.ErrMetadataMissing):
		writeBadRequest(w, "package descriptor declares no pack name")
	case errors.Is(err, atpack.ErrXMLParse):
		writeBadRequest(w, "package descriptor is not well-formed XML")
	default:
		writeInternalError(w, "failed to parse atpack archive")
	}
}

// handleListPacks returns summaries of all stored packs.
func (s *Server) handleListPacks(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.catalog.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list packs", "error", err)
		writeInternalError(w, "failed to list packs")
		return
	}
	if summaries == nil {
		summaries = []catalog.PackSummary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

// handleGetPack returns one stored pack with its full device models.
func (s *Server) handleGetPack(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	pack, err := s.catalog.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, catalog.ErrPackNotFound) {
			writeNotFound(w, "pack not found: "+name)
			return
		}
		s.logger.Error("failed to get pack", "name", name, "error", err)
		writeInternalError(w, "failed to get pack")
		return
	}

	writeJSON(w, http.StatusOK, pack)
}

// handleDeletePack removes a stored pack.
func (s *Server) handleDeletePack(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := s.catalog.Delete(r.Context(), name); err != nil {
		if errors.Is(err, catalog.ErrPackNotFound) {
			writeNotFound(w, "pack not found: "+name)
			return
		}
		s.logger.Error("failed to delete pack", "name", name, "error", err)
		writeInternalError(w, "failed to delete pack")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"deleted": name})
}

// handleGetDevice returns one device model from a stored pack.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	deviceName := chi.URLParam(r, "device")

	dev, err := s.catalog.GetDevice(r.Context(), name, deviceName)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrPackNotFound):
			writeNotFound(w, "pack not found: "+name)
		case errors.Is(err, catalog.ErrDeviceNotFound):
			writeNotFound(w, "device not found: "+deviceName)
		default:
			s.logger.Error("failed to get device",
				"pack", name, "device", deviceName, "error", err)
			writeInternalError(w, "failed to get device")
		}
		return
	}

	writeJSON(w, http.StatusOK, dev)
}
