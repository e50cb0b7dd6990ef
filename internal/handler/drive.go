package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/survivaldisc/internal/annotate"
	"github.com/sakif/survivaldisc/internal/apperror"
	"github.com/sakif/survivaldisc/internal/auth"
	"github.com/sakif/survivaldisc/internal/drive"
	"github.com/sakif/survivaldisc/internal/model"
	"github.com/sakif/survivaldisc/internal/service"
)

// DriveHandler serves the file explorer: browse, whole-set save, create,
// delete, share links, and the annotation endpoints.
type DriveHandler struct {
	files     *service.FileService
	accounts  *service.AccountService
	annotator annotate.Provider
	logger    *slog.Logger
}

func NewDriveHandler(
	files *service.FileService,
	accounts *service.AccountService,
	annotator annotate.Provider,
	logger *slog.Logger,
) *DriveHandler {
	return &DriveHandler{
		files:     files,
		accounts:  accounts,
		annotator: annotator,
		logger:    logger,
	}
}

// browseResponse is the explorer payload: the filtered view plus the
// breadcrumb trail for the requested folder.
type browseResponse struct {
	Items       []model.FileItem `json:"items"`
	Breadcrumbs []model.FileItem `json:"breadcrumbs"`
	FolderID    string           `json:"folderId"`
}

type createFileRequest struct {
	ParentID string         `json:"parentId"`
	Name     string         `json:"name"`
	Type     model.FileType `json:"type"`
	Size     int64          `json:"size"`
}

type shareResponse struct {
	URL string `json:"url"`
}

type annotationResponse struct {
	Text string `json:"text"`
}

// HandleBrowse returns the caller's view of the drive.
//
// HTTP: GET /api/files?folder=&q=&section=
//
// section "cloud-drive" (default) lists the given folder filtered by q;
// "recent" lists matching non-folders across the whole tree. First use
// seeds the starter set.
func (h *DriveHandler) HandleBrowse(w http.ResponseWriter, r *http.Request) {
	owner, err := h.ownerEmail(r)
	if err != nil {
		writeError(w, err)
		return
	}

	items, err := h.files.Load(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}

	folderID := r.URL.Query().Get("folder")
	query := r.URL.Query().Get("q")
	section := drive.Section(r.URL.Query().Get("section"))
	if section == "" {
		section = drive.SectionDrive
	}

	writeJSON(w, http.StatusOK, browseResponse{
		Items:       drive.Browse(items, folderID, query, section),
		Breadcrumbs: drive.Breadcrumbs(items, folderID),
		FolderID:    folderID,
	})
}

// HandleSave replaces the caller's entire file set in one transaction.
//
// HTTP: PUT /api/files
func (h *DriveHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	owner, err := h.ownerEmail(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var items []model.FileItem
	if err := decodeJSON(r, &items); err != nil {
		writeError(w, err)
		return
	}

	if err := h.files.Save(r.Context(), owner, items); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleCreate adds one item — an upload record or a new folder.
//
// HTTP: POST /api/files
func (h *DriveHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	owner, err := h.ownerEmail(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req createFileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.files.Create(r.Context(), owner, service.CreateParams{
		ParentID: req.ParentID,
		Name:     req.Name,
		Type:     req.Type,
		Size:     req.Size,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// HandleDelete removes an item, following the configured cascade policy.
//
// HTTP: DELETE /api/files/{id}
func (h *DriveHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	owner, err := h.ownerEmail(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.files.Delete(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleShare returns the cosmetic share URL for an item.
//
// HTTP: GET /api/files/{id}/share
func (h *DriveHandler) HandleShare(w http.ResponseWriter, r *http.Request) {
	owner, err := h.ownerEmail(r)
	if err != nil {
		writeError(w, err)
		return
	}

	url, err := h.files.ShareLink(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, shareResponse{URL: url})
}

// HandleAnalysis returns a one-line description of an item. Provider errors
// degrade to the static fallback rather than failing the request.
//
// HTTP: GET /api/files/{id}/analysis
func (h *DriveHandler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	owner, err := h.ownerEmail(r)
	if err != nil {
		writeError(w, err)
		return
	}

	item, err := h.files.Get(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	text, err := h.annotator.AnalyzeFile(r.Context(), item.Name, string(item.Type))
	if err != nil {
		h.logger.Warn("file analysis failed, using fallback",
			slog.String("id", item.ID),
			slog.String("error", err.Error()),
		)
		text = annotate.FallbackAnalysis
	}

	writeJSON(w, http.StatusOK, annotationResponse{Text: text})
}

// HandleWelcome returns the post-login greeting, falling back to the static
// message when the provider is unavailable.
//
// HTTP: GET /api/welcome
func (h *DriveHandler) HandleWelcome(w http.ResponseWriter, r *http.Request) {
	text, err := h.annotator.WelcomeMessage(r.Context())
	if err != nil {
		h.logger.Warn("welcome message failed, using fallback",
			slog.String("error", err.Error()),
		)
		text = annotate.FallbackWelcome
	}

	writeJSON(w, http.StatusOK, annotationResponse{Text: text})
}

// ownerEmail resolves the JWT identity to the account's email, the key the
// file tree is partitioned by.
func (h *DriveHandler) ownerEmail(r *http.Request) (string, error) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return "", apperror.InvalidCredentials()
	}

	account, err := h.accounts.GetByID(r.Context(), identity.AccountID)
	if err != nil {
		return "", err
	}

	return account.Email, nil
}
