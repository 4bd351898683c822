package api

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"data-agent-chat/internal/db"
	"data-agent-chat/internal/models"
)

// FolderHandler handles folder-related HTTP requests
type FolderHandler struct {
	db *db.DB
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(database *db.DB) *FolderHandler {
	return &FolderHandler{db: database}
}

// CreateFolderRequest represents the request body for creating a folder
type CreateFolderRequest struct {
	Name string `json:"name"`
}

// List handles GET /api/folders
func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	folders, err := h.db.GetAllFolders()
	if err != nil {
		log.Printf("[API] List folders failed err=%v", err)
		http.Error(w, "Failed to get folders", http.StatusInternalServerError)
		return
	}
	if folders == nil {
		folders = []models.Folder{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(folders)
}

// Create handles POST /api/folders
func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	folder, err := h.db.CreateFolder(name)
	if err != nil {
		log.Printf("[API] Create folder failed err=%v", err)
		http.Error(w, "Failed to create folder", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(folder)
}

// Delete handles DELETE /api/folders/{id}
func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.db.DeleteFolder(r.PathValue("id"))
	if err == sql.ErrNoRows {
		http.Error(w, "Folder not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[API] Delete folder failed err=%v", err)
		http.Error(w, "Failed to delete folder", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
