package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// POST /notes
func (h *Handler) CreateNote(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required", CodeAuthenticationRequired)
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Title and content are required", CodeValidationError)
		return
	}

	note, err := h.notes.Create(c.Request.Context(), sess, req.Title, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Note created successfully", toNoteJSON(note))
}

// GET /notes?page&limit
func (h *Handler) ListNotes(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required", CodeAuthenticationRequired)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "6"))

	notes, pagination, err := h.notes.List(c.Request.Context(), sess, page, limit)
	if err != nil {
		h.logger.Error(c.Request.Context(), "note listing failed", "tenant", sess.Tenant.Slug, "error", err.Error())
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Notes retrieved successfully", toNotesPageJSON(notes, pagination))
}

// GET /notes/:id
func (h *Handler) GetNote(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required", CodeAuthenticationRequired)
		return
	}

	note, err := h.notes.Get(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Note retrieved successfully", toNoteJSON(note))
}

// PUT /notes/:id
func (h *Handler) UpdateNote(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required", CodeAuthenticationRequired)
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Title and content are required", CodeValidationError)
		return
	}

	note, err := h.notes.Update(c.Request.Context(), sess, c.Param("id"), req.Title, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Note updated successfully", toNoteJSON(note))
}

// DELETE /notes/:id
func (h *Handler) DeleteNote(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required", CodeAuthenticationRequired)
		return
	}

	if err := h.notes.Delete(c.Request.Context(), sess, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Note deleted successfully", nil)
}
