package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/edu_platform/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *handler) sendMessage(c *gin.Context) {
	var in service.SendMessageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if !canActFor(c, in.StudentID) {
		forbidden(c)
		return
	}

	result, err := h.Chat.SendMessage(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handler) chatHistory(c *gin.Context) {
	studentID, ok := queryID(c, "student_id")
	if !ok {
		return
	}
	subjectID, ok := queryID(c, "subject_id")
	if !ok {
		return
	}
	if !canActFor(c, studentID) {
		forbidden(c)
		return
	}

	turns, err := h.Chat.GetHistory(c.Request.Context(), studentID, subjectID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, turns)
}

func (h *handler) chatSubjects(c *gin.Context) {
	studentID, ok := queryID(c, "student_id")
	if !ok {
		return
	}
	if !canActFor(c, studentID) {
		forbidden(c)
		return
	}

	subjects, err := h.Chat.GetStudentSubjects(c.Request.Context(), studentID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, subjects)
}

func (h *handler) getProgress(c *gin.Context) {
	studentID, ok := queryID(c, "student_id")
	if !ok {
		return
	}
	subjectID, ok := queryID(c, "subject_id")
	if !ok {
		return
	}
	if !canActFor(c, studentID) {
		forbidden(c)
		return
	}

	items, err := h.Progress.Get(c.Request.Context(), studentID, subjectID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *handler) markComplete(c *gin.Context) {
	var in service.MarkCompleteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if !canActFor(c, in.StudentID) {
		forbidden(c)
		return
	}

	progress, err := h.Progress.MarkComplete(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}
