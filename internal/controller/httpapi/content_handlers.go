package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/Freeeeeet/edu_platform/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *handler) listSubjects(c *gin.Context) {
	subjects, err := h.Subjects.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, subjects)
}

func (h *handler) getSubject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	subject, err := h.Subjects.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, subject)
}

func (h *handler) createSubject(c *gin.Context) {
	var in service.CreateSubjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	subject, err := h.Subjects.Create(c.Request.Context(), currentUser(c).ID, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, subject)
}

func (h *handler) updateSubject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch model.SubjectPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	subject, err := h.Subjects.Update(c.Request.Context(), id, &patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, subject)
}

func (h *handler) deleteSubject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Subjects.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) listLessons(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	lessons, err := h.Lessons.ListBySubject(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lessons)
}

func (h *handler) getLesson(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	lesson, err := h.Lessons.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

func (h *handler) createLesson(c *gin.Context) {
	var in service.CreateLessonInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	lesson, err := h.Lessons.Create(c.Request.Context(), currentUser(c).ID, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lesson)
}

func (h *handler) updateLesson(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch model.LessonPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	lesson, err := h.Lessons.Update(c.Request.Context(), id, &patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

func (h *handler) deleteLesson(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Lessons.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) getAccess(c *gin.Context) {
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
	grant, err := h.Access.Get(c.Request.Context(), studentID, subjectID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, grant)
}

func (h *handler) grantAccess(c *gin.Context) {
	var in service.GrantAccessInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	grant, err := h.Access.Grant(c.Request.Context(), currentUser(c).ID, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, grant)
}

func (h *handler) updateAccess(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch model.AccessGrantPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	grant, err := h.Access.Update(c.Request.Context(), id, &patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, grant)
}
