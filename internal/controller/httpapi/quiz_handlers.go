package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/Freeeeeet/edu_platform/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *handler) listQuizzes(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	quizzes, err := h.Quizzes.ListBySubject(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

// getQuiz правильные варианты видит только админ
func (h *handler) getQuiz(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	quiz, err := h.Quizzes.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !currentUser(c).IsAdmin() {
		quiz.HideAnswers()
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *handler) createQuiz(c *gin.Context) {
	var in service.CreateQuizInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	quiz, err := h.Quizzes.Create(c.Request.Context(), currentUser(c).ID, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

func (h *handler) updateQuiz(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch model.QuizPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	quiz, err := h.Quizzes.Update(c.Request.Context(), id, &patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *handler) deleteQuiz(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Quizzes.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) listAnswers(c *gin.Context) {
	studentID, ok := queryID(c, "student_id")
	if !ok {
		return
	}
	quizID, ok := queryID(c, "quiz_id")
	if !ok {
		return
	}
	if !canActFor(c, studentID) {
		forbidden(c)
		return
	}
	answers, err := h.Answers.List(c.Request.Context(), studentID, quizID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}

func (h *handler) submitAnswer(c *gin.Context) {
	var in service.SubmitAnswerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if !canActFor(c, in.StudentID) {
		forbidden(c)
		return
	}
	answer, err := h.Answers.Submit(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, answer)
}

func (h *handler) gradeAnswer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in service.GradeAnswerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	answer, err := h.Answers.Grade(c.Request.Context(), id, currentUser(c).ID, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}
