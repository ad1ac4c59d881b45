package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/Freeeeeet/edu_platform/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *handler) listNotifications(c *gin.Context) {
	items, err := h.Notifications.ListForUser(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *handler) createNotification(c *gin.Context) {
	var in service.CreateNotificationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	n, err := h.Notifications.Send(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *handler) markNotificationRead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Notifications.MarkRead(c.Request.Context(), id, currentUser(c).ID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) listDiscounts(c *gin.Context) {
	items, err := h.Discounts.ListActive(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *handler) createDiscount(c *gin.Context) {
	var in service.CreateDiscountInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	d, err := h.Discounts.Create(c.Request.Context(), currentUser(c).ID, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *handler) updateDiscount(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch model.DiscountPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.Discounts.Update(c.Request.Context(), id, &patch); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) deleteDiscount(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Discounts.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
