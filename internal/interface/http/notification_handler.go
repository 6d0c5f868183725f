package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-directory/internal/application"
	"github.com/oksasatya/user-directory/internal/interface/middleware"
	"github.com/oksasatya/user-directory/pkg/response"
	"github.com/oksasatya/user-directory/pkg/session"
)

type NotificationHandler struct {
	Notifications *application.NotificationService
	R             *Renderer
}

func NewNotificationHandler(notifications *application.NotificationService, r *Renderer) *NotificationHandler {
	return &NotificationHandler{Notifications: notifications, R: r}
}

// Inbox GET /notifications/ (auth required)
func (h *NotificationHandler) Inbox(c *gin.Context) {
	a := middleware.Identity(c)
	inbox, err := h.Notifications.Inbox(c.Request.Context(), a.ID)
	if err != nil {
		h.R.ServerError(c, err)
		return
	}
	h.R.HTML(c, http.StatusOK, "notifications.html", gin.H{
		"Title":  h.R.T(c, "notifications.title", nil),
		"Items":  inbox.Items,
		"Unread": inbox.Unread,
	}, nil)
}

// MarkRead POST /notifications/read/:id (auth required)
// Unknown ids and other owners' ids get the same answer.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	a := middleware.Identity(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.R.Flash(c, session.Error, "notifications.not_found", nil)
		redirect(c, "/notifications/")
		return
	}
	_, err = h.Notifications.MarkRead(c.Request.Context(), id, a.ID)
	switch {
	case errors.Is(err, application.ErrNotificationNotFound):
		h.R.Flash(c, session.Error, "notifications.not_found", nil)
	case err != nil:
		h.R.ServerError(c, err)
		return
	}
	redirect(c, "/notifications/")
}

// UnreadCount GET /notifications/unread-count (auth required, JSON)
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	a := middleware.Identity(c)
	n, err := h.Notifications.CountUnread(c.Request.Context(), a.ID)
	if err != nil {
		response.Write(c, response.Error[any](c, http.StatusInternalServerError, "unread count failed", nil))
		return
	}
	response.Write(c, response.Success(c, http.StatusOK, gin.H{"unread": n}, "unread count", nil))
}
