package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// EventsController отдает диагностический журнал событий, новые первыми.
type EventsController struct {
	events EventLister
}

func NewEventsController(events EventLister) *EventsController {
	return &EventsController{events: events}
}

// List обрабатывает GET /api/events.
func (e *EventsController) List(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, e.events.List(ctx.Request.Context()))
}
