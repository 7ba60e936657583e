package handlers

import (
	"github.com/Freeeeeet/availability_bot/internal/controller/state"
	"github.com/Freeeeeet/availability_bot/internal/service"
	"go.uber.org/zap"
)

// Handlers holds the dependencies of command, dialog and callback handlers.
type Handlers struct {
	userService         *service.UserService
	scheduleService     *service.ScheduleService
	eventService        *service.EventService
	calendarService     *service.CalendarService
	availabilityService *service.AvailabilityService
	stateManager        *state.Manager
	logger              *zap.Logger
}

func NewHandlers(
	userService *service.UserService,
	scheduleService *service.ScheduleService,
	eventService *service.EventService,
	calendarService *service.CalendarService,
	availabilityService *service.AvailabilityService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		userService:         userService,
		scheduleService:     scheduleService,
		eventService:        eventService,
		calendarService:     calendarService,
		availabilityService: availabilityService,
		stateManager:        stateManager,
		logger:              logger,
	}
}
