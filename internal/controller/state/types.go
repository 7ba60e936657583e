package state

// UserState is the step a user is at in a multi-message dialog.
type UserState string

const (
	StateNone UserState = ""

	// /setschedule
	StateSetScheduleWindows UserState = "set_schedule_windows"

	// /newevent
	StateNewEventName        UserState = "new_event_name"
	StateNewEventDuration    UserState = "new_event_duration"
	StateNewEventDescription UserState = "new_event_description"
)

// Dialog data keys.
const (
	KeyEventName     = "event_name"
	KeyEventDuration = "event_duration"
)

// UserData holds the dialog state and its scratch values.
type UserData struct {
	State UserState
	Data  map[string]any
}
