package popup

// Fixed user-facing messages.
const (
	MsgWrongPage         = "Please navigate to the AMC seating selection screen."
	MsgRefreshPage       = "Error: If you are currently on the seating map, try refreshing the page."
	MsgNoCommunication   = "Error: Could not communicate with the page."
	MsgSeatOccupied      = "This seat is currently occupied."
	MsgSeatAvailable     = "This seat is currently available!"
	MsgAllOccupied       = "All requested seats are currently occupied."
	MsgAllSeatsAvailable = "All seats are currently available!"
	MsgInvalidEmail      = "Please enter a valid email address."
	MsgAlreadyShowing    = "You're already subscribed to notifications for this showing."
	MsgAlreadySeats      = "You're already subscribed to notifications for all these seats."
	MsgUnknownError      = "An unknown error occurred."
	MsgTryLater          = "An error occurred. Please try again later."
	msgSomeAvailable     = "The following seats are already available: %s"
	msgOccupiedFound     = "Found %d occupied seats. Enter your email to get notified when any become available."
	msgNotifyAny         = "We'll notify %s when any seat becomes available for this showing."
	msgNotifySeat        = "We'll notify %s when seat %s becomes available."
	msgNotifySeats       = "We'll notify %s when any of these seats become available: %s."
	msgPartialSubscribed = "Subscribed to notifications for %d new seats. Some seats were already subscribed."
)
