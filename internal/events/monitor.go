package events

// Entity types
const (
	EntityUnit        = "unit"
	EntityPlaceholder = "placeholder"
)

// Event type constants
const (
	EventUnitAdded         = "unit.added"
	EventUnitStatusChanged = "unit.status.changed"
	EventUnitAvailable     = "unit.available"
	EventUnitNotFound      = "unit.not_found"
	EventUnitRemoved       = "unit.removed"

	EventPlaceholderCreated = "placeholder.created"
	EventPlaceholderDeleted = "placeholder.deleted"
)

// UnitAdded is emitted when a unit enters monitoring.
type UnitAdded struct {
	BaseEvent
	Key       string `json:"key"` // movie/550, episode/81189/S01E08
	Title     string `json:"title"`
	RatingKey string `json:"rating_key,omitempty"`
	Tier      string `json:"tier"`
}

// UnitStatusChanged is emitted on every monitored status transition.
type UnitStatusChanged struct {
	BaseEvent
	Key       string `json:"key"`
	Title     string `json:"title"`
	RatingKey string `json:"rating_key,omitempty"`
	From      string `json:"from"`
	To        string `json:"to"`
	Progress  int    `json:"progress"`
	Display   string `json:"display"` // "Downloading 42%"
}

// UnitAvailable is emitted when the backend confirms the real file.
type UnitAvailable struct {
	BaseEvent
	Key       string `json:"key"`
	Title     string `json:"title"`
	RatingKey string `json:"rating_key,omitempty"`
}

// UnitNotFound is emitted when monitoring gives up on a unit.
type UnitNotFound struct {
	BaseEvent
	Key       string `json:"key"`
	Title     string `json:"title"`
	RatingKey string `json:"rating_key,omitempty"`
	Reason    string `json:"reason"` // "timeout" or "attempt ceiling"
	Attempts  int    `json:"attempts"`
}

// UnitRemoved is emitted when a unit leaves the registry after its cleanup
// delay.
type UnitRemoved struct {
	BaseEvent
	Key       string `json:"key"`
	Title     string `json:"title"`
	RatingKey string `json:"rating_key,omitempty"`
}

// PlaceholderCreated is emitted when a placeholder file is placed on disk.
type PlaceholderCreated struct {
	BaseEvent
	Key  string `json:"key"`
	Path string `json:"path"`
}

// PlaceholderDeleted is emitted when a placeholder is removed, normally
// because the real file arrived.
type PlaceholderDeleted struct {
	BaseEvent
	Key  string `json:"key"`
	Path string `json:"path"`
}
