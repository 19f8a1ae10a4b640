package broker

type EventType string

const (
	// Standardized event types in format: <resource>.<action>
	UserCreated EventType = "user.created"
	UserUpdated EventType = "user.updated"

	CategoryCreated EventType = "category.created"
	CategoryUpdated EventType = "category.updated"
	CategoryDeleted EventType = "category.deleted"

	TaskCreated     EventType = "task.created"
	TaskUpdated     EventType = "task.updated"
	TaskDeleted     EventType = "task.deleted"
	TaskCompleted   EventType = "task.completed"
	TaskUncompleted EventType = "task.uncompleted"
)

const (
	UserSubject     = "taskhub.users"
	CategorySubject = "taskhub.categories"
	TaskSubject     = "taskhub.tasks"
)
