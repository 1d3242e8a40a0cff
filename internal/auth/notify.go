package auth

// Notification is a user-facing message for one application instance
type Notification struct {
	Level   string `json:"level"` // success, info, error
	Message string `json:"message"`
}

// Notifier pushes notifications and session changes to an instance's connected clients
type Notifier interface {
	Notify(deviceID string, n Notification)
	SessionChanged(deviceID string, session *Session)
}

// NopNotifier drops everything
type NopNotifier struct{}

func (NopNotifier) Notify(string, Notification) {}

func (NopNotifier) SessionChanged(string, *Session) {}
