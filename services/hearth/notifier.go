package hearth

import "context"

// RecipientAdmin addresses the operator mailbox configured for the deployment.
const RecipientAdmin = "admin"

// Notification kinds.
const (
	KindProfileCreated  = "profile.created"
	KindActivityCreated = "activity.created"
)

// Notification is the payload handed to a Notifier.
type Notification struct {
	Kind      string            `json:"kind"`
	Recipient string            `json:"recipient"`
	Subject   string            `json:"subject"`
	Body      string            `json:"body"`
	Fields    map[string]string `json:"fields"`
}

// Notifier delivers notifications. Errors are logged by the caller and
// never affect the operation that triggered the notification.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n Notification) error { return f(ctx, n) }

// Renderer turns a named template and data into a notification body.
type Renderer interface {
	Render(name string, data any) (string, error)
}
