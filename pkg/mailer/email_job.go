package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either set Template plus Data, or provide Subject and a raw Text/HTML body.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "reset_password"
	Data     map[string]any `json:"data,omitempty"`
}
