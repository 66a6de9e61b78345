package models

// EmailConfig is the singleton SMTP configuration stored as a JSON value
// under the "email_config" key of the config table.
type EmailConfig struct {
	SMTPHost     string `json:"smtp_host,omitempty"`
	SMTPPort     int    `json:"smtp_port,omitempty"`
	SMTPUsername string `json:"smtp_username,omitempty"`
	SMTPPassword string `json:"smtp_password,omitempty"`
	FromEmail    string `json:"from_email,omitempty"`
	FromName     string `json:"from_name,omitempty"`
}

// Redacted returns a copy safe to hand to clients: the SMTP password is
// never included in read responses.
func (c EmailConfig) Redacted() EmailConfig {
	c.SMTPPassword = ""
	return c
}
