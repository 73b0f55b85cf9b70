package templates

import "time"

// Option pattern
type Option func(*EmailData)

func WithResetURL(url string) Option { return func(d *EmailData) { d.ResetURL = url } }

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04 MST")
	}
}

func WithExpiresIn(dur time.Duration) Option {
	return func(d *EmailData) {
		WithExpiresAt(time.Now().Add(dur))(d)
	}
}

// NewResetPasswordData fills the fields the reset-password templates need.
func NewResetPasswordData(companyName, appName, supportURL, name, email, resetURL string, opts ...Option) EmailData {
	d := EmailData{
		Name:  name,
		Email: email,
		Type:  ResetPassword,

		CompanyName: companyName,
		AppName:     appName,
		SupportURL:  supportURL,

		ResetURL: resetURL,
	}
	for _, o := range opts {
		o(&d)
	}
	return d
}
