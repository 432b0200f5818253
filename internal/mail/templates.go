// AngelaMos | 2026
// templates.go

package mail

import (
	"fmt"
)

// PasswordReset builds the reset email. The link carries the one-time
// secret; the recipient has twenty minutes before it lapses.
func PasswordReset(to, name, resetURL string) Email {
	html := fmt.Sprintf(
		`<p>Hello %s,</p>
<p>We received a request to reset your password. Click the link below to
choose a new one:</p>
<p><a href="%s">Reset your password</a></p>
<p>The link expires in 20 minutes. If you did not request a reset you can
ignore this email.</p>`,
		name,
		resetURL,
	)

	return Email{
		To:      to,
		Subject: "Reset your password",
		HTML:    html,
	}
}
