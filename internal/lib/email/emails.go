package email

import "context"

// SendWelcomeEmail greets a user created by an administrator.
func (c *Client) SendWelcomeEmail(ctx context.Context, to, name, username string) error {
	data := map[string]string{
		"UserName": name,
		"Username": username,
	}

	return c.SendEmail(ctx, to, "Welcome to GearGuardian", TemplateWelcome, data)
}
