package email

import (
	"fmt"
	"time"
)

func layout(title, body string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f4f4f4;">
    <table role="presentation" style="width: 100%%; border-collapse: collapse;">
        <tr>
            <td align="center" style="padding: 40px 0;">
                <table role="presentation" style="width: 600px; border-collapse: collapse; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
                    <tr>
                        <td style="padding: 40px 30px; text-align: center; background-color: #1D4ED8; border-radius: 8px 8px 0 0;">
                            <h1 style="margin: 0; color: #ffffff; font-size: 28px;">%s</h1>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 40px 30px;">
                            %s
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 30px; text-align: center; background-color: #f8f8f8; border-radius: 0 0 8px 8px;">
                            <p style="margin: 0; font-size: 12px; line-height: 18px; color: #999999;">
                                &copy; 2026 SlotRoster. All rights reserved.
                            </p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
`, title, title, body)
}

func paragraph(text string) string {
	return fmt.Sprintf(`<p style="margin: 0 0 20px; font-size: 16px; line-height: 24px; color: #333333;">%s</p>`, text)
}

// WelcomeEmailTemplate greets a new club owner
func WelcomeEmailTemplate(name, clubName string) string {
	body := paragraph(fmt.Sprintf("Hi %s,", name)) +
		paragraph(fmt.Sprintf("Welcome to SlotRoster! Your club <strong>%s</strong> is ready to go.", clubName)) +
		paragraph("You can now add aircraft, invite members and start scheduling bookings.")
	return layout("Welcome to SlotRoster", body)
}

// TrialStartedEmailTemplate confirms the trial window
func TrialStartedEmailTemplate(name, clubName string, trialEnd time.Time) string {
	body := paragraph(fmt.Sprintf("Hi %s,", name)) +
		paragraph(fmt.Sprintf("Your 30-day trial for <strong>%s</strong> is active.", clubName)) +
		paragraph(fmt.Sprintf("The trial runs until <strong>%s</strong>. During the trial you have unlimited aircraft.", trialEnd.Format("January 2, 2006"))) +
		paragraph("Pick a plan before the trial ends to keep your fleet online.")
	return layout("Your Trial Has Started", body)
}

// SubscriptionConfirmationEmailTemplate confirms a completed checkout
func SubscriptionConfirmationEmailTemplate(name, planName string) string {
	body := paragraph(fmt.Sprintf("Hi %s,", name)) +
		paragraph(fmt.Sprintf("Thanks for subscribing! Your <strong>%s</strong> plan is now active.", planName)) +
		paragraph("You can manage your subscription at any time from the billing page.")
	return layout("Subscription Confirmed", body)
}

// PasswordChangedEmailTemplate notifies of a password change
func PasswordChangedEmailTemplate(name string) string {
	body := paragraph(fmt.Sprintf("Hi %s,", name)) +
		paragraph("Your password was changed. All other sessions have been signed out.") +
		paragraph("If you did not make this change, contact support immediately.")
	return layout("Password Changed", body)
}
