package mailer

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendNewEnquiryNotification(toEmail, consultantName, postcode string) error
	SendFeedbackNotification(toEmail, consultantName, sessionRef string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	frontendURL string // Added to construct links
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	frontendURL := os.Getenv("FRONTEND_URL")

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		frontendURL: frontendURL,
	}
}

// SendNewEnquiryNotification informs a consultant that a new enquiry arrived
// for their agency. Only the postcode is disclosed, never the asker's identity.
func (s *emailService) SendNewEnquiryNotification(toEmail, consultantName, postcode string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "New enquiry in your agency")

	enquiriesLink := fmt.Sprintf("%s/sessions/consultant/sessionPreview", s.frontendURL)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hello %s,</h2>
			<p>A new enquiry (postcode %s) is waiting in your agency.</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open enquiries</a>
			<p>Please do not reply to this email.</p>
		</div>
	`, consultantName, postcode, enquiriesLink)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send enquiry notification to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Enquiry notification sent to %s\n", toEmail)
	return nil
}

// SendFeedbackNotification informs a peer consultant that feedback was
// requested on a session.
func (s *emailService) SendFeedbackNotification(toEmail, consultantName, sessionRef string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Feedback requested")

	feedbackLink := fmt.Sprintf("%s/sessions/consultant/sessionView/%s", s.frontendURL, sessionRef)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hello %s,</h2>
			<p>Feedback has been requested on one of your sessions.</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open session</a>
			<p>Please do not reply to this email.</p>
		</div>
	`, consultantName, feedbackLink)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send feedback notification to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Feedback notification sent to %s\n", toEmail)
	return nil
}
