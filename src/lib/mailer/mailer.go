package mailer

import (
	"encoding/json"
	"fmt"
	"os"

	"travexe/src/lib"
	"travexe/src/types"

	"github.com/google/uuid"
)

// NewMailerMessage hands the email off to the mail queue. When no queue is
// configured the message is dropped silently; notification records are the
// source of truth and email is best effort.
func NewMailerMessage(input *lib.SendMailInput) error {
	emailQueue := os.Getenv("EMAIL_QUEUE")
	if emailQueue == "" {
		return nil
	}
	emailBody := &types.JSONB{
		"message-id": uuid.NewString(),
		"from":       input.From,
		"from-name":  input.FromName,
		"to":         input.To,
		"body":       input.Body,
		"html":       input.Html,
		"subject":    input.Subject,
	}
	body, err := json.Marshal(&emailBody)
	if err != nil {
		return err
	}
	if err := lib.SQSProduceMessage(emailQueue, string(body)); err != nil {
		return fmt.Errorf("error sending message to queue: %s", err.Error())
	}
	return nil
}
