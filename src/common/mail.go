package common

import (
	"encoding/json"
	"log"
	"os"

	"travexe/src/lib"

	"github.com/aws/aws-sdk-go-v2/aws"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/tidwall/gjson"
)

// DeliverQueuedEmail handles one message from the email queue. Delivery goes
// through SES when EMAIL_PROVIDER=ses, otherwise plain SMTP.
func DeliverQueuedEmail(payload string) {
	body := gjson.Parse(payload)
	to := make([]string, 0)
	if err := json.Unmarshal([]byte(body.Get("to").Raw), &to); err != nil || len(to) == 0 {
		log.Printf("Dropping email message with no recipients: %s\n", payload)
		return
	}
	subject := body.Get("subject").String()
	content := body.Get("body").String()
	from := body.Get("from").String()

	if os.Getenv("EMAIL_PROVIDER") == "ses" {
		message := &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body:    &sestypes.Body{Text: &sestypes.Content{Data: aws.String(content)}},
		}
		if body.Get("html").Bool() {
			message.Body = &sestypes.Body{Html: &sestypes.Content{Data: aws.String(content)}}
		}
		destination := &sestypes.Destination{ToAddresses: to}
		lib.SESSendMessage(aws.String(from), destination, message)
		return
	}

	input := &lib.SendMailInput{
		From:     from,
		FromName: body.Get("from-name").String(),
		To:       to,
		Subject:  subject,
		Body:     content,
		Html:     body.Get("html").Bool(),
	}
	if err := lib.SendMail(input); err != nil {
		log.Printf("Error delivering email: %s\n", err.Error())
	}
}
