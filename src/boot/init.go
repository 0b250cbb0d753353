package boot

import (
	"context"
	"log"
	"os"
	"time"

	"travexe/src/common"
	"travexe/src/lib"
	awslib "travexe/src/lib/aws"
)

// InitScheduler wires the two recurring jobs: the booking status sweep every
// 30 minutes and the trip reminder pass every morning at 09:00.
func InitScheduler() {
	sweepID, err := lib.CreateCronJob(func() {
		if _, err := common.UpdateExpiredBookings(context.Background()); err != nil {
			log.Printf("Error on booking status sweep: %s\n", err.Error())
		}
	}, 30*time.Minute)
	if err != nil {
		log.Printf("Error scheduling booking status sweep: %s\n", err.Error())
		return
	}
	log.Printf("Job ID: %s\n", *sweepID)
	reminderID, err := lib.CreateDailyCronJob(func() {
		if _, err := common.SendTripReminders(context.Background()); err != nil {
			log.Printf("Error on trip reminder pass: %s\n", err.Error())
		}
	}, "0 9 * * *")
	if err != nil {
		log.Printf("Error scheduling trip reminders: %s\n", err.Error())
		return
	}
	log.Printf("Job ID: %s\n", *reminderID)
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	log.Println("Jobs in queue:", len(sched.Jobs()))
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
		return
	}
}

// DownloadServiceKey fetches the Firebase admin credentials from S3 before
// the first Firestore call. Skipped when no bucket is configured.
func DownloadServiceKey() {
	if os.Getenv("S3_SECRETS_BUCKET") == "" {
		return
	}
	if err := lib.S3DownloadSecret("admin-sdk-credentials.json"); err != nil {
		log.Printf("Error downloading service key: %s\n", err.Error())
	}
}

// SQSConsumers starts the background queue listeners.
func SQSConsumers() {
	emailQueue := os.Getenv("EMAIL_QUEUE")
	if emailQueue == "" {
		return
	}
	mails := awslib.NewSQSConsumer(emailQueue, func(payload string) {
		log.Printf("%s: message received\n", emailQueue)
		common.DeliverQueuedEmail(payload)
	})
	mails.Listen()
}
