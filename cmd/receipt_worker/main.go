package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/proactivefit/proactive-server/config"
	"github.com/proactivefit/proactive-server/pkg/mailer"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if !cfg.MailSendEnabled {
		log.Println("MAIL_SEND_ENABLED=false; receipt worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQReceiptQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	if _, err := ch.QueueDeclare(cfg.RabbitMQReceiptQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQReceiptQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx := context.Background()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var job mailer.ReceiptJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				log.Printf("bad message: %v", err)
				_ = msg.Nack(false, false)
				continue
			}
			if job.To == "" {
				log.Printf("receipt without recipient, payment=%s", job.PaymentID)
				_ = msg.Nack(false, false)
				continue
			}

			subject, text, html := renderReceipt(job)

			c, cancel := context.WithTimeout(ctx, 15*time.Second)
			if err := mg.Send(c, job.To, subject, text, html); err != nil {
				cancel()
				log.Printf("send failed: %v", err)
				_ = msg.Nack(false, true)
				continue
			}
			cancel()
			_ = msg.Ack(false)
		}
		close(done)
	}()

	log.Printf("receipt worker listening on queue=%s", cfg.RabbitMQReceiptQueue)
	<-stop
	log.Printf("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

func renderReceipt(job mailer.ReceiptJob) (subject, text, html string) {
	subject = fmt.Sprintf("Your ProActive receipt — payment %s", job.PaymentID)

	lines := []string{
		"Thanks for enrolling with ProActive!",
		"",
		fmt.Sprintf("Payment ID: %s", job.PaymentID),
		fmt.Sprintf("Amount charged: $%.2f", job.Amount),
	}
	if len(job.ClassNames) > 0 {
		lines = append(lines, "", "Classes:")
		for _, n := range job.ClassNames {
			lines = append(lines, "  - "+n)
		}
	} else if len(job.ClassIDs) > 0 {
		lines = append(lines, "", fmt.Sprintf("Classes enrolled: %d", len(job.ClassIDs)))
	}
	lines = append(lines, "", "See you in class!")
	text = strings.Join(lines, "\n")

	var b strings.Builder
	b.WriteString("<h2>Thanks for enrolling with ProActive!</h2>")
	b.WriteString(fmt.Sprintf("<p>Payment ID: <code>%s</code><br>Amount charged: <b>$%.2f</b></p>", job.PaymentID, job.Amount))
	if len(job.ClassNames) > 0 {
		b.WriteString("<ul>")
		for _, n := range job.ClassNames {
			b.WriteString("<li>" + n + "</li>")
		}
		b.WriteString("</ul>")
	}
	b.WriteString("<p>See you in class!</p>")
	html = b.String()
	return subject, text, html
}
