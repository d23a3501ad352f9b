package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"

	"gymspot/internal/logger"
	"gymspot/internal/metrics"
)

const (
	queueKey   = "emails"
	maxRetries = 3
)

type EmailJob struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Type    string    `json:"type"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Service struct {
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

// NewWithClient is used by tests to inject a mock redis client.
func NewWithClient(client *redis.Client, fromEmail, fromName string) *Service {
	return &Service{
		redis:    client,
		from:     fromEmail,
		fromName: fromName,
	}
}

func (s *Service) enqueue(ctx context.Context, job EmailJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal email job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Errorf("Failed to queue email to %s: %v", job.To, err)
		metrics.RecordEmail(job.Type, "queue_failed")
		return err
	}

	metrics.RecordEmail(job.Type, "queued")
	logger.Infof("Email queued: %s to %s", job.Subject, job.To)
	return nil
}

func (s *Service) Send(ctx context.Context, to, name, subject, body string) error {
	return s.enqueue(ctx, EmailJob{
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Type:    "generic",
		Created: time.Now(),
	})
}

func (s *Service) SendBookingConfirmation(ctx context.Context, to, name, gymName, slotWhen string) error {
	body := fmt.Sprintf("Hi %s,\n\nYour booking at %s for %s is confirmed. See you there!\n\n— %s",
		name, gymName, slotWhen, s.fromName)
	return s.enqueue(ctx, EmailJob{
		To:      to,
		Name:    name,
		Subject: "Booking confirmed",
		Body:    body,
		Type:    "booking_confirmation",
		Created: time.Now(),
	})
}

func (s *Service) SendBookingCancellation(ctx context.Context, to, name, gymName, slotWhen string) error {
	body := fmt.Sprintf("Hi %s,\n\nYour booking at %s for %s has been cancelled and the spot released.\n\n— %s",
		name, gymName, slotWhen, s.fromName)
	return s.enqueue(ctx, EmailJob{
		To:      to,
		Name:    name,
		Subject: "Booking cancelled",
		Body:    body,
		Type:    "booking_cancellation",
		Created: time.Now(),
	})
}

// Start runs the queue worker until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("Email service started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Email service stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	if len(result) < 2 {
		return
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Failed to unmarshal email job: %v", err)
		return
	}

	if length, err := s.redis.LLen(ctx, queueKey).Result(); err == nil {
		metrics.EmailQueueLength.Set(float64(length))
	}

	if err := s.deliver(job); err != nil {
		job.Tries++
		if job.Tries < maxRetries {
			logger.Errorf("Failed to send email to %s (attempt %d): %v", job.To, job.Tries, err)
			if data, merr := json.Marshal(job); merr == nil {
				s.redis.LPush(ctx, queueKey, data)
			}
			return
		}
		metrics.RecordEmail(job.Type, "failed")
		logger.Errorf("Dropping email to %s after %d attempts: %v", job.To, job.Tries, err)
		return
	}

	metrics.RecordEmail(job.Type, "sent")
}

func (s *Service) deliver(job EmailJob) error {
	if s.smtpHost == "" {
		// No SMTP configured (dev environments); treat as delivered.
		logger.Debugf("SMTP not configured, skipping email to %s: %s", job.To, job.Subject)
		return nil
	}

	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.fromName, s.from, job.To, job.Subject, job.Body)

	addr := s.smtpHost + ":" + s.smtpPort
	auth := smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)

	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(msg))
}

func (s *Service) Close() error {
	return s.redis.Close()
}
