package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"counseling-be/internal/entity"
	"counseling-be/internal/pkg/logger"
	"counseling-be/internal/pkg/mailer"
	"counseling-be/internal/pkg/usernames"
	"counseling-be/internal/repository/unitofwork"
	"counseling-be/pkg/events"
)

// enquiryNotificationPayload travels over the in-process queue between the
// enquiry workflow and the notification worker.
type enquiryNotificationPayload struct {
	SessionID string `json:"session_id"`
	GroupID   string `json:"group_id"`
	AgencyID  int64  `json:"agency_id"`
	Postcode  string `json:"postcode"`
}

type IEnquiryNotificationService interface {
	// Dispatch hands the notification off to the worker. Fire and forget: a
	// failure is logged and never reaches the enquiry caller.
	Dispatch(session *entity.Session)

	// Start runs the worker loop until the subscriber closes.
	Start() error
}

type enquiryNotificationService struct {
	topic        string
	pubSub       *gochannel.GoChannel
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	natsPub      EventPublisher
	logger       logger.ILogger
}

func NewEnquiryNotificationService(
	topic string,
	pubSub *gochannel.GoChannel,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	natsPub EventPublisher,
	notifLogger logger.ILogger,
) IEnquiryNotificationService {
	return &enquiryNotificationService{
		topic:        topic,
		pubSub:       pubSub,
		uowFactory:   uowFactory,
		emailService: emailService,
		natsPub:      natsPub,
		logger:       notifLogger,
	}
}

func (s *enquiryNotificationService) Dispatch(session *entity.Session) {
	payload := enquiryNotificationPayload{
		SessionID: session.Id.String(),
		AgencyID:  session.AgencyID,
		Postcode:  session.Postcode,
	}
	if session.GroupID != nil {
		payload.GroupID = *session.GroupID
	}

	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("notification", "could not marshal enquiry notification", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := s.pubSub.Publish(s.topic, msg); err != nil {
		s.logger.Error("notification", "could not dispatch enquiry notification", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
	}
}

func (s *enquiryNotificationService) Start() error {
	messages, err := s.pubSub.Subscribe(context.Background(), s.topic)
	if err != nil {
		return err
	}

	s.logger.Info("notification", "enquiry notification worker started", map[string]interface{}{
		"topic": s.topic,
	})

	for msg := range messages {
		s.handle(msg)
		msg.Ack()
	}
	return nil
}

func (s *enquiryNotificationService) handle(msg *message.Message) {
	var payload enquiryNotificationPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error("notification", "could not decode enquiry notification", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	ctx := context.Background()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	relations, err := uow.ConsultantRepository().FindAgencyRelations(ctx, payload.AgencyID)
	if err != nil {
		s.logger.Error("notification", "could not resolve agency consultants", map[string]interface{}{
			"agency_id": payload.AgencyID,
			"error":     err.Error(),
		})
		return
	}

	sent := 0
	for _, relation := range relations {
		consultant := relation.Consultant
		if consultant == nil || consultant.Absent || consultant.Email == "" {
			continue
		}
		name := usernames.Decode(consultant.Username)
		if err := s.emailService.SendNewEnquiryNotification(consultant.Email, name, payload.Postcode); err != nil {
			s.logger.Warn("notification", "enquiry mail failed", map[string]interface{}{
				"consultant_id": consultant.Id,
				"error":         err.Error(),
			})
			continue
		}
		sent++
	}

	if s.natsPub != nil {
		event := events.NewEnquiryReceived(payload.SessionID, payload.GroupID, payload.AgencyID)
		if err := s.natsPub.Publish(ctx, event); err != nil {
			s.logger.Warn("notification", "could not publish enquiry event", map[string]interface{}{
				"session_id": payload.SessionID,
				"error":      err.Error(),
			})
		}
	}

	s.logger.Info("notification", "enquiry notification processed", map[string]interface{}{
		"session_id": payload.SessionID,
		"mails_sent": sent,
	})
}
