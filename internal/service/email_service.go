package service

import (
	"context"
	"fmt"

	"adminbase/internal/mailer"
	"adminbase/internal/model"
)

// EmailService exposes the configuration-test send used to verify the
// transactional e-mail integration from the admin console
type EmailService interface {
	SendTest(ctx context.Context, adminID, recipient string) (string, error)
}

type emailService struct {
	authz  AuthzService
	audit  AuditService
	sender mailer.Sender
	from   string
	org    string
}

// NewEmailService returns a new instance of EmailService
func NewEmailService(authz AuthzService, audit AuditService, sender mailer.Sender, fromAddress, orgName string) EmailService {
	return &emailService{authz: authz, audit: audit, sender: sender, from: fromAddress, org: orgName}
}

func (s *emailService) SendTest(ctx context.Context, adminID, recipient string) (string, error) {
	admin, err := s.authz.ActiveAdmin(ctx, adminID)
	if err != nil {
		return "", err
	}

	msg := mailer.BuildTestEmail(s.org)
	msg.From = s.from
	msg.To = recipient

	id, err := s.sender.Send(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("failed to send test email: %w", err)
	}

	s.audit.Record(ctx, admin, model.ActionTestEmailSent, AuditOptions{
		TargetEmail: recipient,
		Details:     map[string]string{"message_id": id},
	})

	return id, nil
}
