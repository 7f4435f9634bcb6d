package api

import (
	"context"

	"github.com/emailnator/client-go/internal/apierrors"
)

// GenerateEmails asks the service for count new addresses built with kinds.
// Inputs are validated before any request is made.
func (c *Client) GenerateEmails(ctx context.Context, kinds []EmailKind, count uint) ([]string, error) {
	if len(kinds) == 0 {
		return nil, apierrors.ErrNoEmailKinds
	}
	if count == 0 {
		return nil, apierrors.ErrZeroCount
	}

	const op = "generate emails"
	resp, err := c.post(ctx, op, PathGenerateEmail, generateEmailRequest{
		Email:   kinds,
		EmailNo: count,
	})
	if err != nil {
		return nil, err
	}

	var result generateEmailResponse
	if err := decode(op, resp.body, &result); err != nil {
		return nil, err
	}
	return result.Email, nil
}

// ListMessages returns the headers currently in the inbox of email.
func (c *Client) ListMessages(ctx context.Context, email string) ([]MailHeader, error) {
	const op = "fetch inbox"
	resp, err := c.post(ctx, op, PathMessageList, messageListRequest{Email: email})
	if err != nil {
		return nil, err
	}

	var result messageListResponse
	if err := decode(op, resp.body, &result); err != nil {
		return nil, err
	}
	return result.MessageData, nil
}

// GetMessage returns the raw content of message id in the inbox of email.
// The service answers with the message body itself, not a JSON envelope; it
// is decoded to UTF-8 according to the declared charset.
func (c *Client) GetMessage(ctx context.Context, email, id string) (string, error) {
	resp, err := c.post(ctx, "read message", PathMessageList, messageRequest{
		Email:     email,
		MessageID: id,
	})
	if err != nil {
		return "", err
	}
	return resp.text(), nil
}
