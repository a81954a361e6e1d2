package ses_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"insurevis/internal/config"
	"insurevis/internal/domain"
	"insurevis/internal/notify/ses"
	"insurevis/mocks"
)

type fakeEmailAPI struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeEmailAPI) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-123")}, nil
}

func emailConfig() config.EmailConfig {
	return config.EmailConfig{
		FromAddress: "noreply@insurevis.app",
		FromName:    "InsureVis",
		PortalURL:   "https://portal.insurevis.app/",
	}
}

func TestNotify_SendsToClaimOwner(t *testing.T) {
	users := new(mocks.MockUserRepo)
	api := &fakeEmailAPI{}
	n := ses.NewNotifierWithClient(api, emailConfig(), users)

	ownerID := uuid.New()
	claimID := uuid.New()
	users.On("GetByID", mock.Anything, ownerID).Return(&domain.User{
		ID: ownerID, Email: "owner@example.com", FullName: "Dana <Owner>",
	}, nil)

	result := n.Notify(context.Background(), domain.Notification{
		TargetUserID: ownerID,
		ClaimID:      claimID,
		Title:        "Claim Rejected",
		Body:         "Reason: blurry photo",
		Tag:          domain.NotificationRejected,
	})

	require.True(t, result.OK, result.Error)
	assert.Equal(t, `"msg-123"`, string(result.Data))

	require.NotNil(t, api.input)
	assert.Equal(t, "InsureVis <noreply@insurevis.app>", aws.ToString(api.input.FromEmailAddress))
	assert.Equal(t, []string{"owner@example.com"}, api.input.Destination.ToAddresses)
	msg := api.input.Content.Simple
	assert.Equal(t, "Claim Rejected", aws.ToString(msg.Subject.Data))
	assert.Contains(t, aws.ToString(msg.Body.Html.Data), "Dana &lt;Owner&gt;")
	assert.Contains(t, aws.ToString(msg.Body.Html.Data), "https://portal.insurevis.app/claims/"+claimID.String())
	assert.Contains(t, aws.ToString(msg.Body.Text.Data), "Reason: blurry photo")
	users.AssertExpectations(t)
}

func TestNotify_OwnerLookupFails(t *testing.T) {
	users := new(mocks.MockUserRepo)
	api := &fakeEmailAPI{}
	n := ses.NewNotifierWithClient(api, emailConfig(), users)

	users.On("GetByID", mock.Anything, mock.Anything).Return(nil, domain.ErrUserNotFound)

	result := n.Notify(context.Background(), domain.Notification{TargetUserID: uuid.New()})

	assert.False(t, result.OK)
	assert.Contains(t, result.Error, "looking up claim owner")
	assert.Nil(t, api.input)
}

func TestNotify_OwnerWithoutEmail(t *testing.T) {
	users := new(mocks.MockUserRepo)
	n := ses.NewNotifierWithClient(&fakeEmailAPI{}, emailConfig(), users)

	users.On("GetByID", mock.Anything, mock.Anything).Return(&domain.User{FullName: "No Mail"}, nil)

	result := n.Notify(context.Background(), domain.Notification{TargetUserID: uuid.New()})

	assert.False(t, result.OK)
	assert.Equal(t, "claim owner has no email address", result.Error)
}

func TestNotify_SendFails(t *testing.T) {
	users := new(mocks.MockUserRepo)
	api := &fakeEmailAPI{err: errors.New("throttled")}
	n := ses.NewNotifierWithClient(api, emailConfig(), users)

	users.On("GetByID", mock.Anything, mock.Anything).Return(&domain.User{Email: "a@b.co"}, nil)

	result := n.Notify(context.Background(), domain.Notification{TargetUserID: uuid.New()})

	assert.False(t, result.OK)
	assert.Contains(t, result.Error, "throttled")
	assert.Equal(t, "ses", n.Name())
}
