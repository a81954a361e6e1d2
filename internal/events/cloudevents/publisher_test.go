package cloudevents_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurevis/internal/domain"
	"insurevis/internal/events/cloudevents"
)

func decidedEvent() domain.ReviewEvent {
	actor := uuid.New()
	return domain.ReviewEvent{
		Type:       domain.EventClaimDecided,
		ClaimID:    uuid.New(),
		Role:       domain.RoleInsuranceCompany,
		ActorID:    &actor,
		Data:       map[string]any{"decision": "approve"},
		OccurredAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestToCloudEvent(t *testing.T) {
	ev := decidedEvent()

	e, err := cloudevents.ToCloudEvent("/insurevis/review", ev)
	require.NoError(t, err)

	assert.NoError(t, e.Validate())
	assert.Equal(t, domain.EventClaimDecided, e.Type())
	assert.Equal(t, "/insurevis/review", e.Source())
	assert.Equal(t, ev.ClaimID.String(), e.Subject())
	assert.True(t, ev.OccurredAt.Equal(e.Time()))
	assert.Equal(t, "insurance_company", e.Extensions()["role"])

	var data domain.ReviewEvent
	require.NoError(t, json.Unmarshal(e.Data(), &data))
	assert.Equal(t, ev.ClaimID, data.ClaimID)
	assert.Equal(t, "approve", data.Data["decision"])
}

func TestToCloudEvent_NoRoleExtension(t *testing.T) {
	ev := decidedEvent()
	ev.Role = ""

	e, err := cloudevents.ToCloudEvent("/insurevis/review", ev)
	require.NoError(t, err)
	_, ok := e.Extensions()["role"]
	assert.False(t, ok)
}

func TestPublish_StructuredToSink(t *testing.T) {
	var contentType string
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	pub, err := cloudevents.NewPublisher(srv.URL, "/insurevis/review")
	require.NoError(t, err)

	ev := decidedEvent()
	require.NoError(t, pub.Publish(context.Background(), ev))

	assert.Contains(t, contentType, "application/cloudevents+json")
	assert.Equal(t, "1.0", body["specversion"])
	assert.Equal(t, domain.EventClaimDecided, body["type"])
	assert.Equal(t, ev.ClaimID.String(), body["subject"])
}

func TestPublish_SinkRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	pub, err := cloudevents.NewPublisher(srv.URL, "/insurevis/review")
	require.NoError(t, err)

	err = pub.Publish(context.Background(), decidedEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.EventClaimDecided)
}
