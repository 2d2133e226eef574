package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Omkar-XD/Realty-Match-System/internal/constants"
	"github.com/Omkar-XD/Realty-Match-System/internal/contextkeys"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/port"
	"github.com/Omkar-XD/Realty-Match-System/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	routingKey string
	msg        amqp.Publishing
	err        error
}

func (f *fakePublisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	f.routingKey = routingKey
	f.msg = msg
	return f.err
}

type fakePropertyUseCase struct {
	calledWith uuid.UUID
	result     *domain.PropertyMatches
	err        error
}

func (f *fakePropertyUseCase) Execute(ctx context.Context, propertyID uuid.UUID, opts domain.MatchOptions) (*domain.PropertyMatches, error) {
	f.calledWith = propertyID
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type recordingLogger struct {
	fields port.Fields
	infos  []string
}

func (l *recordingLogger) Info(msg string, fields port.Fields)             { l.infos = append(l.infos, msg) }
func (l *recordingLogger) Warn(msg string, fields port.Fields)             {}
func (l *recordingLogger) Error(msg string, err error, fields port.Fields) {}
func (l *recordingLogger) Debug(msg string, fields port.Fields)            {}
func (l *recordingLogger) WithFields(fields port.Fields) port.LoggerPort {
	merged := port.Fields{}
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &recordingLogger{fields: merged}
}

func sampleMatches() *domain.PropertyMatches {
	return &domain.PropertyMatches{
		Property: domain.Property{
			ID:       uuid.MustParse("11111111-1111-1111-1111-111111111111"),
			Location: "Baner",
			Price:    domain.PriceRange{Min: 60_00_000, Max: 60_00_000},
		},
		Matches: []domain.RequirementMatch{{
			Requirement: domain.Requirement{
				ID:        uuid.MustParse("22222222-2222-2222-2222-222222222222"),
				EnquiryID: uuid.MustParse("33333333-3333-3333-3333-333333333333"),
			},
			Score:   92,
			Reasons: []string{"Preferred location: Baner"},
		}},
		TotalCount: 1,
	}
}

func TestMatchesNotifierAdapter(t *testing.T) {
	_, err := NewMatchesNotifierAdapter(nil, "")
	require.Error(t, err)

	pub := &fakePublisher{}
	adapter, err := NewMatchesNotifierAdapter(pub, "")
	require.NoError(t, err)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	adapter.now = func() time.Time { return fixed }

	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-42")
	require.NoError(t, adapter.NotifyPropertyMatches(ctx, sampleMatches()))

	assert.Equal(t, constants.RoutingKeyMatchesFound, pub.routingKey)
	assert.Equal(t, "application/json", pub.msg.ContentType)
	assert.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)
	assert.Equal(t, "trace-42", pub.msg.Headers[constants.HeaderTraceID])

	var dto MatchesFoundDTO
	require.NoError(t, json.Unmarshal(pub.msg.Body, &dto))
	assert.Equal(t, "60.00 L", dto.Price)
	assert.Equal(t, "Baner", dto.Location)
	assert.Equal(t, fixed, dto.GeneratedAt)
	require.Len(t, dto.Matches, 1)
	assert.Equal(t, 92, dto.Matches[0].Score)
	assert.Equal(t, uuid.MustParse("33333333-3333-3333-3333-333333333333"), dto.Matches[0].EnquiryID)
}

func TestMatchesNotifierAdapter_PublishError(t *testing.T) {
	adapter, err := NewMatchesNotifierAdapter(&fakePublisher{err: errors.New("channel closed")}, "custom.key")
	require.NoError(t, err)

	err = adapter.NotifyPropertyMatches(context.Background(), sampleMatches())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "11111111-1111-1111-1111-111111111111")
}

func newTestConsumerAdapter(uc *fakePropertyUseCase) *PropertyListedConsumerAdapter {
	return &PropertyListedConsumerAdapter{useCase: uc, logger: &recordingLogger{}}
}

func TestPropertyListedConsumer_HandleMessage(t *testing.T) {
	propertyID := uuid.New()
	uc := &fakePropertyUseCase{result: sampleMatches()}
	adapter := newTestConsumerAdapter(uc)

	body, _ := json.Marshal(map[string]string{"property_id": propertyID.String()})
	err := adapter.handleMessage(context.Background(), amqp.Delivery{Body: body})

	require.NoError(t, err)
	assert.Equal(t, propertyID, uc.calledWith)
}

func TestPropertyListedConsumer_MalformedIsPermanent(t *testing.T) {
	uc := &fakePropertyUseCase{}
	adapter := newTestConsumerAdapter(uc)

	for _, body := range []string{`{}`, `{"property_id":"not-a-uuid"}`, `not json`} {
		err := adapter.handleMessage(context.Background(), amqp.Delivery{Body: []byte(body)})
		require.Error(t, err, body)
		assert.ErrorIs(t, err, rabbitmq_consumer.ErrPermanent, body)
	}
	assert.Equal(t, uuid.Nil, uc.calledWith)
}

func TestPropertyListedConsumer_NotFoundIsPermanent(t *testing.T) {
	adapter := newTestConsumerAdapter(&fakePropertyUseCase{err: domain.ErrPropertyNotFound})

	body, _ := json.Marshal(map[string]string{"property_id": uuid.NewString()})
	err := adapter.handleMessage(context.Background(), amqp.Delivery{Body: body})

	assert.ErrorIs(t, err, rabbitmq_consumer.ErrPermanent)
}

func TestPropertyListedConsumer_TransientErrorIsRetryable(t *testing.T) {
	dbErr := errors.New("connection reset")
	adapter := newTestConsumerAdapter(&fakePropertyUseCase{err: dbErr})

	body, _ := json.Marshal(map[string]string{"property_id": uuid.NewString()})
	err := adapter.handleMessage(context.Background(), amqp.Delivery{Body: body})

	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, rabbitmq_consumer.ErrPermanent)
}

func TestSchemaKey(t *testing.T) {
	assert.Equal(t, "PropertyListedEvent/1.0.0", schemaKey(nil))
	assert.Equal(t, "PropertyListedEvent/1.0.0", schemaKey(amqp.Table{constants.HeaderEventType: "PropertyListedEvent"}))
	assert.Equal(t, "Other/2.0.0", schemaKey(amqp.Table{
		constants.HeaderEventType:    "Other",
		constants.HeaderEventVersion: "2.0.0",
	}))
}

func TestPkgLoggerBridge(t *testing.T) {
	bridge := &PkgLoggerBridge{internalLogger: &recordingLogger{}}

	fields := bridge.toFields("queue", "q1", 42, "skipped", "dangling")

	assert.Equal(t, port.Fields{"queue": "q1"}, fields)
}
