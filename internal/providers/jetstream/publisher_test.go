package jetstream_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-social-escrow/internal/adapter"
	"github.com/feral-file/ff-social-escrow/internal/domain"
	"github.com/feral-file/ff-social-escrow/internal/mocks"
	publisher "github.com/feral-file/ff-social-escrow/internal/providers/jetstream"
)

type testPublisherMocks struct {
	natsJS *mocks.MockNatsJetStream
	conn   *mocks.MockNatsConn
	js     *mocks.MockJetStream
	json   *mocks.MockJSON
}

func setupTestPublisher(t *testing.T) *testPublisherMocks {
	ctrl := gomock.NewController(t)
	return &testPublisherMocks{
		natsJS: mocks.NewMockNatsJetStream(ctrl),
		conn:   mocks.NewMockNatsConn(ctrl),
		js:     mocks.NewMockJetStream(ctrl),
		json:   mocks.NewMockJSON(ctrl),
	}
}

var testConfig = publisher.Config{
	URL:            "nats://localhost:4222",
	StreamName:     "ESCROW_EVENTS",
	MaxReconnects:  3,
	ReconnectWait:  time.Second,
	ConnectionName: "test",
}

func TestNewPublisher_EnsuresStream(t *testing.T) {
	m := setupTestPublisher(t)

	m.natsJS.EXPECT().Connect("nats://localhost:4222", gomock.Any()).Return(m.conn, m.js, nil)
	m.js.EXPECT().
		EnsureStream(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, cfg jetstream.StreamConfig) error {
			assert.Equal(t, "ESCROW_EVENTS", cfg.Name)
			assert.Equal(t, []string{"events.escrow.>"}, cfg.Subjects)
			return nil
		})

	pub, err := publisher.NewPublisher(context.Background(), testConfig, m.natsJS, m.json)
	require.NoError(t, err)
	assert.NotNil(t, pub)

	m.conn.EXPECT().Close()
	pub.Close()
}

func TestNewPublisher_ConnectError(t *testing.T) {
	m := setupTestPublisher(t)

	m.natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil, nil, errors.New("no servers available"))

	pub, err := publisher.NewPublisher(context.Background(), testConfig, m.natsJS, m.json)
	assert.Error(t, err)
	assert.Nil(t, pub)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
}

func TestNewPublisher_StreamError(t *testing.T) {
	m := setupTestPublisher(t)

	m.natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(m.conn, m.js, nil)
	m.js.EXPECT().EnsureStream(gomock.Any(), gomock.Any()).Return(errors.New("insufficient resources"))
	m.conn.EXPECT().Close()

	pub, err := publisher.NewPublisher(context.Background(), testConfig, m.natsJS, m.json)
	assert.Error(t, err)
	assert.Nil(t, pub)
	assert.Contains(t, err.Error(), "failed to ensure stream ESCROW_EVENTS")
}

func TestPublishEvent(t *testing.T) {
	m := setupTestPublisher(t)

	m.natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(m.conn, m.js, nil)
	m.js.EXPECT().EnsureStream(gomock.Any(), gomock.Any()).Return(nil)

	// Real encoding for the payload assertion
	pub, err := publisher.NewPublisher(context.Background(), testConfig, m.natsJS, adapter.NewJSON())
	require.NoError(t, err)

	index := uint64(2)
	event := &domain.LedgerEvent{
		ID:           "01HZX3Q6M1V4T9N2C8R5B7K0PD",
		Type:         domain.EventTypeTokenEscrowed,
		Signer:       "sender-wallet",
		Handle:       "@alice",
		Amount:       500,
		PaymentIndex: &index,
		Timestamp:    time.Unix(1700000000, 0).UTC(),
	}

	m.js.EXPECT().
		Publish(gomock.Any(), "events.escrow.token_escrowed", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
			var decoded domain.LedgerEvent
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, event.ID, decoded.ID)
			assert.Equal(t, "@alice", decoded.Handle)
			assert.Equal(t, uint64(500), decoded.Amount)
			require.NotNil(t, decoded.PaymentIndex)
			assert.Equal(t, uint64(2), *decoded.PaymentIndex)
			assert.Len(t, opts, 1)
			return &jetstream.PubAck{Stream: "ESCROW_EVENTS", Sequence: 1}, nil
		})

	assert.NoError(t, pub.PublishEvent(context.Background(), event))
}

func TestPublishEvent_Errors(t *testing.T) {
	m := setupTestPublisher(t)

	m.natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(m.conn, m.js, nil)
	m.js.EXPECT().EnsureStream(gomock.Any(), gomock.Any()).Return(nil)

	pub, err := publisher.NewPublisher(context.Background(), testConfig, m.natsJS, m.json)
	require.NoError(t, err)

	event := &domain.LedgerEvent{ID: "id", Type: domain.EventTypeTokenClaimed}

	m.json.EXPECT().Marshal(event).Return(nil, errors.New("boom"))
	err = pub.PublishEvent(context.Background(), event)
	assert.ErrorContains(t, err, "failed to marshal event")

	m.json.EXPECT().Marshal(event).Return([]byte(`{}`), nil)
	m.js.EXPECT().
		Publish(gomock.Any(), "events.escrow.token_claimed", []byte(`{}`), gomock.Any()).
		Return(nil, errors.New("nats: timeout"))
	err = pub.PublishEvent(context.Background(), event)
	assert.ErrorContains(t, err, "failed to publish event")
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "events.escrow.social_linked", publisher.Subject(domain.EventTypeSocialLinked))
	assert.Equal(t, "events.escrow.pending_claim_closed", publisher.Subject(domain.EventTypePendingClaimClosed))
}
