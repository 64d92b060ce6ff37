//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/tide-draft-report/internal/adapter/kafka"
	"github.com/couchcryptid/tide-draft-report/internal/adapter/render"
	"github.com/couchcryptid/tide-draft-report/internal/adapter/shn"
	"github.com/couchcryptid/tide-draft-report/internal/config"
	"github.com/couchcryptid/tide-draft-report/internal/domain"
	"github.com/couchcryptid/tide-draft-report/internal/observability"
	"github.com/couchcryptid/tide-draft-report/internal/report"
)

const (
	testReportTopic = "test-reports"
	testChart       = `<svg xmlns="http://www.w3.org/2000/svg">` +
		`<text x="-5" y="100" text-anchor="end">0,5</text>` +
		`<text x="-5" y="200" text-anchor="end">1,0</text>` +
		`<text x="300" y="20">Altura del nivel del agua (Palermo)</text></svg>`
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("tide-report-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestReportEventsEndToEnd generates an SVG report from a fake SHN server and
// verifies the report event lands on the Kafka topic.
func TestReportEventsEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testReportTopic)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write([]byte(testChart))
	}))
	t.Cleanup(upstream.Close)

	cfg := &config.Config{
		SourceURL:        upstream.URL,
		FetchTimeout:     5 * time.Second,
		KafkaBrokers:     []string{broker},
		KafkaReportTopic: testReportTopic,
	}
	metrics := observability.NewMetricsForTesting()

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	gen := report.New(
		shn.NewClient(cfg.SourceURL, cfg.FetchTimeout, metrics, discardLogger()),
		domain.DefaultDraftTable(),
		render.SVG{},
		writer,
		"Punta_Indio",
		discardLogger(),
		metrics,
	)

	r, err := gen.Generate(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(r.Body), "Tide 0.5 = Draft with Gangway 7.90 m")
	assert.Contains(t, string(r.Body), "Tide 1.0 = Draft with Gangway 8.40 m")
	assert.Contains(t, string(r.Body), domain.ChartTitle)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testReportTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from report topic")

	assert.Equal(t, r.ID, string(msg.Key))

	var event report.Event
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, r.ID, event.ID)
	assert.Equal(t, "svg", event.Format)
	assert.Equal(t, "Punta_Indio.svg", event.Filename)
	assert.Equal(t, upstream.URL, event.SourceURL)
	assert.Equal(t, len(r.Body), event.SizeBytes)
	assert.Equal(t, 2, event.Stats.Rewritten)
	assert.True(t, event.Stats.TitleReplaced)
}
