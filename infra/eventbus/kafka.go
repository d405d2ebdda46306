package eventbus

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/bank/pkg/domain/events"
	"github.com/amirasaad/bank/pkg/eventbus"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"golang.org/x/sync/errgroup"
)

// KafkaConfig holds the optional settings of a KafkaEventBus.
// SASL is enabled when both credentials are set; TLS only when TLSEnabled.
type KafkaConfig struct {
	TopicPrefix   string
	GroupID       string
	SASLUsername  string
	SASLPassword  string
	TLSEnabled    bool
	TLSCAFile     string
	TLSCertFile   string
	TLSKeyFile    string
	TLSSkipVerify bool
}

// KafkaEventBus publishes each event type to its own topic,
// "<prefix>.<type>", and consumes one reader per registered type.
type KafkaEventBus struct {
	*handlerRegistry
	brokers     []string
	topicPrefix string
	groupID     string
	writer      *kafka.Writer
	dialer      *kafka.Dialer
	logger      *slog.Logger

	topicsMtx sync.Mutex
	topics    map[string]struct{}
}

// NewWithKafka creates a Kafka-backed event bus and checks the first broker
// is reachable.
func NewWithKafka(
	ctx context.Context,
	brokers []string,
	cfg KafkaConfig,
	logger *slog.Logger,
) (*KafkaEventBus, error) {
	parsed := make([]string, 0, len(brokers))
	for _, b := range brokers {
		if b = strings.TrimSpace(b); b != "" {
			parsed = append(parsed, b)
		}
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("kafka event bus: brokers are required")
	}
	topicPrefix := strings.TrimSpace(cfg.TopicPrefix)
	if topicPrefix == "" {
		topicPrefix = "bank.events"
	}
	groupID := cfg.GroupID
	if groupID == "" {
		groupID = "bank"
	}

	dialer, transport, err := newKafkaDialer(cfg)
	if err != nil {
		return nil, err
	}
	bus := &KafkaEventBus{
		handlerRegistry: newHandlerRegistry(),
		brokers:         parsed,
		topicPrefix:     topicPrefix,
		groupID:         groupID,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(parsed...),
			AllowAutoTopicCreation: true,
			RequiredAcks:           kafka.RequireOne,
			Balancer:               &kafka.Hash{},
			Transport:              transport,
		},
		dialer: dialer,
		logger: logger.With("bus", "kafka"),
		topics: make(map[string]struct{}),
	}

	conn, err := dialer.DialContext(ctx, "tcp", parsed[0])
	if err != nil {
		_ = bus.writer.Close()
		return nil, fmt.Errorf("kafka event bus: connection failed: %w", err)
	}
	_ = conn.Close()

	bus.logger.Info("kafka event bus initialized", "brokers", parsed, "group_id", groupID)
	return bus, nil
}

func newKafkaDialer(cfg KafkaConfig) (*kafka.Dialer, kafka.RoundTripper, error) {
	tlsConfig, err := buildKafkaTLSConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	mechanism, err := buildKafkaSASLMechanism(cfg)
	if err != nil {
		return nil, nil, err
	}

	dialer := &kafka.Dialer{
		Timeout:       10 * time.Second,
		DualStack:     true,
		TLS:           tlsConfig,
		SASLMechanism: mechanism,
	}
	if tlsConfig == nil && mechanism == nil {
		return dialer, nil, nil
	}
	return dialer, &kafka.Transport{TLS: tlsConfig, SASL: mechanism}, nil
}

func buildKafkaTLSConfig(cfg KafkaConfig) (*tls.Config, error) {
	if !cfg.TLSEnabled {
		return nil, nil
	}
	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: cfg.TLSSkipVerify, //nolint:gosec
	}

	if caFile := strings.TrimSpace(cfg.TLSCAFile); caFile != "" {
		caBytes, err := os.ReadFile(caFile)
		if err != nil {
			return nil, fmt.Errorf("kafka event bus: read tls ca file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caBytes) {
			return nil, errors.New("kafka event bus: invalid tls ca file")
		}
		tlsConfig.RootCAs = pool
	}

	certFile := strings.TrimSpace(cfg.TLSCertFile)
	keyFile := strings.TrimSpace(cfg.TLSKeyFile)
	if certFile != "" || keyFile != "" {
		if certFile == "" || keyFile == "" {
			return nil, errors.New("kafka event bus: tls cert and key are both required")
		}
		cert, err := tls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			return nil, fmt.Errorf("kafka event bus: load tls key pair: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}
	return tlsConfig, nil
}

func buildKafkaSASLMechanism(cfg KafkaConfig) (sasl.Mechanism, error) {
	username := strings.TrimSpace(cfg.SASLUsername)
	password := strings.TrimSpace(cfg.SASLPassword)
	if username == "" && password == "" {
		return nil, nil
	}
	if username == "" || password == "" {
		return nil, errors.New("kafka event bus: sasl username and password are both required")
	}
	return plain.Mechanism{Username: username, Password: password}, nil
}

func topicNameFor(prefix, eventType string) string {
	return prefix + "." + eventType
}

func dlqTopicNameFor(prefix, eventType string) string {
	return prefix + ".dlq." + eventType
}

// Register adds a handler; a reader for its topic starts on the next Run.
func (b *KafkaEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.add(eventType, handler)
}

// Emit writes the event to its type's topic keyed by type name.
func (b *KafkaEventBus) Emit(ctx context.Context, event events.Event) error {
	envBytes, err := encodeEnvelope(event)
	if err != nil {
		return fmt.Errorf("kafka event bus: %w", err)
	}
	topic := topicNameFor(b.topicPrefix, event.Type())
	if err := b.ensureTopic(ctx, topic); err != nil {
		return err
	}
	if err := b.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(event.Type()),
		Value: envBytes,
		Time:  time.Now(),
	}); err != nil {
		return fmt.Errorf("kafka event bus: publish failed: %w", err)
	}
	return nil
}

// Run consumes every registered type's topic until ctx is cancelled.
func (b *KafkaEventBus) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, eventType := range b.types() {
		topic := topicNameFor(b.topicPrefix, eventType)
		if err := b.ensureTopic(ctx, topic); err != nil {
			return err
		}
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:     b.brokers,
			GroupID:     b.groupID,
			Topic:       topic,
			StartOffset: kafka.FirstOffset,
			MinBytes:    1,
			MaxBytes:    10e6,
			MaxWait:     time.Second,
			Dialer:      b.dialer,
		})
		g.Go(func() error {
			defer func() { _ = reader.Close() }()
			b.consumeLoop(ctx, eventType, reader)
			return nil
		})
	}
	return g.Wait()
}

func (b *KafkaEventBus) consumeLoop(ctx context.Context, eventType string, reader *kafka.Reader) {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			b.logger.Error("kafka consume error", "error", err, "event_type", eventType)
			if !backoff(ctx, 500*time.Millisecond) {
				return
			}
			continue
		}

		if err := b.processMessage(ctx, eventType, msg); err != nil {
			b.logger.Error("kafka message processing failed; will retry",
				"error", err, "topic", msg.Topic, "offset", msg.Offset)
			if !backoff(ctx, 500*time.Millisecond) {
				return
			}
			continue
		}
		if err := reader.CommitMessages(ctx, msg); err != nil {
			b.logger.Error("kafka commit error", "error", err, "topic", msg.Topic, "offset", msg.Offset)
		}
	}
}

// processMessage returns an error only when the message must not be
// committed; undecodable or failed messages go to the DLQ topic.
func (b *KafkaEventBus) processMessage(ctx context.Context, eventType string, msg kafka.Message) error {
	evt, err := decodeEnvelope(msg.Value)
	if err != nil {
		b.logger.Error("failed to decode event", "error", err, "topic", msg.Topic, "offset", msg.Offset)
		return b.publishToDLQ(ctx, eventType, msg.Value)
	}
	if err := dispatch(ctx, b.logger, b.get(evt.Type()), evt); err != nil {
		return b.publishToDLQ(ctx, evt.Type(), msg.Value)
	}
	return nil
}

func (b *KafkaEventBus) publishToDLQ(ctx context.Context, eventType string, raw []byte) error {
	topic := dlqTopicNameFor(b.topicPrefix, eventType)
	if err := b.ensureTopic(ctx, topic); err != nil {
		return err
	}
	if err := b.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(eventType),
		Value: raw,
		Time:  time.Now(),
	}); err != nil {
		return fmt.Errorf("kafka event bus: dlq publish failed: %w", err)
	}
	b.logger.Warn("event pushed to DLQ", "topic", topic)
	return nil
}

func (b *KafkaEventBus) ensureTopic(ctx context.Context, topic string) error {
	b.topicsMtx.Lock()
	defer b.topicsMtx.Unlock()
	if _, ok := b.topics[topic]; ok {
		return nil
	}

	conn, err := b.dialer.DialContext(ctx, "tcp", b.brokers[0])
	if err != nil {
		return fmt.Errorf("kafka event bus: dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return fmt.Errorf("kafka event bus: create topic %s: %w", topic, err)
	}
	b.topics[topic] = struct{}{}
	return nil
}

// Close releases the writer.
func (b *KafkaEventBus) Close() error {
	return b.writer.Close()
}

var (
	_ eventbus.Bus = (*KafkaEventBus)(nil)
	_ Runner       = (*KafkaEventBus)(nil)
)
