package eventbus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithKafka_RequiresBrokers(t *testing.T) {
	_, err := NewWithKafka(context.Background(), []string{" ", ""}, KafkaConfig{}, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "brokers are required")
}

func TestNewKafkaDialer_PlainByDefault(t *testing.T) {
	dialer, transport, err := newKafkaDialer(KafkaConfig{})
	require.NoError(t, err)
	assert.Nil(t, transport)
	assert.Nil(t, dialer.TLS)
	assert.Nil(t, dialer.SASLMechanism)
}

func TestNewKafkaDialer_SASL(t *testing.T) {
	dialer, transport, err := newKafkaDialer(KafkaConfig{SASLUsername: "bank", SASLPassword: " pw "})
	require.NoError(t, err)
	require.NotNil(t, transport)
	assert.Equal(t, plain.Mechanism{Username: "bank", Password: "pw"}, dialer.SASLMechanism)
}

func TestBuildKafkaSASLMechanism_HalfSet(t *testing.T) {
	_, err := buildKafkaSASLMechanism(KafkaConfig{SASLUsername: "bank"})
	assert.Error(t, err)
	_, err = buildKafkaSASLMechanism(KafkaConfig{SASLPassword: "pw"})
	assert.Error(t, err)
}

func TestBuildKafkaTLSConfig(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "ca.pem")
	require.NoError(t, os.WriteFile(garbage, []byte("not a certificate"), 0o600))

	tests := []struct {
		name    string
		cfg     KafkaConfig
		wantNil bool
		wantErr string
	}{
		{name: "disabled ignores files", cfg: KafkaConfig{TLSCAFile: garbage}, wantNil: true},
		{name: "enabled without files", cfg: KafkaConfig{TLSEnabled: true}},
		{name: "missing ca", cfg: KafkaConfig{TLSEnabled: true, TLSCAFile: filepath.Join(dir, "nope.pem")}, wantErr: "read tls ca file"},
		{name: "invalid ca", cfg: KafkaConfig{TLSEnabled: true, TLSCAFile: garbage}, wantErr: "invalid tls ca file"},
		{name: "cert without key", cfg: KafkaConfig{TLSEnabled: true, TLSCertFile: garbage}, wantErr: "both required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildKafkaTLSConfig(tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Nil(t, got.RootCAs)
			assert.Empty(t, got.Certificates)
		})
	}
}
