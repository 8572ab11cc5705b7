package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
env: test
http_server:
  port: "9090"
case_db:
  driver: memory
settlement:
  headquarters_id: hq-main
  payout_window_closed: true
  default_rate:
    commission_percent: "10"
    override_percent: "2"
  rates:
    - role: leader
      grade: Master
      commission_percent: "12.5"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "9090", cfg.HTTPServer.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTPServer.Host)
	assert.Equal(t, "50051", cfg.GRPCServer.Port)
	assert.Equal(t, "memory", cfg.CaseDB.Driver)
	assert.Equal(t, "info", cfg.LogConfig.LogLevel)
	assert.Equal(t, "case-events", cfg.KafkaService.Topic)
	assert.Equal(t, "hq-main", cfg.Settlement.HeadquartersID)
	assert.True(t, cfg.Settlement.PayoutWindowClosed)
	assert.Equal(t, "@every 1m", cfg.Presence.ReconcileSchedule)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSettlementRateTable(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	table, err := cfg.Settlement.RateTable()
	require.NoError(t, err)

	master := table.Lookup(domain.RoleLeader, domain.GradeMaster)
	assert.Equal(t, int64(125_000), master.Commission(1_000_000))
	assert.Equal(t, int64(0), master.Override(1_000_000))

	fallback := table.Lookup(domain.RoleLeader, domain.GradeB)
	assert.Equal(t, int64(100_000), fallback.Commission(1_000_000))
	assert.Equal(t, int64(20_000), fallback.Override(1_000_000))
}

func TestSettlementRateTableRejectsBadRates(t *testing.T) {
	tests := []struct {
		name string
		rate Rate
	}{
		{"not a number", Rate{CommissionPercent: "ten"}},
		{"over a hundred", Rate{OverridePercent: "101"}},
		{"negative", Rate{UsageFeePercent: "-1"}},
		{"unknown grade", Rate{Grade: "Z"}},
		{"negative fixed fee", Rate{UsageFeeFixed: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Settlement{Rates: []Rate{tt.rate}}
			_, err := s.RateTable()
			assert.Error(t, err)
		})
	}
}
