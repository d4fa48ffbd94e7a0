package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Gamma Profiler Configuration

# Time zone used to pick today's evaluation date
location = "America/New_York"

[model]
# Spot move, in basis points, that exposures are quoted per
move_bps = 10.0
# Continuously compounded risk-free rate (0.05 = 5%)
risk_free_rate = 0.0
# Continuous dividend yield
dividend_yield = 0.0

[profile]
# Number of spot levels in the scan grid
levels = 30
# Grid half-width as a fraction of spot (0.2 = 80%..120%)
band = 0.2
# Parallel workers for the scan, 0 = one per CPU
workers = 0

[feed]
base_url = "https://cdn.cboe.com/api/global/delayed_quotes/options"
timeout = "10s"
max_attempts = 3
initial_delay = "250ms"
# Stop calling the feed for breaker_cooldown after this many consecutive
# transport failures (0 disables)
breaker_threshold = 5
breaker_cooldown = "30s"

[batch]
tickers = ["SPX", "NDX", "RUT", "SPY", "QQQ", "IWM"]
# CSV exports land here, one directory per ticker
output_dir = "reports"

[store]
# Persist a summary of every analysis run in SQLite
enabled = false
# path = "~/.config/gamma-profiler/history.db"

[logging]
# debug, info, warn, error
level = "info"
file = true
# path = "~/.config/gamma-profiler/logs/gex.log"
`

// Template returns the commented default config file.
func Template() string {
	return configTemplate
}

func createTemplateConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
