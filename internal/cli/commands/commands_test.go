package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"poscheck/internal/config"
)

func TestNewAPIClient_HonorsTimeoutFlag(t *testing.T) {
	cfg := &config.Config{APIURL: "http://localhost:8000/api.php", Timeout: config.DefaultTimeout}

	assert.Equal(t, config.DefaultTimeout, newAPIClient(cfg).Timeout())

	// The flag lands after cobra parses it; a client built then must
	// carry the flag value, not the default.
	cfg.Flags.Timeout = 7 * time.Second
	assert.Equal(t, 7*time.Second, newAPIClient(cfg).Timeout())
}
