// Package config loads the host tool settings from a TOML file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"segmeter/protocol"
)

const (
	DefaultDevice       = "/dev/ttyUSB0"
	DefaultReadTimeout  = 100
	DefaultAckTimeout   = 2000
	DefaultRetries      = 3
	DefaultRetryDelay   = 500
	DefaultTasksFile    = "tasks.json"
	DefaultLogFile      = "segmeter-host.log"
	DefaultFileMode     = 0o644
	SchemaVersion       = 1
	defaultMaxLogSizeMB = 1
)

type Serial struct {
	Device        string `toml:"device"`
	Baud          int    `toml:"baud"`
	ReadTimeoutMS int    `toml:"read_timeout_ms"`
}

type Board struct {
	AckTimeoutMS int `toml:"ack_timeout_ms"`
	Retries      int `toml:"retries"`
	RetryDelayMS int `toml:"retry_delay_ms"`
}

type Logging struct {
	File      string `toml:"file"`
	MaxSizeMB int    `toml:"max_size_mb"`
	Debug     bool   `toml:"debug"`
}

// Values is the on-disk configuration.
type Values struct {
	ConfigSchema int     `toml:"config_schema"`
	TasksFile    string  `toml:"tasks_file"`
	Serial       Serial  `toml:"serial"`
	Board        Board   `toml:"board"`
	Logging      Logging `toml:"logging"`
}

// Defaults returns a fully populated configuration.
func Defaults() Values {
	var v Values
	v.applyDefaults()
	return v
}

func (v *Values) applyDefaults() {
	if v.ConfigSchema == 0 {
		v.ConfigSchema = SchemaVersion
	}
	if v.TasksFile == "" {
		v.TasksFile = DefaultTasksFile
	}
	if v.Serial.Device == "" {
		v.Serial.Device = DefaultDevice
	}
	if v.Serial.Baud <= 0 {
		v.Serial.Baud = protocol.Baud
	}
	if v.Serial.ReadTimeoutMS <= 0 {
		v.Serial.ReadTimeoutMS = DefaultReadTimeout
	}
	if v.Board.AckTimeoutMS <= 0 {
		v.Board.AckTimeoutMS = DefaultAckTimeout
	}
	if v.Board.Retries <= 0 {
		v.Board.Retries = DefaultRetries
	}
	if v.Board.RetryDelayMS < 0 {
		v.Board.RetryDelayMS = 0
	} else if v.Board.RetryDelayMS == 0 {
		v.Board.RetryDelayMS = DefaultRetryDelay
	}
	if v.Logging.File == "" {
		v.Logging.File = DefaultLogFile
	}
	if v.Logging.MaxSizeMB <= 0 {
		v.Logging.MaxSizeMB = defaultMaxLogSizeMB
	}
}

func (v Values) AckTimeout() time.Duration {
	return time.Duration(v.Board.AckTimeoutMS) * time.Millisecond
}

func (v Values) RetryDelay() time.Duration {
	return time.Duration(v.Board.RetryDelayMS) * time.Millisecond
}

// Load reads path from fs. A missing file yields the defaults.
func Load(fs afero.Fs, path string) (Values, error) {
	var v Values

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return v, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	v.applyDefaults()
	return v, nil
}

// Save writes v to path on fs.
func Save(fs afero.Fs, path string, v Values) error {
	data, err := toml.Marshal(&v)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, DefaultFileMode); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
