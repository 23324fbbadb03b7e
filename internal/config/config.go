package config

import "time"

// Config is the root configuration for tasq.
type Config struct {
	API    APIConfig    `json:"api"`
	Events EventsConfig `json:"events"`
	UI     UIConfig     `json:"ui"`
}

// APIConfig holds the remote task API settings.
type APIConfig struct {
	BaseURL string   `json:"base_url"`
	Timeout Duration `json:"timeout,omitempty"`
}

// EventsConfig holds notification bus settings.
type EventsConfig struct {
	BufferSize int `json:"buffer_size"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	ToastDuration Duration `json:"toast_duration,omitempty"`
}

// Duration wraps time.Duration for JSON unmarshaling.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	// Remove quotes
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}
