package config

import (
	"strconv"
	"time"

	"github.com/hako/durafmt"
)

// Duration is a time.Duration that unmarshals from either a bare number of
// seconds or a duration string ("30s", "5m"), and renders human-readably
// via durafmt, the same convenience blocky's own Duration type provides for
// YAML config values.
type Duration struct{ time.Duration }

// NewDuration wraps a time.Duration.
func NewDuration(d time.Duration) Duration {
	return Duration{Duration: d}
}

func (d Duration) String() string {
	return durafmt.Parse(d.Duration).String()
}

func (d *Duration) UnmarshalText(data []byte) error {
	input := string(data)

	if seconds, err := strconv.Atoi(input); err == nil {
		d.Duration = time.Duration(seconds) * time.Second

		return nil
	}

	parsed, err := time.ParseDuration(input)
	if err != nil {
		return err
	}

	d.Duration = parsed

	return nil
}
