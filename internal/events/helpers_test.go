package events

import "github.com/alexa091904/semi-project/internal/config"

func configWithDriver(driver string) config.EventsConfig {
	return config.EventsConfig{Driver: driver}
}
