package server

import (
	"os"
	"strconv"

	"github.com/cwkr/safetynet/internal/medical"
	"github.com/cwkr/safetynet/internal/people"
	"github.com/cwkr/safetynet/internal/stations"
)

type Settings struct {
	Port         int                     `json:"port"`
	DataFile     string                  `json:"data_file"`
	LogLevel     string                  `json:"log_level,omitempty"`
	LogFormat    string                  `json:"log_format,omitempty"`
	PersonStore  *people.StoreSettings   `json:"person_store,omitempty"`
	StationStore *stations.StoreSettings `json:"station_store,omitempty"`
	MedicalStore *medical.StoreSettings  `json:"medical_store,omitempty"`
}

func NewDefaultSettings() *Settings {
	return &Settings{
		Port:      8080,
		DataFile:  "data.json",
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// LoadFromEnv overrides settings with SAFETYNET_PORT, SAFETYNET_DATA_FILE and SAFETYNET_LOG_LEVEL.
func (s *Settings) LoadFromEnv() {
	if port, err := strconv.Atoi(os.Getenv("SAFETYNET_PORT")); err == nil && port > 0 {
		s.Port = port
	}
	if dataFile := os.Getenv("SAFETYNET_DATA_FILE"); dataFile != "" {
		s.DataFile = dataFile
	}
	if logLevel := os.Getenv("SAFETYNET_LOG_LEVEL"); logLevel != "" {
		s.LogLevel = logLevel
	}
}
