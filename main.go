package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strings"

	"github.com/cwkr/safetynet/internal/alerts"
	"github.com/cwkr/safetynet/internal/datafile"
	"github.com/cwkr/safetynet/internal/fileutil"
	"github.com/cwkr/safetynet/internal/logging"
	"github.com/cwkr/safetynet/internal/medical"
	"github.com/cwkr/safetynet/internal/metrics"
	"github.com/cwkr/safetynet/internal/people"
	"github.com/cwkr/safetynet/internal/server"
	"github.com/cwkr/safetynet/internal/sqlutil"
	"github.com/cwkr/safetynet/internal/stations"
	"github.com/hjson/hjson-go/v4"
	"go.uber.org/zap"
)

var version = "v0.0.0"

func isLdapURI(uri string) bool {
	return strings.HasPrefix(uri, "ldap:") || strings.HasPrefix(uri, "ldaps:")
}

func isSqlURI(uri string) bool {
	_, _, err := sqlutil.Driver(uri)
	return err == nil
}

func main() {
	var err error
	var configFilename string
	var saveConfig bool

	flag.StringVar(&configFilename, "config", "", "config file name")
	flag.BoolVar(&saveConfig, "save", false, "save config and exit")
	flag.Parse()

	// Set defaults
	var settings = server.NewDefaultSettings()

	configFilename = fileutil.ProbeSettingsFilename(configFilename)
	configBytes, err := os.ReadFile(configFilename)
	if err == nil {
		if err = hjson.Unmarshal(configBytes, settings); err != nil {
			panic(err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		panic(err)
	}
	settings.LoadFromEnv()

	if saveConfig {
		fmt.Printf("Saving config file %s\n", configFilename)
		configJson, _ := json.MarshalIndent(settings, "", "  ")
		if err := os.WriteFile(configFilename, configJson, 0644); err != nil {
			panic(err)
		}
		os.Exit(0)
	}

	logger, err := logging.NewLogger(settings.LogLevel, settings.LogFormat, "safetynet")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	var (
		file = datafile.New(settings.DataFile)
		dbs  = make(map[string]*sqlutil.DB)
	)

	var personStore people.Store
	switch {
	case settings.PersonStore == nil:
		personStore, err = people.NewEmbeddedStore(file, logger)
	case isSqlURI(settings.PersonStore.URI):
		personStore, err = people.NewSqlStore(dbs, settings.PersonStore, logger)
	case isLdapURI(settings.PersonStore.URI):
		personStore, err = people.NewLdapStore(settings.PersonStore, logger)
	default:
		err = errors.New("unsupported or empty person store uri: " + settings.PersonStore.URI)
	}
	if err != nil {
		panic(err)
	}

	var stationStore stations.Store
	switch {
	case settings.StationStore == nil:
		stationStore, err = stations.NewEmbeddedStore(file, logger)
	case isSqlURI(settings.StationStore.URI):
		stationStore, err = stations.NewSqlStore(dbs, settings.StationStore, logger)
	default:
		err = errors.New("unsupported or empty station store uri: " + settings.StationStore.URI)
	}
	if err != nil {
		panic(err)
	}

	var medicalStore medical.Store
	switch {
	case settings.MedicalStore == nil:
		medicalStore, err = medical.NewEmbeddedStore(file, logger)
	case isSqlURI(settings.MedicalStore.URI):
		medicalStore, err = medical.NewSqlStore(dbs, settings.MedicalStore, logger)
	default:
		err = errors.New("unsupported or empty medical store uri: " + settings.MedicalStore.URI)
	}
	if err != nil {
		panic(err)
	}

	var service = alerts.NewService(personStore, stationStore, medicalStore, logger)
	var router = server.NewRouter(server.Stores{
		People:   personStore,
		Stations: stationStore,
		Medical:  medicalStore,
	}, service, metrics.New(), logger, version, runtime.Version())

	logger.Info("listening", zap.String("url", fmt.Sprintf("http://localhost:%d/", settings.Port)),
		zap.String("data_file", settings.DataFile))
	err = http.ListenAndServe(fmt.Sprintf(":%d", settings.Port), router)
	if err != nil {
		panic(err)
	}
}
