package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cwkr/safetynet/internal/datafile"
	"github.com/cwkr/safetynet/internal/logging"
	"github.com/cwkr/safetynet/internal/medical"
	"github.com/cwkr/safetynet/internal/people"
	"github.com/cwkr/safetynet/internal/sqlutil"
	"github.com/cwkr/safetynet/internal/stations"
	"go.uber.org/zap"
)

// counts reports how many entries of each record set were copied.
type counts struct {
	persons, fireStations, medicalRecords int
}

// seed creates the tables behind uri and copies every record set of file into them
// in file order.
func seed(file *datafile.File, uri string, logger *zap.Logger) (counts, error) {
	var c counts
	var dbs = make(map[string]*sqlutil.DB)

	dbconn, err := sqlutil.Open(dbs, uri)
	if err != nil {
		return c, err
	}
	for _, schema := range []string{people.Schema, stations.Schema, medical.Schema} {
		logger.Debug("SQL", zap.String("query", schema))
		if _, err := dbconn.Exec(schema); err != nil {
			return c, err
		}
	}

	var (
		persons      []people.Person
		fireStations []stations.FireStation
		records      []medical.MedicalRecord
	)
	if err := file.Read(datafile.SectionPersons, &persons); err != nil {
		return c, err
	}
	if err := file.Read(datafile.SectionFireStations, &fireStations); err != nil {
		return c, err
	}
	if err := file.Read(datafile.SectionMedicalRecords, &records); err != nil {
		return c, err
	}

	personStore, err := people.NewSqlStore(dbs, &people.StoreSettings{URI: uri}, logger)
	if err != nil {
		return c, err
	}
	for _, person := range persons {
		if err := personStore.Add(person); err != nil {
			return c, fmt.Errorf("person %s %s: %w", person.FirstName, person.LastName, err)
		}
		c.persons++
	}

	stationStore, err := stations.NewSqlStore(dbs, &stations.StoreSettings{URI: uri}, logger)
	if err != nil {
		return c, err
	}
	for _, fireStation := range fireStations {
		if err := stationStore.Add(fireStation); err != nil {
			return c, fmt.Errorf("fire station %s: %w", fireStation.Address, err)
		}
		c.fireStations++
	}

	medicalStore, err := medical.NewSqlStore(dbs, &medical.StoreSettings{URI: uri}, logger)
	if err != nil {
		return c, err
	}
	for _, record := range records {
		if err := medicalStore.Add(record); err != nil {
			return c, fmt.Errorf("medical record %s %s: %w", record.FirstName, record.LastName, err)
		}
		c.medicalRecords++
	}

	return c, nil
}

func main() {
	var dataFilename, uri, logLevel string

	flag.StringVar(&dataFilename, "data", "data.json", "data file to read")
	flag.StringVar(&uri, "uri", "", "database uri (postgresql://... or sqlite://...)")
	flag.StringVar(&logLevel, "log-level", "info", "log level")
	flag.Parse()

	if uri == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger, err := logging.NewLogger(logLevel, "console", "safetynet-seed")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	c, err := seed(datafile.New(dataFilename), uri, logger)
	if err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}
	logger.Info("seeded",
		zap.Int("persons", c.persons),
		zap.Int("firestations", c.fireStations),
		zap.Int("medicalrecords", c.medicalRecords))
}
