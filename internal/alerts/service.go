package alerts

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cwkr/safetynet/internal/medical"
	"github.com/cwkr/safetynet/internal/people"
	"github.com/cwkr/safetynet/internal/stations"
	"go.uber.org/zap"
)

// Service joins persons, fire station mappings and medical records into the views
// first responders ask for. It never mutates a store and reads each store it needs
// once per call, so results of concurrent calls may reflect different store states.
type Service struct {
	people   people.Store
	stations stations.Store
	records  medical.Store
	logger   *zap.Logger
	// Now is the clock ages are derived against.
	Now func() time.Time
}

func NewService(peopleStore people.Store, stationStore stations.Store, medicalStore medical.Store, logger *zap.Logger) *Service {
	return &Service{
		people:   peopleStore,
		stations: stationStore,
		records:  medicalStore,
		logger:   logger,
		Now:      time.Now,
	}
}

// stationAddresses returns the addresses mapped to any of the accepted station
// numbers, in mapping order and without duplicates.
func (s *Service) stationAddresses(accept func(station int) bool) ([]string, map[string]bool, error) {
	fireStations, err := s.stations.All()
	if err != nil {
		return nil, nil, err
	}
	var addresses []string
	var seen = map[string]bool{}
	for _, fireStation := range fireStations {
		if accept(fireStation.Station) && !seen[fireStation.Address] {
			seen[fireStation.Address] = true
			addresses = append(addresses, fireStation.Address)
		}
	}
	return addresses, seen, nil
}

func findRecord(records []medical.MedicalRecord, person people.Person) *medical.MedicalRecord {
	for i := range records {
		if records[i].HasName(person.FirstName, person.LastName) {
			return &records[i]
		}
	}
	return nil
}

func ageOf(records []medical.MedicalRecord, person people.Person, today time.Time) (int, error) {
	var record = findRecord(records, person)
	if record == nil {
		return 0, nil
	}
	age, err := Age(record.Birthdate, today)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", person.FirstName, person.LastName, err)
	}
	return age, nil
}

func residentOf(records []medical.MedicalRecord, person people.Person, today time.Time) (ResidentWithMedical, error) {
	var resident = ResidentWithMedical{
		FirstName:   person.FirstName,
		LastName:    person.LastName,
		Phone:       person.Phone,
		Medications: []string{},
		Allergies:   []string{},
	}
	var record = findRecord(records, person)
	if record == nil {
		return resident, nil
	}
	age, err := Age(record.Birthdate, today)
	if err != nil {
		return resident, fmt.Errorf("%s %s: %w", person.FirstName, person.LastName, err)
	}
	resident.Age = age
	resident.Medications = append(resident.Medications, record.Medications...)
	resident.Allergies = append(resident.Allergies, record.Allergies...)
	return resident, nil
}

func basicPersonOf(person people.Person) BasicPerson {
	return BasicPerson{
		FirstName: person.FirstName,
		LastName:  person.LastName,
		Address:   person.Address,
		Phone:     person.Phone,
	}
}

// residentsOf joins every person with their medical record.
func (s *Service) residentsOf(persons []people.Person) ([]ResidentWithMedical, error) {
	var residents = make([]ResidentWithMedical, 0, len(persons))
	if len(persons) == 0 {
		return residents, nil
	}
	records, err := s.records.All()
	if err != nil {
		return nil, err
	}
	var today = s.Now()
	for _, person := range persons {
		resident, err := residentOf(records, person, today)
		if err != nil {
			return nil, err
		}
		residents = append(residents, resident)
	}
	return residents, nil
}

func (s *Service) personsWhere(match func(person people.Person) bool) ([]people.Person, error) {
	persons, err := s.people.All()
	if err != nil {
		return nil, err
	}
	var matches []people.Person
	for _, person := range persons {
		if match(person) {
			matches = append(matches, person)
		}
	}
	return matches, nil
}

// CoverageByStation lists the persons living at addresses served by stationNumber
// and counts adults (older than 18) and children. Addresses compare exactly.
func (s *Service) CoverageByStation(stationNumber int) (*Coverage, error) {
	var coverage = Coverage{Persons: []BasicPerson{}}

	_, served, err := s.stationAddresses(func(station int) bool { return station == stationNumber })
	if err != nil {
		return nil, err
	}
	if len(served) == 0 {
		return &coverage, nil
	}

	covered, err := s.personsWhere(func(person people.Person) bool { return served[person.Address] })
	if err != nil {
		return nil, err
	}
	if len(covered) == 0 {
		return &coverage, nil
	}

	records, err := s.records.All()
	if err != nil {
		return nil, err
	}
	var today = s.Now()
	for _, person := range covered {
		age, err := ageOf(records, person, today)
		if err != nil {
			return nil, err
		}
		if IsChild(age) {
			coverage.ChildCount++
		} else {
			coverage.AdultCount++
		}
		coverage.Persons = append(coverage.Persons, basicPersonOf(person))
	}

	s.logger.Debug("coverage by station", zap.Int("station", stationNumber),
		zap.Int("adults", coverage.AdultCount), zap.Int("children", coverage.ChildCount))
	return &coverage, nil
}

// ChildrenByAddress returns every person aged 18 or younger living at address
// (ignoring case), each with all other members of the household.
func (s *Service) ChildrenByAddress(address string) ([]ChildWithHousehold, error) {
	var children = []ChildWithHousehold{}

	household, err := s.personsWhere(func(person people.Person) bool {
		return strings.EqualFold(person.Address, address)
	})
	if err != nil {
		return nil, err
	}
	if len(household) == 0 {
		return children, nil
	}

	records, err := s.records.All()
	if err != nil {
		return nil, err
	}
	var today = s.Now()
	for _, person := range household {
		age, err := ageOf(records, person, today)
		if err != nil {
			return nil, err
		}
		if !IsChild(age) {
			continue
		}
		var others = []BasicPerson{}
		for _, member := range household {
			if !member.HasName(person.FirstName, person.LastName) {
				others = append(others, basicPersonOf(member))
			}
		}
		children = append(children, ChildWithHousehold{
			FirstName:             person.FirstName,
			LastName:              person.LastName,
			Age:                   age,
			OtherHouseholdMembers: others,
		})
	}
	return children, nil
}

// PhoneAlert returns the phone numbers of everybody living at an address served by
// stationNumber, duplicates included. Medical records are not read.
func (s *Service) PhoneAlert(stationNumber int) ([]string, error) {
	var phones = []string{}

	_, served, err := s.stationAddresses(func(station int) bool { return station == stationNumber })
	if err != nil {
		return nil, err
	}
	if len(served) == 0 {
		return phones, nil
	}

	persons, err := s.personsWhere(func(person people.Person) bool { return served[person.Address] })
	if err != nil {
		return nil, err
	}
	for _, person := range persons {
		phones = append(phones, person.Phone)
	}
	return phones, nil
}

// FireInfo lists the residents of address together with their age and medical
// details. Both sides are trimmed and compared ignoring case.
func (s *Service) FireInfo(address string) ([]ResidentWithMedical, error) {
	var wanted = strings.TrimSpace(address)
	persons, err := s.personsWhere(func(person people.Person) bool {
		return strings.EqualFold(strings.TrimSpace(person.Address), wanted)
	})
	if err != nil {
		return nil, err
	}
	return s.residentsOf(persons)
}

// CommunityEmail returns the email addresses of everybody living in city (ignoring
// case), duplicates included. Medical records are not read.
func (s *Service) CommunityEmail(city string) ([]string, error) {
	var emails = []string{}

	persons, err := s.personsWhere(func(person people.Person) bool {
		return strings.EqualFold(person.City, city)
	})
	if err != nil {
		return nil, err
	}
	for _, person := range persons {
		emails = append(emails, person.Email)
	}
	return emails, nil
}

// ResidentsByLastName returns everyone carrying lastName (ignoring case) with their
// medical details. A blank lastName returns nothing without touching any store.
func (s *Service) ResidentsByLastName(lastName string) ([]ResidentWithMedical, error) {
	if strings.TrimSpace(lastName) == "" {
		return []ResidentWithMedical{}, nil
	}
	persons, err := s.personsWhere(func(person people.Person) bool {
		return strings.EqualFold(person.LastName, lastName)
	})
	if err != nil {
		return nil, err
	}
	return s.residentsOf(persons)
}

// FloodInfo groups the residents of every address served by one of stationNumbers.
// Station numbers match the decimal form of the mapped number exactly, so "01" does
// not select station 1. Residents without a medical record are kept with age 0.
func (s *Service) FloodInfo(stationNumbers []string) ([]Household, error) {
	var households = []Household{}
	if len(stationNumbers) == 0 {
		return households, nil
	}

	var wanted = map[string]bool{}
	for _, stationNumber := range stationNumbers {
		wanted[stationNumber] = true
	}
	addresses, _, err := s.stationAddresses(func(station int) bool { return wanted[strconv.Itoa(station)] })
	if err != nil {
		return nil, err
	}
	if len(addresses) == 0 {
		return households, nil
	}

	persons, err := s.people.All()
	if err != nil {
		return nil, err
	}
	records, err := s.records.All()
	if err != nil {
		return nil, err
	}
	var today = s.Now()
	for _, address := range addresses {
		var household = Household{Address: address, Residents: []ResidentWithMedical{}}
		for _, person := range persons {
			if person.Address != address {
				continue
			}
			resident, err := residentOf(records, person, today)
			if err != nil {
				return nil, err
			}
			household.Residents = append(household.Residents, resident)
		}
		households = append(households, household)
	}
	return households, nil
}

// StationOf returns the number of the station serving address.
func (s *Service) StationOf(address string) (int, error) {
	fireStation, err := s.stations.Lookup(strings.TrimSpace(address))
	if err != nil {
		return 0, err
	}
	return fireStation.Station, nil
}
