package alerts

import (
	"errors"
	"testing"
	"time"

	"github.com/cwkr/safetynet/internal/medical"
	"github.com/cwkr/safetynet/internal/people"
	"github.com/cwkr/safetynet/internal/stations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var today = date(2024, time.June, 15)

type countingPeople struct {
	people.Store
	calls int
	err   error
}

func (c *countingPeople) All() ([]people.Person, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.Store.All()
}

func (c *countingPeople) Lookup(firstName, lastName string) (*people.Person, error) {
	c.calls++
	return c.Store.Lookup(firstName, lastName)
}

type countingStations struct {
	stations.Store
	calls int
}

func (c *countingStations) All() ([]stations.FireStation, error) {
	c.calls++
	return c.Store.All()
}

func (c *countingStations) Lookup(address string) (*stations.FireStation, error) {
	c.calls++
	return c.Store.Lookup(address)
}

type countingRecords struct {
	medical.Store
	calls int
	err   error
}

func (c *countingRecords) All() ([]medical.MedicalRecord, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.Store.All()
}

func (c *countingRecords) Lookup(firstName, lastName string) (*medical.MedicalRecord, error) {
	c.calls++
	return c.Store.Lookup(firstName, lastName)
}

type fixture struct {
	service  *Service
	people   *countingPeople
	stations *countingStations
	records  *countingRecords
}

func newFixture(persons []people.Person, fireStations []stations.FireStation, records []medical.MedicalRecord) *fixture {
	var f = &fixture{
		people:   &countingPeople{Store: people.NewInMemoryStore(persons)},
		stations: &countingStations{Store: stations.NewInMemoryStore(fireStations)},
		records:  &countingRecords{Store: medical.NewInMemoryStore(records)},
	}
	f.service = NewService(f.people, f.stations, f.records, zap.NewNop())
	f.service.Now = func() time.Time { return today }
	return f
}

var (
	alice = people.Person{FirstName: "Alice", LastName: "Anderson", Address: "100 Main St", City: "Culver", Phone: "555-0001", Email: "alice@email.com"}
	bob   = people.Person{FirstName: "Bob", LastName: "Brown", Address: "100 Main St", City: "Culver", Phone: "555-0002", Email: "bob@email.com"}
	carol = people.Person{FirstName: "Carol", LastName: "Anderson", Address: "200 Oak Ave", City: "culver", Phone: "555-0003", Email: "carol@email.com"}
	dan   = people.Person{FirstName: "Dan", LastName: "Anderson", Address: "200 Oak Ave", City: "Springfield", Phone: "555-0004", Email: "dan@email.com"}
	erin  = people.Person{FirstName: "Erin", LastName: "Evans", Address: "300 Pine Rd", City: "Culver", Phone: "555-0002", Email: "alice@email.com"}

	aliceRecord = medical.MedicalRecord{FirstName: "alice", LastName: "ANDERSON", Birthdate: "01/01/2010", Medications: []string{"pharmacol:5000mg"}, Allergies: []string{"peanut"}}
	bobRecord   = medical.MedicalRecord{FirstName: "Bob", LastName: "Brown", Birthdate: "01/01/1980", Medications: []string{}, Allergies: []string{}}
	carolRecord = medical.MedicalRecord{FirstName: "Carol", LastName: "Anderson", Birthdate: "06/15/2006", Medications: []string{"aznol:60mg"}, Allergies: []string{}}
	danRecord   = medical.MedicalRecord{FirstName: "Dan", LastName: "Anderson", Birthdate: "03/06/1975", Medications: []string{}, Allergies: []string{"shellfish"}}

	fireStations = []stations.FireStation{
		{Address: "100 Main St", Station: 1},
		{Address: "200 Oak Ave", Station: 2},
		{Address: "300 Pine Rd", Station: 1},
		{Address: "100 Main St", Station: 3},
	}
)

func standardFixture() *fixture {
	return newFixture(
		[]people.Person{alice, bob, carol, dan, erin},
		fireStations,
		[]medical.MedicalRecord{aliceRecord, bobRecord, carolRecord, danRecord},
	)
}

func TestCoverageByStation(t *testing.T) {
	var f = newFixture(
		[]people.Person{alice, bob},
		[]stations.FireStation{{Address: "100 Main St", Station: 1}},
		[]medical.MedicalRecord{aliceRecord, bobRecord},
	)

	coverage, err := f.service.CoverageByStation(1)

	require.NoError(t, err)
	assert.Equal(t, []BasicPerson{
		{FirstName: "Alice", LastName: "Anderson", Address: "100 Main St", Phone: "555-0001"},
		{FirstName: "Bob", LastName: "Brown", Address: "100 Main St", Phone: "555-0002"},
	}, coverage.Persons)
	assert.Equal(t, 1, coverage.AdultCount)
	assert.Equal(t, 1, coverage.ChildCount)
}

func TestCoverageByStationCountsMissingRecordAsChild(t *testing.T) {
	var f = standardFixture()

	coverage, err := f.service.CoverageByStation(1)

	require.NoError(t, err)
	assert.Len(t, coverage.Persons, 3)
	assert.Equal(t, 1, coverage.AdultCount)
	assert.Equal(t, 2, coverage.ChildCount)
}

func TestCoverageByStationEighteenIsChild(t *testing.T) {
	var f = standardFixture()

	coverage, err := f.service.CoverageByStation(2)

	require.NoError(t, err)
	assert.Len(t, coverage.Persons, 2)
	assert.Equal(t, 1, coverage.AdultCount)
	assert.Equal(t, 1, coverage.ChildCount)
}

func TestCoverageByStationMatchesAddressExactly(t *testing.T) {
	var shouting = alice
	shouting.Address = "100 MAIN ST"
	var f = newFixture([]people.Person{shouting}, fireStations, nil)

	coverage, err := f.service.CoverageByStation(1)

	require.NoError(t, err)
	assert.Empty(t, coverage.Persons)
}

func TestCoverageByUnknownStation(t *testing.T) {
	var f = standardFixture()

	coverage, err := f.service.CoverageByStation(42)

	require.NoError(t, err)
	assert.Equal(t, &Coverage{Persons: []BasicPerson{}}, coverage)
}

func TestChildrenByAddress(t *testing.T) {
	var f = standardFixture()

	children, err := f.service.ChildrenByAddress("100 main st")

	require.NoError(t, err)
	assert.Equal(t, []ChildWithHousehold{{
		FirstName: "Alice",
		LastName:  "Anderson",
		Age:       14,
		OtherHouseholdMembers: []BasicPerson{
			{FirstName: "Bob", LastName: "Brown", Address: "100 Main St", Phone: "555-0002"},
		},
	}}, children)
}

func TestChildrenByAddressListsChildrenAsHouseholdMembers(t *testing.T) {
	var tom = people.Person{FirstName: "Tom", LastName: "Anderson", Address: "100 Main St", Phone: "555-0005"}
	var f = newFixture([]people.Person{alice, tom}, nil, []medical.MedicalRecord{aliceRecord})

	children, err := f.service.ChildrenByAddress("100 Main St")

	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "Tom", children[0].OtherHouseholdMembers[0].FirstName)
	assert.Equal(t, "Tom", children[1].FirstName)
	assert.Equal(t, 0, children[1].Age)
	assert.Equal(t, "Alice", children[1].OtherHouseholdMembers[0].FirstName)
}

func TestChildrenByAddressWithoutChildren(t *testing.T) {
	var f = standardFixture()

	children, err := f.service.ChildrenByAddress("1 Nowhere Rd")
	require.NoError(t, err)
	assert.Equal(t, []ChildWithHousehold{}, children)
	assert.Zero(t, f.records.calls)

	var adults = newFixture([]people.Person{bob}, nil, []medical.MedicalRecord{bobRecord})
	children, err = adults.service.ChildrenByAddress("100 Main St")
	require.NoError(t, err)
	assert.Equal(t, []ChildWithHousehold{}, children)
}

func TestPhoneAlert(t *testing.T) {
	var f = standardFixture()

	phones, err := f.service.PhoneAlert(1)

	require.NoError(t, err)
	assert.Equal(t, []string{"555-0001", "555-0002", "555-0002"}, phones)
	assert.Zero(t, f.records.calls)
}

func TestPhoneAlertUnknownStation(t *testing.T) {
	var f = standardFixture()

	phones, err := f.service.PhoneAlert(42)

	require.NoError(t, err)
	assert.Equal(t, []string{}, phones)
	assert.Zero(t, f.records.calls)
}

func TestFireInfo(t *testing.T) {
	var f = standardFixture()

	residents, err := f.service.FireInfo("  200 OAK AVE ")

	require.NoError(t, err)
	assert.Equal(t, []ResidentWithMedical{
		{FirstName: "Carol", LastName: "Anderson", Phone: "555-0003", Age: 18, Medications: []string{"aznol:60mg"}, Allergies: []string{}},
		{FirstName: "Dan", LastName: "Anderson", Phone: "555-0004", Age: 49, Medications: []string{}, Allergies: []string{"shellfish"}},
	}, residents)
}

func TestFireInfoWithoutMedicalRecord(t *testing.T) {
	var f = standardFixture()

	residents, err := f.service.FireInfo("300 Pine Rd")

	require.NoError(t, err)
	assert.Equal(t, []ResidentWithMedical{
		{FirstName: "Erin", LastName: "Evans", Phone: "555-0002", Age: 0, Medications: []string{}, Allergies: []string{}},
	}, residents)
}

func TestCommunityEmail(t *testing.T) {
	var f = standardFixture()

	emails, err := f.service.CommunityEmail("CULVER")

	require.NoError(t, err)
	assert.Equal(t, []string{"alice@email.com", "bob@email.com", "carol@email.com", "alice@email.com"}, emails)
	assert.Zero(t, f.records.calls)

	emails, err = f.service.CommunityEmail("Atlantis")
	require.NoError(t, err)
	assert.Equal(t, []string{}, emails)
}

func TestResidentsByLastName(t *testing.T) {
	var f = standardFixture()

	residents, err := f.service.ResidentsByLastName("anderson")

	require.NoError(t, err)
	require.Len(t, residents, 3)
	assert.Equal(t, "Alice", residents[0].FirstName)
	assert.Equal(t, 14, residents[0].Age)
	assert.Equal(t, []string{"pharmacol:5000mg"}, residents[0].Medications)
	assert.Equal(t, "Carol", residents[1].FirstName)
	assert.Equal(t, "Dan", residents[2].FirstName)
}

func TestResidentsByBlankLastName(t *testing.T) {
	var f = standardFixture()

	for _, lastName := range []string{"", "   "} {
		residents, err := f.service.ResidentsByLastName(lastName)
		require.NoError(t, err)
		assert.Equal(t, []ResidentWithMedical{}, residents)
	}
	assert.Zero(t, f.people.calls)
	assert.Zero(t, f.stations.calls)
	assert.Zero(t, f.records.calls)
}

func TestFloodInfo(t *testing.T) {
	var f = newFixture(
		[]people.Person{alice, bob, erin},
		[]stations.FireStation{{Address: "100 Main St", Station: 1}, {Address: "300 Pine Rd", Station: 2}},
		[]medical.MedicalRecord{aliceRecord, bobRecord},
	)

	households, err := f.service.FloodInfo([]string{"1", "2"})

	require.NoError(t, err)
	require.Len(t, households, 2)
	assert.Equal(t, "100 Main St", households[0].Address)
	assert.Len(t, households[0].Residents, 2)
	assert.Equal(t, "300 Pine Rd", households[1].Address)
	assert.Equal(t, []ResidentWithMedical{
		{FirstName: "Erin", LastName: "Evans", Phone: "555-0002", Age: 0, Medications: []string{}, Allergies: []string{}},
	}, households[1].Residents)
}

func TestFloodInfoDeduplicatesAddresses(t *testing.T) {
	var f = standardFixture()

	households, err := f.service.FloodInfo([]string{"3", "1"})

	require.NoError(t, err)
	require.Len(t, households, 2)
	assert.Equal(t, "100 Main St", households[0].Address)
	assert.Equal(t, "300 Pine Rd", households[1].Address)
}

func TestFloodInfoComparesDecimalStrings(t *testing.T) {
	var f = standardFixture()

	for _, stationNumbers := range [][]string{nil, {}, {"01"}, {" 1"}, {"0x1"}} {
		households, err := f.service.FloodInfo(stationNumbers)
		require.NoError(t, err)
		assert.Equal(t, []Household{}, households, "%q", stationNumbers)
	}
}

func TestStationOf(t *testing.T) {
	var f = standardFixture()

	station, err := f.service.StationOf(" 200 oak ave ")
	require.NoError(t, err)
	assert.Equal(t, 2, station)

	_, err = f.service.StationOf("1 Nowhere Rd")
	assert.ErrorIs(t, err, stations.ErrStationNotFound)
}

func TestInvalidBirthdateFailsWholeOperation(t *testing.T) {
	var broken = bobRecord
	broken.Birthdate = "1980-01-01"
	var f = newFixture([]people.Person{alice, bob}, fireStations, []medical.MedicalRecord{aliceRecord, broken})

	_, err := f.service.CoverageByStation(1)
	assert.ErrorIs(t, err, ErrInvalidBirthdate)

	_, err = f.service.ChildrenByAddress("100 Main St")
	assert.ErrorIs(t, err, ErrInvalidBirthdate)

	_, err = f.service.FireInfo("100 Main St")
	assert.ErrorIs(t, err, ErrInvalidBirthdate)

	_, err = f.service.ResidentsByLastName("Brown")
	assert.ErrorIs(t, err, ErrInvalidBirthdate)

	_, err = f.service.FloodInfo([]string{"1"})
	assert.ErrorIs(t, err, ErrInvalidBirthdate)

	phones, err := f.service.PhoneAlert(1)
	require.NoError(t, err)
	assert.Len(t, phones, 2)
}

func TestStoreFailurePropagates(t *testing.T) {
	var failure = errors.New("disk on fire")

	var f = standardFixture()
	f.people.err = failure
	_, err := f.service.CommunityEmail("Culver")
	assert.ErrorIs(t, err, failure)
	_, err = f.service.CoverageByStation(1)
	assert.ErrorIs(t, err, failure)

	f = standardFixture()
	f.records.err = failure
	_, err = f.service.FireInfo("100 Main St")
	assert.ErrorIs(t, err, failure)
	_, err = f.service.FloodInfo([]string{"1"})
	assert.ErrorIs(t, err, failure)
}

func TestOperationsAreDeterministic(t *testing.T) {
	var f = standardFixture()

	first, err := f.service.FloodInfo([]string{"1", "2"})
	require.NoError(t, err)
	second, err := f.service.FloodInfo([]string{"1", "2"})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	coverage, err := f.service.CoverageByStation(1)
	require.NoError(t, err)
	again, err := f.service.CoverageByStation(1)
	require.NoError(t, err)
	assert.Equal(t, coverage, again)
}
