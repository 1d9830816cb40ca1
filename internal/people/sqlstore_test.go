package people

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cwkr/safetynet/internal/sqlutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testURI = "postgresql://localhost/safetynet"

var personColumns = []string{"first_name", "last_name", "address", "city", "zip", "phone", "email"}

func setupMockStore(t *testing.T) (*sql.DB, sqlmock.Sqlmock, Store) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	var dbs = map[string]*sqlutil.DB{testURI: {DB: db, Driver: sqlutil.DriverPostgres}}
	store, err := NewSqlStore(dbs, &StoreSettings{URI: testURI}, zap.NewNop())
	require.NoError(t, err)

	return db, mock, store
}

func TestSqlStoreAll(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	rows := sqlmock.NewRows(personColumns).
		AddRow(john.FirstName, john.LastName, john.Address, john.City, john.Zip, john.Phone, john.Email).
		AddRow(jacob.FirstName, jacob.LastName, jacob.Address, jacob.City, jacob.Zip, jacob.Phone, jacob.Email)
	mock.ExpectQuery(regexp.QuoteMeta(DefaultQuery)).WillReturnRows(rows)

	persons, err := store.All()

	require.NoError(t, err)
	assert.Equal(t, []Person{john, jacob}, persons)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlStoreAllFailure(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	var failure = errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta(DefaultQuery)).WillReturnError(failure)

	_, err := store.All()

	assert.ErrorIs(t, err, failure)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlStoreLookup(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(DefaultLookupQuery)).
		WithArgs("john", "boyd").
		WillReturnRows(sqlmock.NewRows(personColumns).
			AddRow(john.FirstName, john.LastName, john.Address, john.City, john.Zip, john.Phone, john.Email))
	mock.ExpectQuery(regexp.QuoteMeta(DefaultLookupQuery)).
		WithArgs("Nobody", "Here").
		WillReturnRows(sqlmock.NewRows(personColumns))

	person, err := store.Lookup("john", "boyd")
	require.NoError(t, err)
	assert.Equal(t, john, *person)

	_, err = store.Lookup("Nobody", "Here")
	assert.ErrorIs(t, err, ErrPersonNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlStoreAdd(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(DefaultInsert)).
		WithArgs(john.FirstName, john.LastName, john.Address, john.City, john.Zip, john.Phone, john.Email).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Add(john))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlStoreUpdateNotFound(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(DefaultUpdate)).
		WithArgs("Nobody", "Here", john.Address, john.City, john.Zip, john.Phone, john.Email).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, store.Update("Nobody", "Here", john), ErrPersonNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlStoreDelete(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(DefaultDelete)).
		WithArgs("John", "Boyd").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(DefaultDelete)).
		WithArgs("John", "Boyd").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Delete("John", "Boyd"))
	assert.ErrorIs(t, store.Delete("John", "Boyd"), ErrPersonNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
