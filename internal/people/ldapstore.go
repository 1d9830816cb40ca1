package people

import (
	"fmt"
	"net/url"

	"github.com/go-ldap/ldap/v3"
	"go.uber.org/zap"
)

const DefaultLdapFilter = "(objectClass=inetOrgPerson)"

var defaultLdapAttributes = map[string]string{
	"first_name_attribute": "givenName",
	"last_name_attribute":  "sn",
	"address_attribute":    "street",
	"city_attribute":       "l",
	"zip_attribute":        "postalCode",
	"phone_attribute":      "telephoneNumber",
	"email_attribute":      "mail",
}

type ldapStore struct {
	ldapURL       string
	baseDN        string
	bindUser      string
	bindPassword  string
	filter        string
	firstNameAttr string
	lastNameAttr  string
	addressAttr   string
	cityAttr      string
	zipAttr       string
	phoneAttr     string
	emailAttr     string
	logger        *zap.Logger
}

// NewLdapStore returns a read-only store searching persons in a directory.
// Attribute names are taken from settings.Parameters ("first_name_attribute" and so on).
func NewLdapStore(settings *StoreSettings, logger *zap.Logger) (Store, error) {
	var ldapURL, bindUsername, bindPassword string
	if u, err := url.Parse(settings.URI); err == nil {
		if u.User != nil {
			bindUsername = u.User.Username()
			bindPassword, _ = u.User.Password()
		}
		ldapURL = fmt.Sprintf("%s://%s", u.Scheme, u.Host)
	} else {
		return nil, err
	}

	var parameter = func(name string) string {
		if value := settings.Parameters[name]; value != "" {
			return value
		}
		return defaultLdapAttributes[name]
	}

	var filter = settings.Query
	if filter == "" {
		filter = DefaultLdapFilter
	}

	return &ldapStore{
		ldapURL:       ldapURL,
		baseDN:        settings.Parameters["base_dn"],
		bindUser:      bindUsername,
		bindPassword:  bindPassword,
		filter:        filter,
		firstNameAttr: parameter("first_name_attribute"),
		lastNameAttr:  parameter("last_name_attribute"),
		addressAttr:   parameter("address_attribute"),
		cityAttr:      parameter("city_attribute"),
		zipAttr:       parameter("zip_attribute"),
		phoneAttr:     parameter("phone_attribute"),
		emailAttr:     parameter("email_attribute"),
		logger:        logger,
	}, nil
}

func (p *ldapStore) attributes() []string {
	return []string{p.firstNameAttr, p.lastNameAttr, p.addressAttr, p.cityAttr, p.zipAttr, p.phoneAttr, p.emailAttr}
}

func (p *ldapStore) personOf(entry *ldap.Entry) Person {
	return Person{
		FirstName: entry.GetAttributeValue(p.firstNameAttr),
		LastName:  entry.GetAttributeValue(p.lastNameAttr),
		Address:   entry.GetAttributeValue(p.addressAttr),
		City:      entry.GetAttributeValue(p.cityAttr),
		Zip:       entry.GetAttributeValue(p.zipAttr),
		Phone:     entry.GetAttributeValue(p.phoneAttr),
		Email:     entry.GetAttributeValue(p.emailAttr),
	}
}

func (p *ldapStore) nameFilter(firstName, lastName string) string {
	return fmt.Sprintf("(&%s(%s=%s)(%s=%s))",
		p.filter,
		p.firstNameAttr, ldap.EscapeFilter(firstName),
		p.lastNameAttr, ldap.EscapeFilter(lastName),
	)
}

func (p *ldapStore) connect() (*ldap.Conn, error) {
	var conn, err = ldap.DialURL(p.ldapURL)
	if err != nil {
		p.logger.Error("ldap connection failed", zap.Error(err))
		return nil, err
	}
	if p.bindUser != "" && p.bindPassword != "" {
		if err = conn.Bind(p.bindUser, p.bindPassword); err != nil {
			p.logger.Error("ldap bind failed", zap.Error(err))
			conn.Close()
			return nil, err
		}
	}
	return conn, nil
}

func (p *ldapStore) search(filter string) ([]Person, error) {
	var conn, err = p.connect()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	p.logger.Debug("LDAP", zap.String("filter", filter), zap.String("base_dn", p.baseDN))
	var ldapSearch = ldap.NewSearchRequest(
		p.baseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0,
		0,
		false,
		filter,
		p.attributes(),
		nil,
	)
	results, err := conn.Search(ldapSearch)
	if err != nil {
		p.logger.Error("ldap search failed", zap.String("filter", filter), zap.Error(err))
		return nil, err
	}

	var persons = make([]Person, 0, len(results.Entries))
	for _, entry := range results.Entries {
		persons = append(persons, p.personOf(entry))
	}
	return persons, nil
}

func (p *ldapStore) All() ([]Person, error) {
	return p.search(p.filter)
}

func (p *ldapStore) Lookup(firstName, lastName string) (*Person, error) {
	persons, err := p.search(p.nameFilter(firstName, lastName))
	if err != nil {
		return nil, err
	}
	if len(persons) == 0 {
		return nil, ErrPersonNotFound
	}
	return &persons[0], nil
}

func (p *ldapStore) Add(Person) error {
	return ErrReadOnly
}

func (p *ldapStore) Update(string, string, Person) error {
	return ErrReadOnly
}

func (p *ldapStore) Delete(string, string) error {
	return ErrReadOnly
}

func (p *ldapStore) Persist() error {
	return nil
}

func (p *ldapStore) Ping() error {
	var conn, err = p.connect()
	if err != nil {
		return err
	}
	defer conn.Close()
	return nil
}
