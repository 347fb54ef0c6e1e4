package db

import (
	"fmt"

	"github.com/pdxmph/contact-form/internal/contacts"
)

// Fixtures is the sample data written by CreateFixturesDatabase
var Fixtures = []contacts.Contact{
	{FirstName: "Sarah", LastName: "Chen", Company: "Tech Startup Inc", City: "San Francisco", State: "California"},
	{FirstName: "Marcus", LastName: "Williams", Company: "Design Studio", City: "Brooklyn", State: "New York"},
	{FirstName: "Jennifer", LastName: "Rodriguez", Company: "Big Corp Ltd", City: "Austin", State: "Texas"},
	{FirstName: "David", LastName: "Kim", Company: "AI Startup", City: "Seattle", State: "Washington"},
	{FirstName: "Lisa", LastName: "Park", Company: "Strategy Consulting", City: "Chicago", State: "Illinois"},
	{FirstName: "Robert", LastName: "Martinez", Company: "VC Firm", City: "Menlo Park", State: "California"},
	{FirstName: "Emily", LastName: "Zhang", Company: "Freelance", City: "Portland", State: "Oregon"},
	{FirstName: "Amanda", LastName: "Foster", Company: "Tech Recruiting Firm", City: "Denver", State: "Colorado"},
}

// CreateFixturesDatabase creates a database seeded with realistic sample contacts
func CreateFixturesDatabase(dbPath string) error {
	// Initialize empty database
	if err := Initialize(dbPath); err != nil {
		return fmt.Errorf("initializing fixtures database: %w", err)
	}

	// Open database to add test data
	database, err := Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening fixtures database: %w", err)
	}
	defer database.Close()

	store, err := contacts.Load(database)
	if err != nil {
		return fmt.Errorf("loading fixtures store: %w", err)
	}

	for _, c := range Fixtures {
		if _, err := store.Add(c); err != nil {
			return fmt.Errorf("adding fixture contact %s: %w", c.FullName(), err)
		}
	}

	return nil
}
