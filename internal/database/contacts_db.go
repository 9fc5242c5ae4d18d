package database

import (
	"context"
	"fmt"

	"github.com/gamezone/portal/internal/models"
)

// InsertContact stores a contact-form submission.
func (d *DB) InsertContact(ctx context.Context, contact models.Contact) (models.Contact, error) {
	res, err := d.sql.ExecContext(ctx,
		"INSERT INTO contacts(name, email, subject, message, newsletter) VALUES(?, ?, ?, ?, ?)",
		contact.Name, contact.Email, contact.Subject, contact.Message, contact.Newsletter)
	if err != nil {
		return models.Contact{}, fmt.Errorf("insert contact: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Contact{}, fmt.Errorf("insert contact: %w", err)
	}

	contact.ID = id
	return contact, nil
}

// ListContacts retrieves all submissions in insertion order.
func (d *DB) ListContacts(ctx context.Context) ([]models.Contact, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT id, name, email, subject, message, newsletter FROM contacts ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []models.Contact{}
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &c.Newsletter); err != nil {
			return nil, fmt.Errorf("list contacts: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}
