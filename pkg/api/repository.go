package api

import (
	"github.com/akeil/bizgen"
)

type repo struct {
	client *Client
}

// NewRepository wraps the client as a document Repository.
func NewRepository(c *Client) bizgen.Repository {
	return &repo{
		client: c,
	}
}

func (r *repo) List(kind bizgen.Kind, userID int) ([]*bizgen.Document, error) {
	return r.client.ListDocuments(kind, userID)
}

func (r *repo) Fetch(kind bizgen.Kind, id int) (*bizgen.Document, error) {
	return r.client.FetchDocument(kind, id)
}

// Update saves the content of the document and refreshes it from the
// response.
func (r *repo) Update(d *bizgen.Document) error {
	err := d.Validate()
	if err != nil {
		return err
	}

	updated, err := r.client.UpdateDocument(d.Kind, d.ID, d.Content)
	if err != nil {
		return err
	}

	*d = *updated
	return nil
}

func (r *repo) Delete(kind bizgen.Kind, id int) error {
	return r.client.DeleteDocument(kind, id)
}
