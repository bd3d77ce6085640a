package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dusk-indust/userlist/internal/users"
)

// UsersExport is the top-level JSON export structure.
type UsersExport struct {
	Source     string       `json:"source"`
	Query      string       `json:"query,omitempty"`
	ExportedAt string       `json:"exportedAt"`
	Status     string       `json:"status"`
	Count      int          `json:"count"`
	Users      []users.User `json:"users"`
}

// ExportUsers builds a UsersExport from the current state of c. source is
// the API root the collection was fetched from; query is the search term,
// empty for a fetch-all.
func ExportUsers(c *users.ListClient, source, query string) *UsersExport {
	snapshot := c.Users()
	if snapshot == nil {
		snapshot = []users.User{}
	}
	return &UsersExport{
		Source:     source,
		Query:      query,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Status:     c.Status().Status.String(),
		Count:      len(snapshot),
		Users:      snapshot,
	}
}

// WriteJSON writes e as indented JSON followed by a newline.
func WriteJSON(w io.Writer, e *UsersExport) error {
	out, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = w.Write(append(out, '\n'))
	return err
}
