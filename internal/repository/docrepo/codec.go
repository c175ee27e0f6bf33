// Package docrepo implements the entity repositories over the document
// store, including the codecs between typed entities and their persisted
// document representation.
package docrepo

import (
	"time"

	"github.com/orlogbook/orlog-api/internal/docstore"
)

// Collection names in the document store.
const (
	usersCollection      = "users"
	patientsCollection   = "patients"
	surgeonsCollection   = "surgeons"
	nursesCollection     = "nurses"
	operationsCollection = "operations"
)

func putTime(doc docstore.Document, key string, t time.Time) {
	doc[key] = docstore.EncodeTime(t)
}

func putTimePtr(doc docstore.Document, key string, t *time.Time) {
	if t != nil {
		doc[key] = docstore.EncodeTime(*t)
	}
}

func stringAt(doc docstore.Document, key string) string {
	s, _ := doc[key].(string)
	return s
}

// stringsAt tolerates both native string slices (memory backend) and
// []interface{} (JSON round-trip through Postgres).
func stringsAt(doc docstore.Document, key string) []string {
	switch v := doc[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func timeAt(doc docstore.Document, key string) time.Time {
	s, ok := doc[key].(string)
	if !ok {
		return time.Time{}
	}
	t, err := docstore.DecodeTime(s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func timePtrAt(doc docstore.Document, key string) *time.Time {
	s, ok := doc[key].(string)
	if !ok || s == "" {
		return nil
	}
	t, err := docstore.DecodeTime(s)
	if err != nil {
		return nil
	}
	return &t
}
