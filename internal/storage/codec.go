package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mcoot/memgame-go/internal/model"
)

// Document is a profile document held for a read-modify-write. Records that
// fail to decode are kept as raw JSON, in place, so writing the document back
// does not erase them.
type Document struct {
	records []record
}

type record struct {
	profile *model.Profile
	raw     json.RawMessage // Set when the record could not be decoded
}

// DecodeDocument parses a profile document. Records that fail to decode are
// kept aside with a warning; a document that is not a JSON array is an error.
func DecodeDocument(data []byte, logger *slog.Logger) (*Document, error) {
	doc := &Document{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return doc, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrPersistenceRead, err)
	}

	doc.records = make([]record, 0, len(raw))
	for i, rec := range raw {
		var p model.Profile
		if err := json.Unmarshal(rec, &p); err != nil {
			logger.Warn("skipping malformed profile",
				slog.Int("index", i),
				slog.String("error", err.Error()),
			)
			doc.records = append(doc.records, record{raw: rec})
			continue
		}
		if strings.TrimSpace(p.Username) == "" {
			logger.Warn("skipping profile without username", slog.Int("index", i))
			doc.records = append(doc.records, record{raw: rec})
			continue
		}
		doc.records = append(doc.records, record{profile: &p})
	}
	return doc, nil
}

// Profiles returns the readable profiles in document order
func (d *Document) Profiles() []*model.Profile {
	profiles := make([]*model.Profile, 0, len(d.records))
	for _, r := range d.records {
		if r.profile != nil {
			profiles = append(profiles, r.profile)
		}
	}
	return profiles
}

// Upsert replaces the profile with the same username (case-sensitive) or appends it
func (d *Document) Upsert(profile *model.Profile) {
	for i, r := range d.records {
		if r.profile != nil && r.profile.Username == profile.Username {
			d.records[i].profile = profile
			return
		}
	}
	d.records = append(d.records, record{profile: profile})
}

// Remove drops the profile with the given username (case-sensitive)
func (d *Document) Remove(username string) bool {
	for i, r := range d.records {
		if r.profile != nil && r.profile.Username == username {
			d.records = append(d.records[:i], d.records[i+1:]...)
			return true
		}
	}
	return false
}

// Encode renders the document, unreadable records included
func (d *Document) Encode() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(d.records))
	for _, r := range d.records {
		if r.profile == nil {
			out = append(out, r.raw)
			continue
		}
		data, err := json.Marshal(r.profile)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrPersistenceWrite, err)
		}
		out = append(out, data)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrPersistenceWrite, err)
	}
	return data, nil
}

// DecodeProfiles parses a profile document, skipping unreadable records
func DecodeProfiles(data []byte, logger *slog.Logger) ([]*model.Profile, error) {
	doc, err := DecodeDocument(data, logger)
	if err != nil {
		return nil, err
	}
	return doc.Profiles(), nil
}

// EncodeProfiles renders a profile document
func EncodeProfiles(profiles []*model.Profile) ([]byte, error) {
	if profiles == nil {
		profiles = []*model.Profile{}
	}
	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrPersistenceWrite, err)
	}
	return data, nil
}

// DecodeSettings parses a settings document
func DecodeSettings(data []byte) (model.Settings, error) {
	var s model.Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return model.Settings{}, fmt.Errorf("%w: %v", model.ErrPersistenceRead, err)
	}
	return s, nil
}

// EncodeSettings renders a settings document
func EncodeSettings(s model.Settings) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrPersistenceWrite, err)
	}
	return data, nil
}
