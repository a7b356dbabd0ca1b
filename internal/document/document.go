// Package document models one exported social-post document and resolves
// its platform-assigned URN. Only the fields the pipeline promotes into
// columns are typed; the verbatim payload is preserved alongside so nothing
// from the export is lost.
package document

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Document is one post document from an export file.
type Document struct {
	FullURN  string          `json:"full_urn"`
	URNField URNField        `json:"urn"`
	Author   Author          `json:"author"`
	Text     string          `json:"text"`
	PostedAt PostedAt        `json:"posted_at"`
	PostType string          `json:"post_type"`
	URL      string          `json:"url"`
	Stats    Stats           `json:"stats"`
	Raw      json.RawMessage `json:"-"`
}

// Author holds the identity fields exporters attach to a post.
type Author struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

// PostedAt is the export's timestamp substructure.
type PostedAt struct {
	Timestamp int64  `json:"timestamp"`
	Date      string `json:"date"`
}

// Stats promotes the total reaction count and keeps the rest verbatim.
type Stats struct {
	TotalReactions int64
	Raw            json.RawMessage
}

func (s *Stats) UnmarshalJSON(data []byte) error {
	var promoted struct {
		TotalReactions int64 `json:"total_reactions"`
	}
	if err := json.Unmarshal(data, &promoted); err != nil {
		return err
	}
	s.TotalReactions = promoted.TotalReactions
	s.Raw = append(s.Raw[:0], data...)
	return nil
}

func (s Stats) MarshalJSON() ([]byte, error) {
	if len(s.Raw) > 0 {
		return s.Raw, nil
	}
	return json.Marshal(map[string]int64{"total_reactions": s.TotalReactions})
}

// URNField is the export's "urn" field, which is either a plain string or a
// composite object carrying per-kind URNs.
type URNField struct {
	Scalar      string
	ActivityURN string
	UGCPostURN  string
}

func (u *URNField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '{' {
		var comp struct {
			ActivityURN string `json:"activity_urn"`
			UGCPostURN  string `json:"ugcPost_urn"`
		}
		if err := json.Unmarshal(data, &comp); err != nil {
			return err
		}
		u.ActivityURN = comp.ActivityURN
		u.UGCPostURN = comp.UGCPostURN
		return nil
	}
	return json.Unmarshal(data, &u.Scalar)
}

func (u URNField) MarshalJSON() ([]byte, error) {
	if u.Scalar != "" {
		return json.Marshal(u.Scalar)
	}
	if u.ActivityURN == "" && u.UGCPostURN == "" {
		return []byte("null"), nil
	}
	return json.Marshal(map[string]string{
		"activity_urn": u.ActivityURN,
		"ugcPost_urn":  u.UGCPostURN,
	})
}

// URN resolves the document's canonical identity. Resolution order: the
// direct full_urn field, then the composite urn's activity URN, then its
// UGC post URN, then the scalar urn value. Returns false when nothing usable
// is present; such a document must never be persisted as a post.
func (d *Document) URN() (string, bool) {
	if d.FullURN != "" {
		return d.FullURN, true
	}
	if d.URNField.ActivityURN != "" {
		return d.URNField.ActivityURN, true
	}
	if d.URNField.UGCPostURN != "" {
		return d.URNField.UGCPostURN, true
	}
	if d.URNField.Scalar != "" {
		return d.URNField.Scalar, true
	}
	return "", false
}

// DecodeFile parses one export file. Accepted shapes are a JSON array of
// documents or a single object treated as a one-element array. Valid JSON of
// any other shape yields (nil, nil) so callers can skip the file without
// counting it; malformed JSON is an error.
func DecodeFile(data []byte) ([]Document, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, errors.New("empty file")
	}
	switch trimmed[0] {
	case '[':
		var raws []json.RawMessage
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, errors.Wrap(err, "decode document array")
		}
		docs := make([]Document, 0, len(raws))
		for _, r := range raws {
			d, err := decodeOne(r)
			if err != nil {
				return nil, err
			}
			docs = append(docs, d)
		}
		return docs, nil
	case '{':
		d, err := decodeOne(trimmed)
		if err != nil {
			return nil, err
		}
		return []Document{d}, nil
	default:
		if json.Valid(data) {
			return nil, nil
		}
		return nil, errors.New("not valid JSON")
	}
}

func decodeOne(raw json.RawMessage) (Document, error) {
	var d Document
	if err := json.Unmarshal(raw, &d); err != nil {
		return Document{}, errors.Wrap(err, "decode document")
	}
	d.Raw = append(json.RawMessage(nil), raw...)
	return d, nil
}
