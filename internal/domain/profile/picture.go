package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

type PictureKind string

const (
	PictureUnset   PictureKind = "unset"
	PicturePending PictureKind = "pending"
	PictureStored  PictureKind = "stored"
)

// Picture is either unset, a file waiting to be uploaded, or the URL of an uploaded file.
// The zero value is unset.
type Picture struct {
	kind     PictureKind
	data     []byte
	filename string
	url      string
}

func NoPicture() Picture {
	return Picture{}
}

func PendingPicture(data []byte, filename string) Picture {
	return Picture{kind: PicturePending, data: data, filename: filename}
}

// StoredPicture wraps a public URL. An empty URL is the same as no picture.
func StoredPicture(url string) Picture {
	if url == "" {
		return Picture{}
	}
	return Picture{kind: PictureStored, url: url}
}

func (p Picture) Kind() PictureKind {
	if p.kind == "" {
		return PictureUnset
	}
	return p.kind
}

func (p Picture) Pending() (data []byte, filename string, ok bool) {
	if p.kind != PicturePending {
		return nil, "", false
	}
	return p.data, p.filename, true
}

func (p Picture) URL() (string, bool) {
	if p.kind != PictureStored {
		return "", false
	}
	return p.url, true
}

func (p Picture) Equal(o Picture) bool {
	return p.Kind() == o.Kind() &&
		p.url == o.url &&
		p.filename == o.filename &&
		bytes.Equal(p.data, o.data)
}

type pictureJSON struct {
	Kind     PictureKind `json:"kind"`
	Filename string      `json:"filename,omitempty"`
	Data     []byte      `json:"data,omitempty"`
	URL      string      `json:"url,omitempty"`
}

var errUnknownPictureKind = errors.New("unknown picture kind")

func (p Picture) MarshalJSON() ([]byte, error) {
	return json.Marshal(pictureJSON{
		Kind:     p.Kind(),
		Filename: p.filename,
		Data:     p.data,
		URL:      p.url,
	})
}

func (p *Picture) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = NoPicture()
		return nil
	}
	var raw pictureJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case "", PictureUnset:
		*p = NoPicture()
	case PicturePending:
		*p = PendingPicture(raw.Data, raw.Filename)
	case PictureStored:
		*p = StoredPicture(raw.URL)
	default:
		return fmt.Errorf("%w: %q", errUnknownPictureKind, raw.Kind)
	}
	return nil
}
