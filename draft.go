package bizgen

import (
	"fmt"
	"io"
	"strings"

	"github.com/akeil/bizgen/internal/logging"
)

// Drafts keeps unsaved deck text and the pending image generation flag
// for presentations, backed by a Cache.
type Drafts struct {
	cache Cache
}

// NewDrafts creates a draft store on top of the given cache.
func NewDrafts(c Cache) *Drafts {
	return &Drafts{cache: c}
}

func draftKey(id int) string {
	return fmt.Sprintf("presentation_xml:%d", id)
}

func autoImagesKey(id int) string {
	return fmt.Sprintf("auto_generate_images:%d", id)
}

// Load returns the stored draft text for a presentation.
// The boolean is false if there is no draft.
func (d *Drafts) Load(id int) (string, bool, error) {
	r, err := d.cache.Get(draftKey(id))
	if err != nil {
		if IsNotFound(err) {
			return "", false, nil
		}
		return "", false, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

// Save stores the draft text for a presentation.
func (d *Drafts) Save(id int, text string) error {
	return d.cache.Put(draftKey(id), strings.NewReader(text))
}

// Discard removes the draft for a presentation.
func (d *Drafts) Discard(id int) error {
	return d.cache.Delete(draftKey(id))
}

// RequestImages marks a presentation so that its slide images are
// generated the next time it is opened.
func (d *Drafts) RequestImages(id int) error {
	return d.cache.Put(autoImagesKey(id), strings.NewReader("true"))
}

// TakeImageRequest tells if images were requested for the presentation
// and clears the request.
func (d *Drafts) TakeImageRequest(id int) (bool, error) {
	key := autoImagesKey(id)
	r, err := d.cache.Get(key)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	data, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		return false, err
	}

	err = d.cache.Delete(key)
	if err != nil {
		logging.Warning("Failed to clear image request for %d: %v", id, err)
		return false, err
	}
	return strings.TrimSpace(string(data)) == "true", nil
}
