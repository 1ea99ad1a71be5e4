// Package domain contains the core data types shared across the application.
package domain

// SimilarityReport holds the per-attribute similarity ratios between two
// messages, plus the aggregated effective ratio used for the duplicate
// decision. All ratios are in [0, 1].
type SimilarityReport struct {
	Gallery   float64 `json:"gallery"`
	Media     float64 `json:"media"`
	Link      float64 `json:"link"`
	Text      float64 `json:"text"`
	Effective float64 `json:"effective"`
}

// RecentMessage is the unit stored in the recent-message window and compared
// against incoming messages.
//
// All fields except the relation bookkeeping (DuplicateOf, HasDuplicate,
// Relations) are immutable after creation.
type RecentMessage struct {
	ID int64 `json:"id"`

	// Text is the normalized message text or caption (emoji stripped).
	Text string `json:"text,omitempty"`

	// Link is the first URL found in the original text, if any.
	Link string `json:"link,omitempty"`

	// MediaID is the stable, content-addressed identifier of an attached
	// media file (not the transient message-bound reference).
	MediaID string `json:"media_id,omitempty"`

	// MediaGroupID groups the message into a multi-item gallery.
	MediaGroupID string `json:"media_group_id,omitempty"`

	// DuplicateOf lists ids of earlier messages this one was found to duplicate.
	DuplicateOf []int64 `json:"duplicate_of,omitempty"`

	// HasDuplicate lists ids of later messages found to duplicate this one.
	HasDuplicate []int64 `json:"has_duplicate,omitempty"`

	// Relations maps another message id to the similarity report computed
	// against it. Grows monotonically while the record resides in the window.
	Relations map[int64]SimilarityReport `json:"relations,omitempty"`
}

// NewRecentMessage creates a record with a freshly constructed relation map.
// The map must never be shared between records.
func NewRecentMessage(id int64, text, link, mediaID, mediaGroupID string) *RecentMessage {
	return &RecentMessage{
		ID:           id,
		Text:         text,
		Link:         link,
		MediaID:      mediaID,
		MediaGroupID: mediaGroupID,
		Relations:    make(map[int64]SimilarityReport),
	}
}

// HasContent reports whether the record carries anything comparable.
func (m *RecentMessage) HasContent() bool {
	return m.Text != "" || m.Link != "" || m.MediaID != "" || m.MediaGroupID != ""
}
