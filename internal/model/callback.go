package model

// CallbackStatus is the document lifecycle status reported by the editor in a
// callback notification. The values are fixed by the editor's protocol.
type CallbackStatus int

const (
	// StatusNotFound: the editor could not find a document with the given key.
	StatusNotFound CallbackStatus = 0
	// StatusEditing: a user entered or exited the editing session.
	StatusEditing CallbackStatus = 1
	// StatusMustSave: the document is ready to be saved.
	StatusMustSave CallbackStatus = 2
	// StatusCorrupted: saving failed on the editor side; the recovered
	// document must still be saved.
	StatusCorrupted CallbackStatus = 3
	// StatusNoChanges: the document is closed with no changes.
	StatusNoChanges CallbackStatus = 4
	// StatusMustForceSave: a force save was requested.
	StatusMustForceSave CallbackStatus = 6
	// StatusCorruptedForceSave: a force save of a corrupted document.
	StatusCorruptedForceSave CallbackStatus = 7
)

// CallbackStatuses lists every status the protocol defines. Used to assert the
// dispatcher handles all of them.
func CallbackStatuses() []CallbackStatus {
	return []CallbackStatus{
		StatusNotFound,
		StatusEditing,
		StatusMustSave,
		StatusCorrupted,
		StatusNoChanges,
		StatusMustForceSave,
		StatusCorruptedForceSave,
	}
}

// RequiresSave reports whether a notification with this status must run the
// save pipeline. Force saves persist identically to normal saves.
func (s CallbackStatus) RequiresSave() bool {
	switch s {
	case StatusMustSave, StatusCorrupted, StatusMustForceSave, StatusCorruptedForceSave:
		return true
	}
	return false
}

// CallbackNotification is the editor's asynchronous status report. It is
// untrusted until the authenticator has verified it.
type CallbackNotification struct {
	Key    string         `json:"key"`
	Status CallbackStatus `json:"status"`
	// URL points at the edited file bytes for save statuses.
	URL   string   `json:"url"`
	Users []string `json:"users,omitempty"`
	// Token is the signed form of this notification when the editor is
	// configured to deliver it in the body.
	Token string `json:"token,omitempty"`
}

// CallbackResponse is the protocol-mandated acknowledgement envelope.
type CallbackResponse struct {
	Error   int    `json:"error"`
	Message string `json:"message,omitempty"`
}
