package model

// SessionConfig is the signed editing-session descriptor handed to the
// external editor. The field shapes follow the editor's expected config
// object and must not be renamed.
type SessionConfig struct {
	Type         string             `json:"type"`
	DocumentType string             `json:"documentType"`
	Document     SessionDocument    `json:"document"`
	EditorConfig SessionEditorBlock `json:"editorConfig"`
	// Token is the HMAC-signed form of this config, present only when
	// signing is enabled.
	Token string `json:"token,omitempty"`
}

// SessionDocument describes the file being opened.
type SessionDocument struct {
	Title       string             `json:"title"`
	URL         string             `json:"url"`
	FileType    string             `json:"fileType"`
	Key         string             `json:"key"`
	Permissions SessionPermissions `json:"permissions"`
}

// SessionPermissions carries the resolved edit right for this session.
type SessionPermissions struct {
	Edit bool `json:"edit"`
}

// SessionEditorBlock configures the editor frame for one user.
type SessionEditorBlock struct {
	Mode          string               `json:"mode"`
	Lang          string               `json:"lang"`
	CallbackURL   string               `json:"callbackUrl"`
	User          SessionUser          `json:"user"`
	Customization SessionCustomization `json:"customization"`
}

// SessionUser identifies the requesting user to the editor.
type SessionUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SessionCustomization holds editor behavior toggles.
type SessionCustomization struct {
	Forcesave bool `json:"forcesave"`
}

// SessionEnvelope is the response of the session endpoint: the editor host the
// client should load the editor API from, plus the per-document config.
type SessionEnvelope struct {
	Config    SessionHostConfig `json:"config"`
	ID        string            `json:"id"`
	DocConfig SessionConfig     `json:"doc_config"`
}

// SessionHostConfig tells the client where the editor is served from.
type SessionHostConfig struct {
	DSHost string `json:"ds_host"`
}
