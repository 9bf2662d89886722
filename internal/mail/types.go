package mail

// EmailAddress is a name/address pair as used in message recipients.
type EmailAddress struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
}

// Recipient wraps an email address the way the Graph API nests it.
type Recipient struct {
	EmailAddress EmailAddress `json:"emailAddress"`
}

// ItemBody is a message or event body with its content type.
type ItemBody struct {
	// ContentType is "text" or "html".
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// Message represents a mail message.
type Message struct {
	// ID is the unique identifier for the message
	ID string `json:"id"`

	// Subject is the message subject line
	Subject string `json:"subject"`

	// BodyPreview is the first few hundred characters of the body as text
	BodyPreview string `json:"bodyPreview,omitempty"`

	// Body is the full message body (only populated on single-message reads)
	Body *ItemBody `json:"body,omitempty"`

	// From is the sender
	From *Recipient `json:"from,omitempty"`

	// ToRecipients are the To addressees
	ToRecipients []Recipient `json:"toRecipients,omitempty"`

	// CcRecipients are the Cc addressees
	CcRecipients []Recipient `json:"ccRecipients,omitempty"`

	// ReceivedDateTime is when the message arrived, RFC 3339
	ReceivedDateTime string `json:"receivedDateTime,omitempty"`

	// IsRead indicates whether the message has been read
	IsRead bool `json:"isRead"`

	// HasAttachments indicates whether the message carries attachments
	HasAttachments bool `json:"hasAttachments"`

	// ParentFolderID is the ID of the containing mail folder
	ParentFolderID string `json:"parentFolderId,omitempty"`

	// WebLink opens the message in Outlook on the web
	WebLink string `json:"webLink,omitempty"`
}

// Folder represents a mail folder.
type Folder struct {
	// ID is the unique identifier for the folder
	ID string `json:"id"`

	// DisplayName is the folder name shown to the user
	DisplayName string `json:"displayName"`

	// TotalItemCount is the number of items in the folder
	TotalItemCount int64 `json:"totalItemCount"`

	// UnreadItemCount is the number of unread items in the folder
	UnreadItemCount int64 `json:"unreadItemCount"`
}

// Attachment represents a file attached to a message.
type Attachment struct {
	// ID is the unique identifier for the attachment
	ID string `json:"id"`

	// Name is the attachment file name
	Name string `json:"name"`

	// ContentType is the MIME type of the attachment
	ContentType string `json:"contentType"`

	// Size is the attachment size in bytes
	Size int64 `json:"size"`

	// ContentBytes is the base64-encoded content (only populated on
	// single-attachment reads)
	ContentBytes string `json:"contentBytes,omitempty"`
}

// ListOptions controls message listing.
type ListOptions struct {
	// Folder is the well-known folder name or folder ID to list. Empty
	// means the whole mailbox.
	Folder string

	// Query is a free-text search expression. Searched listings cannot be
	// combined with an unread filter.
	Query string

	// UnreadOnly restricts the listing to unread messages.
	UnreadOnly bool

	// MaxResults caps the total number of messages returned across pages.
	// Zero means no cap.
	MaxResults int
}

// Profile is the signed-in user's directory record.
type Profile struct {
	// ID is the unique identifier for the user
	ID string `json:"id"`

	// DisplayName is the user's full name
	DisplayName string `json:"displayName"`

	// Mail is the user's primary email address
	Mail string `json:"mail,omitempty"`

	// UserPrincipalName is the sign-in name, usually equal to Mail
	UserPrincipalName string `json:"userPrincipalName,omitempty"`

	// JobTitle is the user's job title
	JobTitle string `json:"jobTitle,omitempty"`
}

// AutomaticReplies holds the mailbox's out-of-office configuration.
type AutomaticReplies struct {
	// Status is "disabled", "alwaysEnabled" or "scheduled"
	Status string `json:"status"`

	// InternalReplyMessage is sent to senders inside the organization
	InternalReplyMessage string `json:"internalReplyMessage,omitempty"`

	// ExternalReplyMessage is sent to senders outside the organization
	ExternalReplyMessage string `json:"externalReplyMessage,omitempty"`
}

// MailboxSettings holds the user's mailbox configuration.
type MailboxSettings struct {
	// TimeZone is the mailbox's display time zone
	TimeZone string `json:"timeZone,omitempty"`

	// Language is the mailbox's locale
	Language struct {
		Locale      string `json:"locale,omitempty"`
		DisplayName string `json:"displayName,omitempty"`
	} `json:"language,omitempty"`

	// AutomaticRepliesSetting is the out-of-office configuration
	AutomaticRepliesSetting *AutomaticReplies `json:"automaticRepliesSetting,omitempty"`
}

// SendInput describes a message to send.
type SendInput struct {
	To       []string
	Cc       []string
	Bcc      []string
	Subject  string
	Body     string
	BodyHTML bool
}
