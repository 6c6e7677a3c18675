package database

// Timestamps are kept as the raw "YYYY-MM-DD HH:MM:SS" UTC strings SQLite
// writes for CURRENT_TIMESTAMP, so API responses carry them through
// unchanged. view_count is never stored; it is always derived from the
// analytics log at query time.

type Invitation struct {
	ID                int64   `json:"id"`
	Slug              string  `json:"slug"`
	Name              string  `json:"name"`
	Lastname          string  `json:"lastname"`
	SecondaryName     *string `json:"secondary_name"`
	SecondaryLastname *string `json:"secondary_lastname"`
	NumberOfPasses    int     `json:"number_of_passes"`
	IsConfirmed       bool    `json:"is_confirmed"`
	IsActive          bool    `json:"is_active"`
	ViewCount         int64   `json:"view_count"`
	RSVPCount         int     `json:"rsvp_count"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

type AnalyticsEvent struct {
	ID           int64   `json:"id"`
	InvitationID *int64  `json:"invitation_id"`
	EventType    string  `json:"event_type"`
	EventData    *string `json:"event_data"`
	IPAddress    *string `json:"ip_address"`
	UserAgent    *string `json:"user_agent"`
	Referrer     *string `json:"referrer"`
	Timestamp    string  `json:"timestamp"`
}

// ActivityEntry is an analytics row left-joined against its invitation.
// Guest fields are nil when the event never resolved to an invitation.
type ActivityEntry struct {
	ID                int64   `json:"id"`
	Timestamp         string  `json:"timestamp"`
	IPAddress         *string `json:"ip_address"`
	UserAgent         *string `json:"user_agent"`
	EventType         string  `json:"event_type"`
	EventData         *string `json:"event_data"`
	Name              *string `json:"name"`
	Lastname          *string `json:"lastname"`
	Slug              *string `json:"slug"`
	SecondaryName     *string `json:"secondary_name"`
	SecondaryLastname *string `json:"secondary_lastname"`
}

type AdminUser struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	Role         string  `json:"role"`
	IsActive     bool    `json:"is_active"`
	CreatedAt    string  `json:"created_at"`
	LastLogin    *string `json:"last_login"`
}

type Session struct {
	ID        string `json:"id"`
	UserID    int64  `json:"user_id"`
	ExpiresAt string `json:"expires_at"`
	CreatedAt string `json:"created_at"`
}

// Settings is the singleton invitation_settings row applied to every
// invitation.
type Settings struct {
	ID                  int64   `json:"id"`
	EventDate           *string `json:"event_date"`
	EventTime           *string `json:"event_time"`
	RSVPEnabled         bool    `json:"rsvp_enabled"`
	RSVPDeadline        *string `json:"rsvp_deadline"`
	RSVPPhone           *string `json:"rsvp_phone"`
	RSVPWhatsapp        *string `json:"rsvp_whatsapp"`
	IsPublished         bool    `json:"is_published"`
	ThankYouPageEnabled bool    `json:"thank_you_page_enabled"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

// GuestMessage is a visible message event joined with its invitation slug.
type GuestMessage struct {
	AnalyticsID    int64   `json:"analytics_id"`
	GuestName      string  `json:"guest_name"`
	Message        string  `json:"message"`
	InvitationSlug *string `json:"invitation_slug"`
	Timestamp      string  `json:"timestamp"`
}
