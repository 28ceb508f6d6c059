package messages

const (
	// ErrUserErrorProcessing is shown to a user when their request could not be processed.
	ErrUserErrorProcessing = "There was an error processing your request. Please try again later."

	// ErrNotAdministrator is shown when a non-administrator runs the setup command.
	ErrNotAdministrator = "Only administrators can run `%ssetup`."

	// ErrNotAdministratorConfirm is shown when a non-administrator presses a setup confirmation button.
	ErrNotAdministratorConfirm = "Only administrators can confirm setup."

	// ErrMissingPermission is shown when a member lacks the capability a command needs.
	ErrMissingPermission = "You do not have permission to use this command."

	// ErrNotTicketChannel is shown when the close button is pressed outside a ticket.
	ErrNotTicketChannel = "This is not a ticket channel."

	// ErrUnknownTicketType is shown when a ticket button carries an unknown category.
	ErrUnknownTicketType = "Unknown ticket type."
)

const (
	SetupStarting  = "Starting full server setup..."
	SetupCancelled = "Setup cancelled."
	SetupFailed    = "An error occurred during setup. Check console logs."

	StatusDeletingChannels = "Deleting channels and categories..."
	StatusDeletingRoles    = "Deleting manageable roles..."
	StatusCreatingRoles    = "Creating roles..."
	StatusCreatingChannels = "Creating channels..."
	StatusPostingContent   = "Posting rules and ticket menu..."
)

const (
	// TicketExisting points the user at their already open ticket.
	TicketExisting = "You already have an open ticket: <#%s>"

	// TicketCreated points the user at their new ticket.
	TicketCreated = "Your ticket has been created: <#%s>"

	// TicketClosing acknowledges a close request.
	TicketClosing = "Closing ticket in 5 seconds..."
)

const (
	BanNoMention  = "Please mention a user to ban."
	BanDone       = "\U0001F528 Banned %s | Reason: %s"
	BanFailed     = "I could not ban this user."
	KickNoMention = "Please mention a user to kick."
	KickDone      = "\U0001F462 Kicked %s | Reason: %s"
	KickFailed    = "I could not kick this user."
	ClearInvalid  = "Please provide a number between 1 and 100."
	ClearDone     = "\U0001F9F9 Deleted %d messages."
	ClearFailed   = "I could not delete messages in this channel."

	// DefaultReason is used for moderation actions without a reason.
	DefaultReason = "No reason provided"
)
