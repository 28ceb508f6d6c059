package dataaccess

const (
	// mongoDatabase is the database audit records are written to.
	mongoDatabase = "den"

	setupRunsCollection    = "setup_runs"
	ticketEventsCollection = "ticket_events"
)
