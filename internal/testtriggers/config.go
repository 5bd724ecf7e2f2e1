package testtriggers

import "time"

// Config holds configuration for the trigger test
type Config struct {
	BaseURL    string        // Base URL of the service
	NumMembers int           // Number of synthetic members
	NumWeeks   int           // Weeks of session history to simulate
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	LogFile    string        // Log file for test output
	Verbose    bool          // Enable verbose logging
}

// Trigger mirrors the wire format of POST /triggers.
type Trigger struct {
	DeliveryID string             `json:"delivery_id"`
	PersonID   string             `json:"person_id"`
	Kind       string             `json:"kind"`
	RSVP       *RSVPContext       `json:"rsvp,omitempty"`
	Attendance *AttendanceContext `json:"attendance,omitempty"`
}

// EventContext mirrors the event block of a trigger payload.
type EventContext struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Title       string `json:"title,omitempty"`
	Location    string `json:"location,omitempty"`
	StartsAt    string `json:"starts_at"`
	VisibleFrom string `json:"visible_from,omitempty"`
}

// RSVPContext mirrors the rsvp block of a trigger payload.
type RSVPContext struct {
	Event       EventContext `json:"event"`
	Response    string       `json:"response"`
	RespondedAt string       `json:"responded_at"`
}

// AttendanceContext mirrors the attendance block of a trigger payload.
type AttendanceContext struct {
	Event       EventContext `json:"event"`
	Status      string       `json:"status"`
	CheckedInAt string       `json:"checked_in_at"`
}

// TriggerResponse represents the response from trigger submission.
type TriggerResponse struct {
	Granted   []string `json:"granted"`
	Duplicate bool     `json:"duplicate"`
}

// Stats holds test statistics
type Stats struct {
	TriggersGenerated  int
	TriggersSubmitted  int
	TriggersSuccessful int
	TriggersDuplicate  int
	TriggersFailed     int
	AwardsGranted      int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
