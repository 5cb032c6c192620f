package services

// Services defined in this package:
// - EventService: Handles the schedulable event catalog and occurrence expansion
// - SchedulingService: Handles registration, cancellation, rescheduling and attendance
// - GenerationService: Handles AI-assisted content drafting for the workspace
