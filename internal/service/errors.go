package service

import "errors"

var (
	// ErrUnknownItemType is returned when a quote references an item type
	// with no active pricing rule.
	ErrUnknownItemType = errors.New("unknown item type")

	// ErrInvalidTransition is returned when a job lifecycle transition is
	// not permitted from the current state. Job state is left unchanged.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrDuplicateTransition is returned when a transition would set a
	// lifecycle timestamp that has already been set.
	ErrDuplicateTransition = errors.New("duplicate transition")

	// ErrNoCandidatesFound is returned when dispatch matching finds no
	// online approved contractor within the search radius.
	ErrNoCandidatesFound = errors.New("no candidates found")

	// ErrConcurrentModification is returned when a job mutation lost the
	// race against a concurrent transition. Callers retry with fresh state.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrEmptyItems is returned when a booking or quote has no line items.
	ErrEmptyItems = errors.New("at least one item is required")

	// ErrInvalidQuantity is returned when a line item quantity is not
	// positive.
	ErrInvalidQuantity = errors.New("item quantity must be positive")

	// ErrInvalidLocation is returned when coordinates are out of range.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidAddress is returned when the pickup address is empty.
	ErrInvalidAddress = errors.New("address is required")

	// ErrInvalidStars is returned when a rating is outside 1..5.
	ErrInvalidStars = errors.New("stars must be between 1 and 5")

	// ErrJobNotCompleted is returned when rating a job that has not
	// reached the completed state.
	ErrJobNotCompleted = errors.New("job is not completed")

	// ErrNotJobParticipant is returned when the rater is neither the
	// customer nor the assigned driver of the job.
	ErrNotJobParticipant = errors.New("user is not a participant of this job")

	// ErrDriverRequired is returned when an assignment is requested
	// without a driver.
	ErrDriverRequired = errors.New("driver id is required")

	// ErrDriverNotAssignedToJob is returned when a driver acts on a job
	// assigned to someone else.
	ErrDriverNotAssignedToJob = errors.New("driver not assigned to this job")

	// ErrContractorNotApproved is returned when a contractor who is not
	// approved attempts to receive or work a job.
	ErrContractorNotApproved = errors.New("contractor not approved")

	// ErrCandidateUnavailable is returned when a selected candidate is no
	// longer online or approved at commit time. Callers retry matching.
	ErrCandidateUnavailable = errors.New("candidate no longer available")

	// ErrInvalidMultiplier is returned when a surge zone multiplier is
	// below 1.0.
	ErrInvalidMultiplier = errors.New("multiplier must be at least 1.0")

	// ErrInvalidBoundary is returned when a surge zone polygon has fewer
	// than three vertices.
	ErrInvalidBoundary = errors.New("boundary must have at least 3 vertices")

	// ErrInvalidBasePrice is returned when a pricing rule base price is
	// negative.
	ErrInvalidBasePrice = errors.New("base price must not be negative")

	// ErrCancellationReasonRequired is returned when a cancellation has no
	// reason.
	ErrCancellationReasonRequired = errors.New("cancellation reason is required")
)
